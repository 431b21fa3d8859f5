package dateutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	in := time.Date(2024, 5, 1, 19, 0, 0, 123_987_654, loc)

	out := Truncate(in)
	require.Equal(t, time.UTC, out.Location())
	require.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 123_000_000, time.UTC), out)

	require.Equal(t, 123_000_000, out.Nanosecond())
	require.Equal(t, out, Truncate(out))
}

func TestFixedClock(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	clock := NewFixedClock(time.Date(2024, 5, 1, 7, 0, 0, 0, loc))

	now, err := clock.Now(context.Background())
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), now)
}
