package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func Test_Score(t *testing.T) {
	end := start.Add(600 * time.Second)

	testCases := []struct {
		name    string
		now     time.Time
		max     uint64
		min     uint64
		want    uint64
		wantErr error
	}{
		{
			name: "at start",
			now:  start,
			max:  300,
			min:  50,
			want: 300,
		},
		{
			name: "half window",
			now:  start.Add(300 * time.Second),
			max:  300,
			min:  50,
			want: 175,
		},
		{
			name: "at end",
			now:  end,
			max:  300,
			min:  50,
			want: 50,
		},
		{
			name: "rounds to nearest",
			now:  start.Add(time.Second),
			max:  300,
			min:  50,
			want: 300,
		},
		{
			name: "flat score",
			now:  start.Add(123 * time.Second),
			max:  80,
			min:  80,
			want: 80,
		},
		{
			name:    "before start",
			now:     start.Add(-time.Nanosecond),
			max:     300,
			min:     50,
			wantErr: ErrNotStarted,
		},
		{
			name:    "after end",
			now:     end.Add(time.Nanosecond),
			max:     300,
			min:     50,
			wantErr: ErrClosed,
		},
		{
			name:    "min over max",
			now:     start,
			max:     10,
			min:     50,
			wantErr: ErrInvalidPoints,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.now, start, end, tt.max, tt.min)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_Score_InvalidWindow(t *testing.T) {
	_, err := Score(start, start, start, 100, 10)
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Score(start, start, start.Add(-time.Minute), 100, 10)
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func Test_Score_Monotonic(t *testing.T) {
	end := start.Add(7 * time.Minute)

	last := uint64(1000)
	for now := start; !now.After(end); now = now.Add(250 * time.Millisecond) {
		got, err := Score(now, start, end, 1000, 3)
		require.NoError(t, err)
		require.LessOrEqual(t, got, last)
		require.GreaterOrEqual(t, got, uint64(3))
		last = got
	}

	require.Equal(t, uint64(3), last)
}
