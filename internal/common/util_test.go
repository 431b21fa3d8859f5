package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	a := []int{1, 2, 3, 4, 5}

	require.Equal(t, []int{1, 2}, Batch(&a, 2))
	require.Equal(t, []int{3, 4}, Batch(&a, 2))
	require.Equal(t, []int{5}, Batch(&a, 2))
	require.Empty(t, Batch(&a, 2))
	require.Empty(t, a)
}
