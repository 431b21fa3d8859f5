package common

// Batch cuts the first n items off *a and returns them. The returned slice
// shares memory with *a, do not write on it.
func Batch[T any](a *[]T, n int) []T {
	if len(*a) > n {
		batch := (*a)[:n]
		*a = (*a)[n:]
		return batch
	}

	b := *a
	*a = (*a)[:0]
	return b
}
