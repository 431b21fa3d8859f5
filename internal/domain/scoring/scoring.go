package scoring

import (
	"errors"
	"math"
	"time"
)

var (
	ErrNotStarted    = errors.New("trivia has not started")
	ErrClosed        = errors.New("trivia is closed")
	ErrInvalidWindow = errors.New("invalid trivia window")
	ErrInvalidPoints = errors.New("points max must not be less than points min")
)

// Score returns the points a correct answer submitted at now earns. It decays
// linearly from max at start to min at end, both ends inclusive.
func Score(now, start, end time.Time, max, min uint64) (uint64, error) {
	if !end.After(start) {
		return 0, ErrInvalidWindow
	}

	if max < min {
		return 0, ErrInvalidPoints
	}

	if now.Before(start) {
		return 0, ErrNotStarted
	}

	if now.After(end) {
		return 0, ErrClosed
	}

	if now.Equal(start) {
		return max, nil
	}

	if now.Equal(end) {
		return min, nil
	}

	fraction := float64(now.Sub(start)) / float64(end.Sub(start))
	score := math.Round(float64(max) - float64(max-min)*fraction)

	// Float rounding must never leave [min, max].
	if score > float64(max) {
		return max, nil
	}

	if score < float64(min) {
		return min, nil
	}

	return uint64(score), nil
}
