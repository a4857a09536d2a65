package draw

import (
	"math"
	"time"
)

// Schedule maps elapsed time to the candidate index shown while a draw runs.
// It is purely cosmetic.
type Schedule interface {
	Index(elapsed, duration time.Duration, n int) int
}

// EaseOutSpin decelerates through Spins positions over the draw duration,
// like a roulette wheel coming to rest.
type EaseOutSpin struct {
	Spins int
}

func (s EaseOutSpin) Index(elapsed, duration time.Duration, n int) int {
	if n <= 0 || duration <= 0 {
		return 0
	}

	p := min(max(float64(elapsed)/float64(duration), 0), 1)
	eased := 1 - math.Pow(1-p, 3)
	return int(math.Floor(eased*float64(s.Spins))) % n
}

// Stepped moves to the next candidate every Interval.
type Stepped struct {
	Interval time.Duration
}

func (s Stepped) Index(elapsed, _ time.Duration, n int) int {
	if n <= 0 || s.Interval <= 0 || elapsed < 0 {
		return 0
	}

	return int(elapsed/s.Interval) % n
}
