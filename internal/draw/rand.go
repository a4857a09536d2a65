package draw

import (
	"log/slog"
	"math/rand/v2"

	"github.com/victornm/drawboard/internal/random"
)

// Rand is the randomness source used for resolution and shuffling.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Pick returns one candidate chosen uniformly at random. candidates must not
// be empty.
func Pick(r Rand, candidates []string) string {
	return candidates[r.IntN(len(candidates))]
}

// Shuffle permutes s in place (Fisher-Yates).
func Shuffle[T any](r Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

func defaultRand() Rand {
	r, err := random.New()
	if err != nil {
		slog.Warn("draw: crypto seed unavailable, using the runtime generator", "error", err)
		return globalRand{}
	}
	return r
}
