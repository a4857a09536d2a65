package draw

import (
	"time"

	"github.com/victornm/drawboard/internal/domain"
)

const (
	LuckyDrawDuration = 6 * time.Second
	LotteryDuration   = 10 * time.Second
	QuizPickDuration  = 3 * time.Second

	luckyDrawSpins   = 30
	drumrollInterval = 150 * time.Millisecond
	quizPickInterval = 120 * time.Millisecond
)

// Preset returns the options of a board variant: a roulette over the active
// non-winners for the lucky draw, a drumroll over a fixed list for the
// lottery, and a quick shuffle over the open cards for the quiz.
// Callers fill in Rand, Cues and Observer.
func Preset(v domain.Variant) Options {
	switch v {
	case domain.VariantLucky:
		return Options{
			Variant: v,
			Policy: Policy{
				Activation:          true,
				RemoveWinner:        true,
				ClearActiveOnReveal: true,
			},
			Duration:   LuckyDrawDuration,
			Schedule:   EaseOutSpin{Spins: luckyDrawSpins},
			PreviewCue: domain.CueTick,
			RevealCue:  domain.CueWin,
		}
	case domain.VariantLottery:
		return Options{
			Variant:    v,
			Policy:     Policy{Resettable: true},
			Duration:   LotteryDuration,
			Schedule:   Stepped{Interval: drumrollInterval},
			PreviewCue: domain.CueDrumroll,
			RevealCue:  domain.CueFanfare,
		}
	default:
		return Options{
			Variant:    domain.VariantQuiz,
			Policy:     Policy{Resettable: true},
			Duration:   QuizPickDuration,
			Schedule:   Stepped{Interval: quizPickInterval},
			PreviewCue: domain.CueTick,
			RevealCue:  domain.CueClick,
		}
	}
}
