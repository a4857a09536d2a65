package draw_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/draw"
)

func TestPlayCue(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		primary      draw.CuePlayer
		wantFallback int
	}{
		"primary plays": {
			primary: draw.CuePlayerFunc(func(context.Context, domain.Variant, domain.Cue) error { return nil }),
		},
		"failing primary falls back": {
			primary: draw.CuePlayerFunc(func(context.Context, domain.Variant, domain.Cue) error {
				return errors.New("no audio device")
			}),
			wantFallback: 1,
		},
		"panicking primary falls back": {
			primary: draw.CuePlayerFunc(func(context.Context, domain.Variant, domain.Cue) error {
				panic("decoder crashed")
			}),
			wantFallback: 1,
		},
		"no primary is silent": {},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var fallbacks int
			fallback := draw.CuePlayerFunc(func(context.Context, domain.Variant, domain.Cue) error {
				fallbacks++
				return nil
			})

			assert.NotPanics(t, func() {
				draw.PlayCue(ctx, tt.primary, fallback, domain.VariantLucky, domain.CueWin)
			})
			assert.Equal(t, tt.wantFallback, fallbacks)
		})
	}
}

func TestObserverCues(t *testing.T) {
	rec := &recorder{}
	draw.PlayCue(context.Background(), draw.ObserverCues(rec), nil, domain.VariantLottery, domain.CueFanfare)

	assert.Equal(t, []domain.EventCuePlayed{{Variant: domain.VariantLottery, Cue: domain.CueFanfare}}, eventsOf[domain.EventCuePlayed](rec))
}
