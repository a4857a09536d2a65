package draw

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/victornm/drawboard/internal/domain"
)

// CuePlayer renders a feedback cue. Playing is best effort.
type CuePlayer interface {
	Play(ctx context.Context, variant domain.Variant, c domain.Cue) error
}

type CuePlayerFunc func(ctx context.Context, variant domain.Variant, c domain.Cue) error

func (f CuePlayerFunc) Play(ctx context.Context, variant domain.Variant, c domain.Cue) error {
	return f(ctx, variant, c)
}

// LogCues writes cues to the default logger. It is the fallback player.
var LogCues = CuePlayerFunc(func(ctx context.Context, variant domain.Variant, c domain.Cue) error {
	slog.DebugContext(ctx, "draw: cue", "variant", variant, "cue", c)
	return nil
})

// ObserverCues turns cues into cue.played events for the displays.
func ObserverCues(o Observer) CuePlayer {
	return CuePlayerFunc(func(ctx context.Context, variant domain.Variant, c domain.Cue) error {
		o.Publish(ctx, domain.EventCuePlayed{Variant: variant, Cue: c})
		return nil
	})
}

// PlayCue never fails and never panics: a failing primary falls back once,
// everything else is swallowed.
func PlayCue(ctx context.Context, primary, fallback CuePlayer, variant domain.Variant, c domain.Cue) {
	if c == "" || primary == nil {
		return
	}

	err := safePlay(ctx, primary, variant, c)
	if err == nil {
		return
	}

	slog.DebugContext(ctx, "draw: cue playback failed", "variant", variant, "cue", c, "error", err)
	if fallback != nil {
		_ = safePlay(ctx, fallback, variant, c)
	}
}

func safePlay(ctx context.Context, p CuePlayer, variant domain.Variant, c domain.Cue) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cue player panic: %v", r)
		}
	}()

	return p.Play(ctx, variant, c)
}
