package draw

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/errors"
	"github.com/victornm/drawboard/internal/event"
)

// Policy selects the bookkeeping applied when a winner is revealed.
type Policy struct {
	// Activation models a per-round activation set on top of the pool.
	Activation bool
	// RemoveWinner drops the winner from the pool on reveal.
	RemoveWinner bool
	// ClearActiveOnReveal deactivates every member on reveal.
	ClearActiveOnReveal bool
	// Resettable offers Reset from Revealed back to Idle.
	Resettable bool
}

// Observer receives engine events. *event.Bus satisfies it.
type Observer interface {
	Publish(ctx context.Context, e event.Event)
}

type Options struct {
	Variant  domain.Variant
	Policy   Policy
	Duration time.Duration
	Schedule Schedule

	// PreviewCue is played whenever the previewed candidate changes.
	PreviewCue domain.Cue
	// RevealCue is played once the winner is known.
	RevealCue domain.Cue

	Rand     Rand
	Cues     CuePlayer
	Fallback CuePlayer
	Observer Observer
}

// Engine is the draw state machine of one board. It is a single logical
// actor: callers serialize access (see Runner).
type Engine struct {
	o    Options
	pool *Pool

	state      domain.DrawState
	candidates []string
	preview    int
	winner     string
	muted      bool
}

func NewEngine(o Options) *Engine {
	if o.Schedule == nil {
		o.Schedule = Stepped{Interval: 100 * time.Millisecond}
	}
	if o.Fallback == nil {
		o.Fallback = LogCues
	}
	if o.Rand == nil {
		o.Rand = defaultRand()
	}

	return &Engine{
		o:       o,
		pool:    NewPool(o.Policy.Activation),
		state:   domain.DrawIdle,
		preview: -1,
	}
}

func (e *Engine) Pool() *Pool { return e.pool }

func (e *Engine) Variant() domain.Variant { return e.o.Variant }

func (e *Engine) Duration() time.Duration { return e.o.Duration }

func (e *Engine) State() domain.DrawState { return e.state }

// Winner returns the revealed winner, or "" unless the session is Revealed.
func (e *Engine) Winner() string {
	if e.state != domain.DrawRevealed {
		return ""
	}
	return e.winner
}

// Preview returns the candidate currently shown while Running.
func (e *Engine) Preview() string {
	if e.state != domain.DrawRunning || e.preview < 0 {
		return ""
	}
	return e.candidates[e.preview]
}

func (e *Engine) EligibleCount() int {
	return len(e.pool.Eligible())
}

func (e *Engine) SetMuted(muted bool) { e.muted = muted }

func (e *Engine) Snapshot() domain.DrawSnapshot {
	return domain.DrawSnapshot{
		Variant:  e.o.Variant,
		State:    e.state,
		Preview:  e.Preview(),
		Winner:   e.Winner(),
		Eligible: e.EligibleCount(),
		Pool:     e.pool.IDs(),
		Active:   e.pool.Active(),
		History:  e.pool.History(),
		Muted:    e.muted,
	}
}

// StartDraw snapshots the eligible candidates and moves the session to
// Running. The session is left untouched on error.
func (e *Engine) StartDraw(ctx context.Context) error {
	if e.state == domain.DrawRunning {
		err := errors.From(errors.DrawAlreadyInProgress)
		e.notice(ctx, err)
		return err
	}

	candidates := e.pool.Eligible()
	if len(candidates) == 0 {
		err := errors.From(errors.NoEligibleCandidates,
			errors.WithMessagef("no eligible candidates: %s", e.pool.Reason()))
		e.notice(ctx, err)
		return err
	}

	e.state = domain.DrawRunning
	e.candidates = candidates
	e.preview = -1
	e.winner = ""

	slog.InfoContext(ctx, "draw: started", "variant", e.o.Variant, "candidates", len(candidates))
	e.publish(ctx, domain.EventDrawStarted{
		Variant:    e.o.Variant,
		Candidates: slices.Clone(candidates),
	})
	return nil
}

// Tick advances a running session to elapsed time since StartDraw. Once
// elapsed reaches the configured duration the draw is resolved; this happens
// exactly once per session. It returns the winner when this tick revealed
// one.
func (e *Engine) Tick(ctx context.Context, elapsed time.Duration) (string, bool) {
	if e.state != domain.DrawRunning {
		return "", false
	}

	if elapsed >= e.o.Duration {
		return e.resolve(ctx), true
	}

	i := e.o.Schedule.Index(elapsed, e.o.Duration, len(e.candidates))
	if i != e.preview {
		e.preview = i
		e.publish(ctx, domain.EventDrawPreviewed{
			Variant:   e.o.Variant,
			Index:     i,
			Candidate: e.candidates[i],
		})
		e.cue(ctx, e.o.PreviewCue)
	}
	return "", false
}

// resolve picks the winner independently of the preview and applies the
// history bookkeeping in the same step as the Revealed transition.
func (e *Engine) resolve(ctx context.Context) string {
	winner := Pick(e.o.Rand, e.candidates)

	e.pool.record(winner, e.o.Policy)
	e.winner = winner
	e.preview = slices.Index(e.candidates, winner)
	e.state = domain.DrawRevealed

	slog.InfoContext(ctx, "draw: revealed", "variant", e.o.Variant, "winner", winner)
	e.publish(ctx, domain.EventDrawRevealed{
		Variant: e.o.Variant,
		Winner:  winner,
		History: e.pool.History(),
	})
	e.cue(ctx, e.o.RevealCue)
	return winner
}

// Reset returns a revealed session to Idle. History is kept.
func (e *Engine) Reset(ctx context.Context) error {
	if !e.o.Policy.Resettable {
		return errors.From(errors.ResetUnsupported)
	}

	switch e.state {
	case domain.DrawRunning:
		err := errors.From(errors.DrawAlreadyInProgress)
		e.notice(ctx, err)
		return err
	case domain.DrawIdle:
		return nil
	}

	e.state = domain.DrawIdle
	e.winner = ""
	e.candidates = nil
	e.preview = -1

	e.publish(ctx, domain.EventDrawReset{Variant: e.o.Variant})
	return nil
}

// Cancel abandons a running session without resolving it.
func (e *Engine) Cancel(ctx context.Context) bool {
	if e.state != domain.DrawRunning {
		return false
	}

	e.state = domain.DrawIdle
	e.candidates = nil
	e.preview = -1

	slog.InfoContext(ctx, "draw: cancelled", "variant", e.o.Variant)
	e.publish(ctx, domain.EventDrawCancelled{Variant: e.o.Variant})
	return true
}

func (e *Engine) notice(ctx context.Context, err *errors.Error) {
	slog.InfoContext(ctx, "draw: notice", "variant", e.o.Variant, "kind", err.Kind(), "message", err.Message)
	e.publish(ctx, domain.EventNoticeRaised{
		Variant: e.o.Variant,
		Kind:    err.Kind(),
		Message: err.Message,
	})
}

func (e *Engine) cue(ctx context.Context, c domain.Cue) {
	if e.muted {
		return
	}
	PlayCue(ctx, e.o.Cues, e.o.Fallback, e.o.Variant, c)
}

func (e *Engine) publish(ctx context.Context, ev event.Event) {
	if e.o.Observer != nil {
		e.o.Observer.Publish(ctx, ev)
	}
}
