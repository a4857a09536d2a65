package draw

import (
	"context"
	"sync"
	"time"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/loop"
)

type RunnerConfig struct {
	Engine *Engine
	Loop   loop.Config
	// OnReveal is called after a tick revealed a winner, outside the runner
	// lock.
	OnReveal func(ctx context.Context, winner string)
}

// Runner hosts an Engine: it serializes every call into it and drives Tick
// from a ticker while a session is running.
type Runner struct {
	mu       sync.Mutex
	e        *Engine
	closed   bool
	onReveal func(ctx context.Context, winner string)

	loop   *loop.Loop
	ctx    context.Context
	cancel context.CancelFunc
}

func NewRunner(c RunnerConfig) *Runner {
	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		e:        c.Engine,
		onReveal: c.OnReveal,
		loop:     loop.New(c.Loop),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *Runner) Variant() domain.Variant { return r.e.Variant() }

func (r *Runner) Snapshot() domain.DrawSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.e.Snapshot()
}

func (r *Runner) EligibleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.e.EligibleCount()
}

func (r *Runner) Add(ids ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, id := range ids {
		if r.e.Pool().Add(id) {
			n++
		}
	}
	return n
}

func (r *Runner) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.e.Pool().Remove(id)
}

func (r *Runner) ToggleActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.e.Pool().ToggleActive(id)
}

func (r *Runner) SetAllActive(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.e.Pool().SetAllActive(on)
}

// Replace swaps the pool members, keeping the history.
func (r *Runner) Replace(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.e.Pool().Replace(ids)
}

func (r *Runner) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.e.Pool().History()
}

func (r *Runner) SetMuted(muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.e.SetMuted(muted)
}

// StartDraw starts a session and the tick loop that will resolve it.
func (r *Runner) StartDraw(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return context.Canceled
	}
	err := r.e.StartDraw(ctx)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.loop.Start(r.ctx, r.step)
	return nil
}

func (r *Runner) step(ctx context.Context, elapsed time.Duration) bool {
	r.mu.Lock()
	if ctx.Err() != nil {
		r.mu.Unlock()
		return true
	}

	winner, revealed := r.e.Tick(ctx, elapsed)
	done := r.e.State() != domain.DrawRunning
	r.mu.Unlock()

	if revealed && r.onReveal != nil {
		r.onReveal(ctx, winner)
	}
	return done
}

func (r *Runner) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.e.Reset(ctx)
}

// Wait blocks until the current session stops ticking.
func (r *Runner) Wait() {
	r.loop.Wait()
}

// Close tears the board down. A running session is cancelled so that no
// resolution fires afterwards, and the tick goroutine is awaited.
func (r *Runner) Close() {
	r.cancel()
	r.loop.Cancel()

	r.mu.Lock()
	r.closed = true
	r.e.Cancel(context.Background())
	r.mu.Unlock()

	r.loop.Wait()
}
