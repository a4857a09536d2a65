// Package loop drives time-based state machines from a ticker.
//
// A Loop owns at most one goroutine at a time. The step function receives the
// time elapsed since Start and reports when the machine no longer needs ticks.
// State owned by the caller must be locked inside the step function; Cancel
// and Wait must not be called while holding that lock.
package loop

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval approximates one animation frame.
const DefaultInterval = 16 * time.Millisecond

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Step advances the driven machine. It returns true once no further ticks are
// needed.
type Step func(ctx context.Context, elapsed time.Duration) (done bool)

type Config struct {
	Interval      time.Duration
	NewTickerFunc func(d time.Duration) Ticker
	Now           func() time.Time
}

type Loop struct {
	interval  time.Duration
	newTicker func(d time.Duration) Ticker
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(c Config) *Loop {
	l := &Loop{
		interval:  c.Interval,
		newTicker: c.NewTickerFunc,
		now:       c.Now,
	}

	if l.interval <= 0 {
		l.interval = DefaultInterval
	}
	if l.newTicker == nil {
		l.newTicker = NewTicker
	}
	if l.now == nil {
		l.now = time.Now
	}

	return l
}

// Start runs step on every tick until it reports done or the loop is
// cancelled. A loop that is still running is cancelled and awaited first.
func (l *Loop) Start(ctx context.Context, step Step) {
	l.Cancel()
	l.Wait()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	start := l.now()
	t := l.newTicker(l.interval)

	l.mu.Lock()
	l.cancel, l.done = cancel, done
	l.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C():
				if step(ctx, now.Sub(start)) {
					return
				}
			}
		}
	}()
}

// Cancel stops the running goroutine, if any, without waiting for it.
func (l *Loop) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
}

// Wait blocks until the current goroutine, if any, has exited.
func (l *Loop) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Running reports whether a goroutine is still ticking.
func (l *Loop) Running() bool {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	if done == nil {
		return false
	}

	select {
	case <-done:
		return false
	default:
		return true
	}
}

type stdTicker struct {
	t *time.Ticker
}

// NewTicker wraps time.Ticker.
func NewTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }
