// Package looptest provides a manually driven ticker for loop-based tests.
package looptest

import (
	"sync"
	"time"

	"github.com/victornm/drawboard/internal/loop"
)

// Ticker is fired by the test instead of the clock.
type Ticker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func NewTicker() *Ticker {
	return &Ticker{ch: make(chan time.Time)}
}

// Func returns a loop.Config.NewTickerFunc handing out t.
func (t *Ticker) Func() func(time.Duration) loop.Ticker {
	return func(time.Duration) loop.Ticker { return t }
}

func (t *Ticker) C() <-chan time.Time { return t.ch }

func (t *Ticker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Fire delivers one tick. It blocks until the loop goroutine receives it.
func (t *Ticker) Fire(at time.Time) { t.ch <- at }

func (t *Ticker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
