// Package typewriter reveals a text one character at a time on a fixed tick,
// with pause and resume.
package typewriter

import (
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/victornm/drawboard/internal/domain"
)

const DefaultInterval = 200 * time.Millisecond

// Typewriter is not safe for concurrent use.
type Typewriter struct {
	units    []rune
	revealed int
	state    domain.RevealState
	interval time.Duration
	pending  time.Duration
	onReveal func(revealed string)
}

type Option func(*Typewriter)

// WithInterval sets the tick interval used by Advance.
func WithInterval(d time.Duration) Option {
	return func(t *Typewriter) {
		if d > 0 {
			t.interval = d
		}
	}
}

// OnReveal registers a callback invoked once per revealed character.
func OnReveal(f func(revealed string)) Option {
	return func(t *Typewriter) {
		t.onReveal = f
	}
}

// New prepares text for reveal. Text is NFC-normalised so that composed
// characters, Hangul syllables included, are revealed as a single unit.
func New(text string, opts ...Option) *Typewriter {
	t := &Typewriter{
		units:    []rune(norm.NFC.String(text)),
		state:    domain.RevealPlaying,
		interval: DefaultInterval,
	}

	for _, opt := range opts {
		opt(t)
	}

	if len(t.units) == 0 {
		t.state = domain.RevealComplete
	}

	return t
}

// Tick reveals one more character unless the typewriter is paused or
// complete. It reports whether a character was revealed.
func (t *Typewriter) Tick() bool {
	if t.state != domain.RevealPlaying {
		return false
	}

	t.revealed++
	if t.revealed == len(t.units) {
		t.state = domain.RevealComplete
	}

	if t.onReveal != nil {
		t.onReveal(t.Revealed())
	}
	return true
}

// Advance moves the virtual clock forward by d and ticks once per elapsed
// interval. Time spent paused is discarded. It returns the number of
// characters revealed.
func (t *Typewriter) Advance(d time.Duration) int {
	if t.state != domain.RevealPlaying || d <= 0 {
		return 0
	}

	t.pending += d
	var n int
	for t.pending >= t.interval && t.Tick() {
		t.pending -= t.interval
		n++
	}
	if t.state == domain.RevealComplete {
		t.pending = 0
	}
	return n
}

// Toggle flips between playing and paused. A complete typewriter stays
// complete.
func (t *Typewriter) Toggle() domain.RevealState {
	switch t.state {
	case domain.RevealPlaying:
		t.state = domain.RevealPaused
	case domain.RevealPaused:
		t.state = domain.RevealPlaying
	}
	return t.state
}

func (t *Typewriter) State() domain.RevealState { return t.state }

func (t *Typewriter) Revealed() string { return string(t.units[:t.revealed]) }

func (t *Typewriter) Text() string { return string(t.units) }

// Len is the number of characters to reveal.
func (t *Typewriter) Len() int { return len(t.units) }

// Progress is the number of characters revealed so far.
func (t *Typewriter) Progress() int { return t.revealed }
