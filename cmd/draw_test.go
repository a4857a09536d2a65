package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/victornm/drawboard/internal/errors"
	"github.com/victornm/drawboard/internal/loop"
)

func TestRunDraw(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := map[string]struct {
		opts   drawOptions
		assert func(t *testing.T, winner string, out string, err error)
	}{
		"draws one of the candidates": {
			opts: drawOptions{candidates: []string{"kim", "lee", "park"}, duration: 50 * time.Millisecond},
			assert: func(t *testing.T, winner, out string, err error) {
				require.NoError(t, err)
				assert.Contains(t, []string{"kim", "lee", "park"}, winner)
				assert.True(t, strings.HasPrefix(out, "drawing among 3 candidates\n"), out)
			},
		},
		"same seed same winner": {
			opts: drawOptions{candidates: []string{"a", "b", "c", "d", "e"}, duration: 20 * time.Millisecond, seed: 42, quiet: true},
			assert: func(t *testing.T, winner, out string, err error) {
				require.NoError(t, err)
				assert.Empty(t, out)

				again, err := runDraw(context.Background(), &bytes.Buffer{}, drawOptions{
					candidates: []string{"a", "b", "c", "d", "e"},
					duration:   20 * time.Millisecond,
					seed:       42,
					loop:       loop.Config{Interval: 5 * time.Millisecond},
				})
				require.NoError(t, err)
				assert.Equal(t, winner, again)
			},
		},
		"no candidates": {
			opts: drawOptions{candidates: []string{" ", ""}},
			assert: func(t *testing.T, _, _ string, err error) {
				assert.ErrorIs(t, err, errors.NoEligibleCandidates)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			tt.opts.loop = loop.Config{Interval: 5 * time.Millisecond}

			winner, err := runDraw(context.Background(), &out, tt.opts)
			tt.assert(t, winner, out.String(), err)
		})
	}
}

func TestRunDraw_Interrupted(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := runDraw(ctx, &bytes.Buffer{}, drawOptions{
		candidates: []string{"a", "b"},
		duration:   time.Hour,
		loop:       loop.Config{Interval: 5 * time.Millisecond},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
