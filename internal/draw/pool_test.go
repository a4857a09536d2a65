package draw_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/draw"
	"github.com/victornm/drawboard/internal/errors"
	"github.com/victornm/drawboard/internal/random"
)

func TestPool_Add(t *testing.T) {
	p := draw.NewPool(true)

	assert.True(t, p.Add("gilbert.k"))
	assert.False(t, p.Add("gilbert.k"), "duplicate add should be a no-op")
	assert.False(t, p.Add("  gilbert.k "), "ids are trimmed before the duplicate check")
	assert.False(t, p.Add("   "), "blank add should be a no-op")
	assert.True(t, p.Add(" bill.23 "))

	assert.Equal(t, []string{"gilbert.k", "bill.23"}, p.IDs())
}

func TestPool_Remove(t *testing.T) {
	p := draw.NewPool(true)
	p.Add("a")
	p.Add("b")
	p.ToggleActive("a")

	assert.False(t, p.Remove("zzz"))
	assert.True(t, p.Remove("a"))

	assert.Equal(t, []string{"b"}, p.IDs())
	assert.Empty(t, p.Active())
}

func TestPool_ToggleActive(t *testing.T) {
	tests := map[string]struct {
		arrange func() *draw.Pool
		id      string
		want    bool
		active  []string
	}{
		"known id becomes active": {
			arrange: func() *draw.Pool {
				p := draw.NewPool(true)
				p.Add("a")
				return p
			},
			id: "a", want: true, active: []string{"a"},
		},
		"active id becomes inactive": {
			arrange: func() *draw.Pool {
				p := draw.NewPool(true)
				p.Add("a")
				p.ToggleActive("a")
				return p
			},
			id: "a", want: true, active: nil,
		},
		"unknown id is ignored": {
			arrange: func() *draw.Pool {
				p := draw.NewPool(true)
				p.Add("a")
				return p
			},
			id: "b", want: false, active: nil,
		},
		"pool without activation ignores toggles": {
			arrange: func() *draw.Pool {
				p := draw.NewPool(false)
				p.Add("a")
				return p
			},
			id: "a", want: false, active: nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := tt.arrange()
			assert.Equal(t, tt.want, p.ToggleActive(tt.id))
			assert.Equal(t, tt.active, p.Active())
		})
	}
}

func TestEvaluateEligibility(t *testing.T) {
	pool := []string{"a", "b", "c", "d"}

	assert.Equal(t, []string{"a", "b", "c", "d"}, draw.EvaluateEligibility(pool, nil, nil))
	assert.Equal(t, []string{"a", "c"}, draw.EvaluateEligibility(pool, nil, []string{"b", "d"}))
	assert.Equal(t, []string{"c"}, draw.EvaluateEligibility(pool, map[string]bool{"b": true, "c": true}, []string{"b"}))
	assert.Empty(t, draw.EvaluateEligibility(pool, map[string]bool{}, nil))
}

func TestEvaluateEligibility_NeverIncludesHistory(t *testing.T) {
	r := random.NewSeeded(99)

	for i := range 200 {
		var pool, history []string
		active := make(map[string]bool)
		for j := range r.IntN(12) {
			id := fmt.Sprintf("id-%d", j)
			pool = append(pool, id)
			if r.IntN(2) == 0 {
				history = append(history, id)
			}
			if r.IntN(3) > 0 {
				active[id] = true
			}
		}

		for _, a := range []map[string]bool{nil, active} {
			got := draw.EvaluateEligibility(pool, a, history)
			for _, h := range history {
				require.NotContains(t, got, h, "iteration %d", i)
			}
		}
	}
}

func TestPool_Reason(t *testing.T) {
	p := draw.NewPool(true)
	assert.Equal(t, draw.ReasonEmptyPool, p.Reason())

	p.Add("a")
	assert.Equal(t, draw.ReasonNoneActive, p.Reason())

	p.SetAllActive(true)
	assert.Equal(t, []string{"a"}, p.Eligible())
}

func TestPool_ReasonAllWon(t *testing.T) {
	ctx := context.Background()
	e := makeEngine(t, domain.VariantLottery)
	e.Pool().Add("a")
	require.NoError(t, e.StartDraw(ctx))
	_, ok := e.Tick(ctx, e.Duration())
	require.True(t, ok)

	assert.Equal(t, "all active candidates already won", e.Pool().Reason())
	err := e.StartDraw(ctx)
	require.ErrorIs(t, err, errors.NoEligibleCandidates)
	assert.Equal(t, "no eligible candidates: all active candidates already won", errors.Convert(err).Message)
}

func TestPool_EmptyListsAreNotNil(t *testing.T) {
	p := draw.NewPool(false)
	assert.NotNil(t, p.IDs())
	assert.NotNil(t, p.History())

	b, err := json.Marshal(makeEngine(t, domain.VariantLottery).Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"pool":[]`)
	assert.Contains(t, string(b), `"history":[]`)
}
