package draw

import (
	"slices"
	"strings"
)

// Reasons reported when no candidate is eligible.
const (
	ReasonEmptyPool  = "empty pool"
	ReasonNoneActive = "no active candidates"
	ReasonAllWon     = "all active candidates already won"
)

// Pool holds the candidate identifiers of a board, the activation marks and
// the winner history. A Pool is not safe for concurrent use.
type Pool struct {
	ids        []string
	activation bool
	active     map[string]bool
	history    []string
}

// NewPool returns an empty pool. When activation is false every member is
// considered active.
func NewPool(activation bool) *Pool {
	return &Pool{
		activation: activation,
		active:     make(map[string]bool),
	}
}

// Add appends id. Blank and duplicate identifiers are ignored.
func (p *Pool) Add(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || slices.Contains(p.ids, id) {
		return false
	}

	p.ids = append(p.ids, id)
	return true
}

// Remove drops id from the pool, its activation mark and the history.
func (p *Pool) Remove(id string) bool {
	i := slices.Index(p.ids, id)
	if i < 0 {
		return false
	}

	p.ids = slices.Delete(p.ids, i, i+1)
	delete(p.active, id)
	p.history = slices.DeleteFunc(p.history, func(h string) bool { return h == id })
	return true
}

// ToggleActive flips the activation mark of id. Unknown ids, past winners and
// pools without activation are left untouched.
func (p *Pool) ToggleActive(id string) bool {
	if !p.activation || !slices.Contains(p.ids, id) || slices.Contains(p.history, id) {
		return false
	}

	if p.active[id] {
		delete(p.active, id)
	} else {
		p.active[id] = true
	}
	return true
}

// SetAllActive marks every member that has not won yet as active, or clears
// all marks.
func (p *Pool) SetAllActive(on bool) {
	if !p.activation {
		return
	}

	clear(p.active)
	if !on {
		return
	}
	for _, id := range p.ids {
		if !slices.Contains(p.history, id) {
			p.active[id] = true
		}
	}
}

// Replace resets the members to ids, keeping the history.
func (p *Pool) Replace(ids []string) {
	p.ids = p.ids[:0]
	clear(p.active)
	for _, id := range ids {
		p.Add(id)
	}
}

// Eligible evaluates eligibility against the current state.
func (p *Pool) Eligible() []string {
	var active map[string]bool
	if p.activation {
		active = p.active
	}

	return EvaluateEligibility(p.ids, active, p.history)
}

// Reason explains an empty Eligible result.
func (p *Pool) Reason() string {
	switch {
	case len(p.ids) == 0:
		return ReasonEmptyPool
	case p.activation && len(p.active) == 0:
		return ReasonNoneActive
	default:
		return ReasonAllWon
	}
}

// record appends the winner to the history and applies the board policy.
func (p *Pool) record(winner string, policy Policy) {
	p.history = append(p.history, winner)
	delete(p.active, winner)

	if policy.RemoveWinner {
		if i := slices.Index(p.ids, winner); i >= 0 {
			p.ids = slices.Delete(p.ids, i, i+1)
		}
	}
	if policy.ClearActiveOnReveal {
		clear(p.active)
	}
}

func (p *Pool) IDs() []string { return append([]string{}, p.ids...) }

func (p *Pool) History() []string { return append([]string{}, p.history...) }

// Active returns the active members in pool order.
func (p *Pool) Active() []string {
	if !p.activation {
		return nil
	}

	var out []string
	for _, id := range p.ids {
		if p.active[id] {
			out = append(out, id)
		}
	}
	return out
}

// EvaluateEligibility returns, in pool order, the members that are marked
// active and absent from history. A nil active set means every member is
// active. It has no side effects.
func EvaluateEligibility(pool []string, active map[string]bool, history []string) []string {
	won := make(map[string]struct{}, len(history))
	for _, h := range history {
		won[h] = struct{}{}
	}

	out := make([]string, 0, len(pool))
	for _, id := range pool {
		if active != nil && !active[id] {
			continue
		}
		if _, ok := won[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}
