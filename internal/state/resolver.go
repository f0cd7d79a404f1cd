// Package state resolves the lifecycle state of a pattern from its own state
// tag and the states of everything it includes.
package state

import (
	"strings"

	"github.com/conneroisu/patternlab/internal/identifier"
	"github.com/conneroisu/patternlab/internal/types"
)

// Lookup resolves a partial to a pattern.
type Lookup interface {
	Get(partial string) (*types.Pattern, bool)
}

// Resolver propagates states through the lineage graph. Earlier entries of
// the state list have higher priority; the last entry never propagates from
// an included pattern to its parent.
type Resolver struct {
	states []string
	lookup Lookup
}

// NewResolver creates a resolver for the given priority list.
func NewResolver(states []string, lookup Lookup) *Resolver {
	return &Resolver{states: states, lookup: lookup}
}

// ParseStates splits the comma delimited patternStates setting.
func ParseStates(setting string) []string {
	var states []string
	for _, s := range strings.Split(setting, string(identifier.Delimiter)) {
		if s = strings.TrimSpace(s); s != "" {
			states = append(states, s)
		}
	}
	return states
}

// States returns the priority list.
func (r *Resolver) States() []string {
	return append([]string(nil), r.states...)
}

// Priority returns the position of state in the priority list, or the list
// length for states that are not configured.
func (r *Resolver) Priority(state string) int {
	for i, s := range r.states {
		if strings.EqualFold(s, state) {
			return i
		}
	}
	return len(r.states)
}

// GetState returns the most urgent state visible from p, or "" when neither
// p nor anything it includes carries a state. Each pattern is visited at
// most once, so include cycles terminate.
func (r *Resolver) GetState(p *types.Pattern) string {
	if p == nil {
		return ""
	}
	return r.resolve(p, make(map[string]bool))
}

func (r *Resolver) resolve(p *types.Pattern, visited map[string]bool) string {
	key := strings.ToLower(p.Partial())
	if visited[key] {
		return ""
	}
	visited[key] = true

	state := p.State
	for _, ref := range p.Lineages {
		if r.lookup == nil {
			break
		}
		child, ok := r.lookup.Get(ref)
		if !ok {
			continue
		}
		if candidate := r.resolve(child, visited); r.adopt(state, candidate) {
			state = candidate
		}
	}
	return state
}

// adopt reports whether candidate replaces current.
func (r *Resolver) adopt(current, candidate string) bool {
	if candidate == "" || r.isLowest(candidate) {
		return false
	}
	return current == "" || r.Priority(candidate) < r.Priority(current)
}

func (r *Resolver) isLowest(state string) bool {
	return len(r.states) > 0 && strings.EqualFold(r.states[len(r.states)-1], state)
}
