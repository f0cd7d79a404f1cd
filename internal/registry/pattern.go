package registry

import (
	"strings"
	"sync"

	"github.com/conneroisu/patternlab/internal/identifier"
	"github.com/conneroisu/patternlab/internal/types"
)

// PatternRegistry holds the compiled pattern set in registration order.
// Partials are unique, compared case-insensitively; the first pattern
// registered under a partial wins and later ones are kept as duplicates.
type PatternRegistry struct {
	patterns   []*types.Pattern
	byPartial  map[string]*types.Pattern
	duplicates []*types.Pattern
	mutex      sync.RWMutex
}

// NewPatternRegistry creates a registry holding patterns, in order.
func NewPatternRegistry(patterns ...*types.Pattern) *PatternRegistry {
	r := &PatternRegistry{
		byPartial: make(map[string]*types.Pattern),
	}
	for _, p := range patterns {
		r.Register(p)
	}
	return r
}

// Register adds a pattern. It reports false when the partial is taken.
func (r *PatternRegistry) Register(pattern *types.Pattern) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := strings.ToLower(pattern.Partial())
	if _, exists := r.byPartial[key]; exists {
		r.duplicates = append(r.duplicates, pattern)
		return false
	}

	r.byPartial[key] = pattern
	r.patterns = append(r.patterns, pattern)
	return true
}

// Get retrieves a pattern by partial.
func (r *PatternRegistry) Get(partial string) (*types.Pattern, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	pattern, exists := r.byPartial[strings.ToLower(partial)]
	return pattern, exists
}

// All returns every registered pattern in registration order.
func (r *PatternRegistry) All() []*types.Pattern {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.Pattern, len(r.patterns))
	copy(result, r.patterns)
	return result
}

// Visible returns the patterns that are not hidden.
func (r *PatternRegistry) Visible() []*types.Pattern {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*types.Pattern
	for _, p := range r.patterns {
		if !p.Hidden {
			result = append(result, p)
		}
	}
	return result
}

// Duplicates returns the patterns rejected because their partial was taken.
func (r *PatternRegistry) Duplicates() []*types.Pattern {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.Pattern, len(r.duplicates))
	copy(result, r.duplicates)
	return result
}

// Count returns the number of registered patterns.
func (r *PatternRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.patterns)
}

// FindPattern resolves a user supplied term. Parameters are stripped, then
// the term is compared with each pattern's view URL, slash path and partial,
// case-insensitively. When nothing matches exactly, the first pattern whose
// partial starts with the term is returned.
func (r *PatternRegistry) FindPattern(term string) (*types.Pattern, bool) {
	term = identifier.StripPatternParameters(term)
	if term == "" {
		return nil, false
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, p := range r.patterns {
		if strings.EqualFold(term, p.ViewURL()) ||
			strings.EqualFold(term, p.PathSlash()) ||
			strings.EqualFold(term, p.Partial()) {
			return p, true
		}
	}

	lower := strings.ToLower(term)
	for _, p := range r.patterns {
		if strings.HasPrefix(strings.ToLower(p.Partial()), lower) {
			return p, true
		}
	}

	return nil, false
}
