package registry

import (
	"testing"

	"github.com/conneroisu/patternlab/internal/types"
	"github.com/stretchr/testify/assert"
)

func partialsOf(patterns []*types.Pattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Partial()
	}
	return out
}

func TestLineageGraph(t *testing.T) {
	registry := NewPatternRegistry(samplePatterns()...)

	graph := registry.LineageGraph()
	assert.Equal(t, []string{"atoms-button"}, graph["molecules-search"])
	assert.Equal(t, []string{"molecules-search", "atoms-button"}, graph["pages-home"])
	assert.Empty(t, graph["atoms-colors"])
	assert.Len(t, graph, 5)
}

func TestLineageAndDependents(t *testing.T) {
	registry := NewPatternRegistry(samplePatterns()...)

	assert.Equal(t, []string{"molecules-search", "atoms-button"}, partialsOf(registry.Lineage("pages-home")))
	assert.Nil(t, registry.Lineage("atoms-nope"))

	assert.Equal(t, []string{"molecules-search", "pages-home"}, partialsOf(registry.Dependents("atoms-button")))
	assert.Empty(t, registry.Dependents("pages-home"))
}

func TestMissingLineages(t *testing.T) {
	registry := NewPatternRegistry(samplePatterns()...)

	assert.Equal(t, map[string][]string{"molecules-search": {"atoms-missing"}}, registry.MissingLineages())
}

func TestDetectCycles(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		registry := NewPatternRegistry(samplePatterns()...)
		assert.Empty(t, registry.DetectCycles())
	})

	t.Run("cycle", func(t *testing.T) {
		registry := NewPatternRegistry(
			pattern("00-atoms/00-a.gohtml", "atoms-b"),
			pattern("00-atoms/00-b.gohtml", "atoms-c"),
			pattern("00-atoms/00-c.gohtml", "atoms-a"),
		)
		assert.Equal(t, [][]string{{"atoms-a", "atoms-b", "atoms-c", "atoms-a"}}, registry.DetectCycles())
	})

	t.Run("self reference", func(t *testing.T) {
		registry := NewPatternRegistry(pattern("00-atoms/00-loop.gohtml", "atoms-loop"))
		assert.Equal(t, [][]string{{"atoms-loop", "atoms-loop"}}, registry.DetectCycles())
	})
}
