package registry

import (
	"sort"
	"strings"

	"github.com/conneroisu/patternlab/internal/types"
)

// LineageGraph maps each partial to the partials it includes. Only
// references that resolve to a registered pattern are edges.
func (r *PatternRegistry) LineageGraph() map[string][]string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	graph := make(map[string][]string, len(r.patterns))
	for _, p := range r.patterns {
		edges := make([]string, 0, len(p.Lineages))
		for _, ref := range p.Lineages {
			if target, ok := r.byPartial[strings.ToLower(ref)]; ok {
				edges = append(edges, target.Partial())
			}
		}
		graph[p.Partial()] = edges
	}
	return graph
}

// Lineage returns the registered patterns that partial includes.
func (r *PatternRegistry) Lineage(partial string) []*types.Pattern {
	pattern, ok := r.Get(partial)
	if !ok {
		return nil
	}

	var result []*types.Pattern
	for _, ref := range pattern.Lineages {
		if target, ok := r.Get(ref); ok {
			result = append(result, target)
		}
	}
	return result
}

// Dependents returns the patterns that include partial, in registration order.
func (r *PatternRegistry) Dependents(partial string) []*types.Pattern {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var dependents []*types.Pattern
	for _, p := range r.patterns {
		for _, ref := range p.Lineages {
			if strings.EqualFold(ref, partial) {
				dependents = append(dependents, p)
				break
			}
		}
	}
	return dependents
}

// MissingLineages maps partials to the references they make that do not
// resolve to any registered pattern.
func (r *PatternRegistry) MissingLineages() map[string][]string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	missing := make(map[string][]string)
	for _, p := range r.patterns {
		for _, ref := range p.Lineages {
			if _, ok := r.byPartial[strings.ToLower(ref)]; !ok {
				missing[p.Partial()] = append(missing[p.Partial()], ref)
			}
		}
	}
	return missing
}

// DetectCycles returns the include cycles of the lineage graph. Each cycle
// starts and ends with the same partial.
func (r *PatternRegistry) DetectCycles() [][]string {
	var cycles [][]string
	graph := r.LineageGraph()

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	visited := make(map[string]bool)

	for _, node := range nodes {
		if !visited[node] {
			recStack := make(map[string]bool)
			if cycle := detectCycleDFS(node, graph, visited, recStack, nil); cycle != nil {
				cycles = append(cycles, cycle)
			}
		}
	}

	return cycles
}

// detectCycleDFS performs DFS to detect cycles
func detectCycleDFS(node string, graph map[string][]string, visited, recStack map[string]bool, path []string) []string {
	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range graph[node] {
		if !visited[dep] {
			if cycle := detectCycleDFS(dep, graph, visited, recStack, path); cycle != nil {
				return cycle
			}
		} else if recStack[dep] {
			// Found cycle - extract the cycle from path
			for i, p := range path {
				if p == dep {
					cycle := make([]string, len(path)-i+1)
					copy(cycle, path[i:])
					cycle[len(cycle)-1] = dep
					return cycle
				}
			}
		}
	}

	recStack[node] = false
	return nil
}
