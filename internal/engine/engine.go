// Package engine defines the template engine capability the compiler renders
// patterns with, and a registry that picks one by configured name.
package engine

import "strings"

// Engine renders pattern templates of one syntax.
type Engine interface {
	// Name identifies the engine in the patternEngine setting.
	Name() string
	// Extension is the file extension of pattern templates, dot included.
	Extension() string
	// Lineages lists the pattern references the given section of a template
	// body renders, in order of first appearance, parameters included. An
	// empty section selects the base pattern.
	Lineages(body, section string) []string
	// PseudoPatterns lists the variant sections declared in a template body.
	PseudoPatterns(body string) []string
	// Render executes a template against data.
	Render(tmpl Template, data interface{}) (string, error)
}

// Template is a pattern body ready to render.
type Template struct {
	// Name identifies the template in error messages, usually the partial
	Name string
	// Body is the template source
	Body string
	// Section selects a pseudo-pattern section; empty renders the whole body
	Section string
	// Partials resolves references to other patterns; nil disables inclusion
	Partials PartialFinder
}

// Partial is a referenced pattern's source. Section is set when the
// reference names a pseudo-pattern of Body.
type Partial struct {
	Name    string
	Body    string
	Section string
}

// PartialFinder resolves a reference with parameters already stripped.
type PartialFinder interface {
	FindPartial(ref string) (Partial, bool)
}

// PartialFinderFunc adapts a function to PartialFinder.
type PartialFinderFunc func(ref string) (Partial, bool)

// FindPartial calls f(ref).
func (f PartialFinderFunc) FindPartial(ref string) (Partial, bool) {
	return f(ref)
}

// Registry holds the available engines in registration order.
type Registry struct {
	engines []Engine
}

// NewRegistry creates a registry; nil engines are ignored.
func NewRegistry(engines ...Engine) *Registry {
	r := &Registry{}
	for _, e := range engines {
		if e != nil {
			r.engines = append(r.engines, e)
		}
	}
	return r
}

// Builtin returns the engines shipped with the compiler. The last one is the
// default.
func Builtin() []Engine {
	return []Engine{NewTextEngine(), NewHTMLEngine()}
}

// Select returns the engine whose name matches, case-insensitively, or the
// default when nothing matches.
func (r *Registry) Select(name string) Engine {
	name = strings.TrimSpace(name)
	for _, e := range r.engines {
		if strings.EqualFold(e.Name(), name) {
			return e
		}
	}
	return r.Default()
}

// Default returns the last registered engine, or nil for an empty registry.
func (r *Registry) Default() Engine {
	if len(r.engines) == 0 {
		return nil
	}
	return r.engines[len(r.engines)-1]
}

// Names lists engine names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.engines))
	for i, e := range r.engines {
		names[i] = e.Name()
	}
	return names
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	return len(r.engines)
}
