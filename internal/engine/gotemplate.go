package engine

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	"regexp"
	"strconv"
	"strings"
	texttemplate "text/template"
	"text/template/parse"

	"github.com/conneroisu/patternlab/internal/identifier"
)

var (
	includePattern = regexp.MustCompile(`\{\{-?\s*template\s+"((?:[^"\\]|\\.)*)"`)
	sectionPattern = regexp.MustCompile(`\{\{-?\s*define\s+"~((?:[^"\\]|\\.)*)"`)
	// sectionName matches the opening of any action naming a section.
	sectionName = regexp.MustCompile(`\{\{-?\s*(?:define|template|block)\s+"~`)
)

const (
	rootPrefix    = "pattern:"
	partialPrefix = "partial:"
	sourcePrefix  = "source:"
)

// GoTemplateEngine renders patterns written in Go template syntax.
//
// Patterns include each other with the template action, naming the partial
// and optionally a style modifier and call parameters:
//
//	{{template "atoms-button:primary(text: \"Buy\")" .}}
//
// Pseudo-pattern variants are define blocks whose name starts with '~':
//
//	{{define "~disabled"}}<button disabled>{{.text}}</button>{{end}}
type GoTemplateEngine struct {
	name      string
	extension string
	html      bool
}

// NewHTMLEngine returns the html/template backed engine ("gohtml").
func NewHTMLEngine() *GoTemplateEngine {
	return &GoTemplateEngine{name: "gohtml", extension: ".gohtml", html: true}
}

// NewTextEngine returns the text/template backed engine ("gotext").
func NewTextEngine() *GoTemplateEngine {
	return &GoTemplateEngine{name: "gotext", extension: ".tmpl"}
}

// Name implements Engine.
func (e *GoTemplateEngine) Name() string { return e.name }

// Extension implements Engine.
func (e *GoTemplateEngine) Extension() string { return e.extension }

// Lineages implements Engine. An empty section selects the body outside
// of the variant sections. Sections the selected part renders with
// {{template "~name"}} contribute their references too; references to
// sections of the same file are not lineages themselves.
func (e *GoTemplateEngine) Lineages(body, section string) []string {
	trees, err := parseTrees(body)
	if err != nil {
		return references(body)
	}

	var refs []string
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		tree, ok := trees[name]
		if !ok || visited[name] {
			return
		}
		visited[name] = true
		for _, ref := range templateNames(tree.Root) {
			if _, local := trees[ref]; local && ref != rootTree {
				visit(ref)
				continue
			}
			if ref == "" || strings.HasPrefix(ref, string(identifier.Pseudo)) || seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	if section == "" {
		visit(rootTree)
	} else {
		visit(string(identifier.Pseudo) + section)
	}
	return refs
}

// PseudoPatterns implements Engine.
func (e *GoTemplateEngine) PseudoPatterns(body string) []string {
	var variants []string
	seen := make(map[string]bool)
	for _, m := range sectionPattern.FindAllStringSubmatch(body, -1) {
		variant := unquote(m[1])
		if variant == "" || seen[variant] {
			continue
		}
		seen[variant] = true
		variants = append(variants, variant)
	}
	return variants
}

// Render implements Engine. Every referenced pattern is parsed into the same
// template set under its reference name; call parameters and the style
// modifier are merged into the data the included pattern sees. Sections are
// renamed per source body so equally named variants of different patterns
// stay apart.
func (e *GoTemplateEngine) Render(tmpl Template, data interface{}) (string, error) {
	set := e.newSet()
	root := rootPrefix + tmpl.Name

	if err := e.defineReferences(set, tmpl.Body, tmpl.Partials, map[string]bool{}); err != nil {
		return "", err
	}
	if err := set.define(root, scopeSections(tmpl.Body, root)); err != nil {
		return "", fmt.Errorf("parsing %s: %w", tmpl.Name, err)
	}

	name := root
	if tmpl.Section != "" {
		name = root + string(identifier.Pseudo) + tmpl.Section
		if !set.has(name) {
			return "", fmt.Errorf("%s: section %q not defined", tmpl.Name, tmpl.Section)
		}
	}

	var buf bytes.Buffer
	if err := set.execute(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", tmpl.Name, err)
	}
	return buf.String(), nil
}

func (e *GoTemplateEngine) defineReferences(set templateSet, body string, finder PartialFinder, defined map[string]bool) error {
	for _, ref := range references(body) {
		if defined[ref] {
			continue
		}
		defined[ref] = true

		partial := identifier.StripPatternParameters(ref)
		target := partialPrefix + strings.ToLower(partial)
		wrapper := fmt.Sprintf("{{template %s (patternScope . %s)}}", strconv.Quote(target), strconv.Quote(ref))
		if err := set.define(ref, wrapper); err != nil {
			return fmt.Errorf("including %s: %w", ref, err)
		}

		if defined[target] {
			continue
		}
		defined[target] = true

		var found Partial
		ok := false
		if finder != nil {
			found, ok = finder.FindPartial(partial)
		}
		if !ok {
			if err := set.define(target, ""); err != nil {
				return err
			}
			continue
		}

		source := sourcePrefix + strings.ToLower(partial)
		if err := set.define(source, scopeSections(found.Body, source)); err != nil {
			return fmt.Errorf("parsing %s: %w", partial, err)
		}
		entry := source
		if found.Section != "" {
			entry = source + string(identifier.Pseudo) + found.Section
		}
		if err := set.define(target, fmt.Sprintf("{{template %s .}}", strconv.Quote(entry))); err != nil {
			return fmt.Errorf("parsing %s: %w", partial, err)
		}
		if err := e.defineReferences(set, found.Body, finder, defined); err != nil {
			return err
		}
	}
	return nil
}

// references lists every pattern reference of body, sections included.
func references(body string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, m := range includePattern.FindAllStringSubmatch(body, -1) {
		ref := unquote(m[1])
		if ref == "" || strings.HasPrefix(ref, string(identifier.Pseudo)) || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

// scopeSections prefixes the section names a body defines and calls with
// scope, turning "~active" into "<scope>~active".
func scopeSections(body, scope string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(scope)
	return sectionName.ReplaceAllStringFunc(body, func(m string) string {
		return m[:len(m)-1] + quoted + string(identifier.Pseudo)
	})
}

// rootTree names the top level of a body in the result of parseTrees.
const rootTree = ""

// parseTrees parses body into its top level and its define blocks without
// checking function names.
func parseTrees(body string) (map[string]*parse.Tree, error) {
	trees := make(map[string]*parse.Tree)
	t := parse.New(rootTree)
	t.Mode = parse.SkipFuncCheck
	if _, err := t.Parse(body, "", "", trees); err != nil {
		return nil, err
	}
	return trees, nil
}

// templateNames lists the names of the template actions below node in
// document order.
func templateNames(node parse.Node) []string {
	var names []string
	var walk func(parse.Node)
	walk = func(n parse.Node) {
		switch n := n.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}
			for _, c := range n.Nodes {
				walk(c)
			}
		case *parse.IfNode:
			walk(n.List)
			walk(n.ElseList)
		case *parse.RangeNode:
			walk(n.List)
			walk(n.ElseList)
		case *parse.WithNode:
			walk(n.List)
			walk(n.ElseList)
		case *parse.TemplateNode:
			names = append(names, n.Name)
		}
	}
	walk(node)
	return names
}

// patternScope layers the parameters of a reference over the caller's data.
func patternScope(data interface{}, ref string) interface{} {
	params := identifier.ParseCall(ref).Data()

	scope := make(map[string]interface{})
	switch d := data.(type) {
	case map[string]interface{}:
		for k, v := range d {
			scope[k] = v
		}
	case nil:
	default:
		if len(params) == 0 {
			return data
		}
		scope["data"] = d
	}
	for k, v := range params {
		scope[k] = v
	}
	return scope
}

func unquote(s string) string {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}

// templateSet hides the difference between html/template and text/template.
type templateSet interface {
	define(name, text string) error
	has(name string) bool
	execute(w io.Writer, name string, data interface{}) error
}

func (e *GoTemplateEngine) newSet() templateSet {
	if e.html {
		return &htmlSet{t: htmltemplate.New("").Funcs(htmltemplate.FuncMap{"patternScope": patternScope})}
	}
	return &textSet{t: texttemplate.New("").Funcs(texttemplate.FuncMap{"patternScope": patternScope})}
}

type htmlSet struct{ t *htmltemplate.Template }

func (s *htmlSet) define(name, text string) error {
	_, err := s.t.New(name).Parse(text)
	return err
}

func (s *htmlSet) has(name string) bool { return s.t.Lookup(name) != nil }

func (s *htmlSet) execute(w io.Writer, name string, data interface{}) error {
	return s.t.ExecuteTemplate(w, name, data)
}

type textSet struct{ t *texttemplate.Template }

func (s *textSet) define(name, text string) error {
	_, err := s.t.New(name).Parse(text)
	return err
}

func (s *textSet) has(name string) bool { return s.t.Lookup(name) != nil }

func (s *textSet) execute(w io.Writer, name string, data interface{}) error {
	return s.t.ExecuteTemplate(w, name, data)
}
