// Package taxonomy groups the visible patterns into the type and subtype
// navigation consumed by the viewer, together with the link table and the
// path lookups used by rendered pages.
package taxonomy

import (
	"strings"

	"github.com/conneroisu/patternlab/internal/identifier"
	"github.com/conneroisu/patternlab/internal/types"
)

// Names of the synthetic view-all entries.
const (
	ViewAllPrefix  = "viewall"
	KeywordAll     = "all"
	KeywordViewAll = "View All"
	FileNameViewer = "index.html"
	FolderPatterns = "patterns"
)

// NavItem is one navigation entry.
type NavItem struct {
	PatternPath    string `json:"patternPath" yaml:"patternPath"`
	PatternState   string `json:"patternState,omitempty" yaml:"patternState,omitempty"`
	PatternPartial string `json:"patternPartial" yaml:"patternPartial"`
	PatternName    string `json:"patternName" yaml:"patternName"`
}

// SubType groups the patterns of one subtype.
type SubType struct {
	PatternSubtypeLC    string    `json:"patternSubtypeLC" yaml:"patternSubtypeLC"`
	PatternSubtypeUC    string    `json:"patternSubtypeUC" yaml:"patternSubtypeUC"`
	PatternSubtypeItems []NavItem `json:"patternSubtypeItems" yaml:"patternSubtypeItems"`
}

// PatternType groups the subtypes of one type. PatternItems lists the
// patterns without a subtype, followed by the type's view-all entry when it
// has subtypes.
type PatternType struct {
	PatternTypeLC    string    `json:"patternTypeLC" yaml:"patternTypeLC"`
	PatternTypeUC    string    `json:"patternTypeUC" yaml:"patternTypeUC"`
	PatternTypeItems []SubType `json:"patternTypeItems" yaml:"patternTypeItems"`
	PatternItems     []NavItem `json:"patternItems" yaml:"patternItems"`
}

// ViewAllPage is an aggregate page listing every pattern of a scope.
type ViewAllPage struct {
	// Partial is the page's navigation partial, e.g. "viewall-atoms-global"
	Partial string
	// Title is the display name of the scope
	Title string
	// Path is the output folder below the patterns folder
	Path     string
	Patterns []*types.Pattern
}

// HTMLURL is the page location relative to the patterns output folder.
func (v ViewAllPage) HTMLURL() string {
	return v.Path + "/" + FileNameViewer
}

// Taxonomy is the result of Build.
type Taxonomy struct {
	PatternTypes []PatternType
	// Links maps partials to URLs relative to a rendered pattern page
	Links map[string]string
	// PatternPaths maps type and pattern name to dash paths
	PatternPaths map[string]map[string]string
	// ViewAllPaths maps type and subtype to view-all folders
	ViewAllPaths map[string]map[string]string
	ViewAll      []ViewAllPage
}

// StateFunc resolves the state shown next to a pattern.
type StateFunc func(p *types.Pattern) string

// Build groups the non-hidden patterns, keeping their order. Types and
// subtypes appear in first-seen order. Path lookups are keyed by names with
// ordinals stripped; the first pattern wins when names collide.
func Build(patterns []*types.Pattern, state StateFunc) *Taxonomy {
	if state == nil {
		state = func(*types.Pattern) string { return "" }
	}

	t := &Taxonomy{
		PatternTypes: []PatternType{},
		Links:        make(map[string]string),
		PatternPaths: make(map[string]map[string]string),
		ViewAllPaths: make(map[string]map[string]string),
	}

	var visible []*types.Pattern
	for _, p := range patterns {
		if !p.Hidden {
			visible = append(visible, p)
		}
	}

	for _, typ := range distinct(visible, func(p *types.Pattern) string { return p.Type }) {
		typed := filter(visible, func(p *types.Pattern) bool { return strings.EqualFold(p.Type, typ) })
		typeName := typed[0].TypeName()

		details := PatternType{
			PatternTypeLC:    typeName,
			PatternTypeUC:    identifier.ToDisplayCase(typeName),
			PatternTypeItems: []SubType{},
			PatternItems:     []NavItem{},
		}

		subTypes := distinct(typed, func(p *types.Pattern) string { return p.SubType })
		subTypePaths := make(map[string]string)

		for _, sub := range subTypes {
			subTyped := filter(typed, func(p *types.Pattern) bool { return strings.EqualFold(p.SubType, sub) })
			subTypeName := subTyped[0].SubTypeName()
			subTypePath := typ + string(identifier.Space) + sub

			subDetails := SubType{
				PatternSubtypeLC:    subTypeName,
				PatternSubtypeUC:    identifier.ToDisplayCase(subTypeName),
				PatternSubtypeItems: make([]NavItem, 0, len(subTyped)+1),
			}
			for _, p := range subTyped {
				subDetails.PatternSubtypeItems = append(subDetails.PatternSubtypeItems, navItem(p, state))
			}

			page := ViewAllPage{
				Partial:  viewAllPartial(typeName, subTypeName),
				Title:    subDetails.PatternSubtypeUC,
				Path:     subTypePath,
				Patterns: subTyped,
			}
			subDetails.PatternSubtypeItems = append(subDetails.PatternSubtypeItems, viewAllItem(page))
			details.PatternTypeItems = append(details.PatternTypeItems, subDetails)
			t.ViewAll = append(t.ViewAll, page)

			if _, exists := subTypePaths[subTypeName]; !exists {
				subTypePaths[subTypeName] = subTypePath
			}
		}

		typedPatternPaths := make(map[string]string)
		for _, p := range typed {
			if _, exists := t.Links[p.Partial()]; !exists {
				t.Links[p.Partial()] = "../../" + FolderPatterns + "/" + p.HTMLURL()
			}
			if _, exists := typedPatternPaths[pathKey(p)]; !exists {
				typedPatternPaths[pathKey(p)] = p.PathDash()
			}
			if p.SubType == "" {
				details.PatternItems = append(details.PatternItems, navItem(p, state))
			}
		}

		if len(subTypes) > 0 {
			page := ViewAllPage{
				Partial:  viewAllPartial(typeName, KeywordAll),
				Title:    details.PatternTypeUC,
				Path:     typ,
				Patterns: typed,
			}
			details.PatternItems = append(details.PatternItems, viewAllItem(page))
			t.ViewAll = append(t.ViewAll, page)

			subTypePaths[KeywordAll] = typ
			if _, exists := t.ViewAllPaths[typeName]; !exists {
				t.ViewAllPaths[typeName] = subTypePaths
			}
		}

		if _, exists := t.PatternPaths[typeName]; !exists {
			t.PatternPaths[typeName] = typedPatternPaths
		}
		t.PatternTypes = append(t.PatternTypes, details)
	}

	return t
}

func navItem(p *types.Pattern, state StateFunc) NavItem {
	return NavItem{
		PatternPath:    p.HTMLURL(),
		PatternState:   state(p),
		PatternPartial: p.Partial(),
		PatternName:    p.DisplayName(),
	}
}

func viewAllItem(page ViewAllPage) NavItem {
	return NavItem{
		PatternPath:    page.HTMLURL(),
		PatternPartial: page.Partial,
		PatternName:    KeywordViewAll,
	}
}

func viewAllPartial(typeName, scope string) string {
	return strings.Join([]string{ViewAllPrefix, typeName, scope}, string(identifier.Space))
}

func pathKey(p *types.Pattern) string {
	if p.Pseudo != "" {
		return p.PatternName() + string(identifier.Pseudo) + p.Pseudo
	}
	return p.PatternName()
}

// distinct returns the non-empty keys of patterns in first-seen order,
// compared case-insensitively.
func distinct(patterns []*types.Pattern, key func(*types.Pattern) string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		k := key(p)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		keys = append(keys, k)
	}
	return keys
}

func filter(patterns []*types.Pattern, keep func(*types.Pattern) bool) []*types.Pattern {
	var result []*types.Pattern
	for _, p := range patterns {
		if keep(p) {
			result = append(result, p)
		}
	}
	return result
}
