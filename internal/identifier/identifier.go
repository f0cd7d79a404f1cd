// Package identifier decodes pattern file names and partial references into
// structured identifiers.
//
// A pattern file located at
//
//	_patterns/00-atoms/01-global/00-button@inprogress.gohtml
//
// is addressed by the partial "atoms-button", sorts by its dash path
// "00-atoms-01-global-00-button" and carries the state "inprogress".
// References to patterns inside templates may append a style modifier and
// call parameters, e.g. "atoms-button:primary|large(text: \"Go\")", which are
// removed before lookup with StripPatternParameters.
package identifier

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Reserved characters of the naming grammar.
const (
	Delimiter         = ','
	Hidden            = '_'
	Modifier          = ':'
	ModifierSeparator = '|'
	Parameters        = '('
	ParameterString   = '"'
	Pseudo            = '~'
	Space             = '-'
	State             = '@'
)

var ordinalPattern = regexp.MustCompile(`^[0-9]+-`)

// ID is the parsed identity of a pattern. It is immutable once parsed.
type ID struct {
	// Type is the first directory segment, ordinal included (e.g. "00-atoms")
	Type string
	// SubType is the second directory segment; deeper segments are joined with '-'
	SubType string
	// Name is the file name without extension, state or pseudo suffix
	Name string
	// State is the lifecycle tag following the '@' marker
	State string
	// Hidden is set when the name or any directory segment starts with '_'
	Hidden bool
	// Pseudo is the pseudo-pattern variant name, empty for base patterns
	Pseudo string

	dirs []string
}

// Parse decodes a path relative to the source root into an ID. Both slash
// and OS separators are accepted. Missing segments are left empty.
func Parse(relPath string) ID {
	p := strings.Trim(filepath.ToSlash(relPath), "/")
	if p == "" {
		return ID{}
	}

	segments := strings.Split(p, "/")
	base := segments[len(segments)-1]
	dirs := segments[:len(segments)-1]

	id := ID{dirs: append([]string(nil), dirs...)}
	if len(dirs) > 0 {
		id.Type = dirs[0]
	}
	if len(dirs) > 1 {
		id.SubType = strings.Join(dirs[1:], string(Space))
	}

	name := strings.TrimSuffix(base, path.Ext(base))
	if i := strings.IndexRune(name, Pseudo); i >= 0 {
		id.Pseudo = name[i+1:]
		name = name[:i]
	}
	if i := strings.IndexRune(name, State); i >= 0 {
		id.State = name[i+1:]
		name = name[:i]
	}
	id.Name = name

	id.Hidden = isHidden(id.Name)
	for _, dir := range dirs {
		if isHidden(dir) {
			id.Hidden = true
		}
	}

	return id
}

// WithPseudo returns a copy of the identifier addressing the named
// pseudo-pattern variant of the same file.
func (id ID) WithPseudo(variant string) ID {
	out := id
	out.dirs = append([]string(nil), id.dirs...)
	out.Pseudo = variant
	return out
}

// TypeName is the type with hidden marker and ordinal stripped.
func (id ID) TypeName() string {
	return clean(id.Type)
}

// SubTypeName is the subtype with hidden marker and ordinal stripped.
func (id ID) SubTypeName() string {
	return clean(id.SubType)
}

// PatternName is the name with hidden marker and ordinal stripped.
func (id ID) PatternName() string {
	return clean(id.Name)
}

// Partial returns the canonical lookup key, e.g. "atoms-button" or
// "atoms-button~primary".
func (id ID) Partial() string {
	partial := joinNonEmpty(string(Space), id.TypeName(), id.PatternName())
	if id.Pseudo != "" {
		partial += string(Pseudo) + id.Pseudo
	}
	return partial
}

// DisplayName is the human readable name shown in navigation.
func (id ID) DisplayName() string {
	name := id.PatternName()
	if id.Pseudo != "" {
		name = joinNonEmpty(string(Space), name, id.Pseudo)
	}
	return ToDisplayCase(name)
}

// PathDash joins type, subtype and name with dashes, ordinals included.
// The pattern list is ordered by this value.
func (id ID) PathDash() string {
	dash := joinNonEmpty(string(Space), id.Type, id.SubType, id.Name)
	if id.Pseudo != "" {
		dash += string(Pseudo) + id.Pseudo
	}
	return dash
}

// PathSlash is the relative file path without extension or state.
func (id ID) PathSlash() string {
	parts := append(append([]string(nil), id.dirs...), id.Name)
	slash := joinNonEmpty("/", parts...)
	if id.Pseudo != "" {
		slash += string(Pseudo) + id.Pseudo
	}
	return slash
}

// HTMLURL is the page location relative to the patterns output folder.
func (id ID) HTMLURL() string {
	dash := id.PathDash()
	if dash == "" {
		return ""
	}
	return dash + "/" + dash + ".html"
}

// ViewURL is the absolute URL a pattern page is served from.
func (id ID) ViewURL() string {
	if id.HTMLURL() == "" {
		return ""
	}
	return "/patterns/" + id.HTMLURL()
}

// StripOrdinals removes a leading numeric ordinal ("00-atoms" -> "atoms").
func StripOrdinals(s string) string {
	return ordinalPattern.ReplaceAllString(s, "")
}

// StripHidden removes leading hidden markers.
func StripHidden(s string) string {
	return strings.TrimLeft(s, string(Hidden))
}

// ToDisplayCase turns "primary-button" into "Primary Button". Letters after
// the first of each word keep their case.
func ToDisplayCase(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, string(Space), " "))
	if s == "" {
		return ""
	}
	return cases.Title(language.English, cases.NoLower).String(s)
}

// StripPatternParameters removes the style modifier and call parameters
// from a pattern reference so that it can be used as a lookup key.
func StripPatternParameters(ref string) string {
	if i := strings.IndexRune(ref, Parameters); i >= 0 {
		ref = ref[:i]
	}
	if i := strings.IndexRune(ref, Modifier); i >= 0 {
		ref = ref[:i]
	}
	return strings.TrimSpace(ref)
}

func clean(segment string) string {
	return StripOrdinals(StripHidden(segment))
}

func isHidden(segment string) bool {
	return strings.HasPrefix(segment, string(Hidden))
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}
