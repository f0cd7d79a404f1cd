package identifier

import (
	"strconv"
	"strings"
	"unicode"
)

// ModifierKey is the data key a style modifier is exposed under.
const ModifierKey = "styleModifier"

// Call holds the parts of a pattern reference that follow the partial.
type Call struct {
	// Partial is the reference with modifier and parameters removed
	Partial string
	// StyleModifier holds the modifier values joined with spaces
	StyleModifier string
	// Values are the parenthesized parameters, keyed by name
	Values map[string]interface{}
}

// Data returns the call parameters as render data, including the style
// modifier when present.
func (c Call) Data() map[string]interface{} {
	out := make(map[string]interface{}, len(c.Values)+1)
	for k, v := range c.Values {
		out[k] = v
	}
	if c.StyleModifier != "" {
		out[ModifierKey] = c.StyleModifier
	}
	return out
}

// ParseCall splits a reference such as
//
//	atoms-button:primary|large(text: "Buy now", disabled: true)
//
// into its partial, modifier and parameters. Malformed parameter lists
// yield whatever pairs could be read.
func ParseCall(ref string) Call {
	call := Call{
		Partial: StripPatternParameters(ref),
		Values:  map[string]interface{}{},
	}

	head := ref
	if i := strings.IndexRune(ref, Parameters); i >= 0 {
		head = ref[:i]
		body := ref[i+1:]
		if j := strings.LastIndexByte(body, ')'); j >= 0 {
			body = body[:j]
		}
		call.Values = parseValues(body)
	}

	if i := strings.IndexRune(head, Modifier); i >= 0 {
		modifiers := strings.Split(head[i+1:], string(ModifierSeparator))
		kept := modifiers[:0]
		for _, m := range modifiers {
			if m = strings.TrimSpace(m); m != "" {
				kept = append(kept, m)
			}
		}
		call.StyleModifier = strings.Join(kept, " ")
	}

	return call
}

// parseValues reads comma separated key: value pairs. Quoted values may
// contain the delimiter.
func parseValues(body string) map[string]interface{} {
	values := map[string]interface{}{}

	var (
		pairs   []string
		current strings.Builder
		quoted  bool
		escaped bool
	)
	for _, r := range body {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == ParameterString:
			quoted = !quoted
		case r == Delimiter && !quoted:
			pairs = append(pairs, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	pairs = append(pairs, current.String())

	for _, pair := range pairs {
		i := strings.IndexRune(pair, Modifier)
		if i < 0 {
			continue
		}
		key := strings.TrimFunc(pair[:i], func(r rune) bool {
			return unicode.IsSpace(r) || r == ParameterString
		})
		if key == "" {
			continue
		}
		values[key] = parseValue(strings.TrimSpace(pair[i+1:]))
	}

	return values
}

func parseValue(raw string) interface{} {
	if len(raw) >= 2 && raw[0] == ParameterString && raw[len(raw)-1] == ParameterString {
		if unquoted, err := strconv.Unquote(raw); err == nil {
			return unquoted
		}
		return raw[1 : len(raw)-1]
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
