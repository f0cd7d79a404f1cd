package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Suggestion is a hint for fixing an error.
type Suggestion struct {
	Title       string
	Description string
	Command     string
}

// PatternNotFoundSuggestions proposes partials resembling term. Candidates
// sharing a word with term come first, in their given order.
func PatternNotFoundSuggestions(term string, partials []string) []Suggestion {
	suggestions := []Suggestion{
		{
			Title:       "List all discovered patterns",
			Description: "See the partials of every pattern in the source directory",
			Command:     "patternlab list --all",
		},
	}

	var similar []string
	words := strings.FieldsFunc(strings.ToLower(term), isSeparator)
	for _, partial := range partials {
		lower := strings.ToLower(partial)
		for _, w := range words {
			if len(w) > 1 && strings.Contains(lower, w) {
				similar = append(similar, partial)
				break
			}
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return distance(term, similar[i]) < distance(term, similar[j])
	})

	for i, partial := range similar {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, Suggestion{
			Title:       fmt.Sprintf("Did you mean '%s'?", partial),
			Description: "Similar pattern found",
			Command:     "patternlab state " + partial,
		})
	}

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []Suggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
	}

	return output.String()
}

// SuggestedError wraps an error with suggestions
type SuggestedError struct {
	Cause       error
	Suggestions []Suggestion
}

// Error implements the error interface
func (e *SuggestedError) Error() string {
	return FormatSuggestions(e.Cause.Error(), e.Suggestions)
}

// Unwrap returns the original error
func (e *SuggestedError) Unwrap() error {
	return e.Cause
}

// WithSuggestions attaches suggestions to err.
func WithSuggestions(err error, suggestions []Suggestion) error {
	if err == nil {
		return nil
	}
	return &SuggestedError{Cause: err, Suggestions: suggestions}
}

func isSeparator(r rune) bool {
	return r == '-' || r == '/' || r == '~' || r == ' '
}

// distance is the Levenshtein distance between a and b, ignoring case.
func distance(a, b string) int {
	ra, rb := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
