package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, ErrCodeWriteFailed, "writing"))

	cause := errors.New("disk full")
	err := WrapIO(cause, ErrCodeWriteFailed, "writing page")
	require.NotNil(t, err)
	assert.Equal(t, ErrorTypeIO, err.Type)
	assert.False(t, err.Recoverable)
	assert.True(t, errors.Is(err, cause))

	inner := ErrRenderFailed("atoms-button", cause).WithFile("/src/button.gohtml")
	outer := Wrap(inner, ErrorTypeRender, ErrCodeRenderFailed, "exporting")
	assert.Equal(t, "atoms-button", outer.Pattern)
	assert.Equal(t, "/src/button.gohtml", outer.FilePath)
	assert.True(t, outer.Recoverable)

	cfg := WrapConfig(cause, ErrCodeConfigInvalid, "bad config")
	assert.True(t, IsConfigError(cfg))
}

func TestPatternNotFoundSuggestions(t *testing.T) {
	partials := []string{"atoms-button", "atoms-buttons-group", "molecules-search", "pages-home"}

	suggestions := PatternNotFoundSuggestions("atom-buton", partials)
	require.Len(t, suggestions, 3)
	assert.Equal(t, "List all discovered patterns", suggestions[0].Title)
	assert.Equal(t, "Did you mean 'atoms-button'?", suggestions[1].Title)

	suggestions = PatternNotFoundSuggestions("zzz", partials)
	assert.Len(t, suggestions, 1)
}

func TestFormatError(t *testing.T) {
	assert.Empty(t, FormatError(nil))

	err := WithSuggestions(ErrPatternNotFound("atoms-x"), []Suggestion{{Title: "Try this", Command: "patternlab list"}})
	msg := FormatError(err)
	assert.Contains(t, msg, "pattern not found: atoms-x")
	assert.Contains(t, msg, "1. Try this")
	assert.Contains(t, msg, "Run: patternlab list")
	assert.True(t, errors.Is(err, ErrPatternNotFound("other")))

	assert.Nil(t, WithSuggestions(nil, nil))
	assert.Equal(t, "plain", FormatError(errors.New("plain")))
}
