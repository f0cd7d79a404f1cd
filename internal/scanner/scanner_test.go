package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/patternlab/internal/engine"
	"github.com/conneroisu/patternlab/internal/testutils"
	"github.com/conneroisu/patternlab/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partials(patterns []*types.Pattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Partial()
	}
	return out
}

func TestNewPatternScanner(t *testing.T) {
	scanner := NewPatternScanner(engine.NewHTMLEngine(), nil)

	assert.NotNil(t, scanner)
	assert.NotNil(t, scanner.logger)
}

func TestScanDirectory(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	scanner := NewPatternScanner(engine.NewHTMLEngine(), nil)

	patterns := scanner.ScanDirectory(sourceDir)

	assert.Equal(t, []string{
		"atoms-colors",
		"atoms-secret",
		"atoms-button",
		"atoms-button~disabled",
		"molecules-search",
		"pages-home",
		"meta-head",
		"meta-foot",
	}, partials(patterns))
}

func TestScanDirectoryPatternDetails(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	patterns := NewPatternScanner(engine.NewHTMLEngine(), nil).ScanDirectory(sourceDir)

	byPartial := make(map[string]*types.Pattern)
	for _, p := range patterns {
		byPartial[p.Partial()] = p
	}

	button := byPartial["atoms-button"]
	require.NotNil(t, button)
	assert.Equal(t, "complete", button.State)
	assert.Equal(t, []string{"disabled"}, button.PseudoPatterns)
	assert.False(t, button.IsPseudo())
	assert.Equal(t, filepath.Join(sourceDir, "_patterns", "00-atoms", "02-buttons", "00-button@complete.gohtml"), button.FilePath)
	assert.NotEmpty(t, button.Hash)

	disabled := byPartial["atoms-button~disabled"]
	require.NotNil(t, disabled)
	assert.True(t, disabled.IsPseudo())
	assert.Equal(t, "atoms-button", disabled.BasePartial())
	assert.Equal(t, "complete", disabled.State)
	assert.Equal(t, button.FilePath, disabled.FilePath)
	assert.Equal(t, button.Hash, disabled.Hash)
	assert.Empty(t, disabled.PseudoPatterns)

	search := byPartial["molecules-search"]
	require.NotNil(t, search)
	assert.Equal(t, []string{"atoms-button"}, search.Lineages)
	assert.Equal(t, "inprogress", search.State)

	assert.True(t, byPartial["atoms-secret"].Hidden)
	assert.True(t, byPartial["meta-head"].Hidden)
	assert.Equal(t, "_meta", byPartial["meta-head"].Type)
	assert.Empty(t, byPartial["pages-home"].SubType)
}

func TestScanDirectoryPseudoPatternLineages(t *testing.T) {
	sourceDir := testutils.CreateTempSource(t, map[string]string{
		"_patterns/01-molecules/00-card.gohtml": `{{template "atoms-a" .}}` +
			`{{define "~plain"}}plain{{end}}` +
			`{{define "~linked"}}{{template "atoms-link" .}}{{end}}`,
	})

	patterns := NewPatternScanner(engine.NewHTMLEngine(), nil).ScanDirectory(sourceDir)
	require.Len(t, patterns, 3)

	byPartial := make(map[string]*types.Pattern)
	for _, p := range patterns {
		byPartial[p.Partial()] = p
	}

	assert.Equal(t, []string{"atoms-a"}, byPartial["molecules-card"].Lineages)
	assert.Empty(t, byPartial["molecules-card~plain"].Lineages)
	assert.Equal(t, []string{"atoms-link"}, byPartial["molecules-card~linked"].Lineages)
}

func TestScanDirectorySkipsRootFilesAndOtherExtensions(t *testing.T) {
	sourceDir := testutils.CreateTempSource(t, map[string]string{
		"_patterns/root.gohtml":                "<p>root</p>",
		"_patterns/00-atoms/00-logo.gohtml":    "<img>",
		"_patterns/00-atoms/00-logo.tmpl":      "<img>",
		"_patterns/00-atoms/00-logo.md":        "# Logo",
		"_patterns/00-atoms/00-logo.json":      "{}",
		"_patterns/00-atoms/01-Icon.GOHTML":    "<i></i>",
		"_meta/nested/_00-extra-head.gohtml":   "<link>",
		"_meta/_00-head.tmpl":                  "not the engine",
	})

	patterns := NewPatternScanner(engine.NewHTMLEngine(), nil).ScanDirectory(sourceDir)

	assert.Equal(t, []string{"atoms-logo", "atoms-Icon", "meta-extra-head"}, partials(patterns))
}

func TestScanDirectoryTextEngine(t *testing.T) {
	sourceDir := testutils.CreateTempSource(t, map[string]string{
		"_patterns/00-atoms/00-logo.gohtml": "<img>",
		"_patterns/00-atoms/01-text.tmpl":   "plain",
	})

	patterns := NewPatternScanner(engine.NewTextEngine(), nil).ScanDirectory(sourceDir)

	assert.Equal(t, []string{"atoms-text"}, partials(patterns))
}

func TestScanDirectoryCreatesMissingFolders(t *testing.T) {
	sourceDir := t.TempDir()

	patterns := NewPatternScanner(engine.NewHTMLEngine(), nil).ScanDirectory(sourceDir)
	assert.Empty(t, patterns)

	for _, folder := range []string{FolderNameMeta, FolderNamePattern} {
		info, err := os.Stat(filepath.Join(sourceDir, folder))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestScanDirectoryIsDeterministic(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	scanner := NewPatternScanner(engine.NewHTMLEngine(), nil)

	first := partials(scanner.ScanDirectory(sourceDir))
	second := partials(scanner.ScanDirectory(sourceDir))

	assert.Equal(t, first, second)
}

func TestScanFileMissing(t *testing.T) {
	scanner := NewPatternScanner(engine.NewHTMLEngine(), nil)

	_, err := scanner.ScanFile("/nonexistent/00-atoms/00-logo.gohtml", "/nonexistent")
	assert.Error(t, err)
}

func TestStripLineages(t *testing.T) {
	refs := []string{
		`atoms-button:primary(text: "a")`,
		"atoms-button",
		"Atoms-Button",
		"molecules-nav(active: true)",
		"",
	}

	assert.Equal(t, []string{"atoms-button", "molecules-nav"}, stripLineages(refs))
}

func TestSortPatternsTieBreak(t *testing.T) {
	sourceDir := testutils.CreateTempSource(t, map[string]string{
		"_patterns/00-atoms/00-b.gohtml": "b",
		"_patterns/00-atoms/00-a.gohtml": "a",
	})
	patterns := NewPatternScanner(engine.NewHTMLEngine(), nil).ScanDirectory(sourceDir)

	reversed := []*types.Pattern{patterns[1], patterns[0]}
	SortPatterns(reversed)

	assert.Equal(t, []string{"atoms-a", "atoms-b"}, partials(reversed))
}
