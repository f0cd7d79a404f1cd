package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTempSource creates a source directory holding files, keyed by their
// slash separated path relative to the source root.
func CreateTempSource(t *testing.T, files map[string]string) string {
	t.Helper()
	sourceDir := t.TempDir()

	for rel, content := range files {
		WriteSourceFile(t, sourceDir, rel, content)
	}

	return sourceDir
}

// WriteSourceFile writes content to rel below sourceDir, creating parents.
func WriteSourceFile(t *testing.T, sourceDir, rel, content string) string {
	t.Helper()
	path := filepath.Join(sourceDir, filepath.FromSlash(rel))
	err := os.MkdirAll(filepath.Dir(path), 0755)
	require.NoError(t, err)
	err = os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// CreateSampleSource creates a source directory from SampleSource.
func CreateSampleSource(t *testing.T) string {
	t.Helper()
	return CreateTempSource(t, SampleSource)
}

// SampleSource is a small pattern library for the gohtml engine covering
// meta templates, nested types, states, a hidden pattern, a pseudo-pattern,
// pattern-local data and stylesheets with media queries.
var SampleSource = map[string]string{
	"_meta/_00-head.gohtml": `<html><head><title>{{.title}}</title></head><body>`,
	"_meta/_01-foot.gohtml": `</body></html>`,

	"_patterns/readme.gohtml": `ignored`,

	"_patterns/00-atoms/01-global/00-colors.gohtml":  `<ul class="colors"></ul>`,
	"_patterns/00-atoms/01-global/_01-secret.gohtml": `<p>secret</p>`,

	"_patterns/00-atoms/02-buttons/00-button@complete.gohtml": `<button class="{{.styleModifier}}">{{.text}}</button>` +
		`{{define "~disabled"}}<button disabled>{{.text}}</button>{{end}}`,
	"_patterns/00-atoms/02-buttons/00-button.json":          `{"text": "Click"}`,
	"_patterns/00-atoms/02-buttons/00-button~disabled.json": `{"text": "Nope"}`,

	"_patterns/01-molecules/00-forms/00-search@inprogress.gohtml": `<form>{{template "atoms-button:primary(text: \"Search\")" .}}</form>`,

	"_patterns/02-pages/00-home.gohtml": `<main>{{template "molecules-search" .}}</main>`,

	"_data/_data.json": `{"title": "Pattern Lab", "text": "Default"}`,
	"_data/nav.yaml":   "links:\n  - home\n  - about\n",

	"css/style.css": `.a { color: red; }
@media (min-width: 768px) { .b { display: none; } }
@media (max-width:480px) { .c { display: block; } }
@media (min-width: 768px) { .d { color: blue; } }`,
	"css/vendor/print.css": `@media (max-width: 20em) { .e { margin: 0; } }`,
}
