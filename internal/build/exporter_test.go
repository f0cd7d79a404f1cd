package build

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/provider"
	"github.com/conneroisu/patternlab/internal/testutils"
)

func newSession(sourceDir, publicDir string) *provider.Provider {
	return provider.New(provider.Options{
		SourceDir: sourceDir,
		PublicDir: publicDir,
		Now:       func() time.Time { return time.Unix(1714564800, 0) },
		IPAddress: "10.0.0.1",
	})
}

func readOutput(t *testing.T, publicDir, rel string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(publicDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(content)
}

func TestExport(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	publicDir := t.TempDir()

	result, err := NewExporter(newSession(sourceDir, publicDir), Options{Workers: 2}).Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, result.Patterns)
	assert.Equal(t, 5, result.ViewAll)
	assert.Equal(t, 2, result.Assets)
	assert.Zero(t, result.Unchanged)

	home := "patterns/02-pages-00-home/02-pages-00-home"
	assert.Equal(t,
		`<html><head><title>Pattern Lab</title></head><body>`+
			`<main><form><button class="primary">Search</button></form></main>`+
			`</body></html>`,
		readOutput(t, publicDir, home+".html"))
	assert.Equal(t,
		`&lt;main&gt;&lt;form&gt;&lt;button class=&#34;primary&#34;&gt;Search&lt;/button&gt;&lt;/form&gt;&lt;/main&gt;`,
		readOutput(t, publicDir, home+".escaped.html"))
	assert.Equal(t, testutils.SampleSource["_patterns/02-pages/00-home.gohtml"], readOutput(t, publicDir, home+".gohtml"))

	disabled := "patterns/00-atoms-02-buttons-00-button~disabled/00-atoms-02-buttons-00-button~disabled.html"
	assert.Contains(t, readOutput(t, publicDir, disabled), "<button disabled>Nope</button>")

	assert.Contains(t, result.Files, "patterns/00-atoms-01-global-_01-secret/00-atoms-01-global-_01-secret.html")
	assert.NoDirExists(t, filepath.Join(publicDir, "patterns", "_meta-_00-head"))
}

func TestExportViewAll(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	publicDir := t.TempDir()

	result, err := NewExporter(newSession(sourceDir, publicDir), Options{}).Export(context.Background())
	require.NoError(t, err)

	for _, rel := range []string{
		"patterns/00-atoms-01-global/index.html",
		"patterns/00-atoms-02-buttons/index.html",
		"patterns/00-atoms/index.html",
		"patterns/01-molecules-00-forms/index.html",
		"patterns/01-molecules/index.html",
	} {
		assert.Contains(t, result.Files, rel)
	}

	atoms := readOutput(t, publicDir, "patterns/00-atoms/index.html")
	assert.Contains(t, atoms, `id="atoms-colors"`)
	assert.Contains(t, atoms, `id="atoms-button~disabled"`)
	assert.NotContains(t, atoms, `id="atoms-secret"`)
}

func TestExportViewerData(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)

	for _, tc := range []struct {
		name    string
		noCache bool
		want    string
	}{
		{"cache buster", false, "1714564800"},
		{"no cache", true, "0"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			publicDir := t.TempDir()
			_, err := NewExporter(newSession(sourceDir, publicDir), Options{NoCache: tc.noCache}).Export(context.Background())
			require.NoError(t, err)

			var viewer map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(readOutput(t, publicDir, FileViewerData)), &viewer))
			assert.Equal(t, tc.want, viewer["cacheBuster"])
			assert.Equal(t, "Pattern Lab", viewer["title"])
			assert.Equal(t, "10.0.0.1", viewer["ipaddress"])
			assert.Len(t, viewer["patternTypes"], 3)
		})
	}
}

func TestExportAssets(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	testutils.WriteSourceFile(t, sourceDir, "scss/main.scss", "$a: 1;")
	testutils.WriteSourceFile(t, sourceDir, "images/logo.svg", "<svg></svg>")
	testutils.WriteSourceFile(t, sourceDir, "images/.DS_Store", "junk")
	testutils.WriteSourceFile(t, sourceDir, "styles/theme.less", "@a: 1;")
	testutils.WriteSourceFile(t, sourceDir, "LICENSE", "MIT")

	session := newSession(sourceDir, "")
	_, err := NewExporter(session, Options{}).Export(context.Background())
	require.NoError(t, err)

	publicDir := session.PublicPath()
	assert.FileExists(t, filepath.Join(publicDir, "css", "style.css"))
	assert.FileExists(t, filepath.Join(publicDir, "css", "vendor", "print.css"))
	assert.FileExists(t, filepath.Join(publicDir, "images", "logo.svg"))

	for _, rel := range []string{
		"scss/main.scss",
		"images/.DS_Store",
		"styles/theme.less",
		"LICENSE",
		"_data/_data.json",
		"_patterns/00-atoms/02-buttons/00-button.json",
		"config/config.yml",
	} {
		assert.NoFileExists(t, filepath.Join(publicDir, filepath.FromSlash(rel)))
	}
}

func TestExportIsRepeatable(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	session := newSession(sourceDir, "")

	first, err := NewExporter(session, Options{}).Export(context.Background())
	require.NoError(t, err)

	session.Clear()
	second, err := NewExporter(session, Options{}).Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, len(second.Files), second.Unchanged)
	assert.NoDirExists(t, filepath.Join(session.PublicPath(), "public"))
}

func TestExportReportsBrokenPatterns(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	testutils.WriteSourceFile(t, sourceDir, "_patterns/00-atoms/01-global/02-broken.gohtml", "{{if}}")
	publicDir := t.TempDir()

	exporter := NewExporter(newSession(sourceDir, publicDir), Options{})
	result, err := exporter.Export(context.Background())
	require.Error(t, err)

	var pe *errors.PatternLabError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "atoms-broken", pe.Pattern)

	require.NotNil(t, result)
	assert.Equal(t, 6, result.Patterns)
	assert.FileExists(t, filepath.Join(publicDir, filepath.FromSlash(FileViewerData)))

	snapshot := exporter.Metrics().GetSnapshot()
	assert.Equal(t, int64(7), snapshot.TotalPatterns)
	assert.Equal(t, int64(1), snapshot.Failed)
}

func TestExportStopsOnWriteFailure(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	publicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, FolderPatterns), []byte("in the way"), 0644))

	exporter := NewExporter(newSession(sourceDir, publicDir), Options{Workers: 1})
	result, err := exporter.Export(context.Background())
	require.Error(t, err)

	var pe *errors.PatternLabError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, errors.ErrorTypeIO, pe.Type)
	assert.Equal(t, errors.ErrCodeWriteFailed, pe.Code)
	assert.False(t, errors.IsRecoverable(err))

	require.NotNil(t, result)
	assert.Zero(t, result.Patterns)
	assert.Zero(t, result.ViewAll)
	assert.NoFileExists(t, filepath.Join(publicDir, filepath.FromSlash(FileViewerData)))
	assert.Zero(t, exporter.Metrics().GetSnapshot().Exported)
}

func TestExportResetsMetrics(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	exporter := NewExporter(newSession(sourceDir, t.TempDir()), Options{})

	_, err := exporter.Export(context.Background())
	require.NoError(t, err)
	_, err = exporter.Export(context.Background())
	require.NoError(t, err)

	snapshot := exporter.Metrics().GetSnapshot()
	assert.Equal(t, int64(6), snapshot.TotalPatterns)
	assert.InDelta(t, 100.0, exporter.Metrics().GetSuccessRate(), 0.001)
}

func TestExportFailsOnUnreadableConfig(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	testutils.WriteSourceFile(t, sourceDir, "config/config.yml", "patternEngine: [unclosed")
	publicDir := t.TempDir()

	result, err := NewExporter(newSession(sourceDir, publicDir), Options{}).Export(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Nil(t, result)

	entries, err := os.ReadDir(publicDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportCancelled(t *testing.T) {
	sourceDir := testutils.CreateSampleSource(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewExporter(newSession(sourceDir, t.TempDir()), Options{}).Export(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Zero(t, result.Patterns)
}
