package build

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSkipsUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	w := newWriter(root)

	require.NoError(t, w.write(filepath.Join("a", "b.html"), []byte("<p>one</p>")))
	path := filepath.Join(root, "a", "b.html")
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	require.NoError(t, w.write(filepath.Join("a", "b.html"), []byte("<p>one</p>")))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.WithinDuration(t, old, info.ModTime(), time.Second)
	assert.Equal(t, 1, w.unchanged())

	require.NoError(t, w.write(filepath.Join("a", "b.html"), []byte("<p>two</p>")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>two</p>", string(content))
	assert.Equal(t, 1, w.unchanged())

	assert.Equal(t, []string{"a/b.html", "a/b.html", "a/b.html"}, w.files())
}

func TestWriterCopy(t *testing.T) {
	src := filepath.Join(t.TempDir(), "logo.svg")
	require.NoError(t, os.WriteFile(src, []byte("<svg></svg>"), 0644))

	root := t.TempDir()
	w := newWriter(root)
	require.NoError(t, w.copy(src, filepath.Join("images", "logo.svg")))
	assert.FileExists(t, filepath.Join(root, "images", "logo.svg"))

	assert.Error(t, w.copy(filepath.Join(t.TempDir(), "missing.svg"), "missing.svg"))
}

func TestIsIgnoredDir(t *testing.T) {
	ignored := []string{"scss", "node_modules", "css/vendor", "", "/public/"}

	tests := []struct {
		rel  string
		want bool
	}{
		{"scss", true},
		{"styles/scss", true},
		{"SCSS", true},
		{"css", false},
		{"css/vendor", true},
		{"css/vendor/fonts", true},
		{"lib/node_modules", true},
		{"public", true},
		{"publications", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, isIgnoredDir(tt.rel, ignored))
		})
	}
}

func TestIsIgnoredExt(t *testing.T) {
	ignored := []string{"scss", "DS_Store", "less", ""}

	tests := []struct {
		name string
		want bool
	}{
		{"main.scss", true},
		{".DS_Store", true},
		{"theme.LESS", true},
		{"LICENSE", true},
		{"style.css", false},
		{"logo.svg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isIgnoredExt(tt.name, ignored))
		})
	}
}
