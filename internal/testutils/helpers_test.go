package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTempSource(t *testing.T) {
	sourceDir := CreateTempSource(t, map[string]string{
		"_patterns/00-atoms/00-logo.gohtml": "<img>",
		"_data/_data.json":                  "{}",
	})

	content, err := os.ReadFile(filepath.Join(sourceDir, "_patterns", "00-atoms", "00-logo.gohtml"))
	require.NoError(t, err)
	assert.Equal(t, "<img>", string(content))

	info, err := os.Stat(filepath.Join(sourceDir, "_data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateSampleSource(t *testing.T) {
	sourceDir := CreateSampleSource(t)

	for rel := range SampleSource {
		_, err := os.Stat(filepath.Join(sourceDir, filepath.FromSlash(rel)))
		assert.NoError(t, err, "expected %s to exist", rel)
	}
}
