package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/logging"
)

func TestLoadGeneratesDefault(t *testing.T) {
	sourceDir := t.TempDir()

	settings, err := Load(sourceDir, "1.2.3", "GoHTML")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(sourceDir, "config", "config.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `v: "1.2.3"`)
	assert.Contains(t, string(content), `patternEngine: "gohtml"`)
	assert.NotContains(t, string(content), "$version$")

	assert.Equal(t, "1.2.3", settings.Get("v"))
	assert.Equal(t, "gohtml", settings.Get("patternEngine"))
	assert.Equal(t, "complete,inreview,inprogress", settings.Get("patternStates"))
	assert.Equal(t, filepath.Join(sourceDir, "config", "config.yml"), settings.Path())
}

func TestLoadExisting(t *testing.T) {
	sourceDir := t.TempDir()
	path := filepath.Join(sourceDir, "config", "config.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`
patternEngine: gotext
cacheBusterOn: false
ishMaximum: 1200
id:
  - scss
  - node_modules
xipHostname: 'say "hi"'
`), 0644))

	settings, err := Load(sourceDir, "dev", "gohtml")
	require.NoError(t, err)

	assert.Equal(t, "gotext", settings.Get("PATTERNENGINE"))
	assert.Equal(t, "false", settings.Get("cacheBusterOn"))
	assert.False(t, settings.Bool("cacheBusterOn"))
	assert.Equal(t, "1200", settings.Get("ishMaximum"))
	assert.Equal(t, []string{"scss", "node_modules"}, settings.List("id"))
	assert.Equal(t, "say hi", settings.Get("xipHostname"))
	assert.Empty(t, settings.Get("missing"))
}

func TestLoadUnreadable(t *testing.T) {
	sourceDir := t.TempDir()
	path := filepath.Join(sourceDir, "config", "config.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("patternEngine: [unclosed"), 0644))

	_, err := Load(sourceDir, "dev", "gohtml")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestSettingsAccessors(t *testing.T) {
	settings := New(map[string]string{
		"patternStates": `"complete, inreview,,inprogress"`,
		"cacheBusterOn": "TRUE",
	})

	assert.Equal(t, []string{"complete", "inreview", "inprogress"}, settings.List("patternstates"))
	assert.True(t, settings.Bool("cacheBusterOn"))
	assert.Equal(t, []string{"cachebusteron", "patternstates"}, settings.Keys())
	assert.Len(t, settings.All(), 2)
	assert.Empty(t, settings.Path())
	assert.Nil(t, settings.List("missing"))
}

func TestNilSettings(t *testing.T) {
	var settings *Settings

	assert.Empty(t, settings.Get("anything"))
	assert.False(t, settings.Bool("anything"))
	assert.Empty(t, settings.Keys())
	assert.Empty(t, settings.Path())
}

func TestDefaultContent(t *testing.T) {
	content := DefaultContent("9.9.9", "GoText")

	assert.Contains(t, content, "9.9.9")
	assert.Contains(t, content, `patternEngine: "gotext"`)
	assert.NotContains(t, content, "$patternEngine$")
}

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		expected    Options
	}{
		{
			name:     "defaults",
			setup:    func() { viper.Reset() },
			expected: Options{SourceDir: ".", LogLevel: "WARN", LogFormat: "text"},
		},
		{
			name: "explicit values",
			setup: func() {
				viper.Reset()
				viper.Set("source", "./site")
				viper.Set("log-level", "debug")
				viper.Set("log-format", "json")
			},
			expected: Options{SourceDir: "./site", LogLevel: "debug", LogFormat: "json"},
		},
		{
			name: "invalid level",
			setup: func() {
				viper.Reset()
				viper.Set("log-level", "loud")
			},
			expectError: true,
		},
		{
			name: "invalid format",
			setup: func() {
				viper.Reset()
				viper.Set("log-format", "xml")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			opts, err := LoadOptions()
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.IsConfigError(err))
				assert.False(t, errors.IsRecoverable(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *opts)
		})
	}
}

func TestOptionsLoggerConfig(t *testing.T) {
	opts := &Options{LogLevel: "debug", LogFormat: "json"}

	cfg := opts.LoggerConfig()
	assert.Equal(t, logging.LevelDebug, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}
