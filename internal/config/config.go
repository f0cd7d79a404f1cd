// Package config provides the settings a compilation session reads.
//
// Settings live in config/config.yml below the source directory and are
// read with a dedicated Viper instance into a flat, read-only map. A missing
// file is generated from an embedded default with the running version and
// the default pattern engine substituted. Failing to read the file is the
// one fatal error of a session.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/patternlab/internal/errors"
)

// FilePath is the location of the settings file relative to the source
// directory.
const FilePath = "config/config.yml"

//go:embed default.yml
var defaultConfig string

// Settings is a flat, case-insensitive string map.
type Settings struct {
	path   string
	values map[string]string
}

// Load reads the settings of sourceDir, generating the default file first
// when it does not exist.
func Load(sourceDir, version, patternEngine string) (*Settings, error) {
	path := filepath.Join(sourceDir, filepath.FromSlash(FilePath))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := WriteDefault(path, version, patternEngine); err != nil {
			return nil, errors.ErrConfigUnreadable(path, err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.ErrConfigUnreadable(path, err)
	}

	values := make(map[string]string)
	for _, key := range v.AllKeys() {
		values[strings.ToLower(key)] = stringify(v.Get(key))
	}

	return &Settings{path: path, values: values}, nil
}

// New creates settings from a map, mostly for tests.
func New(values map[string]string) *Settings {
	s := &Settings{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[strings.ToLower(k)] = strings.ReplaceAll(v, `"`, "")
	}
	return s
}

// DefaultContent returns the default settings file.
func DefaultContent(version, patternEngine string) string {
	return strings.NewReplacer(
		"$version$", version,
		"$patternEngine$", strings.ToLower(patternEngine),
	).Replace(defaultConfig)
}

// WriteDefault writes the default settings file to path.
func WriteDefault(path, version, patternEngine string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config folder: %w", err)
	}
	return os.WriteFile(path, []byte(DefaultContent(version, patternEngine)), 0644)
}

// Get returns the named setting or "" when it is not set. Names are
// case-insensitive and double quotes are removed from values.
func (s *Settings) Get(name string) string {
	if s == nil {
		return ""
	}
	return s.values[strings.ToLower(name)]
}

// Bool parses the named setting, reporting false when it is not a boolean.
func (s *Settings) Bool(name string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s.Get(name)))
	return err == nil && b
}

// List splits the named comma delimited setting, dropping blank entries.
func (s *Settings) List(name string) []string {
	var items []string
	for _, item := range strings.Split(s.Get(name), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Keys returns the setting names in sorted order.
func (s *Settings) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a copy of every setting.
func (s *Settings) All() map[string]string {
	all := make(map[string]string, len(s.Keys()))
	for _, k := range s.Keys() {
		all[k] = s.values[k]
	}
	return all
}

// Path is the file the settings were read from, empty for New.
func (s *Settings) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func stringify(value interface{}) string {
	var out string
	switch v := value.(type) {
	case nil:
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		out = strings.Join(parts, ",")
	default:
		out = fmt.Sprint(v)
	}
	return strings.ReplaceAll(out, `"`, "")
}
