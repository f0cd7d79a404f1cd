package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conneroisu/patternlab/internal/logging"
	"gopkg.in/yaml.v3"
)

// Extensions lists the supported data file extensions in enumeration order.
var Extensions = []string{".json", ".yaml"}

// yamlAliases are accepted alongside ".yaml" and parsed the same way.
var yamlAliases = []string{".yml"}

// ErrNotMapping is returned by Parse when a document's root is not a mapping.
var ErrNotMapping = errors.New("data document root is not a mapping")

// Loader reads data files into collections.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a loader that reports skipped files to logger.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{logger: logger.WithComponent("data")}
}

// GetData parses every file and merges the results in order, later files
// replacing top-level keys of earlier ones. Files that cannot be read or
// parsed are skipped.
func (l *Loader) GetData(files []string) Collection {
	result := Collection{}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			l.logger.Warn(context.Background(), err, "Skipping unreadable data file", "file", file)
			continue
		}

		parsed, err := Parse(filepath.Ext(file), content)
		if err != nil {
			l.logger.Warn(context.Background(), err, "Skipping malformed data file", "file", file)
			continue
		}

		for k, v := range parsed {
			result[k] = v
		}
	}

	return result
}

// GetData is Loader.GetData without logging.
func GetData(files []string) Collection {
	return NewLoader(nil).GetData(files)
}

// Parse decodes a single document according to its extension.
func Parse(ext string, content []byte) (Collection, error) {
	var raw interface{}

	switch {
	case strings.EqualFold(ext, ".json"):
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	case isYAML(ext):
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported data file extension %q", ext)
	}

	if raw == nil {
		return Collection{}, nil
	}

	c, ok := FromInterface(raw).Map()
	if !ok {
		return nil, ErrNotMapping
	}
	return c, nil
}

// MergeData returns a new collection holding the keys of original overridden
// by those of additional. Neither input is modified.
func MergeData(original, additional Collection) Collection {
	result := make(Collection, len(original)+len(additional))
	for k, v := range original {
		result[k] = v
	}
	for k, v := range additional {
		result[k] = v
	}
	return result
}

// FindDataFiles recursively lists data files under dir, grouped by extension
// in the order of Extensions and sorted lexically within each group. A
// missing directory yields no files.
func FindDataFiles(dir string) []string {
	groups := make(map[string][]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() || !IsDataFile(path) {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if isYAML(ext) {
			ext = ".yaml"
		}
		groups[ext] = append(groups[ext], path)
		return nil
	})
	if err != nil {
		return nil
	}

	var files []string
	for _, ext := range Extensions {
		group := groups[ext]
		sort.Strings(group)
		files = append(files, group...)
	}
	return files
}

// IsDataFile reports whether path has a supported data extension.
func IsDataFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".json") || isYAML(ext)
}

func isYAML(ext string) bool {
	if strings.EqualFold(ext, ".yaml") {
		return true
	}
	for _, alias := range yamlAliases {
		if strings.EqualFold(ext, alias) {
			return true
		}
	}
	return false
}
