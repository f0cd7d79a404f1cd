// Package mediaquery collects the responsive breakpoints used by the
// stylesheets of a source tree.
package mediaquery

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Extension of the stylesheets that are scanned.
const Extension = ".css"

var widthPattern = regexp.MustCompile(`(min|max)-width:([ ]+)?(([0-9]{1,5})(\.[0-9]{1,20}|)(px|em))`)

// Find scans every stylesheet below root and returns the distinct breakpoint
// values sorted by magnitude. Files whose directory, relative to root,
// starts with one of the ignored prefixes are skipped. This is a plain
// string prefix test: "css" also excludes "css-legacy".
func Find(root string, ignored []string) ([]string, error) {
	var queries []string
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), Extension) {
			return nil
		}
		if isIgnored(relativeDir(root, path), ignored) {
			return nil
		}

		css, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, q := range Extract(string(css)) {
			if !seen[q] {
				seen[q] = true
				queries = append(queries, q)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Sort(queries)
	return queries, nil
}

// Extract returns the min-width and max-width values found in css, in
// order of appearance, duplicates included.
func Extract(css string) []string {
	var values []string
	for _, m := range widthPattern.FindAllStringSubmatch(css, -1) {
		values = append(values, m[3])
	}
	return values
}

// Sort orders values by their numeric part; units are ignored and equal
// magnitudes keep their order.
func Sort(values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		return magnitude(values[i]) < magnitude(values[j])
	})
}

func magnitude(value string) float64 {
	n, _ := strconv.ParseFloat(strings.TrimRight(value, "abcdefghijklmnopqrstuvwxyz"), 64)
	return n
}

func relativeDir(root, path string) string {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func isIgnored(dir string, ignored []string) bool {
	for _, prefix := range ignored {
		prefix = strings.Trim(filepath.ToSlash(strings.TrimSpace(prefix)), "/")
		if prefix != "" && strings.HasPrefix(dir, prefix) {
			return true
		}
	}
	return false
}
