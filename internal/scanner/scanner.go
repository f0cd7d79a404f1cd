// Package scanner discovers pattern templates on disk.
//
// The scanner reads the shared header and footer templates from the meta
// folder, then every template below the patterns folder except those sitting
// directly in its root. Each file becomes a pattern; every pseudo-pattern
// section a template declares becomes an additional pattern sharing the
// file. The result is ordered by dash path.
package scanner

import (
	"context"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conneroisu/patternlab/internal/engine"
	"github.com/conneroisu/patternlab/internal/identifier"
	"github.com/conneroisu/patternlab/internal/logging"
	"github.com/conneroisu/patternlab/internal/types"
)

// Folder names below the source directory.
const (
	FolderNameMeta    = "_meta"
	FolderNamePattern = "_patterns"
)

// PatternScanner turns template files into patterns for one engine.
type PatternScanner struct {
	engine engine.Engine
	logger logging.Logger
}

// NewPatternScanner creates a scanner for templates of eng.
func NewPatternScanner(eng engine.Engine, logger logging.Logger) *PatternScanner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &PatternScanner{
		engine: eng,
		logger: logger.WithComponent("scanner"),
	}
}

// ScanDirectory scans sourceDir and returns its patterns sorted by dash
// path. Missing meta and pattern folders are created; unreadable files are
// skipped.
func (s *PatternScanner) ScanDirectory(sourceDir string) []*types.Pattern {
	ctx := context.Background()

	metaDir := filepath.Join(sourceDir, FolderNameMeta)
	patternDir := filepath.Join(sourceDir, FolderNamePattern)

	var patterns []*types.Pattern
	patterns = append(patterns, s.scanFolder(ctx, metaDir, sourceDir, false)...)
	patterns = append(patterns, s.scanFolder(ctx, patternDir, patternDir, true)...)

	var pseudo []*types.Pattern
	for _, p := range patterns {
		for _, variant := range p.PseudoPatterns {
			pseudo = append(pseudo, s.NewPseudoPattern(p, variant))
		}
	}
	patterns = append(patterns, pseudo...)

	SortPatterns(patterns)

	s.logger.Debug(ctx, "Scanned patterns", "source", sourceDir, "count", len(patterns), "pseudo", len(pseudo))
	return patterns
}

// scanFolder collects templates below dir, naming them relative to base.
func (s *PatternScanner) scanFolder(ctx context.Context, dir, base string, skipRoot bool) []*types.Pattern {
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.logger.Warn(ctx, err, "Failed to create folder", "dir", dir)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			s.logger.Warn(ctx, err, "Skipping unreadable path", "path", path)
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), s.engine.Extension()) {
			return nil
		}
		if skipRoot && filepath.Dir(path) == filepath.Clean(dir) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, err, "Failed to scan folder", "dir", dir)
		return nil
	}

	patterns := make([]*types.Pattern, 0, len(files))
	for _, file := range files {
		p, err := s.ScanFile(file, base)
		if err != nil {
			s.logger.Warn(ctx, err, "Skipping pattern", "file", file)
			continue
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// ScanFile reads a single template and names it by its path relative to base.
func (s *PatternScanner) ScanFile(path, base string) (*types.Pattern, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %s: %w", path, err)
	}

	rel, err := filepath.Rel(base, path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s against %s: %w", path, base, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	body := string(content)
	return &types.Pattern{
		ID:             identifier.Parse(rel),
		FilePath:       abs,
		Body:           body,
		Lineages:       stripLineages(s.engine.Lineages(body, "")),
		PseudoPatterns: s.engine.PseudoPatterns(body),
		LastMod:        info.ModTime(),
		Hash:           fmt.Sprintf("%x", crc32.ChecksumIEEE(content)),
	}, nil
}

// NewPseudoPattern derives the pattern for one variant of base. Its
// lineages are the references of the variant section only.
func (s *PatternScanner) NewPseudoPattern(base *types.Pattern, variant string) *types.Pattern {
	return &types.Pattern{
		ID:       base.ID.WithPseudo(variant),
		FilePath: base.FilePath,
		Body:     base.Body,
		Lineages: stripLineages(s.engine.Lineages(base.Body, variant)),
		LastMod:  base.LastMod,
		Hash:     base.Hash,
	}
}

// SortPatterns orders patterns by dash path, breaking ties by partial so the
// order is total.
func SortPatterns(patterns []*types.Pattern) {
	sort.SliceStable(patterns, func(i, j int) bool {
		di, dj := patterns[i].PathDash(), patterns[j].PathDash()
		if di != dj {
			return di < dj
		}
		return patterns[i].Partial() < patterns[j].Partial()
	})
}

// stripLineages removes parameters from references and drops duplicates.
func stripLineages(refs []string) []string {
	var lineages []string
	seen := make(map[string]bool)
	for _, ref := range refs {
		partial := identifier.StripPatternParameters(ref)
		key := strings.ToLower(partial)
		if partial == "" || seen[key] {
			continue
		}
		seen[key] = true
		lineages = append(lineages, partial)
	}
	return lineages
}
