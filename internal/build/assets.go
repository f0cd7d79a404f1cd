package build

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/conneroisu/patternlab/internal/config"
	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/provider"
	"github.com/conneroisu/patternlab/internal/scanner"
)

// sourceFolders are never copied as assets.
var sourceFolders = []string{
	scanner.FolderNamePattern,
	scanner.FolderNameMeta,
	provider.FolderNameData,
	provider.FolderNameAnnotations,
	filepath.Dir(filepath.FromSlash(config.FilePath)),
}

// copyAssets copies the files of the source directory that are not part
// of the pattern library, skipping ignored directories and extensions.
func (e *Exporter) copyAssets(ctx context.Context, out *writer, publicDir string) (int, error) {
	sourceDir := e.source.SourcePath()
	ignoredDirs := append(append([]string(nil), sourceFolders...), e.source.IgnoredDirectories()...)
	ignoredExts := e.source.IgnoredExtensions()
	collector := errors.NewErrorCollector()

	copied := 0
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == sourceDir {
				return err
			}
			e.logger.Warn(ctx, err, "Skipping unreadable path", "path", path)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(sourceDir, path)
		if relErr != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			if filepath.Clean(path) == filepath.Clean(publicDir) || isIgnoredDir(filepath.ToSlash(rel), ignoredDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || isIgnoredExt(d.Name(), ignoredExts) {
			return nil
		}

		if err := out.copy(path, rel); err != nil {
			collector.AddError(errors.WrapIO(err, errors.ErrCodeWriteFailed, "cannot copy asset").WithFile(path))
			return nil
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, err
	}

	e.logger.Debug(ctx, "Copied assets", "count", copied)
	return copied, collector.Err()
}

// isIgnoredDir matches a slash separated directory path against entries
// naming either a folder anywhere in the tree or a path from the root.
func isIgnoredDir(rel string, ignored []string) bool {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, entry := range ignored {
		entry = strings.Trim(filepath.ToSlash(entry), "/")
		if entry == "" {
			continue
		}
		if strings.EqualFold(entry, base) || strings.EqualFold(entry, rel) ||
			strings.HasPrefix(strings.ToLower(rel), strings.ToLower(entry)+"/") {
			return true
		}
	}
	return false
}

// isIgnoredExt matches a file name's extension, without the dot, against
// entries; the empty entry matches files without one.
func isIgnoredExt(name string, ignored []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, entry := range ignored {
		if strings.EqualFold(strings.TrimPrefix(entry, "."), ext) {
			return true
		}
	}
	return false
}
