// Package build exports a compiled pattern library as a static site.
//
// The export writes, below the public directory:
//
//	patterns/<dash>/<dash>.html          full page
//	patterns/<dash>/<dash>.escaped.html  escaped markup for code views
//	patterns/<dash>/<dash><ext>          template source
//	patterns/<path>/index.html           view-all pages
//	styleguide/data/patternlab-data.json viewer data
//
// and copies the remaining source files as assets. Pattern pages render
// concurrently; the session is fully computed before workers start so they
// only read from it.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/patternlab/internal/config"
	"github.com/conneroisu/patternlab/internal/data"
	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/logging"
	"github.com/conneroisu/patternlab/internal/renderer"
	"github.com/conneroisu/patternlab/internal/scanner"
	"github.com/conneroisu/patternlab/internal/taxonomy"
	"github.com/conneroisu/patternlab/internal/types"
)

// Output locations relative to the public directory.
const (
	FolderPatterns   = taxonomy.FolderPatterns
	FolderStyleguide = "styleguide"
	FileViewerData   = "styleguide/data/patternlab-data.json"
	SuffixEscaped    = ".escaped.html"
)

// Source is the compilation session an export reads from.
type Source interface {
	renderer.Source
	Config() (*config.Settings, error)
	Patterns() []*types.Pattern
	Data() data.Collection
	Taxonomy() *taxonomy.Taxonomy
	ViewerData() data.Collection
	CacheBuster(noCache bool) string
	IgnoredDirectories() []string
	IgnoredExtensions() []string
	SourcePath() string
	PublicPath() string
}

// Options configure an export.
type Options struct {
	// Workers is the number of concurrent page renderers; defaults to the
	// number of CPUs
	Workers int
	// NoCache sets the cache buster of the viewer data to "0"
	NoCache bool
}

// Result summarizes an export.
type Result struct {
	Patterns  int
	ViewAll   int
	Assets    int
	Unchanged int
	Files     []string
	Duration  time.Duration
}

// Exporter writes the static site of one session.
type Exporter struct {
	source   Source
	renderer *renderer.PatternRenderer
	options  Options
	metrics  *ExportMetrics
	logger   logging.Logger
}

// NewExporter creates an exporter for source.
func NewExporter(source Source, options Options) *Exporter {
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	logger := source.Logger()
	if logger == nil {
		logger = logging.Discard()
	}
	return &Exporter{
		source:   source,
		renderer: renderer.NewPatternRenderer(source),
		options:  options,
		metrics:  NewExportMetrics(),
		logger:   logger.WithComponent("build"),
	}
}

// Metrics returns the metrics of the last export.
func (e *Exporter) Metrics() *ExportMetrics {
	return e.metrics
}

// Export writes the site. Unreadable settings abort the export, and so does
// a page failing with an unrecoverable error such as a failed write. Pages
// that fail to render and assets that fail are skipped and reported
// together once everything else is written.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	start := time.Now()
	perf := logging.StartOperation(e.logger, "export")
	e.metrics.Reset()

	if _, err := e.source.Config(); err != nil {
		perf.EndWithError(ctx, err)
		return nil, err
	}

	publicDir := e.source.PublicPath()
	out := newWriter(publicDir)
	collector := errors.NewErrorCollector()
	result := &Result{}

	// Compute everything the workers read.
	patterns := exportable(e.source.Patterns())
	e.source.Data()
	e.source.PatternEngine()
	tax := e.source.Taxonomy()

	results, fatal := e.exportPatterns(ctx, out, patterns)
	for _, r := range results {
		if r.Error != nil {
			collector.AddError(r.Error)
			continue
		}
		result.Patterns++
	}
	if fatal != nil {
		result.Files = out.files()
		result.Duration = time.Since(start)
		perf.EndWithError(ctx, fatal)
		return result, fatal
	}

	for _, page := range tax.ViewAll {
		if err := e.exportViewAll(ctx, out, page); err != nil {
			collector.AddError(err)
			continue
		}
		result.ViewAll++
	}

	if err := e.exportViewerData(out); err != nil {
		collector.AddError(err)
	}

	assets, err := e.copyAssets(ctx, out, publicDir)
	if err != nil {
		collector.AddError(err)
	}
	result.Assets = assets

	result.Files = out.files()
	result.Unchanged = out.unchanged()
	result.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		perf.EndWithError(ctx, err)
		return result, err
	}

	if collector.HasErrors() {
		err := collector.Err()
		perf.EndWithError(ctx, err)
		return result, err
	}

	perf.End(ctx, "patterns", result.Patterns, "viewall", result.ViewAll, "assets", result.Assets, "unchanged", result.Unchanged)
	return result, nil
}

// exportPatterns renders every page, stopping the remaining ones at the
// first unrecoverable error, which it returns as fatal.
func (e *Exporter) exportPatterns(ctx context.Context, out *writer, patterns []*types.Pattern) ([]PatternResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once  sync.Once
		fatal error
	)
	wm := NewWorkerManager(e.options.Workers, func(ctx context.Context, p *types.Pattern) error {
		err := e.exportPattern(ctx, out, p)
		if err != nil && !errors.IsRecoverable(err) && ctx.Err() == nil {
			once.Do(func() {
				fatal = err
				cancel()
			})
		}
		return err
	}, e.metrics)
	results := wm.Run(ctx, patterns)
	return results, fatal
}

// exportPattern writes the page, escaped markup and template of p.
func (e *Exporter) exportPattern(ctx context.Context, out *writer, p *types.Pattern) error {
	rendered, err := e.renderer.Render(ctx, p)
	if err != nil {
		return err
	}
	var page strings.Builder
	if err := e.renderer.WritePage(ctx, &page, rendered); err != nil {
		return err
	}

	dash := p.PathDash()
	dir := filepath.Join(FolderPatterns, dash)
	ext := e.source.PatternEngine().Extension()

	files := map[string]string{
		filepath.Join(dir, dash+".html"):      page.String(),
		filepath.Join(dir, dash+SuffixEscaped): rendered.Escaped,
		filepath.Join(dir, dash+ext):           rendered.Template,
	}
	for _, rel := range sortedKeys(files) {
		if err := out.write(rel, []byte(files[rel])); err != nil {
			return errors.WrapIO(err, errors.ErrCodeWriteFailed, "cannot write pattern output").WithPattern(p.Partial())
		}
	}
	return nil
}

func (e *Exporter) exportViewAll(ctx context.Context, out *writer, page taxonomy.ViewAllPage) error {
	var buf strings.Builder
	err := e.renderer.RenderViewAll(ctx, &buf, page.Patterns)
	if err != nil {
		e.logger.Warn(ctx, err, "View-all page incomplete", "partial", page.Partial)
	}
	if writeErr := out.write(filepath.Join(FolderPatterns, filepath.FromSlash(page.HTMLURL())), []byte(buf.String())); writeErr != nil {
		return errors.WrapIO(writeErr, errors.ErrCodeWriteFailed, "cannot write view-all page").WithPattern(page.Partial)
	}
	return nil
}

func (e *Exporter) exportViewerData(out *writer) error {
	viewer := e.source.ViewerData().Clone()
	viewer.Set("cacheBuster", e.source.CacheBuster(e.options.NoCache))

	content, err := json.MarshalIndent(viewer, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding viewer data: %w", err)
	}
	if err := out.write(filepath.FromSlash(FileViewerData), content); err != nil {
		return errors.WrapIO(err, errors.ErrCodeWriteFailed, "cannot write viewer data")
	}
	return nil
}

// exportable drops the meta templates, which only render as part of pages.
func exportable(patterns []*types.Pattern) []*types.Pattern {
	var out []*types.Pattern
	for _, p := range patterns {
		if p.Type == scanner.FolderNameMeta {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
