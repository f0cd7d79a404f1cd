// Package provider is the compilation session: it computes the settings,
// data, pattern set and derived views of one source directory on first use
// and keeps them until Clear is called.
//
// A Provider is not safe for concurrent use. Callers sharing one across
// goroutines must synchronize access themselves.
package provider

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/conneroisu/patternlab/internal/config"
	"github.com/conneroisu/patternlab/internal/data"
	"github.com/conneroisu/patternlab/internal/engine"
	"github.com/conneroisu/patternlab/internal/identifier"
	"github.com/conneroisu/patternlab/internal/logging"
	"github.com/conneroisu/patternlab/internal/mediaquery"
	"github.com/conneroisu/patternlab/internal/registry"
	"github.com/conneroisu/patternlab/internal/scanner"
	"github.com/conneroisu/patternlab/internal/state"
	"github.com/conneroisu/patternlab/internal/taxonomy"
	"github.com/conneroisu/patternlab/internal/types"
	"github.com/conneroisu/patternlab/internal/version"
)

// Folder names below the source directory.
const (
	FolderNameAnnotations = "_annotations"
	FolderNameData        = "_data"
	FolderNameSnapshots   = "snapshots"
	FolderNamePublic      = "public"
)

// Options configure a Provider.
type Options struct {
	// SourceDir is the source directory; defaults to the working directory
	SourceDir string
	// PublicDir overrides the publicDir setting
	PublicDir string
	// Engines are the available template engines; defaults to engine.Builtin
	Engines []engine.Engine
	Logger  logging.Logger
	// Now is the clock used for the cache buster; defaults to time.Now
	Now func() time.Time
	// Version is written into a generated settings file
	Version string
	// IPAddress overrides the detected host address
	IPAddress string
}

type configResult struct {
	settings *config.Settings
	err      error
}

// Provider is one compilation session.
type Provider struct {
	sourceDir string
	publicDir string
	engines   *engine.Registry
	logger    logging.Logger
	loader    *data.Loader
	now       func() time.Time
	version   string
	ipAddress string

	config        memo[configResult]
	data          memo[data.Collection]
	registry      memo[*registry.PatternRegistry]
	patterns      memo[[]*types.Pattern]
	ignoredDirs   memo[[]string]
	ignoredExts   memo[[]string]
	patternEngine memo[engine.Engine]
	cacheBuster   memo[string]
	resolver      memo[*state.Resolver]
	taxonomy      memo[*taxonomy.Taxonomy]
	mediaQueries  memo[[]string]
	viewerData    memo[data.Collection]
}

// New creates a session for opts.SourceDir. Nothing is read until first use.
func New(opts Options) *Provider {
	sourceDir := opts.SourceDir
	if sourceDir == "" {
		sourceDir = "."
	}
	if abs, err := filepath.Abs(sourceDir); err == nil {
		sourceDir = abs
	}

	engines := opts.Engines
	if len(engines) == 0 {
		engines = engine.Builtin()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	v := opts.Version
	if v == "" {
		v = version.GetVersion()
	}

	return &Provider{
		sourceDir: sourceDir,
		publicDir: opts.PublicDir,
		engines:   engine.NewRegistry(engines...),
		logger:    logger.WithComponent("provider"),
		loader:    data.NewLoader(logger),
		now:       now,
		version:   v,
		ipAddress: opts.IPAddress,
	}
}

// Clear forgets every computed value.
func (p *Provider) Clear() {
	p.config.reset()
	p.data.reset()
	p.registry.reset()
	p.patterns.reset()
	p.ignoredDirs.reset()
	p.ignoredExts.reset()
	p.patternEngine.reset()
	p.cacheBuster.reset()
	p.resolver.reset()
	p.taxonomy.reset()
	p.mediaQueries.reset()
	p.viewerData.reset()
	p.logger.Debug(context.Background(), "Session cleared")
}

// Logger returns the session logger.
func (p *Provider) Logger() logging.Logger {
	return p.logger
}

// Engines returns the available template engines.
func (p *Provider) Engines() *engine.Registry {
	return p.engines
}

// SourcePath is the absolute source directory.
func (p *Provider) SourcePath() string {
	return p.sourceDir
}

// PublicPath is the absolute output directory: the PublicDir option, else
// the publicDir setting, else "public" below the source directory.
func (p *Provider) PublicPath() string {
	dir := p.publicDir
	if dir == "" {
		dir = p.Setting("publicDir")
	}
	if dir == "" {
		dir = FolderNamePublic
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(p.sourceDir, dir)
}

// Config reads the session settings, generating the default file when it
// is missing. Its error is the only fatal error of a session.
func (p *Provider) Config() (*config.Settings, error) {
	result := p.config.get(func() configResult {
		var defaultEngine string
		if e := p.engines.Default(); e != nil {
			defaultEngine = e.Name()
		}

		settings, err := config.Load(p.sourceDir, p.version, defaultEngine)
		if err != nil {
			p.logger.Error(context.Background(), err, "Failed to read config", "source", p.sourceDir)
		} else {
			p.logger.Debug(context.Background(), "Loaded config", "path", settings.Path())
		}
		return configResult{settings: settings, err: err}
	})
	return result.settings, result.err
}

// Setting returns a single setting, or "" when it is missing or the
// settings cannot be read.
func (p *Provider) Setting(name string) string {
	settings, err := p.Config()
	if err != nil {
		return ""
	}
	return settings.Get(name)
}

// Data is the collection merged from every data file below the data folder,
// JSON files before YAML files, each group in path order.
func (p *Provider) Data() data.Collection {
	return p.data.get(func() data.Collection {
		dir := filepath.Join(p.sourceDir, FolderNameData)
		p.ensureDir(dir)

		files := data.FindDataFiles(dir)
		collection := p.loader.GetData(files)
		p.logger.Debug(context.Background(), "Loaded data", "files", len(files), "keys", len(collection))
		return collection
	})
}

// Registry holds the compiled pattern set. When two files produce the same
// partial the first one in dash path order is kept.
func (p *Provider) Registry() *registry.PatternRegistry {
	return p.registry.get(func() *registry.PatternRegistry {
		ctx := context.Background()
		perf := logging.StartOperation(p.logger, "scan patterns")

		scanned := scanner.NewPatternScanner(p.PatternEngine(), p.logger).ScanDirectory(p.sourceDir)
		reg := registry.NewPatternRegistry(scanned...)

		for _, dup := range reg.Duplicates() {
			p.logger.Warn(ctx, nil, "Duplicate partial ignored", "partial", dup.Partial(), "file", dup.FilePath)
		}
		perf.End(ctx, "patterns", reg.Count())
		return reg
	})
}

// Patterns returns the compiled pattern set ordered by dash path. The same
// slice is returned until Clear.
func (p *Provider) Patterns() []*types.Pattern {
	return p.patterns.get(func() []*types.Pattern {
		return p.Registry().All()
	})
}

// FindPattern resolves a partial, slash path or view URL.
func (p *Provider) FindPattern(term string) (*types.Pattern, bool) {
	return p.Registry().FindPattern(term)
}

// IgnoredDirectories are the id setting entries plus the meta and public
// folders.
func (p *Provider) IgnoredDirectories() []string {
	return p.ignoredDirs.get(func() []string {
		dirs := p.settingList("id")
		dirs = append(dirs, scanner.FolderNameMeta)
		if rel, err := filepath.Rel(p.sourceDir, p.PublicPath()); err == nil && !strings.HasPrefix(rel, "..") {
			dirs = append(dirs, filepath.ToSlash(rel))
		}
		return dirs
	})
}

// IgnoredExtensions are the ie setting entries plus the empty extension.
func (p *Provider) IgnoredExtensions() []string {
	return p.ignoredExts.get(func() []string {
		return append(p.settingList("ie"), "")
	})
}

// PatternEngine is the engine named by the patternEngine setting, or the
// last registered engine.
func (p *Provider) PatternEngine() engine.Engine {
	return p.patternEngine.get(func() engine.Engine {
		name := p.Setting("patternEngine")
		selected := p.engines.Select(name)
		if selected != nil && name != "" && !strings.EqualFold(selected.Name(), strings.TrimSpace(name)) {
			p.logger.Warn(context.Background(), nil, "Unknown pattern engine, using default",
				"patternEngine", name, "default", selected.Name(), "available", strings.Join(p.engines.Names(), ", "))
		}
		return selected
	})
}

// CacheBuster returns a Unix timestamp taken once per session when the
// cacheBusterOn setting is true, and "0" otherwise or when noCache is set.
func (p *Provider) CacheBuster(noCache bool) string {
	if noCache {
		return "0"
	}
	return p.cacheBuster.get(func() string {
		if settings, err := p.Config(); err != nil || !settings.Bool("cacheBusterOn") {
			return "0"
		}
		return strconv.FormatInt(p.now().Unix(), 10)
	})
}

// States returns the state resolver for the patternStates setting.
func (p *Provider) States() *state.Resolver {
	return p.resolver.get(func() *state.Resolver {
		return state.NewResolver(state.ParseStates(p.Setting("patternStates")), p.Registry())
	})
}

// GetState resolves the state shown for pattern, "" meaning none.
func (p *Provider) GetState(pattern *types.Pattern) string {
	return p.States().GetState(pattern)
}

// Taxonomy groups the visible patterns for navigation.
func (p *Provider) Taxonomy() *taxonomy.Taxonomy {
	return p.taxonomy.get(func() *taxonomy.Taxonomy {
		return taxonomy.Build(p.Patterns(), p.GetState)
	})
}

// MediaQueries lists the breakpoints used by the stylesheets of the source
// directory outside the ignored directories.
func (p *Provider) MediaQueries() []string {
	return p.mediaQueries.get(func() []string {
		queries, err := mediaquery.Find(p.sourceDir, p.IgnoredDirectories())
		if err != nil {
			p.logger.Warn(context.Background(), err, "Failed to scan stylesheets")
			return nil
		}
		return queries
	})
}

// PatternData layers, in order, the global data, the data files named
// after the pattern's file and, for pseudo-patterns, the data files named
// after the variant.
func (p *Provider) PatternData(pattern *types.Pattern) data.Collection {
	collection := p.Data()
	if pattern == nil || pattern.FilePath == "" {
		return collection.Clone()
	}

	var files []string
	for _, base := range dataBases(pattern) {
		for _, ext := range []string{".json", ".yaml", ".yml"} {
			path := base + ext
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
			}
		}
	}

	return data.MergeData(collection, p.loader.GetData(files))
}

// dataBases lists the data file paths, without extension, that apply to
// pattern. A file name carrying a state also matches without it.
func dataBases(pattern *types.Pattern) []string {
	dir := filepath.Dir(pattern.FilePath)
	file := strings.TrimSuffix(filepath.Base(pattern.FilePath), filepath.Ext(pattern.FilePath))
	if i := strings.IndexRune(file, identifier.Pseudo); i >= 0 {
		file = file[:i]
	}

	var bases []string
	if pattern.Name != file {
		bases = append(bases, filepath.Join(dir, pattern.Name))
	}
	bases = append(bases, filepath.Join(dir, file))
	if pattern.Pseudo != "" {
		bases = append(bases, filepath.Join(dir, pattern.Name+string(identifier.Pseudo)+pattern.Pseudo))
	}
	return bases
}

func (p *Provider) settingList(name string) []string {
	settings, err := p.Config()
	if err != nil {
		return nil
	}
	return settings.List(name)
}

func (p *Provider) ensureDir(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.logger.Warn(context.Background(), err, "Failed to create folder", "dir", dir)
	}
}
