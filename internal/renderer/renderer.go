// Package renderer turns compiled patterns into HTML.
//
// A pattern renders against its merged data with the session's template
// engine; references to other patterns resolve through the same session.
// Full pages place the rendered pattern between the meta-head and
// meta-foot patterns, composed as templ components so pages and view-all
// listings can be streamed to any writer.
package renderer

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/patternlab/internal/data"
	"github.com/conneroisu/patternlab/internal/engine"
	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/logging"
	"github.com/conneroisu/patternlab/internal/types"
)

// Partials of the shared page header and footer.
const (
	PartialHead = "meta-head"
	PartialFoot = "meta-foot"
)

// Source is the part of a compilation session the renderer reads from.
type Source interface {
	PatternEngine() engine.Engine
	PatternData(p *types.Pattern) data.Collection
	FindPattern(term string) (*types.Pattern, bool)
	Logger() logging.Logger
}

// Page is one rendered pattern.
type Page struct {
	Pattern *types.Pattern
	// HTML is the rendered markup
	HTML string
	// Escaped is HTML with markup characters escaped for display
	Escaped string
	// Template is the unrendered template source
	Template string
}

// PatternRenderer renders the patterns of one session.
type PatternRenderer struct {
	source Source
	logger logging.Logger
}

// NewPatternRenderer creates a renderer reading from source.
func NewPatternRenderer(source Source) *PatternRenderer {
	logger := source.Logger()
	if logger == nil {
		logger = logging.Discard()
	}
	return &PatternRenderer{
		source: source,
		logger: logger.WithComponent("renderer"),
	}
}

// Render renders p with its own data.
func (r *PatternRenderer) Render(ctx context.Context, p *types.Pattern) (*Page, error) {
	if p == nil {
		return nil, fmt.Errorf("render: nil pattern")
	}

	out, err := r.renderWith(ctx, p, r.source.PatternData(p))
	if err != nil {
		return nil, err
	}

	return &Page{
		Pattern:  p,
		HTML:     out,
		Escaped:  html.EscapeString(out),
		Template: p.Body,
	}, nil
}

// RenderPage writes p as a complete page: header, pattern, footer. The
// header and footer see the pattern's data.
func (r *PatternRenderer) RenderPage(ctx context.Context, w io.Writer, p *types.Pattern) error {
	page, err := r.Render(ctx, p)
	if err != nil {
		return err
	}
	return r.WritePage(ctx, w, page)
}

// WritePage writes an already rendered pattern as a complete page.
func (r *PatternRenderer) WritePage(ctx context.Context, w io.Writer, page *Page) error {
	return r.layout(ctx, r.source.PatternData(page.Pattern), templ.Raw(page.HTML)).Render(ctx, w)
}

// RenderViewAll writes one page listing every pattern in order. Patterns
// that fail to render are skipped; their errors are returned together
// after the page is written.
func (r *PatternRenderer) RenderViewAll(ctx context.Context, w io.Writer, patterns []*types.Pattern) error {
	collector := errors.NewErrorCollector()

	sections := make([]templ.Component, 0, len(patterns))
	for _, p := range patterns {
		page, err := r.Render(ctx, p)
		if err != nil {
			r.logger.Warn(ctx, err, "Skipping pattern in view-all page", "partial", p.Partial())
			collector.AddError(err)
			continue
		}
		sections = append(sections, patternSection(page))
	}

	if err := r.layout(ctx, r.source.PatternData(nil), sections...).Render(ctx, w); err != nil {
		return err
	}
	return collector.Err()
}

// layout composes the meta header, body components and meta footer.
func (r *PatternRenderer) layout(ctx context.Context, collection data.Collection, body ...templ.Component) templ.Component {
	head := r.renderMeta(ctx, PartialHead, collection)
	foot := r.renderMeta(ctx, PartialFoot, collection)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := templ.Raw(head).Render(ctx, w); err != nil {
			return err
		}
		for _, c := range body {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return templ.Raw(foot).Render(ctx, w)
	})
}

// renderMeta renders a meta pattern, or nothing when it is missing or
// broken.
func (r *PatternRenderer) renderMeta(ctx context.Context, partial string, collection data.Collection) string {
	p, ok := r.source.FindPattern(partial)
	if !ok || !strings.EqualFold(p.Partial(), partial) {
		return ""
	}
	out, err := r.renderWith(ctx, p, collection)
	if err != nil {
		r.logger.Warn(ctx, err, "Failed to render meta pattern", "partial", partial)
		return ""
	}
	return out
}

func (r *PatternRenderer) renderWith(ctx context.Context, p *types.Pattern, collection data.Collection) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	eng := r.source.PatternEngine()
	if eng == nil {
		return "", errors.ErrRenderFailed(p.Partial(), fmt.Errorf("no template engine"))
	}

	out, err := eng.Render(engine.Template{
		Name:     p.Partial(),
		Body:     p.Body,
		Section:  p.Pseudo,
		Partials: engine.PartialFinderFunc(r.findPartial),
	}, collection.Interface())
	if err != nil {
		rerr := errors.ErrRenderFailed(p.Partial(), err).WithFile(p.FilePath).WithContext("engine", eng.Name())
		if p.IsPseudo() {
			rerr = rerr.WithContext("section", p.Pseudo)
		}
		return "", rerr
	}

	r.logger.Debug(ctx, "Rendered pattern", "partial", p.Partial(), "bytes", len(out))
	return out, nil
}

func (r *PatternRenderer) findPartial(ref string) (engine.Partial, bool) {
	p, ok := r.source.FindPattern(ref)
	if !ok {
		return engine.Partial{}, false
	}
	return engine.Partial{Name: p.Partial(), Body: p.Body, Section: p.Pseudo}, true
}

// patternSection wraps a rendered pattern for the view-all listing.
func patternSection(page *Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := html.EscapeString(page.Pattern.Partial())
		name := html.EscapeString(page.Pattern.DisplayName())
		_, err := fmt.Fprintf(w, "<div class=\"pl-pattern\" id=\"%s\"><h2 class=\"pl-pattern-title\">%s</h2>%s</div>\n", id, name, page.HTML)
		return err
	})
}
