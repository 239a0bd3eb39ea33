// internal/browser/pipeline/renderer.go
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/xkilldash9x/termrender/internal/browser/canvas"
	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/layout"
	"github.com/xkilldash9x/termrender/internal/browser/parser"
	"github.com/xkilldash9x/termrender/internal/browser/style"
	"github.com/xkilldash9x/termrender/internal/config"
	"github.com/xkilldash9x/termrender/internal/observability"
	"go.uber.org/zap"
)

// Page is a styled and laid out document, ready to paint.
type Page struct {
	Document *dom.Document
	Styles   *style.Map
	Layout   layout.Result
	// TitleRows is the number of rows reserved above the page content.
	TitleRows int
}

// Height returns the number of rows the page needs, title bar included.
func (p Page) Height() int {
	return p.TitleRows + p.Layout.ContentDimensions.Height
}

// FrameStats summarizes one Frame call.
type FrameStats struct {
	ID       string
	Elements int
	Changed  int
	Page     Page
	Resolve  time.Duration
	Layout   time.Duration
	Paint    time.Duration
	Render   time.Duration
}

// Renderer runs the style, layout and paint stages. It keeps no state
// between calls, so one Renderer may serve many documents; the canvas
// passed to Paint and Frame belongs to the caller.
type Renderer struct {
	resolver *style.Resolver
	engine   *layout.Engine
	logger   *zap.Logger
	titleBar bool
}

// Option configures a Renderer.
type Option func(*rendererOptions)

type rendererOptions struct {
	logger *zap.Logger
}

// WithLogger sets the logger shared by every stage.
func WithLogger(logger *zap.Logger) Option {
	return func(o *rendererOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewRenderer builds a Renderer from the render configuration.
func NewRenderer(cfg config.RenderConfig, opts ...Option) *Renderer {
	o := rendererOptions{logger: observability.GetLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	resolverOpts := []style.Option{style.WithLogger(o.logger.Named("style"))}
	if !cfg.UserAgentStyles {
		resolverOpts = append(resolverOpts, style.WithoutUserAgentDefaults())
	}

	return &Renderer{
		resolver: style.NewResolver(resolverOpts...),
		engine: layout.NewEngine(
			layout.WithMaxDepth(cfg.MaxDepth),
			layout.WithLogger(o.logger.Named("layout")),
		),
		logger:   o.logger.Named("pipeline"),
		titleBar: cfg.TitleBar,
	}
}

// StyleSheets returns the sheets that apply to doc: the content of every
// style element in document order, followed by the given user sheets so
// those take precedence on equal specificity.
func StyleSheets(doc *dom.Document, user []parser.StyleSheet) []parser.StyleSheet {
	var sheets []parser.StyleSheet
	if doc != nil {
		for _, id := range doc.GetElementsByTagName("style") {
			sheets = append(sheets, parser.Parse(doc.TextContent(id)))
		}
	}
	return append(sheets, user...)
}

// Layout resolves styles and lays doc out at the given width.
func (r *Renderer) Layout(doc *dom.Document, sheets []parser.StyleSheet, width int) Page {
	page, _ := r.layout(doc, sheets, width)
	return page
}

func (r *Renderer) layout(doc *dom.Document, sheets []parser.StyleSheet, width int) (Page, FrameStats) {
	var stats FrameStats

	start := time.Now()
	styles := r.resolver.Resolve(doc, StyleSheets(doc, sheets))
	stats.Resolve = time.Since(start)
	stats.Elements = styles.Len()

	start = time.Now()
	result := r.engine.Layout(doc, styles, width)
	stats.Layout = time.Since(start)

	page := Page{Document: doc, Styles: styles, Layout: result}
	if r.titleBar {
		page.TitleRows = 1
	}
	return page, stats
}

// Frame runs the whole pipeline into c at the canvas width and renders the
// result to out. Unless full is set only cells that changed since the
// previous frame are emitted.
func (r *Renderer) Frame(doc *dom.Document, sheets []parser.StyleSheet, c *canvas.Canvas, out canvas.CellWriter, full bool) FrameStats {
	page, stats := r.layout(doc, sheets, c.Width())
	return r.present(page, c, out, full, stats)
}

// Present paints an already laid out page into c and renders it to out.
// Callers that size the canvas from the page use it after Layout.
func (r *Renderer) Present(page Page, c *canvas.Canvas, out canvas.CellWriter, full bool) FrameStats {
	stats := FrameStats{}
	if page.Styles != nil {
		stats.Elements = page.Styles.Len()
	}
	return r.present(page, c, out, full, stats)
}

func (r *Renderer) present(page Page, c *canvas.Canvas, out canvas.CellWriter, full bool, stats FrameStats) FrameStats {
	stats.ID = uuid.NewString()
	stats.Page = page

	start := time.Now()
	// Blank rather than Clear so the previous frame stays available for diffing.
	c.FillRect(c.Bounds(), ' ', canvas.TextStyle{})
	r.Paint(page, c)
	stats.Paint = time.Since(start)

	start = time.Now()
	stats.Changed = c.Render(out, full)
	stats.Render = time.Since(start)

	if ce := r.logger.Check(zap.DebugLevel, "Frame rendered."); ce != nil {
		ce.Write(
			zap.String("frame_id", stats.ID),
			zap.Int("elements", stats.Elements),
			zap.Int("changed_cells", stats.Changed),
			zap.Int("content_height", page.Layout.ContentDimensions.Height),
			zap.Bool("full_redraw", full),
			zap.Duration("resolve", stats.Resolve),
			zap.Duration("layout", stats.Layout),
			zap.Duration("paint", stats.Paint),
			zap.Duration("render", stats.Render),
		)
	}
	return stats
}
