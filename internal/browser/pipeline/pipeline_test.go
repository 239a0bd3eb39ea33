// internal/browser/pipeline/pipeline_test.go
package pipeline_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/termrender/internal/browser/canvas"
	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/palette"
	"github.com/xkilldash9x/termrender/internal/browser/parser"
	"github.com/xkilldash9x/termrender/internal/browser/pipeline"
	"github.com/xkilldash9x/termrender/internal/config"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// -- Test Helpers --

type writtenCell struct {
	X, Y int
	Cell canvas.Cell
}

// recorder is a CellWriter that keeps every cell it receives.
type recorder struct {
	cells []writtenCell
}

func (r *recorder) WriteCell(x, y int, c canvas.Cell) {
	r.cells = append(r.cells, writtenCell{X: x, Y: y, Cell: c})
}

func defaultRenderConfig() config.RenderConfig {
	return config.RenderConfig{MaxDepth: 64, UserAgentStyles: true}
}

func newTestRenderer(cfg config.RenderConfig) *pipeline.Renderer {
	return pipeline.NewRenderer(cfg, pipeline.WithLogger(zap.NewNop()))
}

func parse(t *testing.T, html string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(html)
	require.NoError(t, err)
	return doc
}

func sheets(css ...string) []parser.StyleSheet {
	var out []parser.StyleSheet
	for _, s := range css {
		out = append(out, parser.Parse(s))
	}
	return out
}

// renderPage lays the document out at width, sizes a canvas to the page and
// paints it.
func renderPage(t *testing.T, r *pipeline.Renderer, html, css string, width int) (*canvas.Canvas, pipeline.Page) {
	t.Helper()
	page := r.Layout(parse(t, html), sheets(css), width)
	c := canvas.New(width, page.Height())
	r.Present(page, c, nil, true)
	return c, page
}

// -- Tests --

func TestPipeline_EndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newTestRenderer(defaultRenderConfig())
	doc := parse(t, "<body><p>Hello World</p></body>")

	page := r.Layout(doc, nil, 40)
	assert.Greater(t, page.Styles.Len(), 0)
	assert.Greater(t, page.Layout.ContentDimensions.Height, 0)

	c := canvas.New(40, page.Height())
	stats := r.Frame(doc, nil, c, nil, true)
	assert.True(t, strings.HasPrefix(c.Row(0), "Hello World"), c.Row(0))
	assert.Equal(t, 40*page.Height(), stats.Changed, "a full redraw emits every cell")
	assert.NotEmpty(t, stats.ID)
}

func TestPipeline_EmptyStylesheetSet(t *testing.T) {
	r := newTestRenderer(config.RenderConfig{})
	page := r.Layout(parse(t, "<body><p>Hello World</p></body>"), nil, 20)

	assert.Greater(t, page.Styles.Len(), 0)
	assert.Greater(t, page.Layout.ContentDimensions.Height, 0)
}

func TestPipeline_WithoutUserAgentStyles(t *testing.T) {
	r := newTestRenderer(config.RenderConfig{UserAgentStyles: false})
	c, page := renderPage(t, r, "<p>a</p><p>b</p>", "", 4)

	// Without presentational defaults paragraphs are inline.
	assert.Equal(t, 1, page.Height())
	assert.Equal(t, "ab  ", c.Row(0))
}

func TestStyleSheets_UserSheetsFollowDocumentSheets(t *testing.T) {
	doc := parse(t, "<html><head><style>p { color: red }</style></head><body><p id=x>t</p></body></html>")

	all := pipeline.StyleSheets(doc, sheets("p { color: blue }"))
	require.Len(t, all, 2)

	r := newTestRenderer(defaultRenderConfig())
	page := r.Layout(doc, sheets("p { color: blue }"), 10)
	var p dom.NodeID = dom.NoNode
	for _, id := range doc.GetElementsByTagName("p") {
		p = id
	}
	cs, ok := page.Styles.Get(p)
	require.True(t, ok)
	blue, _ := palette.Parse("blue")
	assert.Equal(t, blue, cs.Color, "user sheets win over document sheets at equal specificity")
}

func TestStyleSheets_NilDocument(t *testing.T) {
	assert.Empty(t, pipeline.StyleSheets(nil, nil))
	assert.Len(t, pipeline.StyleSheets(nil, sheets("a{}")), 1)
}

func TestPaint_BordersAndBackground(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	c, _ := renderPage(t, r, "<div>hi</div>", "div { border: 1 solid; background-color: red; width: 2 }", 8)

	require.Equal(t, 3, c.Height())
	assert.Equal(t, "┌──┐    ", c.Row(0))
	assert.Equal(t, "│hi│    ", c.Row(1))
	assert.Equal(t, "└──┘    ", c.Row(2))

	red, _ := palette.Parse("red")
	assert.Equal(t, red, c.At(1, 1).Style.Bg, "text sits on the element background")
	assert.Equal(t, red, c.At(0, 0).Style.Bg)
	assert.True(t, c.At(0, 0).Style.Fg.IsDefault(), "border color follows the default text color")
	assert.True(t, c.At(5, 1).Style.Bg.IsDefault(), "background stops at the border box")
}

func TestPaint_BorderColorFallsBackToColor(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	c, _ := renderPage(t, r, "<div>x</div>", "div { border: 1 double; color: green; width: 3 }", 5)

	green, _ := palette.Parse("green")
	assert.Equal(t, '╔', c.At(0, 0).Ch)
	assert.Equal(t, green, c.At(0, 0).Style.Fg)
}

func TestPaint_MixedBorderStyles(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	css := "div { border-top: 1 heavy; border-bottom: 1 dashed; width: 3 }"
	c, _ := renderPage(t, r, "<div>x</div>", css, 3)

	assert.Equal(t, "━━━", c.Row(0))
	assert.Equal(t, "x  ", c.Row(1))
	assert.Equal(t, "╌╌╌", c.Row(2))
}

func TestPaint_PaddingPaintsBackground(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	c, _ := renderPage(t, r, "<div>x</div>", "div { padding: 1; background-color: blue; width: 1 }", 4)

	blue, _ := palette.Parse("blue")
	require.Equal(t, 3, c.Height())
	assert.Equal(t, 'x', c.At(1, 1).Ch)
	for _, pt := range []canvas.Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 1}} {
		assert.Equal(t, blue, c.At(pt.X, pt.Y).Style.Bg, "padding cell %v", pt)
	}
	assert.True(t, c.At(3, 1).Style.Bg.IsDefault())
}

func TestPaint_InlineBackground(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	c, _ := renderPage(t, r, "<p>a<span>b</span></p>", "span { background-color: yellow }", 4)

	yellow, _ := palette.Parse("yellow")
	assert.True(t, c.At(0, 0).Style.Bg.IsDefault())
	assert.Equal(t, yellow, c.At(1, 0).Style.Bg)
}

func TestPaint_TextStyle(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	c, _ := renderPage(t, r, "<p><b>B</b><u>U</u></p>", "", 4)

	assert.Equal(t, canvas.TextStyle{Bold: true}, c.At(0, 0).Style)
	assert.Equal(t, canvas.TextStyle{Underline: true}, c.At(1, 0).Style)
}

func TestPaint_ClipsToBorderBox(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	page := r.Layout(parse(t, "<div>ab cd</div>"), sheets("div { width: 3; height: 1 }"), 5)
	require.Equal(t, 1, page.Height())

	// A taller canvas shows what overflows the div.
	c := canvas.New(5, 3)
	r.Present(page, c, nil, true)
	assert.Equal(t, "ab   ", c.Row(0))
	assert.Equal(t, "     ", c.Row(1), "the second line overflows the box and is clipped")
}

func TestPaint_VisibilityHidden(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	html := `<div>a<span>b</span></div>`
	css := "div { visibility: hidden; border: 1 solid; width: 4 } span { visibility: visible }"
	c, _ := renderPage(t, r, html, css, 4)

	assert.Equal(t, "    ", c.Row(0), "hidden boxes draw no border")
	assert.Equal(t, "  b ", c.Row(1), "visible descendants still paint")
}

func TestPaint_TitleBar(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.TitleBar = true
	r := newTestRenderer(cfg)
	html := "<html><head><title> My   Page </title></head><body><p>x</p></body></html>"
	c, page := renderPage(t, r, html, "", 6)

	assert.Equal(t, 1, page.TitleRows)
	assert.Equal(t, 1+page.Layout.ContentDimensions.Height, page.Height())
	assert.Equal(t, " My Pa", c.Row(0), "the title is truncated to the canvas width")
	assert.True(t, c.At(0, 0).Style.Bold)
	assert.Equal(t, "x     ", c.Row(1), "the page is offset below the title")
}

func TestPaint_NilRoot(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	page := r.Layout(nil, nil, 10)
	c := canvas.New(3, 1)
	c.DrawText("abc", canvas.Point{}, canvas.TextStyle{})

	assert.NotPanics(t, func() { r.Paint(page, c) })
	assert.Equal(t, "abc", c.Row(0))
}

func TestFrame_DiffsAgainstPreviousFrame(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	c := canvas.New(10, 2)

	first := r.Frame(parse(t, "<p>one</p>"), nil, c, nil, false)
	assert.Equal(t, 20, first.Changed, "no previous frame means every cell is emitted")

	again := r.Frame(parse(t, "<p>one</p>"), nil, c, nil, false)
	assert.Equal(t, 0, again.Changed, "an identical frame emits nothing")

	var rec recorder
	changed := r.Frame(parse(t, "<p>one!</p>"), nil, c, &rec, false)
	assert.Equal(t, 1, changed.Changed)
	assert.Equal(t, []writtenCell{{X: 3, Y: 0, Cell: canvas.Cell{Ch: '!'}}}, rec.cells)

	full := r.Frame(parse(t, "<p>one!</p>"), nil, c, nil, true)
	assert.Equal(t, 20, full.Changed)
}

func TestFrame_ShrinkingContentClearsOldCells(t *testing.T) {
	r := newTestRenderer(defaultRenderConfig())
	c := canvas.New(6, 1)

	r.Frame(parse(t, "<p>abcdef</p>"), nil, c, nil, false)
	var rec recorder
	r.Frame(parse(t, "<p>ab</p>"), nil, c, &rec, false)

	assert.Len(t, rec.cells, 4)
	assert.Equal(t, "ab    ", c.Row(0))
}

func TestFrame_Deterministic(t *testing.T) {
	html := `<body><h1>Title</h1><div class="box">some <b>bold</b> text that wraps</div></body>`
	css := ".box { border: 1 solid; padding: 0 1; width: 16; background-color: #202020 }"

	run := func() (pipeline.FrameStats, []writtenCell) {
		r := newTestRenderer(defaultRenderConfig())
		c := canvas.New(24, 8)
		var rec recorder
		stats := r.Frame(parse(t, html), sheets(css), c, &rec, false)
		return stats, rec.cells
	}

	s1, cells1 := run()
	s2, cells2 := run()

	if diff := cmp.Diff(s1.Page.Layout.Root, s2.Page.Layout.Root); diff != "" {
		t.Errorf("layout trees differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(cells1, cells2); diff != "" {
		t.Errorf("diff sets differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, s1.Elements, s2.Elements)
	assert.NotEqual(t, s1.ID, s2.ID, "every frame gets its own id")
}

func TestFrame_LogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := pipeline.NewRenderer(defaultRenderConfig(), pipeline.WithLogger(zap.New(core)))

	stats := r.Frame(parse(t, "<p>hi</p>"), nil, canvas.New(4, 2), nil, true)

	entries := logs.FilterMessage("Frame rendered.").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, stats.ID, fields["frame_id"])
	assert.Equal(t, int64(8), fields["changed_cells"])
	assert.Equal(t, true, fields["full_redraw"])
	assert.Equal(t, "pipeline", entries[0].LoggerName)
}

func TestFrame_NoDebugLogAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := pipeline.NewRenderer(defaultRenderConfig(), pipeline.WithLogger(zap.New(core)))

	r.Frame(parse(t, "<p>hi</p>"), nil, canvas.New(4, 2), nil, true)
	assert.Equal(t, 0, logs.Len())
}

func TestRenderer_MaxDepth(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := defaultRenderConfig()
	cfg.MaxDepth = 3
	r := pipeline.NewRenderer(cfg, pipeline.WithLogger(zap.New(core)))

	html := "<div><div><div><div><div>deep</div></div></div></div></div>"
	c, _ := renderPage(t, r, html, "", 8)

	assert.NotContains(t, c.String(), "deep")
	assert.Equal(t, 1, logs.FilterMessage("Layout depth limit exceeded, dropping subtree.").Len())
}
