// internal/browser/layout/layout_test.go
package layout_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/layout"
	"github.com/xkilldash9x/termrender/internal/browser/parser"
	"github.com/xkilldash9x/termrender/internal/browser/style"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// -- Test Helpers --

// setupLayoutTest parses the HTML and CSS, resolves styles with the default
// user agent sheet and lays the document out at the given width.
func setupLayoutTest(t *testing.T, htmlString, cssString string, width int, opts ...layout.Option) (*dom.Document, layout.Result) {
	t.Helper()

	doc, err := dom.ParseString(htmlString)
	require.NoError(t, err, "Failed to parse test HTML")

	var sheets []parser.StyleSheet
	if cssString != "" {
		sheets = append(sheets, parser.Parse(cssString))
	}
	styles := style.NewResolver(style.WithLogger(zap.NewNop())).Resolve(doc, sheets)

	opts = append([]layout.Option{layout.WithLogger(zap.NewNop())}, opts...)
	result := layout.NewEngine(opts...).Layout(doc, styles, width)
	require.NotNil(t, result.Root, "Layout root should not be nil")
	return doc, result
}

// findBox returns the first box generated by the element with the given id.
func findBox(t *testing.T, doc *dom.Document, root *layout.LayoutBox, id string) *layout.LayoutBox {
	t.Helper()
	var found *layout.LayoutBox
	var walk func(*layout.LayoutBox)
	walk = func(b *layout.LayoutBox) {
		if found != nil {
			return
		}
		if b.Node != dom.NoNode && doc.ElementID(b.Node) == id {
			found = b
			return
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(root)
	require.NotNil(t, found, "no layout box for #%s", id)
	return found
}

// lineTexts returns the text of every line of the box's anonymous children.
func lineTexts(box *layout.LayoutBox) []string {
	var out []string
	for _, child := range box.Children {
		for _, line := range child.Lines {
			var sb strings.Builder
			for _, f := range line.Fragments {
				sb.WriteString(f.Text)
			}
			out = append(out, sb.String())
		}
	}
	return out
}

// -- Test Cases --

func TestLayout_ViewportAnchoring(t *testing.T) {
	_, result := setupLayoutTest(t, `<body><p>Hello World</p></body>`, "", 80)

	assert.Equal(t, 80, result.ContentDimensions.Width)
	assert.Greater(t, result.ContentDimensions.Height, 0)
	// One line of text plus the paragraph's bottom margin.
	assert.Equal(t, 2, result.ContentDimensions.Height)
	assert.Equal(t, "html", result.Root.Tag)
	assert.Equal(t, 80, result.Root.Dimensions.Content.Width)
}

func TestLayout_ViewportAnchoringWithRootMargins(t *testing.T) {
	_, result := setupLayoutTest(t, `<p>x</p>`, "html { margin: 0 5; padding: 1 }", 80)

	assert.Equal(t, 80, result.ContentDimensions.Width)
	assert.Equal(t, 68, result.Root.Dimensions.Content.Width)
}

func TestLayout_DegenerateWidth(t *testing.T) {
	for _, width := range []int{0, -1, -80} {
		_, result := setupLayoutTest(t, `<p>Hello</p>`, "", width)
		assert.Empty(t, result.Root.Children)
		assert.Equal(t, layout.Size{}, result.ContentDimensions)
		assert.Equal(t, layout.Rect{}, result.Root.Dimensions.Content)
	}
}

func TestLayout_NilDocument(t *testing.T) {
	result := layout.NewEngine(layout.WithLogger(zap.NewNop())).Layout(nil, nil, 80)
	require.NotNil(t, result.Root)
	assert.Equal(t, dom.NoNode, result.Root.Node)
	assert.Equal(t, layout.Size{}, result.ContentDimensions)
}

func TestLayout_BlockStacking(t *testing.T) {
	doc, result := setupLayoutTest(t, `
		<div id="a">first</div>
		<div id="b">second</div>
		<div id="c">third</div>`,
		"#a { margin-bottom: 2 } #b { margin-top: 3 }", 40)

	a := findBox(t, doc, result.Root, "a")
	b := findBox(t, doc, result.Root, "b")
	c := findBox(t, doc, result.Root, "c")

	assert.Equal(t, 0, a.Dimensions.Content.Y)
	// Margins sum rather than collapse: 1 row + 2 + 3.
	assert.Equal(t, 6, b.Dimensions.Content.Y)
	assert.Equal(t, 7, c.Dimensions.Content.Y)
	assert.Equal(t, 8, result.ContentDimensions.Height)
}

func TestLayout_WhitespaceBetweenBlocksIsPruned(t *testing.T) {
	doc, result := setupLayoutTest(t, "<div id=\"wrap\">\n  <div>a</div>\n  <div>b</div>\n</div>", "", 40)

	wrap := findBox(t, doc, result.Root, "wrap")
	require.Len(t, wrap.Children, 2)
	for _, c := range wrap.Children {
		assert.Equal(t, layout.BlockBox, c.BoxType)
	}
	assert.Equal(t, 2, wrap.Dimensions.Content.Height)
}

func TestLayout_DisplayNoneGeneratesNoBox(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div id="a">shown</div><div id="b">hidden</div>`, "#b { display: none }", 40)

	findBox(t, doc, result.Root, "a")
	var found bool
	var walk func(*layout.LayoutBox)
	walk = func(b *layout.LayoutBox) {
		if b.Node != dom.NoNode && doc.ElementID(b.Node) == "b" {
			found = true
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(result.Root)
	assert.False(t, found)
	assert.Equal(t, 1, result.ContentDimensions.Height)
}

func TestLayout_VisibilityHiddenKeepsSpace(t *testing.T) {
	_, result := setupLayoutTest(t, `<div>a</div><div style="visibility: hidden">b</div>`, "", 40)
	assert.Equal(t, 2, result.ContentDimensions.Height)
}

func TestLayout_BoxModel(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div id="a">x</div>`,
		"#a { margin: 1 2; padding: 1; border: 1 solid; width: 20 }", 40)

	a := findBox(t, doc, result.Root, "a")
	d := a.Dimensions
	assert.Equal(t, layout.Edges{Top: 1, Right: 1, Bottom: 1, Left: 1}, d.Padding)
	assert.Equal(t, layout.Edges{Top: 1, Right: 1, Bottom: 1, Left: 1}, d.Border)
	assert.Equal(t, 2, d.Margin.Left)
	assert.Equal(t, layout.Rect{X: 4, Y: 3, Width: 20, Height: 1}, d.Content)
	assert.Equal(t, layout.Rect{X: 2, Y: 1, Width: 24, Height: 5}, d.BorderBox())
	assert.Equal(t, 7, d.MarginBox().Height)
	assert.Equal(t, 7, result.ContentDimensions.Height)
}

func TestLayout_BorderNeedsStyle(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div id="a">x</div>`, "#a { border-width: 1 }", 40)
	a := findBox(t, doc, result.Root, "a")
	assert.Equal(t, layout.Edges{}, a.Dimensions.Border)
}

func TestLayout_Widths(t *testing.T) {
	tests := []struct {
		name        string
		css         string
		wantX       int
		wantWidth   int
		wantMargins [2]int
	}{
		{"Auto Fills Container", "", 0, 41, [2]int{0, 0}},
		{"Explicit", "#a { width: 10 }", 0, 10, [2]int{0, 0}},
		{"Clipped To Container", "#a { width: 100 }", 0, 41, [2]int{0, 0}},
		{"Clipped Inside Padding", "#a { width: 100; padding: 0 3 }", 3, 35, [2]int{0, 0}},
		{"Percent Floors", "#a { width: 50% }", 0, 20, [2]int{0, 0}},
		{"Centered Floors Left", "#a { width: 10; margin: 0 auto }", 15, 10, [2]int{15, 16}},
		{"Auto Left Margin", "#a { width: 10; margin-left: auto }", 31, 10, [2]int{31, 0}},
		{"Auto Right Margin", "#a { width: 10; margin-left: 4; margin-right: auto }", 4, 10, [2]int{4, 27}},
		{"Auto Margins With Auto Width", "#a { margin: 0 auto }", 0, 41, [2]int{0, 0}},
		{"Negative Width Is Auto", "#a { width: -5 }", 0, 41, [2]int{0, 0}},
		{"Negative Margin Is Zero", "#a { margin-left: -4 }", 0, 41, [2]int{0, 0}},
		{"Negative Padding Is Zero", "#a { padding-left: -4 }", 0, 41, [2]int{0, 0}},
		{"Percent Margin", "#a { margin-left: 10% }", 4, 37, [2]int{4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, result := setupLayoutTest(t, `<div id="a">x</div>`, tt.css, 41)
			d := findBox(t, doc, result.Root, "a").Dimensions
			assert.Equal(t, tt.wantX, d.Content.X)
			assert.Equal(t, tt.wantWidth, d.Content.Width)
			assert.Equal(t, tt.wantMargins, [2]int{d.Margin.Left, d.Margin.Right})
		})
	}
}

func TestLayout_ExplicitHeight(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div id="a">x</div><div id="b">y</div>`, "#a { height: 5 } #b { height: 50% }", 40)

	assert.Equal(t, 5, findBox(t, doc, result.Root, "a").Dimensions.Content.Height)
	// Percentage heights behave as auto.
	assert.Equal(t, 1, findBox(t, doc, result.Root, "b").Dimensions.Content.Height)
	assert.Equal(t, 6, result.ContentDimensions.Height)
}

func TestLayout_InlineFlow(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		css   string
		width int
		want  []string
	}{
		{"Single Line", `<div id="t">Hello World</div>`, "", 40, []string{"Hello World"}},
		{"Collapses Whitespace", "<div id=\"t\">  a \n\n\t b  </div>", "", 40, []string{"a b"}},
		{"Greedy Wrap", `<div id="t">aaa bbb ccc dddd</div>`, "", 10, []string{"aaa bbb", "ccc dddd"}},
		{"Exact Fit", `<div id="t">aaaaa bbbb</div>`, "", 10, []string{"aaaaa bbbb"}},
		{"Long Word Alone", `<div id="t">ab abcdefghij cd</div>`, "", 5, []string{"ab", "abcdefghij", "cd"}},
		{"Across Elements", `<div id="t">one <b>two</b> three</div>`, "", 40, []string{"one two three"}},
		{"Space At Element Edge", `<div id="t"><i>one </i><b> two</b></div>`, "", 40, []string{"one two"}},
		{"Line Break", `<div id="t">a<br>b</div>`, "", 40, []string{"a", "b"}},
		{"Blank Line From Double Break", `<div id="t">a<br><br>b</div>`, "", 40, []string{"a", "", "b"}},
		{"Trailing Break", `<div id="t">a<br></div>`, "", 40, []string{"a"}},
		{"Preformatted", "<pre id=\"t\">a  b\n  c</pre>", "", 40, []string{"a  b", "  c"}},
		{"Preformatted Tabs", "<pre id=\"t\">a\tb</pre>", "", 40, []string{"a       b"}},
		{"Preformatted Does Not Wrap", "<pre id=\"t\">aaaa bbbb</pre>", "", 5, []string{"aaaa bbbb"}},
		{"No-Break Space Is Content", "<div id=\"t\">a\u00a0b</div>", "", 40, []string{"a\u00a0b"}},
		{"Block Inside Inline Breaks", `<div id="t"><span>a<div>b</div>c</span></div>`, "", 40, []string{"a", "b", "c"}},
		{"Block At Start Of Inline", `<div id="t"><span><div>b</div></span></div>`, "", 20, []string{"b"}},
		{"Adjacent Blocks Inside Inline", `<div id="t"><span><div>a</div><div>b</div></span>c</div>`, "", 20, []string{"a", "b", "c"}},
		{"Word Continues Across Elements", `<div id="t">ab foo<b>bar</b></div>`, "", 6, []string{"ab", "foobar"}},
		{"Joined Word Fits", `<div id="t">x<i>y</i>z w</div>`, "", 5, []string{"xyz w"}},
		{"Joined Word Longer Than Line", `<div id="t">a b<b>cdef</b></div>`, "", 3, []string{"a", "bcdef"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, result := setupLayoutTest(t, tt.html, tt.css, tt.width)
			box := findBox(t, doc, result.Root, "t")
			if diff := cmp.Diff(tt.want, lineTexts(box)); diff != "" {
				t.Errorf("line mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, len(tt.want), box.Dimensions.Content.Height)
		})
	}
}

func TestLayout_LongWordIsClipped(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div id="t">abcdefghij</div>`, "", 4)
	box := findBox(t, doc, result.Root, "t")
	require.Len(t, box.Children, 1)
	require.Len(t, box.Children[0].Lines, 1)

	frag := box.Children[0].Lines[0].Fragments[0]
	assert.Equal(t, "abcdefghij", frag.Text)
	assert.Equal(t, 4, frag.Width)
}

func TestLayout_TextAlign(t *testing.T) {
	tests := []struct {
		align string
		wantX int
	}{
		{"left", 0},
		{"center", 3},
		{"right", 7},
	}
	for _, tt := range tests {
		t.Run(tt.align, func(t *testing.T) {
			doc, result := setupLayoutTest(t, `<div id="t">abc</div>`, "#t { text-align: "+tt.align+" }", 10)
			box := findBox(t, doc, result.Root, "t")
			frag := box.Children[0].Lines[0].Fragments[0]
			assert.Equal(t, tt.wantX, frag.X)
		})
	}
}

func TestLayout_TextAlignInsideContentBox(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div id="t">ab</div>`, "#t { padding: 0 2; text-align: right }", 12)
	box := findBox(t, doc, result.Root, "t")
	frag := box.Children[0].Lines[0].Fragments[0]
	// Content spans columns 2..9.
	assert.Equal(t, 8, frag.X)
}

func TestLayout_InlineBoxGeometry(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div>hello <b id="x">big</b> world</div>`, "", 80)

	b := findBox(t, doc, result.Root, "x")
	assert.Equal(t, layout.InlineBox, b.BoxType)
	assert.Equal(t, layout.Rect{X: 6, Y: 0, Width: 3, Height: 1}, b.Dimensions.Content)
}

func TestLayout_InlineBoxSpanningLines(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div>aa <span id="x">bbbb cccc</span></div>`, "", 8)

	span := findBox(t, doc, result.Root, "x")
	// "aa bbbb" on row 0, "cccc" on row 1.
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 7, Height: 2}, span.Dimensions.Content)
}

func TestLayout_InlineEdgesAreIgnored(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div>a<span id="x">b</span></div>`, "#x { padding: 3; margin: 2; border: 1 solid }", 40)

	span := findBox(t, doc, result.Root, "x")
	assert.Equal(t, layout.Rect{X: 1, Y: 0, Width: 1, Height: 1}, span.Dimensions.Content)
	assert.Equal(t, layout.Edges{}, span.Dimensions.Padding)
	assert.Equal(t, 1, result.ContentDimensions.Height)
}

func TestLayout_FragmentsCarryElementStyle(t *testing.T) {
	doc, result := setupLayoutTest(t, `<div id="t">plain <b>bold</b></div>`, "", 40)
	box := findBox(t, doc, result.Root, "t")
	frags := box.Children[0].Lines[0].Fragments
	require.Len(t, frags, 2)
	assert.False(t, frags[0].Style.Bold)
	assert.True(t, frags[1].Style.Bold)
	assert.Equal(t, "bold", frags[1].Text)
	assert.Equal(t, 6, frags[1].X)
}

func TestLayout_MaxDepth(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("<div>")
	}
	sb.WriteString("deep")
	for i := 0; i < 10; i++ {
		sb.WriteString("</div>")
	}

	_, result := setupLayoutTest(t, sb.String(), "", 40, layout.WithMaxDepth(3), layout.WithLogger(zap.New(core)))

	depth := 0
	var walk func(*layout.LayoutBox, int)
	walk = func(b *layout.LayoutBox, d int) {
		depth = max(depth, d)
		for _, c := range b.Children {
			walk(c, d+1)
		}
	}
	walk(result.Root, 0)

	assert.LessOrEqual(t, depth, 3)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Layout depth limit exceeded, dropping subtree.", entry.Message)
	assert.Contains(t, entry.ContextMap()["element"], "/div[1]")
}

func TestLayout_Deterministic(t *testing.T) {
	src := `<body><h1>Title</h1><p>Some <b>bold</b> text that wraps around.</p><ul><li>one</li><li>two</li></ul></body>`
	_, first := setupLayoutTest(t, src, "p { width: 12 }", 30)
	_, second := setupLayoutTest(t, src, "p { width: 12 }", 30)

	a, err := layout.ExportJSON(first.Root)
	require.NoError(t, err)
	b, err := layout.ExportJSON(second.Root)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, first.ContentDimensions, second.ContentDimensions)
}

func TestLayout_ReusableEngine(t *testing.T) {
	doc, err := dom.ParseString(`<p>Hello World</p>`)
	require.NoError(t, err)
	styles := style.NewResolver(style.WithLogger(zap.NewNop())).Resolve(doc, nil)
	engine := layout.NewEngine(layout.WithLogger(zap.NewNop()))

	narrow := engine.Layout(doc, styles, 5)
	wide := engine.Layout(doc, styles, 80)

	assert.Greater(t, narrow.ContentDimensions.Height, wide.ContentDimensions.Height)
	assert.Equal(t, 80, wide.ContentDimensions.Width)
}

func TestRect(t *testing.T) {
	r := layout.Rect{X: 2, Y: 2, Width: 4, Height: 3}
	assert.Equal(t, 6, r.Right())
	assert.Equal(t, 5, r.Bottom())
	assert.Equal(t, layout.Rect{X: 1, Y: 0, Width: 6, Height: 6}, r.ExpandedBy(layout.Edges{Top: 2, Right: 1, Bottom: 1, Left: 1}))
	assert.Equal(t, layout.Rect{X: 4, Y: 3, Width: 2, Height: 2}, r.Intersect(layout.Rect{X: 4, Y: 3, Width: 10, Height: 10}))
	assert.True(t, r.Intersect(layout.Rect{X: 10, Y: 10, Width: 1, Height: 1}).Empty())
}
