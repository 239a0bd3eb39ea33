// internal/browser/layout/layout.go
package layout

import (
	"strings"

	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/style"
	"github.com/xkilldash9x/termrender/internal/observability"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds how deep the box tree may nest.
const DefaultMaxDepth = 256

// -- Geometry Primitives --

// Rect is a rectangle on the character grid. All units are cells.
type Rect struct {
	X, Y, Width, Height int
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// ExpandedBy grows the rectangle outward by the given edges.
func (r Rect) ExpandedBy(e Edges) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// Intersect returns the overlap of two rectangles. The result is empty when
// they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// union returns the smallest rectangle containing both. An empty receiver is ignored.
func (r Rect) union(o Rect) Rect {
	if r.Width == 0 && r.Height == 0 {
		return o
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Edges holds a width per box side.
type Edges struct {
	Top, Right, Bottom, Left int
}

// Size is a width and height in cells.
type Size struct {
	Width, Height int
}

// Dimensions holds the box model of a laid out box.
type Dimensions struct {
	Content Rect
	Padding Edges
	Border  Edges
	Margin  Edges
}

// PaddingBox returns the content area plus padding.
func (d Dimensions) PaddingBox() Rect { return d.Content.ExpandedBy(d.Padding) }

// BorderBox returns the padding box plus borders.
func (d Dimensions) BorderBox() Rect { return d.PaddingBox().ExpandedBy(d.Border) }

// MarginBox returns the border box plus margins.
func (d Dimensions) MarginBox() Rect { return d.BorderBox().ExpandedBy(d.Margin) }

// -- Layout Tree --

// BoxType is the formatting role of a box.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	AnonymousBox
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case AnonymousBox:
		return "anonymous"
	}
	return "unknown"
}

// LayoutBox is a node in the layout tree.
type LayoutBox struct {
	BoxType BoxType
	// Node is the element or text node that generated the box; NoNode for
	// anonymous boxes.
	Node dom.NodeID
	// Tag is the element's tag name, "#text" for text, empty for anonymous boxes.
	Tag string
	// Text is the content of a text node box.
	Text       string
	Style      style.ComputedStyle
	Dimensions Dimensions
	Children   []*LayoutBox
	// Lines is populated on anonymous boxes only.
	Lines []LineBox
}

// LineBox is one row of inline content.
type LineBox struct {
	Rect
	Fragments []Fragment
}

// Fragment is a run of text from one text node positioned on a line.
type Fragment struct {
	Text string
	X, Y int
	// Width is the number of cells the fragment may occupy. It can be
	// shorter than Text when a word is wider than its line.
	Width int
	Node  dom.NodeID
	Style style.ComputedStyle
}

// Result is the output of a layout pass.
type Result struct {
	Root              *LayoutBox
	ContentDimensions Size
}

func newLayoutBox(boxType BoxType, node dom.NodeID, tag string, cs style.ComputedStyle) *LayoutBox {
	return &LayoutBox{BoxType: boxType, Node: node, Tag: tag, Style: cs}
}

// -- Engine Core --

// Engine lays out a styled document on a grid of fixed width. It holds no
// per-document state and may be reused.
type Engine struct {
	maxDepth int
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth bounds the nesting depth of the box tree. Deeper subtrees
// are dropped.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used to report dropped subtrees.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a layout engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxDepth: DefaultMaxDepth,
		logger:   observability.GetLogger().Named("layout"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout builds the box tree for doc and positions it inside a viewport of
// the given width. A non-positive width yields an empty root box.
func (e *Engine) Layout(doc *dom.Document, styles *style.Map, width int) Result {
	rootID := dom.NoNode
	if doc != nil {
		rootID = doc.Root()
	}
	if width <= 0 || rootID == dom.NoNode {
		root := newLayoutBox(BlockBox, rootID, "", style.Initial())
		if doc != nil {
			root.Tag = doc.Tag(rootID)
		}
		return Result{Root: root}
	}

	b := &builder{doc: doc, styles: styles, maxDepth: e.maxDepth, logger: e.logger}
	root := b.buildRoot(rootID)
	root.layoutBlock(Rect{Width: width}, 0)

	return Result{
		Root:              root,
		ContentDimensions: Size{Width: width, Height: root.Dimensions.MarginBox().Height},
	}
}

// -- Layout Tree Construction --

type builder struct {
	doc      *dom.Document
	styles   *style.Map
	maxDepth int
	logger   *zap.Logger
}

// styleOf returns the computed style of an element, or initial values when
// the element was not resolved.
func (b *builder) styleOf(id dom.NodeID) style.ComputedStyle {
	if cs, ok := b.styles.Get(id); ok {
		return cs
	}
	return style.Initial()
}

// buildRoot builds the box for the document element. The root is always a
// block; a root with display none renders as an empty block.
func (b *builder) buildRoot(id dom.NodeID) *LayoutBox {
	cs := b.styleOf(id)
	root := newLayoutBox(BlockBox, id, b.doc.Tag(id), cs)
	if !b.doc.IsElement(id) {
		// A bare text root is treated as the content of an anonymous block.
		root.Style = style.Initial()
		root.Style.Display = style.DisplayBlock
		text := newLayoutBox(InlineBox, id, "#text", root.Style)
		text.Text = b.doc.Text(id)
		b.addChild(root, text)
		b.pruneAnonymous(root)
		return root
	}
	if cs.Display == style.DisplayNone {
		return root
	}
	b.buildChildren(root, id, 1)
	return root
}

// build constructs the box for one node. It returns nil for nodes that
// generate no box.
func (b *builder) build(id dom.NodeID, depth int) *LayoutBox {
	if depth > b.maxDepth {
		b.logger.Warn("Layout depth limit exceeded, dropping subtree.",
			zap.Int("max_depth", b.maxDepth),
			zap.String("element", b.doc.Path(id)),
		)
		return nil
	}

	if !b.doc.IsElement(id) {
		text := newLayoutBox(InlineBox, id, "#text", b.styleOf(b.doc.Parent(id)))
		text.Text = b.doc.Text(id)
		return text
	}

	cs := b.styleOf(id)
	var box *LayoutBox
	switch cs.Display {
	case style.DisplayNone:
		return nil
	case style.DisplayBlock:
		box = newLayoutBox(BlockBox, id, b.doc.Tag(id), cs)
	default:
		box = newLayoutBox(InlineBox, id, b.doc.Tag(id), cs)
	}
	b.buildChildren(box, id, depth+1)
	return box
}

func (b *builder) buildChildren(box *LayoutBox, id dom.NodeID, depth int) {
	for _, child := range b.doc.Children(id) {
		if childBox := b.build(child, depth); childBox != nil {
			b.addChild(box, childBox)
		}
	}
	if box.BoxType == BlockBox {
		b.pruneAnonymous(box)
	}
}

// addChild places a child box. Inline level children of a block are
// gathered into anonymous boxes; an inline box keeps every child, blocks
// included, as inline content.
func (b *builder) addChild(parent, child *LayoutBox) {
	if parent.BoxType != BlockBox || child.BoxType == BlockBox {
		parent.Children = append(parent.Children, child)
		return
	}
	anon := parent.inlineContainer()
	anon.Children = append(anon.Children, child)
}

// inlineContainer returns the trailing anonymous box of a block, creating it
// when the last child is not one.
func (box *LayoutBox) inlineContainer() *LayoutBox {
	if n := len(box.Children); n > 0 && box.Children[n-1].BoxType == AnonymousBox {
		return box.Children[n-1]
	}
	anon := newLayoutBox(AnonymousBox, dom.NoNode, "", box.Style)
	box.Children = append(box.Children, anon)
	return anon
}

// pruneAnonymous drops anonymous boxes that hold nothing but collapsible
// whitespace, such as the indentation between block elements.
func (b *builder) pruneAnonymous(box *LayoutBox) {
	kept := box.Children[:0]
	for _, child := range box.Children {
		if child.BoxType == AnonymousBox && !hasInlineContent(child) {
			continue
		}
		kept = append(kept, child)
	}
	box.Children = kept
}

func hasInlineContent(box *LayoutBox) bool {
	for _, child := range box.Children {
		switch {
		case child.Tag == "#text":
			if child.Style.WhiteSpace == style.WhiteSpacePre && child.Text != "" {
				return true
			}
			if strings.TrimSpace(child.Text) != "" {
				return true
			}
		case child.Tag == "br":
			return true
		case hasInlineContent(child):
			return true
		}
	}
	return false
}

// -- Block Formatting --

// layoutBlock positions a block box whose margin box starts at row y inside
// the containing content rectangle cb.
func (box *LayoutBox) layoutBlock(cb Rect, y int) {
	box.calculateBlockWidth(cb.Width)

	d := &box.Dimensions
	d.Content.X = cb.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = y + d.Margin.Top + d.Border.Top + d.Padding.Top

	box.layoutBlockChildren()
	box.calculateBlockHeight()
}

// calculateBlockWidth resolves the horizontal box model against the
// containing block's width. Auto margins split the leftover width, the left
// one taking the floor.
func (box *LayoutBox) calculateBlockWidth(containerWidth int) {
	cs := box.Style
	d := &box.Dimensions

	d.Padding = Edges{
		Top:    nonNegative(cs.Padding.Top, containerWidth),
		Right:  nonNegative(cs.Padding.Right, containerWidth),
		Bottom: nonNegative(cs.Padding.Bottom, containerWidth),
		Left:   nonNegative(cs.Padding.Left, containerWidth),
	}
	border := cs.Border()
	d.Border = Edges{Top: border.Top, Right: border.Right, Bottom: border.Bottom, Left: border.Left}
	d.Margin.Top = nonNegative(cs.Margin.Top, containerWidth)
	d.Margin.Bottom = nonNegative(cs.Margin.Bottom, containerWidth)

	autoLeft, autoRight := cs.Margin.Left.IsAuto(), cs.Margin.Right.IsAuto()
	d.Margin.Left = nonNegative(cs.Margin.Left, containerWidth)
	d.Margin.Right = nonNegative(cs.Margin.Right, containerWidth)

	edges := d.Padding.Left + d.Padding.Right + d.Border.Left + d.Border.Right
	available := max(0, containerWidth-edges-d.Margin.Left-d.Margin.Right)

	width, explicit := cs.Width.Resolve(containerWidth)
	if !explicit || width < 0 {
		// Auto width fills the container; auto margins collapse to zero.
		d.Content.Width = available
		return
	}
	d.Content.Width = min(width, available)

	leftover := containerWidth - edges - d.Margin.Left - d.Margin.Right - d.Content.Width
	if leftover <= 0 {
		return
	}
	switch {
	case autoLeft && autoRight:
		d.Margin.Left = leftover / 2
		d.Margin.Right = leftover - d.Margin.Left
	case autoLeft:
		d.Margin.Left = leftover
	case autoRight:
		d.Margin.Right = leftover
	}
}

// layoutBlockChildren stacks children vertically. Vertical margins of
// adjacent siblings add up; they are not collapsed.
func (box *LayoutBox) layoutBlockChildren() {
	content := box.Dimensions.Content
	y := content.Y
	for _, child := range box.Children {
		switch child.BoxType {
		case BlockBox:
			child.layoutBlock(content, y)
		case AnonymousBox:
			child.Dimensions.Content = Rect{X: content.X, Y: y, Width: content.Width}
			child.layoutInlineFlow()
		}
		y += child.Dimensions.MarginBox().Height
	}
	box.Dimensions.Content.Height = y - content.Y
}

// calculateBlockHeight applies an explicit height. Percentage heights are
// treated as auto since the containing height is not known in advance.
func (box *LayoutBox) calculateBlockHeight() {
	if h := box.Style.Height; h.Kind == style.Length {
		box.Dimensions.Content.Height = max(0, h.Value)
	}
}

// nonNegative resolves an edge value; auto and negative values become zero.
func nonNegative(d style.Dimension, containerWidth int) int {
	v, ok := d.Resolve(containerWidth)
	if !ok || v < 0 {
		return 0
	}
	return v
}
