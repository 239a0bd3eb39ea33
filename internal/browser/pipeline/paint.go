// internal/browser/pipeline/paint.go
package pipeline

import (
	"github.com/xkilldash9x/termrender/internal/browser/canvas"
	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/layout"
	"github.com/xkilldash9x/termrender/internal/browser/palette"
	"github.com/xkilldash9x/termrender/internal/browser/style"
)

// Paint draws the page onto c. Cells the page does not cover keep their
// previous contents; Frame blanks the canvas first.
func (r *Renderer) Paint(page Page, c *canvas.Canvas) {
	p := painter{page: page, dy: page.TitleRows}
	if page.TitleRows > 0 {
		p.paintTitle(c)
	}
	if page.Layout.Root == nil {
		return
	}
	clip := c.Region(canvas.Rect{X: 0, Y: page.TitleRows, Width: c.Width(), Height: c.Height() - page.TitleRows})
	p.paintBox(clip, page.Layout.Root)
}

type painter struct {
	page Page
	dy   int
}

// titleStyle is the reversed-out look of the title row.
var titleStyle = canvas.TextStyle{Fg: palette.ANSI(0), Bg: palette.ANSI(7), Bold: true}

func (p painter) paintTitle(c *canvas.Canvas) {
	row := canvas.Rect{Width: c.Width(), Height: 1}
	c.FillRect(row, ' ', titleStyle)
	if p.page.Document == nil {
		return
	}
	c.Region(row).DrawText(p.page.Document.Title(), canvas.Point{X: 1}, titleStyle)
}

func (p painter) rect(r layout.Rect) canvas.Rect {
	return canvas.Rect{X: r.X, Y: r.Y + p.dy, Width: r.Width, Height: r.Height}
}

func (p painter) paintBox(clip canvas.Region, box *layout.LayoutBox) {
	if box.BoxType != layout.AnonymousBox && box.Style.Visibility == style.Visible {
		p.paintBackground(clip, box)
		p.paintBorders(clip, box)
	}
	for _, line := range box.Lines {
		for _, frag := range line.Fragments {
			p.paintFragment(clip, frag)
		}
	}

	if box.BoxType == layout.BlockBox {
		clip = clip.Clip(p.rect(box.Dimensions.BorderBox()))
	}
	for _, child := range box.Children {
		p.paintBox(clip, child)
	}
}

func (p painter) paintBackground(clip canvas.Region, box *layout.LayoutBox) {
	bg := box.Style.BackgroundColor
	if bg.IsDefault() || box.BoxType != layout.BlockBox {
		return
	}
	clip.FillRect(p.rect(box.Dimensions.PaddingBox()), ' ', canvas.TextStyle{Bg: bg})
}

// borderGlyphs maps a border style onto the glyphs that draw it.
var borderGlyphs = map[style.BorderStyle]canvas.BorderSet{
	style.BorderSolid:  canvas.SingleBox,
	style.BorderDouble: canvas.DoubleBox,
	style.BorderDashed: canvas.DashedBox,
	style.BorderHeavy:  canvas.HeavyBox,
}

func (p painter) paintBorders(clip canvas.Region, box *layout.LayoutBox) {
	if box.BoxType != layout.BlockBox {
		return
	}
	used := box.Dimensions.Border
	if used == (layout.Edges{}) {
		return
	}

	color := box.Style.BorderColor
	if color.IsDefault() {
		color = box.Style.Color
	}
	ts := canvas.TextStyle{Fg: color, Bg: p.background(box.Node)}

	// Sides sharing a border style are drawn together so their corners join.
	bs := box.Style.BorderStyle
	sides := map[style.BorderStyle]*canvas.Sides{}
	add := func(width int, s style.BorderStyle, set func(*canvas.Sides)) {
		if width == 0 {
			return
		}
		if sides[s] == nil {
			sides[s] = &canvas.Sides{}
		}
		set(sides[s])
	}
	add(used.Top, bs.Top, func(s *canvas.Sides) { s.Top = true })
	add(used.Right, bs.Right, func(s *canvas.Sides) { s.Right = true })
	add(used.Bottom, bs.Bottom, func(s *canvas.Sides) { s.Bottom = true })
	add(used.Left, bs.Left, func(s *canvas.Sides) { s.Left = true })

	rect := p.rect(box.Dimensions.BorderBox())
	// Fixed order keeps overlapping corners deterministic.
	for _, s := range []style.BorderStyle{style.BorderSolid, style.BorderDouble, style.BorderDashed, style.BorderHeavy} {
		if on := sides[s]; on != nil {
			clip.DrawRect(rect, ts, canvas.WithBorder(borderGlyphs[s]), canvas.WithSides(*on))
		}
	}
}

func (p painter) paintFragment(clip canvas.Region, frag layout.Fragment) {
	if frag.Style.Visibility != style.Visible || frag.Width <= 0 {
		return
	}
	ts := canvas.TextStyle{
		Fg:        frag.Style.Color,
		Bg:        p.background(frag.Node),
		Bold:      frag.Style.Bold,
		Underline: frag.Style.Underline,
	}
	at := canvas.Point{X: frag.X, Y: frag.Y + p.dy}
	clip.Clip(canvas.Rect{X: at.X, Y: at.Y, Width: frag.Width, Height: 1}).DrawText(frag.Text, at, ts)
}

// background returns the nearest background color set on id or one of its
// ancestors.
func (p painter) background(id dom.NodeID) palette.Color {
	doc, styles := p.page.Document, p.page.Styles
	if doc == nil || styles == nil {
		return palette.Default
	}
	for n := id; n != dom.NoNode; n = doc.Parent(n) {
		cs, ok := styles.Get(n)
		if !ok || cs.Visibility != style.Visible {
			continue
		}
		if !cs.BackgroundColor.IsDefault() {
			return cs.BackgroundColor
		}
	}
	return palette.Default
}
