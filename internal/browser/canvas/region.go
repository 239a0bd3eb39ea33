// internal/browser/canvas/region.go
package canvas

// Region is a clipped view of a canvas. Drawing through a region never
// touches cells outside its clip rectangle. Coordinates stay absolute.
type Region struct {
	c    *Canvas
	clip Rect
}

// Region returns a view of the canvas clipped to r.
func (c *Canvas) Region(r Rect) Region {
	return Region{c: c, clip: r.Intersect(c.Bounds())}
}

// Clip narrows the region further.
func (r Region) Clip(rect Rect) Region {
	return Region{c: r.c, clip: r.clip.Intersect(rect)}
}

// Bounds returns the clip rectangle.
func (r Region) Bounds() Rect { return r.clip }

// Set replaces the cell at (x, y) when it lies inside the region.
func (r Region) Set(x, y int, cell Cell) {
	if !r.clip.Contains(x, y) {
		return
	}
	r.c.Set(x, y, cell)
}

// SetCell writes a character with a style at (x, y).
func (r Region) SetCell(x, y int, ch rune, style TextStyle) {
	r.Set(x, y, Cell{Ch: ch, Style: style})
}

// DrawText writes text on row at.Y, one cell per character. Characters left
// of the region are skipped and writing stops at its right edge.
func (r Region) DrawText(text string, at Point, style TextStyle) int {
	if at.Y < r.clip.Y || at.Y >= r.clip.Y+r.clip.Height {
		return 0
	}
	right := r.clip.X + r.clip.Width
	written := 0
	x := at.X
	for _, ch := range text {
		if x >= right {
			break
		}
		if x >= r.clip.X {
			r.c.Set(x, at.Y, Cell{Ch: printable(ch), Style: style})
			written++
		}
		x++
	}
	return written
}

// FillRect sets every cell of rect inside the region to ch.
func (r Region) FillRect(rect Rect, ch rune, style TextStyle) {
	area := rect.Intersect(r.clip)
	cell := Cell{Ch: printable(ch), Style: style}
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			r.c.Set(x, y, cell)
		}
	}
}

// RectOption configures DrawRect.
type RectOption func(*rectOptions)

type rectOptions struct {
	border  BorderSet
	sides   Sides
	fill    rune
	hasFill bool
}

// WithFill sets every interior cell to ch.
func WithFill(ch rune) RectOption {
	return func(o *rectOptions) {
		o.fill, o.hasFill = ch, true
	}
}

// WithBorder selects the outline glyphs. The default is SingleBox.
func WithBorder(set BorderSet) RectOption {
	return func(o *rectOptions) { o.border = set }
}

// WithSides limits the outline to some edges. Interior cells then extend to
// the edges without a border.
func WithSides(sides Sides) RectOption {
	return func(o *rectOptions) { o.sides = sides }
}

// DrawRect outlines rect with a one cell border.
func (r Region) DrawRect(rect Rect, style TextStyle, opts ...RectOption) {
	o := rectOptions{border: SingleBox, sides: AllSides}
	for _, opt := range opts {
		opt(&o)
	}
	if rect.Empty() {
		return
	}

	b, s := o.border, o.sides
	x0, y0 := rect.X, rect.Y
	x1, y1 := rect.X+rect.Width-1, rect.Y+rect.Height-1

	hline := func(y int) {
		for x := x0; x <= x1; x++ {
			r.SetCell(x, y, b.Horizontal, style)
		}
	}
	vline := func(x int) {
		for y := y0; y <= y1; y++ {
			r.SetCell(x, y, b.Vertical, style)
		}
	}

	// A rectangle one cell thick degenerates to a line.
	switch {
	case rect.Height == 1 && (s.Top || s.Bottom):
		hline(y0)
		return
	case rect.Width == 1 && (s.Left || s.Right):
		vline(x0)
		return
	case rect.Height == 1 || rect.Width == 1:
		if s.Left {
			vline(x0)
		}
		if s.Right {
			vline(x1)
		}
		if s.Top {
			hline(y0)
		}
		if s.Bottom {
			hline(y1)
		}
		return
	}

	if s.Top {
		hline(y0)
	}
	if s.Bottom {
		hline(y1)
	}
	if s.Left {
		vline(x0)
	}
	if s.Right {
		vline(x1)
	}
	corner := func(x, y int, horizontal, vertical bool, glyph rune) {
		if horizontal && vertical {
			r.SetCell(x, y, glyph, style)
		}
	}
	corner(x0, y0, s.Top, s.Left, b.TopLeft)
	corner(x1, y0, s.Top, s.Right, b.TopRight)
	corner(x0, y1, s.Bottom, s.Left, b.BottomLeft)
	corner(x1, y1, s.Bottom, s.Right, b.BottomRight)

	if o.hasFill {
		inner := Rect{X: x0, Y: y0, Width: rect.Width, Height: rect.Height}
		if s.Left {
			inner.X++
			inner.Width--
		}
		if s.Right {
			inner.Width--
		}
		if s.Top {
			inner.Y++
			inner.Height--
		}
		if s.Bottom {
			inner.Height--
		}
		r.FillRect(inner, o.fill, style)
	}
}
