// internal/browser/canvas/cell.go
package canvas

import "github.com/xkilldash9x/termrender/internal/browser/palette"

// TextStyle is the visual attributes of a cell.
type TextStyle struct {
	Fg        palette.Color
	Bg        palette.Color
	Bold      bool
	Underline bool
}

// Cell is one character position of the grid.
type Cell struct {
	Ch    rune
	Style TextStyle
}

// EmptyCell is a blank cell in the terminal's default colors.
var EmptyCell = Cell{Ch: ' '}

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Rect is a rectangle on the grid.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the overlap of two rectangles.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// BorderSet holds the glyphs used to draw a box outline.
type BorderSet struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

var (
	SingleBox = BorderSet{Horizontal: '─', Vertical: '│', TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘'}
	DoubleBox = BorderSet{Horizontal: '═', Vertical: '║', TopLeft: '╔', TopRight: '╗', BottomLeft: '╚', BottomRight: '╝'}
	DashedBox = BorderSet{Horizontal: '╌', Vertical: '╎', TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘'}
	HeavyBox  = BorderSet{Horizontal: '━', Vertical: '┃', TopLeft: '┏', TopRight: '┓', BottomLeft: '┗', BottomRight: '┛'}
	ASCIIBox  = BorderSet{Horizontal: '-', Vertical: '|', TopLeft: '+', TopRight: '+', BottomLeft: '+', BottomRight: '+'}
)

// Sides selects which edges of a rectangle get a border.
type Sides struct {
	Top, Right, Bottom, Left bool
}

// AllSides draws the full outline.
var AllSides = Sides{Top: true, Right: true, Bottom: true, Left: true}
