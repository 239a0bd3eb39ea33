// internal/browser/canvas/canvas.go
package canvas

import (
	"strings"
	"unicode"
)

// CellWriter receives the cells emitted by Render, each tagged with its position.
type CellWriter interface {
	WriteCell(x, y int, c Cell)
}

// Canvas is a fixed size grid of cells that remembers what it last rendered,
// so a later render only emits cells that changed. A Canvas is not safe for
// concurrent use.
type Canvas struct {
	width, height int
	cells         []Cell

	// snapshot is the grid as of the last Render. It is only meaningful
	// while valid is set.
	snapshot []Cell
	valid    bool
}

// New creates a canvas filled with EmptyCell. Negative sizes are treated as zero.
func New(width, height int) *Canvas {
	width, height = max(0, width), max(0, height)
	c := &Canvas{width: width, height: height}
	c.cells = blank(width * height)
	return c
}

func blank(n int) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = EmptyCell
	}
	return cells
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Bounds returns the rectangle covered by the grid.
func (c *Canvas) Bounds() Rect { return Rect{Width: c.width, Height: c.height} }

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// At returns the cell at (x, y), or EmptyCell outside the grid.
func (c *Canvas) At(x, y int) Cell {
	if !c.inBounds(x, y) {
		return EmptyCell
	}
	return c.cells[y*c.width+x]
}

// Set replaces the cell at (x, y). Writes outside the grid are ignored.
func (c *Canvas) Set(x, y int, cell Cell) {
	if !c.inBounds(x, y) {
		return
	}
	c.cells[y*c.width+x] = cell
}

// SetCell writes a character with a style at (x, y).
func (c *Canvas) SetCell(x, y int, ch rune, style TextStyle) {
	c.Set(x, y, Cell{Ch: ch, Style: style})
}

// DrawText writes text on one row starting at at, one cell per character.
// It clips at the grid edge and never wraps. It returns the number of cells written.
func (c *Canvas) DrawText(text string, at Point, style TextStyle) int {
	return c.Region(c.Bounds()).DrawText(text, at, style)
}

// DrawRect outlines rect with a one cell border. Interior cells are left
// untouched unless WithFill is given.
func (c *Canvas) DrawRect(rect Rect, style TextStyle, opts ...RectOption) {
	c.Region(c.Bounds()).DrawRect(rect, style, opts...)
}

// FillRect sets every cell of rect to ch.
func (c *Canvas) FillRect(rect Rect, ch rune, style TextStyle) {
	c.Region(c.Bounds()).FillRect(rect, ch, style)
}

// Clear resets every cell to EmptyCell and invalidates the render snapshot.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = EmptyCell
	}
	c.valid = false
}

// Resize changes the grid size. The region both sizes share keeps its
// content; everything else is dropped and new cells are empty. The render
// snapshot is invalidated.
func (c *Canvas) Resize(width, height int) {
	width, height = max(0, width), max(0, height)
	cells := blank(width * height)
	w, h := min(width, c.width), min(height, c.height)
	for y := 0; y < h; y++ {
		copy(cells[y*width:y*width+w], c.cells[y*c.width:y*c.width+w])
	}
	c.width, c.height, c.cells = width, height, cells
	c.snapshot, c.valid = nil, false
}

// Render emits cells to out in row-major order and records the grid as the
// new snapshot. With full set every cell is emitted; otherwise only cells
// that differ from the snapshot are, and a missing snapshot counts as every
// cell changed. It returns the number of cells emitted.
func (c *Canvas) Render(out CellWriter, full bool) int {
	diff := !full && c.valid
	emitted := 0
	for i, cell := range c.cells {
		if diff && c.snapshot[i] == cell {
			continue
		}
		if out != nil {
			out.WriteCell(i%c.width, i/c.width, cell)
		}
		emitted++
	}

	if len(c.snapshot) != len(c.cells) {
		c.snapshot = make([]Cell, len(c.cells))
	}
	copy(c.snapshot, c.cells)
	c.valid = true
	return emitted
}

// Row returns the characters of row y, or "" outside the grid.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	var sb strings.Builder
	for _, cell := range c.cells[y*c.width : (y+1)*c.width] {
		sb.WriteRune(cell.Ch)
	}
	return sb.String()
}

// String returns the grid as plain text, one line per row with trailing
// blanks removed.
func (c *Canvas) String() string {
	rows := make([]string, c.height)
	for y := range rows {
		rows[y] = strings.TrimRight(c.Row(y), " ")
	}
	return strings.Join(rows, "\n")
}

// printable maps control characters to a blank so they cannot move the
// terminal cursor.
func printable(r rune) rune {
	if unicode.IsControl(r) {
		return ' '
	}
	return r
}
