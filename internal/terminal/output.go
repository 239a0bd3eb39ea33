// internal/terminal/output.go
package terminal

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/xkilldash9x/termrender/internal/browser/canvas"
)

// ParseProfile maps a configured profile name onto a termenv profile.
func ParseProfile(name string) (termenv.Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "truecolor":
		return termenv.TrueColor, nil
	case "ansi256":
		return termenv.ANSI256, nil
	case "ansi":
		return termenv.ANSI, nil
	case "ascii":
		return termenv.Ascii, nil
	}
	return termenv.Ascii, fmt.Errorf("unknown color profile %q", name)
}

// Output accumulates terminal bytes and writes them to the underlying writer
// on Flush. It implements canvas.CellWriter: cells are positioned with CUP
// sequences and consecutive cells sharing a style are written as one run.
// An Output is not safe for concurrent use.
type Output struct {
	w        io.Writer
	buf      bytes.Buffer
	renderer *lipgloss.Renderer
	styles   map[canvas.TextStyle]lipgloss.Style

	// Where the terminal cursor is after everything buffered so far.
	cursorX, cursorY int
	cursorKnown      bool

	run      strings.Builder
	runStyle canvas.TextStyle
	runX     int
	runY     int
	runEnd   int
	hasRun   bool
	runBreak bool
}

// Option configures an Output.
type Option func(*Output)

// WithProfile sets the color profile used to encode styles.
func WithProfile(profile termenv.Profile) Option {
	return func(o *Output) {
		o.renderer.SetColorProfile(profile)
	}
}

// New creates an Output writing to w. The color profile defaults to ANSI256.
func New(w io.Writer, opts ...Option) *Output {
	o := &Output{
		w:      w,
		styles: make(map[canvas.TextStyle]lipgloss.Style),
	}
	o.renderer = lipgloss.NewRenderer(w)
	o.renderer.SetColorProfile(termenv.ANSI256)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write appends raw text to the buffer. The cursor position becomes unknown.
func (o *Output) Write(text string) {
	o.flushRun()
	o.buf.WriteString(text)
	o.cursorKnown = false
}

// WriteCell buffers one cell at (x, y).
func (o *Output) WriteCell(x, y int, c canvas.Cell) {
	if o.hasRun && !o.runBreak && y == o.runY && x == o.runEnd && c.Style == o.runStyle {
		o.run.WriteRune(c.Ch)
		o.runEnd++
		o.runBreak = runewidth.RuneWidth(c.Ch) != 1
		return
	}
	o.flushRun()
	o.hasRun = true
	o.runX, o.runY, o.runEnd = x, y, x+1
	o.runStyle = c.Style
	o.run.WriteRune(c.Ch)
	// Runes that do not advance the cursor by exactly one column end the
	// run so the next cell is positioned explicitly.
	o.runBreak = runewidth.RuneWidth(c.Ch) != 1
}

// flushRun encodes the pending run into the buffer.
func (o *Output) flushRun() {
	if !o.hasRun {
		return
	}
	if !o.cursorKnown || o.cursorX != o.runX || o.cursorY != o.runY {
		o.moveTo(o.runX, o.runY)
	}
	text := o.run.String()
	o.buf.WriteString(o.styleFor(o.runStyle).Render(text))
	o.cursorX += runewidth.StringWidth(text)

	o.run.Reset()
	o.hasRun = false
}

func (o *Output) moveTo(x, y int) {
	fmt.Fprintf(&o.buf, termenv.CSI+termenv.CursorPositionSeq, y+1, x+1)
	o.cursorX, o.cursorY, o.cursorKnown = x, y, true
}

func (o *Output) styleFor(ts canvas.TextStyle) lipgloss.Style {
	if s, ok := o.styles[ts]; ok {
		return s
	}
	s := o.renderer.NewStyle().Bold(ts.Bold).Underline(ts.Underline)
	if !ts.Fg.IsDefault() {
		s = s.Foreground(lipgloss.Color(ts.Fg.String()))
	}
	if !ts.Bg.IsDefault() {
		s = s.Background(lipgloss.Color(ts.Bg.String()))
	}
	o.styles[ts] = s
	return s
}

// HideCursor queues the sequence that hides the terminal cursor.
func (o *Output) HideCursor() {
	o.Write(termenv.CSI + termenv.HideCursorSeq)
}

// ShowCursor queues the sequence that shows the terminal cursor.
func (o *Output) ShowCursor() {
	o.Write(termenv.CSI + termenv.ShowCursorSeq)
}

// Clear discards everything buffered and queues an erase of the whole screen.
func (o *Output) Clear() {
	o.run.Reset()
	o.hasRun = false
	o.buf.Reset()
	fmt.Fprintf(&o.buf, termenv.CSI+termenv.EraseDisplaySeq, 2)
	o.moveTo(0, 0)
}

// Buffered returns the number of bytes waiting to be flushed.
func (o *Output) Buffered() int {
	return o.buf.Len() + o.run.Len()
}

// Flush writes the buffered bytes to the underlying writer.
func (o *Output) Flush() error {
	o.flushRun()
	if o.buf.Len() == 0 {
		return nil
	}
	_, err := o.w.Write(o.buf.Bytes())
	o.buf.Reset()
	if err != nil {
		o.cursorKnown = false
		return fmt.Errorf("failed to flush terminal output: %w", err)
	}
	return nil
}
