// internal/browser/style/computed.go
package style

import (
	"github.com/xkilldash9x/termrender/internal/browser/palette"
	"github.com/xkilldash9x/termrender/internal/browser/parser"
)

// Display is the outer display type of an element.
type Display uint8

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayNone
)

func (d Display) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayNone:
		return "none"
	default:
		return "inline"
	}
}

// DimensionKind tags the variant held by a Dimension.
type DimensionKind uint8

const (
	Auto DimensionKind = iota
	Length
	Percent
)

// Dimension is Auto, a Length in cells, or a Percent of the containing block's width.
type Dimension struct {
	Kind  DimensionKind
	Value int
}

// AutoDimension is the auto keyword.
var AutoDimension = Dimension{Kind: Auto}

// Cells returns a Length dimension of n cells.
func Cells(n int) Dimension { return Dimension{Kind: Length, Value: n} }

// Pct returns a Percent dimension.
func Pct(n int) Dimension { return Dimension{Kind: Percent, Value: n} }

// IsAuto reports whether d is the auto keyword.
func (d Dimension) IsAuto() bool { return d.Kind == Auto }

// Resolve converts d to cells against a containing width. Percentages are
// floored. The boolean is false for auto.
func (d Dimension) Resolve(containing int) (int, bool) {
	switch d.Kind {
	case Length:
		return d.Value, true
	case Percent:
		return floorDiv(containing*d.Value, 100), true
	default:
		return 0, false
	}
}

// EdgeInsets holds one value per box side.
type EdgeInsets[T any] struct {
	Top, Right, Bottom, Left T
}

// Uniform returns insets with the same value on every side.
func Uniform[T any](v T) EdgeInsets[T] {
	return EdgeInsets[T]{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle selects the glyph set used to draw a border side.
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderSolid
	BorderDouble
	BorderDashed
	BorderHeavy
)

// TextAlign positions line fragments inside their line box.
type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Visibility controls painting without affecting layout.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
)

// WhiteSpace controls whitespace collapsing and wrapping.
type WhiteSpace uint8

const (
	WhiteSpaceNormal WhiteSpace = iota
	WhiteSpacePre
)

// ComputedStyle is the resolved value of every supported property for one
// element. It is a value type; the resolver never hands out shared mutable state.
type ComputedStyle struct {
	Display Display
	Width   Dimension
	Height  Dimension

	Margin  EdgeInsets[Dimension]
	Padding EdgeInsets[Dimension]

	// BorderWidth is 0 or 1 cell per side; it only takes effect where
	// BorderStyle is not BorderNone.
	BorderWidth EdgeInsets[int]
	BorderStyle EdgeInsets[BorderStyle]
	BorderColor palette.Color

	Color           palette.Color
	BackgroundColor palette.Color
	Bold            bool
	Underline       bool
	TextAlign       TextAlign
	Visibility      Visibility
	WhiteSpace      WhiteSpace

	// Unrecognized keeps declarations of unsupported properties, last one
	// per property. They never influence layout or paint.
	Unrecognized []parser.Declaration
}

// Initial returns the initial value of every property.
func Initial() ComputedStyle {
	return ComputedStyle{
		Display:     DisplayInline,
		Width:       AutoDimension,
		Height:      AutoDimension,
		Margin:      Uniform(Cells(0)),
		Padding:     Uniform(Cells(0)),
		BorderWidth: Uniform(1),
		BorderStyle: Uniform(BorderNone),
	}
}

// inherit copies the inherited properties of parent into cs.
func (cs *ComputedStyle) inherit(parent *ComputedStyle) {
	cs.Color = parent.Color
	cs.Bold = parent.Bold
	cs.Underline = parent.Underline
	cs.TextAlign = parent.TextAlign
	cs.Visibility = parent.Visibility
	cs.WhiteSpace = parent.WhiteSpace
}

// Border returns the used border width of each side.
func (cs ComputedStyle) Border() EdgeInsets[int] {
	used := func(w int, s BorderStyle) int {
		if s == BorderNone || w <= 0 {
			return 0
		}
		return 1
	}
	return EdgeInsets[int]{
		Top:    used(cs.BorderWidth.Top, cs.BorderStyle.Top),
		Right:  used(cs.BorderWidth.Right, cs.BorderStyle.Right),
		Bottom: used(cs.BorderWidth.Bottom, cs.BorderStyle.Bottom),
		Left:   used(cs.BorderWidth.Left, cs.BorderStyle.Left),
	}
}

// Unknown returns the retained value of an unsupported property.
func (cs ComputedStyle) Unknown(prop string) (string, bool) {
	for _, d := range cs.Unrecognized {
		if string(d.Property) == prop {
			return string(d.Value), true
		}
	}
	return "", false
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
