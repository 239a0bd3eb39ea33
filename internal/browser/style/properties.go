// internal/browser/style/properties.go
package style

import (
	"github.com/xkilldash9x/termrender/internal/browser/parser"
)

// property describes how one supported property (or shorthand) is applied.
type property struct {
	// apply parses value into cs, reporting false when the value is invalid.
	apply func(cs *ComputedStyle, value string) bool
	// copy transfers the property's computed value(s) from src into dst; used
	// for the inherit and initial keywords.
	copy func(dst, src *ComputedStyle)
}

// properties is the closed set of properties the resolver understands.
var properties = map[parser.Property]property{
	"display": {
		apply: func(cs *ComputedStyle, v string) bool {
			d, ok := parseDisplay(v)
			if ok {
				cs.Display = d
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.Display = src.Display },
	},
	"width":  dimensionProperty(func(cs *ComputedStyle) *Dimension { return &cs.Width }),
	"height": dimensionProperty(func(cs *ComputedStyle) *Dimension { return &cs.Height }),

	"margin":        boxShorthand(func(cs *ComputedStyle) *EdgeInsets[Dimension] { return &cs.Margin }, parseDimension),
	"margin-top":    dimensionProperty(func(cs *ComputedStyle) *Dimension { return &cs.Margin.Top }),
	"margin-right":  dimensionProperty(func(cs *ComputedStyle) *Dimension { return &cs.Margin.Right }),
	"margin-bottom": dimensionProperty(func(cs *ComputedStyle) *Dimension { return &cs.Margin.Bottom }),
	"margin-left":   dimensionProperty(func(cs *ComputedStyle) *Dimension { return &cs.Margin.Left }),

	"padding":        boxShorthand(func(cs *ComputedStyle) *EdgeInsets[Dimension] { return &cs.Padding }, ParseLength),
	"padding-top":    lengthProperty(func(cs *ComputedStyle) *Dimension { return &cs.Padding.Top }),
	"padding-right":  lengthProperty(func(cs *ComputedStyle) *Dimension { return &cs.Padding.Right }),
	"padding-bottom": lengthProperty(func(cs *ComputedStyle) *Dimension { return &cs.Padding.Bottom }),
	"padding-left":   lengthProperty(func(cs *ComputedStyle) *Dimension { return &cs.Padding.Left }),

	"border-width": boxShorthand(func(cs *ComputedStyle) *EdgeInsets[int] { return &cs.BorderWidth }, parseBorderWidth),
	"border-style": boxShorthand(func(cs *ComputedStyle) *EdgeInsets[BorderStyle] { return &cs.BorderStyle }, parseBorderStyle),
	"border-color": {
		apply: func(cs *ComputedStyle, v string) bool {
			// Border sides share a single color on the grid; the first value wins.
			fields := splitTopLevel(v)
			if len(fields) == 0 || len(fields) > 4 {
				return false
			}
			c, ok := parseColor(fields[0])
			if ok {
				cs.BorderColor = c
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.BorderColor = src.BorderColor },
	},
	"border": {
		apply: func(cs *ComputedStyle, v string) bool {
			b, ok := parseBorderShorthand(v)
			if !ok {
				return false
			}
			cs.BorderWidth = Uniform(b.width)
			cs.BorderStyle = Uniform(b.style)
			cs.BorderColor = b.color
			return true
		},
		copy: func(dst, src *ComputedStyle) {
			dst.BorderWidth = src.BorderWidth
			dst.BorderStyle = src.BorderStyle
			dst.BorderColor = src.BorderColor
		},
	},
	"border-top":    borderSide(func(cs *ComputedStyle) (*int, *BorderStyle) { return &cs.BorderWidth.Top, &cs.BorderStyle.Top }),
	"border-right":  borderSide(func(cs *ComputedStyle) (*int, *BorderStyle) { return &cs.BorderWidth.Right, &cs.BorderStyle.Right }),
	"border-bottom": borderSide(func(cs *ComputedStyle) (*int, *BorderStyle) { return &cs.BorderWidth.Bottom, &cs.BorderStyle.Bottom }),
	"border-left":   borderSide(func(cs *ComputedStyle) (*int, *BorderStyle) { return &cs.BorderWidth.Left, &cs.BorderStyle.Left }),

	"border-top-width":    sideWidth(func(cs *ComputedStyle) *int { return &cs.BorderWidth.Top }),
	"border-right-width":  sideWidth(func(cs *ComputedStyle) *int { return &cs.BorderWidth.Right }),
	"border-bottom-width": sideWidth(func(cs *ComputedStyle) *int { return &cs.BorderWidth.Bottom }),
	"border-left-width":   sideWidth(func(cs *ComputedStyle) *int { return &cs.BorderWidth.Left }),

	"border-top-style":    sideStyle(func(cs *ComputedStyle) *BorderStyle { return &cs.BorderStyle.Top }),
	"border-right-style":  sideStyle(func(cs *ComputedStyle) *BorderStyle { return &cs.BorderStyle.Right }),
	"border-bottom-style": sideStyle(func(cs *ComputedStyle) *BorderStyle { return &cs.BorderStyle.Bottom }),
	"border-left-style":   sideStyle(func(cs *ComputedStyle) *BorderStyle { return &cs.BorderStyle.Left }),

	"color": {
		apply: func(cs *ComputedStyle, v string) bool {
			c, ok := parseColor(v)
			if ok {
				cs.Color = c
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.Color = src.Color },
	},
	"background-color": {
		apply: func(cs *ComputedStyle, v string) bool {
			c, ok := parseColor(v)
			if ok {
				cs.BackgroundColor = c
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.BackgroundColor = src.BackgroundColor },
	},
	"background": {
		apply: func(cs *ComputedStyle, v string) bool {
			c, ok := parseBackground(v)
			if ok {
				cs.BackgroundColor = c
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.BackgroundColor = src.BackgroundColor },
	},
	"font-weight": {
		apply: func(cs *ComputedStyle, v string) bool {
			b, ok := parseFontWeight(v)
			if ok {
				cs.Bold = b
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.Bold = src.Bold },
	},
	"text-decoration":      textDecoration(),
	"text-decoration-line": textDecoration(),
	"text-align": {
		apply: func(cs *ComputedStyle, v string) bool {
			a, ok := parseTextAlign(v)
			if ok {
				cs.TextAlign = a
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.TextAlign = src.TextAlign },
	},
	"visibility": {
		apply: func(cs *ComputedStyle, v string) bool {
			vis, ok := parseVisibility(v)
			if ok {
				cs.Visibility = vis
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.Visibility = src.Visibility },
	},
	"white-space": {
		apply: func(cs *ComputedStyle, v string) bool {
			ws, ok := parseWhiteSpace(v)
			if ok {
				cs.WhiteSpace = ws
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.WhiteSpace = src.WhiteSpace },
	},
}

func dimensionProperty(field func(*ComputedStyle) *Dimension) property {
	return property{
		apply: func(cs *ComputedStyle, v string) bool {
			d, ok := parseDimension(v)
			if ok {
				*field(cs) = d
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { *field(dst) = *field(src) },
	}
}

// lengthProperty is dimensionProperty without the auto keyword.
func lengthProperty(field func(*ComputedStyle) *Dimension) property {
	return property{
		apply: func(cs *ComputedStyle, v string) bool {
			d, ok := ParseLength(v)
			if ok {
				*field(cs) = d
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { *field(dst) = *field(src) },
	}
}

// boxShorthand builds a 1 to 4 value shorthand. Either every side parses or
// the declaration is ignored.
func boxShorthand[T any](field func(*ComputedStyle) *EdgeInsets[T], parse func(string) (T, bool)) property {
	return property{
		apply: func(cs *ComputedStyle, v string) bool {
			parts, ok := expandBox(v)
			if !ok {
				return false
			}
			var vals [4]T
			for i, p := range parts {
				if vals[i], ok = parse(p); !ok {
					return false
				}
			}
			*field(cs) = EdgeInsets[T]{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
			return true
		},
		copy: func(dst, src *ComputedStyle) { *field(dst) = *field(src) },
	}
}

func borderSide(field func(*ComputedStyle) (*int, *BorderStyle)) property {
	return property{
		apply: func(cs *ComputedStyle, v string) bool {
			b, ok := parseBorderShorthand(v)
			if !ok {
				return false
			}
			w, s := field(cs)
			*w, *s = b.width, b.style
			if b.hasColor {
				cs.BorderColor = b.color
			}
			return true
		},
		copy: func(dst, src *ComputedStyle) {
			dw, ds := field(dst)
			sw, ss := field(src)
			*dw, *ds = *sw, *ss
		},
	}
}

func sideWidth(field func(*ComputedStyle) *int) property {
	return property{
		apply: func(cs *ComputedStyle, v string) bool {
			w, ok := parseBorderWidth(v)
			if ok {
				*field(cs) = w
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { *field(dst) = *field(src) },
	}
}

func sideStyle(field func(*ComputedStyle) *BorderStyle) property {
	return property{
		apply: func(cs *ComputedStyle, v string) bool {
			s, ok := parseBorderStyle(v)
			if ok {
				*field(cs) = s
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { *field(dst) = *field(src) },
	}
}

func textDecoration() property {
	return property{
		apply: func(cs *ComputedStyle, v string) bool {
			u, ok := parseTextDecoration(v)
			if ok {
				cs.Underline = u
			}
			return ok
		},
		copy: func(dst, src *ComputedStyle) { dst.Underline = src.Underline },
	}
}
