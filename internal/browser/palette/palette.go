// internal/browser/palette/palette.go
package palette

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies how a Color is addressed on the terminal.
type Kind uint8

const (
	// KindDefault is the terminal's own foreground or background.
	KindDefault Kind = iota
	// KindANSI addresses the 256 entry indexed palette.
	KindANSI
	// KindRGB is a 24-bit color, downsampled by the output profile.
	KindRGB
)

// Color is a terminal color. The zero value is the terminal default.
type Color struct {
	Kind    Kind
	Index   uint8
	R, G, B uint8
}

// Default is the terminal's default color.
var Default = Color{}

// ANSI returns an indexed palette color.
func ANSI(index uint8) Color {
	return Color{Kind: KindANSI, Index: index}
}

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: KindRGB, R: r, G: g, B: b}
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool { return c.Kind == KindDefault }

// String renders c in the form lipgloss.Color understands: "" for the
// default, the decimal index for palette colors and #rrggbb otherwise.
func (c Color) String() string {
	switch c.Kind {
	case KindANSI:
		return strconv.Itoa(int(c.Index))
	case KindRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return ""
	}
}

// namedColors maps the CSS basic keywords onto the 16 color ANSI palette, in
// xterm order, so pages honor the user's terminal theme. Extended keywords
// keep their RGB value.
var namedColors = map[string]Color{
	"black":   ANSI(0),
	"maroon":  ANSI(1),
	"green":   ANSI(2),
	"olive":   ANSI(3),
	"navy":    ANSI(4),
	"purple":  ANSI(5),
	"teal":    ANSI(6),
	"silver":  ANSI(7),
	"gray":    ANSI(8),
	"grey":    ANSI(8),
	"red":     ANSI(9),
	"lime":    ANSI(10),
	"yellow":  ANSI(11),
	"blue":    ANSI(12),
	"fuchsia": ANSI(13),
	"magenta": ANSI(13),
	"aqua":    ANSI(14),
	"cyan":    ANSI(14),
	"white":   ANSI(15),

	"orange":      RGB(255, 165, 0),
	"pink":        RGB(255, 192, 203),
	"brown":       RGB(165, 42, 42),
	"gold":        RGB(255, 215, 0),
	"indigo":      RGB(75, 0, 130),
	"violet":      RGB(238, 130, 238),
	"coral":       RGB(255, 127, 80),
	"salmon":      RGB(250, 128, 114),
	"tomato":      RGB(255, 99, 71),
	"crimson":     RGB(220, 20, 60),
	"khaki":       RGB(240, 230, 140),
	"tan":         RGB(210, 180, 140),
	"beige":       RGB(245, 245, 220),
	"ivory":       RGB(255, 255, 240),
	"lavender":    RGB(230, 230, 250),
	"turquoise":   RGB(64, 224, 208),
	"skyblue":     RGB(135, 206, 235),
	"steelblue":   RGB(70, 130, 180),
	"royalblue":   RGB(65, 105, 225),
	"slategray":   RGB(112, 128, 144),
	"darkgray":    RGB(169, 169, 169),
	"darkgrey":    RGB(169, 169, 169),
	"lightgray":   RGB(211, 211, 211),
	"lightgrey":   RGB(211, 211, 211),
	"darkred":     RGB(139, 0, 0),
	"darkgreen":   RGB(0, 100, 0),
	"darkblue":    RGB(0, 0, 139),
	"orangered":   RGB(255, 69, 0),
	"seagreen":    RGB(46, 139, 87),
	"chocolate":   RGB(210, 105, 30),
	"whitesmoke":  RGB(245, 245, 245),
	"yellowgreen": RGB(154, 205, 50),

	"transparent": Default,
	"default":     Default,
}

// Parse parses a CSS color value: a keyword, #rgb, #rrggbb, rgb(r, g, b)
// with integer or percentage channels, or the terminal specific ansi(n).
func Parse(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Color{}, false
	}

	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if args, ok := functionArgs(s, "rgb"); ok {
		return parseRGB(args)
	}
	if args, ok := functionArgs(s, "rgba"); ok {
		return parseRGB(args)
	}
	if args, ok := functionArgs(s, "ansi"); ok && len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n > 255 {
			return Color{}, false
		}
		return ANSI(uint8(n)), true
	}
	return Color{}, false
}

func parseHex(hex string) (Color, bool) {
	var digits [6]byte
	switch len(hex) {
	case 3:
		for i := 0; i < 3; i++ {
			digits[2*i], digits[2*i+1] = hex[i], hex[i]
		}
	case 6:
		copy(digits[:], hex)
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(string(digits[:]), 16, 32)
	if err != nil {
		return Color{}, false
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// functionArgs splits "name(a, b c)" into its arguments. Commas and spaces both separate.
func functionArgs(s, name string) ([]string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	inner := s[len(name)+1 : len(s)-1]
	args := strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	})
	return args, true
}

func parseRGB(args []string) (Color, bool) {
	// A fourth alpha channel is accepted and ignored.
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(args[i])
		if !ok {
			return Color{}, false
		}
		ch[i] = v
	}
	return RGB(ch[0], ch[1], ch[2]), true
}

func parseChannel(arg string) (uint8, bool) {
	if strings.HasSuffix(arg, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clampChannel(f * 255 / 100), true
	}
	f, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, false
	}
	return clampChannel(f), true
}

func clampChannel(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	default:
		return uint8(f + 0.5)
	}
}
