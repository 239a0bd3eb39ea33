// internal/browser/style/values.go
package style

import (
	"math"
	"strconv"
	"strings"

	"github.com/xkilldash9x/termrender/internal/browser/palette"
)

// ParseLength parses a length or percentage onto the character grid.
// px, ch, em, rem and unitless numbers count one cell per unit; fractions
// are floored. Any other unit is rejected.
func ParseLength(value string) (Dimension, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return Dimension{}, false
	}

	num, unit := splitNumber(value)
	if num == "" {
		return Dimension{}, false
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Dimension{}, false
	}
	n := clampInt(math.Floor(f))

	switch unit {
	case "", "px", "ch", "em", "rem":
		return Cells(n), true
	case "%":
		return Pct(n), true
	default:
		return Dimension{}, false
	}
}

// parseDimension accepts auto in addition to lengths.
func parseDimension(value string) (Dimension, bool) {
	if strings.EqualFold(strings.TrimSpace(value), "auto") {
		return AutoDimension, true
	}
	return ParseLength(value)
}

// parseBorderWidth maps a border width onto 0 or 1 cell. Any positive
// width, fractional ones included, draws a one cell border.
func parseBorderWidth(value string) (int, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "thin", "medium", "thick":
		return 1, true
	}
	num, unit := splitNumber(value)
	if num == "" {
		return 0, false
	}
	switch unit {
	case "", "px", "ch", "em", "rem":
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > 0 {
		return 1, true
	}
	return 0, true
}

func parseBorderStyle(value string) (BorderStyle, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none", "hidden":
		return BorderNone, true
	case "solid", "groove", "ridge", "inset", "outset":
		return BorderSolid, true
	case "double":
		return BorderDouble, true
	case "dashed", "dotted":
		return BorderDashed, true
	case "heavy":
		return BorderHeavy, true
	}
	return BorderNone, false
}

func parseColor(value string) (palette.Color, bool) {
	return palette.Parse(value)
}

func parseDisplay(value string) (Display, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return DisplayNone, true
	case "block", "list-item", "flex", "grid", "table", "table-row", "table-row-group",
		"table-header-group", "table-footer-group", "table-caption", "flow-root":
		return DisplayBlock, true
	case "inline", "inline-block", "inline-flex", "inline-grid", "inline-table",
		"table-cell", "contents":
		return DisplayInline, true
	}
	return DisplayInline, false
}

// parseFontWeight reports whether a font-weight value is bold.
func parseFontWeight(value string) (bool, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "bold", "bolder":
		return true, true
	case "normal", "lighter":
		return false, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 1000 {
		return false, false
	}
	return n >= 600, true
}

// parseTextDecoration reports whether a text-decoration value underlines.
func parseTextDecoration(value string) (bool, bool) {
	fields := strings.Fields(strings.ToLower(value))
	if len(fields) == 0 {
		return false, false
	}
	for _, f := range fields {
		if f == "underline" {
			return true, true
		}
	}
	return false, true
}

func parseTextAlign(value string) (TextAlign, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", "start", "justify":
		return AlignLeft, true
	case "center":
		return AlignCenter, true
	case "right", "end":
		return AlignRight, true
	}
	return AlignLeft, false
}

func parseVisibility(value string) (Visibility, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "visible":
		return Visible, true
	case "hidden", "collapse":
		return Hidden, true
	}
	return Visible, false
}

func parseWhiteSpace(value string) (WhiteSpace, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "normal", "nowrap", "pre-line":
		return WhiteSpaceNormal, true
	case "pre", "pre-wrap", "break-spaces":
		return WhiteSpacePre, true
	}
	return WhiteSpaceNormal, false
}

// expandBox expands a 1 to 4 value shorthand into top, right, bottom, left.
func expandBox(value string) ([4]string, bool) {
	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}, true
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}, true
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}, true
	case 4:
		return [4]string{parts[0], parts[1], parts[2], parts[3]}, true
	}
	return [4]string{}, false
}

// borderShorthand holds the components of a border or border-side value.
type borderShorthand struct {
	width    int
	style    BorderStyle
	color    palette.Color
	hasColor bool
}

// parseBorderShorthand parses "<width> || <style> || <color>" in any order.
// Missing width and style reset to medium and none, as in CSS.
func parseBorderShorthand(value string) (borderShorthand, bool) {
	b := borderShorthand{width: 1, style: BorderNone}
	fields := splitTopLevel(value)
	if len(fields) == 0 || len(fields) > 3 {
		return b, false
	}
	var seenWidth, seenStyle bool
	for _, f := range fields {
		if s, ok := parseBorderStyle(f); ok && !seenStyle {
			b.style, seenStyle = s, true
			continue
		}
		if w, ok := parseBorderWidth(f); ok && !seenWidth {
			b.width, seenWidth = w, true
			continue
		}
		if c, ok := parseColor(f); ok && !b.hasColor {
			b.color, b.hasColor = c, true
			continue
		}
		return b, false
	}
	return b, true
}

// parseBackground extracts the color component of the background shorthand.
func parseBackground(value string) (palette.Color, bool) {
	for _, f := range splitTopLevel(value) {
		if c, ok := parseColor(f); ok {
			return c, true
		}
	}
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return palette.Default, true
	}
	return palette.Color{}, false
}

// splitTopLevel splits on whitespace outside parentheses, so rgb(1, 2, 3) stays whole.
func splitTopLevel(value string) []string {
	var out []string
	depth, start := 0, -1
	for i, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			if start >= 0 {
				out = append(out, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, value[start:])
	}
	return out
}

// splitNumber splits "12.5px" into "12.5" and "px".
func splitNumber(value string) (num, unit string) {
	i := 0
	if i < len(value) && (value[i] == '+' || value[i] == '-') {
		i++
	}
	digits := false
	for i < len(value) && (value[i] >= '0' && value[i] <= '9' || value[i] == '.') {
		if value[i] != '.' {
			digits = true
		}
		i++
	}
	if !digits {
		return "", ""
	}
	return value[:i], value[i:]
}

func clampInt(f float64) int {
	const limit = 1 << 30
	switch {
	case f > limit:
		return limit
	case f < -limit:
		return -limit
	}
	return int(f)
}
