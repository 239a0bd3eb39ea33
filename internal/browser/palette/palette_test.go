package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Color
		ok    bool
	}{
		{"red", ANSI(9), true},
		{"  Navy ", ANSI(4), true},
		{"grey", ANSI(8), true},
		{"orange", RGB(255, 165, 0), true},
		{"transparent", Default, true},
		{"#fff", RGB(255, 255, 255), true},
		{"#1a2B3c", RGB(0x1a, 0x2b, 0x3c), true},
		{"#12", Color{}, false},
		{"#ggg", Color{}, false},
		{"rgb(10, 20, 30)", RGB(10, 20, 30), true},
		{"rgb(10 20 30)", RGB(10, 20, 30), true},
		{"rgba(300, -5, 0, 0.5)", RGB(255, 0, 0), true},
		{"rgb(100%, 50%, 0%)", RGB(255, 128, 0), true},
		{"rgb(1, 2)", Color{}, false},
		{"rgb(a, b, c)", Color{}, false},
		{"ansi(208)", ANSI(208), true},
		{"ansi(256)", Color{}, false},
		{"ansi(x)", Color{}, false},
		{"hsl(0, 100%, 50%)", Color{}, false},
		{"", Color{}, false},
		{"notacolor", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "", Default.String())
	assert.True(t, Default.IsDefault())
	assert.Equal(t, "9", ANSI(9).String())
	assert.Equal(t, "#0a141e", RGB(10, 20, 30).String())
	assert.False(t, RGB(0, 0, 0).IsDefault())
}
