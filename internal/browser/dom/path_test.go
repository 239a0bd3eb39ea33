package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/termrender/internal/browser/dom"
)

const testHTML = `
	<html>
	<body>
		<div id="header">
			<h1>Welcome</h1>
		</div>
		<div class="content">
			<p>P1</p><p>P2</p>
			<ul>
				<li>Item 1</li>
				<!-- comment -->
				<li>Item 2</li>
				<li id="special">Item 3</li>
			</ul>
		</div>
		<div class="content"><p>P3</p></div>
	</body>
	</html>
	`

func TestPath(t *testing.T) {
	doc, err := dom.ParseString(testHTML)
	require.NoError(t, err)

	ps := doc.GetElementsByTagName("p")
	require.Len(t, ps, 3)
	lis := doc.GetElementsByTagName("li")
	require.Len(t, lis, 3)

	tests := []struct {
		name     string
		node     dom.NodeID
		expected string
	}{
		{"Root", doc.Root(), "/html[1]"},
		{"Body", doc.Body(), "/html[1]/body[1]"},
		{"Element with ID", doc.GetElementsByTagName("div")[0], `//*[@id='header']`},
		{"Child of ID element", doc.GetElementsByTagName("h1")[0], `//*[@id='header']/h1[1]`},
		{"Specific index", ps[1], "/html[1]/body[1]/div[2]/p[2]"},
		{"Ambiguous classes", ps[2], "/html[1]/body[1]/div[3]/p[1]"},
		{"List item skipping comments", lis[1], "/html[1]/body[1]/div[2]/ul[1]/li[2]"},
		{"List item with ID", lis[2], `//*[@id='special']`},
		{"Text node", doc.Children(ps[0])[0], "/html[1]/body[1]/div[2]/p[1]/text()"},
		{"Invalid", dom.NoNode, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, doc.Path(tt.node))
		})
	}
}
