// internal/browser/dom/html.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Parse reads an HTML document and converts it into an arena Document.
// Comments, doctypes and processing instructions are dropped; text is
// normalized to NFC so combining sequences occupy a single cell.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	doc := NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			doc.SetRoot(convert(doc, c))
			break
		}
	}
	return doc, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func convert(doc *Document, n *html.Node) NodeID {
	attrs := make([]Attribute, 0, len(n.Attr))
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		attrs = append(attrs, Attr(a.Key, a.Val))
	}
	id := doc.CreateElement(n.Data, attrs...)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			doc.AppendChild(id, convert(doc, c))
		case html.TextNode:
			doc.AppendChild(id, doc.CreateText(norm.NFC.String(c.Data)))
		}
	}
	return id
}
