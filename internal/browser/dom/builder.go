// internal/browser/dom/builder.go
package dom

// Builder assembles a Document with open/close calls, mirroring the way a
// tree builder consumes start and end tags.
type Builder struct {
	doc   *Document
	stack []NodeID
}

// NewBuilder returns a Builder over a fresh document.
func NewBuilder() *Builder {
	return &Builder{doc: NewDocument()}
}

// Open creates an element under the current one and makes it current.
// The first element opened becomes the root.
func (b *Builder) Open(tag string, attrs ...Attribute) *Builder {
	id := b.doc.CreateElement(tag, attrs...)
	if len(b.stack) == 0 {
		if b.doc.root == NoNode {
			b.doc.SetRoot(id)
		}
	} else {
		b.doc.AppendChild(b.stack[len(b.stack)-1], id)
	}
	b.stack = append(b.stack, id)
	return b
}

// Text appends a text node to the current element.
func (b *Builder) Text(text string) *Builder {
	if len(b.stack) == 0 {
		return b
	}
	id := b.doc.CreateText(text)
	b.doc.AppendChild(b.stack[len(b.stack)-1], id)
	return b
}

// Close pops the current element.
func (b *Builder) Close() *Builder {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return b
}

// Current returns the element being built, or NoNode.
func (b *Builder) Current() NodeID {
	if len(b.stack) == 0 {
		return NoNode
	}
	return b.stack[len(b.stack)-1]
}

// Document returns the built document. Unclosed elements are implicitly closed.
func (b *Builder) Document() *Document {
	b.stack = nil
	return b.doc
}
