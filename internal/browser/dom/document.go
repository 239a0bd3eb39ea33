// internal/browser/dom/document.go
package dom

import (
	"strings"
)

// NodeID addresses a node inside its Document's arena.
type NodeID int32

// NoNode is the parent of the root and the result of failed lookups.
const NoNode NodeID = -1

// NodeType distinguishes elements from text.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
)

// Attribute is a single element attribute. Keys are lower-cased.
type Attribute struct {
	Key string
	Val string
}

// Attr is a convenience constructor for Attribute.
func Attr(key, val string) Attribute {
	return Attribute{Key: strings.ToLower(key), Val: val}
}

// Node is one entry of the arena. Parent is a lookup index only; the
// Document owns every node.
type Node struct {
	Type     NodeType
	Tag      string
	Attrs    []Attribute
	Text     string
	Parent   NodeID
	Children []NodeID
}

// Document is an element tree stored as an arena of nodes.
// It is read-only once handed to the render pipeline.
type Document struct {
	nodes []Node
	root  NodeID
}

// NewDocument returns an empty document with no root.
func NewDocument() *Document {
	return &Document{root: NoNode}
}

// Len returns the number of nodes in the arena.
func (d *Document) Len() int { return len(d.nodes) }

// Root returns the document element, or NoNode for an empty document.
func (d *Document) Root() NodeID { return d.root }

// SetRoot designates the document element.
func (d *Document) SetRoot(id NodeID) {
	if d.valid(id) {
		d.root = id
	}
}

// CreateElement adds a detached element. Duplicate attribute keys keep the first value.
func (d *Document) CreateElement(tag string, attrs ...Attribute) NodeID {
	n := Node{Type: ElementNode, Tag: strings.ToLower(tag), Parent: NoNode}
	for _, a := range attrs {
		a.Key = strings.ToLower(a.Key)
		if !hasAttr(n.Attrs, a.Key) {
			n.Attrs = append(n.Attrs, a)
		}
	}
	return d.add(n)
}

// CreateText adds a detached text node.
func (d *Document) CreateText(text string) NodeID {
	return d.add(Node{Type: TextNode, Text: text, Parent: NoNode})
}

// AppendChild attaches child as the last child of parent. Attaching an
// already attached node, an ancestor of parent, or anything to a text node
// is ignored, so the document stays a tree.
func (d *Document) AppendChild(parent, child NodeID) {
	if !d.valid(parent) || !d.valid(child) {
		return
	}
	if d.nodes[parent].Type != ElementNode || d.nodes[child].Parent != NoNode || child == d.root {
		return
	}
	for id := parent; id != NoNode; id = d.nodes[id].Parent {
		if id == child {
			return
		}
	}
	d.nodes[child].Parent = parent
	d.nodes[parent].Children = append(d.nodes[parent].Children, child)
}

func (d *Document) add(n Node) NodeID {
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

// Node returns the node for id. The returned value must not be mutated.
func (d *Document) Node(id NodeID) (*Node, bool) {
	if !d.valid(id) {
		return nil, false
	}
	return &d.nodes[id], true
}

// IsElement reports whether id addresses an element.
func (d *Document) IsElement(id NodeID) bool {
	return d.valid(id) && d.nodes[id].Type == ElementNode
}

// Tag returns the lower-cased tag name, or "" for text nodes.
func (d *Document) Tag(id NodeID) string {
	if !d.IsElement(id) {
		return ""
	}
	return d.nodes[id].Tag
}

// Text returns the raw content of a text node.
func (d *Document) Text(id NodeID) string {
	if !d.valid(id) || d.nodes[id].Type != TextNode {
		return ""
	}
	return d.nodes[id].Text
}

// Parent returns the parent index, or NoNode.
func (d *Document) Parent(id NodeID) NodeID {
	if !d.valid(id) {
		return NoNode
	}
	return d.nodes[id].Parent
}

// Children returns the ordered children of id.
func (d *Document) Children(id NodeID) []NodeID {
	if !d.valid(id) {
		return nil
	}
	return d.nodes[id].Children
}

// Attribute returns the value of the named attribute.
func (d *Document) Attribute(id NodeID, key string) (string, bool) {
	if !d.IsElement(id) {
		return "", false
	}
	key = strings.ToLower(key)
	for _, a := range d.nodes[id].Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// ElementID returns the id attribute.
func (d *Document) ElementID(id NodeID) string {
	v, _ := d.Attribute(id, "id")
	return v
}

// Classes returns the whitespace separated entries of the class attribute.
func (d *Document) Classes(id NodeID) []string {
	v, _ := d.Attribute(id, "class")
	return strings.Fields(v)
}

// HasClass reports whether the class attribute lists name.
func (d *Document) HasClass(id NodeID, name string) bool {
	for _, c := range d.Classes(id) {
		if c == name {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants in document order. Returning false
// from fn skips the children of the visited node.
func (d *Document) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	d.walk(id, 0, fn)
}

func (d *Document) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !d.valid(id) {
		return
	}
	if !fn(id, depth) {
		return
	}
	for _, c := range d.nodes[id].Children {
		d.walk(c, depth+1, fn)
	}
}

// Elements returns every element reachable from the root in document order.
func (d *Document) Elements() []NodeID {
	var out []NodeID
	d.Walk(d.root, func(id NodeID, _ int) bool {
		if d.nodes[id].Type == ElementNode {
			out = append(out, id)
		}
		return true
	})
	return out
}

// GetElementsByTagName returns matching elements in document order. "*" matches all.
func (d *Document) GetElementsByTagName(tag string) []NodeID {
	tag = strings.ToLower(tag)
	var out []NodeID
	for _, id := range d.Elements() {
		if tag == "*" || d.nodes[id].Tag == tag {
			out = append(out, id)
		}
	}
	return out
}

// TextContent concatenates every descendant text node of id.
func (d *Document) TextContent(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	if d.nodes[id].Type == TextNode {
		return d.nodes[id].Text
	}
	var sb strings.Builder
	d.Walk(id, func(n NodeID, _ int) bool {
		if d.nodes[n].Type == TextNode {
			sb.WriteString(d.nodes[n].Text)
		}
		return true
	})
	return sb.String()
}

// Title returns the whitespace-collapsed text of the first <title> element.
func (d *Document) Title() string {
	titles := d.GetElementsByTagName("title")
	if len(titles) == 0 {
		return ""
	}
	return strings.Join(strings.Fields(d.TextContent(titles[0])), " ")
}

// Body returns the first <body> element, or NoNode.
func (d *Document) Body() NodeID {
	bodies := d.GetElementsByTagName("body")
	if len(bodies) == 0 {
		return NoNode
	}
	return bodies[0]
}

func hasAttr(attrs []Attribute, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}
