// internal/browser/layout/dump.go
package layout

import (
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/xlab/treeprint"
)

// Dump renders the layout tree as an indented text tree for debugging.
func Dump(root *LayoutBox) string {
	if root == nil {
		return ""
	}
	tree := treeprint.NewWithRoot(root.label())
	dumpChildren(tree, root)
	return tree.String()
}

func dumpChildren(tree treeprint.Tree, box *LayoutBox) {
	for _, line := range box.Lines {
		branch := tree.AddBranch(fmt.Sprintf("line y=%d", line.Y))
		for _, f := range line.Fragments {
			branch.AddNode(fmt.Sprintf("%q x=%d w=%d", f.Text, f.X, f.Width))
		}
	}
	for _, child := range box.Children {
		if len(child.Children) == 0 && len(child.Lines) == 0 {
			tree.AddNode(child.label())
			continue
		}
		dumpChildren(tree.AddBranch(child.label()), child)
	}
}

func (box *LayoutBox) label() string {
	name := box.Tag
	if name == "" {
		name = "(" + box.BoxType.String() + ")"
	} else if box.BoxType != AnonymousBox {
		name = fmt.Sprintf("%s %s", name, box.BoxType)
	}
	c := box.Dimensions.Content
	return fmt.Sprintf("%s [%d,%d %dx%d]", name, c.X, c.Y, c.Width, c.Height)
}

// exportedBox is the JSON shape of a LayoutBox.
type exportedBox struct {
	Type     string         `json:"type"`
	Tag      string         `json:"tag,omitempty"`
	Node     int32          `json:"node"`
	Text     string         `json:"text,omitempty"`
	Content  Rect           `json:"content"`
	Padding  Edges          `json:"padding"`
	Border   Edges          `json:"border"`
	Margin   Edges          `json:"margin"`
	Lines    []exportedLine `json:"lines,omitempty"`
	Children []exportedBox  `json:"children,omitempty"`
}

type exportedLine struct {
	Y         int                `json:"y"`
	Fragments []exportedFragment `json:"fragments"`
}

type exportedFragment struct {
	Text  string `json:"text"`
	X     int    `json:"x"`
	Width int    `json:"width"`
	Node  int32  `json:"node"`
}

// ExportJSON serializes the geometry of the layout tree.
func ExportJSON(root *LayoutBox) ([]byte, error) {
	if root == nil {
		return []byte("null"), nil
	}
	data, err := json.MarshalIndent(export(root), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export layout tree: %w", err)
	}
	return data, nil
}

func export(box *LayoutBox) exportedBox {
	out := exportedBox{
		Type:    box.BoxType.String(),
		Tag:     box.Tag,
		Node:    int32(box.Node),
		Text:    box.Text,
		Content: box.Dimensions.Content,
		Padding: box.Dimensions.Padding,
		Border:  box.Dimensions.Border,
		Margin:  box.Dimensions.Margin,
	}
	for _, line := range box.Lines {
		el := exportedLine{Y: line.Y, Fragments: make([]exportedFragment, 0, len(line.Fragments))}
		for _, f := range line.Fragments {
			el.Fragments = append(el.Fragments, exportedFragment{Text: f.Text, X: f.X, Width: f.Width, Node: int32(f.Node)})
		}
		out.Lines = append(out.Lines, el)
	}
	for _, child := range box.Children {
		out.Children = append(out.Children, export(child))
	}
	return out
}
