// internal/browser/layout/inline.go
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/style"
)

const tabStop = 8

// -- Inline Formatting Context and Line Breaking --

type itemKind uint8

const (
	itemWord itemKind = iota
	itemSpace
	itemBreak
	// itemRun is preformatted text; it never wraps.
	itemRun
)

// inlineItem is one unit of inline content in document order.
type inlineItem struct {
	kind  itemKind
	text  string
	width int
	node  dom.NodeID
	style style.ComputedStyle
	// owners are the inline boxes enclosing the item, outermost first.
	owners []*LayoutBox
	// soft breaks come from block boundaries and never open an empty line.
	soft bool
	// joined words continue the previous word across an element boundary.
	joined bool
	// span is the width of the word run starting at this item.
	span int
}

// layoutInlineFlow breaks the inline content of an anonymous box into line
// boxes. Content.X, Content.Y and Content.Width must already be set.
func (box *LayoutBox) layoutInlineFlow() {
	content := box.Dimensions.Content

	var items []inlineItem
	for _, child := range box.Children {
		items = collectInline(child, nil, content, items)
	}

	joinWords(items)

	lb := &lineBuilder{content: content, avail: max(0, content.Width), align: box.Style.TextAlign}
	for _, item := range items {
		lb.place(item)
	}
	if len(lb.frags) > 0 {
		lb.finishLine()
	}

	box.Lines = lb.lines
	box.Dimensions.Content.Height = len(lb.lines)
}

// collectInline flattens an inline subtree into items. Block boxes nested in
// inline content contribute their text between forced breaks.
func collectInline(box *LayoutBox, owners []*LayoutBox, origin Rect, items []inlineItem) []inlineItem {
	box.Dimensions = Dimensions{Content: Rect{X: origin.X, Y: origin.Y}}
	box.Lines = nil
	chain := append(owners[:len(owners):len(owners)], box)

	switch {
	case box.Tag == "#text":
		return appendText(items, box, chain)
	case box.Tag == "br":
		return append(items, inlineItem{kind: itemBreak, node: box.Node, owners: chain})
	}

	block := box.BoxType == BlockBox
	if block {
		items = append(items, inlineItem{kind: itemBreak, node: box.Node, soft: true})
	}
	for _, child := range box.Children {
		items = collectInline(child, chain, origin, items)
	}
	if block {
		items = append(items, inlineItem{kind: itemBreak, node: box.Node, soft: true})
	}
	return items
}

// joinWords marks words that directly follow another word, as in
// foo<b>bar</b>, and records on the first word of each run the width of the
// whole run so the line breaks before it rather than inside it.
func joinWords(items []inlineItem) {
	start := -1
	for i := range items {
		if items[i].kind != itemWord {
			start = -1
			continue
		}
		if start < 0 {
			start = i
			items[i].span = items[i].width
			continue
		}
		items[i].joined = true
		items[start].span += items[i].width
	}
}

// appendText splits a text node into words and collapsible spaces, or into
// preformatted runs and breaks under white-space: pre.
func appendText(items []inlineItem, box *LayoutBox, owners []*LayoutBox) []inlineItem {
	item := inlineItem{node: box.Node, style: box.Style, owners: owners}

	if box.Style.WhiteSpace == style.WhiteSpacePre {
		text := strings.ReplaceAll(box.Text, "\r", "")
		for i, segment := range strings.Split(text, "\n") {
			if i > 0 {
				br := item
				br.kind = itemBreak
				items = append(items, br)
			}
			if segment == "" {
				continue
			}
			run := item
			run.kind = itemRun
			run.text = expandTabs(segment)
			run.width = utf8.RuneCountInString(run.text)
			items = append(items, run)
		}
		return items
	}

	text := box.Text
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		if isCollapsible(r) {
			end := strings.IndexFunc(text, func(r rune) bool { return !isCollapsible(r) })
			if end < 0 {
				end = len(text)
			}
			space := item
			space.kind = itemSpace
			space.text = " "
			space.width = 1
			items = append(items, space)
			text = text[end:]
			continue
		}
		end := strings.IndexFunc(text[size:], isCollapsible)
		if end < 0 {
			end = len(text)
		} else {
			end += size
		}
		word := item
		word.kind = itemWord
		word.text = text[:end]
		word.width = utf8.RuneCountInString(word.text)
		items = append(items, word)
		text = text[end:]
	}
	return items
}

// isCollapsible reports whether r is document whitespace. No-break spaces
// are content.
func isCollapsible(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabStop - col%tabStop
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

// lineBuilder places items greedily. Fragment X offsets are relative to the
// line start until the line is finished.
type lineBuilder struct {
	content Rect
	avail   int
	align   style.TextAlign

	lines      []LineBox
	frags      []Fragment
	fragOwners [][]*LayoutBox
	x          int
	pending    *inlineItem
}

func (lb *lineBuilder) place(item inlineItem) {
	switch item.kind {
	case itemBreak:
		if item.soft && len(lb.frags) == 0 {
			lb.pending = nil
			return
		}
		lb.finishLine()
	case itemSpace:
		// Spaces at the start of a line vanish; runs collapse to the first.
		if lb.x > 0 && lb.pending == nil {
			lb.pending = &item
		}
	case itemWord:
		if item.joined {
			lb.appendText(item, item.text, item.width)
			return
		}
		need := item.span
		if lb.pending != nil {
			need++
		}
		if lb.x > 0 && lb.x+need > lb.avail {
			lb.finishLine()
		}
		lb.flushSpace()
		lb.appendText(item, item.text, item.width)
	case itemRun:
		lb.flushSpace()
		lb.appendText(item, item.text, item.width)
	}
}

func (lb *lineBuilder) flushSpace() {
	if lb.pending != nil && lb.x > 0 {
		lb.appendText(*lb.pending, " ", 1)
	}
	lb.pending = nil
}

// appendText extends the last fragment when it comes from the same text
// node, otherwise it starts a new one.
func (lb *lineBuilder) appendText(item inlineItem, text string, width int) {
	if n := len(lb.frags); n > 0 && lb.frags[n-1].Node == item.node {
		lb.frags[n-1].Text += text
		lb.frags[n-1].Width += width
	} else {
		lb.frags = append(lb.frags, Fragment{
			Text:  text,
			X:     lb.x,
			Width: width,
			Node:  item.node,
			Style: item.style,
		})
		lb.fragOwners = append(lb.fragOwners, item.owners)
	}
	lb.x += width
}

// finishLine clips, aligns and positions the pending fragments as one line
// box. A <br> or preformatted newline on an empty line still produces a
// blank line.
func (lb *lineBuilder) finishLine() {
	used := min(lb.x, lb.avail)
	offset := 0
	switch lb.align {
	case style.AlignCenter:
		offset = (lb.avail - used) / 2
	case style.AlignRight:
		offset = lb.avail - used
	}

	y := lb.content.Y + len(lb.lines)
	for i := range lb.frags {
		f := &lb.frags[i]
		f.Width = max(0, min(f.Width, lb.avail-f.X))
		f.X = lb.content.X + offset + f.X
		f.Y = y

		r := Rect{X: f.X, Y: y, Width: f.Width, Height: 1}
		for _, owner := range lb.fragOwners[i] {
			owner.Dimensions.Content = owner.Dimensions.Content.union(r)
		}
	}

	lb.lines = append(lb.lines, LineBox{
		Rect:      Rect{X: lb.content.X, Y: y, Width: lb.avail, Height: 1},
		Fragments: lb.frags,
	})
	lb.frags, lb.fragOwners = nil, nil
	lb.x = 0
	lb.pending = nil
}
