// internal/browser/dom/path.go
package dom

import (
	"fmt"
	"strings"
)

// Path returns an XPath-style locator for id, used to name nodes in logs
// and layout dumps. An ancestor carrying an id attribute anchors the path.
func (d *Document) Path(id NodeID) string {
	if !d.valid(id) {
		return ""
	}

	var path []string
	for n := id; n != NoNode; n = d.nodes[n].Parent {
		node := &d.nodes[n]
		if node.Type != ElementNode {
			path = append(path, "text()")
			continue
		}

		if elemID := d.ElementID(n); elemID != "" {
			path = append(path, fmt.Sprintf(`//*[@id='%s']`, elemID))
			break
		}

		// XPath indices are 1-based and count same-tag siblings only.
		index := 1
		if parent := node.Parent; parent != NoNode {
			for _, sib := range d.nodes[parent].Children {
				if sib == n {
					break
				}
				if d.nodes[sib].Type == ElementNode && d.nodes[sib].Tag == node.Tag {
					index++
				}
			}
		}
		path = append(path, fmt.Sprintf("%s[%d]", node.Tag, index))
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	out := strings.Join(path, "/")
	if !strings.HasPrefix(out, "//*[@id=") {
		out = "/" + out
	}
	return out
}
