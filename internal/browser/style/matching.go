// internal/browser/style/matching.go
package style

import (
	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/parser"
)

// matchRule reports whether any selector of rule matches the element and
// returns the highest specificity among those that do.
func matchRule(doc *dom.Document, id dom.NodeID, rule parser.RuleSet) (parser.Specificity, bool) {
	var best parser.Specificity
	matched := false
	for _, complexSelector := range rule.Selectors {
		if !Matches(doc, id, complexSelector) {
			continue
		}
		spec := complexSelector.Specificity()
		if !matched || best.Less(spec) {
			best = spec
		}
		matched = true
	}
	return best, matched
}

// Matches reports whether the element satisfies the complex selector.
func Matches(doc *dom.Document, id dom.NodeID, complexSelector parser.ComplexSelector) bool {
	if len(complexSelector.Selectors) == 0 {
		return false
	}
	return recursiveMatch(doc, id, complexSelector, len(complexSelector.Selectors)-1)
}

func recursiveMatch(doc *dom.Document, id dom.NodeID, complexSelector parser.ComplexSelector, index int) bool {
	if index < 0 || !doc.IsElement(id) {
		return false
	}
	current := complexSelector.Selectors[index]
	if !matchesSimple(doc, id, current.SimpleSelector) {
		return false
	}
	if index == 0 {
		return true
	}

	switch current.Combinator {
	case parser.CombinatorDescendant:
		for parent := doc.Parent(id); parent != dom.NoNode; parent = doc.Parent(parent) {
			if recursiveMatch(doc, parent, complexSelector, index-1) {
				return true
			}
		}
		return false
	case parser.CombinatorChild:
		return recursiveMatch(doc, doc.Parent(id), complexSelector, index-1)
	}
	return false
}

func matchesSimple(doc *dom.Document, id dom.NodeID, selector parser.SimpleSelector) bool {
	if selector.TagName != "" && selector.TagName != "*" && doc.Tag(id) != selector.TagName {
		return false
	}
	if selector.ID != "" && doc.ElementID(id) != selector.ID {
		return false
	}
	for _, class := range selector.Classes {
		if !doc.HasClass(id, class) {
			return false
		}
	}
	return true
}
