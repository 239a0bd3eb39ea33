// internal/browser/parser/css.go
package parser

import (
	"errors"
	"strings"
)

// Property represents a CSS property name, lower-cased (e.g., "display").
type Property string

// Value represents a raw CSS value with surrounding whitespace trimmed (e.g., "none").
type Value string

// Declaration is a key-value pair (e.g., display: none).
type Declaration struct {
	Property  Property
	Value     Value
	Important bool
}

// RuleSet is one rule: the declarations applied by every selector in its list.
type RuleSet struct {
	Selectors    []ComplexSelector
	Declarations []Declaration
}

// StyleSheet is an ordered list of rules.
type StyleSheet struct {
	Rules []RuleSet
}

// ComplexSelector is a sequence of simple selectors joined by combinators (e.g., "div > p").
// The last entry is the subject the selector matches.
type ComplexSelector struct {
	Selectors []SimpleSelectorWithCombinator
}

// SimpleSelectorWithCombinator pairs a simple selector with the combinator preceding it.
type SimpleSelectorWithCombinator struct {
	Combinator     Combinator
	SimpleSelector SimpleSelector
}

// SimpleSelector is a compound of an optional tag, an optional id and any number of classes.
type SimpleSelector struct {
	TagName string
	ID      string
	Classes []string
}

// Combinator defines the relationship between simple selectors.
type Combinator int

const (
	CombinatorNone       Combinator = iota // first selector in a chain
	CombinatorDescendant                   // whitespace
	CombinatorChild                        // >
)

// Specificity is the (ids, classes, types) triple used to order matching rules.
type Specificity [3]int

// Less reports whether s sorts before o lexicographically.
func (s Specificity) Less(o Specificity) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// Specificity sums the specificity of every compound in the chain.
func (cs ComplexSelector) Specificity() Specificity {
	var total Specificity
	for _, s := range cs.Selectors {
		a, b, c := s.SimpleSelector.CalculateSpecificity()
		total[0] += a
		total[1] += b
		total[2] += c
	}
	return total
}

// Subject returns the rightmost compound of the chain.
func (cs ComplexSelector) Subject() SimpleSelector {
	if len(cs.Selectors) == 0 {
		return SimpleSelector{}
	}
	return cs.Selectors[len(cs.Selectors)-1].SimpleSelector
}

// CalculateSpecificity calculates the specificity of a simple selector.
func (s SimpleSelector) CalculateSpecificity() (a, b, c int) {
	if s.ID != "" {
		a = 1
	}
	b = len(s.Classes)
	if s.TagName != "" && s.TagName != "*" {
		c = 1
	}
	return a, b, c
}

// IsValid checks if the selector has at least one component.
func (s SimpleSelector) IsValid() bool {
	return s.TagName != "" || s.ID != "" || len(s.Classes) > 0
}

// errUnsupportedSelector marks selector syntax outside the supported subset
// (attribute selectors, pseudo-classes, sibling combinators).
var errUnsupportedSelector = errors.New("unsupported selector")

// Parser holds the state of the CSS parser.
type Parser struct {
	scanner
}

func NewParser(input string) *Parser {
	return &Parser{scanner: scanner{src: input}}
}

// Parse is shorthand for NewParser(css).Parse().
func Parse(css string) StyleSheet {
	return NewParser(css).Parse()
}

// ParseInline parses the body of a style attribute, e.g. "color: red; width: 10".
func ParseInline(style string) []Declaration {
	p := NewParser(style)
	return p.parseDeclarationList(false)
}

// Parse analyzes the input CSS string and builds a StyleSheet.
// Malformed rules and rules whose selectors are all unsupported are skipped.
func (p *Parser) Parse() StyleSheet {
	var rules []RuleSet
	for {
		p.skipSpace()
		if p.done() {
			break
		}
		if p.hasPrefix("/*") {
			p.skipComment()
			continue
		}
		// HTML comment delimiters are legal inside <style>.
		if p.hasPrefix("<!--") {
			p.advance(4)
			continue
		}
		if p.hasPrefix("-->") {
			p.advance(3)
			continue
		}
		if p.peek() == '@' {
			p.skipAtRule()
			continue
		}
		if p.peek() == '}' {
			// Stray closing brace.
			p.next()
			continue
		}

		selectors := p.parseSelectorList()
		p.skipUntil('{')
		if p.done() {
			break
		}
		declarations := p.parseDeclarations()
		if len(selectors) == 0 || len(declarations) == 0 {
			continue
		}
		rules = append(rules, RuleSet{Selectors: selectors, Declarations: declarations})
	}
	return StyleSheet{Rules: rules}
}

// parseSelectorList parses a comma-separated list of complex selectors up to '{'.
// Unsupported entries are dropped; the rest of the list survives.
func (p *Parser) parseSelectorList() []ComplexSelector {
	var list []ComplexSelector
	for {
		p.skipSpace()
		if p.done() || p.peek() == '{' {
			break
		}
		complex, err := p.parseComplexSelector()
		if err == nil && len(complex.Selectors) > 0 {
			list = append(list, complex)
		} else {
			p.skipUntil(',', '{')
		}
		if !p.done() && p.peek() == ',' {
			p.next()
			continue
		}
		break
	}
	return list
}

// parseComplexSelector parses a sequence of simple selectors and combinators.
func (p *Parser) parseComplexSelector() (ComplexSelector, error) {
	var complexSelector ComplexSelector
	combinator := CombinatorNone
	danglingChild := false

	for {
		p.skipSpace()
		if p.done() || p.peek() == '{' || p.peek() == ',' {
			break
		}

		simple, err := p.parseSimpleSelector()
		if err != nil {
			return ComplexSelector{}, err
		}
		complexSelector.Selectors = append(complexSelector.Selectors, SimpleSelectorWithCombinator{
			Combinator:     combinator,
			SimpleSelector: simple,
		})
		danglingChild = false

		p.skipSpace()
		if p.done() || p.peek() == '{' || p.peek() == ',' {
			break
		}

		switch p.peek() {
		case '>':
			combinator = CombinatorChild
			danglingChild = true
			p.next()
		case '+', '~':
			return ComplexSelector{}, errUnsupportedSelector
		default:
			combinator = CombinatorDescendant
		}
	}
	if danglingChild {
		return ComplexSelector{}, errUnsupportedSelector
	}
	return complexSelector, nil
}

// parseSimpleSelector parses a single compound (e.g., div#id.class1.class2).
func (p *Parser) parseSimpleSelector() (SimpleSelector, error) {
	selector := SimpleSelector{}

	if !p.done() {
		ch := p.peek()
		if ch == '*' {
			p.next()
			selector.TagName = "*"
		} else if isNameStart(ch) {
			selector.TagName = strings.ToLower(p.ident())
		}
	}

	for !p.done() {
		switch p.peek() {
		case '#':
			p.next()
			id := p.ident()
			if id == "" {
				return selector, errUnsupportedSelector
			}
			selector.ID = id
		case '.':
			p.next()
			class := p.ident()
			if class == "" {
				return selector, errUnsupportedSelector
			}
			selector.Classes = append(selector.Classes, class)
		case '[', ':':
			return selector, errUnsupportedSelector
		default:
			goto done
		}
	}

done:
	if !selector.IsValid() {
		return selector, errUnsupportedSelector
	}
	if !p.done() {
		switch ch := p.peek(); {
		case isSpace(ch), ch == '>', ch == '+', ch == '~', ch == ',', ch == '{':
		default:
			return selector, errUnsupportedSelector
		}
	}
	return selector, nil
}

// parseDeclarations parses a braced block { ... }. The caller has positioned
// the parser on the opening brace.
func (p *Parser) parseDeclarations() []Declaration {
	p.next() // Consume '{'
	declarations := p.parseDeclarationList(true)
	if !p.done() && p.peek() == '}' {
		p.next()
	}
	return declarations
}

// parseDeclarationList parses declarations until EOF, or until '}' when braced.
func (p *Parser) parseDeclarationList(braced bool) []Declaration {
	var declarations []Declaration
	for {
		p.skipSpace()
		if p.done() || (braced && p.peek() == '}') {
			break
		}
		if p.hasPrefix("/*") {
			p.skipComment()
			continue
		}
		if p.peek() == ';' || (!braced && p.peek() == '}') {
			p.next()
			continue
		}

		property, value, important := p.parseDeclaration()
		if property != "" && value != "" {
			declarations = append(declarations, Declaration{
				Property:  Property(strings.ToLower(property)),
				Value:     Value(value),
				Important: important,
			})
		}
	}
	return declarations
}

// parseDeclaration parses a single 'property: value;' pair.
func (p *Parser) parseDeclaration() (prop, val string, important bool) {
	if !isNameStart(p.peek()) {
		p.skipDeclaration()
		return
	}
	prop = p.ident()
	p.skipSpace()

	if p.done() || p.peek() != ':' {
		p.skipDeclaration()
		return "", "", false
	}
	p.next()
	p.skipSpace()

	val = stripComments(p.parseValue())

	if idx := strings.LastIndexByte(val, '!'); idx >= 0 {
		if strings.EqualFold(strings.TrimSpace(val[idx+1:]), "important") {
			important = true
			val = strings.TrimSpace(val[:idx])
		}
	}

	p.skipSpace()
	if !p.done() && p.peek() == ';' {
		p.next()
	}
	return
}

// skipDeclaration discards input up to and including the next ';'.
func (p *Parser) skipDeclaration() {
	p.skipUntil(';', '}')
	if !p.done() && p.peek() == ';' {
		p.next()
	}
}

// parseValue reads a CSS value until a delimiter.
func (p *Parser) parseValue() string {
	start := p.off
	for !p.done() {
		ch := p.peek()
		if ch == ';' || ch == '}' {
			break
		}
		if ch == '"' || ch == '\'' {
			p.skipString(ch)
			continue
		}
		if ch == '(' {
			p.next()
			p.skipBlock('(', ')')
			continue
		}
		p.off++
	}
	return strings.TrimSpace(p.src[start:p.off])
}

// stripComments removes /* ... */ sequences embedded in a value.
func stripComments(val string) string {
	for {
		start := strings.Index(val, "/*")
		if start < 0 {
			return val
		}
		end := strings.Index(val[start+2:], "*/")
		if end < 0 {
			return strings.TrimSpace(val[:start])
		}
		val = strings.TrimSpace(val[:start] + " " + val[start+2+end+2:])
	}
}
