// internal/browser/style/resolver.go
package style

import (
	"sort"
	"strings"

	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/parser"
	"github.com/xkilldash9x/termrender/internal/observability"
	"go.uber.org/zap"
)

// Origin ranks where a declaration came from.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginAuthor
	OriginInline
)

// declarationWithContext carries what the cascade sorts on.
type declarationWithContext struct {
	Declaration parser.Declaration
	Specificity parser.Specificity
	Origin      Origin
	Order       int
}

// Resolver runs the cascade. It holds no per-document state and may be
// reused across documents.
type Resolver struct {
	userAgentSheets []parser.StyleSheet
	logger          *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report ignored declarations.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithoutUserAgentDefaults drops the presentational default sheet. Elements
// that never render (head, script, style, ...) stay hidden.
func WithoutUserAgentDefaults() Option {
	return func(r *Resolver) {
		r.userAgentSheets = r.userAgentSheets[:1]
	}
}

// NewResolver creates a Resolver seeded with the user agent sheets.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		userAgentSheets: []parser.StyleSheet{
			parser.Parse(hiddenElementsCSS),
			parser.Parse(DefaultUserAgentCSS),
		},
		logger: observability.GetLogger().Named("style"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Map holds one ComputedStyle per element of a document.
type Map struct {
	styles map[dom.NodeID]ComputedStyle
	order  []dom.NodeID
}

// Get returns the computed style of an element.
func (m *Map) Get(id dom.NodeID) (ComputedStyle, bool) {
	if m == nil {
		return ComputedStyle{}, false
	}
	cs, ok := m.styles[id]
	return cs, ok
}

// Len returns the number of styled elements.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Elements returns the styled elements in document order.
func (m *Map) Elements() []dom.NodeID {
	if m == nil {
		return nil
	}
	return m.order
}

// Resolve computes the style of every element reachable from the document
// root, in document order. It never fails; bad declarations are skipped.
func (r *Resolver) Resolve(doc *dom.Document, sheets []parser.StyleSheet) *Map {
	m := &Map{styles: make(map[dom.NodeID]ComputedStyle)}
	if doc == nil || doc.Root() == dom.NoNode {
		return m
	}

	initial := Initial()
	doc.Walk(doc.Root(), func(id dom.NodeID, _ int) bool {
		if !doc.IsElement(id) {
			return false
		}
		parent := &initial
		if p, ok := m.styles[doc.Parent(id)]; ok {
			parent = &p
		}
		m.styles[id] = r.compute(doc, id, sheets, parent)
		m.order = append(m.order, id)
		return true
	})
	return m
}

// compute runs the cascade for a single element.
func (r *Resolver) compute(doc *dom.Document, id dom.NodeID, sheets []parser.StyleSheet, parent *ComputedStyle) ComputedStyle {
	cs := Initial()
	cs.inherit(parent)

	declarations := r.collect(doc, id, sheets)
	for _, dc := range declarations {
		r.apply(doc, id, &cs, parent, dc.Declaration)
	}
	return cs
}

// collect gathers every matching declaration sorted into application order.
func (r *Resolver) collect(doc *dom.Document, id dom.NodeID, sheets []parser.StyleSheet) []declarationWithContext {
	var declarations []declarationWithContext
	order := 0

	processSheets := func(sheets []parser.StyleSheet, origin Origin) {
		for _, sheet := range sheets {
			for _, rule := range sheet.Rules {
				spec, ok := matchRule(doc, id, rule)
				if !ok {
					order += len(rule.Declarations)
					continue
				}
				for _, decl := range rule.Declarations {
					declarations = append(declarations, declarationWithContext{
						Declaration: decl,
						Specificity: spec,
						Origin:      origin,
						Order:       order,
					})
					order++
				}
			}
		}
	}

	processSheets(r.userAgentSheets, OriginUserAgent)
	processSheets(sheets, OriginAuthor)

	if inline, ok := doc.Attribute(id, "style"); ok {
		for _, decl := range parser.ParseInline(inline) {
			declarations = append(declarations, declarationWithContext{
				Declaration: decl,
				Origin:      OriginInline,
				Order:       order,
			})
			order++
		}
	}

	sort.SliceStable(declarations, func(i, j int) bool {
		d1, d2 := declarations[i], declarations[j]
		p1, p2 := cascadePriority(d1), cascadePriority(d2)
		if p1 != p2 {
			return p1 < p2
		}
		if d1.Specificity != d2.Specificity {
			return d1.Specificity.Less(d2.Specificity)
		}
		return d1.Order < d2.Order
	})
	return declarations
}

// cascadePriority orders origin and importance. Inline declarations outrank
// every stylesheet declaration, important ones included.
func cascadePriority(d declarationWithContext) int {
	important := d.Declaration.Important
	switch d.Origin {
	case OriginUserAgent:
		if important {
			return 4
		}
		return 1
	case OriginAuthor:
		if important {
			return 3
		}
		return 2
	case OriginInline:
		if important {
			return 6
		}
		return 5
	}
	return 0
}

// apply applies one declaration, honoring the inherit and initial keywords.
func (r *Resolver) apply(doc *dom.Document, id dom.NodeID, cs, parent *ComputedStyle, decl parser.Declaration) {
	prop, known := properties[decl.Property]
	if !known {
		cs.Unrecognized = retain(cs.Unrecognized, decl)
		return
	}

	value := string(decl.Value)
	switch strings.ToLower(value) {
	case "inherit":
		prop.copy(cs, parent)
		return
	case "initial":
		initial := Initial()
		prop.copy(cs, &initial)
		return
	}

	if !prop.apply(cs, value) {
		if ce := r.logger.Check(zap.DebugLevel, "Ignoring invalid declaration."); ce != nil {
			ce.Write(
				zap.String("property", string(decl.Property)),
				zap.String("value", value),
				zap.String("element", doc.Path(id)),
			)
		}
	}
}

// retain records an unsupported declaration, replacing an earlier one for the same property.
func retain(list []parser.Declaration, decl parser.Declaration) []parser.Declaration {
	for i := range list {
		if list[i].Property == decl.Property {
			list[i] = decl
			return list
		}
	}
	return append(list, decl)
}
