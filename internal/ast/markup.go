package ast

import "github.com/barefootjs/bfc/internal/logger"

type MarkupKind uint8

const (
	MarkupElement MarkupKind = iota
	MarkupFragment
	MarkupText
	MarkupExprChild
)

// MarkupAttr is one JSX attribute or prop, before the IR builder decides
// whether it is an event, a ref, a spread, or a plain attribute.
type MarkupAttr struct {
	Name        string
	StringValue *string // set for `name="literal"`
	ExprValue   *string // set for `name={expr}`
	IsSpread    bool    // `{...expr}`
	Loc         logger.Loc
}

// Markup is the raw JSX tree: tags, attributes, and children, with no
// notion yet of which children are static text, reactive expressions,
// conditionals, or loops — that classification is the transform phase's job
// (internal/transform), not the parser's.
type Markup struct {
	Kind MarkupKind
	Loc  logger.Loc

	Tag      string // MarkupElement / implicit component tag (capitalized)
	Attrs    []MarkupAttr
	Children []*Markup

	Text string // MarkupText

	ExprText string // MarkupExprChild: raw `{...}` content
}

func (m *Markup) IsComponentTag() bool {
	if m == nil || m.Tag == "" {
		return false
	}
	c := m.Tag[0]
	return c >= 'A' && c <= 'Z'
}
