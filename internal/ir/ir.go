// Package ir defines the language-neutral intermediate representation that
// sits between the analyzer and every backend (template adapters, the
// client-script generator). Both consumers walk the same tree and therefore
// agree on slot identifiers without any communication beyond the IR itself.
//
// Node is a closed sum type, matched by callers on Kind the way esbuild's
// js_ast matches on each Expr's Data field — add a variant here, then add a
// case everywhere that switches on Kind. There is deliberately no
// sub-classing: every traversal is an exhaustive switch.
package ir

import "github.com/barefootjs/bfc/internal/logger"

type Kind uint8

const (
	KindElement Kind = iota
	KindText
	KindExpression
	KindConditional
	KindLoop
	KindComponent
	KindSlot
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindExpression:
		return "Expression"
	case KindConditional:
		return "Conditional"
	case KindLoop:
		return "Loop"
	case KindComponent:
		return "Component"
	case KindSlot:
		return "Slot"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// SlotID is a stable identifier of the form "s0", "s1", ... assigned by the
// slot allocator in a deterministic order (descendants before the node that
// contains them). It is the contract between the
// marked template and the client script: the template emits the marker, the
// script looks it up.
type SlotID string

// Attribute is an ordered attribute on an Element. A spread is represented
// as an Attribute named "..." whose Value holds the spread expression text.
type Attribute struct {
	Name          string
	Value         *string // nil means a boolean-present attribute
	Dynamic       bool
	LiteralSource bool
	Loc           logger.Loc
}

func (a Attribute) IsSpread() bool { return a.Name == "..." }

// Event is an element event binding, name stored without any "on" prefix
// (so "click", not "onClick").
type Event struct {
	Name    string
	Handler string
	Loc     logger.Loc
}

// Prop is an ordered prop passed to a child Component node. Same spread
// convention as Attribute.
type Prop struct {
	Name    string
	Value   *string
	Dynamic bool
	Loc     logger.Loc
}

func (p Prop) IsSpread() bool { return p.Name == "..." }

// Node is the tagged-variant IR node. Only the fields relevant to Kind are
// populated; the zero value of the others is never read by a correct
// traversal. This flattened-struct layout (rather than an interface per
// variant) mirrors the immutability and pattern-matching style the compiler
// wants — allocate once, read everywhere, never mutate after the IR builder
// returns it.
type Node struct {
	Kind Kind
	Loc  logger.Loc

	// Element
	Tag         string
	Attributes  []Attribute
	Events      []Event
	RefExpr     string
	HasRef      bool
	NeedsScope  bool

	// Text
	Text string

	// Expression
	ExprText     string
	InferredType string

	// Reactive: Expression / Conditional / Loop. SlotID / HasSlot: also
	// Element and Component, whenever the transform allocates them a slot.
	Reactive bool
	SlotID   SlotID
	HasSlot  bool

	// Conditional
	Condition string
	WhenTrue  *Node
	WhenFalse *Node

	// Loop
	ArrayExpr       string
	ItemBinding     string
	IndexBinding    string
	HasIndexBinding bool
	KeyExpr         string
	HasKeyExpr      bool
	FilterPredicate *FilterClause
	SortComparator  string
	HasSort         bool
	IsStaticArray   bool
	StaticItems     []string // one entry per element's source text, only set when IsStaticArray

	// Component
	ComponentName string
	Props         []Prop

	// Slot (named child-composition slot, e.g. <Slot name="header"/>)
	SlotName string

	// Element / Component / Fragment / Loop body
	Children []*Node
}

// FilterClause captures a structurally-translated `.filter(t => {...})`
// block body: a chain of `if (lhs === literal) return expr` comparisons
// ending in a final return, per the block-body predicate grammar. A
// block-body statement that is not a const/let alias, an if, or a return is
// rejected by the transform with an adapter error and a suggestion to mark
// the expression client-only.
type FilterClause struct {
	ParamName string
	// Aliases are `const x = y` bindings from the outer scope captured at
	// the top of the block, in source order.
	Aliases []FilterAlias
	Clauses []FilterComparison
	// FinalReturn is the trailing `return expr` once no comparison matched.
	FinalReturn string
}

type FilterAlias struct {
	Name  string
	Value string
}

// FilterComparison is one `if (lhs === "literal") return expr` arm.
type FilterComparison struct {
	Lhs     string
	Literal string
	Negate  bool
	Return  string
}

func NewElement(tag string, loc logger.Loc) *Node {
	return &Node{Kind: KindElement, Tag: tag, Loc: loc}
}

func NewText(text string, loc logger.Loc) *Node {
	return &Node{Kind: KindText, Text: text, Loc: loc}
}

func NewExpression(text string, reactive bool, loc logger.Loc) *Node {
	return &Node{Kind: KindExpression, ExprText: text, Reactive: reactive, Loc: loc}
}

func NewFragment(loc logger.Loc) *Node {
	return &Node{Kind: KindFragment, Loc: loc}
}

// VoidElements is the set of HTML elements that never carry a closing tag,
// shared by every adapter so the round trip stays consistent.
var VoidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// CaptureOnlySet is the set of DOM event names the client generator must
// bind with addEventListener(name, handler, true) instead of a direct
// property assignment, because they don't bubble.
var CaptureOnlySet = map[string]bool{
	"blur": true, "focus": true, "focusin": true, "focusout": true,
}

// BooleanProperties is the set of attributes the client generator writes as
// DOM properties rather than attribute strings, to preserve correct
// checked/disabled semantics after hydration.
var BooleanProperties = map[string]bool{
	"disabled": true, "checked": true, "hidden": true, "required": true, "readonly": true,
}
