// Package adapter defines the pluggable Template Adapter contract: a pure
// function from a ComponentIR to a Marked Template for one backend dialect.
// Adapters share no mutable state and may be reused across compiles (see
// internal/adapter/reference and internal/adapter/gotemplate).
package adapter

import "github.com/barefootjs/bfc/internal/ir"

// Result is one adapter's output for a single component.
type Result struct {
	Template  string
	Types     string
	HasTypes  bool
	Extension string
}

// Adapter renders a ComponentIR into one template dialect. Node-level
// renderers are exposed separately from Generate so the conformance
// harness can exercise them individually against fixtures.
type Adapter interface {
	Name() string
	Extension() string

	Generate(c *ir.ComponentIR) (Result, error)

	RenderElement(n *ir.Node) (string, error)
	RenderExpression(n *ir.Node) (string, error)
	RenderConditional(n *ir.Node) (string, error)
	RenderLoop(n *ir.Node) (string, error)
	RenderComponent(n *ir.Node) (string, error)

	RenderScopeMarker(instanceExpr string) string
	RenderSlotMarker(id ir.SlotID) string
	RenderCondMarker(id ir.SlotID) string

	// GenerateTypes renders a props-shape declaration for typed backends.
	// ok is false for adapters with no type system (the reference dialect).
	GenerateTypes(c *ir.ComponentIR) (text string, ok bool)
}

// ErrUnsupported is returned by a renderer when the dialect cannot express
// a construct (e.g. spread attributes in a dialect with no spread syntax).
// Per spec, this must surface as an error, never a silent drop.
type ErrUnsupported struct {
	Adapter string
	Reason  string
}

func (e *ErrUnsupported) Error() string {
	return e.Adapter + ": " + e.Reason
}
