package gotemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barefootjs/bfc/internal/ir"
	"github.com/barefootjs/bfc/internal/logger"
)

func TestRenderElementEmitsTemplateMarkers(t *testing.T) {
	a := New("")
	span := ir.NewElement("span", logger.Loc{})
	span.HasSlot = true
	span.SlotID = "s0"
	expr := ir.NewExpression("count()", true, logger.Loc{})
	span.Children = []*ir.Node{expr}

	div := ir.NewElement("div", logger.Loc{})
	div.NeedsScope = true
	div.Children = []*ir.Node{span}

	out, err := a.render(div)
	require.NoError(t, err)
	assert.Equal(t, `<div bf-s="{{ScopeID}}"><span bf="s0">{{.Count}}</span></div>`, out)
}

// TestRenderElementCollapsesSoleReactiveExpressionChild exercises the actual
// bug path: the span itself carries no slot of its own, only its sole
// reactive expression child does, so the bf attribute must come from that
// child rather than going missing entirely.
func TestRenderElementCollapsesSoleReactiveExpressionChild(t *testing.T) {
	a := New("")
	span := ir.NewElement("span", logger.Loc{})
	expr := ir.NewExpression("count()", true, logger.Loc{})
	expr.HasSlot = true
	expr.SlotID = "s0"
	span.Children = []*ir.Node{expr}

	out, err := a.render(span)
	require.NoError(t, err)
	assert.Equal(t, `<span bf="s0">{{.Count}}</span>`, out)
}

// TestRenderExpressionWithoutSlotEmitsBareField confirms a non-reactive or
// unslotted expression is left as plain `{{.Field}}` text, with no marker.
func TestRenderExpressionWithoutSlotEmitsBareField(t *testing.T) {
	a := New("")
	expr := ir.NewExpression("name", false, logger.Loc{})

	out, err := a.RenderExpression(expr)
	require.NoError(t, err)
	assert.Equal(t, "{{.Name}}", out)
}

// TestRenderLoopCollapsesOntoEnclosingElement mirrors the loop-marker
// vocabulary mismatch the client script's reconcileList wiring depends on:
// a loop's own bf="sN" must appear as a real attribute on a wrapping span,
// never as a comment pair the attribute-selector query can't see.
func TestRenderLoopCollapsesOntoEnclosingElement(t *testing.T) {
	a := New("")
	item := ir.NewText("x", logger.Loc{})
	loop := &ir.Node{
		Kind: ir.KindLoop, ArrayExpr: "items", ItemBinding: "item",
		Children: []*ir.Node{item}, HasSlot: true, SlotID: "s0",
	}
	ul := ir.NewElement("ul", logger.Loc{})
	ul.Children = []*ir.Node{loop}

	out, err := a.render(ul)
	require.NoError(t, err)
	assert.Equal(t, `<ul bf="s0">{{range $item := .Items}}x{{end}}</ul>`, out)
}

func TestRenderConditionalEmitsIfElse(t *testing.T) {
	a := New("")
	trueBranch := ir.NewText("Visible", logger.Loc{})
	falseBranch := ir.NewText("Hidden", logger.Loc{})
	cond := &ir.Node{Kind: ir.KindConditional, Condition: "show()", WhenTrue: trueBranch, WhenFalse: falseBranch}

	out, err := a.RenderConditional(cond)
	require.NoError(t, err)
	assert.Equal(t, "{{if .Show}}Visible{{else}}Hidden{{end}}", out)
}

func TestRenderLoopEmitsRange(t *testing.T) {
	a := New("")
	item := ir.NewText("x", logger.Loc{})
	loop := &ir.Node{Kind: ir.KindLoop, ArrayExpr: "items", ItemBinding: "item", Children: []*ir.Node{item}}

	out, err := a.RenderLoop(loop)
	require.NoError(t, err)
	assert.Equal(t, "{{range $item := .Items}}x{{end}}", out)
}

func TestGenerateTypesDefaultsPackageName(t *testing.T) {
	a := New("")
	assert.Equal(t, "templates", a.Package)

	c := &ir.ComponentIR{Meta: ir.ComponentMeta{
		Name:    "Counter",
		Signals: []ir.SignalInfo{{Getter: "count", Setter: "setCount", Type: "number"}},
	}}
	types, ok := a.GenerateTypes(c)
	require.True(t, ok)
	assert.Contains(t, types, "package templates")
	assert.Contains(t, types, "type CounterProps struct")
	assert.Contains(t, types, "ScopeID string")
	assert.Contains(t, types, "Count float64")
}

func TestRenderAttributesRejectsSpread(t *testing.T) {
	a := New("")
	spreadVal := "rest"
	el := ir.NewElement("div", logger.Loc{})
	el.Attributes = []ir.Attribute{{Name: "...", Value: &spreadVal}}

	_, err := a.render(el)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spread")
}
