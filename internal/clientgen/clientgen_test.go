package clientgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barefootjs/bfc/internal/ir"
	"github.com/barefootjs/bfc/internal/logger"
)

func TestGenerateReturnsEmptyForStaticComponent(t *testing.T) {
	p := ir.NewElement("p", logger.Loc{})
	p.Children = []*ir.Node{ir.NewText("hello", logger.Loc{})}
	div := ir.NewElement("div", logger.Loc{})
	div.Children = []*ir.Node{p}

	c := &ir.ComponentIR{Meta: ir.ComponentMeta{Name: "Greeting"}, Root: div}
	assert.Equal(t, "", Generate(c))
}

func TestGenerateEmitsSignalAndSlotQueryForCounter(t *testing.T) {
	span := ir.NewElement("span", logger.Loc{})
	span.HasSlot = true
	span.SlotID = "s0"
	expr := ir.NewExpression("count()", true, logger.Loc{})
	expr.HasSlot = true
	expr.SlotID = "s0"
	span.Children = []*ir.Node{expr}

	btn := ir.NewElement("button", logger.Loc{})
	btn.NeedsScope = true
	btn.HasSlot = true
	btn.SlotID = "s1"
	btn.Events = []ir.Event{{Name: "click", Handler: "() => setCount(n => n + 1)"}}
	btn.Children = []*ir.Node{span}

	c := &ir.ComponentIR{
		Meta: ir.ComponentMeta{
			Name:    "Counter",
			Signals: []ir.SignalInfo{{Getter: "count", Setter: "setCount", Initial: "0"}},
		},
		Root: btn,
	}

	script := Generate(c)
	require.NotEmpty(t, script)
	assert.Contains(t, script, "function initCounter(instanceIndex, parentScope, props)")
	assert.Contains(t, script, "createSignal(0)")
	assert.Contains(t, script, `findScope("Counter", instanceIndex, parentScope)`)
}

func TestNeedsClientScriptDetectsDynamicAttribute(t *testing.T) {
	dynVal := "color()"
	div := ir.NewElement("div", logger.Loc{})
	div.Attributes = []ir.Attribute{{Name: "style", Value: &dynVal, Dynamic: true}}
	c := &ir.ComponentIR{Meta: ir.ComponentMeta{Name: "Box"}, Root: div}
	assert.True(t, needsClientScript(c))
}

func TestNeedsClientScriptFalseForPlainStaticTree(t *testing.T) {
	div := ir.NewElement("div", logger.Loc{})
	br := ir.NewElement("br", logger.Loc{})
	div.Children = []*ir.Node{br}
	c := &ir.ComponentIR{Meta: ir.ComponentMeta{Name: "Plain"}, Root: div}
	assert.False(t, needsClientScript(c))
}
