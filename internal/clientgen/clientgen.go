// Package clientgen emits the hydration/reactivity program for one
// component: a single `init<Name>(instanceIndex, parentScope, props)`
// function that locates the server-rendered scope, subscribes effects to
// every reactive slot, binds events, and initializes child components in
// source order. Purely static components emit nothing (spec §4.5's
// omission rule, tested as the static-purity invariant in §8).
package clientgen

import (
	"fmt"
	"strings"

	"github.com/barefootjs/bfc/internal/helpers"
	"github.com/barefootjs/bfc/internal/ir"
)

// Generate returns the client script for c, or "" if c is purely static.
func Generate(c *ir.ComponentIR) string {
	if !needsClientScript(c) {
		return ""
	}

	var j helpers.Joiner
	name := c.Meta.Name
	j.AddString(fmt.Sprintf("function init%s(instanceIndex, parentScope, props) {\n", name))
	j.AddString(fmt.Sprintf("  const scope = findScope(%q, instanceIndex, parentScope);\n", name))
	j.AddString("  if (!scope) return;\n\n")

	for _, s := range c.Meta.Signals {
		j.AddString(fmt.Sprintf("  const [%s, %s] = createSignal(%s);\n", s.Getter, s.Setter, defaultOrProp(s)))
	}
	for _, m := range c.Meta.Memos {
		j.AddString(fmt.Sprintf("  const %s = createMemo(%s);\n", m.Name, m.Computation))
	}
	for _, e := range c.Meta.Effects {
		j.AddString(fmt.Sprintf("  createEffect(%s);\n", e.Body))
	}
	for _, e := range c.Meta.OnMount {
		j.AddString(fmt.Sprintf("  onMount(%s);\n", e.Body))
	}
	j.AddString("\n")

	g := &generator{j: &j}
	g.walk(c.Root)

	j.AddString("}\n")
	return string(j.Done())
}

// needsClientScript implements the static-purity invariant directly: scan
// for anything that would ever produce output below.
func needsClientScript(c *ir.ComponentIR) bool {
	if len(c.Meta.Signals) > 0 || len(c.Meta.Memos) > 0 || len(c.Meta.Effects) > 0 || len(c.Meta.OnMount) > 0 {
		return true
	}
	return nodeNeedsScript(c.Root)
}

func nodeNeedsScript(n *ir.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ir.KindElement:
		if len(n.Events) > 0 || n.HasRef || n.HasSlot {
			return true
		}
		for _, a := range n.Attributes {
			if a.Dynamic {
				return true
			}
		}
	case ir.KindExpression:
		if n.HasSlot {
			return true
		}
	case ir.KindConditional, ir.KindLoop, ir.KindComponent:
		if n.HasSlot {
			return true
		}
	}
	for _, c := range n.Children {
		if nodeNeedsScript(c) {
			return true
		}
	}
	if nodeNeedsScript(n.WhenTrue) || nodeNeedsScript(n.WhenFalse) {
		return true
	}
	return false
}

func defaultOrProp(s ir.SignalInfo) string {
	if s.Initial != "" {
		return s.Initial
	}
	switch s.Type {
	case "number":
		return "0"
	case "boolean":
		return "false"
	case "array":
		return "[]"
	case "object":
		return "{}"
	case "string":
		return `""`
	default:
		return "undefined"
	}
}

type generator struct {
	j *helpers.Joiner
}

// walk emits slot queries and subscriptions in IR visitation order,
// matching the order the adapter emitted its markers in (spec §5
// "generator emits ... in the order the IR nodes were visited").
func (g *generator) walk(n *ir.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ir.KindElement:
		g.walkElement(n)
	case ir.KindExpression:
		if n.HasSlot {
			g.slotVar(n.SlotID)
			g.j.AddString(fmt.Sprintf("  createEffect(() => %s.textContent = String(%s));\n", slotVarName(n.SlotID), n.ExprText))
		}
		return
	case ir.KindConditional:
		g.walkConditional(n)
		return
	case ir.KindLoop:
		g.walkLoop(n)
		return
	case ir.KindComponent:
		g.walkComponentInit(n)
		return
	}
	for _, c := range n.Children {
		g.walk(c)
	}
}

func (g *generator) walkElement(n *ir.Node) {
	if n.HasSlot {
		g.slotVar(n.SlotID)
	}
	for _, c := range n.Children {
		g.walk(c)
	}
	if !n.HasSlot {
		return
	}
	elemVar := slotVarName(n.SlotID)

	for _, attr := range n.Attributes {
		if !attr.Dynamic || attr.Value == nil {
			continue
		}
		g.writeAttrEffect(elemVar, attr)
	}
	for _, ev := range n.Events {
		if ir.CaptureOnlySet[ev.Name] {
			g.j.AddString(fmt.Sprintf("  %s.addEventListener(%q, %s, true);\n", elemVar, ev.Name, ev.Handler))
		} else {
			g.j.AddString(fmt.Sprintf("  %s.on%s = %s;\n", elemVar, exportName(ev.Name), ev.Handler))
		}
	}
	if n.HasRef {
		g.j.AddString(fmt.Sprintf("  (%s)(%s);\n", n.RefExpr, elemVar))
	}
}

func (g *generator) writeAttrEffect(elemVar string, attr ir.Attribute) {
	expr := *attr.Value
	switch attr.Name {
	case "class":
		g.j.AddString(fmt.Sprintf("  createEffect(() => %s.setAttribute('class', %s));\n", elemVar, expr))
	case "style":
		trimmed := strings.TrimSpace(expr)
		if strings.HasPrefix(trimmed, "{") {
			g.j.AddString(fmt.Sprintf("  createEffect(() => Object.assign(%s.style, %s));\n", elemVar, expr))
		} else {
			g.j.AddString(fmt.Sprintf("  createEffect(() => %s.style.cssText = %s);\n", elemVar, expr))
		}
	case "value":
		g.j.AddString(fmt.Sprintf("  createEffect(() => { const v = %s; if (v !== undefined) %s.value = v; });\n", expr, elemVar))
	default:
		if ir.BooleanProperties[attr.Name] {
			g.j.AddString(fmt.Sprintf("  createEffect(() => %s.%s = %s);\n", elemVar, attr.Name, expr))
		} else {
			g.j.AddString(fmt.Sprintf("  createEffect(() => { const v = %s; if (v !== undefined) %s.setAttribute(%q, v); });\n", expr, elemVar, attr.Name))
		}
	}
}

func (g *generator) walkConditional(n *ir.Node) {
	if !n.HasSlot {
		g.walk(n.WhenTrue)
		g.walk(n.WhenFalse)
		return
	}
	trueTmpl := branchTemplate(n.WhenTrue)
	falseTmpl := branchTemplate(n.WhenFalse)
	g.j.AddString(fmt.Sprintf(
		"  cond(scope, %q, () => %s, [() => `%s`, () => `%s`]);\n",
		n.SlotID, n.Condition, trueTmpl, falseTmpl,
	))
}

func (g *generator) walkLoop(n *ir.Node) {
	g.slotVar(n.SlotID)
	var body *ir.Node
	if len(n.Children) > 0 {
		body = n.Children[0]
	}
	arrayExpr := n.ArrayExpr
	if n.FilterPredicate != nil {
		arrayExpr = fmt.Sprintf("%s.filter(%s => %s)", arrayExpr, n.FilterPredicate.ParamName, filterPredicateExpr(n.FilterPredicate))
	}
	if n.HasSort {
		arrayExpr = fmt.Sprintf("%s.sort(%s)", arrayExpr, n.SortComparator)
	}
	keyFn := "null"
	if n.HasKeyExpr {
		keyFn = fmt.Sprintf("(%s) => %s", n.ItemBinding, n.KeyExpr)
	}
	itemTmpl := branchTemplate(body)
	g.j.AddString(fmt.Sprintf(
		"  createEffect(() => reconcileList(%s, %s, %s, (%s) => `%s`));\n",
		slotVarName(n.SlotID), arrayExpr, keyFn, n.ItemBinding, itemTmpl,
	))
}

func filterPredicateExpr(fc *ir.FilterClause) string {
	if len(fc.Clauses) == 0 && len(fc.Aliases) == 0 {
		return fc.FinalReturn
	}
	var parts []string
	for _, alias := range fc.Aliases {
		parts = append(parts, fmt.Sprintf("(() => { const %s = %s; return true; })()", alias.Name, alias.Value))
	}
	for _, clause := range fc.Clauses {
		op := "==="
		if clause.Negate {
			op = "!=="
		}
		parts = append(parts, fmt.Sprintf("(%s %s %q ? (%s) : undefined)", clause.Lhs, op, clause.Literal, clause.Return))
	}
	if fc.FinalReturn != "" {
		parts = append(parts, fc.FinalReturn)
	}
	return strings.Join(parts, " ?? ")
}

func (g *generator) walkComponentInit(n *ir.Node) {
	if !n.HasSlot {
		return
	}
	g.j.AddString(fmt.Sprintf("  init%s(instanceIndex, scope, props);\n", n.ComponentName))
}

// branchTemplate serializes a conditional/loop body to a template-literal
// string: static text is escaped, dynamic expressions become `${...}`
// interpolations, and a nil branch becomes a pair of empty anchor comments
// so the insertion point stays addressable after hydration.
func branchTemplate(n *ir.Node) string {
	if n == nil {
		return "<!--bf-empty--><!--/bf-empty-->"
	}
	switch n.Kind {
	case ir.KindText:
		return escapeTemplateLiteral(n.Text)
	case ir.KindExpression:
		if n.ExprText == "null" || n.ExprText == "undefined" {
			return "<!--bf-empty--><!--/bf-empty-->"
		}
		return "${" + n.ExprText + "}"
	case ir.KindElement:
		var b strings.Builder
		b.WriteString("<")
		b.WriteString(n.Tag)
		if n.HasSlot {
			b.WriteString(fmt.Sprintf(` bf="%s"`, n.SlotID))
		}
		for _, a := range n.Attributes {
			if a.Value == nil {
				b.WriteString(" " + a.Name)
				continue
			}
			b.WriteString(fmt.Sprintf(` %s="%s"`, a.Name, escapeTemplateLiteral(*a.Value)))
		}
		b.WriteString(">")
		if !ir.VoidElements[n.Tag] {
			for _, c := range n.Children {
				b.WriteString(branchTemplate(c))
			}
			b.WriteString("</" + n.Tag + ">")
		}
		return b.String()
	case ir.KindFragment:
		var b strings.Builder
		for _, c := range n.Children {
			b.WriteString(branchTemplate(c))
		}
		return b.String()
	default:
		return ""
	}
}

func escapeTemplateLiteral(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`", "$", "\\$")
	return r.Replace(s)
}

func (g *generator) slotVar(id ir.SlotID) {
	g.j.AddString(fmt.Sprintf("  const %s = scope.querySelector('[bf=%q]');\n", slotVarName(id), string(id)))
}

func slotVarName(id ir.SlotID) string { return "_" + string(id) }

func exportName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
