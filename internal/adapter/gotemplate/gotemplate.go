// Package gotemplate implements the alternate Template Adapter: a typed
// Go `{{ }}` dialect built directly on text/template's own syntax, paired
// with a generated Go struct for the component's props shape.
package gotemplate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/barefootjs/bfc/internal/adapter"
	"github.com/barefootjs/bfc/internal/helpers"
	"github.com/barefootjs/bfc/internal/ir"
)

const Name = "gotemplate"

type Adapter struct {
	// Package is the generated types file's package name.
	Package string
}

func New(pkg string) *Adapter {
	if pkg == "" {
		pkg = "templates"
	}
	return &Adapter{Package: pkg}
}

func (a *Adapter) Name() string      { return Name }
func (a *Adapter) Extension() string { return ".tmpl" }

func (a *Adapter) Generate(c *ir.ComponentIR) (adapter.Result, error) {
	if c.Root == nil {
		return adapter.Result{Extension: a.Extension()}, nil
	}
	body, err := a.render(c.Root)
	if err != nil {
		return adapter.Result{}, err
	}
	types, hasTypes := a.GenerateTypes(c)
	return adapter.Result{Template: body, Types: types, HasTypes: hasTypes, Extension: a.Extension()}, nil
}

func (a *Adapter) RenderScopeMarker(instanceExpr string) string {
	return fmt.Sprintf(`bf-s="{{%s}}"`, instanceExpr)
}

func (a *Adapter) RenderSlotMarker(id ir.SlotID) string { return fmt.Sprintf(`bf="%s"`, id) }
func (a *Adapter) RenderCondMarker(id ir.SlotID) string { return fmt.Sprintf(`bf-c="%s"`, id) }

func (a *Adapter) render(n *ir.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	switch n.Kind {
	case ir.KindElement:
		return a.RenderElement(n)
	case ir.KindText:
		return escapeText(n.Text), nil
	case ir.KindExpression:
		return a.RenderExpression(n)
	case ir.KindConditional:
		return a.RenderConditional(n)
	case ir.KindLoop:
		return a.RenderLoop(n)
	case ir.KindComponent:
		return a.RenderComponent(n)
	case ir.KindFragment:
		return a.renderFragment(n)
	default:
		return "", &adapter.ErrUnsupported{Adapter: Name, Reason: fmt.Sprintf("unknown node kind %s", n.Kind)}
	}
}

func (a *Adapter) renderFragment(n *ir.Node) (string, error) {
	var j helpers.Joiner
	if n.Kind == ir.KindFragment {
		j.AddString(`{{/* bf-scope:ScopeID */}}`)
	}
	for _, c := range n.Children {
		s, err := a.render(c)
		if err != nil {
			return "", err
		}
		j.AddString(s)
	}
	return string(j.Done()), nil
}

func (a *Adapter) RenderElement(n *ir.Node) (string, error) {
	var j helpers.Joiner
	j.AddString("<")
	j.AddString(n.Tag)
	if n.NeedsScope {
		j.AddString(" ")
		j.AddString(a.RenderScopeMarker("ScopeID"))
	}
	collapsed := soleSlottedChild(n)
	switch {
	case n.HasSlot:
		j.AddString(" ")
		j.AddString(a.RenderSlotMarker(n.SlotID))
	case collapsed != nil:
		j.AddString(" ")
		j.AddString(a.RenderSlotMarker(collapsed.SlotID))
	}
	attrText, err := a.renderAttributes(n.Attributes)
	if err != nil {
		return "", err
	}
	j.AddString(attrText)
	j.AddString(">")
	if ir.VoidElements[n.Tag] {
		return string(j.Done()), nil
	}
	if collapsed != nil {
		inner, err := a.renderCollapsedChild(collapsed)
		if err != nil {
			return "", err
		}
		j.AddString(inner)
	} else {
		for _, c := range n.Children {
			s, err := a.render(c)
			if err != nil {
				return "", err
			}
			j.AddString(s)
		}
	}
	j.AddString("</")
	j.AddString(n.Tag)
	j.AddString(">")
	return string(j.Done()), nil
}

// soleSlottedChild mirrors the reference adapter's collapse rule: an element
// whose entire content is one slotted reactive Expression or Loop borrows
// that child's slot for its own tag rather than nesting another
// marker-bearing element one level deeper.
func soleSlottedChild(n *ir.Node) *ir.Node {
	if n.HasSlot || len(n.Children) != 1 {
		return nil
	}
	c := n.Children[0]
	if !c.HasSlot {
		return nil
	}
	switch c.Kind {
	case ir.KindExpression, ir.KindLoop:
		return c
	default:
		return nil
	}
}

func (a *Adapter) renderCollapsedChild(n *ir.Node) (string, error) {
	switch n.Kind {
	case ir.KindExpression:
		return fmt.Sprintf("{{%s}}", toFieldExpr(n.ExprText)), nil
	case ir.KindLoop:
		return a.renderLoopContent(n)
	default:
		return a.render(n)
	}
}

func (a *Adapter) renderAttributes(attrs []ir.Attribute) (string, error) {
	var j helpers.Joiner
	for _, attr := range attrs {
		if attr.IsSpread() {
			return "", &adapter.ErrUnsupported{Adapter: Name, Reason: "gotemplate dialect has no spread syntax for: " + *attr.Value}
		}
		j.AddString(" ")
		if attr.Value == nil {
			j.AddString(attr.Name)
			continue
		}
		if attr.Dynamic {
			j.AddString(attr.Name)
			j.AddString(`="{{`)
			j.AddString(toFieldExpr(*attr.Value))
			j.AddString(`}}"`)
			continue
		}
		j.AddString(attr.Name)
		j.AddString(`="`)
		j.AddString(escapeAttr(*attr.Value))
		j.AddString(`"`)
	}
	return string(j.Done()), nil
}

// RenderExpression wraps a slotted reactive expression's `{{.Field}}` output
// in a synthesized element carrying the bf attribute, the same fix as the
// reference adapter: without it this dialect never emits a single `bf="sN"`
// occurrence, so the marker-attribute contract (§6) and marker parity (§8
// property 3) both fail for every dynamic text position.
func (a *Adapter) RenderExpression(n *ir.Node) (string, error) {
	field := fmt.Sprintf("{{%s}}", toFieldExpr(n.ExprText))
	if n.HasSlot {
		return fmt.Sprintf(`<span bf="%s">%s</span>`, n.SlotID, field), nil
	}
	return field, nil
}

func (a *Adapter) RenderConditional(n *ir.Node) (string, error) {
	trueText, err := a.render(n.WhenTrue)
	if err != nil {
		return "", err
	}
	falseText, err := a.render(n.WhenFalse)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("{{if %s}}%s{{else}}%s{{end}}", toFieldExpr(n.Condition), trueText, falseText), nil
}

func (a *Adapter) RenderLoop(n *ir.Node) (string, error) {
	wrapped, err := a.renderLoopContent(n)
	if err != nil {
		return "", err
	}
	if !n.HasSlot {
		return wrapped, nil
	}
	return fmt.Sprintf(`<span bf="%s">%s</span>`, n.SlotID, wrapped), nil
}

// renderLoopContent renders the `{{range}}...{{end}}` construct itself, used
// both as RenderLoop's own output and, when this loop collapses onto an
// enclosing element (soleSlottedChild), as that element's sole content.
func (a *Adapter) renderLoopContent(n *ir.Node) (string, error) {
	var body *ir.Node
	if len(n.Children) > 0 {
		body = n.Children[0]
	}
	rendered, err := a.render(body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("{{range $%s := %s}}%s{{end}}", n.ItemBinding, toFieldExpr(n.ArrayExpr), rendered), nil
}

func (a *Adapter) RenderComponent(n *ir.Node) (string, error) {
	return fmt.Sprintf("{{template %q .}}", n.ComponentName), nil
}

// GenerateTypes emits a Go struct for the component's props shape, plus one
// nested field per distinct child component name that carries a slot.
func (a *Adapter) GenerateTypes(c *ir.ComponentIR) (string, bool) {
	var j helpers.Joiner
	j.AddString("package " + a.Package + "\n\n")
	j.AddString("type " + c.Meta.Name + "Props struct {\n")
	j.AddString("\tScopeID string\n")

	seen := map[string]bool{"ScopeID": true}
	addField := func(name, typ string) {
		field := exportName(name)
		if seen[field] {
			return
		}
		seen[field] = true
		j.AddString("\t" + field + " " + typ + "\n")
	}

	for _, p := range c.Meta.PropsParams {
		addField(p.Name, goType(p.Type))
	}
	for _, s := range c.Meta.Signals {
		addField(s.Getter, goType(s.Type))
	}

	childSlots := collectChildComponents(c.Root)
	names := make([]string, 0, len(childSlots))
	for name := range childSlots {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		addField(name, name+"Props")
	}

	j.AddString("}\n")
	return string(j.Done()), true
}

func collectChildComponents(n *ir.Node) map[string]bool {
	out := map[string]bool{}
	var walk func(*ir.Node)
	walk = func(n *ir.Node) {
		if n == nil {
			return
		}
		if n.Kind == ir.KindComponent && n.HasSlot {
			out[n.ComponentName] = true
		}
		for _, c := range n.Children {
			walk(c)
		}
		walk(n.WhenTrue)
		walk(n.WhenFalse)
	}
	walk(n)
	return out
}

func goType(hint string) string {
	switch hint {
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "string", "":
		return "string"
	default:
		return "any"
	}
}

func exportName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// toFieldExpr is a best-effort rewrite of a component-source expression
// into the Go-template dialect's `.Field` dot notation: bare identifiers
// become fields, signal-getter calls `x()` become `.X`.
func toFieldExpr(expr string) string {
	expr = strings.TrimSpace(expr)
	expr = strings.TrimSuffix(expr, "()")
	if expr == "" {
		return "."
	}
	return "." + exportName(expr)
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", `"`, "&quot;")
	return r.Replace(s)
}
