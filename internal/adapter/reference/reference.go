// Package reference implements the reference Template Adapter: a plain
// HTML dialect using literal bf-s/bf/bf-c marker attributes and HTML
// comment pairs for markers on non-element positions, exactly the
// vocabulary the conformance fixtures are written against.
package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/barefootjs/bfc/internal/adapter"
	"github.com/barefootjs/bfc/internal/helpers"
	"github.com/barefootjs/bfc/internal/ir"
)

const Name = "reference"

// ScopeToken is the placeholder substituted by the render harness with a
// concrete, runtime-assigned instance id. The compiler only ever emits the
// token — instance uniqueness is the runtime's job (spec §3).
const ScopeToken = "{{scope}}"

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string      { return Name }
func (a *Adapter) Extension() string { return ".html" }

func (a *Adapter) Generate(c *ir.ComponentIR) (adapter.Result, error) {
	if c.Root == nil {
		return adapter.Result{Extension: a.Extension()}, nil
	}
	body, err := a.render(c.Root)
	if err != nil {
		return adapter.Result{}, err
	}
	return adapter.Result{Template: body, Extension: a.Extension()}, nil
}

func (a *Adapter) GenerateTypes(c *ir.ComponentIR) (string, bool) { return "", false }

func (a *Adapter) RenderScopeMarker(instanceExpr string) string {
	return fmt.Sprintf(`bf-s="%s"`, instanceExpr)
}

func (a *Adapter) RenderSlotMarker(id ir.SlotID) string {
	return fmt.Sprintf(`bf="%s"`, id)
}

func (a *Adapter) RenderCondMarker(id ir.SlotID) string {
	return fmt.Sprintf(`bf-c="%s"`, id)
}

// render dispatches on Kind, matching internal/ir's closed variant set with
// an exhaustive switch — adding a Kind means adding a case here, not a
// subclass.
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
	if fragmentNeedsScopeComment(n) {
		j.AddString("<!--bf-scope:" + ScopeToken + "-->")
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

// fragmentNeedsScopeComment mirrors the literal fragment-root seed scenario
// (§8 C): a fragment root always gets a leading scope comment, since there
// is no single element to carry an attribute.
func fragmentNeedsScopeComment(n *ir.Node) bool {
	return n.Kind == ir.KindFragment
}

func (a *Adapter) RenderElement(n *ir.Node) (string, error) {
	var j helpers.Joiner
	j.AddString("<")
	j.AddString(n.Tag)

	if n.NeedsScope {
		j.AddString(" ")
		j.AddString(a.RenderScopeMarker(ScopeToken))
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

// soleSlottedChild reports an element's only child when that child is a bare
// reactive Expression or Loop carrying its own slot. In that shape the
// element already exists as the single natural marker-bearing container
// (seed scenario A's `<span bf="s0">0</span>` — the span is literal source
// markup, not a synthesized wrapper), so the adapter borrows the child's
// slot for the element's own tag instead of nesting another marker one
// level deeper.
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
		val, _ := foldConstant(n.ExprText, nil)
		return escapeText(val), nil
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
			return "", &adapter.ErrUnsupported{Adapter: Name, Reason: "reference dialect has no spread attribute syntax for: " + *attr.Value}
		}
		if attr.Value != nil && ir.BooleanProperties[attr.Name] && *attr.Value == "false" {
			continue // boolean-present attrs are omitted, not written as name="false"
		}
		j.AddString(" ")
		if attr.Value == nil {
			j.AddString(attr.Name)
			continue
		}
		j.AddString(attr.Name)
		j.AddString(`="`)
		j.AddString(escapeAttr(*attr.Value))
		j.AddString(`"`)
	}
	return string(j.Done()), nil
}

// RenderExpression wraps a slotted reactive expression in a synthesized
// element carrying the bf attribute: the client script locates every slot
// with an attribute selector (scope.querySelector('[bf="sN"]')), which never
// matches an HTML comment node. A bare Expression reachable here (not
// absorbed by soleSlottedChild) has no literal enclosing element of its own
// — e.g. one of several reactive children mixed with other content — so the
// adapter has to manufacture one.
func (a *Adapter) RenderExpression(n *ir.Node) (string, error) {
	if n.HasSlot {
		val, _ := foldConstant(n.ExprText, nil)
		return fmt.Sprintf(`<span bf="%s">%s</span>`, n.SlotID, escapeText(val)), nil
	}
	return escapeText(n.ExprText), nil
}

func (a *Adapter) RenderConditional(n *ir.Node) (string, error) {
	branch := n.WhenFalse
	if truth, ok := foldConstant(n.Condition, nil); ok && truth == "true" {
		branch = n.WhenTrue
	}
	rendered, err := a.render(branch)
	if err != nil {
		return "", err
	}
	if !n.HasSlot {
		return rendered, nil
	}

	if branch != nil && branch.Kind == ir.KindElement {
		return a.renderElementWithCondMarker(branch, n.SlotID)
	}
	return fmt.Sprintf("<!--bf-c:%s-->%s<!--/bf-c:%s-->", n.SlotID, rendered, n.SlotID), nil
}

// renderElementWithCondMarker re-renders an element branch with a bf-c
// marker substituted for its usual bf slot marker, matching seed scenario B
// where the chosen branch's own tag carries the cond marker directly.
func (a *Adapter) renderElementWithCondMarker(n *ir.Node, condID ir.SlotID) (string, error) {
	var j helpers.Joiner
	j.AddString("<")
	j.AddString(n.Tag)
	if n.NeedsScope {
		j.AddString(" ")
		j.AddString(a.RenderScopeMarker(ScopeToken))
	}
	j.AddString(" ")
	j.AddString(a.RenderCondMarker(condID))

	attrText, err := a.renderAttributes(n.Attributes)
	if err != nil {
		return "", err
	}
	j.AddString(attrText)
	j.AddString(">")
	if ir.VoidElements[n.Tag] {
		return string(j.Done()), nil
	}
	for _, c := range n.Children {
		s, err := a.render(c)
		if err != nil {
			return "", err
		}
		j.AddString(s)
	}
	j.AddString("</")
	j.AddString(n.Tag)
	j.AddString(">")
	return string(j.Done()), nil
}

// RenderLoop renders a loop's body, wrapped in an element carrying the bf
// attribute so the client's querySelector('[bf="sN"]') can find it to drive
// reconcileList — the same attribute-selector contract RenderExpression
// satisfies, replacing the old <!--bf-loop:sN-->/<!--/bf-loop:sN--> comment
// pair that selector could never match.
func (a *Adapter) RenderLoop(n *ir.Node) (string, error) {
	rendered, err := a.renderLoopContent(n)
	if err != nil {
		return "", err
	}
	if !n.HasSlot {
		return rendered, nil
	}
	return fmt.Sprintf(`<span bf="%s">%s</span>`, n.SlotID, rendered), nil
}

// renderLoopContent produces the loop's body content without any wrapper of
// its own, for reuse both by RenderLoop (which adds the wrap) and by the
// sole-slotted-child collapse in RenderElement (which attaches the slot
// attribute to the enclosing element instead).
//
// When the base array is a literal known at compile time (spec §8 scenario
// E) and the body is a single child-component render, the loop unrolls into
// one placeholder per item instead of one generic template: each instance
// gets its own scope suffix and its own resolved prop values, matching the
// per-instance hydration scope a runtime would assign at mount time.
func (a *Adapter) renderLoopContent(n *ir.Node) (string, error) {
	var body *ir.Node
	if len(n.Children) > 0 {
		body = n.Children[0]
	}
	if n.IsStaticArray && len(n.StaticItems) > 0 && body != nil && body.Kind == ir.KindComponent {
		return a.renderStaticComponentInstances(n, body), nil
	}
	return a.render(body)
}

func (a *Adapter) renderStaticComponentInstances(loop, body *ir.Node) string {
	var j helpers.Joiner
	for i, itemText := range loop.StaticItems {
		fields := parseObjectLiteralFields(itemText)
		j.AddString(renderStaticComponentInstance(body, loop.ItemBinding, i, fields))
	}
	return string(j.Done())
}

// renderStaticComponentInstance emits one unrolled instance's structural
// placeholder: same vocabulary as RenderComponent's generic placeholder, but
// scoped to this item's index and carrying its resolved prop values instead
// of bare prop names, since every unrolled instance needs to be individually
// addressable and individually inspectable in a differential/golden run.
func renderStaticComponentInstance(n *ir.Node, itemBinding string, index int, fields map[string]string) string {
	var j helpers.Joiner
	j.AddString("<!--bf-component:")
	j.AddString(n.ComponentName)
	j.AddString(" ")
	j.AddString(fmt.Sprintf("%s_s%d", ScopeToken, index))

	names := make([]string, 0, len(n.Props))
	for _, p := range n.Props {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	for _, name := range names {
		j.AddString(" ")
		j.AddString(name)
		j.AddString(`="`)
		j.AddString(escapeAttr(resolveItemProp(n, name, itemBinding, fields)))
		j.AddString(`"`)
	}
	j.AddString("-->")
	return string(j.Done())
}

// resolveItemProp substitutes a `<item>.<field>` prop value with that
// field's literal text from the item's resolved object-literal fields;
// anything else (a string literal, a different expression shape) passes
// through unchanged.
func resolveItemProp(n *ir.Node, name, itemBinding string, fields map[string]string) string {
	for _, p := range n.Props {
		if p.Name != name || p.Value == nil {
			continue
		}
		v := strings.TrimSpace(*p.Value)
		prefix := itemBinding + "."
		if strings.HasPrefix(v, prefix) {
			if resolved, ok := fields[strings.TrimPrefix(v, prefix)]; ok {
				return resolved
			}
		}
		return v
	}
	return ""
}

// parseObjectLiteralFields reads a literal object's top-level `key: value`
// pairs from its source text (e.g. `{label:"Alpha"}`), for resolving a
// static array's per-item field values at compile time.
func parseObjectLiteralFields(text string) map[string]string {
	out := map[string]string{}
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return out
	}
	for _, part := range splitTopLevel(text[1:len(text)-1], ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := topLevelColon(part)
		if idx < 0 {
			continue
		}
		key := strings.Trim(strings.TrimSpace(part[:idx]), `"'`)
		val := strings.Trim(strings.TrimSpace(part[idx+1:]), `"'`)
		out[key] = val
	}
	return out
}

// splitTopLevel splits s on sep at bracket depth 0, so a `,` or `:` nested
// inside {}/()/[] never breaks apart a value that contains one.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func topLevelColon(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (a *Adapter) RenderComponent(n *ir.Node) (string, error) {
	// The reference adapter has no cross-component linkage at this layer
	// (components are independent compilation units, spec §3); it emits a
	// structural placeholder carrying the slot marker and prop names so a
	// differential/golden run can still detect structural drift.
	var j helpers.Joiner
	j.AddString("<!--bf-component:")
	j.AddString(n.ComponentName)
	if n.HasSlot {
		j.AddString(" ")
		j.AddString(string(n.SlotID))
	}
	names := make([]string, 0, len(n.Props))
	for _, p := range n.Props {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	for _, name := range names {
		j.AddString(" ")
		j.AddString(name)
	}
	j.AddString("-->")
	return string(j.Done()), nil
}

// foldConstant is the one allowed compile-time evaluation (spec §1
// Non-goals carve-out): resolve a signal getter call to its literal initial
// value when the expression is exactly "getter()" and the initial text is a
// JS literal. Returns ok=false when it can't be determined statically.
func foldConstant(expr string, signalInitials map[string]string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if signalInitials == nil {
		return "", false
	}
	if !strings.HasSuffix(expr, "()") {
		return "", false
	}
	name := strings.TrimSuffix(expr, "()")
	initial, ok := signalInitials[name]
	if !ok {
		return "", false
	}
	initial = strings.TrimSpace(initial)
	switch initial {
	case "true", "false":
		return initial, true
	}
	if strings.HasPrefix(initial, `"`) || strings.HasPrefix(initial, "'") {
		return strings.Trim(initial, `"'`), true
	}
	if _, err := fmt.Sscanf(initial, "%d", new(int)); err == nil {
		return initial, true
	}
	return "", false
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", `"`, "&quot;")
	return r.Replace(s)
}
