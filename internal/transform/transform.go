// Package transform walks the parser's raw markup tree and produces an
// internal/ir.Node tree: it classifies each expression position as
// reactive or static, allocates slot IDs in a deterministic order (a node's
// descendants are numbered before the node itself), and
// normalizes JSX's control-flow sugar (ternaries, `&&`, `.map()` chains)
// into IR Conditional/Loop nodes. It never builds a general expression AST
// — reactivity is a syntactic, conservative over-approximation on purpose
// (see internal/lexer), because the runtime tolerates a no-op effect on a
// dependency that never actually changes.
package transform

import (
	"strings"

	"github.com/barefootjs/bfc/internal/analyzer"
	"github.com/barefootjs/bfc/internal/ast"
	"github.com/barefootjs/bfc/internal/ir"
	"github.com/barefootjs/bfc/internal/lexer"
	"github.com/barefootjs/bfc/internal/logger"
	"github.com/barefootjs/bfc/internal/parser"
)

type builder struct {
	signalGetters []string
	memoNames     []string
	propsNames    []string
	propsBinding  string

	counter       int
	scopeAssigned bool
	locals        map[string]string

	log    *logger.Log
	source *logger.Source
}

// Build converts an analyzer.Context into a complete ComponentIR: metadata
// carried through unchanged, root node built and slotted.
func Build(ctx *analyzer.Context, log *logger.Log, source *logger.Source) *ir.ComponentIR {
	out := &ir.ComponentIR{Version: ir.CurrentVersion, Meta: ctx.Meta}
	if ctx.Root == nil {
		return out
	}

	b := &builder{log: log, source: source, locals: map[string]string{}}
	for _, s := range ctx.Meta.Signals {
		b.signalGetters = append(b.signalGetters, s.Getter)
	}
	for _, m := range ctx.Meta.Memos {
		b.memoNames = append(b.memoNames, m.Name)
	}
	b.propsBinding = ctx.Meta.PropsBinding
	for _, p := range ctx.Meta.PropsParams {
		b.propsNames = append(b.propsNames, p.Name)
	}
	for _, l := range ctx.Meta.Locals {
		if l.Kind == "const" {
			b.locals[l.Name] = l.Text
		}
	}

	// A fragment root's scope lives only on its own leading comment marker
	// (renderFragment's scope comment); pre-marking scopeAssigned here keeps
	// buildElement from also handing NeedsScope to the first element child.
	if ctx.Root.Kind == ast.MarkupFragment {
		b.scopeAssigned = true
	}

	out.Root = b.buildMarkup(ctx.Root)
	out.SlotCount = b.counter
	return out
}

// isReactive reports whether expr syntactically references a signal
// getter, a memo, or the component's props — the spec's one and only
// reactivity rule (§4.2): conservative, call/identifier text matching,
// never a dataflow analysis.
func (b *builder) isReactive(expr string) bool {
	for _, name := range b.signalGetters {
		if lexer.ContainsCallTo(expr, name) {
			return true
		}
	}
	for _, name := range b.memoNames {
		if lexer.ContainsCallTo(expr, name) {
			return true
		}
	}
	if b.propsBinding != "" {
		if lexer.ContainsIdentifier(expr, b.propsBinding) {
			return true
		}
	}
	for _, name := range b.propsNames {
		if lexer.ContainsIdentifier(expr, name) {
			return true
		}
	}
	return false
}

func (b *builder) allocSlot() ir.SlotID {
	id := ir.SlotID("s" + itoa(b.counter))
	b.counter++
	return id
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// buildMarkup dispatches on the raw markup's kind. isFirstElement scope
// assignment is tracked on the builder (scopeAssigned), not passed down,
// since a fragment root must defer needsScope to its first *element*
// child regardless of nesting depth.
func (b *builder) buildMarkup(m *ast.Markup) *ir.Node {
	if m == nil {
		return nil
	}
	switch m.Kind {
	case ast.MarkupText:
		return ir.NewText(m.Text, m.Loc)
	case ast.MarkupFragment:
		return b.buildFragment(m)
	case ast.MarkupExprChild:
		return b.buildExprChild(m)
	case ast.MarkupElement:
		if m.IsComponentTag() {
			return b.buildComponent(m)
		}
		return b.buildElement(m)
	}
	return nil
}

func (b *builder) buildFragment(m *ast.Markup) *ir.Node {
	n := ir.NewFragment(m.Loc)
	for _, c := range m.Children {
		n.Children = append(n.Children, b.buildMarkup(c))
	}
	return n
}

func (b *builder) buildElement(m *ast.Markup) *ir.Node {
	n := ir.NewElement(m.Tag, m.Loc)
	if !b.scopeAssigned {
		n.NeedsScope = true
		b.scopeAssigned = true
	}

	for _, a := range m.Attrs {
		b.applyAttr(n, a)
	}

	reactiveChild := false
	for _, c := range m.Children {
		child := b.buildMarkup(c)
		if child == nil {
			continue
		}
		n.Children = append(n.Children, child)
		if childIsReactive(child) {
			reactiveChild = true
		}
	}

	if len(n.Events) > 0 || n.HasRef || hasDynamicAttr(n.Attributes) || reactiveChild {
		n.SlotID = b.allocSlot()
		n.HasSlot = true
	}
	return n
}

// childIsReactive reports whether a child forces its *enclosing* element to
// carry its own extra slot. A reactive Conditional swaps its whole branch out
// from under the parent, so the parent needs an addressable marker of its
// own. A bare reactive Expression, Loop, or Component child already carries
// its own slot and is rendered through it directly (the adapter collapses a
// sole such child onto the parent's own tag instead of nesting); giving the
// parent a second, redundant slot would double the marker seed scenario A
// shows as a single `bf="sN"` attribute.
func childIsReactive(n *ir.Node) bool {
	return n.Kind == ir.KindConditional && n.Reactive
}

func hasDynamicAttr(attrs []ir.Attribute) bool {
	for _, a := range attrs {
		if a.Dynamic {
			return true
		}
	}
	return false
}

func (b *builder) applyAttr(n *ir.Node, a ast.MarkupAttr) {
	name := normalizeClassAttr(a.Name)

	if a.IsSpread {
		v := *a.ExprValue
		n.Attributes = append(n.Attributes, ir.Attribute{Name: "...", Value: &v, Dynamic: true, Loc: a.Loc})
		return
	}
	if name == "ref" && a.ExprValue != nil {
		n.RefExpr = *a.ExprValue
		n.HasRef = true
		return
	}
	if strings.HasPrefix(name, "on") && len(name) > 2 && isUpper(name[2]) && a.ExprValue != nil {
		eventName := strings.ToLower(name[2:3]) + name[3:]
		n.Events = append(n.Events, ir.Event{Name: eventName, Handler: *a.ExprValue, Loc: a.Loc})
		return
	}

	switch {
	case a.StringValue != nil:
		v := *a.StringValue
		n.Attributes = append(n.Attributes, ir.Attribute{Name: name, Value: &v, LiteralSource: true, Loc: a.Loc})
	case a.ExprValue != nil:
		v := *a.ExprValue
		n.Attributes = append(n.Attributes, ir.Attribute{Name: name, Value: &v, Dynamic: b.isReactive(v), Loc: a.Loc})
	default:
		n.Attributes = append(n.Attributes, ir.Attribute{Name: name, Value: nil, Loc: a.Loc})
	}
}

func normalizeClassAttr(name string) string {
	if name == "className" {
		return "class"
	}
	return name
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func (b *builder) buildComponent(m *ast.Markup) *ir.Node {
	n := &ir.Node{Kind: ir.KindComponent, ComponentName: m.Tag, Loc: m.Loc}
	reactive := false
	for _, a := range m.Attrs {
		if a.IsSpread {
			v := *a.ExprValue
			n.Props = append(n.Props, ir.Prop{Name: "...", Value: &v, Dynamic: true, Loc: a.Loc})
			reactive = true
			continue
		}
		var v *string
		dyn := false
		if a.StringValue != nil {
			v = a.StringValue
		} else if a.ExprValue != nil {
			v = a.ExprValue
			dyn = b.isReactive(*a.ExprValue)
		}
		if dyn {
			reactive = true
		}
		n.Props = append(n.Props, ir.Prop{Name: a.Name, Value: v, Dynamic: dyn, Loc: a.Loc})
	}
	for _, c := range m.Children {
		child := b.buildMarkup(c)
		if child != nil {
			n.Children = append(n.Children, child)
		}
	}
	if reactive {
		n.SlotID = b.allocSlot()
		n.HasSlot = true
	}
	return n
}

// buildExprChild normalizes the three control-flow shapes a `{expr}` child
// can take (ternary, `&&`, `.map()` chain) and otherwise treats the
// position as a plain reactive/static expression.
func (b *builder) buildExprChild(m *ast.Markup) *ir.Node {
	expr := strings.TrimSpace(m.ExprText)

	if qIdx := topLevelTernaryQuestion(expr); qIdx >= 0 {
		return b.buildTernary(expr, qIdx, m.Loc)
	}
	if andIdx := lexer.TopLevelIndex(expr, "&&"); andIdx >= 0 && !strings.Contains(expr[:andIdx], "?") {
		return b.buildLogicalAnd(expr, andIdx, m.Loc)
	}
	if loop := b.tryBuildLoop(expr, m.Loc); loop != nil {
		return loop
	}

	reactive := b.isReactive(expr)
	n := ir.NewExpression(expr, reactive, m.Loc)
	if reactive {
		n.SlotID = b.allocSlot()
		n.HasSlot = true
	}
	return n
}

// topLevelTernaryQuestion finds the "?" of a top-level ternary, being
// careful not to match JSX's optional-chaining "?." or a nested expression.
func topLevelTernaryQuestion(expr string) int {
	idx := lexer.TopLevelIndex(expr, "?")
	if idx < 0 {
		return -1
	}
	if idx+1 < len(expr) && (expr[idx+1] == '.' || expr[idx+1] == '?') {
		return -1
	}
	// must have a matching top-level ":" after it
	if lexer.TopLevelIndex(expr[idx+1:], ":") < 0 {
		return -1
	}
	return idx
}

func (b *builder) buildTernary(expr string, qIdx int, loc logger.Loc) *ir.Node {
	cond := strings.TrimSpace(expr[:qIdx])
	rest := expr[qIdx+1:]
	colonIdx := lexer.TopLevelIndex(rest, ":")
	trueText := strings.TrimSpace(rest[:colonIdx])
	falseText := strings.TrimSpace(rest[colonIdx+1:])

	n := &ir.Node{Kind: ir.KindConditional, Condition: cond, Loc: loc}
	n.Reactive = b.isReactive(cond)
	n.WhenTrue = b.buildBranch(trueText, loc)
	n.WhenFalse = b.buildBranch(falseText, loc)
	if n.Reactive {
		n.SlotID = b.allocSlot()
		n.HasSlot = true
	}
	return n
}

func (b *builder) buildLogicalAnd(expr string, andIdx int, loc logger.Loc) *ir.Node {
	cond := strings.TrimSpace(expr[:andIdx])
	trueText := strings.TrimSpace(expr[andIdx+2:])

	n := &ir.Node{Kind: ir.KindConditional, Condition: cond, Loc: loc}
	n.Reactive = b.isReactive(cond)
	n.WhenTrue = b.buildBranch(trueText, loc)
	n.WhenFalse = ir.NewExpression("null", false, loc)
	if n.Reactive {
		n.SlotID = b.allocSlot()
		n.HasSlot = true
	}
	return n
}

// buildBranch builds one ternary/&& arm: it may be a JSX literal (re-enters
// the parser's markup grammar via a fresh lexical scan) or a plain
// expression.
func (b *builder) buildBranch(text string, loc logger.Loc) *ir.Node {
	text = lexer.TrimOuterParens(text)
	if strings.HasPrefix(text, "<") {
		if m := parser.ParseMarkupFragment(text, b.source, b.log); m != nil {
			return b.buildMarkup(m)
		}
	}
	reactive := b.isReactive(text)
	return ir.NewExpression(text, reactive, loc)
}

func (b *builder) buildLoopBody(text string, loc logger.Loc) *ir.Node {
	text = lexer.TrimOuterParens(strings.TrimSpace(text))
	if strings.HasPrefix(text, "<") {
		if m := parser.ParseMarkupFragment(text, b.source, b.log); m != nil {
			return b.buildMarkup(m)
		}
	}
	reactive := b.isReactive(text)
	return ir.NewExpression(text, reactive, loc)
}

// chainCall is one `.name(arg)` link in a method chain, e.g. the `.filter`
// or `.map` in `items.filter(f).map(g)`.
type chainCall struct {
	name string
	arg  string
}

// parseMethodChain splits expr into a base expression and the top-level
// `.name(arg)` calls that follow it. Only depth-0 dots count, so nested
// calls inside an argument never get mis-split.
func parseMethodChain(expr string) (base string, calls []chainCall) {
	firstDot := lexer.TopLevelIndex(expr, ".")
	if firstDot < 0 {
		return expr, nil
	}
	base = strings.TrimSpace(expr[:firstDot])
	rest := expr[firstDot:]

	for len(rest) > 0 && rest[0] == '.' {
		j := 1
		name, next := lexer.Identifier(rest, j)
		if name == "" {
			break
		}
		j = next
		j = lexer.SkipWhitespaceAndComments(rest, j)
		if j >= len(rest) || rest[j] != '(' {
			break
		}
		end := lexer.MatchingParenEnd(rest, j)
		arg := strings.TrimSpace(rest[j+1 : end-1])
		calls = append(calls, chainCall{name: name, arg: arg})

		tail := rest[end:]
		tail = strings.TrimSpace(tail)
		if !strings.HasPrefix(tail, ".") {
			break
		}
		rest = tail
	}
	return base, calls
}

// parseArrayLiteralItems splits a literal array's source text (e.g.
// `[{label:"Alpha"},{label:"Beta"}]`, captured verbatim as a LocalBinding's
// Text by the parser) into its top-level element texts, for seed scenario
// E's compile-time unrolling of a static `.map()` call. Returns nil if text
// isn't a bracketed array literal.
func parseArrayLiteralItems(text string) []string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil
	}
	var items []string
	for _, part := range splitTopLevelCommas(text[1 : len(text)-1]) {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// splitTopLevelCommas splits s on commas that aren't nested inside
// {}/()/[], the same bracket-depth approach internal/parser uses for
// argument lists, applied here to array-literal elements instead.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// tryBuildLoop recognizes `array.map(fn)`, optionally preceded by
// `.filter(pred)` and/or `.sort(cmp)` in the chain (spec §4.2). Returns nil
// if expr isn't this shape, so the caller falls through to plain-expression
// handling.
func (b *builder) tryBuildLoop(expr string, loc logger.Loc) *ir.Node {
	base, calls := parseMethodChain(expr)
	if len(calls) == 0 {
		return nil
	}

	var mapCall *chainCall
	var filterArg, sortArg string
	hasFilter, hasSort := false, false
	for i := range calls {
		c := calls[i]
		switch c.name {
		case "map":
			if mapCall == nil {
				mapCall = &calls[i]
			}
		case "filter":
			filterArg = c.arg
			hasFilter = true
		case "sort":
			sortArg = c.arg
			hasSort = true
		default:
			return nil // not a recognized loop chain
		}
	}
	if mapCall == nil {
		return nil
	}

	itemName, indexName, hasIndex, bodyText, isBlock := parseArrowCallback(mapCall.arg)
	if itemName == "" {
		return nil
	}

	n := &ir.Node{
		Kind: ir.KindLoop, Loc: loc,
		ArrayExpr:   base,
		ItemBinding: itemName,
	}
	if hasIndex {
		n.IndexBinding = indexName
		n.HasIndexBinding = true
	}
	if hasFilter {
		n.FilterPredicate = b.buildFilterClause(filterArg, loc)
	}
	if hasSort {
		n.SortComparator = sortArg
		n.HasSort = true
	}
	n.IsStaticArray = !b.isReactive(base) && !hasFilter && !hasSort
	if n.IsStaticArray {
		if text, ok := b.locals[base]; ok {
			n.StaticItems = parseArrayLiteralItems(text)
		}
	}

	var bodyNode *ir.Node
	if isBlock {
		bodyNode = b.buildLoopBody(findReturnInBlock(bodyText), loc)
	} else {
		bodyNode = b.buildLoopBody(bodyText, loc)
	}
	if bodyNode != nil && bodyNode.Kind == ir.KindElement {
		for _, a := range bodyNode.Attributes {
			if a.Name == "key" && a.Value != nil {
				n.KeyExpr = *a.Value
				n.HasKeyExpr = true
			}
		}
	}
	n.Children = []*ir.Node{bodyNode}

	n.SlotID = b.allocSlot()
	n.HasSlot = true
	return n
}

// parseArrowCallback splits `item => expr` / `(item, index) => { ... }`
// into its parameter names and body text.
func parseArrowCallback(fn string) (itemName, indexName string, hasIndex bool, body string, isBlock bool) {
	arrowIdx := lexer.TopLevelIndex(fn, "=>")
	if arrowIdx < 0 {
		return "", "", false, "", false
	}
	paramsText := strings.TrimSpace(fn[:arrowIdx])
	paramsText = lexer.TrimOuterParens(paramsText)

	var names []string
	for _, part := range strings.Split(paramsText, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 {
		return "", "", false, "", false
	}
	itemName = names[0]
	if len(names) > 1 {
		indexName = names[1]
		hasIndex = true
	}

	body = strings.TrimSpace(fn[arrowIdx+2:])
	if strings.HasPrefix(body, "{") {
		return itemName, indexName, hasIndex, body, true
	}
	return itemName, indexName, hasIndex, lexer.TrimOuterParens(body), false
}

// findReturnInBlock pulls the expression out of a `{ ...; return expr; }`
// block body, for a map callback with a block form.
func findReturnInBlock(block string) string {
	inner := block
	if strings.HasPrefix(inner, "{") {
		end := lexer.MatchingBraceEnd(inner, 0)
		inner = inner[1 : end-1]
	}
	idx := lexer.TopLevelIndex(inner, "return")
	if idx < 0 {
		return ""
	}
	rest := inner[idx+len("return"):]
	if semi := lexer.TopLevelIndex(rest, ";"); semi >= 0 {
		rest = rest[:semi]
	}
	return strings.TrimSpace(rest)
}

// buildFilterClause recognizes the block-body predicate grammar from the
// design notes: `const x = y` aliases, a chain of
// `if (lhs === "literal") return expr` comparisons, and a final return.
// A block-body statement of any other kind is reported as an
// AdapterFilterBodyShape error with a suggestion.
func (b *builder) buildFilterClause(fn string, loc logger.Loc) *ir.FilterClause {
	itemName, _, _, body, isBlock := parseArrowCallback(fn)
	fc := &ir.FilterClause{ParamName: itemName}
	if !isBlock {
		fc.FinalReturn = body
		return fc
	}

	inner := body
	if strings.HasPrefix(inner, "{") {
		end := lexer.MatchingBraceEnd(inner, 0)
		inner = inner[1 : end-1]
	}

	for _, stmt := range splitStatements(inner) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		switch {
		case strings.HasPrefix(stmt, "const ") || strings.HasPrefix(stmt, "let "):
			rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(stmt, "const"), "let"))
			eq := lexer.TopLevelIndex(rest, "=")
			if eq < 0 {
				continue
			}
			fc.Aliases = append(fc.Aliases, ir.FilterAlias{
				Name:  strings.TrimSpace(rest[:eq]),
				Value: strings.TrimSpace(rest[eq+1:]),
			})
		case strings.HasPrefix(stmt, "if"):
			fc.Clauses = append(fc.Clauses, parseIfReturn(stmt))
		case strings.HasPrefix(stmt, "return"):
			fc.FinalReturn = strings.TrimSpace(strings.TrimPrefix(stmt, "return"))
		default:
			b.log.AddErrorWithSuggestion(b.source, logger.Range{Loc: loc, Len: 1}, logger.AdapterFilterBodyShape,
				"unsupported statement in filter block body: "+stmt,
				"mark this expression client-only or compute the filtered list beforehand")
		}
	}
	return fc
}

// parseIfReturn recognizes `if (lhs === "literal") return expr` and its
// negated form `if (lhs !== "literal") return expr`.
func parseIfReturn(stmt string) ir.FilterComparison {
	parenStart := strings.IndexByte(stmt, '(')
	if parenStart < 0 {
		return ir.FilterComparison{}
	}
	parenEnd := lexer.MatchingParenEnd(stmt, parenStart)
	cond := stmt[parenStart+1 : parenEnd-1]

	negate := false
	opIdx := lexer.TopLevelIndex(cond, "===")
	if opIdx < 0 {
		opIdx = lexer.TopLevelIndex(cond, "!==")
		negate = opIdx >= 0
	}
	var lhs, literal string
	if opIdx >= 0 {
		opLen := 3
		lhs = strings.TrimSpace(cond[:opIdx])
		literal = strings.TrimSpace(cond[opIdx+opLen:])
		literal = strings.Trim(literal, `"'`)
	}

	rest := strings.TrimSpace(stmt[parenEnd:])
	rest = strings.TrimPrefix(rest, "return")
	return ir.FilterComparison{Lhs: lhs, Literal: literal, Negate: negate, Return: strings.TrimSpace(rest)}
}

func splitStatements(body string) []string {
	var out []string
	depth := 0
	last := 0
	i := 0
	for i < len(body) {
		c := body[i]
		switch c {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case ';':
			if depth == 0 {
				out = append(out, body[last:i])
				last = i + 1
			}
		}
		i++
	}
	if strings.TrimSpace(body[last:]) != "" {
		out = append(out, body[last:])
	}
	return out
}
