package parser

import (
	"strings"

	"github.com/barefootjs/bfc/internal/ast"
	"github.com/barefootjs/bfc/internal/lexer"
	"github.com/barefootjs/bfc/internal/logger"
)

// parseImport handles every import shape the analyzer needs to record:
//
//	import Default from "path"
//	import { a, b as c } from "path"
//	import Default, { a } from "path"
//	import * as ns from "path"
//	import type { T } from "path"
//	import "path"
func (p *parser) parseImport(i int) int {
	start := i
	i = skipKeyword(p.src, i, "import")

	typeOnly := false
	if hasKeywordAt(p.src, i, "type") {
		// `import type X` vs `import typeof`-style ambiguity doesn't exist in
		// this grammar subset; "type" right after "import" always means a
		// type-only import.
		after := skipKeyword(p.src, i, "type")
		if after < len(p.src) && p.src[after] != ',' {
			typeOnly = true
			i = after
		}
	}

	fromIdx := lexer.TopLevelIndex(p.src[i:], "from")
	var specText string
	if fromIdx < 0 {
		// Bare `import "path"` with no specifiers.
		specText = ""
	} else {
		specText = strings.TrimSpace(p.src[i : i+fromIdx])
		i += fromIdx
		i = skipKeyword(p.src, i, "from")
	}

	i = lexer.SkipWhitespaceAndComments(p.src, i)
	var source string
	if i < len(p.src) && (p.src[i] == '"' || p.src[i] == '\'') {
		quote := p.src[i]
		end := strings.IndexByte(p.src[i+1:], quote)
		if end >= 0 {
			source = p.src[i+1 : i+1+end]
			i = i + 1 + end + 1
		}
	}
	if i < len(p.src) && p.src[i] == ';' {
		i++
	}

	specs := parseImportSpecifiers(specText)
	p.file.Imports = append(p.file.Imports, ast.ImportDecl{
		Source:     source,
		Specifiers: specs,
		TypeOnly:   typeOnly,
		Loc:        p.loc(start),
	})
	return i
}

func parseImportSpecifiers(text string) []ast.ImportSpecifier {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var specs []ast.ImportSpecifier

	braceStart := strings.IndexByte(text, '{')
	head := text
	var braced string
	if braceStart >= 0 {
		head = strings.TrimSpace(text[:braceStart])
		braceEnd := strings.LastIndexByte(text, '}')
		if braceEnd > braceStart {
			braced = text[braceStart+1 : braceEnd]
		}
	}

	for _, part := range strings.Split(strings.TrimSuffix(head, ","), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "*") {
			name := strings.TrimSpace(strings.TrimPrefix(part, "*"))
			name = strings.TrimSpace(strings.TrimPrefix(name, "as"))
			specs = append(specs, ast.ImportSpecifier{Name: name, Namespace: true})
		} else {
			specs = append(specs, ast.ImportSpecifier{Name: part, IsDefault: true})
		}
	}

	if braced != "" {
		for _, part := range strings.Split(braced, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, alias := part, part
			if idx := strings.Index(part, " as "); idx >= 0 {
				name = strings.TrimSpace(part[:idx])
				alias = strings.TrimSpace(part[idx+4:])
			}
			specs = append(specs, ast.ImportSpecifier{Name: name, Alias: alias})
		}
	}

	return specs
}

// parseExportDefault handles `export default function Name(params) { body }`
// and `export default Name;` naming an earlier function declaration, which
// is adopted as the component. Any other default-export shape (e.g. an
// arrow function literal) is reported as an error, since the analyzer only
// needs one component per compilation unit and this is the form the
// fixtures and every example in the spec use.
func (p *parser) parseExportDefault(i int) int {
	start := i
	i = skipKeyword(p.src, i, "export")
	i = skipKeyword(p.src, i, "default")

	if hasKeywordAt(p.src, i, "function") {
		return p.parseFunctionDecl(i, true)
	}

	// `export default Identifier;` referring to an earlier local declaration.
	name, next := lexer.Identifier(p.src, i)
	next = lexer.SkipWhitespaceAndComments(p.src, next)
	if name != "" {
		for idx := range p.file.Locals {
			if p.file.Locals[idx].Name == name && p.file.Locals[idx].Kind == "function" {
				p.adoptLocalAsComponent(idx)
				break
			}
		}
		if next < len(p.src) && p.src[next] == ';' {
			next++
		}
		return next
	}

	p.errorAt(start, logger.ExtractAmbiguousProps, "unsupported default-export shape")
	return skipToTopLevelSemicolonOrNewline(p.src, start)
}

func (p *parser) adoptLocalAsComponent(idx int) {
	local := p.file.Locals[idx]
	decl := p.parseFunctionText(local.Name, local.Text, local.Loc)
	p.file.Component = decl
	p.file.Locals = append(p.file.Locals[:idx], p.file.Locals[idx+1:]...)
}

func (p *parser) parseLocalFunction(i int) int {
	return p.parseFunctionDecl(i, false)
}

// parseFunctionDecl parses `function Name(params) { body }` starting at the
// "function" keyword. If isComponent, the result becomes file.Component;
// otherwise it's appended to file.Locals verbatim.
func (p *parser) parseFunctionDecl(i int, isComponent bool) int {
	start := i
	i = skipKeyword(p.src, i, "function")
	name, next := lexer.Identifier(p.src, i)
	i = lexer.SkipWhitespaceAndComments(p.src, next)

	if i >= len(p.src) || p.src[i] != '(' {
		p.errorAt(start, logger.ParseUnexpectedToken, "expected '(' after function name")
		return skipToTopLevelSemicolonOrNewline(p.src, start)
	}
	paramsEnd := lexer.MatchingParenEnd(p.src, i)

	bodyStart := lexer.SkipWhitespaceAndComments(p.src, paramsEnd)
	// Skip an optional TypeScript return-type annotation (": Foo") before the body.
	if bodyStart < len(p.src) && p.src[bodyStart] == ':' {
		bodyStart = lexer.TopLevelIndex(p.src[bodyStart:], "{") + bodyStart
	}
	if bodyStart >= len(p.src) || p.src[bodyStart] != '{' {
		p.errorAt(start, logger.ParseUnexpectedToken, "expected '{' to start function body")
		return skipToTopLevelSemicolonOrNewline(p.src, start)
	}
	bodyEnd := lexer.MatchingBraceEnd(p.src, bodyStart)

	fullText := p.src[start:bodyEnd]
	if isComponent {
		p.file.Component = p.parseFunctionText(name, fullText, p.loc(start))
	} else {
		p.file.Locals = append(p.file.Locals, ast.LocalDecl{Name: name, Kind: "function", Text: fullText, Loc: p.loc(start)})
	}
	return bodyEnd
}

// parseFunctionText re-derives a ComponentDecl from a function's full source
// text (used both for the direct `export default function` form and for
// the `export default Name;` form referring to an earlier declaration).
func (p *parser) parseFunctionText(name, text string, loc logger.Loc) *ast.ComponentDecl {
	i := lexer.SkipWhitespaceAndComments(text, 0)
	i = skipKeyword(text, i, "function")
	_, next := lexer.Identifier(text, i)
	i = lexer.SkipWhitespaceAndComments(text, next)

	paramsStart := i
	paramsEnd := lexer.MatchingParenEnd(text, paramsStart)
	paramsRaw := strings.TrimSpace(text[paramsStart+1 : paramsEnd-1])

	bodyStart := lexer.SkipWhitespaceAndComments(text, paramsEnd)
	if bodyStart < len(text) && text[bodyStart] == ':' {
		braceIdx := lexer.TopLevelIndex(text[bodyStart:], "{")
		bodyStart += braceIdx
	}
	bodyEnd := lexer.MatchingBraceEnd(text, bodyStart)
	body := text[bodyStart+1 : bodyEnd-1]

	decl := &ast.ComponentDecl{Name: name, Loc: loc}
	parseParamsInto(decl, paramsRaw)
	decl.ReturnExprRaw = findReturnExpr(body)
	return decl
}

// parseParamsInto fills in the component's props shape: either an object
// pattern (`{ a, b, ...rest }: Props`) or a bare identifier (`props`).
func parseParamsInto(decl *ast.ComponentDecl, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	if raw[0] == '{' {
		end := lexer.MatchingBraceEnd(raw, 0)
		inner := raw[1 : end-1]
		for _, part := range splitTopLevelCommas(inner) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.HasPrefix(part, "...") {
				decl.HasRestProps = true
				decl.RestName = strings.TrimSpace(strings.TrimPrefix(part, "..."))
				continue
			}
			decl.Params = append(decl.Params, parseOneParam(part))
		}
		return
	}

	// Bare identifier, optionally with a type annotation: `props: Props`.
	name, next := lexer.Identifier(raw, 0)
	decl.BareParamName = name
	_ = next
}

func parseOneParam(text string) ast.Param {
	name := text
	defaultExpr := ""
	hasDefault := false
	if idx := lexer.TopLevelIndex(text, "="); idx >= 0 {
		name = strings.TrimSpace(text[:idx])
		defaultExpr = strings.TrimSpace(text[idx+1:])
		hasDefault = true
	}
	typ := ""
	if idx := lexer.TopLevelIndex(name, "?"); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}
	optional := strings.Contains(text[:len(text)-len(strings.TrimPrefix(text, name))+len(name)], "?") || strings.Contains(name+"?", "??")
	if idx := lexer.TopLevelIndex(name, ":"); idx >= 0 {
		typ = strings.TrimSpace(name[idx+1:])
		name = strings.TrimSpace(name[:idx])
	} else if idx := lexer.TopLevelIndex(text, ":"); idx >= 0 && strings.HasPrefix(text, name) {
		rest := text[len(name):]
		if cidx := lexer.TopLevelIndex(rest, ":"); cidx >= 0 && (len(rest) == 0 || rest[0] == '?' || rest[0] == ':') {
			typ = strings.TrimSpace(strings.Split(rest[cidx+1:], "=")[0])
		}
	}
	optional = strings.HasSuffix(strings.TrimSpace(strings.Split(text, ":")[0]), "?") || optional
	p := ast.Param{Name: strings.TrimSuffix(name, "?"), Type: typ, Optional: optional}
	if hasDefault {
		p.Default = defaultExpr
		p.HasValue = true
		p.Optional = true
	}
	return p
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// findReturnExpr locates the last top-level `return ...;` statement in a
// function body and returns its expression text. Components are expected to
// have exactly one markup-producing return; if there's more than one (e.g.
// early returns guarding on props), the last one — the common "fallthrough"
// render — wins.
func findReturnExpr(body string) string {
	depth := 0
	i := 0
	lastExpr := ""
	for i < len(body) {
		c := body[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j := i
			quote := c
			if quote == '`' {
				// reuse lexer's template skipping via SkipBalanced-compatible scan
				j = skipTemplateRaw(body, i)
			} else {
				j = i + 1
				for j < len(body) {
					if body[j] == '\\' {
						j += 2
						continue
					}
					if body[j] == quote {
						j++
						break
					}
					j++
				}
			}
			i = j
			continue
		case c == '(' || c == '{' || c == '[':
			depth++
		case c == ')' || c == '}' || c == ']':
			depth--
		case depth == 0 && hasKeywordAt(body, i, "return"):
			j := lexer.SkipWhitespaceAndComments(body, i+6)
			end := skipToTopLevelSemicolonOrNewline(body, j)
			expr := strings.TrimSpace(body[j:end])
			expr = strings.TrimSuffix(expr, ";")
			lastExpr = strings.TrimSpace(expr)
			i = end
			continue
		}
		i++
	}
	return lexer.TrimOuterParens(lastExpr)
}

func skipTemplateRaw(s string, i int) int {
	i++
	for i < len(s) {
		if s[i] == '\\' {
			i += 2
			continue
		}
		if s[i] == '`' {
			return i + 1
		}
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '{' {
			i = lexer.MatchingBraceEnd(s, i+1)
			continue
		}
		i++
	}
	return i
}
