// Package parser turns component source text into internal/ast.File: it
// locates imports, signal/memo/effect/onMount bindings, the exported
// component function, and the markup it returns. It is a narrow, hand-
// written recursive-descent scanner over the specific grammar the analyzer
// needs — not a general JavaScript/TypeScript parser. Anything the scanner
// does not need to understand structurally (a signal's initial-value
// expression, an effect body, a local helper function) is captured as
// source text and carried through unparsed, in keeping with the compiler's
// syntactic, not semantic, treatment of expressions.
package parser

import (
	"strings"

	"github.com/barefootjs/bfc/internal/ast"
	"github.com/barefootjs/bfc/internal/lexer"
	"github.com/barefootjs/bfc/internal/logger"
)

type parser struct {
	src    string
	source *logger.Source
	log    *logger.Log
	file   *ast.File
}

// Parse scans source into a File. Parse errors are appended to log with
// severity Error; later phases skip IR construction if file.Root is nil.
func Parse(source *logger.Source, log *logger.Log) *ast.File {
	p := &parser{src: source.Contents, source: source, log: log, file: &ast.File{}}
	p.parseFile()
	if p.file.Component != nil && p.file.Component.ReturnExprRaw != "" {
		p.file.Root = p.parseMarkup(p.file.Component.ReturnExprRaw, 0)
		if p.file.Root == nil {
			p.log.AddWarning(p.source, logger.Range{Loc: p.loc(0), Len: 1},
				logger.ExtractMissingMarkup, "component return expression is not markup")
		}
	}
	return p.file
}

// ParseMarkupFragment re-enters the markup grammar on an isolated snippet
// of JSX text — used by internal/transform when a ternary/&&/loop branch
// is itself a JSX literal. source/log are only used for diagnostics; the
// returned Markup's locations are relative to src, not the original file.
func ParseMarkupFragment(src string, source *logger.Source, log *logger.Log) *ast.Markup {
	p := &parser{src: src, source: source, log: log, file: &ast.File{}}
	return p.parseMarkup(src, 0)
}

func (p *parser) loc(i int) logger.Loc { return logger.Loc{Start: int32(i)} }

func (p *parser) errorAt(i int, code logger.Code, text string) {
	p.log.AddError(p.source, logger.Range{Loc: p.loc(i), Len: 1}, code, text)
}

func (p *parser) parseFile() {
	i := 0
	i = p.maybeParseClientDirective(i)

	for {
		i = lexer.SkipWhitespaceAndComments(p.src, i)
		if i >= len(p.src) {
			break
		}

		switch {
		case hasKeywordAt(p.src, i, "import"):
			i = p.parseImport(i)

		case hasKeywordAt(p.src, i, "export") && hasKeywordAt(p.src, skipKeyword(p.src, i, "export"), "default"):
			i = p.parseExportDefault(i)

		case hasKeywordAt(p.src, i, "const") || hasKeywordAt(p.src, i, "let"):
			i = p.parseConstOrLet(i)

		case hasKeywordAt(p.src, i, "function"):
			i = p.parseLocalFunction(i)

		case hasCallAt(p.src, i, "createEffect"):
			body, next := p.parseCallArg(i, "createEffect")
			p.file.Effects = append(p.file.Effects, ast.EffectDecl{Body: body, Loc: p.loc(i)})
			i = next

		case hasCallAt(p.src, i, "onMount"):
			body, next := p.parseCallArg(i, "onMount")
			p.file.OnMounts = append(p.file.OnMounts, ast.EffectDecl{Body: body, Loc: p.loc(i)})
			i = next

		default:
			// Unrecognized top-level statement: skip to the next top-level
			// semicolon or the end of input, and warn — this is the
			// "extraction warning" path, not a fatal parse error.
			next := skipToTopLevelSemicolonOrNewline(p.src, i)
			if next == i {
				i++
			} else {
				p.log.AddWarning(p.source, logger.Range{Loc: p.loc(i), Len: int32(next - i)},
					logger.ExtractUnrecognizedCall, "unrecognized top-level statement, skipped")
				i = next
			}
		}
	}

	if p.file.Component == nil {
		p.log.AddWarning(p.source, logger.Range{Loc: p.loc(0), Len: 1},
			logger.ExtractMissingMarkup, "no exported component function found")
	}
}

func (p *parser) maybeParseClientDirective(i int) int {
	j := lexer.SkipWhitespaceAndComments(p.src, i)
	if j >= len(p.src) || (p.src[j] != '"' && p.src[j] != '\'') {
		return i
	}
	quote := p.src[j]
	end := strings.IndexByte(p.src[j+1:], quote)
	if end < 0 {
		return i
	}
	literal := p.src[j+1 : j+1+end]
	if literal == "use client" {
		p.file.ClientDirective = true
		after := j + 1 + end + 1
		if after < len(p.src) && p.src[after] == ';' {
			after++
		}
		return after
	}
	return i
}

func hasKeywordAt(src string, i int, kw string) bool {
	if !strings.HasPrefix(src[i:], kw) {
		return false
	}
	end := i + len(kw)
	if end < len(src) && lexer.IsIdentPart(src[end]) {
		return false
	}
	return true
}

func skipKeyword(src string, i int, kw string) int {
	i += len(kw)
	return lexer.SkipWhitespaceAndComments(src, i)
}

func hasCallAt(src string, i int, name string) bool {
	if !hasKeywordAt(src, i, name) {
		return false
	}
	j := lexer.SkipWhitespaceAndComments(src, i+len(name))
	return j < len(src) && src[j] == '('
}

// parseCallArg parses `name(arg)` starting at i and returns the raw text of
// arg plus the index just past the call (including a trailing ';' if
// present).
func (p *parser) parseCallArg(i int, name string) (string, int) {
	openParen := lexer.SkipWhitespaceAndComments(p.src, i+len(name))
	closeParen := lexer.MatchingParenEnd(p.src, openParen)
	arg := strings.TrimSpace(p.src[openParen+1 : closeParen-1])
	next := lexer.SkipWhitespaceAndComments(p.src, closeParen)
	if next < len(p.src) && p.src[next] == ';' {
		next++
	}
	return arg, next
}

func skipToTopLevelSemicolonOrNewline(src string, i int) int {
	depth := 0
	j := i
	for j < len(src) {
		c := src[j]
		switch {
		case c == '(' || c == '{' || c == '[':
			depth++
		case c == ')' || c == '}' || c == ']':
			depth--
		case c == ';' && depth <= 0:
			return j + 1
		case c == '\n' && depth <= 0:
			return j + 1
		}
		j++
	}
	return len(src)
}
