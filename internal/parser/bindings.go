package parser

import (
	"strings"

	"github.com/barefootjs/bfc/internal/ast"
	"github.com/barefootjs/bfc/internal/lexer"
	"github.com/barefootjs/bfc/internal/logger"
)

// parseConstOrLet handles the three binding shapes the analyzer cares about:
//
//	const [get, set] = createSignal(initial)
//	const name = createMemo(computation)
//	const name = <anything else>        (kept as a LocalDecl, text verbatim)
func (p *parser) parseConstOrLet(i int) int {
	start := i
	kw := "const"
	if hasKeywordAt(p.src, i, "let") {
		kw = "let"
	}
	i = skipKeyword(p.src, i, kw)

	if i < len(p.src) && p.src[i] == '[' {
		return p.parseSignalBinding(start, i)
	}

	name, next := lexer.Identifier(p.src, i)
	j := lexer.SkipWhitespaceAndComments(p.src, next)

	typ := ""
	if j < len(p.src) && p.src[j] == ':' {
		j = lexer.SkipWhitespaceAndComments(p.src, j+1)
		typeStart := j
		for j < len(p.src) && p.src[j] != '=' {
			j++
		}
		typ = strings.TrimSpace(p.src[typeStart:j])
	}

	if j >= len(p.src) || p.src[j] != '=' {
		// Destructured or uninitialized binding outside this grammar's
		// concrete scope: keep the raw text as an opaque local.
		end := skipToTopLevelSemicolonOrNewline(p.src, start)
		p.file.Locals = append(p.file.Locals, ast.LocalDecl{Name: name, Kind: kw, Text: p.src[start:end], Loc: p.loc(start)})
		return end
	}
	j = lexer.SkipWhitespaceAndComments(p.src, j+1)

	if hasCallAt(p.src, j, "createMemo") {
		openParen := lexer.SkipWhitespaceAndComments(p.src, j+len("createMemo"))
		closeParen := lexer.MatchingParenEnd(p.src, openParen)
		computation := strings.TrimSpace(p.src[openParen+1 : closeParen-1])
		next := lexer.SkipWhitespaceAndComments(p.src, closeParen)
		if next < len(p.src) && p.src[next] == ';' {
			next++
		}
		p.file.Memos = append(p.file.Memos, ast.MemoDecl{Name: name, Computation: computation, Type: typ, Loc: p.loc(start)})
		return next
	}

	end := skipToTopLevelSemicolonOrNewline(p.src, j)
	value := strings.TrimSpace(strings.TrimSuffix(p.src[j:end], ";"))
	p.file.Locals = append(p.file.Locals, ast.LocalDecl{Name: name, Kind: kw, Text: value, Loc: p.loc(start)})
	return end
}

// parseSignalBinding handles `const [get, set] = createSignal(initial)`,
// where bracketStart points at the '['.
func (p *parser) parseSignalBinding(start, bracketStart int) int {
	bracketEnd := lexer.SkipBalanced(p.src, bracketStart, '[', ']')
	inner := p.src[bracketStart+1 : bracketEnd-1]
	parts := splitTopLevelCommas(inner)
	getter, setter := "", ""
	if len(parts) > 0 {
		getter = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		setter = strings.TrimSpace(parts[1])
	}

	j := lexer.SkipWhitespaceAndComments(p.src, bracketEnd)

	typ := ""
	if j < len(p.src) && p.src[j] == ':' {
		j = lexer.SkipWhitespaceAndComments(p.src, j+1)
		typeStart := j
		depth := 0
		for j < len(p.src) {
			c := p.src[j]
			if c == '<' || c == '[' || c == '(' {
				depth++
			} else if c == '>' || c == ']' || c == ')' {
				depth--
			} else if c == '=' && depth == 0 {
				break
			}
			j++
		}
		typ = strings.TrimSpace(p.src[typeStart:j])
	}

	if j >= len(p.src) || p.src[j] != '=' {
		end := skipToTopLevelSemicolonOrNewline(p.src, start)
		p.log.AddWarning(p.source, logger.Range{Loc: p.loc(start), Len: int32(end - start)},
			logger.ExtractUnrecognizedCall, "array-destructured binding is not a signal, skipped")
		return end
	}
	j = lexer.SkipWhitespaceAndComments(p.src, j+1)

	if !hasCallAt(p.src, j, "createSignal") {
		end := skipToTopLevelSemicolonOrNewline(p.src, j)
		p.log.AddWarning(p.source, logger.Range{Loc: p.loc(start), Len: int32(end - start)},
			logger.ExtractUnrecognizedCall, "array-destructured binding is not a signal, skipped")
		return end
	}

	openParen := lexer.SkipWhitespaceAndComments(p.src, j+len("createSignal"))
	closeParen := lexer.MatchingParenEnd(p.src, openParen)
	initial := strings.TrimSpace(p.src[openParen+1 : closeParen-1])
	next := lexer.SkipWhitespaceAndComments(p.src, closeParen)
	if next < len(p.src) && p.src[next] == ';' {
		next++
	}

	p.file.Signals = append(p.file.Signals, ast.SignalDecl{
		Getter: getter, Setter: setter, Initial: initial, Type: typ, Loc: p.loc(start),
	})
	return next
}
