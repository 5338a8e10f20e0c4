package parser

import (
	"strings"

	"github.com/barefootjs/bfc/internal/ast"
	"github.com/barefootjs/bfc/internal/lexer"
	"github.com/barefootjs/bfc/internal/logger"
)

// parseMarkup is the recursive-descent JSX reader. It is only ever called on
// the text of a component's return expression (and recursively on JSX found
// inside {...} expression children), never on general JS — so it can assume
// the text in front of it is either a JSX element/fragment or plain text.
func (p *parser) parseMarkup(src string, base int) *ast.Markup {
	i := lexer.SkipWhitespaceAndComments(src, 0)
	if i >= len(src) || src[i] != '<' {
		return nil
	}

	if i+1 < len(src) && src[i+1] == '>' {
		return p.parseFragment(src, i, base)
	}
	return p.parseElement(src, i, base)
}

func (p *parser) parseFragment(src string, i, base int) *ast.Markup {
	start := i
	i += 2 // past "<>"
	m := &ast.Markup{Kind: ast.MarkupFragment, Loc: p.loc(base + start)}
	children, end := p.parseChildren(src, i, base, "")
	m.Children = children
	_ = end
	return m
}

func (p *parser) parseElement(src string, i, base int) *ast.Markup {
	start := i
	i++ // past '<'
	tag, next := lexer.Identifier(src, i)
	i = next
	// Dotted tag names (`Foo.Bar`) and namespaced intrinsics aren't part of
	// this grammar; a bare identifier is all the spec's components use.

	m := &ast.Markup{Kind: ast.MarkupElement, Tag: tag, Loc: p.loc(base + start)}

	for {
		i = lexer.SkipWhitespaceAndComments(src, i)
		if i >= len(src) {
			p.errorAt(base+start, logger.ParseUnterminated, "unterminated element tag")
			return m
		}
		if src[i] == '/' && i+1 < len(src) && src[i+1] == '>' {
			i += 2
			return m // self-closing
		}
		if src[i] == '>' {
			i++
			break
		}
		attr, next := p.parseAttr(src, i, base)
		if next == i {
			i++
			continue
		}
		m.Attrs = append(m.Attrs, attr)
		i = next
	}

	children, end := p.parseChildren(src, i, base, tag)
	m.Children = children
	_ = end
	return m
}

func (p *parser) parseAttr(src string, i, base int) (ast.MarkupAttr, int) {
	start := i
	if src[i] == '{' {
		// spread: {...expr}
		end := lexer.MatchingBraceEnd(src, i)
		inner := strings.TrimSpace(src[i+1 : end-1])
		inner = strings.TrimSpace(strings.TrimPrefix(inner, "..."))
		return ast.MarkupAttr{IsSpread: true, ExprValue: &inner, Loc: p.loc(base + start)}, end
	}

	name, next := lexer.Identifier(src, i)
	i = next
	// kebab-case / namespaced attrs (data-*, aria-*) keep their dashes;
	// Identifier stops at '-', so stitch the rest on manually.
	for i < len(src) && src[i] == '-' {
		part, n := lexer.Identifier(src, i+1)
		name += "-" + part
		i = n
	}
	i = lexer.SkipWhitespaceAndComments(src, i)

	if i >= len(src) || src[i] != '=' {
		return ast.MarkupAttr{Name: name, Loc: p.loc(base + start)}, i // boolean attribute
	}
	i = lexer.SkipWhitespaceAndComments(src, i+1)

	switch {
	case i < len(src) && (src[i] == '"' || src[i] == '\''):
		quote := src[i]
		end := strings.IndexByte(src[i+1:], quote)
		val := src[i+1 : i+1+end]
		return ast.MarkupAttr{Name: name, StringValue: &val, Loc: p.loc(base + start)}, i + 1 + end + 1

	case i < len(src) && src[i] == '{':
		end := lexer.MatchingBraceEnd(src, i)
		val := strings.TrimSpace(src[i+1 : end-1])
		return ast.MarkupAttr{Name: name, ExprValue: &val, Loc: p.loc(base + start)}, end

	default:
		return ast.MarkupAttr{Name: name, Loc: p.loc(base + start)}, i
	}
}

// parseChildren reads markup/text/{expr} children up to the matching closing
// tag (`</tag>` or `</>`), returning the children and the index just past
// the closing tag.
func (p *parser) parseChildren(src string, i, base int, tag string) ([]*ast.Markup, int) {
	var children []*ast.Markup
	textStart := i

	flushText := func(end int) {
		raw := src[textStart:end]
		if strings.TrimSpace(raw) == "" {
			return
		}
		children = append(children, &ast.Markup{Kind: ast.MarkupText, Text: normalizeJSXText(raw), Loc: p.loc(base + textStart)})
	}

	for i < len(src) {
		switch {
		case src[i] == '<' && i+1 < len(src) && src[i+1] == '/':
			flushText(i)
			closeStart := i
			i += 2
			closedTag, next := lexer.Identifier(src, i)
			i = lexer.SkipWhitespaceAndComments(src, next)
			if i < len(src) && src[i] == '>' {
				i++
			}
			if closedTag != tag {
				p.log.AddWarning(p.source, logger.Range{Loc: p.loc(base + closeStart), Len: int32(i - closeStart)},
					logger.ParseUnexpectedToken, "mismatched closing tag")
			}
			return children, i

		case src[i] == '<':
			flushText(i)
			child := p.parseMarkup(src[i:], base+i)
			if child == nil {
				i++
				textStart = i
				continue
			}
			children = append(children, child)
			i = advancePastMarkup(src, i)
			textStart = i

		case src[i] == '{':
			flushText(i)
			end := lexer.MatchingBraceEnd(src, i)
			expr := strings.TrimSpace(src[i+1 : end-1])
			child := p.buildExprChild(expr, base+i+1)
			children = append(children, child)
			i = end
			textStart = i

		default:
			i++
		}
	}

	flushText(i)
	p.errorAt(base+i, logger.ParseUnterminated, "unterminated element: missing closing tag")
	return children, i
}

// buildExprChild wraps a `{expr}` child as raw ExprText; JSX inside the
// expression (e.g. `{cond && <Foo/>}`'s tail) is not parsed here. The
// transform phase does the real control-flow normalization (ternary/&&
// /map) over ExprText and parses the JSX branches itself, not this parser.
func (p *parser) buildExprChild(expr string, base int) *ast.Markup {
	return &ast.Markup{Kind: ast.MarkupExprChild, ExprText: expr, Loc: p.loc(base)}
}

// advancePastMarkup re-walks a child markup's text to find where it ends,
// since parseElement/parseFragment return a *Markup, not an end index. It
// mirrors parseElement/parseChildren's own traversal rules exactly.
func advancePastMarkup(src string, i int) int {
	depth := 0
	start := i
	for i < len(src) {
		switch {
		case strings.HasPrefix(src[i:], "</"):
			depth--
			j := i + 2
			for j < len(src) && src[j] != '>' {
				j++
			}
			i = j + 1
			if depth == 0 {
				return i
			}
		case src[i] == '<' && i+1 < len(src) && src[i+1] == '/':
			// handled above
			i++
		case src[i] == '<':
			// opening tag or fragment start
			depth++
			j := i + 1
			closeIdx := lexer.TopLevelIndex(src[j:], ">")
			if closeIdx < 0 {
				return len(src)
			}
			tagText := src[j : j+closeIdx]
			selfClosing := strings.HasSuffix(strings.TrimSpace(tagText), "/")
			i = j + closeIdx + 1
			if selfClosing {
				depth--
				if depth == 0 {
					return i
				}
			}
		case src[i] == '{':
			i = lexer.MatchingBraceEnd(src, i)
		case src[i] == '"' || src[i] == '\'':
			quote := src[i]
			j := i + 1
			for j < len(src) && src[j] != quote {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			i = j + 1
		default:
			i++
		}
		if depth == 0 && i > start {
			return i
		}
	}
	return i
}

// normalizeJSXText collapses JSX's whitespace-insignificant text runs the
// way every reference implementation does: runs of whitespace that span a
// newline collapse to a single space, and runs touching only a
// leading/trailing newline disappear entirely. Whitespace that does not
// touch a newline is kept as written.
func normalizeJSXText(raw string) string {
	lines := strings.Split(raw, "\n")
	if len(lines) == 1 {
		return raw
	}
	for i, line := range lines {
		if i > 0 {
			line = strings.TrimLeft(line, " \t\r")
		}
		if i < len(lines)-1 {
			line = strings.TrimRight(line, " \t\r")
		}
		lines[i] = line
	}
	var kept []string
	for _, line := range lines {
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}
