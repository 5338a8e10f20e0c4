// Package logger implements the diagnostic model shared by every phase of
// the compile pipeline: the analyzer, the IR builder, the adapters and the
// client-script generator all report through the same Msg shape so that the
// CLI (and the conformance harness) can format them uniformly.
package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Loc is a 0-based byte offset from the start of a Source's contents.
type Loc struct {
	Start int32
}

// Range is a Loc plus a byte length, used for anything wider than a point
// (an identifier, an expression, an attribute).
type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 { return r.Loc.Start + r.Len }

// Source is one compilation unit's source text plus the path used to
// identify it in diagnostics.
type Source struct {
	PrettyPath string
	Contents   string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start : r.Loc.Start+r.Len]
}

// MsgKind is the severity of a diagnostic. The compiler never escalates an
// Info to a Warning or a Warning to an Error on its own; each phase picks
// the kind that matches the error taxonomy in the diagnostics design (parse
// errors, extraction warnings, unsupported-expression errors, ambiguous-
// reactivity notes, adapter-incapability errors).
type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		panic("unreachable MsgKind")
	}
}

// Code is a stable, never-renumbered identifier for a diagnostic. Stability
// matters because tooling (editors, CI annotations) keys off of it.
type Code string

// Location mirrors the wire shape described for CompileResult.errors:
// 1-indexed lines, 0-indexed columns, a start position plus a byte Length.
type Location struct {
	File       string
	Line       int // 1-based
	Column     int // 0-based, in bytes
	Length     int // in bytes
	LineText   string
	Suggestion string
}

type Msg struct {
	Kind       MsgKind
	Code       Code
	Text       string
	Location   *Location
	Suggestion string
}

// SortableMsgs lets Done() return diagnostics in a deterministic order —
// required by the determinism invariant: two compiles of the same source
// must produce byte-identical error lists too, not just byte-identical
// artifacts.
type SortableMsgs []Msg

func (a SortableMsgs) Len() int      { return len(a) }
func (a SortableMsgs) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a SortableMsgs) Less(i, j int) bool {
	ai, aj := a[i], a[j]
	if ai.Location == nil || aj.Location == nil {
		return ai.Location == nil && aj.Location != nil
	}
	if ai.Location.File != aj.Location.File {
		return ai.Location.File < aj.Location.File
	}
	if ai.Location.Line != aj.Location.Line {
		return ai.Location.Line < aj.Location.Line
	}
	if ai.Location.Column != aj.Location.Column {
		return ai.Location.Column < aj.Location.Column
	}
	if ai.Kind != aj.Kind {
		return ai.Kind < aj.Kind
	}
	return ai.Text < aj.Text
}

// Log accumulates diagnostics for a single compile. Unlike esbuild's
// terminal-streaming Log, a compile's diagnostics are collected in memory
// and returned as part of CompileResult; printing them is the CLI's job
// (see internal/logger/codeframe.go).
type Log struct {
	mu   sync.Mutex
	msgs []Msg
}

func NewLog() *Log {
	return &Log{}
}

func (log *Log) AddMsg(msg Msg) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.msgs = append(log.msgs, msg)
}

func (log *Log) AddError(source *Source, r Range, code Code, text string) {
	log.AddMsg(Msg{Kind: Error, Code: code, Text: text, Location: LocationOrNil(source, r)})
}

func (log *Log) AddErrorWithSuggestion(source *Source, r Range, code Code, text, suggestion string) {
	loc := LocationOrNil(source, r)
	if loc != nil {
		loc.Suggestion = suggestion
	}
	log.AddMsg(Msg{Kind: Error, Code: code, Text: text, Location: loc, Suggestion: suggestion})
}

func (log *Log) AddWarning(source *Source, r Range, code Code, text string) {
	log.AddMsg(Msg{Kind: Warning, Code: code, Text: text, Location: LocationOrNil(source, r)})
}

func (log *Log) AddInfo(source *Source, r Range, code Code, text string) {
	log.AddMsg(Msg{Kind: Info, Code: code, Text: text, Location: LocationOrNil(source, r)})
}

func (log *Log) HasErrors() bool {
	log.mu.Lock()
	defer log.mu.Unlock()
	for _, msg := range log.msgs {
		if msg.Kind == Error {
			return true
		}
	}
	return false
}

// Done returns every diagnostic collected so far, sorted deterministically.
func (log *Log) Done() []Msg {
	log.mu.Lock()
	defer log.mu.Unlock()
	sorted := append(SortableMsgs{}, log.msgs...)
	sort.Stable(sorted)
	return []Msg(sorted)
}

func computeLineAndColumn(contents string, offset int) (lineCount, columnCount, lineStart, lineEnd int) {
	if offset > len(contents) {
		offset = len(contents)
	}
	var prevCodePoint rune
	for i, codePoint := range contents[:offset] {
		switch codePoint {
		case '\n':
			lineStart = i + 1
			if prevCodePoint != '\r' {
				lineCount++
			}
		case '\r':
			lineStart = i + 1
			lineCount++
		}
		prevCodePoint = codePoint
	}

	lineEnd = len(contents)
loop:
	for i, codePoint := range contents[offset:] {
		switch codePoint {
		case '\r', '\n':
			lineEnd = offset + i
			break loop
		}
	}

	columnCount = offset - lineStart
	return
}

// LocationOrNil converts a byte Range within Source into a line/column
// Location suitable for the public error shape. Returns nil if there is no
// source to anchor the diagnostic to (e.g. a whole-compile-level error).
func LocationOrNil(source *Source, r Range) *Location {
	if source == nil {
		return nil
	}
	lineCount, columnCount, lineStart, lineEnd := computeLineAndColumn(source.Contents, int(r.Loc.Start))
	return &Location{
		File:     source.PrettyPath,
		Line:     lineCount + 1,
		Column:   columnCount,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

// EndLocation computes the location of the end of a range, for diagnostics
// that report a {start, end} pair rather than a single point.
func EndLocation(source *Source, r Range) *Location {
	return LocationOrNil(source, Range{Loc: Loc{Start: r.End()}})
}

func (msg Msg) PlainText() string {
	if msg.Location == nil {
		return fmt.Sprintf("%s: %s", msg.Kind, msg.Text)
	}
	return fmt.Sprintf("%s:%d:%d: %s [%s]: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Kind, msg.Code, msg.Text)
}

// JoinMsgs renders a plain-text rollup, one PlainText line per diagnostic.
func JoinMsgs(msgs []Msg) string {
	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(msg.PlainText())
		b.WriteByte('\n')
	}
	return b.String()
}
