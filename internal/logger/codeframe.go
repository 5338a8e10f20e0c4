package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// TerminalWidth reports stdout's terminal width, falling back to a
// reasonable default when stdout isn't a real terminal (CI logs, pipes).
// FormatMsg accepts this width but neither wraps nor truncates to it.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

var (
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	infoStyle     = lipgloss.NewStyle().Bold(true)
	pathStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	suggestStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Italic(true)
)

func kindStyle(kind MsgKind) lipgloss.Style {
	switch kind {
	case Error:
		return errorStyle
	case Warning:
		return warningStyle
	default:
		return infoStyle
	}
}

// FormatMsg renders one diagnostic as a clang-style code frame: the file
// position, the offending line, a caret/tilde underline, and an optional
// suggestion line. useColor disables styling for non-TTY output (CI logs,
// the conformance harness's captured test output). Lines are printed at
// full length; width does not wrap or truncate them.
func FormatMsg(msg Msg, useColor bool, width int) string {
	var b strings.Builder

	kindText := fmt.Sprintf("%s [%s]", msg.Kind.String(), msg.Code)
	if useColor {
		kindText = kindStyle(msg.Kind).Render(kindText)
	}

	if msg.Location == nil {
		fmt.Fprintf(&b, "%s: %s\n", kindText, msg.Text)
		return b.String()
	}

	loc := msg.Location
	header := fmt.Sprintf("%s:%d:%d:", loc.File, loc.Line, loc.Column)
	if useColor {
		header = pathStyle.Render(header)
	}
	fmt.Fprintf(&b, "%s %s: %s\n", header, kindText, msg.Text)

	lineText := loc.LineText
	column := clamp(loc.Column, 0, len(lineText))
	length := clamp(loc.Length, 0, len(lineText)-column)
	if width < 20 {
		width = 80
	}

	margin := fmt.Sprintf("%d", loc.Line)
	pad := strings.Repeat(" ", len(margin))

	before := lineText[:column]
	marked := lineText[column : column+length]
	after := lineText[column+length:]
	if useColor {
		before = dimStyle.Render(before)
		marked = markerStyle.Render(marked)
		after = dimStyle.Render(after)
	}
	fmt.Fprintf(&b, "    %s │ %s%s%s\n", margin, before, marked, after)

	marker := "^"
	if length > 1 {
		marker = strings.Repeat("~", length)
	}
	indent := strings.Repeat(" ", len(loc.LineText[:column]))
	if useColor {
		marker = markerStyle.Render(marker)
	}
	fmt.Fprintf(&b, "    %s ╵ %s%s\n", pad, indent, marker)

	if loc.Suggestion != "" {
		suggestion := loc.Suggestion
		if useColor {
			suggestion = suggestStyle.Render(suggestion)
		}
		fmt.Fprintf(&b, "    %s   suggestion: %s\n", pad, suggestion)
	}

	return b.String()
}

// FormatMsgs renders every diagnostic and joins them with a blank line,
// matching the layout the CLI writes to stderr.
func FormatMsgs(msgs []Msg, useColor bool, width int) string {
	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(FormatMsg(msg, useColor, width))
		b.WriteByte('\n')
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
