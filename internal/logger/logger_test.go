package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationOrNilComputesLineAndColumn(t *testing.T) {
	source := &Source{PrettyPath: "f.bf", Contents: "line one\nline two\nline three"}
	loc := LocationOrNil(source, Range{Loc: Loc{Start: int32(len("line one\n") + 5)}, Len: 3})
	require.NotNil(t, loc)
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 5, loc.Column)
	assert.Equal(t, "line two", loc.LineText)
}

func TestLocationOrNilReturnsNilWithoutSource(t *testing.T) {
	assert.Nil(t, LocationOrNil(nil, Range{}))
}

func TestLogHasErrorsOnlyTrueForErrorKind(t *testing.T) {
	log := NewLog()
	source := &Source{PrettyPath: "f.bf", Contents: "abc"}
	log.AddWarning(source, Range{Loc: Loc{Start: 0}, Len: 1}, ExtractUnrecognizedCall, "warn")
	assert.False(t, log.HasErrors())
	log.AddError(source, Range{Loc: Loc{Start: 0}, Len: 1}, ExtractUnrecognizedCall, "err")
	assert.True(t, log.HasErrors())
}

func TestDoneSortsDeterministicallyByLocation(t *testing.T) {
	log := NewLog()
	source := &Source{PrettyPath: "f.bf", Contents: "one two three four five"}
	log.AddWarning(source, Range{Loc: Loc{Start: 20}, Len: 1}, ExtractUnrecognizedCall, "later")
	log.AddError(source, Range{Loc: Loc{Start: 4}, Len: 1}, ExtractUnrecognizedCall, "earlier")

	msgsA := log.Done()
	msgsB := log.Done()
	require.Len(t, msgsA, 2)
	assert.Equal(t, msgsA, msgsB, "Done must be stable across repeated calls")
	assert.Equal(t, "earlier", msgsA[0].Text)
	assert.Equal(t, "later", msgsA[1].Text)
}

func TestPlainTextIncludesCodeAndLocation(t *testing.T) {
	source := &Source{PrettyPath: "f.bf", Contents: "abc"}
	log := NewLog()
	log.AddError(source, Range{Loc: Loc{Start: 0}, Len: 1}, ExtractUnrecognizedCall, "broken")
	msgs := log.Done()
	require.Len(t, msgs, 1)
	text := msgs[0].PlainText()
	assert.Contains(t, text, "f.bf")
	assert.Contains(t, text, "broken")
	assert.Contains(t, text, string(ExtractUnrecognizedCall))
}
