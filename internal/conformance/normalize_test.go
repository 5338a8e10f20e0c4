package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCollapsesInterTagWhitespace(t *testing.T) {
	got := Normalize("<div>\n  <span>  hello   world  </span>\n</div>")
	assert.Equal(t, "<div><span> hello world </span></div>", got)
}

// The round-trip invariant (spec §8.7) holds because Indent's only whitespace
// insertions are between two adjacent tags and Normalize collapses exactly
// that whitespace back out.
func TestNormalizeRoundTripsThroughIndent(t *testing.T) {
	cases := []string{
		`<div bf-s="test"><br><hr><img src="test.png" alt="test"><input type="text"></div>`,
		`<div><section><article></article></section></div>`,
	}
	for _, h := range cases {
		assert.Equal(t, h, Normalize(Indent(h)), "round trip broke for %q", h)
	}
}
