package conformance

import "github.com/barefootjs/bfc/internal/compiler"

// Bootstrap renders every fixture via the reference adapter, normalizes and
// indents the result, and writes it back as the fixture's expectedHtml —
// the one-shot script spec §4.6 describes as the source of truth for
// per-fixture goldens. Fixtures that already opted out via SkipClient are
// still bootstrapped (SkipClient only controls the client-script runner).
func Bootstrap(fixtures []Fixture, ref compiler.Options) []Fixture {
	out := make([]Fixture, len(fixtures))
	for i, f := range fixtures {
		res := compiler.Compile(f.Source, f.ID+".bf", ref)
		html := Indent(Normalize(firstTemplate(res)))
		f.ExpectedHTML = &html
		out[i] = f
	}
	return out
}
