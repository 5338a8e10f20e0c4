package lexer

import "testing"

func TestSkipWhitespaceAndComments(t *testing.T) {
	src := "  // line\n  /* block */  x"
	i := SkipWhitespaceAndComments(src, 0)
	if src[i] != 'x' {
		t.Fatalf("expected to land on 'x', got %q at %d", src[i], i)
	}
}

func TestMatchingParenEnd(t *testing.T) {
	src := "(a, (b, c), d)"
	end := MatchingParenEnd(src, 0)
	if end != len(src) {
		t.Fatalf("expected end %d, got %d", len(src), end)
	}
}

func TestMatchingParenEndIgnoresStringContents(t *testing.T) {
	src := `(")" + "(")`
	end := MatchingParenEnd(src, 0)
	if end != len(src) {
		t.Fatalf("expected end %d, got %d", len(src), end)
	}
}

func TestTopLevelIndex(t *testing.T) {
	src := "cond ? (a ? b : c) : d"
	idx := TopLevelIndex(src, "?")
	if src[idx:idx+1] != "?" || idx != 5 {
		t.Fatalf("expected top-level ? at 5, got %d", idx)
	}
}

func TestTrimOuterParens(t *testing.T) {
	got := TrimOuterParens("((a + b))")
	if got != "a + b" {
		t.Fatalf("got %q", got)
	}
	got = TrimOuterParens("(a) + (b)")
	if got != "(a) + (b)" {
		t.Fatalf("should not strip unbalanced wrap: got %q", got)
	}
}

func TestContainsCallTo(t *testing.T) {
	if !ContainsCallTo("count() + 1", "count") {
		t.Fatal("expected call match")
	}
	if ContainsCallTo("recount() + 1", "count") {
		t.Fatal("should not match as a substring of a longer identifier")
	}
}

func TestContainsIdentifier(t *testing.T) {
	if !ContainsIdentifier("props.name", "props") {
		t.Fatal("expected identifier match")
	}
	if ContainsIdentifier("myprops.name", "props") {
		t.Fatal("should not match as suffix of a longer identifier")
	}
}
