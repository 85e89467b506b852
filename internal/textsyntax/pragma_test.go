package textsyntax

import "testing"

func TestExtractLanguagePragmaPresent(t *testing.T) {
	constraint, rest := ExtractLanguagePragma(`#language ">=1.0.0, <2.0.0".
q(X) :- p(X).`)

	if constraint != ">=1.0.0, <2.0.0" {
		t.Fatalf("unexpected constraint %q", constraint)
	}

	stmts, err := Parse(rest)
	if err != nil {
		t.Fatalf("Parse remaining source: %v", err)
	}

	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement after stripping the pragma, got %d", len(stmts))
	}
}

func TestExtractLanguagePragmaAbsent(t *testing.T) {
	src := "q(X) :- p(X)."

	constraint, rest := ExtractLanguagePragma(src)
	if constraint != "" {
		t.Fatalf("expected no constraint, got %q", constraint)
	}

	if rest != src {
		t.Fatalf("expected source to pass through unchanged, got %q", rest)
	}
}
