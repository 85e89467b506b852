package pipeline

import (
	"testing"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
	"github.com/aspfol/aspfol/internal/ferr"
	"github.com/aspfol/aspfol/internal/source"
)

func atom(name string, args ...source.Term) source.AtomLiteral {
	return source.AtomLiteral{Name: name, Args: args}
}

func v(name string) source.Term { return source.VariableTerm{Name: name} }

// TestFactFreeRule is scenario 1 of spec.md §8: q(X) :- p(X).
func TestFactFreeRule(t *testing.T) {
	stmts := []source.Statement{
		source.RuleStatement{Rule: source.Rule{
			Head: source.SingleAtomHead{Atom: atom("q", v("X"))},
			Body: []source.Literal{atom("p", v("X"))},
		}},
	}

	res, err := Run(Default(), stmts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var q, p *ast.Biconditional

	for _, f := range res.Formulas {
		fa, ok := f.(*ast.ForAll)
		if !ok {
			continue
		}

		switch body := fa.Body.(type) {
		case *ast.Biconditional:
			pred := body.Left.(*ast.Predicate)
			if pred.Declaration.Name == "q" {
				q = body
			} else if pred.Declaration.Name == "p" {
				p = body
			}
		}
	}

	if q == nil {
		t.Fatalf("expected a completed biconditional for q, got %v", formulaStrings(res.Formulas))
	}

	if _, ok := q.Right.(*ast.Predicate); !ok {
		t.Errorf("expected q's completion to simplify to a bare p(V), got %s", q.Right.String())
	}

	if p != nil {
		t.Errorf("p has no defining rule, expected its completion to be ∀V.¬p(V), not a biconditional: %s", p.String())
	}
}

// TestIntervalInHead is scenario 3 of spec.md §8: t(X) :- X = 1..3.
func TestIntervalInHead(t *testing.T) {
	stmts := []source.Statement{
		source.RuleStatement{Rule: source.Rule{
			Head: source.SingleAtomHead{Atom: atom("t", v("X"))},
			Body: []source.Literal{source.ComparisonLiteral{
				Op:   source.Equal,
				Left: v("X"),
				Right: source.IntervalTerm{
					From: source.Integer{Value: 1},
					To:   source.Integer{Value: 3},
				},
			}},
		}},
	}

	res, err := Run(Default(), stmts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var found bool

	for _, f := range res.Formulas {
		fa, ok := f.(*ast.ForAll)
		if !ok {
			continue
		}

		bc, ok := fa.Body.(*ast.Biconditional)
		if !ok {
			continue
		}

		if _, ok := bc.Right.(*ast.In); ok {
			found = true

			if fa.Variables[0].Domain != decl.DomainInteger {
				t.Errorf("expected head parameter to be inferred Integer, got %s", fa.Variables[0].Domain)
			}
		}
	}

	if !found {
		t.Fatalf("expected a ∀V.(t(V)↔V∈[1..3]) formula, got %v", formulaStrings(res.Formulas))
	}
}

// TestIntegrityConstraint is scenario 4 of spec.md §8: :- p(X), not q(X).
func TestIntegrityConstraint(t *testing.T) {
	stmts := []source.Statement{
		source.RuleStatement{Rule: source.Rule{
			Head: source.FalseHead{},
			Body: []source.Literal{
				atom("p", v("X")),
				source.NegatedAtomLiteral{Name: "q", Args: []source.Term{v("X")}},
			},
		}},
	}

	res, err := Run(Default(), stmts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var ic *ast.ForAll

	for _, f := range res.Formulas {
		fa, ok := f.(*ast.ForAll)
		if !ok {
			continue
		}

		if _, ok := fa.Body.(*ast.Not); ok {
			ic = fa
		}
	}

	if ic == nil {
		t.Fatalf("expected a ∀X.¬(...) integrity constraint, got %v", formulaStrings(res.Formulas))
	}
}

// TestUnusedShowWarning is scenario 5 of spec.md §8.
func TestUnusedShowWarning(t *testing.T) {
	ctx := Default()
	ctx.VisiblePredicateSignatures = []decl.SignatureEntry{{Name: "p", Arity: 1}}

	res, err := Run(ctx, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	unused := res.Warnings.All()
	if len(unused) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(unused))
	}

	if len(res.Formulas) != 1 {
		t.Fatalf("expected the lone ∀V.¬p(V) formula, got %v", formulaStrings(res.Formulas))
	}

	fa, ok := res.Formulas[0].(*ast.ForAll)
	if !ok {
		t.Fatalf("expected a ForAll, got %T", res.Formulas[0])
	}

	if _, ok := fa.Body.(*ast.Not); !ok {
		t.Errorf("expected ¬p(V), got %s", fa.Body.String())
	}
}

// TestDisjunctiveHeadRejected is scenario 6 of spec.md §8: a; b :- c.
func TestDisjunctiveHeadRejected(t *testing.T) {
	stmts := []source.Statement{
		source.RuleStatement{Rule: source.Rule{
			Head: source.DisjunctionHead{Atoms: []source.AtomLiteral{atom("a"), atom("b")}},
			Body: []source.Literal{atom("c")},
		}},
	}

	_, err := Run(Default(), stmts)
	if !ferr.Is(err, ferr.UnsupportedHead) {
		t.Fatalf("expected UnsupportedHead, got %v", err)
	}
}

func formulaStrings(fs []ast.Formula) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}

	return out
}
