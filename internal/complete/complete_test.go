package complete

import (
	"testing"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/rules"
	"github.com/aspfol/aspfol/internal/source"
)

func atom(name string, args ...source.Term) source.AtomLiteral {
	return source.AtomLiteral{Name: name, Args: args}
}

func TestRunFoldsSingleDefinitionIntoBiconditional(t *testing.T) {
	tr := rules.NewTranslator()

	rule := source.Rule{
		Head: source.SingleAtomHead{Atom: atom("q", source.VariableTerm{Name: "X"})},
		Body: []source.Literal{atom("p", source.VariableTerm{Name: "X"})},
	}

	if err := tr.TranslateStatement(0, source.RuleStatement{Rule: rule}); err != nil {
		t.Fatalf("TranslateStatement: %v", err)
	}

	formulas := Run(tr)

	var found bool

	for _, f := range formulas {
		fa, ok := f.(*ast.ForAll)
		if !ok {
			continue
		}

		bc, ok := fa.Body.(*ast.Biconditional)
		if !ok {
			continue
		}

		pred, ok := bc.Left.(*ast.Predicate)
		if ok && pred.Declaration.Name == "q" {
			found = true
		}
	}

	if !found {
		t.Error("expected one forall-closed biconditional for q/1")
	}
}

func TestRunEmitsUniversalNegationForUndefinedPredicate(t *testing.T) {
	tr := rules.NewTranslator()
	tr.Predicates.Intern("p", 1)

	formulas := Run(tr)

	var found bool

	for _, f := range formulas {
		fa, ok := f.(*ast.ForAll)
		if !ok {
			continue
		}

		not, ok := fa.Body.(*ast.Not)
		if !ok {
			continue
		}

		pred, ok := not.Operand.(*ast.Predicate)
		if ok && pred.Declaration.Name == "p" {
			found = true
		}
	}

	if !found {
		t.Error("expected forall V. not p(V) for a predicate with no definitions")
	}
}

func TestRunOrdersPredicatesDeterministically(t *testing.T) {
	tr := rules.NewTranslator()
	tr.Predicates.Intern("z", 1)
	tr.Predicates.Intern("a", 1)
	tr.Predicates.Intern("a", 2)

	formulas := Run(tr)

	names := make([]string, 0, len(formulas))

	for _, f := range formulas {
		fa, ok := f.(*ast.ForAll)
		if !ok {
			continue
		}

		switch body := fa.Body.(type) {
		case *ast.Not:
			if pred, ok := body.Operand.(*ast.Predicate); ok {
				names = append(names, pred.Declaration.Name)
			}
		case *ast.Biconditional:
			if pred, ok := body.Left.(*ast.Predicate); ok {
				names = append(names, pred.Declaration.Name)
			}
		}
	}

	want := []string{"a", "a", "z"}
	if len(names) != len(want) {
		t.Fatalf("expected %d completion formulas, got %d: %v", len(want), len(names), names)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("formula %d: got predicate %q, want %q (in (name,arity) order)", i, names[i], want[i])
		}
	}
}

func TestRunAuditsUnusedShow(t *testing.T) {
	tr := rules.NewTranslator()

	if err := tr.TranslateStatement(0, source.ShowStatement{Signatures: []source.Signature{{Name: "p", Arity: 1}}}); err != nil {
		t.Fatalf("TranslateStatement(#show): %v", err)
	}

	Run(tr)

	if tr.Warnings.Empty() {
		t.Fatal("expected an unused-show warning to be recorded")
	}

	all := tr.Warnings.All()
	if len(all) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(all))
	}
}

func TestRunDisjoinsMultipleDefinitions(t *testing.T) {
	tr := rules.NewTranslator()

	rule1 := source.Rule{
		Head: source.SingleAtomHead{Atom: atom("q", source.VariableTerm{Name: "X"})},
		Body: []source.Literal{atom("p", source.VariableTerm{Name: "X"})},
	}
	rule2 := source.Rule{
		Head: source.SingleAtomHead{Atom: atom("q", source.VariableTerm{Name: "X"})},
		Body: []source.Literal{atom("r", source.VariableTerm{Name: "X"})},
	}

	if err := tr.TranslateStatement(0, source.RuleStatement{Rule: rule1}); err != nil {
		t.Fatalf("TranslateStatement: %v", err)
	}

	if err := tr.TranslateStatement(1, source.RuleStatement{Rule: rule2}); err != nil {
		t.Fatalf("TranslateStatement: %v", err)
	}

	formulas := Run(tr)

	for _, f := range formulas {
		fa, ok := f.(*ast.ForAll)
		if !ok {
			continue
		}

		bc, ok := fa.Body.(*ast.Biconditional)
		if !ok {
			continue
		}

		pred, ok := bc.Left.(*ast.Predicate)
		if !ok || pred.Declaration.Name != "q" {
			continue
		}

		or, ok := bc.Right.(*ast.Or)
		if !ok || len(or.Operands) != 2 {
			t.Fatalf("expected q's two definitions to be disjoined, got %#v", bc.Right)
		}

		return
	}

	t.Fatal("expected to find q's completion formula")
}
