package domains

import (
	"testing"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
)

func TestTermDomain(t *testing.T) {
	vt := decl.NewVariableTable()
	intVar := vt.Fresh("X", decl.VariableBody)
	intVar.Domain = decl.DomainInteger

	cases := []struct {
		name string
		term ast.Term
		want decl.Domain
	}{
		{"integer-literal", &ast.Integer{Value: 3}, decl.DomainInteger},
		{"special-integer", &ast.SpecialInteger{Kind: ast.Infimum}, decl.DomainInteger},
		{"string", &ast.String{Value: "a"}, decl.DomainGeneral},
		{"constant", &ast.Constant{Name: "c"}, decl.DomainGeneral},
		{"boolean", &ast.BooleanTerm{Value: true}, decl.DomainGeneral},
		{"unresolved-variable", &ast.Variable{Declaration: vt.Fresh("Y", decl.VariableBody)}, decl.DomainUnknown},
		{"resolved-variable", &ast.Variable{Declaration: intVar}, decl.DomainInteger},
		{"binary-op-mixed", &ast.BinaryOperation{Op: ast.OpAdd, Left: &ast.Integer{Value: 1}, Right: &ast.Constant{Name: "c"}}, decl.DomainGeneral},
		{"interval", &ast.Interval{From: &ast.Integer{Value: 1}, To: &ast.Integer{Value: 3}}, decl.DomainInteger},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := TermDomain(c.term); got != c.want {
				t.Errorf("TermDomain(%s) = %v, want %v", c.term.String(), got, c.want)
			}
		})
	}
}

func TestVariableDomainInComparison(t *testing.T) {
	vt := decl.NewVariableTable()
	x := vt.Fresh("X", decl.VariableBody)

	f := &ast.Comparison{Op: ast.OpEqual, Left: &ast.Variable{Declaration: x}, Right: &ast.Integer{Value: 1}}

	if got := VariableDomainIn(f, x); got != decl.DomainInteger {
		t.Errorf("VariableDomainIn = %v, want Integer", got)
	}
}

func TestVariableDomainInMembership(t *testing.T) {
	vt := decl.NewVariableTable()
	x := vt.Fresh("X", decl.VariableBody)

	f := &ast.In{
		Element: &ast.Variable{Declaration: x},
		Set:     &ast.Interval{From: &ast.Integer{Value: 1}, To: &ast.Integer{Value: 3}},
	}

	if got := VariableDomainIn(f, x); got != decl.DomainInteger {
		t.Errorf("VariableDomainIn = %v, want Integer", got)
	}
}

func TestVariableDomainInIgnoresUnrelatedPredicate(t *testing.T) {
	vt := decl.NewVariableTable()
	x := vt.Fresh("X", decl.VariableBody)

	p := decl.NewPredicateTable().Intern("p", 1)
	f := &ast.Predicate{Declaration: p, Arguments: []ast.Term{&ast.Variable{Declaration: x}}}

	if got := VariableDomainIn(f, x); got != decl.DomainUnknown {
		t.Errorf("VariableDomainIn across a bare predicate = %v, want Unknown", got)
	}
}

func TestDetectIntegerVariablesStrengthensQuantifiedVariable(t *testing.T) {
	vt := decl.NewVariableTable()
	x := vt.Fresh("X", decl.VariableHead)

	f := &ast.ForAll{
		Variables: []*decl.VariableDeclaration{x},
		Body: &ast.Comparison{
			Op:    ast.OpEqual,
			Left:  &ast.Variable{Declaration: x},
			Right: &ast.Integer{Value: 5},
		},
	}

	changed := DetectIntegerVariables(f)
	if !changed {
		t.Fatal("expected a change to be reported")
	}

	if x.Domain != decl.DomainInteger {
		t.Errorf("expected X's domain to strengthen to Integer, got %v", x.Domain)
	}
}

func TestDetectIntegerVariablesLeavesUnforcedVariableUnknown(t *testing.T) {
	vt := decl.NewVariableTable()
	x := vt.Fresh("X", decl.VariableHead)
	p := decl.NewPredicateTable().Intern("p", 1)

	f := &ast.Exists{
		Variables: []*decl.VariableDeclaration{x},
		Body:      &ast.Predicate{Declaration: p, Arguments: []ast.Term{&ast.Variable{Declaration: x}}},
	}

	if DetectIntegerVariables(f) {
		t.Error("expected no change when nothing forces an integer domain")
	}

	if x.Domain != decl.DomainUnknown {
		t.Errorf("expected X to remain Unknown, got %v", x.Domain)
	}
}

func TestInferAllConvergesAcrossTwoPasses(t *testing.T) {
	vt := decl.NewVariableTable()
	v := vt.Fresh("V", decl.VariableHead)
	x := vt.Fresh("X", decl.VariableHead)

	// forall V. (t(V) <-> exists X. (X = 1..3 and V = X))
	formula := &ast.ForAll{
		Variables: []*decl.VariableDeclaration{v},
		Body: &ast.Biconditional{
			Left: &ast.Predicate{Declaration: decl.NewPredicateTable().Intern("t", 1), Arguments: []ast.Term{&ast.Variable{Declaration: v}}},
			Right: &ast.Exists{
				Variables: []*decl.VariableDeclaration{x},
				Body: &ast.And{Operands: []ast.Formula{
					&ast.In{Element: &ast.Variable{Declaration: x}, Set: &ast.Interval{From: &ast.Integer{Value: 1}, To: &ast.Integer{Value: 3}}},
					&ast.Comparison{Op: ast.OpEqual, Left: &ast.Variable{Declaration: v}, Right: &ast.Variable{Declaration: x}},
				}},
			},
		},
	}

	InferAll([]ast.Formula{formula})

	if x.Domain != decl.DomainInteger {
		t.Errorf("expected X to strengthen to Integer, got %v", x.Domain)
	}

	if v.Domain != decl.DomainInteger {
		t.Errorf("expected V to strengthen to Integer on a later pass once X is resolved, got %v", v.Domain)
	}
}

func TestUnifyForTPTPCollapsesProgramAndIntegerToGeneral(t *testing.T) {
	vt := decl.NewVariableTable()
	a := vt.Fresh("A", decl.VariableHead)
	a.Domain = decl.DomainProgram
	b := vt.Fresh("B", decl.VariableHead)
	b.Domain = decl.DomainInteger
	c := vt.Fresh("C", decl.VariableHead)
	c.Domain = decl.DomainGeneral

	UnifyForTPTP(vt.All())

	if a.Domain != decl.DomainGeneral || b.Domain != decl.DomainGeneral {
		t.Errorf("expected Program and Integer domains to collapse to General, got %v, %v", a.Domain, b.Domain)
	}

	if c.Domain != decl.DomainGeneral {
		t.Errorf("expected an already-General domain to pass through unchanged, got %v", c.Domain)
	}
}
