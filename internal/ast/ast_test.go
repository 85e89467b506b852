package ast

import (
	"testing"

	"github.com/aspfol/aspfol/internal/decl"
)

func TestIsPrimitive(t *testing.T) {
	cases := []struct {
		name string
		term Term
		want bool
	}{
		{"integer", &Integer{Value: 1}, true},
		{"constant", &Constant{Name: "a"}, true},
		{"binary-op", &BinaryOperation{Op: OpAdd, Left: &Integer{Value: 1}, Right: &Integer{Value: 2}}, false},
		{"interval", &Interval{From: &Integer{Value: 1}, To: &Integer{Value: 3}}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsPrimitive(c.term); got != c.want {
				t.Errorf("IsPrimitive(%s) = %v, want %v", c.term.String(), got, c.want)
			}
		})
	}
}

func TestEqualTermVariableIdentity(t *testing.T) {
	vt := decl.NewVariableTable()
	x := vt.Fresh("X", decl.VariableBody)
	y := vt.Fresh("Y", decl.VariableBody)

	if !EqualTerm(&Variable{Declaration: x}, &Variable{Declaration: x}) {
		t.Error("expected variables over the same declaration to be equal")
	}

	if EqualTerm(&Variable{Declaration: x}, &Variable{Declaration: y}) {
		t.Error("expected variables over distinct declarations to be unequal")
	}
}

func TestCopyTermIsDeepAndIndependent(t *testing.T) {
	vt := decl.NewVariableTable()
	x := vt.Fresh("X", decl.VariableBody)

	orig := &Function{Name: "f", Arguments: []Term{&Variable{Declaration: x}, &Integer{Value: 2}}}
	copied := CopyTerm(orig).(*Function)

	if copied == orig {
		t.Fatal("CopyTerm returned the same pointer")
	}

	if !EqualTerm(orig, copied) {
		t.Error("copy should be structurally equal to the original")
	}

	copied.Arguments[1] = &Integer{Value: 99}
	if orig.Arguments[1].(*Integer).Value != 2 {
		t.Error("mutating the copy mutated the original")
	}

	if v, ok := copied.Arguments[0].(*Variable); !ok || v.Declaration != x {
		t.Error("copy of a Variable must keep pointing at the same declaration")
	}
}

func TestFreeVariablesRespectsQuantifierScope(t *testing.T) {
	vt := decl.NewVariableTable()
	pt := decl.NewPredicateTable()

	x := vt.Fresh("X", decl.VariableBody)
	y := vt.Fresh("Y", decl.VariableBody)
	p := pt.Intern("p", 1)
	q := pt.Intern("q", 1)

	body := &And{Operands: []Formula{
		&Predicate{Declaration: p, Arguments: []Term{&Variable{Declaration: x}}},
		&Predicate{Declaration: q, Arguments: []Term{&Variable{Declaration: y}}},
	}}
	f := &Exists{Variables: []*decl.VariableDeclaration{x}, Body: body}

	free := FreeVariables(f)
	if len(free) != 1 || free[0] != y {
		t.Errorf("FreeVariables = %v, want [%v]", free, y)
	}

	closed := &ForAll{Variables: []*decl.VariableDeclaration{y}, Body: f}
	if !IsClosed(closed) {
		t.Error("expected fully quantified formula to be closed")
	}
}

func TestCopyFormulaDeep(t *testing.T) {
	pt := decl.NewPredicateTable()
	p := pt.Intern("p", 1)

	orig := &And{Operands: []Formula{
		&Predicate{Declaration: p, Arguments: []Term{&Integer{Value: 1}}},
		&Boolean{Value: true},
	}}
	copied := CopyFormula(orig).(*And)

	if !EqualFormula(orig, copied) {
		t.Error("copy should be structurally equal")
	}

	copied.Operands[1] = &Boolean{Value: false}
	if orig.Operands[1].(*Boolean).Value != true {
		t.Error("mutating copy mutated original")
	}
}
