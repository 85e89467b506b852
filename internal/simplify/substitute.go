package simplify

import (
	"fmt"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
)

// substituteTerm replaces every occurrence of a Variable referencing x
// inside f's term positions with a fresh copy of t. Because variables are
// identified by declaration pointer rather than by name, two distinct
// logical variables can never collide at the pointer level; the only
// capture risk is textual, when some nested quantifier binds a
// declaration whose display Name matches a free variable's Name in t.
// renameCollisions resolves that before the replacement runs, per
// spec.md §4.7 rule 4's capture-avoidance requirement.
func substituteTerm(f ast.Formula, x *decl.VariableDeclaration, t ast.Term) ast.Formula {
	forbidden := make(map[string]bool)
	for _, v := range ast.FreeVariablesInTerm(t, nil) {
		forbidden[v.Name] = true
	}

	counter := 0
	renameCollisions(f, forbidden, &counter)

	return replaceTermInFormula(f, x, t)
}

func renameCollisions(f ast.Formula, forbidden map[string]bool, counter *int) {
	switch n := f.(type) {
	case *ast.Not:
		renameCollisions(n.Operand, forbidden, counter)
	case *ast.And:
		for _, o := range n.Operands {
			renameCollisions(o, forbidden, counter)
		}
	case *ast.Or:
		for _, o := range n.Operands {
			renameCollisions(o, forbidden, counter)
		}
	case *ast.Implies:
		renameCollisions(n.Antecedent, forbidden, counter)
		renameCollisions(n.Consequent, forbidden, counter)
	case *ast.Biconditional:
		renameCollisions(n.Left, forbidden, counter)
		renameCollisions(n.Right, forbidden, counter)
	case *ast.Exists:
		renameBoundIfColliding(n.Variables, forbidden, counter)
		renameCollisions(n.Body, forbidden, counter)
	case *ast.ForAll:
		renameBoundIfColliding(n.Variables, forbidden, counter)
		renameCollisions(n.Body, forbidden, counter)
	}
}

func renameBoundIfColliding(vars []*decl.VariableDeclaration, forbidden map[string]bool, counter *int) {
	for _, v := range vars {
		if forbidden[v.Name] {
			*counter++
			v.Name = fmt.Sprintf("U%d", *counter)
		}
	}
}

func replaceTermInFormula(f ast.Formula, x *decl.VariableDeclaration, t ast.Term) ast.Formula {
	switch n := f.(type) {
	case *ast.Predicate:
		args := make([]ast.Term, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = replaceTermInTerm(a, x, t)
		}

		return &ast.Predicate{Declaration: n.Declaration, Arguments: args}
	case *ast.Comparison:
		return &ast.Comparison{Op: n.Op, Left: replaceTermInTerm(n.Left, x, t), Right: replaceTermInTerm(n.Right, x, t)}
	case *ast.In:
		return &ast.In{Element: replaceTermInTerm(n.Element, x, t), Set: replaceTermInTerm(n.Set, x, t)}
	case *ast.Boolean:
		return &ast.Boolean{Value: n.Value}
	case *ast.Not:
		return &ast.Not{Operand: replaceTermInFormula(n.Operand, x, t)}
	case *ast.And:
		ops := make([]ast.Formula, len(n.Operands))
		for i, o := range n.Operands {
			ops[i] = replaceTermInFormula(o, x, t)
		}

		return &ast.And{Operands: ops}
	case *ast.Or:
		ops := make([]ast.Formula, len(n.Operands))
		for i, o := range n.Operands {
			ops[i] = replaceTermInFormula(o, x, t)
		}

		return &ast.Or{Operands: ops}
	case *ast.Implies:
		return &ast.Implies{
			Antecedent: replaceTermInFormula(n.Antecedent, x, t),
			Consequent: replaceTermInFormula(n.Consequent, x, t),
		}
	case *ast.Biconditional:
		return &ast.Biconditional{Left: replaceTermInFormula(n.Left, x, t), Right: replaceTermInFormula(n.Right, x, t)}
	case *ast.Exists:
		return &ast.Exists{Variables: n.Variables, Body: replaceTermInFormula(n.Body, x, t)}
	case *ast.ForAll:
		return &ast.ForAll{Variables: n.Variables, Body: replaceTermInFormula(n.Body, x, t)}
	default:
		return f
	}
}

func replaceTermInTerm(term ast.Term, x *decl.VariableDeclaration, t ast.Term) ast.Term {
	switch n := term.(type) {
	case *ast.Variable:
		if n.Declaration == x {
			return ast.CopyTerm(t)
		}

		return n
	case *ast.Function:
		args := make([]ast.Term, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = replaceTermInTerm(a, x, t)
		}

		return &ast.Function{Name: n.Name, Arguments: args}
	case *ast.BinaryOperation:
		return &ast.BinaryOperation{Op: n.Op, Left: replaceTermInTerm(n.Left, x, t), Right: replaceTermInTerm(n.Right, x, t)}
	case *ast.UnaryOperation:
		return &ast.UnaryOperation{Op: n.Op, Operand: replaceTermInTerm(n.Operand, x, t)}
	case *ast.Interval:
		return &ast.Interval{From: replaceTermInTerm(n.From, x, t), To: replaceTermInTerm(n.To, x, t)}
	default:
		return term
	}
}
