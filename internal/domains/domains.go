// Package domains implements C6: a monotone fixed-point refinement of
// variable declarations from domain Unknown to Integer wherever a
// completed formula forces an integer range (spec.md §4.6).
package domains

import (
	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
)

// TermDomain is termDomain from spec.md §4.6.
func TermDomain(t ast.Term) decl.Domain {
	switch n := t.(type) {
	case *ast.Integer:
		return decl.DomainInteger
	case *ast.SpecialInteger:
		// Spec.md §9 flags this as an open question in the original
		// source (marked with a TODO there); this implementation makes
		// the Integer classification an explicit decision, not a silent
		// default. See DESIGN.md.
		return decl.DomainInteger
	case *ast.BooleanTerm, *ast.String, *ast.Constant, *ast.Function:
		return decl.DomainGeneral
	case *ast.Variable:
		return n.Declaration.Domain
	case *ast.UnaryOperation:
		return TermDomain(n.Operand)
	case *ast.BinaryOperation:
		return combine(TermDomain(n.Left), TermDomain(n.Right))
	case *ast.Interval:
		return combine(TermDomain(n.From), TermDomain(n.To))
	default:
		return decl.DomainUnknown
	}
}

// combine merges two term domains: General dominates, then Integer, else
// Unknown. This is the join spec.md §4.6 uses for both TermDomain's
// binary-operation/interval case and VariableDomainIn's And/Or/Implies/
// Biconditional case.
func combine(a, b decl.Domain) decl.Domain {
	if a == decl.DomainGeneral || b == decl.DomainGeneral {
		return decl.DomainGeneral
	}

	if a == decl.DomainInteger || b == decl.DomainInteger {
		return decl.DomainInteger
	}

	return decl.DomainUnknown
}

// VariableDomainIn is variableDomainIn from spec.md §4.6: what formula f
// would force v to be, if anything.
func VariableDomainIn(f ast.Formula, v *decl.VariableDeclaration) decl.Domain {
	switch n := f.(type) {
	case *ast.Boolean, *ast.Predicate:
		return decl.DomainUnknown
	case *ast.Comparison:
		return sideDomain(n.Left, n.Right, v)
	case *ast.In:
		return sideDomain(n.Element, n.Set, v)
	case *ast.Not:
		return VariableDomainIn(n.Operand, v)
	case *ast.And:
		return combineAll(n.Operands, v)
	case *ast.Or:
		return combineAll(n.Operands, v)
	case *ast.Implies:
		return combine(VariableDomainIn(n.Antecedent, v), VariableDomainIn(n.Consequent, v))
	case *ast.Biconditional:
		return combine(VariableDomainIn(n.Left, v), VariableDomainIn(n.Right, v))
	case *ast.Exists:
		return VariableDomainIn(n.Body, v)
	case *ast.ForAll:
		return VariableDomainIn(n.Body, v)
	default:
		return decl.DomainUnknown
	}
}

func sideDomain(left, right ast.Term, v *decl.VariableDeclaration) decl.Domain {
	lv, lIsV := asVar(left)
	rv, rIsV := asVar(right)

	switch {
	case lIsV && lv == v && !(rIsV && rv == v):
		return TermDomain(right)
	case rIsV && rv == v && !(lIsV && lv == v):
		return TermDomain(left)
	default:
		return decl.DomainUnknown
	}
}

func asVar(t ast.Term) (*decl.VariableDeclaration, bool) {
	v, ok := t.(*ast.Variable)
	if !ok {
		return nil, false
	}

	return v.Declaration, true
}

func combineAll(fs []ast.Formula, v *decl.VariableDeclaration) decl.Domain {
	d := decl.DomainUnknown
	for _, f := range fs {
		d = combine(d, VariableDomainIn(f, v))
	}

	return d
}

// DetectIntegerVariables walks every ForAll/Exists in f and, for each
// quantified declaration still at domain Unknown, strengthens it to
// Integer iff the body forces Integer. It recurses into nested
// quantifiers and reports whether any declaration changed.
func DetectIntegerVariables(f ast.Formula) bool {
	changed := false

	switch n := f.(type) {
	case *ast.Not:
		changed = DetectIntegerVariables(n.Operand) || changed
	case *ast.And:
		for _, o := range n.Operands {
			changed = DetectIntegerVariables(o) || changed
		}
	case *ast.Or:
		for _, o := range n.Operands {
			changed = DetectIntegerVariables(o) || changed
		}
	case *ast.Implies:
		changed = DetectIntegerVariables(n.Antecedent) || changed
		changed = DetectIntegerVariables(n.Consequent) || changed
	case *ast.Biconditional:
		changed = DetectIntegerVariables(n.Left) || changed
		changed = DetectIntegerVariables(n.Right) || changed
	case *ast.Exists:
		changed = strengthen(n.Variables, n.Body) || changed
		changed = DetectIntegerVariables(n.Body) || changed
	case *ast.ForAll:
		changed = strengthen(n.Variables, n.Body) || changed
		changed = DetectIntegerVariables(n.Body) || changed
	}

	return changed
}

func strengthen(vars []*decl.VariableDeclaration, body ast.Formula) bool {
	changed := false

	for _, v := range vars {
		if v.Domain != decl.DomainUnknown {
			continue
		}

		if VariableDomainIn(body, v) == decl.DomainInteger {
			v.Domain = decl.DomainInteger
			changed = true
		}
	}

	return changed
}

// InferAll repeats DetectIntegerVariables over every completed formula
// until a full pass changes nothing. The domain lattice only strengthens
// Unknown -> Integer, so this terminates (spec.md §4.6).
func InferAll(formulas []ast.Formula) {
	for {
		changed := false

		for _, f := range formulas {
			changed = DetectIntegerVariables(f) || changed
		}

		if !changed {
			return
		}
	}
}

// UnifyForTPTP collapses the Program and Integer domains into General,
// the target-dialect adjustment spec.md §6's outputFormat flag requests
// for TPTP output (which has no standalone integer sort distinct from the
// general universe in this system's output).
func UnifyForTPTP(vars []*decl.VariableDeclaration) {
	for _, v := range vars {
		if v.Domain == decl.DomainProgram || v.Domain == decl.DomainInteger {
			v.Domain = decl.DomainGeneral
		}
	}
}
