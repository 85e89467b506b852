// Package simplify implements C7: the equivalence-preserving rewrite
// rules of spec.md §4.7, applied bottom-up and iterated to a fixed point.
package simplify

import (
	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
)

// Formula simplifies f to a fixed point: every rule in spec.md §4.7's
// normative set is applied bottom-up, repeatedly, until a pass makes no
// change.
func Formula(f ast.Formula) ast.Formula {
	for {
		next, changed := step(f)
		f = next

		if !changed {
			return f
		}
	}
}

func step(f ast.Formula) (ast.Formula, bool) {
	switch n := f.(type) {
	case *ast.Boolean:
		return n, false
	case *ast.Predicate:
		return n, false
	case *ast.Comparison:
		return simplifyComparison(n)
	case *ast.In:
		return n, false
	case *ast.Not:
		return simplifyNot(n)
	case *ast.And:
		return simplifyAnd(n)
	case *ast.Or:
		return simplifyOr(n)
	case *ast.Implies:
		ante, c1 := step(n.Antecedent)
		cons, c2 := step(n.Consequent)

		return &ast.Implies{Antecedent: ante, Consequent: cons}, c1 || c2
	case *ast.Biconditional:
		left, c1 := step(n.Left)
		right, c2 := step(n.Right)

		return &ast.Biconditional{Left: left, Right: right}, c1 || c2
	case *ast.Exists:
		return simplifyExists(n)
	case *ast.ForAll:
		return simplifyForAll(n)
	default:
		return f, false
	}
}

// simplifyComparison is rule 3: literal-to-literal comparisons evaluate
// to a Boolean, as do t = t and t != t over structurally equal terms.
func simplifyComparison(n *ast.Comparison) (ast.Formula, bool) {
	if v, ok := evalComparison(n.Op, n.Left, n.Right); ok {
		return &ast.Boolean{Value: v}, true
	}

	return n, false
}

// simplifyNot is rules 1 (¬⊤→⊥, ¬⊥→⊤) and 6 (double negation).
func simplifyNot(n *ast.Not) (ast.Formula, bool) {
	inner, changed := step(n.Operand)

	switch v := inner.(type) {
	case *ast.Boolean:
		return &ast.Boolean{Value: !v.Value}, true
	case *ast.Not:
		return v.Operand, true
	default:
		return &ast.Not{Operand: inner}, changed
	}
}

// simplifyAnd applies flatten (rule 2), boolean absorption (rule 1) and
// collapse (rule 5) to an n-ary conjunction.
func simplifyAnd(n *ast.And) (ast.Formula, bool) {
	changed := false

	var flat []ast.Formula

	for _, op := range n.Operands {
		so, c := step(op)
		changed = changed || c

		if inner, ok := so.(*ast.And); ok {
			flat = append(flat, inner.Operands...)
			changed = true
		} else {
			flat = append(flat, so)
		}
	}

	var kept []ast.Formula

	for _, op := range flat {
		if b, ok := op.(*ast.Boolean); ok {
			if !b.Value {
				return &ast.Boolean{Value: false}, true
			}

			changed = true

			continue
		}

		kept = append(kept, op)
	}

	switch len(kept) {
	case 0:
		return &ast.Boolean{Value: true}, true
	case 1:
		return kept[0], true
	default:
		if len(kept) != len(n.Operands) {
			changed = true
		}

		return &ast.And{Operands: kept}, changed
	}
}

// simplifyOr is simplifyAnd's dual.
func simplifyOr(n *ast.Or) (ast.Formula, bool) {
	changed := false

	var flat []ast.Formula

	for _, op := range n.Operands {
		so, c := step(op)
		changed = changed || c

		if inner, ok := so.(*ast.Or); ok {
			flat = append(flat, inner.Operands...)
			changed = true
		} else {
			flat = append(flat, so)
		}
	}

	var kept []ast.Formula

	for _, op := range flat {
		if b, ok := op.(*ast.Boolean); ok {
			if b.Value {
				return &ast.Boolean{Value: true}, true
			}

			changed = true

			continue
		}

		kept = append(kept, op)
	}

	switch len(kept) {
	case 0:
		return &ast.Boolean{Value: false}, true
	case 1:
		return kept[0], true
	default:
		if len(kept) != len(n.Operands) {
			changed = true
		}

		return &ast.Or{Operands: kept}, changed
	}
}

// simplifyExists is rule 4 (equality substitution, and dropping ∃X.φ when
// X is unused) plus rule 7's existential half (quantifier drop).
func simplifyExists(n *ast.Exists) (ast.Formula, bool) {
	body, changed := step(n.Body)
	vars := append([]*decl.VariableDeclaration{}, n.Variables...)

	for {
		progressed := false

		for i, v := range vars {
			t, ok := findEqualityWitness(body, v)
			if !ok {
				continue
			}

			body = removeEqualityConjunct(body, v, t)
			body = substituteTerm(body, v, t)
			vars = append(vars[:i], vars[i+1:]...)
			changed = true
			progressed = true

			break
		}

		if !progressed {
			break
		}
	}

	free := freeVarSet(body)

	var kept []*decl.VariableDeclaration

	for _, v := range vars {
		if free[v] {
			kept = append(kept, v)
		} else {
			changed = true
		}
	}

	if len(kept) == 0 {
		return body, true
	}

	return &ast.Exists{Variables: kept, Body: body}, changed
}

// simplifyForAll is rule 7's universal half: drop bound variables unused
// in the body, and drop the quantifier entirely once none remain.
func simplifyForAll(n *ast.ForAll) (ast.Formula, bool) {
	body, changed := step(n.Body)
	free := freeVarSet(body)

	var kept []*decl.VariableDeclaration

	for _, v := range n.Variables {
		if free[v] {
			kept = append(kept, v)
		} else {
			changed = true
		}
	}

	if len(kept) == 0 {
		return body, true
	}

	return &ast.ForAll{Variables: kept, Body: body}, changed
}

func freeVarSet(f ast.Formula) map[*decl.VariableDeclaration]bool {
	set := make(map[*decl.VariableDeclaration]bool)
	for _, v := range ast.FreeVariables(f) {
		set[v] = true
	}

	return set
}

// findEqualityWitness looks for a top-level conjunct "v = t" or "t = v"
// in body (treating body as a flat conjunction) with v not free in t.
func findEqualityWitness(body ast.Formula, v *decl.VariableDeclaration) (ast.Term, bool) {
	for _, c := range conjunctsOf(body) {
		cmp, ok := c.(*ast.Comparison)
		if !ok || cmp.Op != ast.OpEqual {
			continue
		}

		if lv, ok := cmp.Left.(*ast.Variable); ok && lv.Declaration == v && !termMentions(cmp.Right, v) {
			return cmp.Right, true
		}

		if rv, ok := cmp.Right.(*ast.Variable); ok && rv.Declaration == v && !termMentions(cmp.Left, v) {
			return cmp.Left, true
		}
	}

	return nil, false
}

func termMentions(t ast.Term, v *decl.VariableDeclaration) bool {
	for _, fv := range ast.FreeVariablesInTerm(t, nil) {
		if fv == v {
			return true
		}
	}

	return false
}

func conjunctsOf(f ast.Formula) []ast.Formula {
	if a, ok := f.(*ast.And); ok {
		return a.Operands
	}

	return []ast.Formula{f}
}

// removeEqualityConjunct rebuilds body with the first "v = t" / "t = v"
// top-level conjunct removed.
func removeEqualityConjunct(body ast.Formula, v *decl.VariableDeclaration, t ast.Term) ast.Formula {
	cs := conjunctsOf(body)

	var kept []ast.Formula

	removed := false

	for _, c := range cs {
		if !removed {
			if cmp, ok := c.(*ast.Comparison); ok && cmp.Op == ast.OpEqual {
				isMatch := (isVarOf(cmp.Left, v) && ast.EqualTerm(cmp.Right, t)) ||
					(isVarOf(cmp.Right, v) && ast.EqualTerm(cmp.Left, t))
				if isMatch {
					removed = true
					continue
				}
			}
		}

		kept = append(kept, c)
	}

	switch len(kept) {
	case 0:
		return &ast.Boolean{Value: true}
	case 1:
		return kept[0]
	default:
		return &ast.And{Operands: kept}
	}
}

func isVarOf(t ast.Term, v *decl.VariableDeclaration) bool {
	vv, ok := t.(*ast.Variable)
	return ok && vv.Declaration == v
}

// evalComparison evaluates a comparison between two terms when both sides
// are literal values of a comparable kind, per spec.md §4.7 rule 3, or
// when it is an equality/inequality between structurally equal terms.
func evalComparison(op ast.CompareOp, left, right ast.Term) (bool, bool) {
	if (op == ast.OpEqual || op == ast.OpNotEqual) && ast.EqualTerm(left, right) {
		return op == ast.OpEqual, true
	}

	if lr, li, lok := literalInt(left); lok {
		if rr, ri, rok := literalInt(right); rok {
			if lr != 0 || rr != 0 {
				return compareOrdered(op, lr < rr, lr == rr), true
			}

			return compareInt(op, li, ri), true
		}
	}

	if ls, lok := left.(*ast.String); lok {
		if rs, rok := right.(*ast.String); rok {
			return compareOrdered(op, ls.Value < rs.Value, ls.Value == rs.Value), true
		}
	}

	if lc, lok := left.(*ast.Constant); lok {
		if rc, rok := right.(*ast.Constant); rok {
			return compareOrdered(op, lc.Name < rc.Name, lc.Name == rc.Name), true
		}
	}

	if lb, lok := left.(*ast.BooleanTerm); lok {
		if rb, rok := right.(*ast.BooleanTerm); rok {
			if op == ast.OpEqual {
				return lb.Value == rb.Value, true
			}

			if op == ast.OpNotEqual {
				return lb.Value != rb.Value, true
			}
		}
	}

	return false, false
}

// literalInt reduces a literal integer-valued term to an orderable value:
// a rank (-1 for #inf, 0 for an Integer, 1 for #sup) plus, for an Integer,
// its value. SpecialInteger treats Infimum/Supremum as the two infinities so
// comparisons against them still fold.
func literalInt(t ast.Term) (int, int64, bool) {
	switch n := t.(type) {
	case *ast.Integer:
		return 0, n.Value, true
	case *ast.SpecialInteger:
		if n.Kind == ast.Infimum {
			return -1, 0, true
		}

		return 1, 0, true
	default:
		return 0, 0, false
	}
}

func compareInt(op ast.CompareOp, l, r int64) bool {
	switch op {
	case ast.OpLess:
		return l < r
	case ast.OpLessEqual:
		return l <= r
	case ast.OpGreater:
		return l > r
	case ast.OpGreaterEqual:
		return l >= r
	case ast.OpEqual:
		return l == r
	case ast.OpNotEqual:
		return l != r
	default:
		return false
	}
}

func compareOrdered(op ast.CompareOp, less, equal bool) bool {
	switch op {
	case ast.OpLess:
		return less
	case ast.OpLessEqual:
		return less || equal
	case ast.OpGreater:
		return !less && !equal
	case ast.OpGreaterEqual:
		return !less || equal
	case ast.OpEqual:
		return equal
	case ast.OpNotEqual:
		return !equal
	default:
		return false
	}
}
