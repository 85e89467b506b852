package ast

import (
	"fmt"
	"strings"

	"github.com/aspfol/aspfol/internal/decl"
)

// CompareOp enumerates the six comparison relations.
type CompareOp int

const (
	OpLess CompareOp = iota
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpEqual
	OpNotEqual
)

func (op CompareOp) String() string {
	switch op {
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	default:
		return "?"
	}
}

// Negate returns the comparison that holds exactly when op does not.
func (op CompareOp) Negate() CompareOp {
	switch op {
	case OpLess:
		return OpGreaterEqual
	case OpLessEqual:
		return OpGreater
	case OpGreater:
		return OpLessEqual
	case OpGreaterEqual:
		return OpLess
	case OpEqual:
		return OpNotEqual
	case OpNotEqual:
		return OpEqual
	default:
		return op
	}
}

// Formula is the base interface for every formula variant.
type Formula interface {
	Accept(v FormulaVisitor) interface{}
	String() string
	isFormula()
}

// FormulaVisitor dispatches one method per formula variant.
type FormulaVisitor interface {
	VisitPredicate(n *Predicate) interface{}
	VisitComparison(n *Comparison) interface{}
	VisitIn(n *In) interface{}
	VisitBoolean(n *Boolean) interface{}
	VisitNot(n *Not) interface{}
	VisitAnd(n *And) interface{}
	VisitOr(n *Or) interface{}
	VisitImplies(n *Implies) interface{}
	VisitBiconditional(n *Biconditional) interface{}
	VisitExists(n *Exists) interface{}
	VisitForAll(n *ForAll) interface{}
}

// Predicate asserts that declaration holds of arguments. len(Arguments)
// must equal Declaration.Arity.
type Predicate struct {
	Declaration *decl.PredicateDeclaration
	Arguments   []Term
}

func (n *Predicate) isFormula() {}
func (n *Predicate) Accept(v FormulaVisitor) interface{} { return v.VisitPredicate(n) }
func (n *Predicate) String() string {
	if len(n.Arguments) == 0 {
		return n.Declaration.Name
	}

	parts := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		parts[i] = a.String()
	}

	return fmt.Sprintf("%s(%s)", n.Declaration.Name, strings.Join(parts, ","))
}

// Comparison asserts that Left Op Right holds.
type Comparison struct {
	Op          CompareOp
	Left, Right Term
}

func (n *Comparison) isFormula() {}
func (n *Comparison) Accept(v FormulaVisitor) interface{} { return v.VisitComparison(n) }
func (n *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", n.Left.String(), n.Op.String(), n.Right.String())
}

// In asserts that Element is a member of Set (a BinaryOperation or
// Interval). Element must be primitive.
type In struct {
	Element Term
	Set     Term
}

func (n *In) isFormula() {}
func (n *In) Accept(v FormulaVisitor) interface{} { return v.VisitIn(n) }
func (n *In) String() string {
	return fmt.Sprintf("%s in %s", n.Element.String(), n.Set.String())
}

// Boolean is a closed truth-value formula (used for #true / #false heads
// and for simplification's constant-folded results).
type Boolean struct{ Value bool }

func (n *Boolean) isFormula() {}
func (n *Boolean) Accept(v FormulaVisitor) interface{} { return v.VisitBoolean(n) }
func (n *Boolean) String() string {
	if n.Value {
		return "true"
	}

	return "false"
}

// Not negates Operand.
type Not struct{ Operand Formula }

func (n *Not) isFormula() {}
func (n *Not) Accept(v FormulaVisitor) interface{} { return v.VisitNot(n) }
func (n *Not) String() string                      { return fmt.Sprintf("not (%s)", n.Operand.String()) }

// And is an n-ary conjunction.
type And struct{ Operands []Formula }

func (n *And) isFormula() {}
func (n *And) Accept(v FormulaVisitor) interface{} { return v.VisitAnd(n) }
func (n *And) String() string {
	parts := make([]string, len(n.Operands))
	for i, o := range n.Operands {
		parts[i] = o.String()
	}

	return "(" + strings.Join(parts, " and ") + ")"
}

// Or is an n-ary disjunction.
type Or struct{ Operands []Formula }

func (n *Or) isFormula() {}
func (n *Or) Accept(v FormulaVisitor) interface{} { return v.VisitOr(n) }
func (n *Or) String() string {
	parts := make([]string, len(n.Operands))
	for i, o := range n.Operands {
		parts[i] = o.String()
	}

	return "(" + strings.Join(parts, " or ") + ")"
}

// Implies is a material implication Antecedent -> Consequent.
type Implies struct{ Antecedent, Consequent Formula }

func (n *Implies) isFormula() {}
func (n *Implies) Accept(v FormulaVisitor) interface{} { return v.VisitImplies(n) }
func (n *Implies) String() string {
	return fmt.Sprintf("(%s -> %s)", n.Antecedent.String(), n.Consequent.String())
}

// Biconditional is Left <-> Right.
type Biconditional struct{ Left, Right Formula }

func (n *Biconditional) isFormula() {}
func (n *Biconditional) Accept(v FormulaVisitor) interface{} { return v.VisitBiconditional(n) }
func (n *Biconditional) String() string {
	return fmt.Sprintf("(%s <-> %s)", n.Left.String(), n.Right.String())
}

// Exists binds Variables existentially over Body. Once bound, the
// quantifier owns the listed declarations.
type Exists struct {
	Variables []*decl.VariableDeclaration
	Body      Formula
}

func (n *Exists) isFormula() {}
func (n *Exists) Accept(v FormulaVisitor) interface{} { return v.VisitExists(n) }
func (n *Exists) String() string {
	return fmt.Sprintf("exists %s: %s", joinVarNames(n.Variables), n.Body.String())
}

// ForAll binds Variables universally over Body.
type ForAll struct {
	Variables []*decl.VariableDeclaration
	Body      Formula
}

func (n *ForAll) isFormula() {}
func (n *ForAll) Accept(v FormulaVisitor) interface{} { return v.VisitForAll(n) }
func (n *ForAll) String() string {
	return fmt.Sprintf("forall %s: %s", joinVarNames(n.Variables), n.Body.String())
}

func joinVarNames(vars []*decl.VariableDeclaration) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}

	return strings.Join(names, ",")
}

// CopyFormula performs a structural deep copy of f, including nested
// variant slices. Predicate and quantifier declaration pointers are kept
// as-is (non-owning references into side tables), except that Exists/
// ForAll are themselves the owners of their Variables slice, so that slice
// is copied (not the declarations it points to).
func CopyFormula(f Formula) Formula {
	switch n := f.(type) {
	case *Predicate:
		args := make([]Term, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = CopyTerm(a)
		}

		return &Predicate{Declaration: n.Declaration, Arguments: args}
	case *Comparison:
		return &Comparison{Op: n.Op, Left: CopyTerm(n.Left), Right: CopyTerm(n.Right)}
	case *In:
		return &In{Element: CopyTerm(n.Element), Set: CopyTerm(n.Set)}
	case *Boolean:
		return &Boolean{Value: n.Value}
	case *Not:
		return &Not{Operand: CopyFormula(n.Operand)}
	case *And:
		ops := make([]Formula, len(n.Operands))
		for i, o := range n.Operands {
			ops[i] = CopyFormula(o)
		}

		return &And{Operands: ops}
	case *Or:
		ops := make([]Formula, len(n.Operands))
		for i, o := range n.Operands {
			ops[i] = CopyFormula(o)
		}

		return &Or{Operands: ops}
	case *Implies:
		return &Implies{Antecedent: CopyFormula(n.Antecedent), Consequent: CopyFormula(n.Consequent)}
	case *Biconditional:
		return &Biconditional{Left: CopyFormula(n.Left), Right: CopyFormula(n.Right)}
	case *Exists:
		vars := make([]*decl.VariableDeclaration, len(n.Variables))
		copy(vars, n.Variables)

		return &Exists{Variables: vars, Body: CopyFormula(n.Body)}
	case *ForAll:
		vars := make([]*decl.VariableDeclaration, len(n.Variables))
		copy(vars, n.Variables)

		return &ForAll{Variables: vars, Body: CopyFormula(n.Body)}
	default:
		panic(fmt.Sprintf("ast: CopyFormula: unhandled formula variant %T", f))
	}
}

// EqualFormula reports structural equality modulo declaration identity.
func EqualFormula(a, b Formula) bool {
	switch x := a.(type) {
	case *Predicate:
		y, ok := b.(*Predicate)
		if !ok || x.Declaration != y.Declaration || len(x.Arguments) != len(y.Arguments) {
			return false
		}

		for i := range x.Arguments {
			if !EqualTerm(x.Arguments[i], y.Arguments[i]) {
				return false
			}
		}

		return true
	case *Comparison:
		y, ok := b.(*Comparison)
		return ok && x.Op == y.Op && EqualTerm(x.Left, y.Left) && EqualTerm(x.Right, y.Right)
	case *In:
		y, ok := b.(*In)
		return ok && EqualTerm(x.Element, y.Element) && EqualTerm(x.Set, y.Set)
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Not:
		y, ok := b.(*Not)
		return ok && EqualFormula(x.Operand, y.Operand)
	case *And:
		y, ok := b.(*And)
		return ok && equalFormulaSlice(x.Operands, y.Operands)
	case *Or:
		y, ok := b.(*Or)
		return ok && equalFormulaSlice(x.Operands, y.Operands)
	case *Implies:
		y, ok := b.(*Implies)
		return ok && EqualFormula(x.Antecedent, y.Antecedent) && EqualFormula(x.Consequent, y.Consequent)
	case *Biconditional:
		y, ok := b.(*Biconditional)
		return ok && EqualFormula(x.Left, y.Left) && EqualFormula(x.Right, y.Right)
	case *Exists:
		y, ok := b.(*Exists)
		return ok && equalVarSlice(x.Variables, y.Variables) && EqualFormula(x.Body, y.Body)
	case *ForAll:
		y, ok := b.(*ForAll)
		return ok && equalVarSlice(x.Variables, y.Variables) && EqualFormula(x.Body, y.Body)
	default:
		return false
	}
}

func equalFormulaSlice(a, b []Formula) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !EqualFormula(a[i], b[i]) {
			return false
		}
	}

	return true
}

func equalVarSlice(a, b []*decl.VariableDeclaration) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// FreeVariables returns the VariableDeclarations referenced by f that are
// not bound by a quantifier inside f, without duplicates, in first-seen
// order. A well-formed closed formula returns an empty slice.
func FreeVariables(f Formula) []*decl.VariableDeclaration {
	seen := make(map[*decl.VariableDeclaration]bool)
	bound := make(map[*decl.VariableDeclaration]bool)

	var out []*decl.VariableDeclaration

	var walkTerm func(t Term)

	walkTerm = func(t Term) {
		vars := FreeVariablesInTerm(t, nil)
		for _, v := range vars {
			if bound[v] || seen[v] {
				continue
			}

			seen[v] = true

			out = append(out, v)
		}
	}

	var walk func(f Formula)

	walk = func(f Formula) {
		switch n := f.(type) {
		case *Predicate:
			for _, a := range n.Arguments {
				walkTerm(a)
			}
		case *Comparison:
			walkTerm(n.Left)
			walkTerm(n.Right)
		case *In:
			walkTerm(n.Element)
			walkTerm(n.Set)
		case *Boolean:
		case *Not:
			walk(n.Operand)
		case *And:
			for _, o := range n.Operands {
				walk(o)
			}
		case *Or:
			for _, o := range n.Operands {
				walk(o)
			}
		case *Implies:
			walk(n.Antecedent)
			walk(n.Consequent)
		case *Biconditional:
			walk(n.Left)
			walk(n.Right)
		case *Exists:
			added := make([]*decl.VariableDeclaration, 0, len(n.Variables))

			for _, v := range n.Variables {
				if !bound[v] {
					bound[v] = true

					added = append(added, v)
				}
			}

			walk(n.Body)

			for _, v := range added {
				bound[v] = false
			}
		case *ForAll:
			added := make([]*decl.VariableDeclaration, 0, len(n.Variables))

			for _, v := range n.Variables {
				if !bound[v] {
					bound[v] = true

					added = append(added, v)
				}
			}

			walk(n.Body)

			for _, v := range added {
				bound[v] = false
			}
		}
	}

	walk(f)

	return out
}

// IsClosed reports whether f has no free variables.
func IsClosed(f Formula) bool { return len(FreeVariables(f)) == 0 }
