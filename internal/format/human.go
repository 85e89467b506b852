// Package format implements the two output dialects spec.md §6 names:
// a human-readable ASCII rendering and TPTP fof(...) axioms. Both consume
// only the core's formula AST and declaration tables; neither dialect can
// fail on a well-formed AST (spec.md §7: "the formatter never raises
// domain errors").
package format

import (
	"fmt"
	"strings"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
)

// HumanReadable renders formulas as ASCII with infix connectives ("and",
// "or", "not", "->", "<->") and quantifiers ("forall", "exists"), each
// terminated as "axiom: <formula>.", per spec.md §6.
func HumanReadable(formulas []ast.Formula) string {
	var b strings.Builder

	for _, f := range formulas {
		fmt.Fprintf(&b, "axiom: %s.\n", humanFormula(f))
	}

	return b.String()
}

func humanFormula(f ast.Formula) string {
	switch n := f.(type) {
	case *ast.Predicate:
		return n.String()
	case *ast.Comparison:
		return fmt.Sprintf("%s %s %s", humanTerm(n.Left), n.Op.String(), humanTerm(n.Right))
	case *ast.In:
		return fmt.Sprintf("%s in %s", humanTerm(n.Element), humanTerm(n.Set))
	case *ast.Boolean:
		return n.String()
	case *ast.Not:
		return fmt.Sprintf("not (%s)", humanFormula(n.Operand))
	case *ast.And:
		return joinHuman(n.Operands, "and")
	case *ast.Or:
		return joinHuman(n.Operands, "or")
	case *ast.Implies:
		return fmt.Sprintf("(%s -> %s)", humanFormula(n.Antecedent), humanFormula(n.Consequent))
	case *ast.Biconditional:
		return fmt.Sprintf("(%s <-> %s)", humanFormula(n.Left), humanFormula(n.Right))
	case *ast.Exists:
		return fmt.Sprintf("exists %s. %s", humanVarList(n.Variables), humanFormula(n.Body))
	case *ast.ForAll:
		return fmt.Sprintf("forall %s. %s", humanVarList(n.Variables), humanFormula(n.Body))
	default:
		return f.String()
	}
}

func humanTerm(t ast.Term) string { return t.String() }

func joinHuman(fs []ast.Formula, connective string) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = humanFormula(f)
	}

	return "(" + strings.Join(parts, " "+connective+" ") + ")"
}

func humanVarList(vars []*decl.VariableDeclaration) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}

	return strings.Join(names, ",")
}

// TypeTable renders a predicate/function declaration summary, used as the
// annotation block the human-readable dialect prepends to the formula
// stream (spec.md §6: "a sequence of closed first-order formulas,
// prefixed by type annotations for every predicate and function
// declaration"). TPTP output writes its own header instead.
func TypeTable(predicates *decl.PredicateTable, functions *decl.FunctionTable) string {
	var b strings.Builder

	for _, p := range predicates.All() {
		fmt.Fprintf(&b, "predicate %s/%d.\n", p.Name, p.Arity)
	}

	for _, fn := range functions.All() {
		fmt.Fprintf(&b, "function %s/%d.\n", fn.Name, fn.Arity)
	}

	return b.String()
}
