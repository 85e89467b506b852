// Package rules implements C4 of the translation pipeline: classifying a
// rule's head, translating its body via internal/elaborate, and routing
// the result either to a per-predicate definition bucket or to the
// integrity-constraint list.
package rules

import (
	"fmt"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
	"github.com/aspfol/aspfol/internal/diagnostics"
	"github.com/aspfol/aspfol/internal/elaborate"
	"github.com/aspfol/aspfol/internal/ferr"
	"github.com/aspfol/aspfol/internal/source"
)

// HeadKind is the terminal state of the head-classification DFA described
// in spec.md §4.9 (initial state: Classify).
type HeadKind int

const (
	HeadSingleAtom HeadKind = iota
	HeadChoiceSingleAtom
	HeadFact
	HeadIntegrityConstraint
	HeadUnsupported
)

// ScopedFormula is a formula paired with the free variables introduced
// for it, awaiting a quantifier (spec.md §3).
type ScopedFormula struct {
	Formula       ast.Formula
	FreeVariables []*decl.VariableDeclaration
}

// PredicateDefinitions accumulates every rule body that defines one
// predicate, sharing one set of head-atom parameters across all of them.
type PredicateDefinitions struct {
	Parameters  []*decl.VariableDeclaration
	Definitions []ScopedFormula
}

// Translator holds every table and accumulator a single translation run
// mutates. Per spec.md §5, only one Translator is ever live at a time and
// its methods must be called serially.
type Translator struct {
	Predicates *decl.PredicateTable
	Variables  *decl.VariableTable
	Functions  *decl.FunctionTable
	Names      *elaborate.NameAllocator
	Visible    *decl.SignatureSet
	External   *decl.SignatureSet

	Definitions          map[*decl.PredicateDeclaration]*PredicateDefinitions
	IntegrityConstraints []ast.Formula

	Warnings *diagnostics.Bag
}

// NewTranslator returns a Translator with freshly constructed tables.
func NewTranslator() *Translator {
	return &Translator{
		Predicates: decl.NewPredicateTable(),
		Variables:  decl.NewVariableTable(),
		Functions:  decl.NewFunctionTable(),
		Names:      elaborate.NewNameAllocator(),
		Visible:    decl.NewSignatureSet(),
		External:   decl.NewSignatureSet(),
		Definitions: make(map[*decl.PredicateDeclaration]*PredicateDefinitions),
		Warnings:    diagnostics.NewBag(),
	}
}

// TranslateStatement dispatches one top-level source statement.
func (t *Translator) TranslateStatement(index int, stmt source.Statement) error {
	switch s := stmt.(type) {
	case source.RuleStatement:
		if err := t.translateRule(s.Rule); err != nil {
			if fe, ok := err.(*ferr.Error); ok && fe.StatementIndex < 0 {
				fe.StatementIndex = index
			}

			return err
		}

		return nil
	case source.ShowStatement:
		for _, sig := range s.Signatures {
			t.Visible.Add(sig.Name, sig.Arity)
			t.Predicates.Intern(sig.Name, sig.Arity)
		}

		return nil
	case source.ExternalStatement:
		for _, sig := range s.Signatures {
			t.External.Add(sig.Name, sig.Arity)
			t.Predicates.Intern(sig.Name, sig.Arity).External = true
		}

		return nil
	default:
		return ferr.At(ferr.Internal, index, "unrecognised statement shape %T", stmt)
	}
}

func classifyHead(h source.Head) HeadKind {
	switch n := h.(type) {
	case source.SingleAtomHead:
		return HeadSingleAtom
	case source.ChoiceHead:
		if len(n.Elements) == 1 {
			return HeadChoiceSingleAtom
		}

		return HeadUnsupported
	case source.TrueHead:
		return HeadFact
	case source.FalseHead:
		return HeadIntegrityConstraint
	default:
		return HeadUnsupported
	}
}

func (t *Translator) translateRule(rule source.Rule) error {
	scope := elaborate.NewScope()
	freeVars := []*decl.VariableDeclaration{}
	ctx := &elaborate.Context{
		Scope:     scope,
		Variables: t.Variables,
		Functions: t.Functions,
		Names:     t.Names,
		FreeVars:  &freeVars,
	}

	var body []ast.Formula

	for _, lit := range rule.Body {
		conjuncts, err := t.translateBodyLiteral(ctx, lit)
		if err != nil {
			return err
		}

		body = append(body, conjuncts...)
	}

	switch classifyHead(rule.Head) {
	case HeadSingleAtom:
		atom := rule.Head.(source.SingleAtomHead).Atom

		def := t.definitionsFor(atom.Name, len(atom.Args))

		full := append([]ast.Formula{}, body...)

		for i, arg := range atom.Args {
			extra, err := ctx.ChooseValue(arg, def.Parameters[i])
			if err != nil {
				return err
			}

			full = append(full, extra...)
		}

		def.Definitions = append(def.Definitions, ScopedFormula{
			Formula:       conjoin(full),
			FreeVariables: freeVars,
		})

		return nil

	case HeadIntegrityConstraint:
		t.IntegrityConstraints = append(t.IntegrityConstraints,
			&ast.ForAll{Variables: freeVars, Body: &ast.Not{Operand: conjoin(body)}})

		return nil

	case HeadChoiceSingleAtom:
		return ferr.New(ferr.UnsupportedFeature, "choice rules with a single atom are reserved for future work")

	case HeadFact:
		return ferr.New(ferr.UnsupportedFeature, "facts are reserved for future work")

	default:
		return ferr.New(ferr.UnsupportedHead, "head shape %T is not a single atom, fact or integrity constraint", rule.Head)
	}
}

// definitionsFor returns the shared parameter/definition bucket for
// (name, arity), allocating fresh head parameters the first time the
// predicate is defined.
func (t *Translator) definitionsFor(name string, arity int) *PredicateDefinitions {
	d := t.Predicates.Intern(name, arity)
	d.Used = true

	t.Visible.MarkUsed(name, arity)
	t.External.MarkUsed(name, arity)

	if bucket, ok := t.Definitions[d]; ok {
		return bucket
	}

	params := make([]*decl.VariableDeclaration, arity)
	for i := range params {
		params[i] = t.Variables.Fresh(fmt.Sprintf("V%d", i+1), decl.VariableHead)
	}

	bucket := &PredicateDefinitions{Parameters: params}
	t.Definitions[d] = bucket

	return bucket
}

func conjoin(fs []ast.Formula) ast.Formula {
	if len(fs) == 0 {
		return &ast.Boolean{Value: true}
	}

	if len(fs) == 1 {
		return fs[0]
	}

	return &ast.And{Operands: fs}
}

// translateBodyLiteral translates one body literal into the conjunct(s)
// it contributes, following spec.md §4.4's body-literal rules.
func (t *Translator) translateBodyLiteral(ctx *elaborate.Context, lit source.Literal) ([]ast.Formula, error) {
	switch n := lit.(type) {
	case source.AtomLiteral:
		f, extra, err := t.translateAtom(ctx, n.Name, n.Args)
		if err != nil {
			return nil, err
		}

		return append(extra, f), nil

	case source.NegatedAtomLiteral:
		f, extra, err := t.translateAtom(ctx, n.Name, n.Args)
		if err != nil {
			return nil, err
		}

		return append(extra, &ast.Not{Operand: f}), nil

	case source.DoubleNegatedAtomLiteral:
		f, extra, err := t.translateAtom(ctx, n.Name, n.Args)
		if err != nil {
			return nil, err
		}

		return append(extra, &ast.Not{Operand: &ast.Not{Operand: f}}), nil

	case source.ComparisonLiteral:
		return t.translateComparison(ctx, n)

	case source.BooleanLiteral:
		return []ast.Formula{&ast.Boolean{Value: n.Value}}, nil

	case source.CSPLiteral:
		return nil, ferr.New(ferr.UnsupportedBody, "CSP literals are not supported by the core translator")

	case source.AggregateLiteral:
		return nil, ferr.New(ferr.UnsupportedBody, "aggregate body literals are not supported by the core translator")

	case source.TheoryAtomLiteral:
		return nil, ferr.New(ferr.UnsupportedBody, "theory atom body literals are not supported by the core translator")

	default:
		return nil, ferr.New(ferr.UnsupportedBody, "unrecognised body literal shape %T", lit)
	}
}

func (t *Translator) translateAtom(ctx *elaborate.Context, name string, rawArgs []source.Term) (ast.Formula, []ast.Formula, error) {
	d := t.Predicates.Intern(name, len(rawArgs))
	d.Used = true

	t.Visible.MarkUsed(name, len(rawArgs))
	t.External.MarkUsed(name, len(rawArgs))

	args := make([]ast.Term, len(rawArgs))

	var extra []ast.Formula

	for i, a := range rawArgs {
		pa, ex, err := ctx.Primitive(a)
		if err != nil {
			return nil, nil, err
		}

		args[i] = pa
		extra = append(extra, ex...)
	}

	return &ast.Predicate{Declaration: d, Arguments: args}, extra, nil
}

// translateComparison implements spec.md's worked interval scenario: an
// equality whose other side is a source interval becomes In rather than
// a Comparison, since In is how this AST expresses set membership.
func (t *Translator) translateComparison(ctx *elaborate.Context, n source.ComparisonLiteral) ([]ast.Formula, error) {
	if n.Op == source.Equal {
		if iv, ok := n.Right.(source.IntervalTerm); ok {
			return t.translateInMembership(ctx, n.Left, iv)
		}

		if iv, ok := n.Left.(source.IntervalTerm); ok {
			return t.translateInMembership(ctx, n.Right, iv)
		}
	}

	left, extra1, err := ctx.Primitive(n.Left)
	if err != nil {
		return nil, err
	}

	right, extra2, err := ctx.Primitive(n.Right)
	if err != nil {
		return nil, err
	}

	out := append(extra1, extra2...)
	out = append(out, &ast.Comparison{Op: translateCompareOp(n.Op), Left: left, Right: right})

	return out, nil
}

func (t *Translator) translateInMembership(ctx *elaborate.Context, element source.Term, interval source.IntervalTerm) ([]ast.Formula, error) {
	el, extra, err := ctx.Primitive(element)
	if err != nil {
		return nil, err
	}

	from, extra1, err := ctx.Primitive(interval.From)
	if err != nil {
		return nil, err
	}

	to, extra2, err := ctx.Primitive(interval.To)
	if err != nil {
		return nil, err
	}

	out := append(extra, extra1...)
	out = append(out, extra2...)
	out = append(out, &ast.In{Element: el, Set: &ast.Interval{From: from, To: to}})

	return out, nil
}

func translateCompareOp(op source.CompareOp) ast.CompareOp {
	switch op {
	case source.Less:
		return ast.OpLess
	case source.LessEqual:
		return ast.OpLessEqual
	case source.Greater:
		return ast.OpGreater
	case source.GreaterEqual:
		return ast.OpGreaterEqual
	case source.Equal:
		return ast.OpEqual
	case source.NotEqual:
		return ast.OpNotEqual
	default:
		return ast.OpEqual
	}
}
