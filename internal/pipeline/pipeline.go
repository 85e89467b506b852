// Package pipeline implements C8: the driver that sequences rule
// translation, completion, domain inference and simplification, and
// hands the result to a formatter (spec.md §4.8, §6).
package pipeline

import (
	"sort"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/complete"
	"github.com/aspfol/aspfol/internal/decl"
	"github.com/aspfol/aspfol/internal/diagnostics"
	"github.com/aspfol/aspfol/internal/domains"
	"github.com/aspfol/aspfol/internal/rules"
	"github.com/aspfol/aspfol/internal/simplify"
	"github.com/aspfol/aspfol/internal/source"
)

// OutputFormat selects the formatter dialect, per spec.md §6.
type OutputFormat int

const (
	HumanReadable OutputFormat = iota
	TPTP
)

// Context is the explicit flag set spec.md §6 names. It is threaded
// through Run rather than read from global state.
type Context struct {
	PerformCompletion      bool
	PerformSimplification  bool
	DetectIntegerVariables bool
	OutputFormat           OutputFormat

	VisiblePredicateSignatures  []decl.SignatureEntry
	ExternalPredicateSignatures []decl.SignatureEntry
}

// Default returns the flag set a plain CLI invocation with no overrides
// uses: completion, simplification and integer-domain inference all on,
// human-readable output.
func Default() Context {
	return Context{
		PerformCompletion:      true,
		PerformSimplification:  true,
		DetectIntegerVariables: true,
		OutputFormat:           HumanReadable,
	}
}

// Stats records, per predicate, how many definitions completion folded
// into its biconditional — the supplemented completion-statistics feature.
type Stats struct {
	DefinitionCounts map[string]int
}

// Result is everything Run hands to a formatter: the formula stream, the
// tables it was built from (for type-annotation emission), collected
// warnings, and completion statistics.
type Result struct {
	Formulas   []ast.Formula
	Predicates *decl.PredicateTable
	Functions  *decl.FunctionTable
	Warnings   *diagnostics.Bag
	Stats      Stats
}

// Run sequences parse(already done by the caller)->rule-translate->
// complete->unify-domains(if TPTP)->infer-integer-domains->simplify, per
// spec.md §4.8's ordering. Each optional phase is skipped per ctx's flags.
func Run(ctx Context, statements []source.Statement) (*Result, error) {
	t := rules.NewTranslator()

	for _, sig := range ctx.VisiblePredicateSignatures {
		t.Visible.Add(sig.Name, sig.Arity)
		t.Predicates.Intern(sig.Name, sig.Arity)
	}

	for _, sig := range ctx.ExternalPredicateSignatures {
		t.External.Add(sig.Name, sig.Arity)
		t.Predicates.Intern(sig.Name, sig.Arity).External = true
	}

	for i, stmt := range statements {
		if err := t.TranslateStatement(i, stmt); err != nil {
			return nil, err
		}
	}

	var formulas []ast.Formula

	stats := Stats{DefinitionCounts: make(map[string]int)}

	if ctx.PerformCompletion {
		formulas = complete.Run(t)
		recordStats(t, stats)
	} else {
		formulas = scopedFormulasOnly(t)
	}

	if ctx.OutputFormat == TPTP {
		domains.UnifyForTPTP(t.Variables.All())
	}

	if ctx.DetectIntegerVariables {
		domains.InferAll(formulas)
	}

	if ctx.PerformSimplification {
		formulas = simplify.All(formulas)
	}

	return &Result{
		Formulas:   formulas,
		Predicates: t.Predicates,
		Functions:  t.Functions,
		Warnings:   t.Warnings,
		Stats:      stats,
	}, nil
}

func recordStats(t *rules.Translator, stats Stats) {
	for p, bucket := range t.Definitions {
		stats.DefinitionCounts[predicateKey(p)] = len(bucket.Definitions)
	}
}

func predicateKey(p *decl.PredicateDeclaration) string {
	return p.Name + "/" + itoa(p.Arity)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	return string(digits)
}

// scopedFormulasOnly implements spec.md §9's open question about the
// non-completion pipeline mode: without completion, the driver emits
// every rule's scoped formula closed by its own free variables, grouped by
// head predicate in (name, arity) order and in source order within a
// predicate, followed by the integrity constraints. This is the one
// interpretation consistent with §4.4's ScopedFormula contract and
// §6's "otherwise skip completion and emit scoped formulas only".
func scopedFormulasOnly(t *rules.Translator) []ast.Formula {
	preds := t.Predicates.All()
	sort.SliceStable(preds, func(i, j int) bool {
		if preds[i].Name != preds[j].Name {
			return preds[i].Name < preds[j].Name
		}

		return preds[i].Arity < preds[j].Arity
	})

	var out []ast.Formula

	for _, p := range preds {
		bucket, ok := t.Definitions[p]
		if !ok {
			continue
		}

		for _, def := range bucket.Definitions {
			if len(def.FreeVariables) == 0 {
				out = append(out, def.Formula)
				continue
			}

			out = append(out, &ast.Exists{Variables: def.FreeVariables, Body: def.Formula})
		}
	}

	return append(out, t.IntegrityConstraints...)
}

// FatalErrorExitCode is the process exit status cmd/aspfol returns for any
// fatal error surfaced by Run, per spec.md §6's "non-zero status".
const FatalErrorExitCode = 1
