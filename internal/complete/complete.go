// Package complete implements C5: folding every predicate's collected
// definitions into one universally closed biconditional, in deterministic
// (name, arity) order (spec.md §4.5, §8's "Deterministic order" law).
package complete

import (
	"fmt"
	"sort"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
	"github.com/aspfol/aspfol/internal/rules"
)

// Run folds t's per-predicate definition buckets and integrity constraints
// into the closed formula list spec.md §4.5 and §8 describe, and audits
// the visible/external signature sets for unused entries.
func Run(t *rules.Translator) []ast.Formula {
	preds := t.Predicates.All()

	sort.SliceStable(preds, func(i, j int) bool {
		if preds[i].Name != preds[j].Name {
			return preds[i].Name < preds[j].Name
		}

		return preds[i].Arity < preds[j].Arity
	})

	var out []ast.Formula

	for _, p := range preds {
		out = append(out, completeOne(t, p))
	}

	out = append(out, t.IntegrityConstraints...)

	auditSignatures(t)

	return out
}

func completeOne(t *rules.Translator, p *decl.PredicateDeclaration) ast.Formula {
	bucket, ok := t.Definitions[p]
	if !ok {
		params := freshParameters(t, p.Arity)
		atom := &ast.Predicate{Declaration: p, Arguments: varTerms(params)}

		return &ast.ForAll{Variables: params, Body: &ast.Not{Operand: atom}}
	}

	atom := &ast.Predicate{Declaration: p, Arguments: varTerms(bucket.Parameters)}

	disjuncts := make([]ast.Formula, len(bucket.Definitions))
	for i, def := range bucket.Definitions {
		if len(def.FreeVariables) == 0 {
			disjuncts[i] = def.Formula
			continue
		}

		disjuncts[i] = &ast.Exists{Variables: def.FreeVariables, Body: def.Formula}
	}

	var body ast.Formula
	if len(disjuncts) == 1 {
		body = disjuncts[0]
	} else {
		body = &ast.Or{Operands: disjuncts}
	}

	return &ast.ForAll{
		Variables: bucket.Parameters,
		Body:      &ast.Biconditional{Left: atom, Right: body},
	}
}

func freshParameters(t *rules.Translator, arity int) []*decl.VariableDeclaration {
	params := make([]*decl.VariableDeclaration, arity)
	for i := range params {
		params[i] = t.Variables.Fresh(fmt.Sprintf("V%d", i+1), decl.VariableHead)
	}

	return params
}

func varTerms(params []*decl.VariableDeclaration) []ast.Term {
	out := make([]ast.Term, len(params))
	for i, p := range params {
		out[i] = &ast.Variable{Declaration: p}
	}

	return out
}

func auditSignatures(t *rules.Translator) {
	for _, e := range t.Visible.Unused() {
		t.Warnings.UnusedShow(e.Name, e.Arity)
	}

	for _, e := range t.External.Unused() {
		t.Warnings.UnusedExternal(e.Name, e.Arity)
	}
}
