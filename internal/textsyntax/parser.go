package textsyntax

import (
	"fmt"
	"strconv"

	"github.com/aspfol/aspfol/internal/source"
)

// Parse reads the whole program text and returns the statement stream
// internal/pipeline consumes. Statements are separated by ".".
func Parse(src string) ([]source.Statement, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	var out []source.Statement

	for _, stmt := range splitStatements(toks) {
		if len(stmt) == 0 {
			continue
		}

		s, err := parseStatement(stmt)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

type tp struct {
	toks []token
	pos  int
}

func (p *tp) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}

	return p.toks[p.pos], true
}

func (p *tp) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}

	return t, ok
}

func (p *tp) expectSymbol(s string) error {
	t, ok := p.next()
	if !ok || t.kind != tokSymbol || t.text != s {
		return fmt.Errorf("expected %q", s)
	}

	return nil
}

func parseStatement(toks []token) (source.Statement, error) {
	p := &tp{toks: toks}

	if t, ok := p.peek(); ok && t.kind == tokIdent && t.text == "#show" {
		p.next()

		sigs, err := parseSignatureList(p)
		if err != nil {
			return nil, err
		}

		return source.ShowStatement{Signatures: sigs}, nil
	}

	if t, ok := p.peek(); ok && t.kind == tokIdent && t.text == "#external" {
		p.next()

		sigs, err := parseSignatureList(p)
		if err != nil {
			return nil, err
		}

		return source.ExternalStatement{Signatures: sigs}, nil
	}

	rule, err := parseRule(p)
	if err != nil {
		return nil, err
	}

	return source.RuleStatement{Rule: rule}, nil
}

func parseSignatureList(p *tp) ([]source.Signature, error) {
	var out []source.Signature

	for {
		name, ok := p.next()
		if !ok || name.kind != tokIdent {
			return nil, fmt.Errorf("expected a predicate name in signature list")
		}

		if err := p.expectSymbol("/"); err != nil {
			return nil, err
		}

		arityTok, ok := p.next()
		if !ok || arityTok.kind != tokInteger {
			return nil, fmt.Errorf("expected an arity after %s/", name.text)
		}

		arity, err := strconv.Atoi(arityTok.text)
		if err != nil {
			return nil, err
		}

		out = append(out, source.Signature{Name: name.text, Arity: arity})

		if t, ok := p.peek(); ok && t.kind == tokSymbol && t.text == "," {
			p.next()
			continue
		}

		return out, nil
	}
}

// parseRule splits toks on ":-" into head and body, then parses each.
func parseRule(p *tp) (source.Rule, error) {
	var headToks []token

	for {
		t, ok := p.peek()
		if !ok {
			break
		}

		if t.kind == tokSymbol && t.text == ":-" {
			p.next()
			break
		}

		p.next()
		headToks = append(headToks, t)
	}

	var head source.Head

	var err error

	if len(headToks) > 0 {
		head, err = parseHead(headToks)
		if err != nil {
			return source.Rule{}, err
		}
	}

	var body []source.Literal

	var cur []token

	depth := 0

	flush := func() error {
		if len(cur) == 0 {
			return nil
		}

		lit, err := parseLiteral(cur)
		if err != nil {
			return err
		}

		body = append(body, lit)
		cur = nil

		return nil
	}

	for {
		t, ok := p.next()
		if !ok {
			break
		}

		if t.kind == tokSymbol && (t.text == "(" || t.text == "{") {
			depth++
		}

		if t.kind == tokSymbol && (t.text == ")" || t.text == "}") {
			depth--
		}

		if depth == 0 && t.kind == tokSymbol && t.text == "," {
			if err := flush(); err != nil {
				return source.Rule{}, err
			}

			continue
		}

		cur = append(cur, t)
	}

	if err := flush(); err != nil {
		return source.Rule{}, err
	}

	if len(headToks) == 0 && len(body) > 0 {
		return source.Rule{Head: source.FalseHead{}, Body: body}, nil
	}

	return source.Rule{Head: head, Body: body}, nil
}

// parseHead parses a non-empty head token slice; an empty head (bare
// ":- body.") is routed directly to FalseHead by the caller.
func parseHead(toks []token) (source.Head, error) {
	if len(toks) == 1 && toks[0].kind == tokIdent && toks[0].text == "#true" {
		return source.TrueHead{}, nil
	}

	if len(toks) == 1 && toks[0].kind == tokIdent && toks[0].text == "#false" {
		return source.FalseHead{}, nil
	}

	if toks[0].kind == tokSymbol && toks[0].text == "{" {
		return source.ChoiceHead{}, nil
	}

	if hasTopLevelSymbol(toks, ";") {
		atoms, err := splitTopLevel(toks, ";")
		if err != nil {
			return nil, err
		}

		var out []source.AtomLiteral

		for _, a := range atoms {
			lit, err := parseLiteral(a)
			if err != nil {
				return nil, err
			}

			atom, ok := lit.(source.AtomLiteral)
			if !ok {
				return nil, fmt.Errorf("disjunctive head elements must be plain atoms")
			}

			out = append(out, atom)
		}

		return source.DisjunctionHead{Atoms: out}, nil
	}

	lit, err := parseLiteral(toks)
	if err != nil {
		return nil, err
	}

	atom, ok := lit.(source.AtomLiteral)
	if !ok {
		return nil, fmt.Errorf("unsupported head literal shape")
	}

	return source.SingleAtomHead{Atom: atom}, nil
}

func hasTopLevelSymbol(toks []token, sym string) bool {
	depth := 0

	for _, t := range toks {
		if t.kind == tokSymbol && (t.text == "(" || t.text == "{") {
			depth++
		}

		if t.kind == tokSymbol && (t.text == ")" || t.text == "}") {
			depth--
		}

		if depth == 0 && t.kind == tokSymbol && t.text == sym {
			return true
		}
	}

	return false
}

func splitTopLevel(toks []token, sym string) ([][]token, error) {
	var out [][]token

	var cur []token

	depth := 0

	for _, t := range toks {
		if t.kind == tokSymbol && (t.text == "(" || t.text == "{") {
			depth++
		}

		if t.kind == tokSymbol && (t.text == ")" || t.text == "}") {
			depth--
		}

		if depth == 0 && t.kind == tokSymbol && t.text == sym {
			out = append(out, cur)
			cur = nil

			continue
		}

		cur = append(cur, t)
	}

	out = append(out, cur)

	return out, nil
}

// parseLiteral parses one body/head literal: an optional leading "not"
// (once or twice), then either a comparison or an atom application.
func parseLiteral(toks []token) (source.Literal, error) {
	negations := 0

	for len(toks) > 0 && toks[0].kind == tokIdent && toks[0].text == "not" {
		negations++
		toks = toks[1:]
	}

	if len(toks) == 0 {
		return nil, fmt.Errorf("empty literal")
	}

	if op, ok := topLevelCompareOp(toks); ok {
		idx := op.index
		left, err := parseTerm(toks[:idx])
		if err != nil {
			return nil, err
		}

		right, err := parseTerm(toks[idx+1:])
		if err != nil {
			return nil, err
		}

		return source.ComparisonLiteral{Op: op.op, Left: left, Right: right}, nil
	}

	if len(toks) == 1 && toks[0].kind == tokIdent && (toks[0].text == "#true" || toks[0].text == "#false") {
		return source.BooleanLiteral{Value: toks[0].text == "#true"}, nil
	}

	name, args, err := parseAtomHead(toks)
	if err != nil {
		return nil, err
	}

	switch negations {
	case 0:
		return source.AtomLiteral{Name: name, Args: args}, nil
	case 1:
		return source.NegatedAtomLiteral{Name: name, Args: args}, nil
	default:
		return source.DoubleNegatedAtomLiteral{Name: name, Args: args}, nil
	}
}

type compareHit struct {
	op    source.CompareOp
	index int
}

var compareSymbols = map[string]source.CompareOp{
	"<":  source.Less,
	"<=": source.LessEqual,
	">":  source.Greater,
	">=": source.GreaterEqual,
	"=":  source.Equal,
	"!=": source.NotEqual,
}

func topLevelCompareOp(toks []token) (compareHit, bool) {
	depth := 0

	for i, t := range toks {
		if t.kind == tokSymbol && t.text == "(" {
			depth++
		}

		if t.kind == tokSymbol && t.text == ")" {
			depth--
		}

		if depth == 0 && t.kind == tokSymbol {
			if op, ok := compareSymbols[t.text]; ok {
				return compareHit{op: op, index: i}, true
			}
		}
	}

	return compareHit{}, false
}

// parseAtomHead parses "name" or "name(arg1,...,argn)".
func parseAtomHead(toks []token) (string, []source.Term, error) {
	if len(toks) == 0 || toks[0].kind != tokIdent {
		return "", nil, fmt.Errorf("expected a predicate name")
	}

	name := toks[0].text

	if len(toks) == 1 {
		return name, nil, nil
	}

	if toks[1].kind != tokSymbol || toks[1].text != "(" {
		return "", nil, fmt.Errorf("expected '(' after %s", name)
	}

	if toks[len(toks)-1].kind != tokSymbol || toks[len(toks)-1].text != ")" {
		return "", nil, fmt.Errorf("expected ')' to close %s(...)", name)
	}

	argGroups, err := splitTopLevel(toks[2:len(toks)-1], ",")
	if err != nil {
		return "", nil, err
	}

	args := make([]source.Term, len(argGroups))

	for i, g := range argGroups {
		t, err := parseTerm(g)
		if err != nil {
			return "", nil, err
		}

		args[i] = t
	}

	return name, args, nil
}

// parseTerm parses an additive/multiplicative arithmetic expression with
// intervals, following ordinary precedence: ".." binds loosest, then +/-,
// then */÷/mod, then unary minus and atoms.
func parseTerm(toks []token) (source.Term, error) {
	if idx, ok := topLevelSymbolIndex(toks, ".."); ok {
		from, err := parseTerm(toks[:idx])
		if err != nil {
			return nil, err
		}

		to, err := parseTerm(toks[idx+1:])
		if err != nil {
			return nil, err
		}

		return source.IntervalTerm{From: from, To: to}, nil
	}

	return parseAdditive(toks)
}

func parseAdditive(toks []token) (source.Term, error) {
	if idx, op, ok := lastTopLevelOpOf(toks, "+", "-"); ok && idx > 0 {
		left, err := parseAdditive(toks[:idx])
		if err != nil {
			return nil, err
		}

		right, err := parseMultiplicative(toks[idx+1:])
		if err != nil {
			return nil, err
		}

		return source.BinaryOperationTerm{Op: binOp(op), Left: left, Right: right}, nil
	}

	return parseMultiplicative(toks)
}

func parseMultiplicative(toks []token) (source.Term, error) {
	if idx, op, ok := lastTopLevelOpOf(toks, "*", "/", "mod"); ok {
		left, err := parseMultiplicative(toks[:idx])
		if err != nil {
			return nil, err
		}

		right, err := parseAtomTerm(toks[idx+1:])
		if err != nil {
			return nil, err
		}

		return source.BinaryOperationTerm{Op: binOp(op), Left: left, Right: right}, nil
	}

	return parseAtomTerm(toks)
}

func binOp(sym string) source.BinOp {
	switch sym {
	case "+":
		return source.Add
	case "-":
		return source.Sub
	case "*":
		return source.Mul
	case "/":
		return source.Div
	default:
		return source.Mod
	}
}

// lastTopLevelOpOf finds the rightmost top-level occurrence of one of ops
// (left-associative parsing via rightmost split), ignoring a leading
// unary "-".
func lastTopLevelOpOf(toks []token, ops ...string) (int, string, bool) {
	depth := 0

	for i := len(toks) - 1; i >= 1; i-- {
		t := toks[i]

		if t.kind == tokSymbol && t.text == ")" {
			depth++
		}

		if t.kind == tokSymbol && t.text == "(" {
			depth--
		}

		if depth != 0 {
			continue
		}

		if t.kind == tokSymbol {
			for _, op := range ops {
				if t.text == op {
					return i, op, true
				}
			}
		}

		if t.kind == tokIdent && t.text == "mod" {
			for _, op := range ops {
				if op == "mod" {
					return i, "mod", true
				}
			}
		}
	}

	return 0, "", false
}

func topLevelSymbolIndex(toks []token, sym string) (int, bool) {
	depth := 0

	for i, t := range toks {
		if t.kind == tokSymbol && t.text == "(" {
			depth++
		}

		if t.kind == tokSymbol && t.text == ")" {
			depth--
		}

		if depth == 0 && t.kind == tokSymbol && t.text == sym {
			return i, true
		}
	}

	return 0, false
}

func parseAtomTerm(toks []token) (source.Term, error) {
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty term")
	}

	if toks[0].kind == tokSymbol && toks[0].text == "-" {
		operand, err := parseAtomTerm(toks[1:])
		if err != nil {
			return nil, err
		}

		return source.UnaryOperationTerm{Operand: operand}, nil
	}

	if toks[0].kind == tokSymbol && toks[0].text == "(" {
		if toks[len(toks)-1].kind != tokSymbol || toks[len(toks)-1].text != ")" {
			return nil, fmt.Errorf("unbalanced parentheses in term")
		}

		return parseTerm(toks[1 : len(toks)-1])
	}

	if len(toks) == 1 {
		return parseLeafTerm(toks[0])
	}

	if toks[0].kind == tokIdent {
		name, args, err := parseAtomHead(toks)
		if err != nil {
			return nil, err
		}

		return source.FunctionTerm{Name: name, Args: args}, nil
	}

	return nil, fmt.Errorf("unrecognised term")
}

func parseLeafTerm(t token) (source.Term, error) {
	switch t.kind {
	case tokInteger:
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, err
		}

		return source.Integer{Value: n}, nil
	case tokVariable:
		return source.VariableTerm{Name: t.text}, nil
	case tokString:
		return source.String{Value: t.text}, nil
	case tokIdent:
		switch t.text {
		case "#inf":
			return source.SpecialInteger{Kind: source.Infimum}, nil
		case "#sup":
			return source.SpecialInteger{Kind: source.Supremum}, nil
		case "#true":
			return source.Boolean{Value: true}, nil
		case "#false":
			return source.Boolean{Value: false}, nil
		default:
			return source.ConstantTerm{Name: t.text}, nil
		}
	default:
		return nil, fmt.Errorf("unexpected token %q in term position", t.text)
	}
}
