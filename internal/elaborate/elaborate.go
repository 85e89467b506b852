// Package elaborate implements C3 of the translation pipeline: converting
// source-language terms (internal/source) into core formula-AST terms
// (internal/ast), allocating fresh variables for first-seen names and for
// compound terms that appear where a primitive value is required.
package elaborate

import (
	"fmt"

	"github.com/aspfol/aspfol/internal/ast"
	"github.com/aspfol/aspfol/internal/decl"
	"github.com/aspfol/aspfol/internal/ferr"
	"github.com/aspfol/aspfol/internal/source"
)

// NameAllocator hands out translator-introduced names with the reserved
// prefixes spec.md §3 names: V for head parameters, X for body variables,
// U for user-origin renamings, N for integer helpers.
type NameAllocator struct {
	counters map[string]int
}

// NewNameAllocator returns an allocator with every counter at zero.
func NewNameAllocator() *NameAllocator {
	return &NameAllocator{counters: make(map[string]int)}
}

// Fresh returns the next unused name under prefix, e.g. "N1", "N2", ...
func (a *NameAllocator) Fresh(prefix string) string {
	a.counters[prefix]++
	return fmt.Sprintf("%s%d", prefix, a.counters[prefix])
}

// Scope is a stack of nested name -> declaration frames, innermost last.
// It backs C3's "look up by name in the variable stack (innermost first)".
type Scope struct {
	frames []map[string]*decl.VariableDeclaration
}

// NewScope returns a scope with one empty frame already pushed.
func NewScope() *Scope {
	s := &Scope{}
	s.Push()

	return s
}

// Push opens a new nested frame.
func (s *Scope) Push() { s.frames = append(s.frames, map[string]*decl.VariableDeclaration{}) }

// Pop closes the innermost frame.
func (s *Scope) Pop() { s.frames = s.frames[:len(s.frames)-1] }

// Lookup searches frames innermost-first.
func (s *Scope) Lookup(name string) (*decl.VariableDeclaration, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if d, ok := s.frames[i][name]; ok {
			return d, true
		}
	}

	return nil, false
}

// Declare binds name to d in the innermost frame.
func (s *Scope) Declare(name string, d *decl.VariableDeclaration) {
	s.frames[len(s.frames)-1][name] = d
}

// Context bundles the mutable state C3 threads through a single rule's
// elaboration: the variable table that owns every declaration, the
// function table used to record function symbols for later output, the
// name allocator, and the list of free variables the enclosing
// ScopedFormula must own.
type Context struct {
	Scope      *Scope
	Variables  *decl.VariableTable
	Functions  *decl.FunctionTable
	Names      *NameAllocator
	FreeVars   *[]*decl.VariableDeclaration
}

// resolveVariable implements the Variable elaboration rule: look up by
// name, or allocate a fresh free declaration on first reference.
func (c *Context) resolveVariable(name string) *decl.VariableDeclaration {
	if d, ok := c.Scope.Lookup(name); ok {
		return d
	}

	d := c.Variables.Fresh(name, decl.VariableBody)
	c.Scope.Declare(name, d)
	*c.FreeVars = append(*c.FreeVars, d)

	return d
}

// Term performs the general, non-primitive-forcing elaboration of a
// source term: structural one-for-one translation, recursing into
// subterms without introducing auxiliary conjuncts at this level, except
// that function arguments are forced primitive via Primitive and their
// linking conjuncts are returned. Unary minus is rewritten to 0 - t per
// spec.md §4.3.
func (c *Context) Term(t source.Term) (ast.Term, []ast.Formula, error) {
	switch n := t.(type) {
	case source.Integer:
		return &ast.Integer{Value: n.Value}, nil, nil
	case source.SpecialInteger:
		kind := ast.Infimum
		if n.Kind == source.Supremum {
			kind = ast.Supremum
		}

		return &ast.SpecialInteger{Kind: kind}, nil, nil
	case source.String:
		return &ast.String{Value: n.Value}, nil, nil
	case source.Boolean:
		return &ast.BooleanTerm{Value: n.Value}, nil, nil
	case source.ConstantTerm:
		return &ast.Constant{Name: n.Name}, nil, nil
	case source.VariableTerm:
		return &ast.Variable{Declaration: c.resolveVariable(n.Name)}, nil, nil
	case source.FunctionTerm:
		if n.External {
			return nil, nil, ferr.New(ferr.UnsupportedTerm,
				"function %s/%d is declared #external and cannot be elaborated", n.Name, len(n.Args))
		}

		args := make([]ast.Term, len(n.Args))

		var extra []ast.Formula

		for i, a := range n.Args {
			pa, ex, err := c.Primitive(a)
			if err != nil {
				return nil, nil, err
			}

			args[i] = pa
			extra = append(extra, ex...)
		}

		c.Functions.Intern(n.Name, len(n.Args))

		return &ast.Function{Name: n.Name, Arguments: args}, extra, nil
	case source.BinaryOperationTerm:
		left, extra1, err := c.Term(n.Left)
		if err != nil {
			return nil, nil, err
		}

		right, extra2, err := c.Term(n.Right)
		if err != nil {
			return nil, nil, err
		}

		return &ast.BinaryOperation{Op: translateBinOp(n.Op), Left: left, Right: right},
			append(extra1, extra2...), nil
	case source.UnaryOperationTerm:
		rewritten := source.BinaryOperationTerm{
			Op:    source.Sub,
			Left:  source.Integer{Value: 0},
			Right: n.Operand,
		}

		return c.Term(rewritten)
	case source.IntervalTerm:
		from, extra1, err := c.Term(n.From)
		if err != nil {
			return nil, nil, err
		}

		to, extra2, err := c.Term(n.To)
		if err != nil {
			return nil, nil, err
		}

		return &ast.Interval{From: from, To: to}, append(extra1, extra2...), nil
	case source.PoolTerm:
		return nil, nil, ferr.New(ferr.UnsupportedTerm, "pool terms are not supported by the core translator")
	default:
		return nil, nil, ferr.New(ferr.UnsupportedTerm, "unrecognised source term shape %T", t)
	}
}

// Primitive elaborates t and, if the result is not primitive (a
// BinaryOperation or Interval), introduces a fresh N-prefixed variable
// bound by an auxiliary conjunct linking it to the compound term, per
// spec.md §4.3. The returned term is always primitive.
func (c *Context) Primitive(t source.Term) (ast.Term, []ast.Formula, error) {
	term, extra, err := c.Term(t)
	if err != nil {
		return nil, nil, err
	}

	if ast.IsPrimitive(term) {
		return term, extra, nil
	}

	n := c.Variables.Fresh(c.Names.Fresh("N"), decl.VariableReserved)
	*c.FreeVars = append(*c.FreeVars, n)

	var link ast.Formula

	switch term.(type) {
	case *ast.Interval:
		link = &ast.In{Element: &ast.Variable{Declaration: n}, Set: term}
	default:
		link = &ast.Comparison{Op: ast.OpEqual, Left: &ast.Variable{Declaration: n}, Right: term}
	}

	return &ast.Variable{Declaration: n}, append(extra, link), nil
}

// ChooseValue is chooseValueInTerm from spec.md §4.3: given a head
// argument t and a parameter declaration V owned by the completed
// predicate, return the extra conjuncts asserting V = t (or V in t when t
// elaborates to an interval), plus any auxiliary conjuncts t's own
// elaboration required.
func (c *Context) ChooseValue(t source.Term, v *decl.VariableDeclaration) ([]ast.Formula, error) {
	term, extra, err := c.Term(t)
	if err != nil {
		return nil, err
	}

	switch n := term.(type) {
	case *ast.Interval:
		return append(extra, &ast.In{Element: &ast.Variable{Declaration: v}, Set: n}), nil
	default:
		if ast.IsPrimitive(term) {
			return append(extra, &ast.Comparison{Op: ast.OpEqual, Left: &ast.Variable{Declaration: v}, Right: term}), nil
		}

		aux := c.Variables.Fresh(c.Names.Fresh("N"), decl.VariableReserved)
		*c.FreeVars = append(*c.FreeVars, aux)
		extra = append(extra, &ast.Comparison{Op: ast.OpEqual, Left: &ast.Variable{Declaration: aux}, Right: term})
		extra = append(extra, &ast.Comparison{Op: ast.OpEqual, Left: &ast.Variable{Declaration: v}, Right: &ast.Variable{Declaration: aux}})

		return extra, nil
	}
}

func translateBinOp(op source.BinOp) ast.BinaryOp {
	switch op {
	case source.Add:
		return ast.OpAdd
	case source.Sub:
		return ast.OpSub
	case source.Mul:
		return ast.OpMul
	case source.Div:
		return ast.OpDiv
	case source.Mod:
		return ast.OpMod
	default:
		return ast.OpAdd
	}
}
