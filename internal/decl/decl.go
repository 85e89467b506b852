// Package decl provides the interned declaration tables for predicates,
// functions and variables used throughout a single translation run.
//
// Tables are append-only for the lifetime of a run so that handles handed
// out to callers (pointers into the table's backing slices) stay valid.
// Identity is by pointer: two predicates are the same declaration iff the
// table interned them to the same record, which holds iff their (name,
// arity) pair matches.
package decl

// Tristate models a three-valued flag: unset, or explicitly true/false.
// It is the type of PredicateDeclaration.Visible. #show listings are
// tracked in a SignatureSet; nothing in this module sets Visible away from
// TristateUnknown.
type Tristate int

const (
	TristateUnknown Tristate = iota
	TristateTrue
	TristateFalse
)

// Domain is the sort assigned to a variable declaration.
type Domain int

const (
	DomainUnknown Domain = iota
	DomainProgram
	DomainInteger
	DomainGeneral
)

func (d Domain) String() string {
	switch d {
	case DomainProgram:
		return "program"
	case DomainInteger:
		return "integer"
	case DomainGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// VariableKind records why a variable declaration was introduced.
type VariableKind int

const (
	VariableUserDefined VariableKind = iota
	VariableHead
	VariableBody
	VariableReserved
)

// PredicateDeclaration identifies one predicate by (name, arity) plus the
// bookkeeping flags the translator and its audits need.
type PredicateDeclaration struct {
	Name     string
	Arity    int
	Used     bool
	Visible  Tristate
	External bool
}

// FunctionDeclaration identifies one function symbol by (name, arity).
type FunctionDeclaration struct {
	Name  string
	Arity int
}

// VariableDeclaration is a single variable's identity plus its current
// domain refinement. Variable terms hold a pointer to exactly one of these;
// declarations outlive every formula that references them.
type VariableDeclaration struct {
	Name     string
	Sequence int
	Kind     VariableKind
	Domain   Domain
}

// PredicateTable interns PredicateDeclaration by (name, arity).
type PredicateTable struct {
	index map[predicateKey]*PredicateDeclaration
	all   []*PredicateDeclaration
}

type predicateKey struct {
	name  string
	arity int
}

// NewPredicateTable returns an empty table.
func NewPredicateTable() *PredicateTable {
	return &PredicateTable{index: make(map[predicateKey]*PredicateDeclaration)}
}

// Intern returns the declaration for (name, arity), creating it on first
// reference.
func (t *PredicateTable) Intern(name string, arity int) *PredicateDeclaration {
	key := predicateKey{name, arity}
	if d, ok := t.index[key]; ok {
		return d
	}

	d := &PredicateDeclaration{Name: name, Arity: arity}
	t.index[key] = d
	t.all = append(t.all, d)

	return d
}

// Lookup returns the declaration for (name, arity) without creating it.
func (t *PredicateTable) Lookup(name string, arity int) (*PredicateDeclaration, bool) {
	d, ok := t.index[predicateKey{name, arity}]
	return d, ok
}

// All returns every interned predicate declaration in insertion order.
func (t *PredicateTable) All() []*PredicateDeclaration {
	out := make([]*PredicateDeclaration, len(t.all))
	copy(out, t.all)

	return out
}

// FunctionTable interns FunctionDeclaration by (name, arity).
type FunctionTable struct {
	index map[predicateKey]*FunctionDeclaration
	all   []*FunctionDeclaration
}

// NewFunctionTable returns an empty table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{index: make(map[predicateKey]*FunctionDeclaration)}
}

// Intern returns the declaration for (name, arity), creating it on first
// reference.
func (t *FunctionTable) Intern(name string, arity int) *FunctionDeclaration {
	key := predicateKey{name, arity}
	if d, ok := t.index[key]; ok {
		return d
	}

	d := &FunctionDeclaration{Name: name, Arity: arity}
	t.index[key] = d
	t.all = append(t.all, d)

	return d
}

// All returns every interned function declaration in insertion order.
func (t *FunctionTable) All() []*FunctionDeclaration {
	out := make([]*FunctionDeclaration, len(t.all))
	copy(out, t.all)

	return out
}

// VariableTable allocates fresh VariableDeclaration records by a stable
// sequence number. Unlike predicates and functions, variables are never
// looked up by name across scopes; each call to Fresh introduces a new
// declaration.
type VariableTable struct {
	all []*VariableDeclaration
}

// NewVariableTable returns an empty table.
func NewVariableTable() *VariableTable {
	return &VariableTable{}
}

// Fresh allocates a new variable declaration with the given base name and
// kind, at domain Unknown.
func (t *VariableTable) Fresh(name string, kind VariableKind) *VariableDeclaration {
	d := &VariableDeclaration{
		Name:     name,
		Sequence: len(t.all),
		Kind:     kind,
		Domain:   DomainUnknown,
	}
	t.all = append(t.all, d)

	return d
}

// All returns every allocated variable declaration in allocation order.
func (t *VariableTable) All() []*VariableDeclaration {
	out := make([]*VariableDeclaration, len(t.all))
	copy(out, t.all)

	return out
}

// SignatureSet tracks an allow-list of (name, arity) signatures declared by
// #show or #external, each with a used flag set on first reference and
// audited afterwards. This backs spec.md §4.2's "two auxiliary flag sets".
type SignatureSet struct {
	entries map[predicateKey]*SignatureEntry
	order   []*SignatureEntry
}

// SignatureEntry is one allow-listed (name, arity) pair.
type SignatureEntry struct {
	Name  string
	Arity int
	Used  bool
}

// NewSignatureSet returns an empty set.
func NewSignatureSet() *SignatureSet {
	return &SignatureSet{entries: make(map[predicateKey]*SignatureEntry)}
}

// Add registers a signature, a no-op if already present.
func (s *SignatureSet) Add(name string, arity int) *SignatureEntry {
	key := predicateKey{name, arity}
	if e, ok := s.entries[key]; ok {
		return e
	}

	e := &SignatureEntry{Name: name, Arity: arity}
	s.entries[key] = e
	s.order = append(s.order, e)

	return e
}

// MarkUsed sets the used flag for (name, arity) if it is a member of the
// set; returns false if the signature was never added.
func (s *SignatureSet) MarkUsed(name string, arity int) bool {
	e, ok := s.entries[predicateKey{name, arity}]
	if !ok {
		return false
	}

	e.Used = true

	return true
}

// Unused returns every entry whose used flag is still false, in insertion
// order.
func (s *SignatureSet) Unused() []*SignatureEntry {
	var out []*SignatureEntry

	for _, e := range s.order {
		if !e.Used {
			out = append(out, e)
		}
	}

	return out
}

// All returns every entry in insertion order.
func (s *SignatureSet) All() []*SignatureEntry {
	out := make([]*SignatureEntry, len(s.order))
	copy(out, s.order)

	return out
}
