package decl

import "testing"

func TestPredicateTableInternsByNameAndArity(t *testing.T) {
	table := NewPredicateTable()

	p1 := table.Intern("p", 2)
	p2 := table.Intern("p", 2)
	p3 := table.Intern("p", 1)

	if p1 != p2 {
		t.Error("expected two Intern calls with the same (name, arity) to return the same pointer")
	}

	if p1 == p3 {
		t.Error("expected distinct arities to intern distinct declarations")
	}

	if len(table.All()) != 2 {
		t.Errorf("expected 2 interned predicates, got %d", len(table.All()))
	}
}

func TestPredicateTableLookupMissing(t *testing.T) {
	table := NewPredicateTable()
	table.Intern("p", 1)

	if _, ok := table.Lookup("q", 1); ok {
		t.Error("expected Lookup for an uninterned signature to report false")
	}

	if d, ok := table.Lookup("p", 1); !ok || d.Name != "p" {
		t.Error("expected Lookup for an interned signature to succeed")
	}
}

func TestFunctionTableInterns(t *testing.T) {
	table := NewFunctionTable()

	f1 := table.Intern("f", 1)
	f2 := table.Intern("f", 1)

	if f1 != f2 {
		t.Error("expected the same (name, arity) to intern the same function declaration")
	}
}

func TestVariableTableFreshAssignsSequentialNumbers(t *testing.T) {
	table := NewVariableTable()

	x := table.Fresh("X", VariableBody)
	y := table.Fresh("Y", VariableHead)

	if x.Sequence != 0 || y.Sequence != 1 {
		t.Errorf("expected sequence numbers 0,1, got %d,%d", x.Sequence, y.Sequence)
	}

	if x == y {
		t.Error("expected Fresh to never alias two declarations")
	}

	if x.Domain != DomainUnknown {
		t.Errorf("expected a fresh variable's domain to start Unknown, got %v", x.Domain)
	}

	if len(table.All()) != 2 {
		t.Errorf("expected 2 variable declarations, got %d", len(table.All()))
	}
}

func TestSignatureSetTracksUsage(t *testing.T) {
	set := NewSignatureSet()
	set.Add("p", 1)
	set.Add("q", 2)

	if ok := set.MarkUsed("p", 1); !ok {
		t.Fatal("expected MarkUsed to succeed for a registered signature")
	}

	if ok := set.MarkUsed("r", 0); ok {
		t.Error("expected MarkUsed to fail for a signature never added")
	}

	unused := set.Unused()
	if len(unused) != 1 || unused[0].Name != "q" {
		t.Errorf("expected only q/2 to remain unused, got %#v", unused)
	}

	if len(set.All()) != 2 {
		t.Errorf("expected 2 entries total, got %d", len(set.All()))
	}
}

func TestSignatureSetAddIsIdempotent(t *testing.T) {
	set := NewSignatureSet()
	first := set.Add("p", 1)
	second := set.Add("p", 1)

	if first != second {
		t.Error("expected a repeated Add for the same signature to return the same entry")
	}

	if len(set.All()) != 1 {
		t.Errorf("expected exactly 1 entry after a duplicate Add, got %d", len(set.All()))
	}
}

func TestDomainString(t *testing.T) {
	cases := []struct {
		domain Domain
		want   string
	}{
		{DomainProgram, "program"},
		{DomainInteger, "integer"},
		{DomainGeneral, "general"},
		{DomainUnknown, "unknown"},
	}

	for _, c := range cases {
		if got := c.domain.String(); got != c.want {
			t.Errorf("Domain(%d).String() = %q, want %q", c.domain, got, c.want)
		}
	}
}
