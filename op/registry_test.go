package op

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/host-runtime/errors"
	"github.com/wippyai/host-runtime/host"
)

func nopFn(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
	return []any{nil}, nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("math.add", nopFn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	o, err := r.Lookup("math.add")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if o.Name() != "math.add" {
		t.Fatalf("Name() = %q, want %q", o.Name(), "math.add")
	}
	if o.NumResults() != 1 {
		t.Fatalf("NumResults() = %d, want default 1", o.NumResults())
	}
	if o.HasSideEffects() {
		t.Fatal("op should be pure by default")
	}
}

func TestRegistry_Options(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("io.print", nopFn, WithNumResults(0), WithSideEffects())

	o, err := r.Lookup("io.print")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if o.NumResults() != 0 {
		t.Fatalf("NumResults() = %d, want 0", o.NumResults())
	}
	if !o.HasSideEffects() {
		t.Fatal("WithSideEffects not applied")
	}
}

func TestRegistry_RejectsBadRegistrations(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("taken", nopFn)

	cases := []struct {
		name string
		err  error
	}{
		{"empty-name", r.Register("", nopFn)},
		{"nil-body", r.Register("x", nil)},
		{"negative-results", r.Register("y", nopFn, WithNumResults(-1))},
		{"duplicate", r.Register("taken", nopFn)},
	}
	for _, tc := range cases {
		if tc.err == nil {
			t.Fatalf("%s: registration should fail", tc.name)
		}
	}

	dup := &errors.Error{Phase: errors.PhaseHost, Kind: errors.KindDuplicate}
	if !stderrors.Is(cases[3].err, dup) {
		t.Fatalf("duplicate err = %v, want duplicate kind", cases[3].err)
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("no.such.op")
	if err == nil {
		t.Fatal("Lookup of unregistered op should fail")
	}
	notFound := &errors.Error{Phase: errors.PhaseExecute, Kind: errors.KindNotFound}
	if !stderrors.Is(err, notFound) {
		t.Fatalf("err = %v, want not-found kind", err)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("c", nopFn)
	r.MustRegister("a", nopFn)
	r.MustRegister("b", nopFn)

	names := r.Names()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("Names() = %v, want [a b c]", names)
	}
}
