package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"bare",
			&Error{Phase: PhaseEnqueue, Kind: KindCapacity},
			"[enqueue] capacity",
		},
		{
			"with-op-and-detail",
			&Error{Phase: PhaseExecute, Kind: KindArity, Op: "matmul", Detail: "op returned 2 results, want 1"},
			"[execute] arity in op matmul: op returned 2 results, want 1",
		},
		{
			"with-cause",
			&Error{Phase: PhaseResolve, Kind: KindResolution, Cause: stderrors.New("upstream")},
			"[resolve] resolution (caused by: upstream)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestError_IsMatchesPhaseAndKind(t *testing.T) {
	err := ExecuteFailed("matmul", stderrors.New("boom"))

	if !stderrors.Is(err, &Error{Phase: PhaseExecute, Kind: KindResolution}) {
		t.Fatal("Is should match on phase and kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseEnqueue, Kind: KindResolution}) {
		t.Fatal("Is should reject a different phase")
	}
	if stderrors.Is(err, &Error{Phase: PhaseExecute, Kind: KindArity}) {
		t.Fatal("Is should reject a different kind")
	}
}

func TestError_UnwrapChain(t *testing.T) {
	root := stderrors.New("device lost")
	err := Resolution("relu", ExecuteFailed("matmul", root))

	if !stderrors.Is(err, root) {
		t.Fatal("root cause should be reachable through Unwrap")
	}
}

func TestBuilder(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New(PhaseHost, KindInvalidInput).
		Op("checkpoint").
		Cause(cause).
		Detail("cannot persist %d bytes", 1024).
		Build()

	if err.Phase != PhaseHost || err.Kind != KindInvalidInput {
		t.Fatal("builder lost phase or kind")
	}
	if err.Op != "checkpoint" {
		t.Fatalf("Op = %q", err.Op)
	}
	if err.Detail != "cannot persist 1024 bytes" {
		t.Fatalf("Detail = %q", err.Detail)
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("cause not wrapped")
	}
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
		frag  string
	}{
		{"capacity", Capacity("enqueue blocking work"), PhaseEnqueue, KindCapacity, "no capacity"},
		{"not-found", OpNotFound("ghost"), PhaseExecute, KindNotFound, `"ghost" not registered`},
		{"duplicate", Duplicate("op", "add"), PhaseHost, KindDuplicate, "already registered"},
		{"invalid-input", InvalidInput(PhaseAttrs, "bad order"), PhaseAttrs, KindInvalidInput, "bad order"},
		{"closed", Closed("host"), PhaseHost, KindClosed, "host is closed"},
		{"arity", Arity("add", 0, 1), PhaseExecute, KindArity, "0 results, want 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Phase != tc.phase || tc.err.Kind != tc.kind {
				t.Fatalf("got phase %q kind %q, want %q %q", tc.err.Phase, tc.err.Kind, tc.phase, tc.kind)
			}
			if !strings.Contains(tc.err.Error(), tc.frag) {
				t.Fatalf("Error() = %q, want substring %q", tc.err.Error(), tc.frag)
			}
		})
	}
}
