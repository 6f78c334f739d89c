package op

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/wippyai/host-runtime/errors"
	"github.com/wippyai/host-runtime/host"
	"github.com/wippyai/host-runtime/value"
)

func newTestExec(t *testing.T) *host.ExecContext {
	t.Helper()
	h, err := host.New(host.DefaultConfig())
	if err != nil {
		t.Fatalf("host.New failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h.NewExecContext(host.HereLocation())
}

func registerAdd(t *testing.T) *Op {
	t.Helper()
	r := NewRegistry()
	r.MustRegister("add", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		return []any{args[0].(int) + args[1].(int)}, nil
	})
	o, err := r.Lookup("add")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	return o
}

func TestExecute_ConcreteArgs(t *testing.T) {
	ec := newTestExec(t)
	o := registerAdd(t)

	a := value.Concrete(2)
	b := value.Concrete(3)
	defer a.DropRef()
	defer b.DropRef()

	results := Execute(ec, o, []*value.Value{a.Value(), b.Value()}, nil, nil)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	defer results[0].DropRef()

	host.Await(ec, results[0])
	if got := results[0].Get().(int); got != 5 {
		t.Fatalf("add(2, 3) = %d, want 5", got)
	}
}

func TestExecute_WaitsForAsyncArgs(t *testing.T) {
	ec := newTestExec(t)
	o := registerAdd(t)

	a := value.Unconstructed[int]()
	b := value.Concrete(10)
	defer a.DropRef()
	defer b.DropRef()

	results := Execute(ec, o, []*value.Value{a.Value(), b.Value()}, nil, nil)
	defer results[0].DropRef()

	if results[0].IsAvailable() {
		t.Fatal("result resolved before all arguments were available")
	}

	a.Emplace(32)
	host.Await(ec, results[0])
	if got := results[0].Get().(int); got != 42 {
		t.Fatalf("add(32, 10) = %d, want 42", got)
	}
}

func TestExecute_ErrorInputShortCircuits(t *testing.T) {
	ec := newTestExec(t)

	var ran bool
	r := NewRegistry()
	r.MustRegister("body", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		ran = true
		return []any{nil}, nil
	})
	o, _ := r.Lookup("body")

	wantErr := stderrors.New("bad input")
	a := value.FromError[int](wantErr)
	defer a.DropRef()

	results := Execute(ec, o, []*value.Value{a.Value()}, nil, nil)
	defer results[0].DropRef()

	host.Await(ec, results[0])

	if ran {
		t.Fatal("body ran despite an error input")
	}
	if !results[0].IsError() {
		t.Fatal("result should be in error state")
	}
	resolution := &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindResolution}
	if !stderrors.Is(results[0].Err(), resolution) {
		t.Fatalf("Err() = %v, want resolution error", results[0].Err())
	}
	if !stderrors.Is(results[0].Err(), wantErr) {
		t.Fatalf("Err() = %v should wrap %v", results[0].Err(), wantErr)
	}
}

func TestExecute_BodyErrorFailsResults(t *testing.T) {
	ec := newTestExec(t)

	wantErr := stderrors.New("kernel exploded")
	r := NewRegistry()
	r.MustRegister("boom", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		return nil, wantErr
	}, WithNumResults(2))
	o, _ := r.Lookup("boom")

	results := Execute(ec, o, nil, nil, nil)
	host.Await(ec, results...)

	for i, res := range results {
		if !res.IsError() {
			t.Fatalf("result %d should be in error state", i)
		}
		if !stderrors.Is(res.Err(), wantErr) {
			t.Fatalf("result %d Err() = %v should wrap %v", i, res.Err(), wantErr)
		}
		res.DropRef()
	}
}

func TestExecute_ArityMismatch(t *testing.T) {
	ec := newTestExec(t)

	r := NewRegistry()
	r.MustRegister("two-for-one", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		return []any{1, 2}, nil
	})
	o, _ := r.Lookup("two-for-one")

	results := Execute(ec, o, nil, nil, nil)
	defer results[0].DropRef()
	host.Await(ec, results[0])

	arity := &errors.Error{Phase: errors.PhaseExecute, Kind: errors.KindArity}
	if !stderrors.Is(results[0].Err(), arity) {
		t.Fatalf("Err() = %v, want arity error", results[0].Err())
	}
}

func TestExecute_AsyncResult(t *testing.T) {
	ec := newTestExec(t)

	release := make(chan struct{})
	r := NewRegistry()
	r.MustRegister("deferred", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		cell := host.MakeUnconstructed[string](ec.Host())
		resolver := cell.CopyRef()
		go func() {
			<-release
			resolver.Emplace("late")
			resolver.DropRef()
		}()
		// One reference on the returned cell transfers with it.
		return []any{cell.Value()}, nil
	})
	o, _ := r.Lookup("deferred")

	results := Execute(ec, o, nil, nil, nil)
	defer results[0].DropRef()

	close(release)
	host.Await(ec, results[0])

	if got := results[0].Get().(string); got != "late" {
		t.Fatalf("Get() = %q, want %q", got, "late")
	}
}

func TestExecute_AttrsReachBody(t *testing.T) {
	ec := newTestExec(t)

	r := NewRegistry()
	r.MustRegister("scale", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		k, ok := attrs.GetI32("factor")
		if !ok {
			return nil, stderrors.New("factor attribute missing")
		}
		return []any{args[0].(int) * int(k)}, nil
	})
	o, _ := r.Lookup("scale")

	a := value.Concrete(6)
	defer a.DropRef()

	results := Execute(ec, o, []*value.Value{a.Value()}, nil, MustAttrs(I32("factor", 7)))
	defer results[0].DropRef()
	host.Await(ec, results[0])

	if got := results[0].Get().(int); got != 42 {
		t.Fatalf("scale(6) = %d, want 42", got)
	}
}

func TestExecute_ChainSequencesEffects(t *testing.T) {
	ec := newTestExec(t)

	var mu sync.Mutex
	var order []int32
	r := NewRegistry()
	r.MustRegister("record", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		i, _ := attrs.GetI32("i")
		mu.Lock()
		order = append(order, i)
		mu.Unlock()
		return nil, nil
	}, WithNumResults(0), WithSideEffects())
	o, _ := r.Lookup("record")

	const n = 64
	chain := value.ReadyChain()
	for i := int32(0); i < n; i++ {
		Execute(ec, o, nil, &chain, MustAttrs(I32("i", i)))
	}

	host.Await(ec, chain.Value())
	chain.DropRef()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != n {
		t.Fatalf("recorded %d invocations, want %d", len(order), n)
	}
	for i := int32(0); i < n; i++ {
		if order[i] != i {
			t.Fatalf("invocation order inverted at %d: %v", i, order[:i+1])
		}
	}
}

func TestExecute_BodyErrorPoisonsChain(t *testing.T) {
	ec := newTestExec(t)

	wantErr := stderrors.New("effect failed")
	var successorRan bool
	r := NewRegistry()
	r.MustRegister("fail", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		return nil, wantErr
	}, WithNumResults(0), WithSideEffects())
	r.MustRegister("after", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		successorRan = true
		return nil, nil
	}, WithNumResults(0), WithSideEffects())
	failOp, _ := r.Lookup("fail")
	afterOp, _ := r.Lookup("after")

	chain := value.ReadyChain()
	Execute(ec, failOp, nil, &chain, nil)
	Execute(ec, afterOp, nil, &chain, nil)

	host.Await(ec, chain.Value())

	if successorRan {
		t.Fatal("successor ran on a poisoned chain")
	}
	if !chain.IsError() {
		t.Fatal("chain should carry the failure forward")
	}
	if !stderrors.Is(chain.Err(), wantErr) {
		t.Fatalf("chain Err() = %v should wrap %v", chain.Err(), wantErr)
	}
	chain.DropRef()
}

func TestRegistry_Execute(t *testing.T) {
	ec := newTestExec(t)

	r := NewRegistry()
	r.MustRegister("double", func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error) {
		return []any{args[0].(int) * 2}, nil
	})

	a := value.Concrete(21)
	defer a.DropRef()

	results, err := r.Execute(ec, "double", []*value.Value{a.Value()}, nil, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	defer results[0].DropRef()
	host.Await(ec, results[0])

	if got := results[0].Get().(int); got != 42 {
		t.Fatalf("double(21) = %d, want 42", got)
	}
}

func TestRegistry_ExecuteUnknownOp(t *testing.T) {
	ec := newTestExec(t)
	r := NewRegistry()

	results, err := r.Execute(ec, "ghost", nil, nil, nil)
	if err == nil {
		t.Fatal("Execute of unregistered op should fail")
	}
	if results != nil {
		t.Fatal("failed dispatch should not allocate results")
	}
	notFound := &errors.Error{Phase: errors.PhaseExecute, Kind: errors.KindNotFound}
	if !stderrors.Is(err, notFound) {
		t.Fatalf("err = %v, want not-found kind", err)
	}
}
