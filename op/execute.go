package op

import (
	"github.com/wippyai/host-runtime/errors"
	"github.com/wippyai/host-runtime/host"
	"github.com/wippyai/host-runtime/value"
)

// Execute runs one invocation of o.
//
// Result cells are allocated and returned immediately, unconstructed, so
// the caller can keep dispatching without blocking; the caller owns one
// reference on each. args are borrowed for the duration of the call (the
// executor takes its own references while it waits).
//
// chain sequences the op's side effects. When chain is non-nil, the
// invocation happens-after the availability of the chain value it points
// to, and Execute replaces *chain with a new chain that resolves only
// after the op body has returned. Ownership of the incoming chain
// reference transfers to the executor; the caller owns the outgoing one.
// A nil chain adds no ordering constraint.
//
// If any input (argument or incoming chain) resolves to an error, the body
// never runs: every result and the outgoing chain resolve to that error.
// An error returned by the body likewise fails all results and poisons the
// outgoing chain, so sequenced successors short-circuit too.
func Execute(ec *host.ExecContext, o *Op, args []*value.Value, chain *value.Ref[value.Chain], attrs *Attrs) []*value.Value {
	h := ec.Host()

	inv := &invocation{
		ec:      ec,
		op:      o,
		args:    args,
		attrs:   attrs,
		results: make([]*value.Value, o.numResults),
	}
	for i := range inv.results {
		inv.results[i] = host.MakeUnconstructed[any](h).Value()
	}

	deps := make([]*value.Value, 0, len(args)+1)
	for _, a := range args {
		a.AddRef()
		deps = append(deps, a)
	}
	if chain != nil {
		if chain.IsValid() {
			inv.prevChain = chain.Value()
			deps = append(deps, inv.prevChain)
		}
		inv.nextChain = host.MakeUnconstructed[value.Chain](h)
		*chain = inv.nextChain
	}

	// Pending: wait for arguments and the incoming chain.
	value.RunWhenReady(deps, inv.onReady)

	return inv.results
}

// invocation carries one op execution through its states:
// Pending -> Ready -> Executing -> Completed or Failed. Terminal states are
// never left and instances are never reused.
type invocation struct {
	ec      *host.ExecContext
	op      *Op
	args    []*value.Value
	attrs   *Attrs
	results []*value.Value

	prevChain *value.Value
	nextChain value.Ref[value.Chain]
}

// onReady runs once every input is available. It either short-circuits on
// an input error or hands the body to the non-blocking pool.
func (inv *invocation) onReady() {
	for _, a := range inv.args {
		if a.IsError() {
			inv.fail(errors.Resolution(inv.op.name, a.Err()))
			return
		}
	}
	if inv.prevChain != nil && inv.prevChain.IsError() {
		inv.fail(errors.Resolution(inv.op.name, inv.prevChain.Err()))
		return
	}

	// Ready -> Executing.
	host.EnqueueWork(inv.ec, inv.run)
}

func (inv *invocation) run() {
	concrete := make([]any, len(inv.args))
	for i, a := range inv.args {
		concrete[i] = a.Get()
	}

	outs, err := inv.op.fn(inv.ec, concrete, inv.attrs)
	if err != nil {
		inv.fail(errors.ExecuteFailed(inv.op.name, err))
		return
	}
	if len(outs) != len(inv.results) {
		inv.dropTransferred(outs)
		inv.fail(errors.Arity(inv.op.name, len(outs), len(inv.results)))
		return
	}

	for i, out := range outs {
		if av, ok := out.(*value.Value); ok {
			value.Forward(inv.results[i], av)
			av.DropRef()
			continue
		}
		inv.results[i].Emplace(out)
	}

	// Completed. The body has returned, so its effects are issued; the
	// outgoing chain may now release sequenced successors.
	if inv.nextChain.IsValid() {
		inv.nextChain.Emplace(value.Chain{})
	}
	inv.release()
}

// fail resolves every pending result and the outgoing chain to err.
// Terminal.
func (inv *invocation) fail(err error) {
	for _, res := range inv.results {
		res.SetError(err)
	}
	if inv.nextChain.IsValid() {
		inv.nextChain.SetError(err)
	}
	inv.release()
}

// dropTransferred releases async-value references a misbehaving body
// handed back before its results were discarded.
func (inv *invocation) dropTransferred(outs []any) {
	for _, out := range outs {
		if av, ok := out.(*value.Value); ok {
			av.DropRef()
		}
	}
}

// release drops the references the executor took on its inputs.
func (inv *invocation) release() {
	for _, a := range inv.args {
		a.DropRef()
	}
	if inv.prevChain != nil {
		inv.prevChain.DropRef()
	}
}

// Execute looks up name and runs it; see the package-level Execute for the
// invocation contract. Returns an error without allocating results when
// the op is not registered.
func (r *Registry) Execute(ec *host.ExecContext, name string, args []*value.Value, chain *value.Ref[value.Chain], attrs *Attrs) ([]*value.Value, error) {
	o, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Execute(ec, o, args, chain, attrs), nil
}
