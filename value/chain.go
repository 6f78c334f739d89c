package value

// Chain is a zero-payload ordering token. Its only observable property is
// availability: operation B taking the chain produced by operation A, and
// producing a new chain of its own, encodes "B's effects happen after A's"
// for effects that touch no shared async value.
//
// An absent chain means no ordering is required.
type Chain struct{}

// ReadyChain returns an already-available chain, the usual starting point
// of a sequenced effect path.
func ReadyChain() Ref[Chain] {
	return Concrete(Chain{})
}
