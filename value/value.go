package value

import (
	"sync"
	"sync/atomic"
)

// Cell states. Any state other than stateUnconstructed is terminal.
const (
	stateUnconstructed uint32 = iota
	stateConcrete
	stateError
)

// Value is the type-erased async value cell. Typed producers and consumers
// normally work through Ref[T]; the untyped form exists so heterogeneous
// sets of values can be awaited and forwarded by executor plumbing.
//
// All methods are safe for concurrent use. Emplace and SetError are
// reserved for the single designated resolver.
type Value struct {
	refs      atomic.Int32
	state     atomic.Uint32
	mu        sync.Mutex
	waiters   []func()
	payload   any
	err       error
	onRelease func()
}

func newValue() *Value {
	v := &Value{}
	v.refs.Store(1)
	return v
}

// OnRelease registers fn to run once, when the last reference is dropped.
// It must be called before the value is shared with other goroutines.
func (v *Value) OnRelease(fn func()) {
	v.onRelease = fn
}

// IsAvailable reports whether the cell has been resolved, to either a
// concrete value or an error. Non-blocking, callable from any goroutine.
func (v *Value) IsAvailable() bool {
	return v.state.Load() != stateUnconstructed
}

// IsError reports whether the cell resolved to an error.
func (v *Value) IsError() bool {
	return v.state.Load() == stateError
}

// Get returns the concrete payload. Calling it before the cell is available,
// or when it resolved to an error, is a contract violation and panics.
func (v *Value) Get() any {
	switch v.state.Load() {
	case stateConcrete:
		return v.payload
	case stateError:
		panic("hostruntime: Get on async value in error state: " + v.err.Error())
	default:
		panic("hostruntime: Get on unconstructed async value")
	}
}

// Err returns the error the cell resolved to, or nil if the cell is
// unresolved or concrete.
func (v *Value) Err() error {
	if v.state.Load() != stateError {
		return nil
	}
	return v.err
}

// Emplace resolves the cell with a concrete payload. Exactly-once: a second
// resolution of any kind panics.
func (v *Value) Emplace(payload any) {
	v.resolve(stateConcrete, payload, nil)
}

// SetError resolves the cell with an error. Same exclusivity as Emplace.
func (v *Value) SetError(err error) {
	if err == nil {
		panic("hostruntime: SetError with nil error")
	}
	v.resolve(stateError, nil, err)
}

func (v *Value) resolve(state uint32, payload any, err error) {
	v.mu.Lock()
	if v.state.Load() != stateUnconstructed {
		v.mu.Unlock()
		panic("hostruntime: async value resolved twice")
	}
	v.payload = payload
	v.err = err
	// The atomic store is the synchronization point: the payload write above
	// happens-before any observer that loads a non-unconstructed state.
	v.state.Store(state)
	waiters := v.waiters
	v.waiters = nil
	v.mu.Unlock()

	for _, w := range waiters {
		w()
	}
}

// AndThen registers fn to run exactly once, after the cell becomes
// available. If the cell is already available fn runs synchronously on the
// calling goroutine; otherwise it runs on the resolving goroutine.
func (v *Value) AndThen(fn func()) {
	v.mu.Lock()
	if v.state.Load() == stateUnconstructed {
		v.waiters = append(v.waiters, fn)
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	fn()
}

// AddRef takes an additional reference and returns v for chaining.
func (v *Value) AddRef() *Value {
	if v.refs.Add(1) <= 1 {
		panic("hostruntime: AddRef on released async value")
	}
	return v
}

// DropRef releases one reference. The last drop releases the payload;
// dropping past zero panics.
func (v *Value) DropRef() {
	n := v.refs.Add(-1)
	if n < 0 {
		panic("hostruntime: DropRef past zero")
	}
	if n > 0 {
		return
	}
	v.mu.Lock()
	v.payload = nil
	v.waiters = nil
	v.mu.Unlock()
	if v.onRelease != nil {
		v.onRelease()
	}
}
