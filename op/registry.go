package op

import (
	"sort"
	"sync"

	"github.com/wippyai/host-runtime/errors"
	"github.com/wippyai/host-runtime/host"
)

// Fn is an op body. Arguments arrive resolved and unwrapped to concrete
// values. Each returned result is either a concrete value or a
// *value.Value the op resolves later (ownership of one reference on such a
// value transfers to the executor). A returned error fails every result of
// the invocation.
type Fn func(ec *host.ExecContext, args []any, attrs *Attrs) ([]any, error)

// Op is a registered operation. Immutable after registration.
type Op struct {
	name        string
	fn          Fn
	numResults  int
	sideEffects bool
}

// Name returns the name the op was registered under.
func (o *Op) Name() string { return o.name }

// NumResults returns the number of result slots an invocation produces.
func (o *Op) NumResults() int { return o.numResults }

// HasSideEffects reports whether invocations should be threaded on a chain.
func (o *Op) HasSideEffects() bool { return o.sideEffects }

// Option customizes a registration.
type Option func(*Op)

// WithNumResults sets the op's result count. Default is 1.
func WithNumResults(n int) Option {
	return func(o *Op) { o.numResults = n }
}

// WithSideEffects marks the op as effectful, documenting that callers are
// expected to sequence it on a chain.
func WithSideEffects() Option {
	return func(o *Op) { o.sideEffects = true }
}

// Registry maps op names to registered ops. Safe for concurrent use;
// registration normally happens once at startup, lookup on every dispatch.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]*Op
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]*Op)}
}

// Register adds an op under name. Registering an empty name or a name that
// is already taken is an error.
func (r *Registry) Register(name string, fn Fn, opts ...Option) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "op name cannot be empty")
	}
	if fn == nil {
		return errors.InvalidInput(errors.PhaseHost, "op body cannot be nil")
	}

	o := &Op{name: name, fn: fn, numResults: 1}
	for _, opt := range opts {
		opt(o)
	}
	if o.numResults < 0 {
		return errors.InvalidInput(errors.PhaseHost, "op result count cannot be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return errors.Duplicate("op", name)
	}
	r.ops[name] = o
	return nil
}

// MustRegister is Register for startup-time tables.
func (r *Registry) MustRegister(name string, fn Fn, opts ...Option) {
	if err := r.Register(name, fn, opts...); err != nil {
		panic(err)
	}
}

// Lookup returns the op registered under name.
func (r *Registry) Lookup(name string) (*Op, error) {
	r.mu.RLock()
	o, ok := r.ops[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.OpNotFound(name)
	}
	return o, nil
}

// Names returns all registered op names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
