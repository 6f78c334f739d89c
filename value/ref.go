package value

// Ref is a typed view over a Value cell. The zero Ref is invalid.
//
// Ref is cheap to pass by value, but passing one does not take a reference:
// use CopyRef when handing a Ref to another owner.
type Ref[T any] struct {
	av *Value
}

// Unconstructed returns a new unresolved cell with reference count 1,
// owned by the caller.
func Unconstructed[T any]() Ref[T] {
	return Ref[T]{av: newValue()}
}

// Concrete returns a cell already resolved with v.
func Concrete[T any](v T) Ref[T] {
	r := Unconstructed[T]()
	r.av.Emplace(v)
	return r
}

// FromError returns a cell already resolved to err.
func FromError[T any](err error) Ref[T] {
	r := Unconstructed[T]()
	r.av.SetError(err)
	return r
}

// IsValid reports whether r refers to a cell at all.
func (r Ref[T]) IsValid() bool { return r.av != nil }

// Value returns the type-erased cell, for heterogeneous awaiting.
// It does not take a reference.
func (r Ref[T]) Value() *Value { return r.av }

// Emplace resolves the cell with v. Exactly-once.
func (r Ref[T]) Emplace(v T) { r.av.Emplace(v) }

// SetError resolves the cell with err. Exactly-once.
func (r Ref[T]) SetError(err error) { r.av.SetError(err) }

// IsAvailable reports whether the cell has been resolved.
func (r Ref[T]) IsAvailable() bool { return r.av.IsAvailable() }

// IsError reports whether the cell resolved to an error.
func (r Ref[T]) IsError() bool { return r.av.IsError() }

// Get returns the concrete value. Only valid once IsAvailable() and not
// IsError(); anything else panics.
func (r Ref[T]) Get() T {
	return r.av.Get().(T)
}

// Err returns the error the cell resolved to, or nil.
func (r Ref[T]) Err() error { return r.av.Err() }

// AndThen registers fn to run exactly once after the cell is available.
// See Value.AndThen for the synchronous execution contract.
func (r Ref[T]) AndThen(fn func()) { r.av.AndThen(fn) }

// CopyRef takes an additional reference and returns a Ref sharing the cell.
func (r Ref[T]) CopyRef() Ref[T] {
	return Ref[T]{av: r.av.AddRef()}
}

// DropRef releases the caller's reference.
func (r Ref[T]) DropRef() { r.av.DropRef() }
