package value

import "sync/atomic"

// RunWhenReady registers fn to run exactly once, after every value in
// values has become available, whether individual values resolved concrete
// or to errors. An empty (or all-available) set runs fn synchronously on
// the calling goroutine; otherwise fn runs on the goroutine that resolves
// the last outstanding value.
//
// Independently registered continuations on the same values have no
// guaranteed relative order.
func RunWhenReady(values []*Value, fn func()) {
	// Count starts at len+1; the extra count is dropped after registration
	// so fn cannot fire while values are still being visited.
	var pending atomic.Int32
	pending.Store(int32(len(values)) + 1)

	arrive := func() {
		if pending.Add(-1) == 0 {
			fn()
		}
	}

	for _, v := range values {
		v.AndThen(arrive)
	}
	arrive()
}

// Forward resolves dst with src's outcome once src becomes available.
// It takes its own reference on src for the duration of the wait.
// Used to bind a handler-returned async value into a pre-published result
// slot.
func Forward(dst, src *Value) {
	src.AddRef()
	src.AndThen(func() {
		if src.IsError() {
			dst.SetError(src.Err())
		} else {
			dst.Emplace(src.Get())
		}
		src.DropRef()
	})
}
