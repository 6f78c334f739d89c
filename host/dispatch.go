package host

import (
	"go.uber.org/zap"

	"github.com/wippyai/host-runtime/errors"
	"github.com/wippyai/host-runtime/value"
)

// Dispatcher is the common capability of *Host and *ExecContext: anything
// work can be dispatched through. Behavior is identical for both; the
// ExecContext form exists so dispatch calls carry per-invocation
// diagnostics without global lookup.
type Dispatcher interface {
	Host() *Host
}

// EnqueueWork submits non-blocking work. The queue always accepts it;
// there is no failure to report.
func EnqueueWork(d Dispatcher, work func()) {
	h := d.Host()
	h.checkOpen()
	h.queue.AddTask(work)
}

// Enqueue submits non-blocking work that produces a result, returning an
// unresolved async value immediately. The value resolves to the work's
// result, or to its error when the work fails.
func Enqueue[R any](d Dispatcher, work func() (R, error)) value.Ref[R] {
	h := d.Host()
	h.checkOpen()

	result := MakeUnconstructed[R](h)
	cell := result.Value().AddRef()
	h.queue.AddTask(func() {
		resolveOutcome(cell, work)
		cell.DropRef()
	})
	return result
}

// EnqueueBlockingWork submits work that may itself wait on other work or
// external I/O. It returns false, without running the work, when the
// blocking pool has no capacity; callers must surface that as an error.
func EnqueueBlockingWork(d Dispatcher, work func()) bool {
	h := d.Host()
	if h.closed.Load() {
		return false
	}
	ok := h.queue.AddBlockingTask(work)
	if !ok {
		h.log.Warn("blocking work rejected", zap.String("path", "enqueue"))
	}
	return ok
}

// EnqueueBlocking is the value-returning form of EnqueueBlockingWork.
// When enqueueing fails the returned value is resolved to an error rather
// than being left unconstructed forever.
func EnqueueBlocking[R any](d Dispatcher, work func() (R, error)) value.Ref[R] {
	h := d.Host()
	if h.closed.Load() {
		return MakeError[R](h, h.closedErr())
	}

	result := MakeUnconstructed[R](h)
	cell := result.Value().AddRef()
	ok := h.queue.AddBlockingTask(func() {
		resolveOutcome(cell, work)
		cell.DropRef()
	})
	if !ok {
		cell.DropRef()
		result.SetError(errors.Capacity("enqueue blocking work"))
		h.log.Warn("blocking work rejected", zap.String("path", "enqueue"))
	}
	return result
}

// RunBlockingWork is a stronger form of EnqueueBlockingWork: when it
// returns true the work has already started on a dedicated thread, never
// queued behind other blocking work. It returns false when no thread can
// be assigned right now.
func RunBlockingWork(d Dispatcher, work func()) bool {
	h := d.Host()
	if h.closed.Load() {
		return false
	}
	ok := h.queue.RunBlockingTask(work)
	if !ok {
		h.log.Warn("blocking work rejected", zap.String("path", "run"))
	}
	return ok
}

// RunBlocking is the value-returning form of RunBlockingWork, with the same
// error surfacing as EnqueueBlocking.
func RunBlocking[R any](d Dispatcher, work func() (R, error)) value.Ref[R] {
	h := d.Host()
	if h.closed.Load() {
		return MakeError[R](h, h.closedErr())
	}

	result := MakeUnconstructed[R](h)
	cell := result.Value().AddRef()
	ok := h.queue.RunBlockingTask(func() {
		resolveOutcome(cell, work)
		cell.DropRef()
	})
	if !ok {
		cell.DropRef()
		result.SetError(errors.Capacity("run blocking work"))
		h.log.Warn("blocking work rejected", zap.String("path", "run"))
	}
	return result
}

// Await blocks the calling goroutine until every listed value is available,
// concrete or error. It must not be called from a goroutine owned by the
// work queue: that removes a worker from the pool and risks exhaustion
// deadlock. Errors are observed through the values themselves; Await does
// not fail.
func Await(d Dispatcher, values ...*value.Value) {
	d.Host().checkOpen()

	done := make(chan struct{})
	value.RunWhenReady(values, func() { close(done) })
	<-done
}

// resolveOutcome runs work and resolves cell with its result or error.
func resolveOutcome[R any](cell *value.Value, work func() (R, error)) {
	r, err := work()
	if err != nil {
		cell.SetError(err)
		return
	}
	cell.Emplace(r)
}
