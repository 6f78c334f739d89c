package hostruntime

// Task is an opaque nullary unit of work.
type Task func()

// WorkQueue abstracts the thread pools a host schedules work on.
//
// Non-blocking work is assumed to complete without waiting on other queued
// work; blocking work may wait on other work or external I/O and therefore
// needs a dedicated execution slot so it cannot starve the shared pool.
// The classification is a caller contract: the queue cannot verify it.
type WorkQueue interface {
	// AddTask submits non-blocking work. The queue always accepts it;
	// capacity bounds concurrency, not admission.
	AddTask(Task)

	// AddBlockingTask submits work that may block. It returns false, without
	// running the task, when no blocking capacity exists. Callers must treat
	// false as a scheduling error and must never drop the failure silently.
	AddBlockingTask(Task) bool

	// RunBlockingTask is a stronger form of AddBlockingTask: when it returns
	// true the task has already been handed a dedicated thread and starts
	// immediately, never queued behind other blocking work. It returns false
	// when no thread can be assigned right now.
	RunBlockingTask(Task) bool

	// Quiesce blocks until all previously submitted work has finished.
	// It must not be called from a thread owned by the queue.
	Quiesce()

	// Close quiesces the queue and releases its threads. Submitting
	// non-blocking work after Close is a contract violation; blocking
	// submissions report false.
	Close() error
}
