// Package host ties the runtime together: the process-wide Host owning the
// work queue and shared facilities, the per-invocation ExecContext threaded
// through every dispatch call, and the dispatch helpers themselves.
//
// # Lifecycle
//
// A Host is constructed once per runtime instance and torn down once:
//
//	h, err := host.New(host.DefaultConfig())
//	...
//	defer h.Close()
//
// Multiple hosts may coexist in one process (tests rely on this). Async
// values allocated through a host must not be dereferenced after that
// host's Close returns.
//
// # Dispatch
//
// Every dispatch helper takes a Dispatcher, satisfied by both *Host and
// *ExecContext; behavior is identical, only the diagnostic scope differs.
// Fire-and-forget forms mirror the queue contract directly; the generic
// forms wrap the work's outcome in an async value:
//
//	four := host.Enqueue(ec, func() (int, error) { return 2 + 2, nil })
//	host.Await(ec, four.Value())
//	four.Get() // 4
//
// Await parks the calling goroutine and must not be used from a goroutine
// owned by the work queue; that eats a worker and risks pool-exhaustion
// deadlock. This is a caller obligation the runtime does not enforce.
package host
