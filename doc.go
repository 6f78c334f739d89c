// Package hostruntime provides an asynchronous value-propagation and
// work-dispatch runtime.
//
// The runtime is built around three primitives: an AsyncValue (a
// single-assignment, reference-counted future cell), a work queue that
// separates non-blocking from blocking work, and a Chain token used to
// sequence side effects that share no data dependency.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	hostruntime/         Root package with the Task and WorkQueue interfaces
//	├── value/           AsyncValue cells, typed refs, chains, RunWhenReady
//	├── queue/           Concurrent work queue implementation with metrics
//	├── host/            Host lifecycle, execution contexts, dispatch helpers
//	├── op/              Named-op registry and chain-sequenced op execution
//	├── resource/        Shared-facility handle table for host collaborators
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Create a host, dispatch work, and await the result:
//
//	h, err := host.New(host.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	ec := h.NewExecContext(host.HereLocation())
//	sum := host.Enqueue(ec, func() (int, error) {
//	    return 2 + 2, nil
//	})
//	host.Await(ec, sum.Value())
//	fmt.Println(sum.Get()) // 4
//
// # Blocking vs Non-Blocking Work
//
// Work submitted with EnqueueWork must never wait on other queued work or
// on external I/O; it shares a fixed pool of workers and a stalled worker
// stalls everyone behind it. Work that may wait must go through
// EnqueueBlockingWork or RunBlockingWork, which draw from a separately
// bounded set of dedicated threads. Misclassifying blocking work as
// non-blocking is a caller contract violation the runtime cannot detect.
//
// # Ordering
//
// AsyncValue resolution is exactly-once, and a resolved value is visible to
// every observer that sees it available. Operations with no shared data can
// still be ordered by threading a value.Chain through op.Execute: each
// invocation consumes the previous chain and produces a new one that
// resolves only after its effects are done.
//
// # Thread Safety
//
// Host, ExecContext, queues, registries and AsyncValues are safe for
// concurrent use. Resolving an AsyncValue (Emplace or SetError) is reserved
// for its single designated producer; doing it twice panics.
package hostruntime
