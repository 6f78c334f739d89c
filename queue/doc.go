// Package queue implements the concurrent work queue behind a host.
//
// Two pools service submitted work:
//
//   - A fixed set of workers runs non-blocking tasks from an unbounded FIFO.
//     Admission never fails; the worker count is the bound on concurrency.
//     A non-blocking task must never wait on other queued work, or it can
//     stall every task behind it.
//
//   - Blocking tasks run on dynamically spawned threads, bounded by
//     MaxBlockingThreads, with a bounded overflow queue behind them.
//     AddBlockingTask reports false (and never runs the task) when both are
//     full; RunBlockingTask additionally guarantees that a reported-true
//     task has already been handed its own thread and is not queued behind
//     other blocking work.
//
// Quiesce blocks until everything submitted so far has drained; it must not
// be called from a queue-owned goroutine. Close quiesces and stops the
// workers.
package queue
