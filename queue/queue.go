package queue

import (
	"runtime"
	"sync"
	"time"

	hostruntime "github.com/wippyai/host-runtime"
)

// Config sizes the two pools.
type Config struct {
	// Workers is the number of goroutines servicing non-blocking work.
	// Defaults to runtime.NumCPU().
	Workers int

	// MaxBlockingThreads bounds concurrently running blocking tasks.
	MaxBlockingThreads int

	// BlockingQueueDepth bounds blocking tasks waiting for a thread.
	BlockingQueueDepth int
}

// DefaultConfig returns the sizing used when the caller does not care.
func DefaultConfig() Config {
	return Config{
		Workers:            runtime.NumCPU(),
		MaxBlockingThreads: 16,
		BlockingQueueDepth: 64,
	}
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxBlockingThreads <= 0 {
		c.MaxBlockingThreads = 16
	}
	if c.BlockingQueueDepth < 0 {
		c.BlockingQueueDepth = 0
	}
	return c
}

// Stats is a point-in-time snapshot of queue state.
type Stats struct {
	Pending          int    // non-blocking tasks waiting for a worker
	BlockingPending  int    // blocking tasks waiting for a thread
	BlockingThreads  int    // blocking threads currently alive
	Executed         uint64 // non-blocking tasks completed
	BlockingExecuted uint64 // blocking tasks completed
	Rejected         uint64 // blocking submissions refused for capacity
}

// ConcurrentQueue implements hostruntime.WorkQueue.
type ConcurrentQueue struct {
	cfg Config

	mu       sync.Mutex
	workCond *sync.Cond
	idleCond *sync.Cond

	tasks []hostruntime.Task
	head  int

	blockingPending []hostruntime.Task
	blockingThreads int

	// outstanding counts submitted-but-unfinished tasks across both pools.
	outstanding int

	executed         uint64
	blockingExecuted uint64
	rejected         uint64

	closed bool
	wg     sync.WaitGroup
}

var _ hostruntime.WorkQueue = (*ConcurrentQueue)(nil)

// New starts the worker pool and returns the queue.
func New(cfg Config) *ConcurrentQueue {
	q := &ConcurrentQueue{cfg: cfg.withDefaults()}
	q.workCond = sync.NewCond(&q.mu)
	q.idleCond = sync.NewCond(&q.mu)

	q.wg.Add(q.cfg.Workers)
	for i := 0; i < q.cfg.Workers; i++ {
		go q.worker()
	}
	return q
}

// AddTask submits non-blocking work. It never rejects; submitting to a
// closed queue is a contract violation and panics.
func (q *ConcurrentQueue) AddTask(t hostruntime.Task) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		panic("hostruntime: AddTask on closed queue")
	}
	q.tasks = append(q.tasks, t)
	q.outstanding++
	q.mu.Unlock()

	tasksSubmitted.WithLabelValues(kindNonBlocking).Inc()
	q.workCond.Signal()
}

// AddBlockingTask submits work that may block. It returns false, leaving
// the task unexecuted, when no thread and no queue slot is available.
func (q *ConcurrentQueue) AddBlockingTask(t hostruntime.Task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}

	if q.blockingThreads < q.cfg.MaxBlockingThreads {
		q.spawnBlockingLocked(t, true)
		q.mu.Unlock()
		tasksSubmitted.WithLabelValues(kindBlocking).Inc()
		return true
	}

	if len(q.blockingPending) >= q.cfg.BlockingQueueDepth {
		q.rejected++
		q.mu.Unlock()
		blockingRejected.Inc()
		return false
	}

	q.blockingPending = append(q.blockingPending, t)
	q.outstanding++
	q.mu.Unlock()
	tasksSubmitted.WithLabelValues(kindBlocking).Inc()
	return true
}

// RunBlockingTask starts t immediately on a dedicated thread, bypassing the
// blocking overflow queue. It returns false when no thread slot is free
// right now. A dedicated thread runs only its own task.
func (q *ConcurrentQueue) RunBlockingTask(t hostruntime.Task) bool {
	q.mu.Lock()
	if q.closed || q.blockingThreads >= q.cfg.MaxBlockingThreads {
		if !q.closed {
			q.rejected++
		}
		q.mu.Unlock()
		blockingRejected.Inc()
		return false
	}
	q.spawnBlockingLocked(t, false)
	q.mu.Unlock()
	tasksSubmitted.WithLabelValues(kindBlocking).Inc()
	return true
}

// spawnBlockingLocked claims a thread slot and starts a goroutine for t.
// drain selects whether the thread services the overflow queue before
// exiting.
func (q *ConcurrentQueue) spawnBlockingLocked(t hostruntime.Task, drain bool) {
	q.blockingThreads++
	q.outstanding++
	q.wg.Add(1)
	blockingThreadsGauge.Inc()
	go q.blockingWorker(t, drain)
}

func (q *ConcurrentQueue) blockingWorker(t hostruntime.Task, drain bool) {
	defer q.wg.Done()
	for {
		start := time.Now()
		t()
		taskDuration.WithLabelValues(kindBlocking).Observe(time.Since(start).Seconds())
		tasksCompleted.WithLabelValues(kindBlocking).Inc()

		q.mu.Lock()
		q.blockingExecuted++
		q.finishLocked()
		if !drain || len(q.blockingPending) == 0 {
			q.blockingThreads--
			q.mu.Unlock()
			blockingThreadsGauge.Dec()
			return
		}
		t = q.blockingPending[0]
		q.blockingPending = q.blockingPending[1:]
		q.mu.Unlock()
	}
}

func (q *ConcurrentQueue) worker() {
	defer q.wg.Done()
	q.mu.Lock()
	for {
		for q.head == len(q.tasks) && !q.closed {
			q.workCond.Wait()
		}
		if q.head == len(q.tasks) && q.closed {
			q.mu.Unlock()
			return
		}

		t := q.tasks[q.head]
		q.tasks[q.head] = nil
		q.head++
		if q.head == len(q.tasks) {
			q.tasks = q.tasks[:0]
			q.head = 0
		}
		q.mu.Unlock()

		start := time.Now()
		t()
		taskDuration.WithLabelValues(kindNonBlocking).Observe(time.Since(start).Seconds())
		tasksCompleted.WithLabelValues(kindNonBlocking).Inc()

		q.mu.Lock()
		q.executed++
		q.finishLocked()
	}
}

func (q *ConcurrentQueue) finishLocked() {
	q.outstanding--
	if q.outstanding == 0 {
		q.idleCond.Broadcast()
	}
}

// Quiesce blocks until all work submitted before the call has finished.
// It must not be called from a queue-owned goroutine.
func (q *ConcurrentQueue) Quiesce() {
	q.mu.Lock()
	for q.outstanding != 0 {
		q.idleCond.Wait()
	}
	q.mu.Unlock()
}

// Close quiesces the queue and stops its workers. Callers must stop
// submitting before Close; concurrent submissions race with shutdown.
func (q *ConcurrentQueue) Close() error {
	q.Quiesce()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	q.workCond.Broadcast()
	q.wg.Wait()
	return nil
}

// Stats returns a snapshot of queue state.
func (q *ConcurrentQueue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Pending:          len(q.tasks) - q.head,
		BlockingPending:  len(q.blockingPending),
		BlockingThreads:  q.blockingThreads,
		Executed:         q.executed,
		BlockingExecuted: q.blockingExecuted,
		Rejected:         q.rejected,
	}
}
