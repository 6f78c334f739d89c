package host

import (
	"sync/atomic"

	"go.uber.org/zap"

	hostruntime "github.com/wippyai/host-runtime"
	"github.com/wippyai/host-runtime/errors"
	"github.com/wippyai/host-runtime/queue"
	"github.com/wippyai/host-runtime/resource"
	"github.com/wippyai/host-runtime/value"
)

// Config configures a Host.
type Config struct {
	// Queue overrides the work queue. When nil a queue.ConcurrentQueue is
	// created from the sizing fields below and owned (closed) by the host.
	Queue hostruntime.WorkQueue

	// Workers, MaxBlockingThreads and BlockingQueueDepth size the default
	// queue. Ignored when Queue is set.
	Workers            int
	MaxBlockingThreads int
	BlockingQueueDepth int

	// Logger overrides the package logger for this host.
	Logger *zap.Logger
}

// DefaultConfig returns a Config sized like queue.DefaultConfig.
func DefaultConfig() Config {
	qc := queue.DefaultConfig()
	return Config{
		Workers:            qc.Workers,
		MaxBlockingThreads: qc.MaxBlockingThreads,
		BlockingQueueDepth: qc.BlockingQueueDepth,
	}
}

// Host is the process-wide owner of the work queue and shared facilities.
// Created once per runtime instance, torn down once with Close. Multiple
// hosts may coexist; they share nothing.
type Host struct {
	queue     hostruntime.WorkQueue
	ownsQueue bool
	shared    *resource.Table
	log       *zap.Logger

	// live counts async values allocated through this host that have not
	// yet been released; reported at Close to surface reference leaks.
	live   atomic.Int64
	closed atomic.Bool
}

// New constructs a Host. The returned host is ready to dispatch work.
func New(cfg Config) (*Host, error) {
	h := &Host{
		shared: resource.NewTable(),
		log:    cfg.Logger,
	}
	if h.log == nil {
		h.log = Logger()
	}

	if cfg.Queue != nil {
		h.queue = cfg.Queue
	} else {
		h.queue = queue.New(queue.Config{
			Workers:            cfg.Workers,
			MaxBlockingThreads: cfg.MaxBlockingThreads,
			BlockingQueueDepth: cfg.BlockingQueueDepth,
		})
		h.ownsQueue = true
	}

	h.log.Debug("host created",
		zap.Bool("owns_queue", h.ownsQueue),
	)
	return h, nil
}

// Host returns h; it makes *Host satisfy Dispatcher.
func (h *Host) Host() *Host { return h }

// WorkQueue returns the queue the host dispatches on.
func (h *Host) WorkQueue() hostruntime.WorkQueue { return h.queue }

// SharedResources returns the host's shared-facility table.
func (h *Host) SharedResources() *resource.Table { return h.shared }

// Logger returns the host's logger.
func (h *Host) Logger() *zap.Logger { return h.log }

// LiveValues returns the number of unreleased async values allocated
// through this host.
func (h *Host) LiveValues() int64 { return h.live.Load() }

// Close quiesces the queue, drops shared facilities and tears the host
// down. Single teardown: second and later calls are no-ops. Async values
// allocated through the host are invalid once Close returns.
func (h *Host) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if h.ownsQueue {
		err = h.queue.Close()
	} else {
		h.queue.Quiesce()
	}
	if cerr := h.shared.Close(); err == nil {
		err = cerr
	}

	if leaked := h.live.Load(); leaked != 0 {
		h.log.Warn("host closed with unreleased async values",
			zap.Int64("leaked", leaked),
		)
	}
	h.log.Debug("host closed")
	return err
}

func (h *Host) checkOpen() {
	if h.closed.Load() {
		panic("hostruntime: dispatch on closed host")
	}
}

// closedErr is the error surfaced on value-returning dispatch paths when
// the host is already torn down.
func (h *Host) closedErr() error {
	return errors.Closed("host")
}

// MakeUnconstructed allocates an unresolved async value tracked by h.
// The caller owns the returned reference.
func MakeUnconstructed[T any](h *Host) value.Ref[T] {
	h.live.Add(1)
	r := value.Unconstructed[T]()
	r.Value().OnRelease(func() { h.live.Add(-1) })
	return r
}

// MakeConcrete allocates an already-resolved async value tracked by h.
func MakeConcrete[T any](h *Host, v T) value.Ref[T] {
	r := MakeUnconstructed[T](h)
	r.Emplace(v)
	return r
}

// MakeError allocates an async value tracked by h, resolved to err.
func MakeError[T any](h *Host, err error) value.Ref[T] {
	r := MakeUnconstructed[T](h)
	r.SetError(err)
	return r
}

// NewChain allocates an already-available chain tracked by h.
func NewChain(h *Host) value.Ref[value.Chain] {
	return MakeConcrete(h, value.Chain{})
}
