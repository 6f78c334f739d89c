// Command stress drives a host's work queue with a configurable mix of
// non-blocking and blocking work, either printing a summary or showing a
// live dashboard. It exists to observe scheduling behavior under load and
// to expose the runtime's metrics during development.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"

	"github.com/wippyai/host-runtime/host"
	"github.com/wippyai/host-runtime/queue"
	"github.com/wippyai/host-runtime/value"
)

func main() {
	var (
		workers     = flag.Int("workers", 0, "Non-blocking workers (0 = NumCPU)")
		blocking    = flag.Int("blocking", 16, "Max blocking threads")
		depth       = flag.Int("depth", 64, "Blocking queue depth")
		items       = flag.Int("items", 10000, "Non-blocking work items")
		blockItems  = flag.Int("block-items", 100, "Blocking work items (1ms sleep each)")
		interactive = flag.Bool("i", false, "Interactive mode with live dashboard")
		metricsAddr = flag.String("metrics", "", "Serve /metrics and /stats on this address (e.g. :9090)")
	)
	flag.Parse()

	q := queue.New(queue.Config{
		Workers:            *workers,
		MaxBlockingThreads: *blocking,
		BlockingQueueDepth: *depth,
	})
	h, err := host.New(host.Config{Queue: q})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, q)
	}

	cfg := stressConfig{items: *items, blockItems: *blockItems}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runDashboard(h, q, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sum := runStress(h, cfg)
	fmt.Printf("items: %d (%d blocking)\n", cfg.items+cfg.blockItems, cfg.blockItems)
	fmt.Printf("rejected: %d\n", sum.rejected)
	fmt.Printf("errors: %d\n", sum.errors)
	fmt.Printf("wall time: %s\n", sum.elapsed)
}

type stressConfig struct {
	items      int
	blockItems int
}

type stressSummary struct {
	rejected int
	errors   int
	elapsed  time.Duration
}

// runStress submits the configured mix and awaits every result.
func runStress(h *host.Host, cfg stressConfig) stressSummary {
	ec := h.NewExecContext(host.HereLocation())
	start := time.Now()

	var rejected atomic.Int64
	refs := make([]value.Ref[int], 0, cfg.items+cfg.blockItems)

	for i := 0; i < cfg.items; i++ {
		i := i
		refs = append(refs, host.Enqueue(ec, func() (int, error) {
			return i * i, nil
		}))
	}
	for i := 0; i < cfg.blockItems; i++ {
		r := host.EnqueueBlocking(ec, func() (int, error) {
			time.Sleep(time.Millisecond)
			return 1, nil
		})
		if r.IsAvailable() && r.IsError() {
			rejected.Add(1)
		}
		refs = append(refs, r)
	}

	cells := make([]*value.Value, len(refs))
	for i, r := range refs {
		cells[i] = r.Value()
	}
	host.Await(ec, cells...)

	sum := stressSummary{
		rejected: int(rejected.Load()),
		elapsed:  time.Since(start),
	}
	for _, r := range refs {
		if r.IsError() {
			sum.errors++
		}
		r.DropRef()
	}
	return sum
}

// serveMetrics exposes prometheus metrics and a queue stats snapshot.
func serveMetrics(addr string, q *queue.ConcurrentQueue) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(q.Stats()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	if err := http.ListenAndServe(addr, r); err != nil {
		fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
	}
}
