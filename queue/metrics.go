package queue

import "github.com/prometheus/client_golang/prometheus"

// Metric label values for task classification.
const (
	kindNonBlocking = "non_blocking"
	kindBlocking    = "blocking"
)

var (
	tasksSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostruntime_queue_tasks_submitted_total",
			Help: "Total number of tasks accepted by the work queue.",
		},
		[]string{"kind"},
	)

	tasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostruntime_queue_tasks_completed_total",
			Help: "Total number of tasks that finished executing.",
		},
		[]string{"kind"},
	)

	blockingRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hostruntime_queue_blocking_rejected_total",
			Help: "Blocking submissions refused because threads and queue were full.",
		},
	)

	blockingThreadsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostruntime_queue_blocking_threads",
			Help: "Number of currently live blocking worker threads.",
		},
	)

	taskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostruntime_queue_task_duration_seconds",
			Help:    "Wall time spent executing a task, in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(tasksSubmitted)
	prometheus.MustRegister(tasksCompleted)
	prometheus.MustRegister(blockingRejected)
	prometheus.MustRegister(blockingThreadsGauge)
	prometheus.MustRegister(taskDuration)

	// Pre-initialize label combinations so both kinds appear in /metrics
	// with value 0 from startup, rather than only after first observation.
	for _, kind := range []string{kindNonBlocking, kindBlocking} {
		tasksSubmitted.WithLabelValues(kind)
		tasksCompleted.WithLabelValues(kind)
	}
}
