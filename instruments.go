package threadpool

import "github.com/ygrebnov/threadpool/metrics"

// durationBuckets span sub-millisecond hand-offs up to long-running tasks, in seconds.
var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30}

// instruments are the metrics recorded by a Pool.
type instruments struct {
	submitted      metrics.Counter
	rejected       metrics.Counter
	completed      metrics.Counter
	panicked       metrics.Counter
	workerFailures metrics.Counter
	duration       metrics.Histogram
	queueDepth     metrics.Gauge
	active         metrics.Gauge
	busy           metrics.Gauge
}

func newInstruments(p metrics.Provider, pool string) instruments {
	label := metrics.Label("pool", pool)
	counter := func(name, help string) metrics.Counter {
		return p.Counter(Namespace+"_"+name, metrics.Help(help), label)
	}
	gauge := func(name, help string) metrics.Gauge {
		return p.Gauge(Namespace+"_"+name, metrics.Help(help), label)
	}

	return instruments{
		submitted:      counter("tasks_submitted_total", "Tasks accepted by Submit."),
		rejected:       counter("tasks_rejected_total", "Tasks refused by Submit."),
		completed:      counter("tasks_completed_total", "Tasks executed by workers, panicking ones included."),
		panicked:       counter("tasks_panicked_total", "Tasks that panicked."),
		workerFailures: counter("worker_failures_total", "Workers that exited on a synchronization failure."),
		queueDepth:     gauge("queue_depth", "Tasks waiting to be claimed."),
		active:         gauge("workers_active", "Workers registered in their loop."),
		busy:           gauge("workers_busy", "Workers executing a task."),

		duration: p.Histogram(Namespace+"_task_duration_seconds",
			metrics.Help("Task execution time."), metrics.Unit("seconds"), metrics.Buckets(durationBuckets...), label),
	}
}
