package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
)

// BasicProvider keeps instruments in memory. It is meant for tests, examples
// and processes that read metrics back through Snapshot.
type BasicProvider struct {
	mu         sync.Mutex
	counters   map[string]*BasicCounter
	gauges     map[string]*BasicGauge
	histograms map[string]*BasicHistogram
	descs      map[string]Desc
}

// NewBasicProvider constructs a new BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   make(map[string]*BasicCounter),
		gauges:     make(map[string]*BasicGauge),
		histograms: make(map[string]*BasicHistogram),
		descs:      make(map[string]Desc),
	}
}

// lookup returns the instrument registered under name in m, building it with
// create on first use.
func lookup[T any](p *BasicProvider, m map[string]*T, name string, opts []Option, create func(Desc) *T) *T {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := m[name]; ok {
		return v
	}
	d := describe(name, opts)
	p.descs[name] = d
	v := create(d)
	m[name] = v
	return v
}

func (p *BasicProvider) Counter(name string, opts ...Option) Counter {
	return lookup(p, p.counters, name, opts, func(Desc) *BasicCounter { return new(BasicCounter) })
}

func (p *BasicProvider) Gauge(name string, opts ...Option) Gauge {
	return lookup(p, p.gauges, name, opts, func(Desc) *BasicGauge { return new(BasicGauge) })
}

func (p *BasicProvider) Histogram(name string, opts ...Option) Histogram {
	return lookup(p, p.histograms, name, opts, func(d Desc) *BasicHistogram {
		bounds := append([]float64(nil), d.Buckets...)
		sort.Float64s(bounds)
		return &BasicHistogram{bounds: bounds, counts: make([]int64, len(bounds))}
	})
}

// Desc returns the description stored for the instrument registered under name.
func (p *BasicProvider) Desc(name string) (Desc, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.descs[name]
	return d, ok
}

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	val atomic.Uint64
}

func (c *BasicCounter) Add(n uint64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() uint64 { return c.val.Load() }

// BasicGauge is a thread-safe level.
type BasicGauge struct {
	val atomic.Int64
}

func (g *BasicGauge) Add(delta int64) { g.val.Add(delta) }

// Snapshot returns the current value.
func (g *BasicGauge) Snapshot() int64 { return g.val.Load() }

// BasicHistogram aggregates count, sum, min and max, plus per-bucket counts
// when the instrument was created with Buckets.
type BasicHistogram struct {
	mu     sync.Mutex
	count  int64
	sum    float64
	min    float64
	max    float64
	bounds []float64
	counts []int64
}

func (h *BasicHistogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 || v < h.min {
		h.min = v
	}
	if h.count == 0 || v > h.max {
		h.max = v
	}
	h.count++
	h.sum += v

	// Buckets are cumulative upper bounds, as in Prometheus.
	for i := sort.SearchFloat64s(h.bounds, v); i < len(h.bounds); i++ {
		h.counts[i]++
	}
}

// HistSnapshot is an immutable snapshot of a BasicHistogram.
// Buckets maps each upper bound to the number of samples at or below it.
type HistSnapshot struct {
	Count   int64
	Sum     float64
	Min     float64
	Max     float64
	Mean    float64
	Buckets map[float64]int64
}

// Snapshot returns a copy of the histogram state.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := HistSnapshot{Count: h.count, Sum: h.sum, Min: h.min, Max: h.max}
	if h.count > 0 {
		s.Mean = h.sum / float64(h.count)
	}
	if len(h.bounds) > 0 {
		s.Buckets = make(map[float64]int64, len(h.bounds))
		for i, b := range h.bounds {
			s.Buckets[b] = h.counts[i]
		}
	}
	return s
}
