package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider registers instruments as Prometheus collectors.
// Histograms without Buckets use prometheus.DefBuckets. Labels become constant labels.
type PrometheusProvider struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]promCounter
	gauges     map[string]promGauge
	histograms map[string]prometheus.Histogram
}

// NewPrometheusProvider constructs a provider registering into reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewPrometheusProvider(reg prometheus.Registerer) *PrometheusProvider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusProvider{
		registerer: reg,
		counters:   make(map[string]promCounter),
		gauges:     make(map[string]promGauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

func (p *PrometheusProvider) Counter(name string, opts ...Option) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.counters[name]; ok {
		return c
	}
	d := describe(name, opts)
	c := promCounter{register(p.registerer, prometheus.NewCounter(prometheus.CounterOpts{
		Name:        name,
		Help:        d.Help,
		ConstLabels: d.Labels,
	}))}
	p.counters[name] = c
	return c
}

func (p *PrometheusProvider) Gauge(name string, opts ...Option) Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()

	if g, ok := p.gauges[name]; ok {
		return g
	}
	d := describe(name, opts)
	g := promGauge{register(p.registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        name,
		Help:        d.Help,
		ConstLabels: d.Labels,
	}))}
	p.gauges[name] = g
	return g
}

func (p *PrometheusProvider) Histogram(name string, opts ...Option) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.histograms[name]; ok {
		return h
	}
	d := describe(name, opts)
	buckets := d.Buckets
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	h := register(p.registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        name,
		Help:        d.Help,
		ConstLabels: d.Labels,
		Buckets:     buckets,
	}))
	p.histograms[name] = h
	return h
}

// register adds c to reg. When an identical collector is already registered
// (another provider on the same registry) the existing one is reused.
// Any other registration error panics, as promauto does.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

type promCounter struct{ c prometheus.Counter }

func (p promCounter) Add(n uint64) { p.c.Add(float64(n)) }

type promGauge struct{ g prometheus.Gauge }

func (p promGauge) Add(delta int64) { p.g.Add(float64(delta)) }
