// Package metrics is the seam between a pool and whatever collects its numbers.
// Three providers ship with it: Noop (default), Basic (in-memory) and Prometheus.
package metrics

// Provider hands out named instruments. Within one provider a name always
// resolves to the same instrument, whatever options the later calls carry.
// Implementations must be safe for concurrent use.
type Provider interface {
	Counter(name string, opts ...Option) Counter
	Gauge(name string, opts ...Option) Gauge
	Histogram(name string, opts ...Option) Histogram
}

// Counter counts events: submissions, completions, panics.
type Counter interface {
	Add(n uint64)
}

// Gauge tracks a level that rises and falls: queue depth, active or busy workers.
type Gauge interface {
	Add(delta int64)
}

// Histogram observes samples, task durations in seconds for a pool.
type Histogram interface {
	Observe(v float64)
}

// Desc describes an instrument beyond its name.
type Desc struct {
	Help string
	Unit string

	// Labels are constant for the lifetime of the instrument.
	Labels map[string]string

	// Buckets are upper bounds for histograms. Nil leaves the choice to the provider.
	Buckets []float64
}

// Option fills in part of a Desc.
type Option func(*Desc)

// Help sets the human-readable description. It defaults to the instrument name.
func Help(text string) Option {
	return func(d *Desc) { d.Help = text }
}

// Unit sets the unit of measurement, such as "seconds".
func Unit(unit string) Option {
	return func(d *Desc) { d.Unit = unit }
}

// Label adds one constant label.
func Label(key, value string) Option {
	return func(d *Desc) {
		if d.Labels == nil {
			d.Labels = make(map[string]string, 1)
		}
		d.Labels[key] = value
	}
}

// Buckets sets histogram bucket upper bounds, in increasing order.
func Buckets(bounds ...float64) Option {
	return func(d *Desc) { d.Buckets = append([]float64(nil), bounds...) }
}

func describe(name string, opts []Option) Desc {
	d := Desc{Help: name}
	for _, o := range opts {
		if o != nil {
			o(&d)
		}
	}
	return d
}
