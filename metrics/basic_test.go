package metrics

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicProvider_SameNameSameInstrument(t *testing.T) {
	p := NewBasicProvider()

	c1 := p.Counter("tasks_submitted", Help("submitted"), Label("pool", "a"))
	c2 := p.Counter("tasks_submitted")
	require.Same(t, c1.(*BasicCounter), c2.(*BasicCounter))

	c1.Add(3)
	c2.Add(2)
	require.EqualValues(t, 5, c1.(*BasicCounter).Snapshot())

	d, ok := p.Desc("tasks_submitted")
	require.True(t, ok)
	require.Equal(t, "submitted", d.Help)
	require.Equal(t, map[string]string{"pool": "a"}, d.Labels)

	p.Counter("unlabelled")
	d, ok = p.Desc("unlabelled")
	require.True(t, ok)
	require.Equal(t, "unlabelled", d.Help)
	require.Nil(t, d.Labels)

	require.NotSame(t, c1.(*BasicCounter), p.Counter("other").(*BasicCounter))
}

func TestBasicProvider_Gauge(t *testing.T) {
	p := NewBasicProvider()
	g := p.Gauge("queue_depth")

	g.Add(+3)
	g.Add(-1)
	p.Gauge("queue_depth").Add(+10)

	require.EqualValues(t, 12, g.(*BasicGauge).Snapshot())
}

func TestBasicProvider_Histogram(t *testing.T) {
	p := NewBasicProvider()
	h := p.Histogram("task_duration_seconds")

	require.Equal(t, HistSnapshot{}, h.(*BasicHistogram).Snapshot())

	h.Observe(0.3)
	h.Observe(0.1)
	h.Observe(0.2)

	s := h.(*BasicHistogram).Snapshot()
	require.EqualValues(t, 3, s.Count)
	require.Equal(t, 0.1, s.Min)
	require.Equal(t, 0.3, s.Max)
	require.InDelta(t, 0.6, s.Sum, 1e-9)
	require.InDelta(t, 0.2, s.Mean, 1e-9)
	require.Nil(t, s.Buckets)
}

func TestBasicProvider_HistogramBuckets(t *testing.T) {
	p := NewBasicProvider()
	h := p.Histogram("task_duration_seconds", Buckets(1, 0.1, 0.01))

	for _, v := range []float64{0.005, 0.01, 0.05, 0.5, 2} {
		h.Observe(v)
	}

	require.Equal(t, map[float64]int64{0.01: 2, 0.1: 3, 1: 4}, h.(*BasicHistogram).Snapshot().Buckets)
}

func TestBasicProvider_ConcurrentUse(t *testing.T) {
	p := NewBasicProvider()

	goroutines := runtime.NumCPU() * 2
	const iters = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				p.Counter("hits").Add(1)
				if (i+id)%2 == 0 {
					p.Gauge("level").Add(+1)
				} else {
					p.Gauge("level").Add(-1)
				}
				p.Histogram("latency").Observe(float64(i % 10))
			}
		}(g)
	}
	wg.Wait()

	require.EqualValues(t, goroutines*iters, p.Counter("hits").(*BasicCounter).Snapshot())
	require.EqualValues(t, 0, p.Gauge("level").(*BasicGauge).Snapshot())

	s := p.Histogram("latency").(*BasicHistogram).Snapshot()
	require.EqualValues(t, goroutines*iters, s.Count)
	require.Equal(t, 0.0, s.Min)
	require.Equal(t, 9.0, s.Max)
}

func TestNoopProvider_Discards(t *testing.T) {
	var p Provider = NewNoopProvider()
	require.NotPanics(t, func() {
		p.Counter("c").Add(1)
		p.Gauge("g").Add(-1)
		p.Histogram("h").Observe(1.5)
	})
}
