package threadpool

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/threadpool/metrics"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New(3)
	require.NoError(t, err)

	require.Equal(t, 3, p.Size())
	require.False(t, p.IsRunning())
	require.True(t, strings.HasPrefix(p.Name(), Namespace+"-"), p.Name())
	require.NotNil(t, p.config.Logger)
	require.NotNil(t, p.config.PanicHandler)
	require.IsType(t, metrics.NoopProvider{}, p.config.Metrics)
	require.False(t, p.config.LockOSThread)
}

func TestNew_Options(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	provider := metrics.NewBasicProvider()

	p, err := New(2,
		WithName("ingest"),
		WithLogger(logger),
		WithMetrics(provider),
		WithPanicHandler(func(int, any) {}),
		WithLockOSThread(),
		nil, // nil options are skipped
	)
	require.NoError(t, err)
	require.Equal(t, "ingest", p.Name())
	require.Same(t, provider, p.config.Metrics)
	require.True(t, p.config.LockOSThread)

	desc, ok := provider.Desc(Namespace + "_tasks_submitted_total")
	require.True(t, ok)
	require.Equal(t, map[string]string{"pool": "ingest"}, desc.Labels)

	desc, ok = provider.Desc(Namespace + "_task_duration_seconds")
	require.True(t, ok)
	require.Equal(t, "seconds", desc.Unit)
	require.Equal(t, durationBuckets, desc.Buckets)

	require.NoError(t, p.Resize(4))
	require.Contains(t, buf.String(), "pool=ingest")
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{name: "empty name", opt: WithName("")},
		{name: "nil logger", opt: WithLogger(nil)},
		{name: "nil metrics", opt: WithMetrics(nil)},
		{name: "nil panic handler", opt: WithPanicHandler(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(1, tt.opt)
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Nil(t, p)
		})
	}
}
