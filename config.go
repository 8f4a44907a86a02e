package threadpool

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/threadpool/metrics"
)

// config holds Pool configuration.
type config struct {
	// Name identifies the pool in logs and metric attributes.
	// Default: "threadpool-" followed by a random suffix.
	Name string

	// Logger receives lifecycle and failure records.
	// Default: slog.Default().
	Logger *slog.Logger

	// Metrics provides instruments for queue, worker and task accounting.
	// Default: metrics.NoopProvider.
	Metrics metrics.Provider

	// PanicHandler is called with the value recovered from a panicking task.
	// Default: log the panic at error level.
	PanicHandler PanicHandler

	// LockOSThread pins every worker goroutine to its own OS thread for its lifetime.
	// Default: false.
	LockOSThread bool
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Metrics: metrics.NewNoopProvider(),
	}
}

// validateConfig fills in derived defaults after options have been applied.
func validateConfig(cfg *config) error {
	if cfg.Name == "" {
		cfg.Name = Namespace + "-" + uuid.NewString()[:8]
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return nil
}

// Option configures a Pool. Use New(size, opts...) to construct a Pool via options.
type Option func(*config) error

// WithName sets the pool name used in logs and metric attributes.
func WithName(name string) Option {
	return func(cfg *config) error {
		if name == "" {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithName requires a non-empty name"))
		}
		cfg.Name = name
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// WithMetrics sets the metrics provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithPanicHandler sets the handler invoked when a task panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(cfg *config) error {
		if h == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithPanicHandler requires a non-nil handler"))
		}
		cfg.PanicHandler = h
		return nil
	}
}

// WithLockOSThread runs every worker on a dedicated OS thread.
func WithLockOSThread() Option {
	return func(cfg *config) error { cfg.LockOSThread = true; return nil }
}
