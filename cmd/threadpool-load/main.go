// Command threadpool-load drives a threadpool.Pool with a synthetic load profile
// and reports how much of it was executed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ygrebnov/threadpool"
	"github.com/ygrebnov/threadpool/internal/config"
	"github.com/ygrebnov/threadpool/metrics"
)

func main() {
	var (
		configFile = flag.String("config", "", "load profile file (YAML/JSON)")
		workers    = flag.Uint("workers", 0, "number of workers (overrides the profile)")
		tasks      = flag.Int("tasks", -1, "number of tasks to submit (overrides the profile)")
		force      = flag.Bool("force", false, "stop without draining the queue")
	)
	flag.Parse()

	profile, err := buildProfile(*configFile, *workers, *tasks, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	logger := newLogger(profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, profile); err != nil {
		logger.Error("load run failed", "error", err)
		os.Exit(1)
	}
}

func buildProfile(path string, workers uint, tasks int, force bool) (config.Profile, error) {
	fc := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return config.Profile{}, err
		}
		fc = *loaded
	}
	if workers > 0 {
		fc.Pool.Workers = workers
	}
	if tasks >= 0 {
		fc.Load.Tasks = tasks
	}
	if force {
		fc.Load.ForceStop = true
	}
	return fc.Profile()
}

func newLogger(p config.Profile) *slog.Logger {
	opts := &slog.HandlerOptions{Level: p.Level}
	if p.JSONLogs {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func run(ctx context.Context, logger *slog.Logger, p config.Profile) error {
	opts := append(p.Options(), threadpool.WithLogger(logger))

	if p.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, threadpool.WithMetrics(metrics.NewPrometheusProvider(reg)))

		srv := &http.Server{
			Addr:              p.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", "addr", p.MetricsAddr)
	}

	pool, err := threadpool.New(p.Workers, opts...)
	if err != nil {
		return err
	}
	// Workers outlive an interrupt; it only turns the final Stop into a forced one.
	if err := pool.Start(context.Background()); err != nil {
		return err
	}

	var executed atomic.Int64
	submitted := 0
	began := time.Now()

submit:
	for i := 0; i < p.Tasks; i++ {
		select {
		case <-ctx.Done():
			break submit
		default:
		}
		err := pool.Submit(func() {
			if p.TaskDuration > 0 {
				time.Sleep(p.TaskDuration)
			}
			executed.Add(1)
		})
		if err != nil {
			return err
		}
		submitted++
	}

	if p.StopAfter > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(p.StopAfter):
		}
	}

	// An interrupt abandons whatever is still queued.
	force := p.ForceStop || ctx.Err() != nil
	if err := pool.Stop(force); err != nil {
		return err
	}

	logger.Info("load finished",
		"submitted", submitted,
		"executed", executed.Load(),
		"pending", pool.Pending(),
		"elapsed", time.Since(began),
	)
	return pool.Err()
}
