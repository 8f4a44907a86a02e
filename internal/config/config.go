// Package config loads load-profile files for the threadpool-load command.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ygrebnov/threadpool"
)

// FileConfig is the on-disk layout of a load profile.
type FileConfig struct {
	Pool    PoolConfig    `yaml:"pool" json:"pool"`
	Load    LoadConfig    `yaml:"load" json:"load"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// PoolConfig configures the pool under test.
type PoolConfig struct {
	Name         string `yaml:"name" json:"name"`
	Workers      uint   `yaml:"workers" json:"workers"`
	LockOSThread bool   `yaml:"lock_os_thread" json:"lock_os_thread"`
}

// LoadConfig describes the work submitted to the pool.
type LoadConfig struct {
	Tasks        int    `yaml:"tasks" json:"tasks"`
	TaskDuration string `yaml:"task_duration" json:"task_duration"`
	ForceStop    bool   `yaml:"force_stop" json:"force_stop"`
	StopAfter    string `yaml:"stop_after" json:"stop_after"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Profile is a validated FileConfig with parsed durations.
// A non-zero StopAfter delays Stop by that long after the last submission.
type Profile struct {
	Workers      uint
	Tasks        int
	TaskDuration time.Duration
	ForceStop    bool
	StopAfter    time.Duration
	MetricsAddr  string
	Level        slog.Level
	JSONLogs     bool

	poolName     string
	lockOSThread bool
}

// Default returns the profile used when no file is given.
func Default() FileConfig {
	return FileConfig{
		Pool:    PoolConfig{Workers: 4},
		Load:    LoadConfig{Tasks: 100, TaskDuration: "1ms"},
		Metrics: MetricsConfig{Address: ":9090"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) profile on top of Default.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &cfg, nil
}

// Profile validates f and converts it into a Profile.
func (f *FileConfig) Profile() (Profile, error) {
	p := Profile{
		Workers:      f.Pool.Workers,
		Tasks:        f.Load.Tasks,
		ForceStop:    f.Load.ForceStop,
		JSONLogs:     strings.EqualFold(f.Log.Format, "json"),
		poolName:     f.Pool.Name,
		lockOSThread: f.Pool.LockOSThread,
	}

	if f.Load.Tasks < 0 {
		return p, fmt.Errorf("tasks must not be negative: %d", f.Load.Tasks)
	}

	var err error
	if p.TaskDuration, err = parseDuration(f.Load.TaskDuration); err != nil {
		return p, fmt.Errorf("invalid task_duration: %w", err)
	}
	if p.StopAfter, err = parseDuration(f.Load.StopAfter); err != nil {
		return p, fmt.Errorf("invalid stop_after: %w", err)
	}

	if f.Metrics.Enabled {
		if f.Metrics.Address == "" {
			return p, fmt.Errorf("metrics enabled without an address")
		}
		p.MetricsAddr = f.Metrics.Address
	}

	if f.Log.Level != "" {
		if err := p.Level.UnmarshalText([]byte(f.Log.Level)); err != nil {
			return p, fmt.Errorf("invalid log level: %w", err)
		}
	}

	switch strings.ToLower(f.Log.Format) {
	case "", "text", "json":
	default:
		return p, fmt.Errorf("unsupported log format: %s", f.Log.Format)
	}

	return p, nil
}

// Options returns the pool options described by the profile.
func (p Profile) Options() []threadpool.Option {
	var opts []threadpool.Option
	if p.poolName != "" {
		opts = append(opts, threadpool.WithName(p.poolName))
	}
	if p.lockOSThread {
		opts = append(opts, threadpool.WithLockOSThread())
	}
	return opts
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
