// Package config loads born-ext settings from an optional YAML file with
// environment variable overrides: defaults -> file -> BORN_EXT_* env vars.
package config

import (
	"runtime"

	"github.com/born-ml/born-ext/internal/parallel"
)

// Config holds all configuration of the born-ext tools.
type Config struct {
	Backend  string         `koanf:"backend"`
	Log      LogConfig      `koanf:"log"`
	Parallel ParallelConfig `koanf:"parallel"`
	Plugins  []PluginConfig `koanf:"plugins"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// LogConfig holds zap logger settings.
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// ParallelConfig holds CPU kernel parallelism settings.
type ParallelConfig struct {
	Enabled  bool `koanf:"enabled"`
	Workers  int  `koanf:"workers"`   // 0 means one per CPU
	MinChunk int  `koanf:"min_chunk"` // minimum scalar operations per goroutine
}

// PluginConfig registers one native user function from a Go plugin.
type PluginConfig struct {
	Op     string `koanf:"op"`
	Module string `koanf:"module"`
	Symbol string `koanf:"symbol"`
}

// MetricsConfig toggles Prometheus counters.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// ToParallel converts the settings to a parallel.Config.
func (p ParallelConfig) ToParallel() parallel.Config {
	workers := p.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return parallel.Config{
		Enabled:    p.Enabled && workers > 1,
		NumWorkers: workers,
		MinWork:    p.MinChunk,
	}
}
