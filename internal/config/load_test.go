package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/born-ml/born-ext/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "born-ext.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Backend != "cpu" {
		t.Errorf("Backend = %q, want \"cpu\"", cfg.Backend)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want \"info\"", cfg.Log.Level)
	}
	if !cfg.Parallel.Enabled || cfg.Parallel.MinChunk != 4096 {
		t.Errorf("Parallel = %+v, want enabled with min_chunk 4096", cfg.Parallel)
	}
	if len(cfg.Plugins) != 0 {
		t.Errorf("Plugins = %v, want none", cfg.Plugins)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
backend: webgpu
log:
  level: debug
  development: true
parallel:
  workers: 3
plugins:
  - op: BinMul2A1B
    module: ./extlib.so
    symbol: CreateBinGemm2A1B
metrics:
  enabled: true
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Backend != "webgpu" {
		t.Errorf("Backend = %q, want \"webgpu\"", cfg.Backend)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("Log = %+v, want debug development", cfg.Log)
	}
	if cfg.Parallel.Workers != 3 || cfg.Parallel.MinChunk != 4096 {
		t.Errorf("Parallel = %+v, want workers 3 and default min_chunk", cfg.Parallel)
	}
	want := config.PluginConfig{Op: "BinMul2A1B", Module: "./extlib.so", Symbol: "CreateBinGemm2A1B"}
	if len(cfg.Plugins) != 1 || cfg.Plugins[0] != want {
		t.Errorf("Plugins = %+v, want [%+v]", cfg.Plugins, want)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("BORN_EXT_LOG_LEVEL", "warn")
	t.Setenv("BORN_EXT_PARALLEL_MIN_CHUNK", "128")
	t.Setenv("BORN_EXT_PARALLEL_ENABLED", "false")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\"", cfg.Log.Level)
	}
	if cfg.Parallel.MinChunk != 128 {
		t.Errorf("Parallel.MinChunk = %d, want 128", cfg.Parallel.MinChunk)
	}
	if cfg.Parallel.Enabled {
		t.Error("Parallel.Enabled = true, want false")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"backend", "backend: tpu\n"},
		{"log level", "log:\n  level: loud\n"},
		{"workers", "parallel:\n  workers: -1\n"},
		{"min chunk", "parallel:\n  min_chunk: 0\n"},
		{"plugin fields", "plugins:\n  - op: X\n"},
		{"duplicate plugin", "plugins:\n  - {op: X, module: a.so, symbol: S}\n  - {op: X, module: b.so, symbol: S}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("Load() accepted invalid %s", tt.name)
			}
		})
	}
}

func TestParallelConfig_ToParallel(t *testing.T) {
	p := config.ParallelConfig{Enabled: true, Workers: 0, MinChunk: 64}.ToParallel()
	if p.NumWorkers != runtime.NumCPU() {
		t.Errorf("NumWorkers = %d, want %d", p.NumWorkers, runtime.NumCPU())
	}
	if p.MinWork != 64 {
		t.Errorf("MinWork = %d, want 64", p.MinWork)
	}

	seq := config.ParallelConfig{Enabled: true, Workers: 1, MinChunk: 1}.ToParallel()
	if seq.Enabled {
		t.Error("a single worker should disable parallel execution")
	}
}
