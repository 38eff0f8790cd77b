package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/born-ml/born-ext/extensibility"
	"github.com/born-ml/born-ext/internal/backend/cpu"
	"github.com/born-ml/born-ext/internal/backend/webgpu"
	"github.com/born-ml/born-ext/internal/config"
	"github.com/born-ml/born-ext/internal/logging"
	"github.com/born-ml/born-ext/internal/metrics"
	"github.com/born-ml/born-ext/internal/native"
	"github.com/born-ml/born-ext/internal/tensor"
)

// App bundles the services shared by CLI commands.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Backend  tensor.Backend
	Registry *native.Registry

	// Gatherer is nil unless metrics are enabled.
	Gatherer prometheus.Gatherer

	release func()
}

// New builds an App from cfg. The statically linked operators are always
// registered; cfg.Plugins add lazily loaded ones.
func New(cfg *config.Config) (*App, error) {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return nil, err
	}
	native.SetLogger(logger.Named("native"))

	a := &App{Config: cfg, Logger: logger, release: func() {}}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		if collector, err = metrics.New(reg); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		a.Gatherer = reg
	}

	a.Registry = native.NewRegistry(
		native.WithLoader(native.NewLoader(collector)),
		native.WithMetrics(collector),
	)
	if err := extensibility.Register(a.Registry); err != nil {
		return nil, err
	}
	for _, p := range cfg.Plugins {
		if err := a.Registry.RegisterNativeUserFunction(p.Op, p.Module, p.Symbol); err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Op, err)
		}
	}

	backend, release, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	a.Backend, a.release = backend, release
	logger.Debug("app ready",
		zap.String("backend", backend.Name()),
		zap.Strings("ops", a.Registry.Ops()))
	return a, nil
}

func newBackend(cfg *config.Config) (tensor.Backend, func(), error) {
	par := cfg.Parallel.ToParallel()
	switch cfg.Backend {
	case "webgpu":
		b, err := webgpu.New(par)
		if err != nil {
			return nil, nil, fmt.Errorf("backend webgpu: %w", err)
		}
		return b, b.Release, nil
	case "cpu", "":
		return cpu.NewWithConfig(par), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Close releases the backend and flushes the logger.
func (a *App) Close() {
	a.release()
	// Sync on stderr returns EINVAL on some platforms.
	_ = a.Logger.Sync()
}
