// Package logging builds the zap logger used by the CLI and handed to the
// library packages through their SetLogger functions.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger flavour.
type Options struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoder, caller and stack traces on warn
}

// New builds a logger for opts. An empty level means info.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
		}
	}

	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return logger, nil
}

// Must is New that panics on error, for tests and examples.
func Must(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		panic(err)
	}
	return logger
}
