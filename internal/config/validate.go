package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	errs := []error{
		c.validateBackend(),
		c.Log.validate(),
		c.Parallel.validate(),
	}
	seen := make(map[string]bool, len(c.Plugins))
	for i, p := range c.Plugins {
		if err := p.validate(i); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[p.Op] {
			errs = append(errs, fmt.Errorf("plugins[%d]: op %q listed twice", i, p.Op))
		}
		seen[p.Op] = true
	}
	return errors.Join(errs...)
}

func (c *Config) validateBackend() error {
	switch c.Backend {
	case "cpu", "webgpu":
		return nil
	default:
		return fmt.Errorf("backend must be one of: cpu, webgpu; got %q", c.Backend)
	}
}

func (l *LogConfig) validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level)
	}
}

func (p *ParallelConfig) validate() error {
	var errs []error
	if p.Workers < 0 {
		errs = append(errs, fmt.Errorf("parallel.workers must be >= 0, got %d", p.Workers))
	}
	if p.MinChunk < 1 {
		errs = append(errs, fmt.Errorf("parallel.min_chunk must be >= 1, got %d", p.MinChunk))
	}
	return errors.Join(errs...)
}

func (p *PluginConfig) validate(i int) error {
	var errs []error
	if p.Op == "" {
		errs = append(errs, fmt.Errorf("plugins[%d].op must not be empty", i))
	}
	if p.Module == "" {
		errs = append(errs, fmt.Errorf("plugins[%d].module must not be empty", i))
	}
	if p.Symbol == "" {
		errs = append(errs, fmt.Errorf("plugins[%d].symbol must not be empty", i))
	}
	return errors.Join(errs...)
}
