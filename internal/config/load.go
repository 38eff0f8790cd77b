package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BORN_EXT_"

// Load reads configuration in three layers (highest precedence last):
//
//  1. Built-in defaults
//  2. The YAML file at path, when path is not empty
//  3. Environment variables (BORN_EXT_ prefix)
//
// Environment variable mapping matches against known keys so field-internal
// underscores survive:
//
//	BORN_EXT_BACKEND            -> backend
//	BORN_EXT_LOG_LEVEL          -> log.level
//	BORN_EXT_PARALLEL_MIN_CHUNK -> parallel.min_chunk
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	envLookup := buildEnvLookup(k.Keys())
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if koanfKey, ok := envLookup[key]; ok {
				return koanfKey, value
			}
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// buildEnvLookup maps env-style keys ("parallel_min_chunk") to koanf keys
// ("parallel.min_chunk").
func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}
	return lookup
}
