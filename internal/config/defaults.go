package config

const (
	defaultMinChunk = 4096
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by the config file and env vars.
func defaults() map[string]any {
	return map[string]any{
		"backend": "cpu",

		"log.level":       "info",
		"log.development": false,

		"parallel.enabled":   true,
		"parallel.workers":   0,
		"parallel.min_chunk": defaultMinChunk,

		"metrics.enabled": false,
	}
}
