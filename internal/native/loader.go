package native

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/metrics"
)

// lookupFunc resolves an exported symbol of an opened module.
type lookupFunc func(symbol string) (any, error)

// openFunc opens a module and returns its symbol lookup.
type openFunc func(path string) (lookupFunc, error)

// factoryFunc is the type of an exported factory function as seen through
// plugin.Lookup. It is graph.Factory without the name.
type factoryFunc = func([]*graph.Variable, graph.Dictionary, string) (graph.Function, error)

// Library is an opened native module.
type Library struct {
	path   string
	lookup lookupFunc
}

// Path returns the path the library was opened from.
func (l *Library) Path() string { return l.path }

// Factory resolves symbol to a user function factory. The symbol may be an
// exported function or an exported graph.Factory variable.
func (l *Library) Factory(symbol string) (graph.Factory, error) {
	sym, err := l.lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", symbol, l.path, ErrSymbolNotFound)
	}

	switch f := sym.(type) {
	case factoryFunc:
		return f, nil
	case graph.Factory:
		if f != nil {
			return f, nil
		}
	case *graph.Factory:
		if f != nil && *f != nil {
			return *f, nil
		}
	case *factoryFunc:
		if f != nil && *f != nil {
			return *f, nil
		}
	}
	return nil, fmt.Errorf("%s in %s has type %T: %w", symbol, l.path, sym, ErrBadFactorySignature)
}

// Loader opens native modules and caches them by absolute path. A module is
// opened at most once per Loader.
type Loader struct {
	mu      sync.RWMutex
	libs    map[string]*Library
	open    openFunc
	metrics *metrics.Collector
}

// NewLoader creates a Loader backed by the platform plugin mechanism.
// m may be nil.
func NewLoader(m *metrics.Collector) *Loader {
	return newLoader(openPlugin, m)
}

func newLoader(open openFunc, m *metrics.Collector) *Loader {
	return &Loader{
		libs:    make(map[string]*Library),
		open:    open,
		metrics: m,
	}
}

// Open returns the library at path, opening it on first use.
func (l *Loader) Open(path string) (*Library, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}

	l.mu.RLock()
	lib, ok := l.libs[key]
	l.mu.RUnlock()
	if ok {
		return lib, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lib, ok := l.libs[key]; ok {
		return lib, nil
	}

	lookup, err := l.open(key)
	l.metrics.PluginLoaded(err)
	if err != nil {
		Logger().Warn("open native module failed", zap.String("path", key), zap.Error(err))
		return nil, fmt.Errorf("open %s: %w", key, err)
	}

	lib = &Library{path: key, lookup: lookup}
	l.libs[key] = lib
	Logger().Info("opened native module", zap.String("path", key))
	return lib, nil
}

// Loaded returns the paths of the opened libraries.
func (l *Loader) Loaded() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	paths := make([]string, 0, len(l.libs))
	for p := range l.libs {
		paths = append(paths, p)
	}
	return paths
}
