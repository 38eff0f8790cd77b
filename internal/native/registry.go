// Package native registers user function factories by op name and resolves
// them from Go plugins, statically linked code or serialized graphs.
package native

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/born-ml/born-ext/internal/graph"
	"github.com/born-ml/born-ext/internal/metrics"
)

// Registration describes where the factory of an op comes from.
type Registration struct {
	OpName string
	Module string // plugin path, empty for statically linked factories
	Symbol string
}

type registration struct {
	Registration
	factory graph.Factory // nil until the module is opened
}

// Registry maps op names to user function factories. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	ops     map[string]*registration
	loader  *Loader
	metrics *metrics.Collector
}

// Option configures a Registry.
type Option func(*Registry)

// WithLoader sets the loader used for lazily registered modules.
func WithLoader(l *Loader) Option {
	return func(r *Registry) { r.loader = l }
}

// WithMetrics sets the construction counters.
func WithMetrics(m *metrics.Collector) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry creates an empty registry. Without WithLoader it opens modules
// with a private platform loader.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{ops: make(map[string]*registration)}
	for _, opt := range opts {
		opt(r)
	}
	if r.loader == nil {
		r.loader = NewLoader(r.metrics)
	}
	return r
}

// RegisterFactory registers a factory that is already linked in. module and
// symbol are recorded for serialization and may be empty.
func (r *Registry) RegisterFactory(opName, module, symbol string, factory graph.Factory) error {
	if opName == "" || factory == nil {
		return fmt.Errorf("register %q: op name and factory are required", opName)
	}
	return r.add(&registration{
		Registration: Registration{OpName: opName, Module: module, Symbol: symbol},
		factory:      factory,
	})
}

// RegisterNativeUserFunction registers opName as the factory exported under
// symbol by the plugin at modulePath. The module is opened on first use.
func (r *Registry) RegisterNativeUserFunction(opName, modulePath, symbol string) error {
	if opName == "" || modulePath == "" || symbol == "" {
		return fmt.Errorf("register %q: op name, module and symbol are required", opName)
	}
	return r.add(&registration{
		Registration: Registration{OpName: opName, Module: modulePath, Symbol: symbol},
	})
}

func (r *Registry) add(reg *registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ops[reg.OpName]; ok {
		return fmt.Errorf("%s: %w", reg.OpName, ErrDuplicateOp)
	}
	r.ops[reg.OpName] = reg
	Logger().Debug("registered user function",
		zap.String("op", reg.OpName),
		zap.String("module", reg.Module),
		zap.String("symbol", reg.Symbol),
		zap.Bool("lazy", reg.factory == nil))
	return nil
}

// Lookup returns the registration of opName.
func (r *Registry) Lookup(opName string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.ops[opName]
	if !ok {
		return Registration{}, false
	}
	return reg.Registration, true
}

// Ops returns the registered op names in sorted order.
func (r *Registry) Ops() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory returns the factory of opName, opening its module if needed.
func (r *Registry) Factory(opName string) (graph.Factory, error) {
	r.mu.RLock()
	reg, ok := r.ops[opName]
	var factory graph.Factory
	if ok {
		factory = reg.factory
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", opName, ErrUnknownOp)
	}
	if factory != nil {
		return factory, nil
	}

	lib, err := r.loader.Open(reg.Module)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}
	factory, err = lib.Factory(reg.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}

	r.mu.Lock()
	if reg.factory == nil {
		reg.factory = factory
	}
	factory = reg.factory
	r.mu.Unlock()
	return factory, nil
}

// Create constructs an instance of opName. Errors from the factory are
// returned unchanged.
func (r *Registry) Create(opName string, operands []*graph.Variable, attributes graph.Dictionary, name string) (graph.Function, error) {
	factory, err := r.Factory(opName)
	if err != nil {
		r.metrics.Failed(opName)
		return nil, err
	}

	fn, err := factory(operands, attributes, name)
	if err != nil {
		r.metrics.Failed(opName)
		Logger().Debug("user function construction failed",
			zap.String("op", opName), zap.String("name", name), zap.Error(err))
		return nil, err
	}
	r.metrics.Created(opName)
	Logger().Debug("created user function", zap.String("op", opName), zap.String("name", name))
	return fn, nil
}
