package native

import (
	"errors"
	"fmt"

	"github.com/born-ml/born-ext/internal/graph"
)

// Keys of a serialized user function.
const (
	keyVersion    = "version"
	keyOp         = "op"
	keyName       = "name"
	keyAttributes = "attributes"
	keyModule     = "module"
	keySymbol     = "symbol"
)

const serializationVersion = 1

// Serialize describes fn as a dictionary from which Deserialize can rebuild it.
// The module and symbol of fn's op are recorded so a reader that has not
// registered the op can still resolve it. Operands are not stored; the host
// serializes the graph wiring itself.
func (r *Registry) Serialize(fn graph.Function) (graph.Dictionary, error) {
	reg, ok := r.Lookup(fn.OpName())
	if !ok {
		return nil, fmt.Errorf("serialize %s: %w", fn.OpName(), ErrUnknownOp)
	}
	return graph.Dictionary{
		keyVersion:    serializationVersion,
		keyOp:         fn.OpName(),
		keyName:       fn.Name(),
		keyAttributes: fn.Attributes(),
		keyModule:     reg.Module,
		keySymbol:     reg.Symbol,
	}, nil
}

// Deserialize rebuilds a function serialized by Serialize over operands. An op
// that is not registered yet is registered from the recorded module and symbol.
func (r *Registry) Deserialize(dict graph.Dictionary, operands []*graph.Variable) (graph.Function, error) {
	version, err := dict.GetInt(keyVersion, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if version != serializationVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, version)
	}

	op, err := dict.GetString(keyOp, "")
	if err != nil || op == "" {
		return nil, fmt.Errorf("%w: missing op", ErrMalformed)
	}
	for _, key := range []string{keyName, keyAttributes} {
		if !dict.Has(key) {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformed, key)
		}
	}
	name, err := dict.GetString(keyName, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	attrs, err := dict.GetDictionary(keyAttributes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if _, ok := r.Lookup(op); !ok {
		module, _ := dict.GetString(keyModule, "")
		symbol, _ := dict.GetString(keySymbol, "")
		if module == "" || symbol == "" {
			return nil, fmt.Errorf("deserialize %s: %w", op, ErrUnknownOp)
		}
		err := r.RegisterNativeUserFunction(op, module, symbol)
		if err != nil && !errors.Is(err, ErrDuplicateOp) {
			return nil, err
		}
	}

	return r.Create(op, operands, attrs, name)
}

// Marshal serializes fn and encodes it as YAML.
func (r *Registry) Marshal(fn graph.Function) ([]byte, error) {
	dict, err := r.Serialize(fn)
	if err != nil {
		return nil, err
	}
	return dict.Encode()
}

// Unmarshal decodes YAML written by Marshal and rebuilds the function.
func (r *Registry) Unmarshal(data []byte, operands []*graph.Variable) (graph.Function, error) {
	dict, err := graph.DecodeDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return r.Deserialize(dict, operands)
}
