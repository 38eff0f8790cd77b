package graph

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

// Dictionary is the named-parameter bag configuring an operator instance.
//
// Supported values: bool, int, int64, float32, float64, string, []int, []float64,
// []string, []any and nested Dictionary. Getters return the default when a key is
// absent and ErrAttributeType when the stored value cannot be converted.
type Dictionary map[string]any

// Keys returns the keys in sorted order.
func (d Dictionary) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present.
func (d Dictionary) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// GetFloat returns a numeric attribute as float64.
func (d Dictionary) GetFloat(key string, defaultVal float64) (float64, error) {
	v, ok := d[key]
	if !ok {
		return defaultVal, nil
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("attribute %q: want number, got %T: %w", key, v, ErrAttributeType)
	}
}

// GetInt returns an integer attribute. Floats are accepted when integral.
func (d Dictionary) GetInt(key string, defaultVal int) (int, error) {
	v, ok := d[key]
	if !ok {
		return defaultVal, nil
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("attribute %q: %v is not an integer: %w", key, x, ErrAttributeType)
		}
		return int(x), nil
	default:
		return 0, fmt.Errorf("attribute %q: want integer, got %T: %w", key, v, ErrAttributeType)
	}
}

// GetBool returns a boolean attribute.
func (d Dictionary) GetBool(key string, defaultVal bool) (bool, error) {
	v, ok := d[key]
	if !ok {
		return defaultVal, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("attribute %q: want bool, got %T: %w", key, v, ErrAttributeType)
	}
	return b, nil
}

// GetString returns a string attribute.
func (d Dictionary) GetString(key, defaultVal string) (string, error) {
	v, ok := d[key]
	if !ok {
		return defaultVal, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("attribute %q: want string, got %T: %w", key, v, ErrAttributeType)
	}
	return s, nil
}

// GetDictionary returns a nested dictionary attribute, or nil when absent.
func (d Dictionary) GetDictionary(key string) (Dictionary, error) {
	v, ok := d[key]
	if !ok {
		return nil, nil
	}
	switch x := v.(type) {
	case Dictionary:
		return x, nil
	case map[string]any:
		return Dictionary(x), nil
	default:
		return nil, fmt.Errorf("attribute %q: want dictionary, got %T: %w", key, v, ErrAttributeType)
	}
}

// Clone returns a deep copy. A nil dictionary clones to an empty one.
func (d Dictionary) Clone() Dictionary {
	out := make(Dictionary, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case Dictionary:
		return x.Clone()
	case map[string]any:
		return Dictionary(x).Clone()
	case []int:
		return append([]int(nil), x...)
	case []float64:
		return append([]float64(nil), x...)
	case []string:
		return append([]string(nil), x...)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal compares two dictionaries by value. Numbers compare by numeric value and
// typed slices compare equal to []any holding the same elements, so a dictionary
// equals its YAML round trip.
func (d Dictionary) Equal(other Dictionary) bool {
	return reflect.DeepEqual(normalize(d), normalize(other))
}

func normalize(v any) any {
	switch x := v.(type) {
	case Dictionary:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case map[string]any:
		return normalize(Dictionary(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case []int:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out
	case []float64:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// Encode serialises the dictionary as a plain YAML mapping.
func (d Dictionary) Encode() ([]byte, error) {
	data, err := yaml.Marshal(normalizeForYAML(d))
	if err != nil {
		return nil, fmt.Errorf("marshal dictionary: %w", err)
	}
	return data, nil
}

func normalizeForYAML(v any) any {
	switch x := v.(type) {
	case Dictionary:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeForYAML(e)
		}
		return out
	case map[string]any:
		return normalizeForYAML(Dictionary(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeForYAML(e)
		}
		return out
	default:
		return v
	}
}

// DecodeDictionary decodes a YAML mapping produced by Encode.
// Nested mappings become Dictionary values.
func DecodeDictionary(data []byte) (Dictionary, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal dictionary: %w", err)
	}
	return fromYAML(raw), nil
}

func fromYAML(m map[string]any) Dictionary {
	out := make(Dictionary, len(m))
	for k, v := range m {
		out[k] = fromYAMLValue(v)
	}
	return out
}

func fromYAMLValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return fromYAML(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromYAMLValue(e)
		}
		return out
	default:
		return v
	}
}
