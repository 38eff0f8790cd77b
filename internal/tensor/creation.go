package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return NewRaw(shape, dtype, device)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64, dtype DataType, device Device) (*RawTensor, error) {
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		data := r.AsFloat32()
		for i := range data {
			data[i] = float32(value)
		}
	case Float64:
		data := r.AsFloat64()
		for i := range data {
			data[i] = value
		}
	}
	return r, nil
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return Full(shape, 1, dtype, device)
}

// Randn creates a tensor with values drawn from N(0, 1) using rng.
// Note: Uses math/rand (not crypto/rand), seeded by the caller for reproducibility.
func Randn(shape Shape, dtype DataType, device Device, rng *rand.Rand) (*RawTensor, error) {
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		data := r.AsFloat32()
		for i := range data {
			data[i] = float32(rng.NormFloat64())
		}
	case Float64:
		data := r.AsFloat64()
		for i := range data {
			data[i] = rng.NormFloat64()
		}
	}
	return r, nil
}

// Uniform creates a tensor with values drawn uniformly from [lo, hi).
func Uniform(shape Shape, lo, hi float64, dtype DataType, device Device, rng *rand.Rand) (*RawTensor, error) {
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	span := hi - lo
	switch dtype {
	case Float32:
		data := r.AsFloat32()
		for i := range data {
			data[i] = float32(lo + span*rng.Float64())
		}
	case Float64:
		data := r.AsFloat64()
		for i := range data {
			data[i] = lo + span*rng.Float64()
		}
	}
	return r, nil
}
