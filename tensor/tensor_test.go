// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-ext/tensor"
)

func TestCreation(t *testing.T) {
	x, err := tensor.FromFloat32([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Equal(t, 6, x.NumElements())

	ones, err := tensor.Ones(tensor.Shape{3}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, ones.AsFloat64())

	_, err = tensor.FromFloat64([]float64{1, 2}, tensor.Shape{3}, tensor.CPU)
	assert.Error(t, err)
}
