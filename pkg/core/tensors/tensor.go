// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements `Tensor`, a dense, immutable, multidimensional array of float32 values.
//
// A Tensor is defined by its shape (see package shapes) and a flat row-major slice of values whose
// length is always equal to the shape's size. Once constructed its contents never change: operations
// that "modify" a tensor (Reshape, Clone, the elementwise functions) return a new Tensor with its own
// copy of the data, so two independent tensors never alias each other's storage.
//
// There are two ways to construct a Tensor:
//
//   - FromFlatDataAndDimensions(data []float32, dimensions ...int): creates a tensor with the given
//     dimensions, holding a copy of the flat values given. It returns an error wrapping
//     shapes.ErrShapeMismatch if len(data) doesn't match the dimensions. Example:
//
//     t, err := FromFlatDataAndDimensions([]float32{1, 2, 3, 4}, 2, 2) // Tensor with [[1,2], [3,4]]
//
//   - FromScalarAndDimensions(value float32, dimensions ...int): creates a tensor with the given
//     dimensions, filled with the scalar value given.
package tensors

import (
	"math"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/lazytensor/internal/kernels"
	"github.com/gomlx/lazytensor/pkg/core/shapes"
	"github.com/pkg/errors"
)

// Tensor is a dense multidimensional array of float32 values: a flat row-major slice plus
// its shape. It is immutable once constructed.
type Tensor struct {
	shape shapes.Shape
	flat  []float32
}

// FromFlatDataAndDimensions creates a tensor with the given dimensions, filled with a copy of the flattened values
// given in `data`.
//
// It returns an error wrapping shapes.ErrShapeMismatch if len(data) is different from the product of the
// dimensions, or if any dimension is negative.
func FromFlatDataAndDimensions(data []float32, dimensions ...int) (*Tensor, error) {
	if err := shapes.CheckDimensions(dimensions...); err != nil {
		return nil, errors.WithMessage(err, "FromFlatDataAndDimensions")
	}
	shape := shapes.Make(dtypes.Float32, dimensions...)
	if len(data) != shape.Size() {
		return nil, errors.Wrapf(shapes.ErrShapeMismatch,
			"FromFlatDataAndDimensions(%s): data size is %d, but dimensions size is %d",
			shape, len(data), shape.Size())
	}
	return &Tensor{shape: shape, flat: slices.Clone(data)}, nil
}

// FromScalarAndDimensions creates a tensor with the given dimensions, filled with the
// given scalar value replicated everywhere.
//
// It panics if any dimension is negative.
func FromScalarAndDimensions(value float32, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypes.Float32, dimensions...)
	t := &Tensor{shape: shape, flat: make([]float32, shape.Size())}
	kernels.Fill(t.flat, value)
	return t
}

// FromShape returns a zero-filled tensor with the given shape.
// It panics if the shape's DType is not Float32.
func FromShape(shape shapes.Shape) *Tensor {
	if shape.DType != dtypes.Float32 {
		exceptions.Panicf("tensors.FromShape(%s): only Float32 tensors are supported", shape)
	}
	return FromScalarAndDimensions(0, shape.Dimensions...)
}

// FromScalar returns a rank-0 tensor holding value.
func FromScalar(value float32) *Tensor {
	return FromScalarAndDimensions(value)
}

// Zeros returns a zero-filled tensor with the given dimensions.
func Zeros(dimensions ...int) *Tensor {
	return FromScalarAndDimensions(0, dimensions...)
}

// Ones returns a tensor filled with 1 with the given dimensions.
func Ones(dimensions ...int) *Tensor {
	return FromScalarAndDimensions(1, dimensions...)
}

// AssertValid panics if t is nil.
func (t *Tensor) AssertValid() {
	if t == nil {
		exceptions.Panicf("tensors.Tensor is nil")
	}
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType of the tensor's shape. Always dtypes.Float32 for a valid tensor.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Rank of the tensor's shape.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// IsScalar returns whether the tensor represents a scalar value.
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Size returns the number of elements in the tensor.
func (t *Tensor) Size() int { return len(t.flat) }

// Memory returns the number of bytes used by the tensor's values.
func (t *Tensor) Memory() uintptr { return t.shape.Memory() }

// Flat returns a copy of the flat, row-major, values of the tensor.
func (t *Tensor) Flat() []float32 {
	t.AssertValid()
	return slices.Clone(t.flat)
}

// ConstFlatData calls accessFn with the tensor's flat values without copying them.
// accessFn must not modify nor keep a reference to flat.
func (t *Tensor) ConstFlatData(accessFn func(flat []float32)) {
	t.AssertValid()
	accessFn(t.flat)
}

// At returns the element at the given multi-axis indices. It panics for out-of-bound indices.
func (t *Tensor) At(indices ...int) float32 {
	t.AssertValid()
	return t.flat[t.shape.FlatIndex(indices...)]
}

// Value returns the value of a scalar tensor. It panics if the tensor is not a scalar,
// or doesn't have exactly one element.
func (t *Tensor) Value() float32 {
	t.AssertValid()
	if len(t.flat) != 1 {
		exceptions.Panicf("Tensor.Value() requires exactly one element, got shape %s", t.shape)
	}
	return t.flat[0]
}

// AllEqualTo returns whether every element is exactly equal to value.
//
// It is an exact float comparison (no tolerance): 0.1+0.2 is not equal to 0.3. As in IEEE-754, -0 equals 0
// and NaN is never equal to anything. A tensor with no elements returns true.
func (t *Tensor) AllEqualTo(value float32) bool {
	t.AssertValid()
	return kernels.AllEqual(t.flat, value)
}

// Clone returns a new tensor with its own copy of the values.
func (t *Tensor) Clone() *Tensor {
	t.AssertValid()
	return &Tensor{shape: t.shape.Clone(), flat: slices.Clone(t.flat)}
}

// Reshape returns a new tensor with the same values in the same row-major order, but with the given dimensions.
//
// It returns an error wrapping shapes.ErrShapeMismatch if the number of elements differ.
func (t *Tensor) Reshape(dimensions ...int) (*Tensor, error) {
	t.AssertValid()
	shape, err := t.shape.Reshape(dimensions...)
	if err != nil {
		return nil, errors.WithMessage(err, "Tensor.Reshape")
	}
	return &Tensor{shape: shape, flat: slices.Clone(t.flat)}, nil
}

// Equal checks whether t and otherTensor have the same shape and exactly equal (==) values.
// If they are the same pointer, they are considered equal.
func (t *Tensor) Equal(otherTensor *Tensor) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	return t.shape.Equal(otherTensor.shape) && slices.Equal(t.flat, otherTensor.flat)
}

// InDelta checks whether Abs(t - otherTensor) <= delta for every element.
// If the shapes are different, it returns false.
func (t *Tensor) InDelta(otherTensor *Tensor, delta float64) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	for ii, v := range t.flat {
		if math.Abs(float64(v)-float64(otherTensor.flat[ii])) > delta {
			return false
		}
	}
	return true
}

// Binary returns a new tensor with fn(lhs[i], rhs[i]) for every element.
//
// It returns an error wrapping shapes.ErrShapeMismatch if lhs and rhs shapes differ: there is no broadcasting.
func Binary(fn kernels.BinaryFn[float32], lhs, rhs *Tensor) (*Tensor, error) {
	lhs.AssertValid()
	rhs.AssertValid()
	if err := shapes.AssertEqual("tensors.Binary", lhs.shape, rhs.shape); err != nil {
		return nil, err
	}
	output := &Tensor{shape: lhs.shape.Clone(), flat: make([]float32, len(lhs.flat))}
	if err := kernels.Binary(fn, lhs.flat, rhs.flat, output.flat); err != nil {
		return nil, err
	}
	return output, nil
}

// Scalar returns a new tensor with fn(t[i], c) for every element.
func Scalar(fn kernels.BinaryFn[float32], t *Tensor, c float32) *Tensor {
	t.AssertValid()
	output := &Tensor{shape: t.shape.Clone(), flat: make([]float32, len(t.flat))}
	// Lengths always match, so this can't fail.
	_ = kernels.Scalar(fn, t.flat, c, output.flat)
	return output
}
