// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the description of the dimensions of a dense tensor or of the
// value an expression node will evaluate to.
//
// The DType is kept in the shape so debug output reads the same way as the rest of the GoMLX
// ecosystem (e.g. `(Float32)[2 3]`), but only dtypes.Float32 is supported.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a Tensor.
//   - Axis: the index of a dimension. Axis 0 is the outermost one.
//   - Dimension: the size of a Tensor in one of its axes.
//   - Size: the number of elements, the product of all dimensions. A scalar (rank 0) has size 1.
//
// Example: `[][]float32{{0, 1, 2}, {3, 4, 5}}` has shape `(Float32)[2 3]`, it could be created with
// `shapes.Make(dtypes.Float32, 2, 3)`.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// ErrShapeMismatch is returned whenever dimensions disagree: between two operands of an
// elementwise operation, between flat data and its declared dimensions, or between the
// element counts of a reshape.
var ErrShapeMismatch = errors.New("shape mismatch")

// Shape represents the shape of a Tensor or of the expected value of an expression node.
//
// Use Make to create a new shape.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a Shape structure filled with the values given.
//
// It panics if any of the dimensions is negative. Zero dimensions are accepted, and yield a
// shape with size 0.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	if err := CheckDimensions(dimensions...); err != nil {
		exceptions.Panicf("shapes.Make(%s): %v", s, err)
	}
	return s
}

// Float32 is a shortcut to Make(dtypes.Float32, dimensions...).
func Float32(dimensions ...int) Shape {
	return Make(dtypes.Float32, dimensions...)
}

// CheckDimensions returns an error wrapping ErrShapeMismatch if any of the dimensions is negative.
func CheckDimensions(dimensions ...int) error {
	for axis, dim := range dimensions {
		if dim < 0 {
			return errors.Wrapf(ErrShapeMismatch, "axis #%d has negative dimension %d in %v", axis, dim, dimensions)
		}
	}
	return nil
}

// SizeOf returns the product of the dimensions given, the number of elements a tensor with these
// dimensions holds. It returns 1 for no dimensions (scalar).
func SizeOf(dimensions ...int) int {
	size := 1
	for _, dim := range dimensions {
		size *= dim
	}
	return size
}

// Ok returns whether this is a valid Shape. A zero Shape{} is invalid.
func (s Shape) Ok() bool { return s.DType != dtypes.InvalidDType }

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar, that is there are no dimensions (rank==0).
func (s Shape) IsScalar() bool { return s.Ok() && s.Rank() == 0 }

// IsZeroSize returns whether any of the dimensions is 0, in which case the shape holds no elements.
func (s Shape) IsZeroSize() bool { return slices.Contains(s.Dimensions, 0) }

// Dim returns the dimension of the given axis. axis can take negative numbers, in which
// case it counts as starting from the end -- so axis=-1 refers to the last axis.
// Like with a slice indexing, it panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s)
	}
	return s.Dimensions[adjustedAxis]
}

// Size returns the number of elements needed for this shape. It's the product of all dimensions.
func (s Shape) Size() int {
	return SizeOf(s.Dimensions...)
}

// Memory returns the number of bytes used to store the elements of the given shape.
func (s Shape) Memory() uintptr {
	return s.DType.Memory() * uintptr(s.Size())
}

// Shape returns itself. It implements the HasShape interface.
func (s Shape) Shape() Shape { return s }

// HasShape is implemented by anything with a shape: tensors, expression nodes and shapes themselves.
type HasShape interface {
	Shape() Shape
}

// String implements stringer, pretty-prints the shape.
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}

// Equal compares two shapes for equality: dtype and dimensions are compared.
func (s Shape) Equal(s2 Shape) bool {
	return s.DType == s2.DType && slices.Equal(s.Dimensions, s2.Dimensions)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() Shape {
	return Shape{DType: s.DType, Dimensions: slices.Clone(s.Dimensions)}
}

// Reshape returns a shape with the same dtype and the new dimensions.
// It returns an error wrapping ErrShapeMismatch if the number of elements differ or if a dimension is negative.
func (s Shape) Reshape(dimensions ...int) (Shape, error) {
	if err := CheckDimensions(dimensions...); err != nil {
		return Shape{}, err
	}
	if newSize := SizeOf(dimensions...); newSize != s.Size() {
		return Shape{}, errors.Wrapf(ErrShapeMismatch, "cannot reshape %s (%d elements) to %v (%d elements)",
			s, s.Size(), dimensions, newSize)
	}
	return Shape{DType: s.DType, Dimensions: slices.Clone(dimensions)}, nil
}

// Strides returns the strides for each axis of the shape, assuming a "row-major" layout.
//
// Notice the strides are **not in bytes**, but in indices.
func (s Shape) Strides() (strides []int) {
	rank := s.Rank()
	if rank == 0 {
		return
	}
	strides = make([]int, rank)
	currentStride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		strides[axis] = currentStride
		currentStride *= s.Dimensions[axis]
	}
	return
}

// FlatIndex converts a multi-axis index to the index into the flat row-major data.
// It panics if the number of indices doesn't match the rank, or if any of them is out-of-bounds.
func (s Shape) FlatIndex(indices ...int) int {
	if len(indices) != s.Rank() {
		exceptions.Panicf("Shape.FlatIndex(%v): got %d indices for shape %s of rank %d", indices, len(indices), s, s.Rank())
	}
	flat := 0
	for axis, stride := range s.Strides() {
		idx := indices[axis]
		if idx < 0 || idx >= s.Dimensions[axis] {
			exceptions.Panicf("Shape.FlatIndex(%v): index %d out-of-bounds for axis #%d of shape %s", indices, idx, axis, s)
		}
		flat += idx * stride
	}
	return flat
}

// AssertEqual returns an error wrapping ErrShapeMismatch if the shapes differ.
// The context is used to prefix the message, e.g. the name of the operation.
func AssertEqual(context string, s1, s2 Shape) error {
	if s1.Equal(s2) {
		return nil
	}
	return errors.Wrapf(ErrShapeMismatch, "%s: incompatible shapes %s and %s", context, s1, s2)
}

// DimensionsString returns the dimensions joined with "x", e.g. "2x3". Scalars return "scalar".
func (s Shape) DimensionsString() string {
	if s.Rank() == 0 {
		return "scalar"
	}
	parts := make([]string, len(s.Dimensions))
	for ii, dim := range s.Dimensions {
		parts[ii] = fmt.Sprint(dim)
	}
	return strings.Join(parts, "x")
}
