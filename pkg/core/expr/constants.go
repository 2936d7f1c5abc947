// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
	"github.com/pkg/errors"
)

// Constant returns a NodeTypeConstant node holding the tensor t.
// It panics if t is nil.
func Constant(t *tensors.Tensor) *Node {
	if t == nil {
		exceptions.Panicf("expr.Constant(nil): tensor must be valid")
	}
	return newNode(t.Shape(), &nodeInputsConstant{tensor: t})
}

// Const returns a constant node with the given dimensions, with value replicated everywhere.
// It panics if any dimension is negative.
func Const(value float32, dimensions ...int) *Node {
	return Constant(tensors.FromScalarAndDimensions(value, dimensions...))
}

// FromFlat returns a constant node with the given dimensions holding a copy of the flat values in data.
//
// It returns an error wrapping ErrShapeMismatch if len(data) doesn't match the dimensions.
func FromFlat(data []float32, dimensions ...int) (*Node, error) {
	t, err := tensors.FromFlatDataAndDimensions(data, dimensions...)
	if err != nil {
		return nil, errors.WithMessage(err, "expr.FromFlat")
	}
	return Constant(t), nil
}

// ZerosLike returns a constant zero-filled node with the same shape as x.
// It never reads x's values: x can reference variables.
func ZerosLike(x *Node) *Node {
	x.AssertValid()
	return Const(0, x.Shape().Dimensions...)
}
