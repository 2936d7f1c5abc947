// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"slices"

	"github.com/pkg/errors"
)

// Reshape returns x with a new shape, given by dimensions. The total number of elements must not change.
//
// If x is a constant, the reshape is applied immediately to its tensor. Otherwise, a NodeTypeReshape node is
// created wrapping x: reshapes are never pushed through arithmetic nodes.
//
// It returns an error wrapping ErrShapeMismatch if the number of elements differ.
func Reshape(x *Node, dimensions ...int) (*Node, error) {
	x.AssertValid()
	newShape, err := x.Shape().Reshape(dimensions...)
	if err != nil {
		return nil, errors.WithMessage(err, "expr.Reshape")
	}
	if t := x.ConstantValue(); t != nil {
		reshaped, err := t.Reshape(dimensions...)
		if err != nil {
			return nil, errors.WithMessage(err, "expr.Reshape")
		}
		return Constant(reshaped), nil
	}
	return newNode(newShape, &nodeInputsReshape{x: x, dimensions: slices.Clone(dimensions)}, x), nil
}
