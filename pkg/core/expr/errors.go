// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/gomlx/lazytensor/pkg/core/shapes"
	"github.com/pkg/errors"
)

var (
	// ErrShapeMismatch is returned (wrapped) when operands have different shapes, when flat data doesn't match
	// its dimensions, or when a reshape changes the number of elements.
	// It is the same as shapes.ErrShapeMismatch.
	ErrShapeMismatch = shapes.ErrShapeMismatch

	// ErrDivisionByZero is returned (wrapped) by Div and DivScalar when the divisor is a constant all-zero
	// tensor or the scalar 0.
	ErrDivisionByZero = errors.New("division by zero")
)
