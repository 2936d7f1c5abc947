// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package kernels implements the elementwise loops used when an arithmetic expression can be
// evaluated eagerly.
//
// The loops are generic on the float type, but the only instantiation used is float32.
package kernels

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// BinaryFn is an elementwise function of two operands.
type BinaryFn[T constraints.Float] func(a, b T) T

// Binary computes output[i] = fn(lhs[i], rhs[i]). The three slices must have the same length.
func Binary[T constraints.Float](fn BinaryFn[T], lhs, rhs, output []T) error {
	if len(lhs) != len(rhs) || len(lhs) != len(output) {
		return errors.Errorf("kernels.Binary: operands have lengths %d and %d, output has length %d",
			len(lhs), len(rhs), len(output))
	}
	for ii, a := range lhs {
		output[ii] = fn(a, rhs[ii])
	}
	return nil
}

// Scalar computes output[i] = fn(input[i], c).
func Scalar[T constraints.Float](fn BinaryFn[T], input []T, c T, output []T) error {
	if len(input) != len(output) {
		return errors.Errorf("kernels.Scalar: input has length %d, output has length %d", len(input), len(output))
	}
	for ii, a := range input {
		output[ii] = fn(a, c)
	}
	return nil
}

// Fill sets all elements of output to value.
func Fill[T constraints.Float](output []T, value T) {
	for ii := range output {
		output[ii] = value
	}
}

// AllEqual returns whether every element of input is exactly equal (==) to value.
// It returns true for an empty input.
func AllEqual[T constraints.Float](input []T, value T) bool {
	for _, a := range input {
		if a != value {
			return false
		}
	}
	return true
}

// Add returns a + b.
func Add[T constraints.Float](a, b T) T { return a + b }

// Sub returns a - b.
func Sub[T constraints.Float](a, b T) T { return a - b }

// Mul returns a * b.
func Mul[T constraints.Float](a, b T) T { return a * b }

// Div returns a / b. Division by zero follows IEEE-754 semantics (Inf or NaN).
func Div[T constraints.Float](a, b T) T { return a / b }
