// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package expr builds lazy tensor expressions: trees of elementwise arithmetic over dense float32 tensors.
//
// The main elements in the package are:
//
//   - Node: an immutable expression tree node. It is either a Constant (a fully known tensors.Tensor), a
//     Variable reference (a named, mutable value stored in an Arena), a Reshape of another node, or one of
//     the arithmetic operations: Add, Sub, Mul or Div between two nodes of the same shape (NodeTypeBinary),
//     or between a node and a float32 scalar (NodeTypeScalar).
//
//   - Arena: holds the current values of variables, indexed by VariableID. A Variable handle, returned when a
//     variable is created, reads and writes the value. Every node referencing the variable observes the
//     change.
//
// # Simplification
//
// Each arithmetic function simplifies eagerly before creating a new node:
//
//   - Algebraic identities are applied first: `x+0`, `x-0`, `x*1`, `x/1` return `x` itself, `0-x` and `x/-1`
//     return `Neg(x)`, `x*0` returns a constant zero tensor even when `x` references a variable: the
//     variable's value is never read, and the result holds no reference to it.
//   - If both operands are constants, the result is computed elementwise immediately, and a new Constant
//     node is returned.
//   - Otherwise a deferred node is returned, holding its operands. No numeric work is done.
//
// There is no execution phase: simplification is the only reduction performed.
//
// # Errors
//
// Arithmetic functions return an error wrapping ErrShapeMismatch if operand shapes differ (there is no
// broadcasting), and Div and DivScalar return an error wrapping ErrDivisionByZero if the divisor is a
// constant all-zero tensor or the scalar 0. This is checked before the other simplification rules, so `0/0` is an error.
// Use errors.Is to test for them.
//
// For chained expressions, the Must* variants panic instead, and Build converts the panic back to an error:
//
//	node, err := expr.Build(func() *expr.Node {
//		return expr.MustDiv(expr.MustAdd(x, y), z)
//	})
//
// Programming errors, like passing a nil node, panic.
package expr
