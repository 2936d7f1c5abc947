// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// The Must* functions are versions of the fallible operations that panic with the error instead of returning it.
// Use them inside Build to write expressions without checking every error.

func must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

// MustAdd is like Add, but panics on error.
func MustAdd(lhs, rhs *Node) *Node { return must(Add(lhs, rhs)) }

// MustSub is like Sub, but panics on error.
func MustSub(lhs, rhs *Node) *Node { return must(Sub(lhs, rhs)) }

// MustMul is like Mul, but panics on error.
func MustMul(lhs, rhs *Node) *Node { return must(Mul(lhs, rhs)) }

// MustDiv is like Div, but panics on error.
func MustDiv(lhs, rhs *Node) *Node { return must(Div(lhs, rhs)) }

// MustDivScalar is like DivScalar, but panics on error.
func MustDivScalar(x *Node, scalar float32) *Node { return must(DivScalar(x, scalar)) }

// MustReshape is like Reshape, but panics on error.
func MustReshape(x *Node, dimensions ...int) *Node { return must(Reshape(x, dimensions...)) }

// MustFromFlat is like FromFlat, but panics on error.
func MustFromFlat(data []float32, dimensions ...int) *Node { return must(FromFlat(data, dimensions...)) }

// Build calls buildFn and returns the node it builds, converting any panic raised by the Must* functions
// (or by invalid use of the package) into an error.
//
// Example:
//
//	y, err := expr.Build(func() *expr.Node {
//		return expr.MustDiv(expr.MustAdd(x, bias), scale)
//	})
func Build(buildFn func() *Node) (n *Node, err error) {
	err = exceptions.TryCatch[error](func() { n = buildFn() })
	if err != nil {
		return nil, errors.WithMessage(err, "expr.Build")
	}
	return n, nil
}
