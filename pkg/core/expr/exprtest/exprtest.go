// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package exprtest holds test utilities for packages that depend on the expr package.
package exprtest

import (
	"fmt"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensor/internal/kernels"
	"github.com/gomlx/lazytensor/pkg/core/expr"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
	"github.com/stretchr/testify/require"
)

// Evaluate computes the value of the expression tree rooted at n, reading the current values of its variables.
//
// It is a straightforward recursive evaluator, meant as a reference to check the results of the simplifications.
// It panics (with exceptions.Panicf) on invalid nodes.
func Evaluate(n *expr.Node) *tensors.Tensor {
	n.AssertValid()
	switch n.Type() {
	case expr.NodeTypeConstant:
		return n.ConstantValue()
	case expr.NodeTypeVariable:
		return n.VariableValue()
	case expr.NodeTypeReshape:
		t, err := Evaluate(n.Inputs()[0]).Reshape(n.ReshapeDimensions()...)
		if err != nil {
			panic(err)
		}
		return t
	case expr.NodeTypeBinary:
		lhs, rhs := Evaluate(n.Inputs()[0]), Evaluate(n.Inputs()[1])
		t, err := tensors.Binary(kernelFor(n.OpType()), lhs, rhs)
		if err != nil {
			panic(err)
		}
		return t
	case expr.NodeTypeScalar:
		return tensors.Scalar(kernelFor(n.OpType()), Evaluate(n.Inputs()[0]), n.ScalarValue())
	default:
		exceptions.Panicf("exprtest.Evaluate: unknown node type %s", n.Type())
	}
	return nil
}

func kernelFor(op expr.OpType) kernels.BinaryFn[float32] {
	switch op {
	case expr.OpTypeAdd:
		return kernels.Add[float32]
	case expr.OpTypeSub:
		return kernels.Sub[float32]
	case expr.OpTypeMul:
		return kernels.Mul[float32]
	case expr.OpTypeDiv:
		return kernels.Div[float32]
	default:
		exceptions.Panicf("exprtest: unknown op type %s", op)
	}
	return nil
}

// RequireConstant checks that n is a constant node with the given dimensions and flat values.
func RequireConstant(t *testing.T, n *expr.Node, wantFlat []float32, wantDimensions ...int) {
	t.Helper()
	require.NotNil(t, n)
	require.Equalf(t, expr.NodeTypeConstant, n.Type(), "expected a constant node, got %s", n)
	want, err := tensors.FromFlatDataAndDimensions(wantFlat, wantDimensions...)
	require.NoError(t, err)
	require.Truef(t, want.Equal(n.ConstantValue()), "got %s, wanted %s", n.ConstantValue().GoStr(), want.GoStr())
}

// RequireValue checks that the evaluation of n (see Evaluate) matches want, within delta.
// Values of delta <= 0 means only exact equality is accepted.
func RequireValue(t *testing.T, n *expr.Node, want *tensors.Tensor, delta float64) {
	t.Helper()
	var got *tensors.Tensor
	require.NotPanicsf(t, func() { got = Evaluate(n) }, "failed to evaluate %s", n)
	if delta <= 0 {
		require.Truef(t, want.Equal(got), "got %s, wanted %s", got.GoStr(), want.GoStr())
		return
	}
	require.Truef(t, want.InDelta(got, delta), "got %s, wanted %s (delta=%g)", got.GoStr(), want.GoStr(), delta)
}

// TestBuildFn builds an expression and returns the node to be checked.
type TestBuildFn func() *expr.Node

// RunTestBuildFn runs buildFn inside expr.Build as a subtest, and checks that the value of the resulting node
// matches want, within delta.
func RunTestBuildFn(t *testing.T, testName string, buildFn TestBuildFn, want *tensors.Tensor, delta float64) {
	t.Run(testName, func(t *testing.T) {
		n, err := expr.Build(buildFn)
		require.NoErrorf(t, err, "%s: failed to build expression", testName)
		fmt.Printf("\n%s:\n%s\n", testName, expr.Dump(n))
		RequireValue(t, n, want, delta)
	})
}
