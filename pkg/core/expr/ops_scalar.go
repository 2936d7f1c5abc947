// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/gomlx/lazytensor/pkg/core/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// scalarOp creates the result of the scalar op for operands that didn't match any of the shortcuts.
//
// If x is a constant, the result is computed immediately. Otherwise, a NodeTypeScalar node is created.
func scalarOp(op OpType, x *Node, scalar float32) *Node {
	if t := x.ConstantValue(); t != nil {
		return Constant(tensors.Scalar(op.kernel(), t, scalar))
	}
	klog.V(2).Infof("expr: deferred %sScalar(%g) of %s", op, scalar, x.Shape())
	return newNode(x.Shape(), &nodeInputsScalar{op: op, x: x, scalar: scalar}, x)
}

// AddScalar returns x+scalar, elementwise. If scalar is 0, x is returned unchanged.
func AddScalar(x *Node, scalar float32) *Node {
	x.AssertValid()
	if scalar == 0 {
		return x
	}
	return scalarOp(OpTypeAdd, x, scalar)
}

// SubScalar returns x-scalar, elementwise. If scalar is 0, x is returned unchanged.
func SubScalar(x *Node, scalar float32) *Node {
	x.AssertValid()
	if scalar == 0 {
		return x
	}
	return scalarOp(OpTypeSub, x, scalar)
}

// MulScalar returns x*scalar, elementwise.
//
// If scalar is 1, x is returned unchanged. If scalar is 0, it returns a new constant zero with the shape of x,
// without evaluating or referencing x.
func MulScalar(x *Node, scalar float32) *Node {
	x.AssertValid()
	if scalar == 1 {
		return x
	}
	if scalar == 0 {
		klog.V(2).Infof("expr: MulScalar(x, 0) simplified to 0")
		return ZerosLike(x)
	}
	return scalarOp(OpTypeMul, x, scalar)
}

// DivScalar returns x/scalar, elementwise.
//
// If scalar is 1, x is returned unchanged, and if it is -1 the result is Neg(x).
// It returns an error wrapping ErrDivisionByZero if scalar is 0.
func DivScalar(x *Node, scalar float32) (*Node, error) {
	x.AssertValid()
	switch scalar {
	case 1:
		return x, nil
	case -1:
		return Neg(x), nil
	case 0:
		return nil, errors.Wrapf(ErrDivisionByZero, "expr.DivScalar(%s, 0)", x.shortString())
	}
	return scalarOp(OpTypeDiv, x, scalar), nil
}
