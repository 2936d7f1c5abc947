// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/gomlx/lazytensor/pkg/core/shapes"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// isConstantEqualTo returns whether n is a constant node with all its values equal to value.
// It never reads variables: any non-constant node returns false.
func isConstantEqualTo(n *Node, value float32) bool {
	t := n.ConstantValue()
	return t != nil && t.AllEqualTo(value)
}

// checkBinaryOperands validates the operands of a binary operation.
func checkBinaryOperands(op OpType, lhs, rhs *Node) error {
	lhs.AssertValid()
	rhs.AssertValid()
	return shapes.AssertEqual(op.String(), lhs.Shape(), rhs.Shape())
}

// binaryOp creates the result of the binary op for operands that didn't match any of the shortcuts.
//
// If both operands are constants, the result is computed immediately. Otherwise, a NodeTypeBinary node
// is created, with the computation deferred.
func binaryOp(op OpType, lhs, rhs *Node) (*Node, error) {
	lhsT, rhsT := lhs.ConstantValue(), rhs.ConstantValue()
	if lhsT != nil && rhsT != nil {
		t, err := tensors.Binary(op.kernel(), lhsT, rhsT)
		if err != nil {
			return nil, errors.WithMessagef(err, "expr.%s", op)
		}
		return Constant(t), nil
	}
	klog.V(2).Infof("expr: deferred %s of %s", op, lhs.Shape())
	return newNode(lhs.Shape(), &nodeInputsBinary{op: op, lhs: lhs, rhs: rhs}, lhs, rhs), nil
}

// Add returns the elementwise sum lhs+rhs.
//
// If one of the operands is a constant zero, the other operand is returned unchanged.
// It returns an error wrapping ErrShapeMismatch if the operands have different shapes.
func Add(lhs, rhs *Node) (*Node, error) {
	if err := checkBinaryOperands(OpTypeAdd, lhs, rhs); err != nil {
		return nil, err
	}
	if isConstantEqualTo(lhs, 0) {
		klog.V(2).Infof("expr: Add(0, x) simplified to x")
		return rhs, nil
	}
	if isConstantEqualTo(rhs, 0) {
		klog.V(2).Infof("expr: Add(x, 0) simplified to x")
		return lhs, nil
	}
	return binaryOp(OpTypeAdd, lhs, rhs)
}

// Sub returns the elementwise difference lhs-rhs.
//
// If lhs is a constant zero the result is Neg(rhs), and if rhs is a constant zero lhs is returned unchanged.
// It returns an error wrapping ErrShapeMismatch if the operands have different shapes.
func Sub(lhs, rhs *Node) (*Node, error) {
	if err := checkBinaryOperands(OpTypeSub, lhs, rhs); err != nil {
		return nil, err
	}
	if isConstantEqualTo(lhs, 0) {
		klog.V(2).Infof("expr: Sub(0, x) simplified to Neg(x)")
		return Neg(rhs), nil
	}
	if isConstantEqualTo(rhs, 0) {
		klog.V(2).Infof("expr: Sub(x, 0) simplified to x")
		return lhs, nil
	}
	return binaryOp(OpTypeSub, lhs, rhs)
}

// Mul returns the elementwise product lhs*rhs.
//
// If one of the operands is a constant one, the other operand is returned unchanged. Otherwise, if one of the
// operands is a constant zero, the result is a new constant zero of the same shape: the other operand is
// not evaluated nor referenced, even if it depends on variables.
//
// It returns an error wrapping ErrShapeMismatch if the operands have different shapes.
func Mul(lhs, rhs *Node) (*Node, error) {
	if err := checkBinaryOperands(OpTypeMul, lhs, rhs); err != nil {
		return nil, err
	}
	if isConstantEqualTo(lhs, 1) {
		klog.V(2).Infof("expr: Mul(1, x) simplified to x")
		return rhs, nil
	}
	if isConstantEqualTo(rhs, 1) {
		klog.V(2).Infof("expr: Mul(x, 1) simplified to x")
		return lhs, nil
	}
	if isConstantEqualTo(lhs, 0) || isConstantEqualTo(rhs, 0) {
		klog.V(2).Infof("expr: Mul(x, 0) simplified to 0")
		return ZerosLike(lhs), nil
	}
	return binaryOp(OpTypeMul, lhs, rhs)
}

// Div returns the elementwise quotient lhs/rhs.
//
// The shortcuts are checked in order:
//
//   - rhs is a constant zero: it returns an error wrapping ErrDivisionByZero, even if lhs is also zero.
//   - rhs is a constant one: lhs is returned unchanged.
//   - rhs is a constant minus one: the result is Neg(lhs).
//   - lhs is a constant zero: lhs is returned unchanged.
//
// It returns an error wrapping ErrShapeMismatch if the operands have different shapes.
func Div(lhs, rhs *Node) (*Node, error) {
	if err := checkBinaryOperands(OpTypeDiv, lhs, rhs); err != nil {
		return nil, err
	}
	if isConstantEqualTo(rhs, 0) {
		return nil, errors.Wrapf(ErrDivisionByZero, "expr.Div(%s, %s)", lhs.shortString(), rhs.shortString())
	}
	if isConstantEqualTo(rhs, 1) {
		klog.V(2).Infof("expr: Div(x, 1) simplified to x")
		return lhs, nil
	}
	if isConstantEqualTo(rhs, -1) {
		klog.V(2).Infof("expr: Div(x, -1) simplified to Neg(x)")
		return Neg(lhs), nil
	}
	if isConstantEqualTo(lhs, 0) {
		klog.V(2).Infof("expr: Div(0, x) simplified to 0")
		return lhs, nil
	}
	return binaryOp(OpTypeDiv, lhs, rhs)
}

// Neg returns the elementwise negation of x, defined as MulScalar(x, -1).
func Neg(x *Node) *Node {
	return MulScalar(x, -1)
}
