// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"

	"github.com/gomlx/lazytensor/internal/kernels"
)

// NodeType identifies the kind of expression node.
type NodeType int

const (
	NodeTypeInvalid NodeType = iota
	NodeTypeConstant
	NodeTypeVariable
	NodeTypeReshape
	NodeTypeBinary
	NodeTypeScalar
)

var nodeTypeNames = []string{"Invalid", "Constant", "Variable", "Reshape", "Binary", "Scalar"}

// String implements fmt.Stringer.
func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
	return nodeTypeNames[t]
}

// OpType is the arithmetic operation of a NodeTypeBinary or NodeTypeScalar node.
type OpType int

const (
	OpTypeInvalid OpType = iota
	OpTypeAdd
	OpTypeSub
	OpTypeMul
	OpTypeDiv
)

var opTypeNames = []string{"Invalid", "Add", "Sub", "Mul", "Div"}

// String implements fmt.Stringer.
func (op OpType) String() string {
	if op < 0 || int(op) >= len(opTypeNames) {
		return fmt.Sprintf("OpType(%d)", int(op))
	}
	return opTypeNames[op]
}

// Symbol returns the arithmetic symbol of the operation: "+", "-", "*" or "/".
func (op OpType) Symbol() string {
	switch op {
	case OpTypeAdd:
		return "+"
	case OpTypeSub:
		return "-"
	case OpTypeMul:
		return "*"
	case OpTypeDiv:
		return "/"
	default:
		return "?"
	}
}

// kernel returns the elementwise function for the operation.
func (op OpType) kernel() kernels.BinaryFn[float32] {
	switch op {
	case OpTypeAdd:
		return kernels.Add[float32]
	case OpTypeSub:
		return kernels.Sub[float32]
	case OpTypeMul:
		return kernels.Mul[float32]
	case OpTypeDiv:
		return kernels.Div[float32]
	default:
		return nil
	}
}
