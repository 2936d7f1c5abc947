// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
	"github.com/gomlx/lazytensor/pkg/support/xslices"
)

// This file defines methods that allow for introspection of the expression tree.

// Type identifies the kind of node.
// It returns NodeTypeInvalid for a nil node.
func (n *Node) Type() NodeType {
	if n == nil || n.inputs == nil {
		return NodeTypeInvalid
	}
	return n.inputs.Type()
}

// OpType returns the arithmetic operation of NodeTypeBinary and NodeTypeScalar nodes.
// It returns OpTypeInvalid for any other node type.
func (n *Node) OpType() OpType {
	switch inputs := n.inputsOrNil().(type) {
	case *nodeInputsBinary:
		return inputs.op
	case *nodeInputsScalar:
		return inputs.op
	default:
		return OpTypeInvalid
	}
}

func (n *Node) inputsOrNil() NodeInputs {
	if n == nil {
		return nil
	}
	return n.inputs
}

// ConstantValue returns the tensor of a constant node.
// It returns nil if n.Type() != NodeTypeConstant.
func (n *Node) ConstantValue() *tensors.Tensor {
	if n.Type() != NodeTypeConstant {
		return nil
	}
	return n.inputs.(*nodeInputsConstant).tensor
}

// ScalarValue returns the scalar operand of a NodeTypeScalar node.
// It panics if the node is of any other type.
func (n *Node) ScalarValue() float32 {
	n.AssertValid()
	if n.Type() != NodeTypeScalar {
		exceptions.Panicf("trying to get ScalarValue of a non-scalar operation node %q", n.Type())
	}
	return n.inputs.(*nodeInputsScalar).scalar
}

// ReshapeDimensions returns the new dimensions of a NodeTypeReshape node.
// It panics if the node is of any other type.
func (n *Node) ReshapeDimensions() []int {
	n.AssertValid()
	if n.Type() != NodeTypeReshape {
		exceptions.Panicf("trying to get ReshapeDimensions of a non-reshape node %q", n.Type())
	}
	return n.reshapeDimensions()
}

// Variable returns the handle of the variable referenced by a NodeTypeVariable node.
// It returns nil for any other node type.
func (n *Node) Variable() *Variable {
	if n.Type() != NodeTypeVariable {
		return nil
	}
	return n.inputs.(*nodeInputsVariable).variable
}

// VariableID returns the id of the variable referenced by a NodeTypeVariable node.
// It panics if the node is of any other type.
func (n *Node) VariableID() VariableID {
	n.AssertValid()
	if n.Type() != NodeTypeVariable {
		exceptions.Panicf("trying to get VariableID of a non-variable node %q", n.Type())
	}
	return n.Variable().ID()
}

// VariableValue returns the current value of the variable referenced by a NodeTypeVariable node.
// It reflects any update done with Variable.SetValue through any handle.
// It panics if the node is of any other type.
func (n *Node) VariableValue() *tensors.Tensor {
	n.AssertValid()
	if n.Type() != NodeTypeVariable {
		exceptions.Panicf("trying to get VariableValue of a non-variable node %q", n.Type())
	}
	return n.Variable().Value()
}

// IsConstantExpression returns whether the node depends only on constant values.
// It traverses the node dependencies and checks that all leaves are constants.
func (n *Node) IsConstantExpression() bool {
	n.AssertValid()
	if n.Type() == NodeTypeVariable {
		return false
	}
	for _, input := range n.inputNodes {
		if !input.IsConstantExpression() {
			return false
		}
	}
	return true
}

// Variables returns the sorted ids of the variables referenced anywhere in the tree rooted at n.
// Each id is listed once, even if referenced multiple times.
func Variables(n *Node) []VariableID {
	n.AssertValid()
	ids := make(map[VariableID]struct{})
	var visit func(node *Node)
	visit = func(node *Node) {
		if node.Type() == NodeTypeVariable {
			ids[node.Variable().ID()] = struct{}{}
			return
		}
		for _, input := range node.inputNodes {
			visit(input)
		}
	}
	visit(n)
	return xslices.SortedKeys(ids)
}

// NumNodes returns the number of nodes in the tree rooted at n, counting shared subtrees once per reference.
func NumNodes(n *Node) int {
	n.AssertValid()
	count := 1
	for _, input := range n.inputNodes {
		count += NumNodes(input)
	}
	return count
}

// Equal returns whether a and b are structurally equal expression trees: same node types, operations, scalar
// operands, variable ids, shapes and exactly equal constant values.
//
// Two nil nodes are equal.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type() != b.Type() || !a.shape.Equal(b.shape) || len(a.inputNodes) != len(b.inputNodes) {
		return false
	}
	switch a.Type() {
	case NodeTypeConstant:
		if !a.ConstantValue().Equal(b.ConstantValue()) {
			return false
		}
	case NodeTypeVariable:
		if a.Variable().ID() != b.Variable().ID() {
			return false
		}
	case NodeTypeReshape:
		if !slices.Equal(a.reshapeDimensions(), b.reshapeDimensions()) {
			return false
		}
	case NodeTypeBinary:
		if a.OpType() != b.OpType() {
			return false
		}
	case NodeTypeScalar:
		if a.OpType() != b.OpType() || a.ScalarValue() != b.ScalarValue() {
			return false
		}
	default:
		return false
	}
	for ii, input := range a.inputNodes {
		if !Equal(input, b.inputNodes[ii]) {
			return false
		}
	}
	return true
}
