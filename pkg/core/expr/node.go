// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensor/pkg/core/shapes"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
)

// MinConstValueSizeToKeep is the largest constant, in number of elements, whose values are
// printed by Node.String. Larger constants only print their shape.
var MinConstValueSizeToKeep = 32

// Node is an immutable node of an expression tree. See package documentation for the node types.
//
// Nodes are created by the functions of this package (Const, Add, Reshape, etc.), and never change
// after creation. A node can be safely used as input to many other nodes. The only mutable state
// reachable from a node is the value of a variable, which lives in an Arena.
//
// Node.String prints a one-line description of the node. To see the full tree, use Dump.
type Node struct {
	shape shapes.Shape

	// inputNodes are the children of the node in the expression tree.
	inputNodes []*Node

	// inputs holds the parameters specific to the node type.
	inputs NodeInputs
}

// NodeInputs represents the parameters of a node. Each node type has its own implementation.
type NodeInputs interface {
	Type() NodeType

	// String prints a descriptive representation of the node, using its parameters.
	String() string
}

// newNode creates a node. The shape is cloned.
func newNode(shape shapes.Shape, inputs NodeInputs, inputNodes ...*Node) *Node {
	return &Node{
		shape:      shape.Clone(),
		inputNodes: inputNodes,
		inputs:     inputs,
	}
}

// nodeInputsConstant holds the tensor of a NodeTypeConstant node.
type nodeInputsConstant struct {
	tensor *tensors.Tensor
}

// Type implements the interface NodeInputs.
func (ni *nodeInputsConstant) Type() NodeType {
	return NodeTypeConstant
}

// String implements the interface NodeInputs.
func (ni *nodeInputsConstant) String() string {
	if ni.tensor.Size() > MinConstValueSizeToKeep {
		return fmt.Sprintf("%s(%s)", ni.Type(), ni.tensor.Shape())
	}
	return fmt.Sprintf("%s(%s)", ni.Type(), ni.tensor.GoStr())
}

// nodeInputsVariable holds the reference to the variable of a NodeTypeVariable node.
type nodeInputsVariable struct {
	variable *Variable
}

// Type implements the interface NodeInputs.
func (ni *nodeInputsVariable) Type() NodeType {
	return NodeTypeVariable
}

// String implements the interface NodeInputs.
func (ni *nodeInputsVariable) String() string {
	return fmt.Sprintf("%s(#%d)", ni.Type(), ni.variable.ID())
}

// nodeInputsReshape holds the parameters of a NodeTypeReshape node.
type nodeInputsReshape struct {
	x          *Node
	dimensions []int
}

// Type implements the interface NodeInputs.
func (ni *nodeInputsReshape) Type() NodeType {
	return NodeTypeReshape
}

// String implements the interface NodeInputs.
func (ni *nodeInputsReshape) String() string {
	return fmt.Sprintf("%s(x=%s, dimensions=%v)", ni.Type(), ni.x.shortString(), ni.dimensions)
}

// nodeInputsBinary holds the parameters of a NodeTypeBinary node.
type nodeInputsBinary struct {
	op       OpType
	lhs, rhs *Node
}

// Type implements the interface NodeInputs.
func (ni *nodeInputsBinary) Type() NodeType {
	return NodeTypeBinary
}

// String implements the interface NodeInputs.
func (ni *nodeInputsBinary) String() string {
	return fmt.Sprintf("%s(lhs=%s, rhs=%s)", ni.op, ni.lhs.shortString(), ni.rhs.shortString())
}

// nodeInputsScalar holds the parameters of a NodeTypeScalar node.
type nodeInputsScalar struct {
	op     OpType
	x      *Node
	scalar float32
}

// Type implements the interface NodeInputs.
func (ni *nodeInputsScalar) Type() NodeType {
	return NodeTypeScalar
}

// String implements the interface NodeInputs.
func (ni *nodeInputsScalar) String() string {
	return fmt.Sprintf("%sScalar(x=%s, scalar=%g)", ni.op, ni.x.shortString(), ni.scalar)
}

// Shape of the value the node represents.
//
// Binary and scalar operations have the shape of their (first) operand, a reshape has its new shape, and leaves the
// shape of their tensor or variable.
func (n *Node) Shape() shapes.Shape {
	if n == nil {
		return shapes.Shape{}
	}
	return n.shape
}

// Rank returns the rank of the node's shape.
func (n *Node) Rank() int {
	return n.Shape().Rank()
}

// Size returns the number of elements of the node's shape.
func (n *Node) Size() int {
	return n.Shape().Size()
}

// Inputs are the children of the node in the expression tree: empty for leaves (constants and variables),
// one node for reshapes and scalar operations and two nodes (lhs and rhs) for binary operations.
//
// The returned slice must not be modified.
func (n *Node) Inputs() []*Node {
	if n == nil {
		return nil
	}
	return n.inputNodes
}

// AssertValid panics if `n` is nil or in an invalid state.
func (n *Node) AssertValid() {
	if n == nil {
		exceptions.Panicf("expr.Node is nil")
	}
	if n.inputs == nil {
		exceptions.Panicf("expr.Node in an invalid state")
	}
}

// String implements the `fmt.Stringer` interface.
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	if n.inputs == nil {
		return "Invalid(?)"
	}
	return fmt.Sprintf("%s -> %s - mem: %s", n.inputs, n.shape, humanize.Bytes(uint64(n.shape.Memory())))
}

// shortString describes the node used as input to another one.
func (n *Node) shortString() string {
	switch n.Type() {
	case NodeTypeInvalid:
		return "Invalid(?)"
	case NodeTypeVariable, NodeTypeConstant:
		return n.inputs.String()
	case NodeTypeBinary, NodeTypeScalar:
		return fmt.Sprintf("%s%s", n.OpType(), n.Type())
	default:
		return n.Type().String()
	}
}

// label is used by Dump: node description with its shape.
func (n *Node) label() string {
	switch n.Type() {
	case NodeTypeInvalid:
		return "Invalid(?)"
	case NodeTypeReshape:
		return fmt.Sprintf("Reshape %s", n.shape)
	case NodeTypeBinary:
		return fmt.Sprintf("%s (%s) %s", n.OpType(), n.OpType().Symbol(), n.shape)
	case NodeTypeScalar:
		return fmt.Sprintf("%sScalar (%s %g) %s", n.OpType(), n.OpType().Symbol(), n.ScalarValue(), n.shape)
	default:
		return fmt.Sprintf("%s %s", n.inputs, n.shape)
	}
}

// reshapeDimensions returns the new dimensions of a NodeTypeReshape node.
func (n *Node) reshapeDimensions() []int {
	return slices.Clone(n.inputs.(*nodeInputsReshape).dimensions)
}
