// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
)

var (
	dumpEnumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).MarginRight(1)
	dumpRootStyle       = lipgloss.NewStyle().Bold(true)
	dumpVariableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	tableBorderColor  = "63"
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
)

// Dump returns a multi-line rendering of the expression tree rooted at n, one node per line.
//
// The format is meant for humans and may change. Colors follow lipgloss' color profile, see
// lipgloss.SetColorProfile.
func Dump(n *Node) string {
	n.AssertValid()
	return dumpTree(n).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(dumpEnumeratorStyle).
		RootStyle(dumpRootStyle).
		String()
}

func dumpTree(n *Node) *tree.Tree {
	label := n.label()
	if n.Type() == NodeTypeVariable {
		label = dumpVariableStyle.Render(label)
	}
	t := tree.Root(label)
	for _, input := range n.inputNodes {
		if len(input.inputNodes) == 0 {
			t.Child(leafLabel(input))
		} else {
			t.Child(dumpTree(input))
		}
	}
	return t
}

func leafLabel(n *Node) string {
	if n.Type() == NodeTypeVariable {
		return dumpVariableStyle.Render(n.label())
	}
	return n.label()
}

// Summary returns a table with the variables of the arena: their ids, shapes and current values.
// Values with more than MinConstValueSizeToKeep elements only show their memory usage.
func (a *Arena) Summary() string {
	a.mu.RLock()
	ids := make([]VariableID, 0, len(a.slots))
	values := make(map[VariableID]*tensors.Tensor, len(a.slots))
	for id, value := range a.slots {
		ids = append(ids, id)
		values[id] = value
	}
	a.mu.RUnlock()
	slices.Sort(ids)

	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return rightAlignedStyle
			}
			return normalStyle
		}).
		Headers("Variable", "Shape", "Value")
	for _, id := range ids {
		value := values[id]
		valueStr := value.GoStr()
		if value.Size() > MinConstValueSizeToKeep {
			valueStr = value.MemoryString()
		}
		table.Row(fmt.Sprintf("#%d", id), value.Shape().String(), valueStr)
	}
	return table.String()
}
