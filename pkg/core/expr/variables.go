// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensor/pkg/core/shapes"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// VariableID identifies a variable. IDs are unique within the process, across all arenas,
// and are never reused.
type VariableID uint32

// nextVariableID is the process-wide counter of variable ids.
var nextVariableID atomic.Uint32

// newVariableID returns a fresh variable id. It is safe to call concurrently.
func newVariableID() VariableID {
	return VariableID(nextVariableID.Add(1) - 1)
}

// Arena holds the current values of variables, one slot per VariableID.
//
// Every node referencing a variable, and every Variable handle, reads its value from the arena, so an
// update through any handle is observed by all of them. Slot reads and writes are protected by one lock;
// the tensors stored are immutable, so a value returned by Variable.Value is never changed afterward,
// a later SetValue only replaces what is in the slot.
type Arena struct {
	id uuid.UUID

	mu    sync.RWMutex
	slots map[VariableID]*tensors.Tensor
}

// NewArena creates a new empty arena of variables.
func NewArena() *Arena {
	return &Arena{
		id:    uuid.New(),
		slots: make(map[VariableID]*tensors.Tensor),
	}
}

var defaultArena = sync.OnceValue(NewArena)

// DefaultArena returns the arena used by the package-level NewVariable.
func DefaultArena() *Arena {
	return defaultArena()
}

// ID returns the unique identifier of the arena, used in debug output.
func (a *Arena) ID() uuid.UUID {
	return a.id
}

// NumVariables returns the number of variables allocated in the arena.
func (a *Arena) NumVariables() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.slots)
}

// Memory returns the number of bytes used by the current values of all variables in the arena.
func (a *Arena) Memory() uintptr {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var total uintptr
	for _, value := range a.slots {
		total += value.Memory()
	}
	return total
}

// String implements fmt.Stringer.
func (a *Arena) String() string {
	if a == nil {
		return "Arena(nil)"
	}
	return fmt.Sprintf("Arena(%s, %d variables, %s)", a.id, a.NumVariables(), humanize.Bytes(uint64(a.Memory())))
}

// NewVariable allocates a new variable in the arena, initialized with the given value.
//
// It returns a NodeTypeVariable node referencing the variable, the new variable id, and a Variable handle
// that can be used to read or update the value. The value is not copied: tensors are immutable.
//
// It panics if initial is nil.
func (a *Arena) NewVariable(initial *tensors.Tensor) (*Node, VariableID, *Variable) {
	if initial == nil {
		exceptions.Panicf("Arena.NewVariable(nil): initial value must be a valid tensor")
	}
	id := newVariableID()
	a.mu.Lock()
	a.slots[id] = initial
	a.mu.Unlock()

	v := &Variable{arena: a, id: id, shape: initial.Shape().Clone()}
	klog.V(1).Infof("expr: new variable #%d %s in arena %s", id, v.shape, a.id)
	node := newNode(v.shape, &nodeInputsVariable{variable: v})
	return node, id, v
}

// NewVariable allocates a new variable in the DefaultArena. See Arena.NewVariable.
func NewVariable(initial *tensors.Tensor) (*Node, VariableID, *Variable) {
	return DefaultArena().NewVariable(initial)
}

// Lookup returns a handle to the variable with the given id, if it exists in the arena.
func (a *Arena) Lookup(id VariableID) (*Variable, bool) {
	a.mu.RLock()
	value, found := a.slots[id]
	a.mu.RUnlock()
	if !found {
		return nil, false
	}
	return &Variable{arena: a, id: id, shape: value.Shape().Clone()}, true
}

// Variable is a handle to a variable's value in an Arena.
//
// All handles and nodes of the same variable share the same value: SetValue through any of them
// is visible to all others.
type Variable struct {
	arena *Arena
	id    VariableID
	shape shapes.Shape
}

// ID of the variable.
func (v *Variable) ID() VariableID {
	return v.id
}

// Shape of the variable. It never changes.
func (v *Variable) Shape() shapes.Shape {
	return v.shape
}

// Arena where the variable value is stored.
func (v *Variable) Arena() *Arena {
	return v.arena
}

// Value returns the current value of the variable.
func (v *Variable) Value() *tensors.Tensor {
	v.arena.mu.RLock()
	defer v.arena.mu.RUnlock()
	return v.arena.slots[v.id]
}

// SetValue replaces the value of the variable. All nodes referencing the variable will observe the new value.
//
// It returns an error wrapping ErrShapeMismatch if the value's shape differs from the variable's shape:
// nodes already built on the variable rely on it.
func (v *Variable) SetValue(value *tensors.Tensor) error {
	if value == nil {
		return errors.Errorf("Variable(#%d).SetValue(nil): value must be a valid tensor", v.id)
	}
	if !value.Shape().Equal(v.shape) {
		klog.Warningf("expr: rejected value of shape %s for variable #%d of shape %s", value.Shape(), v.id, v.shape)
		return errors.Wrapf(ErrShapeMismatch, "Variable(#%d).SetValue: variable has shape %s, value has shape %s",
			v.id, v.shape, value.Shape())
	}
	v.arena.mu.Lock()
	v.arena.slots[v.id] = value
	v.arena.mu.Unlock()
	klog.V(1).Infof("expr: variable #%d updated", v.id)
	return nil
}

// String implements fmt.Stringer.
func (v *Variable) String() string {
	if v == nil {
		return "Variable(nil)"
	}
	return fmt.Sprintf("Variable(#%d, %s)", v.id, v.shape)
}
