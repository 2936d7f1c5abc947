// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr_test

import (
	"math"
	"testing"

	. "github.com/gomlx/lazytensor/pkg/core/expr"
	"github.com/gomlx/lazytensor/pkg/core/expr/exprtest"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
	"github.com/gomlx/lazytensor/pkg/support/xslices"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestVariable creates a variable in a new arena, with value replicated in the given dimensions.
func newTestVariable(value float32, dimensions ...int) (*Node, *Variable) {
	node, _, v := NewArena().NewVariable(tensors.FromScalarAndDimensions(value, dimensions...))
	return node, v
}

func TestConcreteExamples(t *testing.T) {
	sum, err := Add(Const(2, 2, 2), Const(3, 2, 2))
	require.NoError(t, err)
	exprtest.RequireConstant(t, sum, []float32{5, 5, 5, 5}, 2, 2)

	zero := MulScalar(Const(2, 2, 2), 0)
	exprtest.RequireConstant(t, zero, []float32{0, 0, 0, 0}, 2, 2)

	neg, err := DivScalar(Const(2, 2, 2), -1)
	require.NoError(t, err)
	exprtest.RequireConstant(t, neg, []float32{-2, -2, -2, -2}, 2, 2)
}

func TestEagerEvaluation(t *testing.T) {
	a := MustFromFlat([]float32{1, 2, 3, 4}, 2, 2)
	b := MustFromFlat([]float32{10, 20, 30, 40}, 2, 2)

	testCases := []struct {
		name string
		fn   func(lhs, rhs *Node) (*Node, error)
		want []float32
	}{
		{"Add", Add, []float32{11, 22, 33, 44}},
		{"Sub", Sub, []float32{-9, -18, -27, -36}},
		{"Mul", Mul, []float32{10, 40, 90, 160}},
		{"Div", Div, []float32{0.1, 0.1, 0.1, 0.1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(a, b)
			require.NoError(t, err)
			require.Equal(t, NodeTypeConstant, got.Type())
			assert.Equal(t, []int{2, 2}, got.Shape().Dimensions)
			want, err := tensors.FromFlatDataAndDimensions(tc.want, 2, 2)
			require.NoError(t, err)
			assert.True(t, want.InDelta(got.ConstantValue(), 1e-6), "got %s", got.ConstantValue().GoStr())
		})
	}

	// Scalar versions.
	exprtest.RequireConstant(t, AddScalar(a, 1), []float32{2, 3, 4, 5}, 2, 2)
	exprtest.RequireConstant(t, SubScalar(a, 1), []float32{0, 1, 2, 3}, 2, 2)
	exprtest.RequireConstant(t, MulScalar(a, 2), []float32{2, 4, 6, 8}, 2, 2)
	exprtest.RequireConstant(t, MustDivScalar(a, 2), []float32{0.5, 1, 1.5, 2}, 2, 2)
	exprtest.RequireConstant(t, Neg(a), []float32{-1, -2, -3, -4}, 2, 2)

	// Operands are not modified.
	exprtest.RequireConstant(t, a, []float32{1, 2, 3, 4}, 2, 2)
}

func TestSumProperty(t *testing.T) {
	for _, dims := range [][]int{{}, {1}, {5}, {2, 3}, {2, 1, 4}} {
		size := 1
		for _, dim := range dims {
			size *= dim
		}
		aFlat := xslices.Iota(float32(-3), size)
		bFlat := xslices.Map(aFlat, func(v float32) float32 { return v * 0.5 })
		a, err := FromFlat(aFlat, dims...)
		require.NoError(t, err)
		b, err := FromFlat(bFlat, dims...)
		require.NoError(t, err)
		sum, err := Add(a, b)
		require.NoError(t, err)
		require.Equal(t, len(dims), sum.Rank())
		require.Equal(t, size, sum.Size())
		flat := sum.ConstantValue().Flat()
		for ii := range flat {
			assert.Equal(t, aFlat[ii]+bFlat[ii], flat[ii])
		}
	}
}

func TestIdentityLaws(t *testing.T) {
	zeros, ones, minusOnes := Const(0, 2, 2), Const(1, 2, 2), Const(-1, 2, 2)
	concrete := MustFromFlat([]float32{1, -2, 3, -4}, 2, 2)
	variable, _ := newTestVariable(3, 2, 2)

	for _, x := range []*Node{concrete, variable} {
		t.Run(x.Type().String(), func(t *testing.T) {
			assert.Same(t, x, MustAdd(x, zeros))
			assert.Same(t, x, MustAdd(zeros, x))
			assert.Same(t, x, AddScalar(x, 0))
			assert.Same(t, x, MustSub(x, zeros))
			assert.Same(t, x, SubScalar(x, 0))
			assert.Same(t, x, MustMul(x, ones))
			assert.Same(t, x, MustMul(ones, x))
			assert.Same(t, x, MulScalar(x, 1))
			assert.Same(t, x, MustDiv(x, ones))
			assert.Same(t, x, MustDivScalar(x, 1))

			// 0 - x == -x and x / -1 == -x.
			negX := Neg(x)
			assert.True(t, Equal(negX, MustSub(zeros, x)))
			assert.True(t, Equal(negX, MustDiv(x, minusOnes)))
			assert.True(t, Equal(negX, MustDivScalar(x, -1)))
			want := tensors.Scalar(func(a, _ float32) float32 { return -a }, exprtest.Evaluate(x), 0)
			exprtest.RequireValue(t, negX, want, 0)
		})
	}

	// Negation of a variable is deferred.
	negVar := Neg(variable)
	require.Equal(t, NodeTypeScalar, negVar.Type())
	assert.Equal(t, OpTypeMul, negVar.OpType())
	assert.Equal(t, float32(-1), negVar.ScalarValue())
	assert.Same(t, variable, negVar.Inputs()[0])
}

func TestAbsorbingZero(t *testing.T) {
	zeros := Const(0, 2, 3)
	variable, v := newTestVariable(7, 2, 3)
	deferred := AddScalar(variable, 1)

	for _, x := range []*Node{variable, deferred, Const(5, 2, 3)} {
		for _, got := range []*Node{MustMul(x, zeros), MustMul(zeros, x), MulScalar(x, 0)} {
			exprtest.RequireConstant(t, got, []float32{0, 0, 0, 0, 0, 0}, 2, 3)
			assert.Empty(t, Variables(got))
			assert.True(t, got.IsConstantExpression())
		}
	}

	// The result is not affected by later changes to the variable.
	got := MustMul(variable, zeros)
	require.NoError(t, v.SetValue(tensors.FromScalarAndDimensions(float32(math.NaN()), 2, 3)))
	exprtest.RequireConstant(t, got, []float32{0, 0, 0, 0, 0, 0}, 2, 3)

	// 0 / x returns the zero operand unchanged, for non-zero non-unit constants or unresolved x.
	assert.Same(t, zeros, MustDiv(zeros, Const(2, 2, 3)))
	assert.Same(t, zeros, MustDiv(zeros, variable))

	// Multiplying by ones has priority: ones * zeros returns the zeros operand.
	assert.Same(t, zeros, MustMul(Const(1, 2, 3), zeros))
}

func TestDivisionByZero(t *testing.T) {
	zeros := Const(0, 2, 2)
	variable, _ := newTestVariable(3, 2, 2)
	negZero := float32(math.Copysign(0, -1))
	for _, x := range []*Node{Const(1, 2, 2), zeros, variable, AddScalar(variable, 1)} {
		_, err := Div(x, zeros)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDivisionByZero), "Div(%s, zeros): %+v", x, err)

		_, err = Div(x, Const(negZero, 2, 2))
		assert.ErrorIs(t, err, ErrDivisionByZero)

		_, err = DivScalar(x, 0)
		assert.ErrorIs(t, err, ErrDivisionByZero)

		_, err = DivScalar(x, negZero)
		assert.ErrorIs(t, err, ErrDivisionByZero)
	}

	// A partially zero divisor is computed with floating point semantics.
	got := MustDiv(Const(1, 2), MustFromFlat([]float32{0, 2}, 2))
	flat := got.ConstantValue().Flat()
	assert.True(t, math.IsInf(float64(flat[0]), 1))
	assert.Equal(t, float32(0.5), flat[1])
}

func TestShapeMismatch(t *testing.T) {
	_, err := FromFlat([]float32{1, 2, 3}, 2, 2)
	require.ErrorIs(t, err, ErrShapeMismatch)

	variable, _ := newTestVariable(3, 2, 2)
	a, b := Const(1, 2, 2), Const(1, 4)
	for _, fn := range []func(lhs, rhs *Node) (*Node, error){Add, Sub, Mul, Div} {
		_, err = fn(a, b)
		assert.ErrorIs(t, err, ErrShapeMismatch)
		_, err = fn(variable, b)
		assert.ErrorIs(t, err, ErrShapeMismatch)
		_, err = fn(b, variable)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}

	// Shapes are checked before the shortcuts.
	_, err = Mul(variable, Const(0, 3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Div(variable, Const(0, 4))
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.NotErrorIs(t, err, ErrDivisionByZero)
	_, err = Add(Const(0, 2, 2), Const(0, 2, 2, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDeferred(t *testing.T) {
	variable, v := newTestVariable(3, 2, 2)
	c := MustFromFlat([]float32{1, 2, 3, 4}, 2, 2)

	testCases := []struct {
		name string
		fn   func(lhs, rhs *Node) (*Node, error)
		op   OpType
		want []float32
	}{
		{"Add", Add, OpTypeAdd, []float32{4, 5, 6, 7}},
		{"Sub", Sub, OpTypeSub, []float32{2, 1, 0, -1}},
		{"Mul", Mul, OpTypeMul, []float32{3, 6, 9, 12}},
		{"Div", Div, OpTypeDiv, []float32{3, 1.5, 1, 0.75}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(variable, c)
			require.NoError(t, err)
			require.Equal(t, NodeTypeBinary, got.Type())
			assert.Equal(t, tc.op, got.OpType())
			assert.Equal(t, []int{2, 2}, got.Shape().Dimensions)
			require.Len(t, got.Inputs(), 2)
			assert.Same(t, variable, got.Inputs()[0])
			assert.Same(t, c, got.Inputs()[1])
			assert.Nil(t, got.ConstantValue())
			assert.False(t, got.IsConstantExpression())
			want, err := tensors.FromFlatDataAndDimensions(tc.want, 2, 2)
			require.NoError(t, err)
			exprtest.RequireValue(t, got, want, 1e-6)
		})
	}

	// Scalar ops.
	for _, got := range []*Node{AddScalar(variable, 2), SubScalar(variable, 2), MulScalar(variable, 2),
		MustDivScalar(variable, 2)} {
		require.Equal(t, NodeTypeScalar, got.Type())
		assert.Equal(t, float32(2), got.ScalarValue())
		assert.Same(t, variable, got.Inputs()[0])
	}

	// Deferred nodes observe the variable's current value.
	sum := MustAdd(AddScalar(variable, 1), c)
	exprtest.RequireValue(t, sum, must.M1(tensors.FromFlatDataAndDimensions([]float32{5, 6, 7, 8}, 2, 2)), 0)
	require.NoError(t, v.SetValue(tensors.FromScalarAndDimensions(10, 2, 2)))
	exprtest.RequireValue(t, sum, must.M1(tensors.FromFlatDataAndDimensions([]float32{12, 13, 14, 15}, 2, 2)), 0)
	assert.Equal(t, 4, NumNodes(sum))
}

func TestReshape(t *testing.T) {
	x := MustFromFlat(xslices.Iota(float32(0), 6), 2, 3)
	{
		r1, err := Reshape(x, 3, 2)
		require.NoError(t, err)
		require.Equal(t, NodeTypeConstant, r1.Type())
		assert.Equal(t, []int{3, 2}, r1.Shape().Dimensions)
		r2, err := Reshape(r1, 2, 3)
		require.NoError(t, err)
		assert.True(t, x.ConstantValue().Equal(r2.ConstantValue()))
		assert.True(t, Equal(x, r2))

		scalar := MustReshape(Const(7, 1, 1))
		assert.True(t, scalar.Shape().IsScalar())
		assert.Equal(t, float32(7), scalar.ConstantValue().Value())
	}
	{
		_, err := Reshape(x, 4)
		require.ErrorIs(t, err, ErrShapeMismatch)
		_, err = Reshape(x, -2, -3)
		require.ErrorIs(t, err, ErrShapeMismatch)
	}
	{
		variable, _ := newTestVariable(1, 2, 3)
		r1, err := Reshape(variable, 6)
		require.NoError(t, err)
		require.Equal(t, NodeTypeReshape, r1.Type())
		assert.Equal(t, []int{6}, r1.Shape().Dimensions)
		assert.Equal(t, []int{6}, r1.ReshapeDimensions())
		assert.Same(t, variable, r1.Inputs()[0])

		// Reshapes are not collapsed.
		r2 := MustReshape(r1, 2, 3)
		require.Equal(t, NodeTypeReshape, r2.Type())
		assert.Same(t, r1, r2.Inputs()[0])
		exprtest.RequireValue(t, r2, tensors.FromScalarAndDimensions(1, 2, 3), 0)

		// Reshape is not pushed through arithmetic.
		r3 := MustReshape(AddScalar(variable, 1), 3, 2)
		require.Equal(t, NodeTypeReshape, r3.Type())
		assert.Equal(t, NodeTypeScalar, r3.Inputs()[0].Type())

		_, err = Reshape(variable, 5)
		require.ErrorIs(t, err, ErrShapeMismatch)
	}
}

func TestBuild(t *testing.T) {
	variable, _ := newTestVariable(2, 3)
	bias := MustFromFlat([]float32{1, 2, 3}, 3)

	n, err := Build(func() *Node {
		return MustDivScalar(MustMul(MustAdd(variable, bias), Const(3, 3)), 2)
	})
	require.NoError(t, err)
	exprtest.RequireValue(t, n, must.M1(tensors.FromFlatDataAndDimensions([]float32{4.5, 6, 7.5}, 3)), 0)

	_, err = Build(func() *Node {
		return MustDiv(MustAdd(variable, bias), Const(0, 3))
	})
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = Build(func() *Node {
		return MustAdd(variable, Const(0, 4))
	})
	require.ErrorIs(t, err, ErrShapeMismatch)

	// Programming errors are also converted.
	_, err = Build(func() *Node {
		return AddScalar(nil, 1)
	})
	require.Error(t, err)
	require.Panics(t, func() { _, _ = Add(nil, bias) })

	exprtest.RunTestBuildFn(t, "Build", func() *Node {
		return MustSub(Const(0, 3), MustAdd(variable, bias))
	}, must.M1(tensors.FromFlatDataAndDimensions([]float32{-3, -4, -5}, 3)), 0)
}
