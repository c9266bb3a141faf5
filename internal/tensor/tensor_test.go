package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	require.NoError(t, Shape{2, 3}.Validate())

	err := Shape{2, 0}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadShape))
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, "(2, 3, 4)", Shape{2, 3, 4}.String())
}

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)

	assert.Equal(t, 2, x.Rank())
	assert.Equal(t, 3, x.Dim(1))
	assert.Equal(t, 6.0, x.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, x.Batch(1))

	_, err = FromSlice([]float64{1, 2, 3}, Shape{2, 3})
	assert.True(t, errors.Is(err, ErrDataLength))
}

func TestFromSlice_Copies(t *testing.T) {
	src := []float64{1, 2}
	x, err := FromSlice(src, Shape{2})
	require.NoError(t, err)

	src[0] = 100
	assert.Equal(t, 1.0, x.At(0))
}

func TestTensor_SetAndClone(t *testing.T) {
	x, err := New(Shape{2, 2})
	require.NoError(t, err)

	x.Set(3, 1, 0)
	y := x.Clone()
	y.Set(7, 1, 0)

	assert.Equal(t, 3.0, x.At(1, 0))
	assert.Equal(t, 7.0, y.At(1, 0))
}

func TestTensor_AtPanicsOutOfRange(t *testing.T) {
	x, err := New(Shape{2, 2})
	require.NoError(t, err)

	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })
}

func TestTensor_MapPreservesShape(t *testing.T) {
	x, err := FromSlice([]float64{1, 2, 3, 4}, Shape{1, 2, 2})
	require.NoError(t, err)

	y := x.Map(func(v float64) float64 { return v * 2 })

	assert.True(t, y.Shape().Equal(x.Shape()))
	assert.Equal(t, []float64{2, 4, 6, 8}, y.Data())
	assert.Equal(t, []float64{1, 2, 3, 4}, x.Data(), "input must not be mutated")
}

func TestIdentity(t *testing.T) {
	eye, err := Identity(2, 3)
	require.NoError(t, err)

	for b := 0; b < 2; b++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := 0.0
				if i == j {
					want = 1
				}
				assert.Equal(t, want, eye.At(b, i, j))
			}
		}
	}
}

func TestRepeat(t *testing.T) {
	x, err := Repeat([]float64{5, 7, 9}, Shape{3, 1}, 2)
	require.NoError(t, err)

	assert.True(t, x.Shape().Equal(Shape{2, 3, 1}))
	assert.Equal(t, 9.0, x.At(1, 2, 0))
}

func TestChecks(t *testing.T) {
	x, err := New(Shape{2, 3})
	require.NoError(t, err)
	y, err := New(Shape{3, 2})
	require.NoError(t, err)

	require.NoError(t, ExpectRank("x", x, 2))
	assert.True(t, errors.Is(ExpectRank("x", x, 3), ErrRankMismatch))
	assert.True(t, errors.Is(ExpectRank("x", nil, 3), ErrNil))

	require.NoError(t, ExpectShape("x", x, Shape{2, 3}))
	assert.True(t, errors.Is(ExpectShape("x", x, Shape{3, 2}), ErrShapeMismatch))

	require.NoError(t, SameShape("x", x, "x", x))
	assert.True(t, errors.Is(SameShape("x", x, "y", y), ErrShapeMismatch))
}
