// Package tensor provides the dense float64 tensors exchanged between the
// kernel functor, the local solve engine and the loss objectives.
//
// Layout is row-major. The leading dimension is always the batch axis:
//
//	pairwise distances / K:   (batch, nn, nn)
//	crosswise distances / Kcross: (batch, nn) or (batch, nn, response)
//	neighbor targets:         (batch, nn, response)
//	predictions:              (batch, response)
//	variances:                (batch,)
//
// Shapes are never broadcast implicitly. Operations that combine tensors
// validate shapes up front and fail with ErrShapeMismatch or ErrRankMismatch.
package tensor

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match with errors.Is.
var (
	// ErrBadShape is returned when a requested shape has a non-positive dimension.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrShapeMismatch is returned when two tensors that must agree do not.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrRankMismatch is returned when a tensor has an unexpected number of dimensions.
	ErrRankMismatch = errors.New("tensor: rank mismatch")

	// ErrDataLength is returned when a backing slice does not match the shape.
	ErrDataLength = errors.New("tensor: data length does not match shape")

	// ErrNil is returned when a nil tensor is passed where one is required.
	ErrNil = errors.New("tensor: nil tensor")
)

// Tensor is a dense row-major float64 array.
//
// A Tensor owns its data. Operations in this module never mutate their
// inputs; they allocate fresh outputs.
type Tensor struct {
	shape  Shape
	stride []int
	data   []float64
}

// New allocates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   make([]float64, shape.NumElements()),
	}, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, got %d",
			ErrDataLength, shape, shape.NumElements(), len(data))
	}
	t := &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   make([]float64, len(data)),
	}
	copy(t.data, data)
	return t, nil
}

// Full creates a tensor with every element set to v.
func Full(shape Shape, v float64) (*Tensor, error) {
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = v
	}
	return t, nil
}

// Shape returns the tensor's shape. The caller must not modify it.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int {
	return t.shape[i]
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the flat row-major backing slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// At returns the element at the given multi-index.
// Panics if the index has the wrong arity or is out of range.
func (t *Tensor) At(idx ...int) float64 {
	return t.data[t.offset(idx)]
}

// Set assigns v at the given multi-index.
// Panics if the index has the wrong arity or is out of range.
func (t *Tensor) Set(v float64, idx ...int) {
	t.data[t.offset(idx)] = v
}

// Batch returns a zero-copy view of the i-th slice along the leading axis.
func (t *Tensor) Batch(i int) []float64 {
	n := t.stride[0]
	return t.data[i*n : (i+1)*n]
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		data:   make([]float64, len(t.data)),
	}
	copy(out.data, t.data)
	return out
}

// Map returns a new tensor of the same shape with f applied element-wise.
func (t *Tensor) Map(f func(float64) float64) *Tensor {
	out := &Tensor{
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		data:   make([]float64, len(t.data)),
	}
	for i, v := range t.data {
		out.data[i] = f(v)
	}
	return out
}

// String implements fmt.Stringer with a compact summary.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v", t.shape)
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index arity %d for rank %d", len(idx), len(t.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d of size %d", v, i, t.shape[i]))
		}
		off += v * t.stride[i]
	}
	return off
}
