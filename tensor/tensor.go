// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/localgp/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dense row-major float64 tensor.
//
// Methods:
//
//	Shape() Shape
//	Rank() int
//	Dim(i int) int
//	Data() []float64                 // backing slice, row-major
//	At(idx ...int) float64
//	Set(v float64, idx ...int)
//	Batch(i int) []float64           // zero-copy view of one leading-axis slice
//	Clone() *Tensor
//	Map(f func(float64) float64) *Tensor
type Tensor = tensor.Tensor

// Errors returned by shape validation.
var (
	ErrBadShape      = tensor.ErrBadShape
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrRankMismatch  = tensor.ErrRankMismatch
	ErrDataLength    = tensor.ErrDataLength
	ErrNil           = tensor.ErrNil
)

// New returns a zero-filled tensor of the given shape.
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// FromSlice copies data into a new tensor of the given shape.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Full returns a tensor of the given shape with every element set to v.
func Full(shape Shape, v float64) (*Tensor, error) {
	return tensor.Full(shape, v)
}

// Identity returns batch stacked n×n identity matrices, shape (batch, n, n).
func Identity(batch, n int) (*Tensor, error) {
	return tensor.Identity(batch, n)
}

// Repeat stacks count copies of row, interpreted with the given shape.
func Repeat(row []float64, shape Shape, count int) (*Tensor, error) {
	return tensor.Repeat(row, shape, count)
}
