// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors exchanged between the
// kernel, solve and loss packages.
//
// # Overview
//
// A Tensor is a row-major float64 array with an explicit Shape. The local GP
// core uses a fixed vocabulary of shapes:
//   - pairwise distances and K: (batch, nn, nn)
//   - crosswise distances and Kcross: (batch, nn)
//   - neighbor targets and coefficients: (batch, nn, response)
//   - predictions: (batch, response)
//   - variances: (batch,)
//
// # Basic Usage
//
//	import "github.com/born-ml/localgp/tensor"
//
//	func main() {
//	    dists, err := tensor.FromSlice([]float64{0, 1, 1, 0}, tensor.Shape{1, 2, 2})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(dists.At(0, 0, 1)) // 1
//	}
//
// # Shape Contracts
//
// Nothing is broadcast. Functions that combine tensors validate shapes up
// front and fail with ErrShapeMismatch or ErrRankMismatch, which callers
// match with errors.Is.
package tensor
