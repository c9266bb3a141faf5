// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package kernel provides the Matérn kernel functor and its specialized
// evaluators for hyperparameter optimization.
//
// # Overview
//
// Evaluate is shape-preserving: pairwise distances (batch, nn, nn) map to K
// and crosswise distances (batch, nn) map to Kcross. The smoothness nu picks
// one of five forms:
//   - 0.5, 1.5, 2.5: closed-form exponential-polynomial kernels
//   - +Inf: the Gaussian (RBF) limit
//   - anything else: the generic Bessel formula
//
// # Optimizer Loop
//
//	nu := hyper.Fixed("nu", 2.5)
//	ls, _ := hyper.New("length_scale", 1, hyper.Bounds{Low: 0.01, High: 100})
//	m, _ := kernel.NewMatern(nu, ls)
//
//	names, values, bounds := m.GetOptimParams() // ["length_scale"], [1], ...
//	fn := m.GetOptFn()                          // resolved once
//	for _, x := range candidates {
//	    K, err := fn.CallVector(pairwise, x)
//	    ...
//	}
//	_ = m.SetOptimParams(names, best)
package kernel

import (
	"github.com/born-ml/localgp/hyper"
	"github.com/born-ml/localgp/internal/kernel"
)

// Matern is the Matérn kernel functor over two hyperparameters.
type Matern = kernel.Matern

// OptFn is a kernel evaluator specialized once for the optimizer loop.
type OptFn = kernel.OptFn

// Key identifies one entry of the specialization table.
type Key = kernel.Key

// Form is the evaluation form selected by nu.
type Form = kernel.Form

// Evaluation forms.
const (
	FormExponential Form = kernel.FormExponential
	FormMatern32    Form = kernel.FormMatern32
	FormMatern52    Form = kernel.FormMatern52
	FormGaussian    Form = kernel.FormGaussian
	FormGeneric     Form = kernel.FormGeneric
)

// Hyperparameter names in optimizer-vector order.
const (
	NuName          = kernel.NuName
	LengthScaleName = kernel.LengthScaleName
)

// Configuration errors.
var (
	ErrInvalidParam = kernel.ErrInvalidParam
	ErrUnknownParam = kernel.ErrUnknownParam
	ErrMissingParam = kernel.ErrMissingParam
)

// NewMatern builds a Matérn kernel from its smoothness and length scale.
func NewMatern(nu, lengthScale *hyper.Hyperparameter) (*Matern, error) {
	return kernel.NewMatern(nu, lengthScale)
}

// ResolveForm returns the form used for smoothness nu.
func ResolveForm(nu float64) Form {
	return kernel.ResolveForm(nu)
}

// Specializations lists every key of the specialization table.
func Specializations() []Key {
	return kernel.Specializations()
}
