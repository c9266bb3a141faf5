// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loss provides the cross-validation objectives used to calibrate
// kernel hyperparameters.
//
// # Overview
//
// Every objective reduces (batch, response) predictions and targets to one
// scalar and never modifies its inputs:
//   - CrossEntropy: summed log-loss of row-wise softmax against binarized targets
//   - MSE, MSEUnnormalized: mean / sum of squared error
//   - PseudoHuber: smooth robust loss with boundary scale δ
//   - LOOL, LOOPH: leave-one-out likelihood and its robust variant
//
// LOOL and LOOPH take variances already scaled to (batch, response). Use
// ScaleVariance, or the LOOLScaled / LOOPHScaled wrappers, to combine
// per-point variances with per-response sigma_sq.
//
// # Choosing an Objective
//
//	m, _ := loss.ParseMethod("lool")
//	obj, _ := loss.Objective(m, loss.DefaultOptions())
//	value, err := obj(loss.Inputs{
//	    Predictions: mean,
//	    Targets:     targets,
//	    Variances:   variances,
//	    SigmaSq:     sigmaSq,
//	})
package loss

import (
	"github.com/born-ml/localgp/internal/loss"
	"github.com/born-ml/localgp/tensor"
)

// Defaults used by DefaultOptions.
const (
	DefaultEpsilon       = loss.DefaultEpsilon
	DefaultBoundaryScale = loss.DefaultBoundaryScale
)

// ErrMissingInput is returned when an objective needs an absent input.
var ErrMissingInput = loss.ErrMissingInput

// Method names an objective.
type Method = loss.Method

// Available objectives.
const (
	MethodMSE          Method = loss.MethodMSE
	MethodCrossEntropy Method = loss.MethodCrossEntropy
	MethodLOOL         Method = loss.MethodLOOL
	MethodPseudoHuber  Method = loss.MethodPseudoHuber
	MethodLOOPH        Method = loss.MethodLOOPH
)

// Options carries objective tuning constants.
type Options = loss.Options

// Inputs bundles the tensors an objective may read.
type Inputs = loss.Inputs

// Func evaluates one objective.
type Func = loss.Func

// DefaultOptions returns eps = 1e-15 and boundary scale 1.5.
func DefaultOptions() Options { return loss.DefaultOptions() }

// ParseMethod maps a method name to a Method.
func ParseMethod(s string) (Method, error) { return loss.ParseMethod(s) }

// Objective returns the evaluator for m.
func Objective(m Method, opts Options) (Func, error) { return loss.Objective(m, opts) }

// CrossEntropy returns the summed softmax log-loss with probability floor eps.
func CrossEntropy(predictions, targets *tensor.Tensor, eps float64) (float64, error) {
	return loss.CrossEntropy(predictions, targets, eps)
}

// MSE returns the mean squared error.
func MSE(predictions, targets *tensor.Tensor) (float64, error) {
	return loss.MSE(predictions, targets)
}

// MSEUnnormalized returns the summed squared error.
func MSEUnnormalized(predictions, targets *tensor.Tensor) (float64, error) {
	return loss.MSEUnnormalized(predictions, targets)
}

// PseudoHuber returns the pseudo-Huber loss with boundary scale δ.
func PseudoHuber(predictions, targets *tensor.Tensor, boundaryScale float64) (float64, error) {
	return loss.PseudoHuber(predictions, targets, boundaryScale)
}

// ScaleVariance returns the outer product of variances and sigmaSq.
func ScaleVariance(variances, sigmaSq *tensor.Tensor) (*tensor.Tensor, error) {
	return loss.ScaleVariance(variances, sigmaSq)
}

// LOOL returns the leave-one-out likelihood over scaled variances.
func LOOL(predictions, targets, scaledVariances *tensor.Tensor) (float64, error) {
	return loss.LOOL(predictions, targets, scaledVariances)
}

// LOOLScaled scales variances by sigmaSq and returns LOOL.
func LOOLScaled(predictions, targets, variances, sigmaSq *tensor.Tensor) (float64, error) {
	return loss.LOOLScaled(predictions, targets, variances, sigmaSq)
}

// LOOPH returns the robust leave-one-out objective over scaled variances.
func LOOPH(predictions, targets, scaledVariances *tensor.Tensor, boundaryScale float64) (float64, error) {
	return loss.LOOPH(predictions, targets, scaledVariances, boundaryScale)
}

// LOOPHScaled scales variances by sigmaSq and returns LOOPH.
func LOOPHScaled(predictions, targets, variances, sigmaSq *tensor.Tensor, boundaryScale float64) (float64, error) {
	return loss.LOOPHScaled(predictions, targets, variances, sigmaSq, boundaryScale)
}
