// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package solve provides the batched local linear-solve engine.
//
// # Overview
//
// Each batch element owns an independent nn×nn local system. The engine
// solves every system with an LU factorization (never an explicit inverse)
// and fans the batch out across goroutines.
//
//	eng := solve.New(solve.DefaultConfig())
//
//	// Direct prediction.
//	mean, err := eng.ComputeSolve(K, Kcross, neighborTargets)
//	variances, err := eng.ComputeDiagonalVariance(K, Kcross)
//
//	// Amortized prediction: solve once per training point...
//	coeffs, err := eng.FastPrecompute(Ktrain, trainTargets)
//	// ...then contract per query.
//	mean, err = solve.FastSolveUnivariate(KcrossTest, coeffsForQueries)
//
// # Numerical Errors
//
// A singular local kernel fails the whole call. The error wraps gonum's
// mat.Condition and names the failing batch element:
//
//	var cond mat.Condition
//	if errors.As(err, &cond) { ... }
package solve

import (
	"github.com/born-ml/localgp/internal/parallel"
	"github.com/born-ml/localgp/internal/solve"
	"github.com/born-ml/localgp/tensor"
)

// Engine runs batched local solves.
type Engine = solve.Engine

// Config controls an Engine.
type Config = solve.Config

// ParallelConfig controls fan-out across batch elements.
//
// Fields:
//
//	Enabled      bool // false runs every batch element on the caller's goroutine
//	NumWorkers   int  // goroutine count, defaults to runtime.NumCPU()
//	MinChunkSize int  // batches smaller than this run sequentially
type ParallelConfig = parallel.Config

// VariancePolicy selects how negative variances are reported.
type VariancePolicy = solve.VariancePolicy

// Negative-variance policies.
const (
	VarianceWarn   VariancePolicy = solve.VarianceWarn
	VarianceClamp  VariancePolicy = solve.VarianceClamp
	VarianceStrict VariancePolicy = solve.VarianceStrict
)

// ErrNegativeVariance is returned under VarianceStrict.
var ErrNegativeVariance = solve.ErrNegativeVariance

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return solve.DefaultConfig()
}

// New creates an Engine.
func New(cfg Config) *Engine {
	return solve.New(cfg)
}

// ParseVariancePolicy maps "warn", "clamp" or "strict" to a policy.
func ParseVariancePolicy(s string) (VariancePolicy, error) {
	return solve.ParseVariancePolicy(s)
}

// FastSolveUnivariate contracts Kcross (batch, nn) with precomputed
// coefficients (batch, nn, response).
func FastSolveUnivariate(Kcross, coeffs *tensor.Tensor) (*tensor.Tensor, error) {
	return solve.FastSolveUnivariate(Kcross, coeffs)
}

// FastSolveMultivariate contracts a per-response Kcross (batch, nn, response)
// with coefficients of the same shape over the neighbor axis.
func FastSolveMultivariate(Kcross, coeffs *tensor.Tensor) (*tensor.Tensor, error) {
	return solve.FastSolveMultivariate(Kcross, coeffs)
}
