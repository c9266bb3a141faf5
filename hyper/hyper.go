// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hyper provides scalar model hyperparameters with optional bounds.
//
// A Hyperparameter is either fixed (its bounds are inert and it cannot be
// set or sampled) or tunable within a closed interval [Low, High]. Values
// outside the bounds are rejected, never clamped.
//
// Example:
//
//	ls, err := hyper.New("length_scale", 1.0, hyper.Bounds{Low: 0.1, High: 10})
//	if err != nil {
//	    return err
//	}
//	nu := hyper.Fixed("nu", 1.5)
//
//	// The optimizer driver writes candidates between evaluations.
//	if err := ls.Set(2.5); err != nil {
//	    return err
//	}
package hyper

import (
	"math/rand/v2"

	"github.com/born-ml/localgp/internal/hyper"
)

// Hyperparameter is a scalar model parameter, fixed or bounded.
type Hyperparameter = hyper.Hyperparameter

// Bounds is a closed interval [Low, High] with Low < High.
type Bounds = hyper.Bounds

// Distribution tags how Sample draws candidates within Bounds.
type Distribution = hyper.Distribution

// Sampling distributions.
const (
	Uniform    Distribution = hyper.Uniform
	LogUniform Distribution = hyper.LogUniform
)

// Configuration errors.
var (
	ErrFixed         = hyper.ErrFixed
	ErrInvalidBounds = hyper.ErrInvalidBounds
	ErrOutOfBounds   = hyper.ErrOutOfBounds
)

// Fixed returns a hyperparameter pinned to value.
func Fixed(name string, value float64) *Hyperparameter {
	return hyper.Fixed(name, value)
}

// New returns a tunable hyperparameter with the given initial value.
func New(name string, value float64, bounds Bounds) (*Hyperparameter, error) {
	return hyper.New(name, value, bounds)
}

// NewSampled returns a tunable hyperparameter initialised by drawing from
// dist within bounds. A nil src uses the global random source.
func NewSampled(name string, bounds Bounds, dist Distribution, src rand.Source) (*Hyperparameter, error) {
	return hyper.NewSampled(name, bounds, dist, src)
}

// ParseDistribution maps "sample" / "log_sample" to a Distribution.
func ParseDistribution(s string) (Distribution, error) {
	return hyper.ParseDistribution(s)
}
