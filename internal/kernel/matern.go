// Package kernel implements the Matérn kernel functor.
//
// A Matern maps distance tensors to covariance tensors of the same shape:
// pairwise distances (batch, nn, nn) become local kernel matrices K and
// crosswise distances (batch, nn) become cross-covariances Kcross.
//
// The smoothness nu selects the evaluation form (see Form). For optimizer
// loops, GetOptFn resolves the form and the fixed/free split once and returns
// an OptFn that takes only the free hyperparameters at call time.
//
// Example:
//
//	ls, _ := hyper.New("length_scale", 1.0, hyper.Bounds{Low: 0.1, High: 10})
//	m, _ := kernel.NewMatern(hyper.Fixed("nu", 1.5), ls)
//	K, _ := m.Evaluate(pairwiseDists)
//	Kcross, _ := m.Evaluate(crosswiseDists)
package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/localgp/internal/hyper"
	"github.com/born-ml/localgp/internal/tensor"
)

// Hyperparameter names, in the order the optimizer vector uses.
const (
	NuName          = "nu"
	LengthScaleName = "length_scale"
)

// Configuration errors. Match with errors.Is.
var (
	// ErrInvalidParam is returned when nu or length_scale is not positive.
	ErrInvalidParam = errors.New("kernel: hyperparameter must be positive")

	// ErrUnknownParam is returned when a name is not a free hyperparameter.
	ErrUnknownParam = errors.New("kernel: unknown or fixed hyperparameter")

	// ErrMissingParam is returned when a free hyperparameter is not supplied.
	ErrMissingParam = errors.New("kernel: missing hyperparameter")
)

// Matern is the Matérn kernel functor with smoothness nu and length scale.
//
// Matern owns its two hyperparameters. The optimizer driver is the single
// writer: it mutates them through SetOptimParams between evaluations, never
// while an Evaluate or OptFn call is in flight.
type Matern struct {
	nu          *hyper.Hyperparameter
	lengthScale *hyper.Hyperparameter
}

// NewMatern creates a Matérn kernel. Fixed values must be positive (nu may be
// +Inf); tunable bounds must have a positive lower end.
func NewMatern(nu, lengthScale *hyper.Hyperparameter) (*Matern, error) {
	if nu == nil || lengthScale == nil {
		return nil, fmt.Errorf("NewMatern: %w: nil hyperparameter", ErrInvalidParam)
	}
	if err := checkPositive(NuName, nu); err != nil {
		return nil, fmt.Errorf("NewMatern: %w", err)
	}
	if err := checkPositive(LengthScaleName, lengthScale); err != nil {
		return nil, fmt.Errorf("NewMatern: %w", err)
	}
	if math.IsInf(lengthScale.Value(), 0) {
		return nil, fmt.Errorf("NewMatern: %w: %s is infinite", ErrInvalidParam, LengthScaleName)
	}
	return &Matern{nu: nu, lengthScale: lengthScale}, nil
}

func checkPositive(name string, h *hyper.Hyperparameter) error {
	if !(h.Value() > 0) {
		return fmt.Errorf("%w: %s = %g", ErrInvalidParam, name, h.Value())
	}
	if b, err := h.Bounds(); err == nil && !(b.Low > 0) {
		return fmt.Errorf("%w: %s lower bound %g", ErrInvalidParam, name, b.Low)
	}
	return nil
}

// Nu returns the smoothness hyperparameter.
func (m *Matern) Nu() *hyper.Hyperparameter {
	return m.nu
}

// LengthScale returns the length-scale hyperparameter.
func (m *Matern) LengthScale() *hyper.Hyperparameter {
	return m.lengthScale
}

// Evaluate maps a distance tensor to a covariance tensor of the same shape.
//
// Accepts crosswise (batch, nn), pairwise (batch, nn, nn) and per-response
// crosswise (batch, nn, response) distances. The input is not modified.
func (m *Matern) Evaluate(dists *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkDists(dists); err != nil {
		return nil, fmt.Errorf("Matern.Evaluate: %w", err)
	}
	return dists.Map(formFn(m.nu.Value(), m.lengthScale.Value())), nil
}

func checkDists(dists *tensor.Tensor) error {
	if dists == nil {
		return fmt.Errorf("dists: %w", tensor.ErrNil)
	}
	if r := dists.Rank(); r != 2 && r != 3 {
		return fmt.Errorf("dists: %w: expected 2D or 3D, got %dD %v", tensor.ErrRankMismatch, r, dists.Shape())
	}
	return nil
}

// GetOptimParams reports the free hyperparameters as parallel lists of
// names, current values and bounds, in the fixed order [nu, length_scale].
func (m *Matern) GetOptimParams() (names []string, values []float64, bounds []hyper.Bounds) {
	for _, p := range m.ordered() {
		if p.h.Fixed() {
			continue
		}
		b, _ := p.h.Bounds()
		names = append(names, p.name)
		values = append(values, p.h.Value())
		bounds = append(bounds, b)
	}
	return names, values, bounds
}

// SetOptimParams writes a flat optimizer vector back onto the free
// hyperparameters. names and values are parallel, typically the names from
// GetOptimParams. Either every value is applied or none is.
func (m *Matern) SetOptimParams(names []string, values []float64) error {
	if len(names) != len(values) {
		return fmt.Errorf("Matern.SetOptimParams: %d names for %d values: %w", len(names), len(values), ErrMissingParam)
	}
	targets := make([]*hyper.Hyperparameter, len(names))
	for i, name := range names {
		h := m.lookup(name)
		if h == nil || h.Fixed() {
			return fmt.Errorf("Matern.SetOptimParams: %q: %w", name, ErrUnknownParam)
		}
		b, _ := h.Bounds()
		if !b.Contains(values[i]) {
			return fmt.Errorf("Matern.SetOptimParams: %q = %g: %w", name, values[i], hyper.ErrOutOfBounds)
		}
		targets[i] = h
	}
	for i, h := range targets {
		if err := h.Set(values[i]); err != nil {
			return fmt.Errorf("Matern.SetOptimParams: %w", err)
		}
	}
	return nil
}

type namedParam struct {
	name string
	h    *hyper.Hyperparameter
}

func (m *Matern) ordered() [2]namedParam {
	return [2]namedParam{{NuName, m.nu}, {LengthScaleName, m.lengthScale}}
}

func (m *Matern) lookup(name string) *hyper.Hyperparameter {
	switch name {
	case NuName:
		return m.nu
	case LengthScaleName:
		return m.lengthScale
	default:
		return nil
	}
}

// String implements fmt.Stringer.
func (m *Matern) String() string {
	return fmt.Sprintf("Matern(%v, %v)", m.nu, m.lengthScale)
}
