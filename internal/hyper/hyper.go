// Package hyper implements scalar kernel hyperparameters.
//
// A Hyperparameter is either fixed (its value never changes and it exposes no
// bounds) or tunable within strict (low, high) bounds. Tunable parameters are
// mutated only by the optimizer driver, between objective evaluations.
package hyper

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sentinel configuration errors. Match with errors.Is.
var (
	// ErrFixed is returned when bounds, sampling or mutation is requested on a
	// fixed hyperparameter.
	ErrFixed = errors.New("hyper: hyperparameter is fixed")

	// ErrInvalidBounds is returned when bounds are not strictly increasing, are
	// NaN, or are incompatible with the requested distribution.
	ErrInvalidBounds = errors.New("hyper: invalid bounds")

	// ErrOutOfBounds is returned when a value falls outside declared bounds.
	ErrOutOfBounds = errors.New("hyper: value out of bounds")
)

// Bounds is a closed interval [Low, High] with Low < High.
type Bounds struct {
	Low  float64
	High float64
}

// Validate checks Low < High and that neither end is NaN.
func (b Bounds) Validate() error {
	if math.IsNaN(b.Low) || math.IsNaN(b.High) || b.Low >= b.High {
		return fmt.Errorf("%w: (%g, %g)", ErrInvalidBounds, b.Low, b.High)
	}
	return nil
}

// Contains reports whether v lies in [Low, High].
func (b Bounds) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// Distribution tags how candidate values are drawn within bounds.
type Distribution int

// Supported sampling distributions.
const (
	Uniform    Distribution = iota // "sample": uniform on [Low, High]
	LogUniform                     // "log_sample": uniform on [log Low, log High]
)

// String returns the tag name.
func (d Distribution) String() string {
	switch d {
	case Uniform:
		return "sample"
	case LogUniform:
		return "log_sample"
	default:
		return "unknown"
	}
}

// ParseDistribution maps a tag name back to a Distribution.
func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "sample", "uniform":
		return Uniform, nil
	case "log_sample", "log-uniform":
		return LogUniform, nil
	default:
		return 0, fmt.Errorf("hyper: unknown distribution %q", s)
	}
}

// Hyperparameter is a named scalar model parameter.
//
// Example:
//
//	nu := hyper.Fixed("nu", 2.5)
//	ls, err := hyper.New("length_scale", 1.0, hyper.Bounds{Low: 0.1, High: 10})
type Hyperparameter struct {
	name  string
	value float64
	fixed bool
	bnds  Bounds
	dist  Distribution
}

// Fixed creates a hyperparameter that is excluded from optimization.
func Fixed(name string, value float64) *Hyperparameter {
	return &Hyperparameter{
		name:  name,
		value: value,
		fixed: true,
	}
}

// New creates a tunable hyperparameter with an initial value inside bounds.
func New(name string, value float64, bounds Bounds) (*Hyperparameter, error) {
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if !bounds.Contains(value) {
		return nil, fmt.Errorf("%s: %w: %g not in [%g, %g]", name, ErrOutOfBounds, value, bounds.Low, bounds.High)
	}
	return &Hyperparameter{
		name:  name,
		value: value,
		bnds:  bounds,
		dist:  Uniform,
	}, nil
}

// NewSampled creates a tunable hyperparameter whose initial value is drawn
// from dist within bounds. A nil src uses the global random source.
func NewSampled(name string, bounds Bounds, dist Distribution, src rand.Source) (*Hyperparameter, error) {
	h := &Hyperparameter{
		name: name,
		bnds: bounds,
		dist: dist,
	}
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	v, err := h.Sample(src)
	if err != nil {
		return nil, err
	}
	h.value = v
	return h, nil
}

// Name returns the parameter name.
func (h *Hyperparameter) Name() string {
	return h.name
}

// Value returns the current value.
func (h *Hyperparameter) Value() float64 {
	return h.value
}

// Fixed reports whether the parameter is excluded from optimization.
func (h *Hyperparameter) Fixed() bool {
	return h.fixed
}

// Distribution returns the sampling distribution tag.
func (h *Hyperparameter) Distribution() Distribution {
	return h.dist
}

// Bounds returns the optimization bounds.
// Returns ErrFixed for a fixed parameter.
func (h *Hyperparameter) Bounds() (Bounds, error) {
	if h.fixed {
		return Bounds{}, fmt.Errorf("%s: %w", h.name, ErrFixed)
	}
	return h.bnds, nil
}

// Set assigns a new value. Values outside bounds are rejected, not clamped.
// Returns ErrFixed for a fixed parameter.
func (h *Hyperparameter) Set(v float64) error {
	if h.fixed {
		return fmt.Errorf("%s: %w", h.name, ErrFixed)
	}
	if !h.bnds.Contains(v) {
		return fmt.Errorf("%s: %w: %g not in [%g, %g]", h.name, ErrOutOfBounds, v, h.bnds.Low, h.bnds.High)
	}
	h.value = v
	return nil
}

// Sample draws a candidate value within bounds without modifying the
// parameter. A nil src uses the global random source.
// Returns ErrFixed for a fixed parameter.
func (h *Hyperparameter) Sample(src rand.Source) (float64, error) {
	if h.fixed {
		return 0, fmt.Errorf("%s: %w", h.name, ErrFixed)
	}
	lo, hi := h.bnds.Low, h.bnds.High
	switch h.dist {
	case LogUniform:
		if lo <= 0 {
			return 0, fmt.Errorf("%s: %w: log sampling needs Low > 0, got %g", h.name, ErrInvalidBounds, lo)
		}
		u := distuv.Uniform{Min: math.Log(lo), Max: math.Log(hi), Src: src}
		// exp(log(hi)) can round past hi.
		return math.Min(math.Max(math.Exp(u.Rand()), lo), hi), nil
	default:
		u := distuv.Uniform{Min: lo, Max: hi, Src: src}
		return u.Rand(), nil
	}
}

// String implements fmt.Stringer.
func (h *Hyperparameter) String() string {
	if h.fixed {
		return fmt.Sprintf("%s=%g (fixed)", h.name, h.value)
	}
	return fmt.Sprintf("%s=%g [%g, %g]", h.name, h.value, h.bnds.Low, h.bnds.High)
}
