package loss

import (
	"fmt"

	"github.com/born-ml/localgp/internal/tensor"
)

// Method names a loss objective for the optimizer driver.
type Method int

// Available objectives.
const (
	MethodMSE Method = iota
	MethodCrossEntropy
	MethodLOOL
	MethodPseudoHuber
	MethodLOOPH
)

var methodNames = map[Method]string{
	MethodMSE:          "mse",
	MethodCrossEntropy: "cross-entropy",
	MethodLOOL:         "lool",
	MethodPseudoHuber:  "pseudo-huber",
	MethodLOOPH:        "looph",
}

// String returns the method name.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a method name back to a Method.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("loss: unknown method %q", s)
}

// NeedsVariance reports whether the objective consumes predictive variances.
func (m Method) NeedsVariance() bool {
	return m == MethodLOOL || m == MethodLOOPH
}

// Options carries the tuning constants of the objectives.
type Options struct {
	Epsilon       float64 // Probability floor for cross-entropy.
	BoundaryScale float64 // δ for pseudo-Huber and LOOPH.
}

// DefaultOptions returns eps = 1e-15 and boundary scale 1.5.
func DefaultOptions() Options {
	return Options{
		Epsilon:       DefaultEpsilon,
		BoundaryScale: DefaultBoundaryScale,
	}
}

// Inputs bundles everything an objective may read.
//
// Variances has shape (batch,) and SigmaSq (response,). For variance-aware
// methods a nil SigmaSq means a unit output scale.
type Inputs struct {
	Predictions *tensor.Tensor
	Targets     *tensor.Tensor
	Variances   *tensor.Tensor
	SigmaSq     *tensor.Tensor
}

// Func evaluates one objective.
type Func func(in Inputs) (float64, error)

// Objective returns the evaluator for m.
func Objective(m Method, opts Options) (Func, error) {
	switch m {
	case MethodMSE:
		return func(in Inputs) (float64, error) {
			return MSE(in.Predictions, in.Targets)
		}, nil
	case MethodCrossEntropy:
		eps := opts.Epsilon
		return func(in Inputs) (float64, error) {
			return CrossEntropy(in.Predictions, in.Targets, eps)
		}, nil
	case MethodPseudoHuber:
		bs := opts.BoundaryScale
		return func(in Inputs) (float64, error) {
			return PseudoHuber(in.Predictions, in.Targets, bs)
		}, nil
	case MethodLOOL:
		return func(in Inputs) (float64, error) {
			scaled, err := in.scaledVariances()
			if err != nil {
				return 0, fmt.Errorf("LOOL: %w", err)
			}
			return LOOL(in.Predictions, in.Targets, scaled)
		}, nil
	case MethodLOOPH:
		bs := opts.BoundaryScale
		return func(in Inputs) (float64, error) {
			scaled, err := in.scaledVariances()
			if err != nil {
				return 0, fmt.Errorf("LOOPH: %w", err)
			}
			return LOOPH(in.Predictions, in.Targets, scaled, bs)
		}, nil
	default:
		return nil, fmt.Errorf("loss: unknown method %v", m)
	}
}

func (in Inputs) scaledVariances() (*tensor.Tensor, error) {
	if in.Variances == nil {
		return nil, fmt.Errorf("%w: variances", ErrMissingInput)
	}
	sigma := in.SigmaSq
	if sigma == nil {
		if err := tensor.ExpectRank("predictions", in.Predictions, 2); err != nil {
			return nil, err
		}
		var err error
		sigma, err = tensor.Full(tensor.Shape{in.Predictions.Dim(1)}, 1)
		if err != nil {
			return nil, err
		}
	}
	return ScaleVariance(in.Variances, sigma)
}
