// Package loss implements the cross-validation objectives used to calibrate
// kernel hyperparameters.
//
// Every objective is a pure reduction over (batch, response) tensors: inputs
// are never modified and results depend on values only through smooth
// arithmetic, so an outer optimizer may differentiate them. Shapes must match
// exactly; nothing is broadcast implicitly.
//
// Variance-aware objectives (LOOL, LOOPH) take an already-scaled variance
// tensor of shape (batch, response). ScaleVariance is the single place where
// per-point variances are combined with the per-response output scale.
package loss

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/localgp/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// Defaults taken by DefaultOptions.
const (
	DefaultEpsilon       = 1e-15
	DefaultBoundaryScale = 1.5
)

// ErrMissingInput is returned when an objective needs an input that was not
// supplied.
var ErrMissingInput = errors.New("loss: missing input")

// checkPair validates predictions and targets as matching (batch, response)
// tensors.
func checkPair(predictions, targets *tensor.Tensor) error {
	if err := tensor.ExpectRank("predictions", predictions, 2); err != nil {
		return err
	}
	return tensor.SameShape("predictions", predictions, "targets", targets)
}

// CrossEntropy returns the summed (not averaged) log-loss of row-wise softmax
// probabilities against binarized targets. Targets > 0 count as 1, all
// others as 0. Probabilities are clipped to [eps, 1-eps] and renormalized
// per row before taking logs.
func CrossEntropy(predictions, targets *tensor.Tensor, eps float64) (float64, error) {
	if err := checkPair(predictions, targets); err != nil {
		return 0, fmt.Errorf("CrossEntropy: %w", err)
	}

	batch, response := predictions.Dim(0), predictions.Dim(1)
	probs := make([]float64, response)
	total := 0.0
	for i := 0; i < batch; i++ {
		softmaxInto(probs, predictions.Batch(i))
		for k, p := range probs {
			probs[k] = math.Min(math.Max(p, eps), 1-eps)
		}
		floats.Scale(1/floats.Sum(probs), probs)

		t := targets.Batch(i)
		for k, p := range probs {
			if t[k] > 0 {
				total -= math.Log(p)
			}
		}
	}
	return total, nil
}

// softmaxInto writes softmax(z) into dst using the max-shift for stability.
func softmaxInto(dst, z []float64) {
	maxZ := floats.Max(z)
	for i, v := range z {
		dst[i] = math.Exp(v - maxZ)
	}
	floats.Scale(1/floats.Sum(dst), dst)
}

// MSEUnnormalized returns Σ (predictions - targets)².
func MSEUnnormalized(predictions, targets *tensor.Tensor) (float64, error) {
	if err := checkPair(predictions, targets); err != nil {
		return 0, fmt.Errorf("MSEUnnormalized: %w", err)
	}
	return sumSquaredError(predictions.Data(), targets.Data()), nil
}

// MSE returns the mean squared error over batch × response elements.
func MSE(predictions, targets *tensor.Tensor) (float64, error) {
	if err := checkPair(predictions, targets); err != nil {
		return 0, fmt.Errorf("MSE: %w", err)
	}
	return sumSquaredError(predictions.Data(), targets.Data()) / float64(predictions.NumElements()), nil
}

func sumSquaredError(p, t []float64) float64 {
	sum := 0.0
	for i := range p {
		d := p[i] - t[i]
		sum += d * d
	}
	return sum
}

// ScaleVariance forms the outer product of per-point variances (batch,) and
// per-response output scales (response,), giving (batch, response).
func ScaleVariance(variances, sigmaSq *tensor.Tensor) (*tensor.Tensor, error) {
	if err := tensor.ExpectRank("variances", variances, 1); err != nil {
		return nil, fmt.Errorf("ScaleVariance: %w", err)
	}
	if err := tensor.ExpectRank("sigma_sq", sigmaSq, 1); err != nil {
		return nil, fmt.Errorf("ScaleVariance: %w", err)
	}

	v, s := variances.Data(), sigmaSq.Data()
	out, err := tensor.New(tensor.Shape{len(v), len(s)})
	if err != nil {
		return nil, fmt.Errorf("ScaleVariance: %w", err)
	}
	for i, vi := range v {
		row := out.Batch(i)
		for k, sk := range s {
			row[k] = vi * sk
		}
	}
	return out, nil
}

// LOOL returns the leave-one-out likelihood objective
//
//	Σ (predictions - targets)² / variances + log(variances)
//
// over scaled variances of shape (batch, response). This is the negative
// Gaussian log predictive density up to constants.
func LOOL(predictions, targets, scaledVariances *tensor.Tensor) (float64, error) {
	if err := checkScaled(predictions, targets, scaledVariances); err != nil {
		return 0, fmt.Errorf("LOOL: %w", err)
	}

	p, t, v := predictions.Data(), targets.Data(), scaledVariances.Data()
	sum := 0.0
	for i := range p {
		d := p[i] - t[i]
		sum += d*d/v[i] + math.Log(v[i])
	}
	return sum, nil
}

// LOOLScaled scales variances by sigmaSq with ScaleVariance and evaluates LOOL.
func LOOLScaled(predictions, targets, variances, sigmaSq *tensor.Tensor) (float64, error) {
	scaled, err := ScaleVariance(variances, sigmaSq)
	if err != nil {
		return 0, fmt.Errorf("LOOL: %w", err)
	}
	return LOOL(predictions, targets, scaled)
}

// PseudoHuber returns
//
//	δ² · Σ (sqrt(1 + ((targets - predictions)/δ)²) - 1),   δ = boundaryScale,
//
// which behaves like half the squared error for residuals much smaller than
// δ and grows linearly, with slope δ, for residuals much larger than δ.
func PseudoHuber(predictions, targets *tensor.Tensor, boundaryScale float64) (float64, error) {
	if err := checkPair(predictions, targets); err != nil {
		return 0, fmt.Errorf("PseudoHuber: %w", err)
	}

	p, t := predictions.Data(), targets.Data()
	sum := 0.0
	for i := range p {
		r := (t[i] - p[i]) / boundaryScale
		sum += math.Sqrt(1+r*r) - 1
	}
	return boundaryScale * boundaryScale * sum, nil
}

// LOOPH returns the robust leave-one-out objective: the pseudo-Huber
// transform of the variance-scaled residual plus the log-variance term,
//
//	Σ δ²·sqrt(1 + ((targets - predictions)/(variances·δ))²) - δ² + log(variances).
func LOOPH(predictions, targets, scaledVariances *tensor.Tensor, boundaryScale float64) (float64, error) {
	if err := checkScaled(predictions, targets, scaledVariances); err != nil {
		return 0, fmt.Errorf("LOOPH: %w", err)
	}

	p, t, v := predictions.Data(), targets.Data(), scaledVariances.Data()
	bsq := boundaryScale * boundaryScale
	sum := 0.0
	for i := range p {
		r := (t[i] - p[i]) / (v[i] * boundaryScale)
		sum += bsq*math.Sqrt(1+r*r) - bsq + math.Log(v[i])
	}
	return sum, nil
}

// LOOPHScaled scales variances by sigmaSq with ScaleVariance and evaluates LOOPH.
func LOOPHScaled(predictions, targets, variances, sigmaSq *tensor.Tensor, boundaryScale float64) (float64, error) {
	scaled, err := ScaleVariance(variances, sigmaSq)
	if err != nil {
		return 0, fmt.Errorf("LOOPH: %w", err)
	}
	return LOOPH(predictions, targets, scaled, boundaryScale)
}

func checkScaled(predictions, targets, scaledVariances *tensor.Tensor) error {
	if err := checkPair(predictions, targets); err != nil {
		return err
	}
	return tensor.SameShape("predictions", predictions, "variances", scaledVariances)
}
