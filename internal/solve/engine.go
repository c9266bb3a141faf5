// Package solve implements the batched local linear-solve engine.
//
// Every operation works on batch_count independent nn_count×nn_count local
// systems. Systems are solved with an LU factorization (gonum/mat), never by
// forming an explicit inverse, and are dispatched across goroutines with no
// shared mutable state.
//
// Shapes:
//
//	K            (batch, nn, nn)
//	Kcross       (batch, nn)           or (batch, nn, response) for the multivariate fast path
//	targets      (batch, nn, response)
//	coefficients (batch, nn, response)
//	predictions  (batch, response)
//	variances    (batch,)
package solve

import (
	"errors"
	"fmt"

	"github.com/born-ml/localgp/internal/parallel"
	"github.com/born-ml/localgp/internal/tensor"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNegativeVariance is returned under VarianceStrict when a computed
// variance is negative.
var ErrNegativeVariance = errors.New("solve: negative variance")

// Engine runs batched local solves.
//
// A singular or ill-conditioned K_i fails the whole call with the
// mat.Condition error from the LU solve, wrapped with the batch index.
// Nothing is retried.
//
// Example:
//
//	eng := solve.New(solve.DefaultConfig())
//	pred, err := eng.ComputeSolve(K, Kcross, targets)
//	variances, err := eng.ComputeDiagonalVariance(K, Kcross)
type Engine struct {
	cfg Config
	log *zap.Logger
}

// New creates an Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg: cfg,
		log: logger.Named("solve"),
	}
}

// ComputeSolve returns the predictive means Kcross_i · K_i⁻¹ · targets_i
// with shape (batch, response).
func (e *Engine) ComputeSolve(K, Kcross, targets *tensor.Tensor) (*tensor.Tensor, error) {
	const op = "ComputeSolve"

	batch, nn, err := checkLocal(K)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tensor.ExpectShape("Kcross", Kcross, tensor.Shape{batch, nn}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkTargets(targets, batch, nn); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	x, err := e.solveBatch(op, K, targets)
	if err != nil {
		return nil, err
	}
	return contract(Kcross, x), nil
}

// ComputeDiagonalVariance returns 1 − Kcross_iᵀ · K_i⁻¹ · Kcross_i for every
// batch element, shape (batch,).
//
// Negative results are handled according to Config.VariancePolicy.
func (e *Engine) ComputeDiagonalVariance(K, Kcross *tensor.Tensor) (*tensor.Tensor, error) {
	const op = "ComputeDiagonalVariance"

	batch, nn, err := checkLocal(K)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tensor.ExpectShape("Kcross", Kcross, tensor.Shape{batch, nn}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Kcross viewed as (batch, nn, 1) right-hand sides.
	rhs, err := tensor.FromSlice(Kcross.Data(), tensor.Shape{batch, nn, 1})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	x, err := e.solveBatch(op, K, rhs)
	if err != nil {
		return nil, err
	}

	out, err := tensor.New(tensor.Shape{batch})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	v := out.Data()
	for i := 0; i < batch; i++ {
		v[i] = 1 - floats.Dot(Kcross.Batch(i), x.Batch(i))
	}
	if err := e.checkVariances(op, v); err != nil {
		return nil, err
	}
	return out, nil
}

// FastPrecompute solves every training point's local system once against its
// own neighborhood targets and returns the coefficient tensor
// (train, nn, response). Later predictions need only FastSolveUnivariate or
// FastSolveMultivariate, with no further solves.
func (e *Engine) FastPrecompute(Ktrain, trainTargets *tensor.Tensor) (*tensor.Tensor, error) {
	const op = "FastPrecompute"

	batch, nn, err := checkLocal(Ktrain)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkTargets(trainTargets, batch, nn); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e.solveBatch(op, Ktrain, trainTargets)
}

// AnalyticSigmaSq returns the closed-form output scale per response,
//
//	sigma_sq_k = Σ_i targets_iₖᵀ · K_i⁻¹ · targets_iₖ / (batch · nn),
//
// with shape (response,).
func (e *Engine) AnalyticSigmaSq(K, targets *tensor.Tensor) (*tensor.Tensor, error) {
	const op = "AnalyticSigmaSq"

	batch, nn, err := checkLocal(K)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkTargets(targets, batch, nn); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	x, err := e.solveBatch(op, K, targets)
	if err != nil {
		return nil, err
	}

	response := targets.Dim(2)
	out, err := tensor.New(tensor.Shape{response})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sigma := out.Data()
	y, sol := targets.Data(), x.Data()
	for i := range y {
		sigma[i%response] += y[i] * sol[i]
	}
	floats.Scale(1/float64(batch*nn), sigma)
	return out, nil
}

// solveBatch solves K_i · X_i = rhs_i for every batch element. rhs has shape
// (batch, nn, m); the result has the same shape.
func (e *Engine) solveBatch(op string, K, rhs *tensor.Tensor) (*tensor.Tensor, error) {
	batch, nn := K.Dim(0), K.Dim(1)
	cols := rhs.Dim(2)

	out, err := tensor.New(rhs.Shape())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = parallel.ForErr(batch, func(i int) error {
		a := mat.NewDense(nn, nn, K.Batch(i))
		b := mat.NewDense(nn, cols, rhs.Batch(i))
		dst := mat.NewDense(nn, cols, out.Batch(i))
		if err := dst.Solve(a, b); err != nil {
			return fmt.Errorf("%s: batch %d: %w", op, i, err)
		}
		return nil
	}, e.cfg.Parallel)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) checkVariances(op string, v []float64) error {
	count := 0
	lowest := 0.0
	for _, x := range v {
		if x < 0 {
			count++
			lowest = min(lowest, x)
		}
	}
	if count == 0 {
		return nil
	}
	if e.cfg.VariancePolicy == VarianceStrict {
		return fmt.Errorf("%s: %w: %d of %d values, min %g", op, ErrNegativeVariance, count, len(v), lowest)
	}

	e.log.Warn("negative variance from ill-conditioned local kernel",
		zap.String("op", op),
		zap.Int("count", count),
		zap.Int("batch", len(v)),
		zap.Float64("min", lowest),
		zap.Stringer("policy", e.cfg.VariancePolicy),
	)
	if e.cfg.VariancePolicy == VarianceClamp {
		for i, x := range v {
			if x < 0 {
				v[i] = e.cfg.VarianceFloor
			}
		}
	}
	return nil
}

// checkLocal validates K as (batch, nn, nn) and returns batch and nn.
func checkLocal(K *tensor.Tensor) (batch, nn int, err error) {
	if err := tensor.ExpectRank("K", K, 3); err != nil {
		return 0, 0, err
	}
	if K.Dim(1) != K.Dim(2) {
		return 0, 0, fmt.Errorf("K: %w: local kernels must be square, got %v", tensor.ErrShapeMismatch, K.Shape())
	}
	return K.Dim(0), K.Dim(1), nil
}

// checkTargets validates targets as (batch, nn, response).
func checkTargets(targets *tensor.Tensor, batch, nn int) error {
	if err := tensor.ExpectRank("targets", targets, 3); err != nil {
		return err
	}
	if targets.Dim(0) != batch || targets.Dim(1) != nn {
		return fmt.Errorf("targets: %w: expected (%d, %d, response), got %v",
			tensor.ErrShapeMismatch, batch, nn, targets.Shape())
	}
	return nil
}
