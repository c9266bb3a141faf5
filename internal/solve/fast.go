package solve

import (
	"fmt"

	"github.com/born-ml/localgp/internal/tensor"
)

// FastSolveUnivariate predicts from precomputed coefficients by contracting
// over the neighbor axis:
//
//	(batch, nn) × (batch, nn, response) → (batch, response)
func FastSolveUnivariate(Kcross, coeffs *tensor.Tensor) (*tensor.Tensor, error) {
	const op = "FastSolveUnivariate"

	if err := tensor.ExpectRank("coefficients", coeffs, 3); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	batch, nn := coeffs.Dim(0), coeffs.Dim(1)
	if err := tensor.ExpectShape("Kcross", Kcross, tensor.Shape{batch, nn}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return contract(Kcross, coeffs), nil
}

// FastSolveMultivariate predicts when every response has its own
// cross-covariance row. The product is element-wise and summed over the
// neighbor axis only:
//
//	(batch, nn, response) × (batch, nn, response) → (batch, response)
//
// With response == 1 it agrees with FastSolveUnivariate.
func FastSolveMultivariate(Kcross, coeffs *tensor.Tensor) (*tensor.Tensor, error) {
	const op = "FastSolveMultivariate"

	if err := tensor.ExpectRank("coefficients", coeffs, 3); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tensor.SameShape("Kcross", Kcross, "coefficients", coeffs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	batch, nn, response := coeffs.Dim(0), coeffs.Dim(1), coeffs.Dim(2)
	out, err := tensor.New(tensor.Shape{batch, response})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := 0; i < batch; i++ {
		kc, c, o := Kcross.Batch(i), coeffs.Batch(i), out.Batch(i)
		for j := 0; j < nn; j++ {
			row := j * response
			for k := 0; k < response; k++ {
				o[k] += kc[row+k] * c[row+k]
			}
		}
	}
	return out, nil
}

// contract computes out[i, k] = Σ_j Kcross[i, j] · coeffs[i, j, k].
// Shapes must already be validated.
func contract(Kcross, coeffs *tensor.Tensor) *tensor.Tensor {
	batch, nn, response := coeffs.Dim(0), coeffs.Dim(1), coeffs.Dim(2)
	out, _ := tensor.New(tensor.Shape{batch, response})
	for i := 0; i < batch; i++ {
		kc, c, o := Kcross.Batch(i), coeffs.Batch(i), out.Batch(i)
		for j := 0; j < nn; j++ {
			w := kc[j]
			row := c[j*response : (j+1)*response]
			for k, v := range row {
				o[k] += w * v
			}
		}
	}
	return out
}
