package solve

import (
	"fmt"

	"github.com/born-ml/localgp/internal/parallel"
	"go.uber.org/zap"
)

// VariancePolicy selects how ComputeDiagonalVariance reports negative
// variances, which arise only from ill-conditioned local kernels.
type VariancePolicy int

// Negative-variance policies.
const (
	// VarianceWarn logs a warning and returns the values unchanged.
	VarianceWarn VariancePolicy = iota
	// VarianceClamp logs a warning and raises negative values to VarianceFloor.
	VarianceClamp
	// VarianceStrict returns ErrNegativeVariance.
	VarianceStrict
)

// String returns the policy name.
func (p VariancePolicy) String() string {
	switch p {
	case VarianceWarn:
		return "warn"
	case VarianceClamp:
		return "clamp"
	case VarianceStrict:
		return "strict"
	default:
		return fmt.Sprintf("VariancePolicy(%d)", int(p))
	}
}

// ParseVariancePolicy maps a policy name back to a VariancePolicy.
func ParseVariancePolicy(s string) (VariancePolicy, error) {
	switch s {
	case "warn":
		return VarianceWarn, nil
	case "clamp":
		return VarianceClamp, nil
	case "strict":
		return VarianceStrict, nil
	default:
		return 0, fmt.Errorf("solve: unknown variance policy %q", s)
	}
}

// Config controls an Engine.
type Config struct {
	Parallel       parallel.Config // Fan-out across batch elements.
	Logger         *zap.Logger     // Receives negative-variance warnings. Nil disables logging.
	VariancePolicy VariancePolicy  // Handling of negative variances.
	VarianceFloor  float64         // Replacement value under VarianceClamp.
}

// DefaultConfig returns a Config that parallelizes across CPUs, warns on
// negative variances and logs nowhere.
func DefaultConfig() Config {
	return Config{
		Parallel:       parallel.DefaultConfig(),
		Logger:         zap.NewNop(),
		VariancePolicy: VarianceWarn,
		VarianceFloor:  1e-12,
	}
}
