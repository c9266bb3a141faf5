package kernel

import (
	"fmt"
	"math"
)

// Form identifies which Matérn evaluation path a smoothness value selects.
type Form int

// Matérn evaluation forms. The first four are closed forms for special
// smoothness values; FormGeneric uses the Bessel-function definition.
const (
	FormExponential Form = iota // nu = 0.5
	FormMatern32                // nu = 1.5
	FormMatern52                // nu = 2.5
	FormGaussian                // nu = +Inf
	FormGeneric                 // any other nu > 0
	formCount
)

// Forms lists every Form in declaration order.
func Forms() []Form {
	return []Form{FormExponential, FormMatern32, FormMatern52, FormGaussian, FormGeneric}
}

// String returns the form name.
func (f Form) String() string {
	switch f {
	case FormExponential:
		return "matern05"
	case FormMatern32:
		return "matern15"
	case FormMatern52:
		return "matern25"
	case FormGaussian:
		return "matern_inf"
	case FormGeneric:
		return "matern_generic"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// ResolveForm maps a smoothness value onto its evaluation form.
// Matching is exact: only the literal values 0.5, 1.5, 2.5 and +Inf select
// a closed form.
func ResolveForm(nu float64) Form {
	switch {
	case nu == 0.5:
		return FormExponential
	case nu == 1.5:
		return FormMatern32
	case nu == 2.5:
		return FormMatern52
	case math.IsInf(nu, 1):
		return FormGaussian
	default:
		return FormGeneric
	}
}

// pointFn maps one distance to one covariance value.
type pointFn func(d float64) float64

// closedForms builds the per-element function for each Form given
// hyperparameter values. Closed forms ignore nu.
var closedForms = [formCount]func(nu, lengthScale float64) pointFn{
	FormExponential: func(_, ls float64) pointFn {
		return func(d float64) float64 {
			return math.Exp(-d / ls)
		}
	},
	FormMatern32: func(_, ls float64) pointFn {
		s := math.Sqrt(3) / ls
		return func(d float64) float64 {
			c := s * d
			return (1 + c) * math.Exp(-c)
		}
	},
	FormMatern52: func(_, ls float64) pointFn {
		s := math.Sqrt(5) / ls
		return func(d float64) float64 {
			c := s * d
			return (1 + c + c*c/3) * math.Exp(-c)
		}
	},
	FormGaussian: func(_, ls float64) pointFn {
		s := 1 / (2 * ls * ls)
		return func(d float64) float64 {
			return math.Exp(-d * d * s)
		}
	},
	FormGeneric: genericForm,
}

// genericForm evaluates
//
//	k(d) = 2^(1-ν)/Γ(ν) · z^ν · Kν(z),  z = √(2ν)·d/ℓ
//
// in log space. d = 0 returns exactly 1, the limit of the expression.
func genericForm(nu, ls float64) pointFn {
	scale := math.Sqrt(2*nu) / ls
	lg, _ := math.Lgamma(nu)
	logCoef := (1-nu)*math.Ln2 - lg
	return func(d float64) float64 {
		if d == 0 {
			return 1
		}
		z := scale * d
		if math.IsInf(z, 1) {
			return 0
		}
		v := math.Exp(logCoef + nu*math.Log(z) + math.Log(besselKScaled(nu, z)) - z)
		// Rounding can push tiny distances a hair above the d = 0 limit.
		return math.Min(v, 1)
	}
}

// formFn returns the element function for the form nu resolves to.
func formFn(nu, lengthScale float64) pointFn {
	return closedForms[ResolveForm(nu)](nu, lengthScale)
}
