package kernel

import (
	"fmt"
	"sort"

	"github.com/born-ml/localgp/internal/tensor"
)

// Key selects one specialized evaluator: which hyperparameters are fixed
// and, when nu is fixed, which form its value resolves to. Free nu always
// uses FormGeneric since its value changes between calls.
type Key struct {
	NuFixed          bool
	LengthScaleFixed bool
	Form             Form
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("{nu_fixed=%t length_scale_fixed=%t %v}", k.NuFixed, k.LengthScaleFixed, k.Form)
}

// evaluator applies a specialized kernel to dists given the free
// hyperparameter values in [nu, length_scale] order.
type evaluator func(dists *tensor.Tensor, free []float64) *tensor.Tensor

// builder captures the fixed hyperparameter values into an evaluator.
type builder func(nu, lengthScale float64) evaluator

// specializations is the full dispatch table: 2 entries with free nu plus
// 2 × 5 entries with fixed nu.
var specializations = buildSpecializations()

func buildSpecializations() map[Key]builder {
	table := map[Key]builder{
		{NuFixed: false, LengthScaleFixed: true, Form: FormGeneric}: func(_, ls float64) evaluator {
			return func(dists *tensor.Tensor, free []float64) *tensor.Tensor {
				return dists.Map(genericForm(free[0], ls))
			}
		},
		{NuFixed: false, LengthScaleFixed: false, Form: FormGeneric}: func(_, _ float64) evaluator {
			return func(dists *tensor.Tensor, free []float64) *tensor.Tensor {
				return dists.Map(genericForm(free[0], free[1]))
			}
		},
	}
	for _, form := range Forms() {
		mk := closedForms[form]
		table[Key{NuFixed: true, LengthScaleFixed: false, Form: form}] = func(nu, _ float64) evaluator {
			return func(dists *tensor.Tensor, free []float64) *tensor.Tensor {
				return dists.Map(mk(nu, free[0]))
			}
		}
		table[Key{NuFixed: true, LengthScaleFixed: true, Form: form}] = func(nu, ls float64) evaluator {
			fn := mk(nu, ls)
			return func(dists *tensor.Tensor, _ []float64) *tensor.Tensor {
				return dists.Map(fn)
			}
		}
	}
	return table
}

// Specializations enumerates every key in the dispatch table in a stable
// order.
func Specializations() []Key {
	keys := make([]Key, 0, len(specializations))
	for k := range specializations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.NuFixed != b.NuFixed {
			return !a.NuFixed
		}
		if a.LengthScaleFixed != b.LengthScaleFixed {
			return !a.LengthScaleFixed
		}
		return a.Form < b.Form
	})
	return keys
}

// OptFn is a kernel evaluator specialized for one fixed/free split and, for
// fixed nu, one evaluation form. Fixed hyperparameter values are captured
// when the OptFn is built; later changes to them are not observed.
//
// An OptFn holds no mutable state and is safe for concurrent use.
type OptFn struct {
	key  Key
	free []string
	eval evaluator
}

// GetOptFn resolves the specialization for the kernel's current fixed/free
// split and fixed values. Call it once per fit, outside the optimizer loop.
func (m *Matern) GetOptFn() *OptFn {
	key := Key{
		NuFixed:          m.nu.Fixed(),
		LengthScaleFixed: m.lengthScale.Fixed(),
		Form:             FormGeneric,
	}
	if key.NuFixed {
		key.Form = ResolveForm(m.nu.Value())
	}
	names, _, _ := m.GetOptimParams()
	return &OptFn{
		key:  key,
		free: names,
		eval: specializations[key](m.nu.Value(), m.lengthScale.Value()),
	}
}

// Key returns the table entry this function was resolved from.
func (f *OptFn) Key() Key {
	return f.key
}

// Free returns the names of the arguments the function expects, in
// [nu, length_scale] order.
func (f *OptFn) Free() []string {
	return append([]string(nil), f.free...)
}

// Call evaluates the kernel with the free hyperparameters passed by name.
// args must contain exactly the names reported by Free.
func (f *OptFn) Call(dists *tensor.Tensor, args map[string]float64) (*tensor.Tensor, error) {
	if len(args) != len(f.free) {
		for name := range args {
			if !f.accepts(name) {
				return nil, fmt.Errorf("OptFn.Call: %q: %w", name, ErrUnknownParam)
			}
		}
	}
	x := make([]float64, len(f.free))
	for i, name := range f.free {
		v, ok := args[name]
		if !ok {
			return nil, fmt.Errorf("OptFn.Call: %q: %w", name, ErrMissingParam)
		}
		x[i] = v
	}
	return f.CallVector(dists, x)
}

// CallVector evaluates the kernel with the free hyperparameters passed
// positionally in Free order.
func (f *OptFn) CallVector(dists *tensor.Tensor, x []float64) (*tensor.Tensor, error) {
	if len(x) != len(f.free) {
		return nil, fmt.Errorf("OptFn.CallVector: got %d values for %v: %w", len(x), f.free, ErrMissingParam)
	}
	for i, v := range x {
		if !(v > 0) {
			return nil, fmt.Errorf("OptFn.CallVector: %w: %s = %g", ErrInvalidParam, f.free[i], v)
		}
	}
	if err := checkDists(dists); err != nil {
		return nil, fmt.Errorf("OptFn.CallVector: %w", err)
	}
	return f.eval(dists, x), nil
}

func (f *OptFn) accepts(name string) bool {
	for _, n := range f.free {
		if n == name {
			return true
		}
	}
	return false
}
