package loss

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{MethodMSE, MethodCrossEntropy, MethodLOOL, MethodPseudoHuber, MethodLOOPH} {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMethod("mae")
	assert.Error(t, err)
}

func TestMethod_NeedsVariance(t *testing.T) {
	assert.True(t, MethodLOOL.NeedsVariance())
	assert.True(t, MethodLOOPH.NeedsVariance())
	assert.False(t, MethodMSE.NeedsVariance())
	assert.False(t, MethodCrossEntropy.NeedsVariance())
	assert.False(t, MethodPseudoHuber.NeedsVariance())
}

func TestObjective_MatchesDirectCalls(t *testing.T) {
	p := newTensor(t, []float64{0.1, 0.9, -0.3, 1.2}, 2, 2)
	tg := newTensor(t, []float64{0.0, 1.0, -0.5, 1.0}, 2, 2)
	v := newTensor(t, []float64{0.3, 0.5}, 2)
	s := newTensor(t, []float64{2, 0.7}, 2)
	opts := DefaultOptions()
	in := Inputs{Predictions: p, Targets: tg, Variances: v, SigmaSq: s}

	mse, _ := MSE(p, tg)
	ce, _ := CrossEntropy(p, tg, opts.Epsilon)
	ph, _ := PseudoHuber(p, tg, opts.BoundaryScale)
	lool, _ := LOOLScaled(p, tg, v, s)
	looph, _ := LOOPHScaled(p, tg, v, s, opts.BoundaryScale)

	want := map[Method]float64{
		MethodMSE:          mse,
		MethodCrossEntropy: ce,
		MethodPseudoHuber:  ph,
		MethodLOOL:         lool,
		MethodLOOPH:        looph,
	}
	for m, w := range want {
		t.Run(m.String(), func(t *testing.T) {
			fn, err := Objective(m, opts)
			require.NoError(t, err)
			got, err := fn(in)
			require.NoError(t, err)
			assert.Equal(t, w, got)
		})
	}
}

func TestObjective_UnitSigmaWhenOmitted(t *testing.T) {
	p := newTensor(t, []float64{0.1, 0.9, -0.3, 1.2}, 2, 2)
	tg := newTensor(t, []float64{0.0, 1.0, -0.5, 1.0}, 2, 2)
	v := newTensor(t, []float64{0.3, 0.5}, 2)
	ones := newTensor(t, []float64{1, 1}, 2)

	fn, err := Objective(MethodLOOL, DefaultOptions())
	require.NoError(t, err)
	got, err := fn(Inputs{Predictions: p, Targets: tg, Variances: v})
	require.NoError(t, err)

	want, err := LOOLScaled(p, tg, v, ones)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestObjective_MissingVariances(t *testing.T) {
	p := newTensor(t, []float64{1, 2}, 2, 1)

	for _, m := range []Method{MethodLOOL, MethodLOOPH} {
		fn, err := Objective(m, DefaultOptions())
		require.NoError(t, err)
		_, err = fn(Inputs{Predictions: p, Targets: p})
		assert.True(t, errors.Is(err, ErrMissingInput), "%v: %v", m, err)
	}
}

func TestObjective_UnknownMethod(t *testing.T) {
	_, err := Objective(Method(42), DefaultOptions())
	assert.Error(t, err)
}
