package loss

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/localgp/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTensor(t *testing.T, data []float64, shape ...int) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return x
}

func offset(t *testing.T, x *tensor.Tensor, delta float64) *tensor.Tensor {
	t.Helper()
	return x.Map(func(v float64) float64 { return v + delta })
}

func TestMSE(t *testing.T) {
	p := newTensor(t, []float64{1, -2, 3.5, 0, 4, 9}, 3, 2)

	got, err := MSE(p, p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	for _, delta := range []float64{0.5, -3, 1e-3} {
		got, err := MSE(offset(t, p, delta), p)
		require.NoError(t, err)
		assert.InDelta(t, delta*delta, got, 1e-12, "delta=%g", delta)
	}
}

func TestMSEUnnormalized(t *testing.T) {
	p := newTensor(t, []float64{1, 2, 3, 4}, 2, 2)
	q := newTensor(t, []float64{0, 2, 5, 4}, 2, 2)

	got, err := MSEUnnormalized(p, q)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)

	mean, err := MSE(p, q)
	require.NoError(t, err)
	assert.Equal(t, 5.0/4, mean)
}

func TestShapeMismatchFailsFast(t *testing.T) {
	p := newTensor(t, []float64{1, 2, 3, 4}, 2, 2)
	q := newTensor(t, []float64{1, 2, 3, 4}, 4, 1)
	v := newTensor(t, []float64{1, 1, 1, 1}, 4, 1)
	flat := newTensor(t, []float64{1, 2, 3, 4}, 4)

	_, err := MSE(p, q)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = MSE(flat, flat)
	assert.True(t, errors.Is(err, tensor.ErrRankMismatch))

	_, err = CrossEntropy(p, q, DefaultEpsilon)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = PseudoHuber(p, q, DefaultBoundaryScale)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = LOOL(p, p, v)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = LOOPH(p, p, v, DefaultBoundaryScale)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, err = LOOLScaled(p, p, newTensor(t, []float64{1, 1, 1}, 3), newTensor(t, []float64{1, 1}, 2))
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}

func TestCrossEntropy(t *testing.T) {
	p := newTensor(t, []float64{2, 1}, 1, 2)
	tg := newTensor(t, []float64{1, -1}, 1, 2)

	got, err := CrossEntropy(p, tg, DefaultEpsilon)
	require.NoError(t, err)
	// -log(softmax([2, 1])[0]) = log(1 + e^-1)
	assert.InDelta(t, math.Log(1+math.Exp(-1)), got, 1e-12)
}

func TestCrossEntropy_BinarizesAndSums(t *testing.T) {
	p := newTensor(t, []float64{
		0, 0,
		3, -3,
	}, 2, 2)
	// 0.2 counts as positive; -0.7 as negative.
	tg := newTensor(t, []float64{
		0.2, -0.7,
		-1, 1,
	}, 2, 2)

	got, err := CrossEntropy(p, tg, DefaultEpsilon)
	require.NoError(t, err)

	row0 := math.Log(2)
	row1 := -math.Log(math.Exp(-3) / (math.Exp(3) + math.Exp(-3)))
	assert.InDelta(t, row0+row1, got, 1e-12, "loss is summed over rows, not averaged")
}

func TestCrossEntropy_Floor(t *testing.T) {
	p := newTensor(t, []float64{1000, -1000}, 1, 2)
	tg := newTensor(t, []float64{-1, 1}, 1, 2)

	got, err := CrossEntropy(p, tg, 1e-15)
	require.NoError(t, err)
	assert.False(t, math.IsInf(got, 0))
	assert.InDelta(t, -math.Log(1e-15), got, 1e-3)
}

func TestScaleVariance(t *testing.T) {
	v := newTensor(t, []float64{1, 2, 3}, 3)
	s := newTensor(t, []float64{10, 0.5}, 2)

	got, err := ScaleVariance(v, s)
	require.NoError(t, err)

	assert.True(t, got.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, []float64{10, 0.5, 20, 1, 30, 1.5}, got.Data())
}

func TestLOOL(t *testing.T) {
	p := newTensor(t, []float64{1, 2}, 2, 1)
	tg := newTensor(t, []float64{2, 2}, 2, 1)
	v := newTensor(t, []float64{0.5, 2}, 2, 1)

	got, err := LOOL(p, tg, v)
	require.NoError(t, err)
	assert.InDelta(t, 1/0.5+math.Log(0.5)+math.Log(2), got, 1e-12)
}

func TestLOOLScaled_InverseRescaling(t *testing.T) {
	p := newTensor(t, []float64{0.1, 0.9, -0.3, 1.2, 0.4, 0.0}, 3, 2)
	tg := newTensor(t, []float64{0.0, 1.0, -0.5, 1.0, 0.7, -0.2}, 3, 2)
	v := newTensor(t, []float64{0.3, 0.5, 0.8}, 3)
	s := newTensor(t, []float64{1.5, 0.4}, 2)

	base, err := LOOLScaled(p, tg, v, s)
	require.NoError(t, err)

	for _, k := range []float64{0.1, 2, 37} {
		vk := v.Map(func(x float64) float64 { return x * k })
		sk := s.Map(func(x float64) float64 { return x / k })
		got, err := LOOLScaled(p, tg, vk, sk)
		require.NoError(t, err)
		assert.InDelta(t, base, got, 1e-9, "k=%g", k)
	}
}

func TestLOOL_LogTermCarriesScale(t *testing.T) {
	p := newTensor(t, []float64{0.1, 0.9, -0.3, 1.2}, 2, 2)
	tg := newTensor(t, []float64{0.0, 1.0, -0.5, 1.0}, 2, 2)
	v := newTensor(t, []float64{0.3, 0.5, 0.8, 1.1}, 2, 2)

	base, err := LOOL(p, tg, v)
	require.NoError(t, err)

	// Scaling variances by k and residuals by sqrt(k) leaves the quadratic
	// term unchanged, so only batch·response·log(k) remains.
	for _, k := range []float64{0.25, 3} {
		pk := p.Clone()
		for i := range pk.Data() {
			pk.Data()[i] = tg.Data()[i] + (p.Data()[i]-tg.Data()[i])*math.Sqrt(k)
		}
		vk := v.Map(func(x float64) float64 { return x * k })

		got, err := LOOL(pk, tg, vk)
		require.NoError(t, err)
		assert.InDelta(t, base+4*math.Log(k), got, 1e-9, "k=%g", k)
	}
}

func TestPseudoHuber_Regimes(t *testing.T) {
	const bs = 1.5
	zeros := newTensor(t, []float64{0}, 1, 1)

	small := 1e-3
	got, err := PseudoHuber(newTensor(t, []float64{small}, 1, 1), zeros, bs)
	require.NoError(t, err)
	assert.InDelta(t, small*small/2, got, 1e-12)

	big := 1e4
	atBig, err := PseudoHuber(newTensor(t, []float64{big}, 1, 1), zeros, bs)
	require.NoError(t, err)
	atDouble, err := PseudoHuber(newTensor(t, []float64{2 * big}, 1, 1), zeros, bs)
	require.NoError(t, err)

	assert.InDelta(t, bs*big, atDouble-atBig, 1e-3, "linear growth with slope boundary_scale")
	assert.InDelta(t, bs*big-bs*bs, atBig, 1e-3)
}

func TestPseudoHuber_Symmetric(t *testing.T) {
	a := newTensor(t, []float64{0.3, -2}, 1, 2)
	b := newTensor(t, []float64{-0.7, 4}, 1, 2)

	ab, err := PseudoHuber(a, b, 1.5)
	require.NoError(t, err)
	ba, err := PseudoHuber(b, a, 1.5)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-12)
}

func TestLOOPH(t *testing.T) {
	const bs = 1.5
	p := newTensor(t, []float64{1, 0}, 2, 1)
	tg := newTensor(t, []float64{3, 0}, 2, 1)
	v := newTensor(t, []float64{0.5, 2}, 2, 1)

	got, err := LOOPH(p, tg, v, bs)
	require.NoError(t, err)

	r := 2 / (0.5 * bs)
	want := bs*bs*math.Sqrt(1+r*r) - bs*bs + math.Log(0.5) + math.Log(2)
	assert.InDelta(t, want, got, 1e-12)
}

func TestLOOPHScaled_MatchesExplicitScaling(t *testing.T) {
	p := newTensor(t, []float64{0.1, 0.9, -0.3, 1.2}, 2, 2)
	tg := newTensor(t, []float64{0.0, 1.0, -0.5, 1.0}, 2, 2)
	v := newTensor(t, []float64{0.3, 0.5}, 2)
	s := newTensor(t, []float64{2, 0.7}, 2)

	scaled, err := ScaleVariance(v, s)
	require.NoError(t, err)
	want, err := LOOPH(p, tg, scaled, 1.5)
	require.NoError(t, err)
	got, err := LOOPHScaled(p, tg, v, s, 1.5)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestObjectivesDoNotMutateInputs(t *testing.T) {
	p := newTensor(t, []float64{0.1, 0.9, -0.3, 1.2}, 2, 2)
	tg := newTensor(t, []float64{0.0, 1.0, -0.5, 1.0}, 2, 2)
	v := newTensor(t, []float64{0.3, 0.5}, 2)
	s := newTensor(t, []float64{2, 0.7}, 2)
	snapshot := [][]float64{
		append([]float64(nil), p.Data()...),
		append([]float64(nil), tg.Data()...),
		append([]float64(nil), v.Data()...),
		append([]float64(nil), s.Data()...),
	}

	_, _ = CrossEntropy(p, tg, DefaultEpsilon)
	_, _ = MSE(p, tg)
	_, _ = PseudoHuber(p, tg, DefaultBoundaryScale)
	_, _ = LOOLScaled(p, tg, v, s)
	_, _ = LOOPHScaled(p, tg, v, s, DefaultBoundaryScale)

	assert.Equal(t, snapshot[0], p.Data())
	assert.Equal(t, snapshot[1], tg.Data())
	assert.Equal(t, snapshot[2], v.Data())
	assert.Equal(t, snapshot[3], s.Data())
}
