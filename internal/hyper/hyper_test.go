package hyper

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed(t *testing.T) {
	h := Fixed("nu", 2.5)

	assert.Equal(t, "nu", h.Name())
	assert.Equal(t, 2.5, h.Value())
	assert.True(t, h.Fixed())

	_, err := h.Bounds()
	assert.True(t, errors.Is(err, ErrFixed))

	_, err = h.Sample(nil)
	assert.True(t, errors.Is(err, ErrFixed))

	err = h.Set(1.5)
	assert.True(t, errors.Is(err, ErrFixed))
	assert.Equal(t, 2.5, h.Value(), "failed Set must not mutate")
}

func TestNew(t *testing.T) {
	h, err := New("length_scale", 1.0, Bounds{Low: 0.1, High: 10})
	require.NoError(t, err)

	assert.False(t, h.Fixed())
	b, err := h.Bounds()
	require.NoError(t, err)
	assert.Equal(t, Bounds{Low: 0.1, High: 10}, b)
}

func TestNew_InvalidBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
	}{
		{"equal", Bounds{Low: 1, High: 1}},
		{"reversed", Bounds{Low: 2, High: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("x", 1, tt.bounds)
			assert.True(t, errors.Is(err, ErrInvalidBounds))
		})
	}
}

func TestNew_ValueOutsideBounds(t *testing.T) {
	_, err := New("x", 11, Bounds{Low: 0, High: 10})
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestSet_RejectsOutOfBounds(t *testing.T) {
	h, err := New("x", 1, Bounds{Low: 0.5, High: 2})
	require.NoError(t, err)

	require.NoError(t, h.Set(2))
	assert.Equal(t, 2.0, h.Value())

	err = h.Set(2.0001)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, 2.0, h.Value(), "values must not be clamped")
}

func TestSample_WithinBounds(t *testing.T) {
	src := rand.NewPCG(1, 2)
	for _, dist := range []Distribution{Uniform, LogUniform} {
		t.Run(dist.String(), func(t *testing.T) {
			h, err := NewSampled("x", Bounds{Low: 0.1, High: 5}, dist, src)
			require.NoError(t, err)
			assert.True(t, h.bnds.Contains(h.Value()))

			for i := 0; i < 200; i++ {
				v, err := h.Sample(src)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, v, 0.1)
				assert.LessOrEqual(t, v, 5.0)
			}
		})
	}
}

func TestSample_LogUniformNeedsPositiveLow(t *testing.T) {
	_, err := NewSampled("x", Bounds{Low: 0, High: 1}, LogUniform, nil)
	assert.True(t, errors.Is(err, ErrInvalidBounds))
}

func TestParseDistribution(t *testing.T) {
	d, err := ParseDistribution("log_sample")
	require.NoError(t, err)
	assert.Equal(t, LogUniform, d)

	d, err = ParseDistribution("sample")
	require.NoError(t, err)
	assert.Equal(t, Uniform, d)

	_, err = ParseDistribution("gaussian")
	assert.Error(t, err)
}
