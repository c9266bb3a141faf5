// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package hyper_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/localgp/hyper"
)

// TestFixedRejectsBoundsQuery verifies fixed parameters keep inert bounds.
func TestFixedRejectsBoundsQuery(t *testing.T) {
	nu := hyper.Fixed("nu", 0.5)

	if _, err := nu.Bounds(); !errors.Is(err, hyper.ErrFixed) {
		t.Errorf("Bounds() error = %v, want ErrFixed", err)
	}
	if _, err := nu.Sample(nil); !errors.Is(err, hyper.ErrFixed) {
		t.Errorf("Sample() error = %v, want ErrFixed", err)
	}
}

// TestNewSampledLogUniform verifies sampling through the facade.
func TestNewSampledLogUniform(t *testing.T) {
	b := hyper.Bounds{Low: 1e-3, High: 1e3}
	h, err := hyper.NewSampled("length_scale", b, hyper.LogUniform, rand.NewPCG(7, 11))
	if err != nil {
		t.Fatalf("NewSampled failed: %v", err)
	}
	if !b.Contains(h.Value()) {
		t.Errorf("Value() = %v, outside %v", h.Value(), b)
	}
}
