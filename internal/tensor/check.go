package tensor

import "fmt"

// ExpectRank fails with ErrRankMismatch unless t has exactly rank dimensions.
// name identifies the argument in the error message.
func ExpectRank(name string, t *Tensor, rank int) error {
	if t == nil {
		return fmt.Errorf("%s: %w", name, ErrNil)
	}
	if t.Rank() != rank {
		return fmt.Errorf("%s: %w: expected %dD, got %dD %v", name, ErrRankMismatch, rank, t.Rank(), t.shape)
	}
	return nil
}

// ExpectShape fails with ErrShapeMismatch unless t has exactly the given shape.
func ExpectShape(name string, t *Tensor, shape Shape) error {
	if t == nil {
		return fmt.Errorf("%s: %w", name, ErrNil)
	}
	if !t.shape.Equal(shape) {
		return fmt.Errorf("%s: %w: expected %v, got %v", name, ErrShapeMismatch, shape, t.shape)
	}
	return nil
}

// SameShape fails with ErrShapeMismatch unless a and b have identical shapes.
func SameShape(aName string, a *Tensor, bName string, b *Tensor) error {
	if a == nil {
		return fmt.Errorf("%s: %w", aName, ErrNil)
	}
	if b == nil {
		return fmt.Errorf("%s: %w", bName, ErrNil)
	}
	if !a.shape.Equal(b.shape) {
		return fmt.Errorf("%w: %s %v vs %s %v", ErrShapeMismatch, aName, a.shape, bName, b.shape)
	}
	return nil
}
