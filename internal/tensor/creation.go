package tensor

// Identity returns a (batch, n, n) tensor holding batch copies of the n×n
// identity matrix.
func Identity(batch, n int) (*Tensor, error) {
	t, err := New(Shape{batch, n, n})
	if err != nil {
		return nil, err
	}
	for b := 0; b < batch; b++ {
		slice := t.Batch(b)
		for i := 0; i < n; i++ {
			slice[i*n+i] = 1
		}
	}
	return t, nil
}

// Repeat stacks count copies of row along a new leading axis.
// The result has shape (count, shape...).
func Repeat(row []float64, shape Shape, count int) (*Tensor, error) {
	full := append(Shape{count}, shape...)
	if err := full.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(row) {
		return nil, ErrDataLength
	}
	t, err := New(full)
	if err != nil {
		return nil, err
	}
	for b := 0; b < count; b++ {
		copy(t.Batch(b), row)
	}
	return t, nil
}
