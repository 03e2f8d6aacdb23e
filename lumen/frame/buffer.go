package frame

// Buffer holds batches that arrive while a render is already committed but
// not yet executed. Batches are drained in arrival order, exactly once,
// right after that render completes.
type Buffer[T any] struct {
	batches []T
}

// Push appends a batch to the buffer.
func (b *Buffer[T]) Push(batch T) {
	b.batches = append(b.batches, batch)
}

// Drain returns all buffered batches in arrival order and empties the
// buffer.
func (b *Buffer[T]) Drain() []T {
	drained := b.batches
	b.batches = nil
	return drained
}

// Len returns the number of buffered batches.
func (b *Buffer[T]) Len() int {
	return len(b.batches)
}
