package buffer

import (
	"errors"
	"fmt"
	"unsafe"
)

// ElementWidth is the on-disk and in-memory width of a single element in bytes.
const ElementWidth = 8

// ErrNegativeLength is returned when a buffer is requested with n < 0.
var ErrNegativeLength = errors.New("buffer: negative element count")

// Buffer is a fixed-length sequence of float64 values.
type Buffer struct {
	values []float64
}

// New allocates a buffer of n elements and populates it with fill.
// A nil fill leaves every element at zero. fill is called once per index in
// ascending order, so stateful generators produce reproducible contents.
func New(n int, fill FillFunc) (*Buffer, error) {
	b, err := Make(n)
	if err != nil {
		return nil, err
	}
	if fill != nil {
		for i := range b.values {
			b.values[i] = fill(i)
		}
	}
	return b, nil
}

// Make allocates a zeroed buffer of n elements, typically as a decode destination.
func Make(n int) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	return &Buffer{values: make([]float64, n)}, nil
}

// FromValues returns a buffer holding a copy of values.
func FromValues(values []float64) *Buffer {
	v := make([]float64, len(values))
	copy(v, values)
	return &Buffer{values: v}
}

// Len returns the element count.
func (b *Buffer) Len() int {
	return len(b.values)
}

// At returns the element at index i. It panics if i is out of range.
func (b *Buffer) At(i int) float64 {
	return b.values[i]
}

// Values returns the underlying storage. The slice aliases the buffer.
func (b *Buffer) Values() []float64 {
	return b.values
}

// Bytes returns a native-endian byte view of the underlying storage.
// The slice aliases the buffer and is nil for an empty buffer.
func (b *Buffer) Bytes() []byte {
	if len(b.values) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.values[0])), len(b.values)*ElementWidth)
}

// SizeBytes returns the payload size in bytes.
func (b *Buffer) SizeBytes() int64 {
	return int64(len(b.values)) * ElementWidth
}
