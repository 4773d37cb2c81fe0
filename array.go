package nbt

import (
	"iter"
	"slices"
)

// array is the shared, immutable backing of the three array tags.
// The slice is never handed out without a copy.
type array[T any] struct {
	v []T
}

// Len returns the number of elements.
func (a array[T]) Len() int { return len(a.v) }

// At returns the i-th element. It panics if i is out of range.
func (a array[T]) At(i int) T { return a.v[i] }

// Values returns a copy of the elements.
func (a array[T]) Values() []T { return slices.Clone(a.v) }

// All iterates over the elements in order.
func (a array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range a.v {
			if !yield(i, v) {
				return
			}
		}
	}
}

// ByteArray is an ordered sequence of 8-bit values. The bytes are
// interpreted as signed on the wire; Go callers see them as []byte.
type ByteArray struct{ array[byte] }

// IntArray is an ordered sequence of signed 32-bit integers.
type IntArray struct{ array[int32] }

// LongArray is an ordered sequence of signed 64-bit integers.
type LongArray struct{ array[int64] }

// NewByteArray copies b into a new ByteArray.
func NewByteArray(b []byte) ByteArray { return ByteArray{array[byte]{slices.Clone(b)}} }

// NewIntArray copies v into a new IntArray.
func NewIntArray(v []int32) IntArray { return IntArray{array[int32]{slices.Clone(v)}} }

// NewLongArray copies v into a new LongArray.
func NewLongArray(v []int64) LongArray { return LongArray{array[int64]{slices.Clone(v)}} }

func (ByteArray) Type() Type { return TypeByteArray }
func (IntArray) Type() Type  { return TypeIntArray }
func (LongArray) Type() Type { return TypeLongArray }

func (ByteArray) tag() {}
func (IntArray) tag()  {}
func (LongArray) tag() {}

// Bytes returns a copy of the array contents.
func (a ByteArray) Bytes() []byte { return a.Values() }
