package typedslice

import (
	"fmt"
	"iter"

	json "github.com/goccy/go-json"

	"github.com/quickwritereader/PackBits/types"
)

// Slice is a view of length elements starting off bytes into a backing array,
// with room for capacity elements before the view must reallocate. Slice
// values are headers: copying one aliases the same elements.
type Slice[T any] struct {
	codec    *Codec[T]
	arr      *backing
	off      int // byte offset of element 0
	length   int
	capacity int
}

func (s Slice[T]) Len() int         { return s.length }
func (s Slice[T]) Cap() int         { return s.capacity }
func (s Slice[T]) Codec() *Codec[T] { return s.codec }

// SameArray reports whether s and o alias one backing array.
func (s Slice[T]) SameArray(o Slice[T]) bool {
	return s.arr != nil && s.arr == o.arr
}

// Read returns element i, 0 <= i < Len.
func (s Slice[T]) Read(i int) (T, error) {
	if i < 0 || i >= s.length {
		var zero T
		return zero, s.indexErr("Read", i)
	}
	return s.codec.read(s.elem(i)), nil
}

// Write stores v at element i, 0 <= i < Len.
func (s Slice[T]) Write(i int, v T) error {
	if i < 0 || i >= s.length {
		return s.indexErr("Write", i)
	}
	s.codec.write(s.elem(i), v)
	return nil
}

// Slice is the two-index form s[low:high]; the result keeps s's capacity.
func (s Slice[T]) Slice(low, high int) (Slice[T], error) {
	return s.Slice3(low, high, s.capacity)
}

// Slice3 is the three-index form s[low:high:limit]. The result shares the
// backing array; elements between high and limit are reachable by reslicing or
// Append and hold whatever was last written there.
func (s Slice[T]) Slice3(low, high, limit int) (Slice[T], error) {
	if low < 0 || low > high || high > limit || limit > s.capacity {
		return Slice[T]{}, fmt.Errorf("typedslice: Slice: need 0 <= %d <= %d <= %d <= cap(%d): %w", low, high, limit, s.capacity, types.ErrOutOfRange)
	}
	return Slice[T]{
		codec:    s.codec,
		arr:      s.arr,
		off:      s.off + low*s.elemSize(),
		length:   high - low,
		capacity: limit - low,
	}, nil
}

// All yields every element in order.
func (s Slice[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.length; i++ {
			if !yield(i, s.codec.read(s.elem(i))) {
				return
			}
		}
	}
}

// ToTable copies the elements into a Go slice.
func (s Slice[T]) ToTable() []T {
	out := make([]T, 0, s.length)
	for _, v := range s.All() {
		out = append(out, v)
	}
	return out
}

// MarshalJSON encodes the elements as a JSON array.
func (s Slice[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToTable())
}

func (s Slice[T]) String() string {
	name := "<nil>"
	if s.codec != nil {
		name = s.codec.name
	}
	return fmt.Sprintf("%s%v", name, s.ToTable())
}

func (s Slice[T]) elemSize() int {
	if s.codec == nil {
		return 0
	}
	return s.codec.size
}

// elem returns exactly the bytes of element i.
func (s Slice[T]) elem(i int) []byte {
	size := s.codec.size
	o := s.off + i*size
	return s.arr.data[o : o+size : o+size]
}

// bytes returns the bytes of elements [0, n).
func (s Slice[T]) bytes(n int) []byte {
	if s.arr == nil {
		return nil
	}
	return s.arr.data[s.off : s.off+n*s.elemSize()]
}

func (s Slice[T]) indexErr(op string, i int) error {
	return fmt.Errorf("typedslice: %s: index %d outside [0, %d): %w", op, i, s.length, types.ErrOutOfRange)
}
