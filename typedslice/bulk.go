package typedslice

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quickwritereader/PackBits/types"
)

// Clear zeroes the bytes of every element without going through the codec.
func (s Slice[T]) Clear() Slice[T] {
	clear(s.bytes(s.length))
	return s
}

// Fill writes v through the codec into every element.
func (s Slice[T]) Fill(v T) Slice[T] {
	for i := 0; i < s.length; i++ {
		s.codec.write(s.elem(i), v)
	}
	return s
}

// Copy copies min(dst.Len(), src.Len()) elements as raw bytes and returns the
// count. Overlapping views are handled like the builtin copy.
func Copy[T any](dst, src Slice[T]) (int, error) {
	if dst.codec != src.codec {
		return 0, mismatch("Copy", dst.codec, src.codec)
	}
	n := min(dst.length, src.length)
	if n == 0 {
		return 0, nil
	}
	copy(dst.bytes(n), src.bytes(n))
	return n, nil
}

// Append adds values after the last element. When capacity allows, the result
// shares s's backing array; otherwise it gets a new one and s's array is left
// as it was. Appending nothing returns s unchanged.
func (s Slice[T]) Append(values ...T) (Slice[T], error) {
	if len(values) == 0 {
		return s, nil
	}
	if s.codec == nil {
		return s, errUninitialized("Append")
	}
	ns, err := s.grow("Append", len(values))
	if err != nil {
		return s, err
	}
	for k, v := range values {
		ns.codec.write(ns.elem(s.length+k), v)
	}
	return ns, nil
}

// Join appends the elements of every slice in others, deciding on growth once
// from their combined length.
func (s Slice[T]) Join(others ...Slice[T]) (Slice[T], error) {
	total := 0
	for _, o := range others {
		if o.codec != s.codec {
			return s, mismatch("Join", s.codec, o.codec)
		}
		total += o.length
	}
	if total == 0 {
		return s, nil
	}
	ns, err := s.grow("Join", total)
	if err != nil {
		return s, err
	}
	at := s.length
	for _, o := range others {
		if o.length == 0 {
			continue
		}
		dst := Slice[T]{codec: ns.codec, arr: ns.arr, off: ns.off + at*ns.codec.size, length: o.length}
		copy(dst.bytes(o.length), o.bytes(o.length))
		at += o.length
	}
	return ns, nil
}

// From makes a slice with mk and writes values into it. mk must return a
// slice of at least len(values) elements.
func From[T any](mk MakeFunc[T], values ...T) (Slice[T], error) {
	s, err := mk(len(values), len(values))
	if err != nil {
		return Slice[T]{}, err
	}
	if s.codec == nil || s.length < len(values) {
		return Slice[T]{}, fmt.Errorf("typedslice: From: make returned %d elements, want %d: %w", s.length, len(values), types.ErrTypeMismatch)
	}
	for i, v := range values {
		s.codec.write(s.elem(i), v)
	}
	return s, nil
}

// FromTable is From for values already held in a Go slice.
func FromTable[T any](mk MakeFunc[T], values []T) (Slice[T], error) {
	return From(mk, values...)
}

// grow returns a header for s extended by n elements.
func (s Slice[T]) grow(op string, n int) (Slice[T], error) {
	newLen := s.length + n
	if newLen < s.length {
		return s, fmt.Errorf("typedslice: %s: length overflow: %w", op, types.ErrOutOfRange)
	}
	if s.capacity-s.length >= n {
		ns := s
		ns.length = newLen
		return ns, nil
	}

	newCap, err := nextCap(s.capacity, newLen)
	if err != nil {
		return s, fmt.Errorf("typedslice: %s: %s: %w", op, s.codec.name, err)
	}
	arr, err := s.codec.alloc(newCap)
	if err != nil {
		return s, fmt.Errorf("typedslice: %s: %w", op, err)
	}
	copy(arr.data, s.bytes(s.length))

	logger.Load().Debug("typedslice reallocated",
		zap.String("elem", s.codec.name),
		zap.Int("old_cap", s.capacity),
		zap.Int("new_cap", newCap),
		zap.Int("len", newLen),
	)
	return Slice[T]{codec: s.codec, arr: arr, length: newLen, capacity: newCap}, nil
}

func mismatch[T any](op string, a, b *Codec[T]) error {
	return fmt.Errorf("typedslice: %s: element codecs %v and %v differ: %w", op, a, b, types.ErrTypeMismatch)
}

func errUninitialized(op string) error {
	return fmt.Errorf("typedslice: %s: slice has no codec: %w", op, types.ErrInvalidArgument)
}
