// Package bitbuf provides a growable, cursor-addressed bit buffer.
//
// Bits are stored little-endian: bit n of the buffer is bit n%32 of word n/32,
// and byte k of the serialized form holds bits 8k..8k+7 with the lowest bit
// first. Storage is allocated lazily; bits that were never written read as zero.
//
// Every operation that moves the cursor past Len grows Len to the cursor,
// including reads. A read past the end therefore returns zero bits and still
// extends the buffer.
//
// A BitBuffer is not safe for concurrent use.
package bitbuf

import (
	"encoding/binary"
	"fmt"

	"github.com/quickwritereader/PackBits/types"
)

const (
	// MaxUnitBits is the widest single storage access.
	MaxUnitBits = 32
	// MaxBits is the widest integer accessor.
	MaxBits = 53
)

type BitBuffer struct {
	words  []uint32 // backing storage; bits at or beyond length are always zero
	length int      // addressable bits
	cursor int      // next bit to read or write
}

// New returns a zero-filled buffer of sizeBits bits with the cursor at 0.
// Negative sizes are treated as 0.
func New(sizeBits int) *BitBuffer {
	if sizeBits < 0 {
		sizeBits = 0
	}
	return &BitBuffer{length: sizeBits}
}

// FromBytes returns a buffer holding data, 8*len(data) bits long, cursor at 0.
func FromBytes(data []byte) *BitBuffer {
	b := &BitBuffer{
		words:  make([]uint32, (len(data)+3)/4),
		length: 8 * len(data),
	}
	full := len(data) &^ 3
	for i := 0; i < full; i += 4 {
		b.words[i>>2] = binary.LittleEndian.Uint32(data[i:])
	}
	for i := full; i < len(data); i++ {
		b.words[i>>2] |= uint32(data[i]) << ((i & 3) * 8)
	}
	return b
}

// Len returns the number of addressable bits.
func (b *BitBuffer) Len() int {
	return b.length
}

// SetLen truncates or zero-extends the buffer to n bits. Bits beyond n are
// cleared and the cursor is clamped to n. Negative n is treated as 0.
func (b *BitBuffer) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	if n < b.length {
		b.truncate(n)
	}
	b.length = n
	if b.cursor > n {
		b.cursor = n
	}
}

// Index returns the cursor position in bits.
func (b *BitBuffer) Index() int {
	return b.cursor
}

// SetIndex moves the cursor to bit i, growing Len when i is past the end.
// Negative i is treated as 0.
func (b *BitBuffer) SetIndex(i int) {
	if i < 0 {
		i = 0
	}
	b.cursor = i
	if i > b.length {
		b.length = i
	}
}

// Fits reports whether n more bits can be consumed before the end of the buffer.
func (b *BitBuffer) Fits(n int) bool {
	return n <= b.length-b.cursor
}

// Reset empties the buffer and releases its storage.
func (b *BitBuffer) Reset() {
	b.words = nil
	b.length = 0
	b.cursor = 0
}

func (b *BitBuffer) truncate(n int) {
	nw := (n + 31) >> 5
	if nw < len(b.words) {
		clear(b.words[nw:])
		b.words = b.words[:nw]
	}
	if rem := n & 31; rem != 0 && nw-1 < len(b.words) {
		b.words[nw-1] &= uint32(1)<<rem - 1
	}
}

// advance moves the cursor by n bits and extends length to cover it.
func (b *BitBuffer) advance(n int) {
	b.cursor += n
	if b.cursor > b.length {
		b.length = b.cursor
	}
}

// ensure allocates storage for bits below end.
func (b *BitBuffer) ensure(end int) {
	n := (end + 31) >> 5
	if n <= len(b.words) {
		return
	}
	if n <= cap(b.words) {
		old := len(b.words)
		b.words = b.words[:n]
		clear(b.words[old:])
		return
	}
	b.words = append(b.words, make([]uint32, n-len(b.words))...)
}

// writeUnit stores the low size bits of v at the cursor, size in [0, 32].
func (b *BitBuffer) writeUnit(size int, v uint32) {
	if size == 0 {
		return
	}
	b.ensure(b.cursor + size)

	i := b.cursor >> 5
	off := uint(b.cursor & 31)
	span := off+uint(size) > 32
	mask := uint64(1)<<uint(size) - 1

	w := uint64(b.words[i])
	if span {
		w |= uint64(b.words[i+1]) << 32
	}
	w = w&^(mask<<off) | (uint64(v)&mask)<<off
	b.words[i] = uint32(w)
	if span {
		b.words[i+1] = uint32(w >> 32)
	}
	b.advance(size)
}

// readUnit loads size bits at the cursor, size in [0, 32].
func (b *BitBuffer) readUnit(size int) uint32 {
	if size == 0 {
		return 0
	}
	i := b.cursor >> 5
	off := uint(b.cursor & 31)
	mask := uint64(1)<<uint(size) - 1

	var w uint64
	if i < len(b.words) {
		w = uint64(b.words[i])
	}
	if off+uint(size) > 32 && i+1 < len(b.words) {
		w |= uint64(b.words[i+1]) << 32
	}
	b.advance(size)
	return uint32(w >> off & mask)
}

func checkWidth(op string, size, limit int) error {
	if size < 0 || size > limit {
		return fmt.Errorf("bitbuf: %s: size %d outside [0, %d]: %w", op, size, limit, types.ErrInvalidArgument)
	}
	return nil
}
