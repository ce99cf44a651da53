package bitbuf

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/quickwritereader/PackBits/types"
	"github.com/quickwritereader/PackBits/utils"
)

// WriteBytes writes p as a run of 8-bit units.
func (b *BitBuffer) WriteBytes(p []byte) {
	b.writeBytes(p)
}

// ReadBytes reads n bytes. Bytes past the end read as zero.
func (b *BitBuffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bitbuf: ReadBytes: negative size %d: %w", n, types.ErrInvalidArgument)
	}
	out := make([]byte, n)
	b.readBytes(out)
	return out, nil
}

func (b *BitBuffer) writeBytes(p []byte) {
	if b.cursor&7 == 0 {
		b.writeBytesAligned(p)
		return
	}
	b.writeBytesUnaligned(p)
}

func (b *BitBuffer) readBytes(p []byte) {
	if b.cursor&7 == 0 {
		b.readBytesAligned(p)
		return
	}
	b.readBytesUnaligned(p)
}

// writeBytesAligned requires a byte-aligned cursor; whole words are stored
// directly once the position reaches a word boundary.
func (b *BitBuffer) writeBytesAligned(p []byte) {
	if len(p) == 0 {
		return
	}
	b.ensure(b.cursor + 8*len(p))

	pos := b.cursor >> 3
	k := 0
	for ; k < len(p) && (pos+k)&3 != 0; k++ {
		b.putByte(pos+k, p[k])
	}
	for ; len(p)-k >= 4; k += 4 {
		b.words[(pos+k)>>2] = binary.LittleEndian.Uint32(p[k:])
	}
	for ; k < len(p); k++ {
		b.putByte(pos+k, p[k])
	}
	b.advance(8 * len(p))
}

func (b *BitBuffer) writeBytesUnaligned(p []byte) {
	for _, c := range p {
		b.writeUnit(8, uint32(c))
	}
}

func (b *BitBuffer) readBytesAligned(p []byte) {
	if len(p) == 0 {
		return
	}
	b.fillBytes(b.cursor>>3, p)
	b.advance(8 * len(p))
}

func (b *BitBuffer) readBytesUnaligned(p []byte) {
	for k := range p {
		p[k] = byte(b.readUnit(8))
	}
}

func (b *BitBuffer) putByte(pos int, c byte) {
	sh := uint(pos&3) * 8
	w := &b.words[pos>>2]
	*w = *w&^(0xFF<<sh) | uint32(c)<<sh
}

// fillBytes copies stored bytes starting at byte position pos into p.
func (b *BitBuffer) fillBytes(pos int, p []byte) {
	k := 0
	for ; k < len(p) && (pos+k)&3 != 0; k++ {
		p[k] = b.byteAt(pos + k)
	}
	for ; len(p)-k >= 4; k += 4 {
		w := (pos + k) >> 2
		if w >= len(b.words) {
			clear(p[k:])
			return
		}
		binary.LittleEndian.PutUint32(p[k:], b.words[w])
	}
	for ; k < len(p); k++ {
		p[k] = b.byteAt(pos + k)
	}
}

func (b *BitBuffer) byteAt(pos int) byte {
	w := pos >> 2
	if w >= len(b.words) {
		return 0
	}
	return byte(b.words[w] >> (uint(pos&3) * 8))
}

// Pad advances the cursor by size bits. With write set the skipped bits are
// zeroed; otherwise existing content is left in place. Len grows either way.
func (b *BitBuffer) Pad(size int, write bool) {
	if size <= 0 {
		return
	}
	if !write {
		b.advance(size)
		return
	}
	for size > MaxUnitBits {
		b.writeUnit(MaxUnitBits, 0)
		size -= MaxUnitBits
	}
	b.writeUnit(size, 0)
}

// Align pads the cursor up to the next multiple of size bits.
func (b *BitBuffer) Align(size int, write bool) {
	if size <= 1 {
		return
	}
	if rem := b.cursor % size; rem != 0 {
		b.Pad(size-rem, write)
	}
}

// ByteLen returns the length of the serialized form, Len rounded up to bytes.
func (b *BitBuffer) ByteLen() int {
	return (b.length + 7) >> 3
}

// String returns the buffer content as a byte string, zero-padded to a byte
// boundary. It does not move the cursor.
func (b *BitBuffer) String() string {
	scratch := utils.Scratch.Acquire(b.ByteLen())
	b.fillBytes(0, scratch)
	s := string(scratch)
	utils.Scratch.Release(scratch)
	return s
}

// Bytes returns the same content as String.
func (b *BitBuffer) Bytes() []byte {
	out := make([]byte, b.ByteLen())
	b.fillBytes(0, out)
	return out
}

// AppendBytes appends the serialized form of the buffer to dst.
func (b *BitBuffer) AppendBytes(dst []byte) []byte {
	n := b.ByteLen()
	dst = slices.Grow(dst, n)
	start := len(dst)
	dst = dst[:start+n]
	b.fillBytes(0, dst[start:])
	return dst
}
