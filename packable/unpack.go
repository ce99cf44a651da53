package packable

import (
	"fmt"

	"github.com/quickwritereader/PackBits/bitbuf"
	"github.com/quickwritereader/PackBits/types"
)

// Unpacker reads fields back in the order they were packed. The first error
// sticks: later reads return zero values and Err reports it.
type Unpacker struct {
	b   *bitbuf.BitBuffer
	err error
}

// NewUnpacker reads from data starting at bit 0.
func NewUnpacker(data []byte) *Unpacker {
	return &Unpacker{b: bitbuf.FromBytes(data)}
}

// NewBufferUnpacker reads from b at its current cursor.
func NewBufferUnpacker(b *bitbuf.BitBuffer) *Unpacker {
	return &Unpacker{b: b}
}

func (u *Unpacker) Err() error { return u.err }

// Index returns the bit position of the next field.
func (u *Unpacker) Index() int { return u.b.Index() }

// Remaining returns the bits left before the end of the buffer.
func (u *Unpacker) Remaining() int {
	return max(u.b.Len()-u.b.Index(), 0)
}

func (u *Unpacker) fail(err error) {
	if u.err == nil {
		u.err = err
	}
}

// need records ErrOutOfRange when fewer than n bits remain, so truncated input
// fails instead of reading zeros.
func (u *Unpacker) need(op string, n int) bool {
	if u.err != nil {
		return false
	}
	if n > u.Remaining() {
		u.fail(fmt.Errorf("packable: %s: need %d bits at %d, have %d: %w", op, n, u.b.Index(), u.Remaining(), types.ErrOutOfRange))
		return false
	}
	return true
}

// sized is need for accessors with a width parameter: an invalid width fails
// with ErrInvalidArgument before the input length is looked at.
func (u *Unpacker) sized(op string, n int, valid bool) bool {
	if u.err != nil {
		return false
	}
	if !valid {
		u.fail(fmt.Errorf("packable: %s: invalid width %d: %w", op, n, types.ErrInvalidArgument))
		return false
	}
	return u.need(op, n)
}

func intWidth(n int) bool { return n >= 0 && n <= bitbuf.MaxBits }

func fixedWidth(i, f int) bool { return i >= 0 && f >= 0 && i+f <= bitbuf.MaxBits }

func (u *Unpacker) Uint(bits int) uint64 {
	if !u.sized("Uint", bits, intWidth(bits)) {
		return 0
	}
	v, err := u.b.ReadUint(bits)
	u.fail(err)
	return v
}

func (u *Unpacker) Int(bits int) int64 {
	if !u.sized("Int", bits, intWidth(bits)) {
		return 0
	}
	v, err := u.b.ReadInt(bits)
	u.fail(err)
	return v
}

func (u *Unpacker) Bool() bool {
	if !u.need("Bool", 1) {
		return false
	}
	return u.b.ReadBool()
}

func (u *Unpacker) Byte() byte {
	if !u.need("Byte", 8) {
		return 0
	}
	c, _ := u.b.ReadByte()
	return c
}

func (u *Unpacker) Float(size int) float64 {
	if !u.sized("Float", size, size == 32 || size == 64) {
		return 0
	}
	v, err := u.b.ReadFloat(size)
	u.fail(err)
	return v
}

func (u *Unpacker) Fixed(i, f int) float64 {
	if !u.sized("Fixed", i+f, fixedWidth(i, f)) {
		return 0
	}
	v, err := u.b.ReadFixed(i, f)
	u.fail(err)
	return v
}

func (u *Unpacker) Ufixed(i, f int) float64 {
	if !u.sized("Ufixed", i+f, fixedWidth(i, f)) {
		return 0
	}
	v, err := u.b.ReadUfixed(i, f)
	u.fail(err)
	return v
}

func (u *Unpacker) Bytes(n int) []byte {
	if !u.sized("Bytes", 8*n, n >= 0) {
		return nil
	}
	p, err := u.b.ReadBytes(n)
	u.fail(err)
	return p
}

// Text reads a length-prefixed string written by String.PackInto.
func (u *Unpacker) Text() string {
	n := u.Uint(StringLenBits)
	if u.err != nil {
		return ""
	}
	return string(u.Bytes(int(n)))
}

// MapLen reads the entry count written before a map. Each entry follows as a
// String key and its value.
func (u *Unpacker) MapLen() int {
	return int(u.Uint(MapLenBits))
}

func (u *Unpacker) Pad(bits int) {
	if !u.sized("Pad", bits, bits >= 0) {
		return
	}
	u.b.Pad(bits, false)
}
