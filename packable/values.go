package packable

import (
	"fmt"

	"github.com/quickwritereader/PackBits/bitbuf"
	"github.com/quickwritereader/PackBits/types"
)

// StringLenBits is the width of the length prefix written before a String.
const StringLenBits = 16

// Uint is an unsigned field of Bits width.
type Uint struct {
	Bits int
	V    uint64
}

func (p Uint) BitSize() int                       { return p.Bits }
func (p Uint) PackInto(b *bitbuf.BitBuffer) error { return b.WriteUint(p.Bits, p.V) }

// Int is a two's-complement field of Bits width.
type Int struct {
	Bits int
	V    int64
}

func (p Int) BitSize() int                       { return p.Bits }
func (p Int) PackInto(b *bitbuf.BitBuffer) error { return b.WriteInt(p.Bits, p.V) }

// Bool is a single bit.
type Bool bool

func (p Bool) BitSize() int { return 1 }
func (p Bool) PackInto(b *bitbuf.BitBuffer) error {
	b.WriteBool(bool(p))
	return nil
}

// Byte is an 8-bit field.
type Byte byte

func (p Byte) BitSize() int                       { return 8 }
func (p Byte) PackInto(b *bitbuf.BitBuffer) error { return b.WriteByte(byte(p)) }

// Float32 is an IEEE-754 single.
type Float32 float32

func (p Float32) BitSize() int { return 32 }
func (p Float32) PackInto(b *bitbuf.BitBuffer) error {
	return b.WriteFloat(32, float64(p))
}

// Float64 is an IEEE-754 double.
type Float64 float64

func (p Float64) BitSize() int { return 64 }
func (p Float64) PackInto(b *bitbuf.BitBuffer) error {
	return b.WriteFloat(64, float64(p))
}

// Fixed is a signed fixed-point field with I integer and F fraction bits.
type Fixed struct {
	I, F int
	V    float64
}

func (p Fixed) BitSize() int                       { return p.I + p.F }
func (p Fixed) PackInto(b *bitbuf.BitBuffer) error { return b.WriteFixed(p.I, p.F, p.V) }

// Ufixed is the unsigned counterpart of Fixed.
type Ufixed struct {
	I, F int
	V    float64
}

func (p Ufixed) BitSize() int                       { return p.I + p.F }
func (p Ufixed) PackInto(b *bitbuf.BitBuffer) error { return b.WriteUfixed(p.I, p.F, p.V) }

// Bytes is a run of raw bytes with no length prefix.
type Bytes []byte

func (p Bytes) BitSize() int { return 8 * len(p) }
func (p Bytes) PackInto(b *bitbuf.BitBuffer) error {
	b.WriteBytes(p)
	return nil
}

// String is a UTF-8 string behind a StringLenBits length prefix.
type String string

func (p String) BitSize() int { return StringLenBits + 8*len(p) }
func (p String) PackInto(b *bitbuf.BitBuffer) error {
	if len(p) >= 1<<StringLenBits {
		return fmt.Errorf("packable: string of %d bytes exceeds the %d-bit prefix: %w", len(p), StringLenBits, types.ErrOutOfRange)
	}
	if err := b.WriteUint(StringLenBits, uint64(len(p))); err != nil {
		return err
	}
	b.WriteBytes([]byte(p))
	return nil
}

// Pad skips Bits zero bits.
type Pad struct {
	Bits int
}

func (p Pad) BitSize() int { return p.Bits }
func (p Pad) PackInto(b *bitbuf.BitBuffer) error {
	if p.Bits < 0 {
		return fmt.Errorf("packable: pad of %d bits: %w", p.Bits, types.ErrInvalidArgument)
	}
	b.Pad(p.Bits, true)
	return nil
}
