package bitbuf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/quickwritereader/PackBits/types"
)

// WriteUint writes v modulo 2^size as an unsigned integer, size in [0, 53].
func (b *BitBuffer) WriteUint(size int, v uint64) error {
	if err := checkWidth("WriteUint", size, MaxBits); err != nil {
		return err
	}
	b.writeUint(size, v)
	return nil
}

// ReadUint reads an unsigned integer of size bits, size in [0, 53].
func (b *BitBuffer) ReadUint(size int) (uint64, error) {
	if err := checkWidth("ReadUint", size, MaxBits); err != nil {
		return 0, err
	}
	return b.readUint(size), nil
}

// WriteInt writes v in size-bit two's complement, size in [0, 53].
func (b *BitBuffer) WriteInt(size int, v int64) error {
	if err := checkWidth("WriteInt", size, MaxBits); err != nil {
		return err
	}
	b.writeUint(size, uint64(v))
	return nil
}

// ReadInt reads a size-bit two's complement integer, size in [0, 53].
func (b *BitBuffer) ReadInt(size int) (int64, error) {
	if err := checkWidth("ReadInt", size, MaxBits); err != nil {
		return 0, err
	}
	return b.readInt(size), nil
}

func (b *BitBuffer) WriteBool(v bool) {
	var bit uint32
	if v {
		bit = 1
	}
	b.writeUnit(1, bit)
}

func (b *BitBuffer) ReadBool() bool {
	return b.readUnit(1) == 1
}

// WriteByte writes 8 bits. It never fails; the error satisfies io.ByteWriter.
func (b *BitBuffer) WriteByte(c byte) error {
	b.writeUnit(8, uint32(c))
	return nil
}

// ReadByte reads 8 bits. It never fails; the error satisfies io.ByteReader.
func (b *BitBuffer) ReadByte() (byte, error) {
	return byte(b.readUnit(8)), nil
}

// WriteFloat writes v as IEEE-754 binary32 or binary64 in little-endian byte
// order. size must be 32 or 64.
func (b *BitBuffer) WriteFloat(size int, v float64) error {
	var tmp [8]byte
	switch size {
	case 32:
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(float32(v)))
		b.writeBytes(tmp[:4])
	case 64:
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
		b.writeBytes(tmp[:])
	default:
		return fmt.Errorf("bitbuf: WriteFloat: size %d is not 32 or 64: %w", size, types.ErrInvalidArgument)
	}
	return nil
}

// ReadFloat reads an IEEE-754 binary32 or binary64 value. size must be 32 or 64.
func (b *BitBuffer) ReadFloat(size int) (float64, error) {
	var tmp [8]byte
	switch size {
	case 32:
		b.readBytes(tmp[:4])
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(tmp[:]))), nil
	case 64:
		b.readBytes(tmp[:])
		return math.Float64frombits(binary.LittleEndian.Uint64(tmp[:])), nil
	default:
		return 0, fmt.Errorf("bitbuf: ReadFloat: size %d is not 32 or 64: %w", size, types.ErrInvalidArgument)
	}
}

// WriteUfixed writes v as unsigned fixed point with i integer and f fractional
// bits. The scaled value is floored, then taken modulo 2^(i+f).
func (b *BitBuffer) WriteUfixed(i, f int, v float64) error {
	raw, err := scaleFixed("WriteUfixed", i, f, v)
	if err != nil {
		return err
	}
	b.writeUint(i+f, raw)
	return nil
}

func (b *BitBuffer) ReadUfixed(i, f int) (float64, error) {
	if err := checkFixed("ReadUfixed", i, f); err != nil {
		return 0, err
	}
	return math.Ldexp(float64(b.readUint(i+f)), -f), nil
}

// WriteFixed writes v as signed fixed point with i integer and f fractional
// bits in two's complement. The scaled value is floored, so -0.1 at f=4
// encodes as -2/16.
func (b *BitBuffer) WriteFixed(i, f int, v float64) error {
	raw, err := scaleFixed("WriteFixed", i, f, v)
	if err != nil {
		return err
	}
	b.writeUint(i+f, raw)
	return nil
}

func (b *BitBuffer) ReadFixed(i, f int) (float64, error) {
	if err := checkFixed("ReadFixed", i, f); err != nil {
		return 0, err
	}
	return math.Ldexp(float64(b.readInt(i+f)), -f), nil
}

func (b *BitBuffer) writeUint(size int, v uint64) {
	if size > MaxUnitBits {
		b.writeUnit(MaxUnitBits, uint32(v))
		b.writeUnit(size-MaxUnitBits, uint32(v>>MaxUnitBits))
		return
	}
	b.writeUnit(size, uint32(v))
}

func (b *BitBuffer) readUint(size int) uint64 {
	if size > MaxUnitBits {
		lo := b.readUnit(MaxUnitBits)
		hi := b.readUnit(size - MaxUnitBits)
		return uint64(hi)<<MaxUnitBits | uint64(lo)
	}
	return uint64(b.readUnit(size))
}

func (b *BitBuffer) readInt(size int) int64 {
	raw := b.readUint(size)
	if size > 0 && raw >= uint64(1)<<(size-1) {
		return int64(raw) - int64(1)<<size
	}
	return int64(raw)
}

func checkFixed(op string, i, f int) error {
	if i < 0 || f < 0 || i+f > MaxBits {
		return fmt.Errorf("bitbuf: %s: i=%d f=%d, need i,f >= 0 and i+f <= %d: %w", op, i, f, MaxBits, types.ErrInvalidArgument)
	}
	return nil
}

// scaleFixed returns floor(v * 2^f) modulo 2^(i+f).
func scaleFixed(op string, i, f int, v float64) (uint64, error) {
	if err := checkFixed(op, i, f); err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bitbuf: %s: value %v is not finite: %w", op, v, types.ErrInvalidArgument)
	}
	n := math.Floor(math.Ldexp(v, f))
	if math.IsInf(n, 0) {
		// overflowed float64, so the scaled value is a multiple of 2^MaxBits
		return 0, nil
	}
	p := math.Ldexp(1, i+f)
	m := math.Mod(n, p)
	if m < 0 {
		m += p
	}
	return uint64(m), nil
}
