// Package scheme describes bit-packed record layouts as trees of Schemes,
// encodes loosely typed values through them and decodes packed bytes back.
package scheme

import (
	"fmt"
	"math/bits"

	"github.com/quickwritereader/PackBits/packable"
	"github.com/quickwritereader/PackBits/types"
)

// VariableSize is returned by BitSize for schemes whose width depends on the
// value.
const VariableSize = -1

// Scheme is one node of a record layout.
type Scheme interface {
	// BitSize returns the packed width, or VariableSize.
	BitSize() int
	Encode(v any) (packable.Packable, error)
	Decode(u *packable.Unpacker) (any, error)
}

type SchemeUint struct{ Bits int }

func (s SchemeUint) BitSize() int { return s.Bits }
func (s SchemeUint) Encode(v any) (packable.Packable, error) {
	n, ok := asUint64(v)
	if !ok {
		return nil, typeErr("uint", v)
	}
	return packable.Uint{Bits: s.Bits, V: n}, nil
}
func (s SchemeUint) Decode(u *packable.Unpacker) (any, error) {
	v := u.Uint(s.Bits)
	return v, u.Err()
}

type SchemeInt struct{ Bits int }

func (s SchemeInt) BitSize() int { return s.Bits }
func (s SchemeInt) Encode(v any) (packable.Packable, error) {
	n, ok := asInt64(v)
	if !ok {
		return nil, typeErr("int", v)
	}
	return packable.Int{Bits: s.Bits, V: n}, nil
}
func (s SchemeInt) Decode(u *packable.Unpacker) (any, error) {
	v := u.Int(s.Bits)
	return v, u.Err()
}

type SchemeBool struct{}

func (s SchemeBool) BitSize() int { return 1 }
func (s SchemeBool) Encode(v any) (packable.Packable, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, typeErr("bool", v)
	}
	return packable.Bool(b), nil
}
func (s SchemeBool) Decode(u *packable.Unpacker) (any, error) {
	v := u.Bool()
	return v, u.Err()
}

type SchemeByte struct{}

func (s SchemeByte) BitSize() int { return 8 }
func (s SchemeByte) Encode(v any) (packable.Packable, error) {
	n, ok := asUint64(v)
	if !ok || n > 0xFF {
		return nil, typeErr("byte", v)
	}
	return packable.Byte(n), nil
}
func (s SchemeByte) Decode(u *packable.Unpacker) (any, error) {
	v := u.Byte()
	return v, u.Err()
}

// SchemeFloat is an IEEE-754 value of Size 32 or 64.
type SchemeFloat struct{ Size int }

func (s SchemeFloat) BitSize() int { return s.Size }
func (s SchemeFloat) Encode(v any) (packable.Packable, error) {
	f, ok := asFloat64(v)
	if !ok {
		return nil, typeErr("float", v)
	}
	if s.Size == 32 {
		return packable.Float32(f), nil
	}
	return packable.Float64(f), nil
}
func (s SchemeFloat) Decode(u *packable.Unpacker) (any, error) {
	v := u.Float(s.Size)
	return v, u.Err()
}

// SchemeFixed is fixed point with I integer and F fraction bits.
type SchemeFixed struct {
	I, F   int
	Signed bool
}

func (s SchemeFixed) BitSize() int { return s.I + s.F }
func (s SchemeFixed) Encode(v any) (packable.Packable, error) {
	f, ok := asFloat64(v)
	if !ok {
		return nil, typeErr("fixed", v)
	}
	if s.Signed {
		return packable.Fixed{I: s.I, F: s.F, V: f}, nil
	}
	return packable.Ufixed{I: s.I, F: s.F, V: f}, nil
}
func (s SchemeFixed) Decode(u *packable.Unpacker) (any, error) {
	var v float64
	if s.Signed {
		v = u.Fixed(s.I, s.F)
	} else {
		v = u.Ufixed(s.I, s.F)
	}
	return v, u.Err()
}

// SchemeBytes is exactly Width raw bytes.
type SchemeBytes struct{ Width int }

func (s SchemeBytes) BitSize() int { return 8 * s.Width }
func (s SchemeBytes) Encode(v any) (packable.Packable, error) {
	var p []byte
	switch b := v.(type) {
	case []byte:
		p = b
	case string:
		p = []byte(b)
	default:
		return nil, typeErr("bytes", v)
	}
	if len(p) != s.Width {
		return nil, fmt.Errorf("scheme: bytes: got %d bytes, want %d: %w", len(p), s.Width, types.ErrOutOfRange)
	}
	return packable.Bytes(p), nil
}
func (s SchemeBytes) Decode(u *packable.Unpacker) (any, error) {
	v := u.Bytes(s.Width)
	return v, u.Err()
}

// SchemeString is a length-prefixed string.
type SchemeString struct{}

func (s SchemeString) BitSize() int { return VariableSize }
func (s SchemeString) Encode(v any) (packable.Packable, error) {
	str, ok := v.(string)
	if !ok {
		return nil, typeErr("string", v)
	}
	return packable.String(str), nil
}
func (s SchemeString) Decode(u *packable.Unpacker) (any, error) {
	v := u.Text()
	return v, u.Err()
}

// SchemePad reserves Bits zero bits. It ignores the value it is given and
// decodes to nil; tuples leave pads out of their decoded output.
type SchemePad struct{ Bits int }

func (s SchemePad) BitSize() int { return s.Bits }
func (s SchemePad) Encode(any) (packable.Packable, error) {
	return packable.Pad{Bits: s.Bits}, nil
}
func (s SchemePad) Decode(u *packable.Unpacker) (any, error) {
	u.Pad(s.Bits)
	return nil, u.Err()
}

// SchemeEnum packs one of Names as its index in the fewest bits that can hold
// every index.
type SchemeEnum struct{ Names []string }

func (s SchemeEnum) BitSize() int {
	if len(s.Names) <= 1 {
		return 0
	}
	return bits.Len(uint(len(s.Names) - 1))
}
func (s SchemeEnum) Encode(v any) (packable.Packable, error) {
	name, ok := v.(string)
	if !ok {
		return nil, typeErr("enum", v)
	}
	for i, n := range s.Names {
		if n == name {
			return packable.Uint{Bits: s.BitSize(), V: uint64(i)}, nil
		}
	}
	return nil, fmt.Errorf("scheme: enum: %q is not one of %v: %w", name, s.Names, types.ErrInvalidArgument)
}
func (s SchemeEnum) Decode(u *packable.Unpacker) (any, error) {
	i := u.Uint(s.BitSize())
	if err := u.Err(); err != nil {
		return nil, err
	}
	if i >= uint64(len(s.Names)) {
		return nil, fmt.Errorf("scheme: enum: index %d of %d names: %w", i, len(s.Names), types.ErrOutOfRange)
	}
	return s.Names[i], nil
}

func SUint(bits int) Scheme        { return SchemeUint{Bits: bits} }
func SInt(bits int) Scheme         { return SchemeInt{Bits: bits} }
func SFixed(i, f int) Scheme       { return SchemeFixed{I: i, F: f, Signed: true} }
func SUfixed(i, f int) Scheme      { return SchemeFixed{I: i, F: f} }
func SBytes(width int) Scheme      { return SchemeBytes{Width: width} }
func SPad(bits int) Scheme         { return SchemePad{Bits: bits} }
func SEnum(names ...string) Scheme { return SchemeEnum{Names: names} }

var (
	SBool    Scheme = SchemeBool{}
	SByte    Scheme = SchemeByte{}
	SFloat32 Scheme = SchemeFloat{Size: 32}
	SFloat64 Scheme = SchemeFloat{Size: 64}
	SString  Scheme = SchemeString{}
)
