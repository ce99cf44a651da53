package typedslice

import (
	"encoding/binary"
	"math"
)

// Little-endian codecs for the fixed-size Go primitives.
var (
	Int8 = MustMaker(Definition[int8]{
		Name:  "int8",
		Size:  1,
		Read:  func(b []byte) int8 { return int8(b[0]) },
		Write: func(b []byte, v int8) { b[0] = byte(v) },
	})
	Uint8 = MustMaker(Definition[uint8]{
		Name:  "uint8",
		Size:  1,
		Read:  func(b []byte) uint8 { return b[0] },
		Write: func(b []byte, v uint8) { b[0] = v },
	})
	Int16 = MustMaker(Definition[int16]{
		Name:  "int16",
		Size:  2,
		Read:  func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) },
		Write: func(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) },
	})
	Uint16 = MustMaker(Definition[uint16]{
		Name:  "uint16",
		Size:  2,
		Read:  binary.LittleEndian.Uint16,
		Write: binary.LittleEndian.PutUint16,
	})
	Int32 = MustMaker(Definition[int32]{
		Name:  "int32",
		Size:  4,
		Read:  func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) },
		Write: func(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) },
	})
	Uint32 = MustMaker(Definition[uint32]{
		Name:  "uint32",
		Size:  4,
		Read:  binary.LittleEndian.Uint32,
		Write: binary.LittleEndian.PutUint32,
	})
	Int64 = MustMaker(Definition[int64]{
		Name:  "int64",
		Size:  8,
		Read:  func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) },
		Write: func(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) },
	})
	Uint64 = MustMaker(Definition[uint64]{
		Name:  "uint64",
		Size:  8,
		Read:  binary.LittleEndian.Uint64,
		Write: binary.LittleEndian.PutUint64,
	})
	Float32 = MustMaker(Definition[float32]{
		Name:  "float32",
		Size:  4,
		Read:  func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) },
		Write: func(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) },
	})
	Float64 = MustMaker(Definition[float64]{
		Name:  "float64",
		Size:  8,
		Read:  func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) },
		Write: func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) },
	})
	Bool = MustMaker(Definition[bool]{
		Name: "bool",
		Size: 1,
		Read: func(b []byte) bool { return b[0] != 0 },
		Write: func(b []byte, v bool) {
			b[0] = 0
			if v {
				b[0] = 1
			}
		},
	})
)
