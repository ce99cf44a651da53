package packable

import (
	"fmt"

	"github.com/quickwritereader/PackBits/bitbuf"
	"github.com/quickwritereader/PackBits/types"
	"github.com/quickwritereader/PackBits/utils"
)

// MapLenBits is the width of the entry count written before a map.
const MapLenBits = 16

// MapSorted packs an entry count, then each key as a String followed by its
// value, with keys in ascending order so equal maps pack to equal bytes.
type MapSorted map[string]Packable

func (p MapSorted) BitSize() int {
	n := MapLenBits
	for k, v := range p {
		n += String(k).BitSize()
		if v != nil {
			n += v.BitSize()
		}
	}
	return n
}

func (p MapSorted) PackInto(b *bitbuf.BitBuffer) error {
	if len(p) >= 1<<MapLenBits {
		return fmt.Errorf("packable: map of %d entries exceeds the %d-bit count: %w", len(p), MapLenBits, types.ErrOutOfRange)
	}
	if err := b.WriteUint(MapLenBits, uint64(len(p))); err != nil {
		return err
	}
	for _, k := range utils.SortKeys(p) {
		if err := String(k).PackInto(b); err != nil {
			return err
		}
		v := p[k]
		if v == nil {
			return fmt.Errorf("packable: map value %q is nil: %w", k, types.ErrInvalidArgument)
		}
		if err := v.PackInto(b); err != nil {
			return fmt.Errorf("packable: map value %q: %w", k, err)
		}
	}
	return nil
}

// MapUint packs a string to unsigned map with every value Bits wide.
type MapUint struct {
	Bits int
	M    map[string]uint64
}

func (p MapUint) BitSize() int {
	n := MapLenBits
	for k := range p.M {
		n += String(k).BitSize() + p.Bits
	}
	return n
}

func (p MapUint) PackInto(b *bitbuf.BitBuffer) error {
	m := make(MapSorted, len(p.M))
	for k, v := range p.M {
		m[k] = Uint{Bits: p.Bits, V: v}
	}
	return m.PackInto(b)
}
