// Package packable describes bit-packed records as lists of typed fields and
// packs them into a bitbuf.BitBuffer in one pass.
package packable

import (
	"fmt"

	"github.com/quickwritereader/PackBits/bitbuf"
	"github.com/quickwritereader/PackBits/types"
)

// Packable is a field that knows its width in bits and how to write itself.
type Packable interface {
	BitSize() int
	PackInto(b *bitbuf.BitBuffer) error
}

// Container packs its fields back to back with no framing.
type Container []Packable

func NewContainer(args ...Packable) Container {
	return Container(args)
}

// BitSize returns the summed width of every field.
func (c Container) BitSize() int {
	n := 0
	for _, arg := range c {
		if arg != nil {
			n += arg.BitSize()
		}
	}
	return n
}

// PackInto writes every field in order, stopping at the first error.
func (c Container) PackInto(b *bitbuf.BitBuffer) error {
	for i, arg := range c {
		if arg == nil {
			return fmt.Errorf("packable: field %d is nil: %w", i, types.ErrInvalidArgument)
		}
		if err := arg.PackInto(b); err != nil {
			return fmt.Errorf("packable: field %d: %w", i, err)
		}
	}
	return nil
}

// Pack sizes a buffer for args, packs them and returns the byte string.
// The last byte is zero padded.
func Pack(args ...Packable) ([]byte, error) {
	c := Container(args)
	b := bitbuf.New(c.BitSize())
	if err := c.PackInto(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// PackBuffer is Pack for callers that keep writing after the record.
func PackBuffer(args ...Packable) (*bitbuf.BitBuffer, error) {
	c := Container(args)
	b := bitbuf.New(c.BitSize())
	if err := c.PackInto(b); err != nil {
		return nil, err
	}
	return b, nil
}
