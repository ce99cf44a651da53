// Package typedslice provides bounds-checked typed views over a shared byte
// array, with Go slice semantics: sub-slices alias their parent, and Append
// grows in place while capacity allows, otherwise it copies into a new array
// and leaves the old one untouched.
//
// Slices are not safe for concurrent mutation.
package typedslice

import (
	"fmt"

	"github.com/quickwritereader/PackBits/types"
)

// Definition describes a fixed-size element encoding. Read and Write receive
// exactly Size bytes.
type Definition[T any] struct {
	Name  string
	Size  int
	Read  func(b []byte) T
	Write func(b []byte, v T)
}

// Codec is a validated Definition shared by every slice of its element type.
// Two slices are compatible only when they share the same *Codec.
type Codec[T any] struct {
	name  string
	size  int
	read  func(b []byte) T
	write func(b []byte, v T)
}

// MakeFunc builds a slice of the given length and capacity.
type MakeFunc[T any] func(length, capacity int) (Slice[T], error)

// Maker validates def and returns the codec used to build slices of it.
func Maker[T any](def Definition[T]) (*Codec[T], error) {
	switch {
	case def.Name == "":
		return nil, fmt.Errorf("typedslice: Maker: empty name: %w", types.ErrInvalidArgument)
	case def.Size < 0:
		return nil, fmt.Errorf("typedslice: Maker: %s: negative size %d: %w", def.Name, def.Size, types.ErrInvalidArgument)
	case def.Read == nil || def.Write == nil:
		return nil, fmt.Errorf("typedslice: Maker: %s: read and write are required: %w", def.Name, types.ErrInvalidArgument)
	}
	return &Codec[T]{
		name:  def.Name,
		size:  def.Size,
		read:  def.Read,
		write: def.Write,
	}, nil
}

// MustMaker is Maker for package-level codecs; it panics on an invalid definition.
func MustMaker[T any](def Definition[T]) *Codec[T] {
	c, err := Maker(def)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codec[T]) Name() string { return c.name }
func (c *Codec[T]) Size() int    { return c.size }

// Make returns a slice with length and capacity n.
func (c *Codec[T]) Make(n int) (Slice[T], error) {
	return c.MakeCap(n, n)
}

// MakeCap returns a zeroed slice of length n and capacity capacity. It
// satisfies MakeFunc.
func (c *Codec[T]) MakeCap(n, capacity int) (Slice[T], error) {
	if n < 0 || n > capacity {
		return Slice[T]{}, fmt.Errorf("typedslice: Make: %s: need 0 <= len(%d) <= cap(%d): %w", c.name, n, capacity, types.ErrOutOfRange)
	}
	arr, err := c.alloc(capacity)
	if err != nil {
		return Slice[T]{}, fmt.Errorf("typedslice: Make: %w", err)
	}
	return Slice[T]{codec: c, arr: arr, length: n, capacity: capacity}, nil
}

// alloc returns a zeroed backing array for capacity elements.
func (c *Codec[T]) alloc(capacity int) (*backing, error) {
	if c.size == 0 {
		return emptyBacking, nil
	}
	n, err := byteSize(c.name, capacity, c.size)
	if err != nil {
		return nil, err
	}
	return &backing{data: make([]byte, n)}, nil
}

func (c *Codec[T]) String() string {
	return fmt.Sprintf("%s:%d", c.name, c.size)
}
