package scheme

import (
	"fmt"

	"github.com/quickwritereader/PackBits/packable"
	"github.com/quickwritereader/PackBits/types"
)

// SchemeTuple packs its fields back to back. With Names set it encodes from a
// *types.Record or map[string]any and decodes to a *types.Record; without
// Names it works on []any. Pad fields take no input value and produce none.
type SchemeTuple struct {
	Names  []string
	Fields []Scheme
}

func STuple(fields ...Scheme) Scheme {
	return SchemeTuple{Fields: fields}
}

// STupleNamed pairs names with fields. Pad fields still need a placeholder
// name so the two lists line up.
func STupleNamed(names []string, fields ...Scheme) Scheme {
	return SchemeTuple{Names: names, Fields: fields}
}

func (s SchemeTuple) BitSize() int {
	n := 0
	for _, f := range s.Fields {
		w := f.BitSize()
		if w == VariableSize {
			return VariableSize
		}
		n += w
	}
	return n
}

func (s SchemeTuple) checkNames() error {
	if s.Names != nil && len(s.Names) != len(s.Fields) {
		return fmt.Errorf("scheme: tuple: %d names for %d fields: %w", len(s.Names), len(s.Fields), types.ErrInvalidArgument)
	}
	return nil
}

func (s SchemeTuple) Encode(v any) (packable.Packable, error) {
	if err := s.checkNames(); err != nil {
		return nil, err
	}
	if s.Names != nil {
		return s.encodeNamed(v)
	}
	values, ok := v.([]any)
	if !ok {
		return nil, typeErr("tuple", v)
	}
	out := make(packable.Container, 0, len(s.Fields))
	k := 0
	for i, f := range s.Fields {
		var fv any
		if _, pad := f.(SchemePad); !pad {
			if k >= len(values) {
				return nil, fmt.Errorf("scheme: tuple: %d values for %d fields: %w", len(values), len(s.Fields), types.ErrOutOfRange)
			}
			fv = values[k]
			k++
		}
		p, err := f.Encode(fv)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		out = append(out, p)
	}
	if k != len(values) {
		return nil, fmt.Errorf("scheme: tuple: %d values for %d fields: %w", len(values), k, types.ErrOutOfRange)
	}
	return out, nil
}

func (s SchemeTuple) encodeNamed(v any) (packable.Packable, error) {
	var get func(string) (any, bool)
	switch r := v.(type) {
	case *types.Record:
		get = r.Get
	case map[string]any:
		get = func(name string) (any, bool) {
			fv, ok := r[name]
			return fv, ok
		}
	default:
		return nil, typeErr("named tuple", v)
	}
	out := make(packable.Container, 0, len(s.Fields))
	for i, f := range s.Fields {
		name := s.Names[i]
		var fv any
		if _, pad := f.(SchemePad); !pad {
			var ok bool
			if fv, ok = get(name); !ok {
				return nil, fmt.Errorf("scheme: tuple: missing field %q: %w", name, types.ErrInvalidArgument)
			}
		}
		p, err := f.Encode(fv)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s SchemeTuple) Decode(u *packable.Unpacker) (any, error) {
	if err := s.checkNames(); err != nil {
		return nil, err
	}
	if s.Names != nil {
		r := types.NewRecord()
		for i, f := range s.Fields {
			v, err := f.Decode(u)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", s.Names[i], err)
			}
			if _, pad := f.(SchemePad); !pad {
				r.Set(s.Names[i], v)
			}
		}
		return r, nil
	}
	out := make([]any, 0, len(s.Fields))
	for i, f := range s.Fields {
		v, err := f.Decode(u)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		if _, pad := f.(SchemePad); !pad {
			out = append(out, v)
		}
	}
	return out, nil
}

// SchemeRepeat packs a CountBits element count followed by that many
// elements, each between Min and Max inclusive. A negative Max means no upper
// bound beyond what CountBits can hold.
type SchemeRepeat struct {
	CountBits int
	Min, Max  int
	Elem      Scheme
}

func SRepeat(countBits, minCount, maxCount int, elem Scheme) Scheme {
	return SchemeRepeat{CountBits: countBits, Min: minCount, Max: maxCount, Elem: elem}
}

func (s SchemeRepeat) BitSize() int { return VariableSize }

func (s SchemeRepeat) check(n int) error {
	if n < s.Min || (s.Max >= 0 && n > s.Max) || (s.CountBits < 64 && uint64(n) >= 1<<uint(s.CountBits)) {
		return fmt.Errorf("scheme: repeat: %d elements outside [%d, %d] or %d-bit count: %w", n, s.Min, s.Max, s.CountBits, types.ErrOutOfRange)
	}
	return nil
}

// errZeroWidthRepeat reports a repeat whose elements take no input bits and
// whose count is therefore bounded only by Max.
func errZeroWidthRepeat() error {
	return fmt.Errorf("scheme: repeat: zero-width elements need a finite max: %w", types.ErrInvalidArgument)
}

func (s SchemeRepeat) Encode(v any) (packable.Packable, error) {
	values, ok := v.([]any)
	if !ok {
		return nil, typeErr("repeat", v)
	}
	if err := s.check(len(values)); err != nil {
		return nil, err
	}
	out := make(packable.Container, 0, len(values)+1)
	out = append(out, packable.Uint{Bits: s.CountBits, V: uint64(len(values))})
	for i, ev := range values {
		p, err := s.Elem.Encode(ev)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s SchemeRepeat) Decode(u *packable.Unpacker) (any, error) {
	n := u.Uint(s.CountBits)
	if err := u.Err(); err != nil {
		return nil, err
	}
	if s.Elem.BitSize() == 0 {
		if s.Max < 0 {
			return nil, errZeroWidthRepeat()
		}
	} else if n > uint64(u.Remaining()) {
		return nil, fmt.Errorf("scheme: repeat: count %d exceeds remaining input: %w", n, types.ErrOutOfRange)
	}
	if err := s.check(int(n)); err != nil {
		return nil, err
	}
	out := make([]any, 0, min(n, uint64(u.Remaining())+1))
	for i := 0; i < int(n); i++ {
		v, err := s.Elem.Decode(u)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode packs v through s into a byte string.
func Encode(s Scheme, v any) ([]byte, error) {
	p, err := s.Encode(v)
	if err != nil {
		return nil, err
	}
	return packable.Pack(p)
}

// Decode unpacks one value of s from the start of buf.
func Decode(buf []byte, s Scheme) (any, error) {
	return s.Decode(packable.NewUnpacker(buf))
}
