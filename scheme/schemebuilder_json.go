package scheme

import (
	"bytes"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/quickwritereader/PackBits/bitbuf"
	"github.com/quickwritereader/PackBits/types"
)

// SchemeJSON is the serializable description of a Scheme.
type SchemeJSON struct {
	Type       string       `json:"type" yaml:"type"`
	Bits       int          `json:"bits,omitempty" yaml:"bits,omitempty"`
	Int        int          `json:"int,omitempty" yaml:"int,omitempty"`
	Frac       int          `json:"frac,omitempty" yaml:"frac,omitempty"`
	Width      int          `json:"width,omitempty" yaml:"width,omitempty"`
	Min        int          `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *int         `json:"max,omitempty" yaml:"max,omitempty"`
	FieldNames []string     `json:"fieldNames,omitempty" yaml:"fieldNames,omitempty"`
	Schema     []SchemeJSON `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Builder turns a description into a Scheme.
type Builder func(SchemeJSON) (Scheme, error)

var (
	customMu       sync.RWMutex
	customBuilders = map[string]Builder{}
)

var builtinTypes = map[string]bool{
	"uint": true, "int": true, "bool": true, "byte": true,
	"float32": true, "float64": true, "fixed": true, "ufixed": true,
	"bytes": true, "string": true, "pad": true, "enum": true,
	"tuple": true, "repeat": true,
}

// RegisterSchemeType adds a builder for a custom type name. Names are case
// sensitive and may not shadow a built-in or an existing registration.
func RegisterSchemeType(typeName string, b Builder) error {
	if typeName == "" || b == nil {
		return fmt.Errorf("scheme: register %q: empty name or nil builder: %w", typeName, types.ErrInvalidArgument)
	}
	customMu.Lock()
	defer customMu.Unlock()
	if _, exists := customBuilders[typeName]; exists || builtinTypes[typeName] {
		return fmt.Errorf("scheme: type %q already registered: %w", typeName, types.ErrInvalidArgument)
	}
	customBuilders[typeName] = b
	return nil
}

// UnregisterSchemeType removes a custom builder. Unknown names are ignored.
func UnregisterSchemeType(typeName string) {
	customMu.Lock()
	delete(customBuilders, typeName)
	customMu.Unlock()
}

// BuildScheme constructs the Scheme described by js:
//
//   - "uint", "int"      → SUint / SInt of Bits
//   - "bool", "byte"     → SBool / SByte
//   - "float32/64"       → SFloat32 / SFloat64
//   - "fixed", "ufixed"  → SFixed / SUfixed of Int and Frac bits
//   - "bytes"            → SBytes of Width
//   - "string"           → SString
//   - "pad"              → SPad of Bits
//   - "enum"             → SEnum of FieldNames
//   - "tuple"            → STuple, or STupleNamed when FieldNames is set
//   - "repeat"           → SRepeat of Schema[0], Bits wide count, Min and Max
//
// Other names go to the custom registry. Widths are checked here so a bad
// description fails at build time rather than on first use.
func BuildScheme(js SchemeJSON) (Scheme, error) {
	switch js.Type {
	case "uint", "int":
		if err := checkBits(js.Type, js.Bits); err != nil {
			return nil, err
		}
		if js.Type == "uint" {
			return SUint(js.Bits), nil
		}
		return SInt(js.Bits), nil
	case "bool":
		return SBool, nil
	case "byte":
		return SByte, nil
	case "float32":
		return SFloat32, nil
	case "float64":
		return SFloat64, nil
	case "fixed", "ufixed":
		if js.Int < 0 || js.Frac < 0 {
			return nil, fmt.Errorf("scheme: %s: negative int or frac bits: %w", js.Type, types.ErrInvalidArgument)
		}
		if err := checkBits(js.Type, js.Int+js.Frac); err != nil {
			return nil, err
		}
		if js.Type == "fixed" {
			return SFixed(js.Int, js.Frac), nil
		}
		return SUfixed(js.Int, js.Frac), nil
	case "bytes":
		if js.Width < 0 {
			return nil, fmt.Errorf("scheme: bytes: negative width %d: %w", js.Width, types.ErrInvalidArgument)
		}
		return SBytes(js.Width), nil
	case "string":
		return SString, nil
	case "pad":
		if js.Bits < 0 {
			return nil, fmt.Errorf("scheme: pad: negative width %d: %w", js.Bits, types.ErrInvalidArgument)
		}
		return SPad(js.Bits), nil
	case "enum":
		if len(js.FieldNames) == 0 {
			return nil, fmt.Errorf("scheme: enum: no names: %w", types.ErrInvalidArgument)
		}
		return SEnum(js.FieldNames...), nil
	case "tuple":
		fields, err := buildSchemas(js.Schema)
		if err != nil {
			return nil, err
		}
		if js.FieldNames == nil {
			return STuple(fields...), nil
		}
		if len(js.FieldNames) != len(fields) {
			return nil, fmt.Errorf("scheme: tuple: %d names for %d fields: %w", len(js.FieldNames), len(fields), types.ErrInvalidArgument)
		}
		return STupleNamed(js.FieldNames, fields...), nil
	case "repeat":
		if len(js.Schema) != 1 {
			return nil, fmt.Errorf("scheme: repeat: want 1 element scheme, got %d: %w", len(js.Schema), types.ErrInvalidArgument)
		}
		if err := checkBits(js.Type, js.Bits); err != nil {
			return nil, err
		}
		elem, err := BuildScheme(js.Schema[0])
		if err != nil {
			return nil, err
		}
		maxCount := -1
		if js.Max != nil {
			maxCount = *js.Max
		}
		if elem.BitSize() == 0 && maxCount < 0 {
			return nil, errZeroWidthRepeat()
		}
		return SRepeat(js.Bits, js.Min, maxCount, elem), nil
	}

	customMu.RLock()
	b, ok := customBuilders[js.Type]
	customMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scheme: unknown type %q: %w", js.Type, types.ErrInvalidArgument)
	}
	return b(js)
}

func buildSchemas(list []SchemeJSON) ([]Scheme, error) {
	out := make([]Scheme, len(list))
	for i, sub := range list {
		s, err := BuildScheme(sub)
		if err != nil {
			return nil, fmt.Errorf("schema[%d]: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

func checkBits(typeName string, n int) error {
	if n < 0 || n > bitbuf.MaxBits {
		return fmt.Errorf("scheme: %s: width %d outside [0, %d]: %w", typeName, n, bitbuf.MaxBits, types.ErrInvalidArgument)
	}
	return nil
}

// ParseJSON builds a Scheme from its JSON description. Unknown keys are
// rejected.
func ParseJSON(data []byte) (Scheme, error) {
	var js SchemeJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&js); err != nil {
		return nil, fmt.Errorf("scheme: parse json: %w", err)
	}
	return BuildScheme(js)
}

// ParseYAML builds a Scheme from its YAML description. Unknown keys are
// rejected.
func ParseYAML(data []byte) (Scheme, error) {
	var js SchemeJSON
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&js); err != nil {
		return nil, fmt.Errorf("scheme: parse yaml: %w", err)
	}
	return BuildScheme(js)
}
