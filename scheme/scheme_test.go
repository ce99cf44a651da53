package scheme

import (
	"math"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickwritereader/PackBits/types"
)

func TestTuple_ExplicitByteMatch(t *testing.T) {
	s := STuple(SUint(3), SBool, SEnum("red", "green", "blue"), SPad(2), SInt(8))
	assert.Equal(t, 16, s.BitSize())

	actual, err := Encode(s, []any{5, true, "blue", -2})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2D, 0xFE}, actual)

	back, err := Decode(actual, s)
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(5), true, "blue", int64(-2)}, back)
}

func TestTuple_ValueCount(t *testing.T) {
	s := STuple(SBool, SBool)
	_, err := Encode(s, []any{true})
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = Encode(s, []any{true, false, true})
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = Encode(s, map[string]any{})
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
}

func TestTupleNamed(t *testing.T) {
	s := STupleNamed([]string{"id", "_", "ok", "name"}, SUint(10), SPad(5), SBool, SString)
	assert.Equal(t, VariableSize, s.BitSize())

	in := types.NewRecord(types.F("id", uint16(700)), types.F("ok", true), types.F("name", "gopher"))
	data, err := Encode(s, in)
	require.NoError(t, err)

	out, err := Decode(data, s)
	require.NoError(t, err)
	rec, ok := out.(*types.Record)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "ok", "name"}, rec.Names())
	assert.Equal(t, uint64(700), types.GetAs[uint64](rec, "id"))
	assert.Equal(t, "gopher", types.GetAs[string](rec, "name"))

	fromMap, err := Encode(s, map[string]any{"id": 700, "ok": true, "name": "gopher"})
	require.NoError(t, err)
	assert.Equal(t, data, fromMap)

	_, err = Encode(s, map[string]any{"id": 700, "ok": true})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestRepeat(t *testing.T) {
	s := SRepeat(4, 0, -1, SUfixed(4, 4))
	actual, err := Encode(s, []any{1.5, 0.25})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x41, 0x00}, actual)

	back, err := Decode(actual, s)
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, 0.25}, back)

	empty, err := Encode(s, []any{})
	require.NoError(t, err)
	back, err = Decode(empty, s)
	require.NoError(t, err)
	assert.Equal(t, []any{}, back)
}

func TestRepeat_Bounds(t *testing.T) {
	s := SRepeat(2, 1, 2, SByte)
	_, err := Encode(s, []any{})
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = Encode(s, []any{1, 2, 3})
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	wide := SRepeat(2, 0, -1, SByte)
	_, err = Encode(wide, []any{1, 2, 3, 4})
	assert.ErrorIs(t, err, types.ErrOutOfRange, "four does not fit a 2-bit count")

	_, err = Decode([]byte{0x0F}, SRepeat(4, 0, -1, SByte))
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestScalars_TypeMismatch(t *testing.T) {
	cases := []struct {
		s Scheme
		v any
	}{
		{SBool, "x"},
		{SUint(8), -1},
		{SUint(8), 1.5},
		{SInt(8), "1"},
		{SInt(8), uint64(math.MaxUint64)},
		{SByte, 256},
		{SFloat32, "pi"},
		{SFixed(4, 4), true},
		{SBytes(2), 7},
		{SString, []byte("x")},
		{SEnum("a"), 0},
		{SRepeat(4, 0, -1, SBool), []bool{true}},
	}
	for _, tc := range cases {
		_, err := tc.s.Encode(tc.v)
		assert.ErrorIs(t, err, types.ErrTypeMismatch, "%T with %#v", tc.s, tc.v)
	}
}

func TestScalars_RoundTrip(t *testing.T) {
	cases := []struct {
		s    Scheme
		in   any
		want any
	}{
		{SUint(53), float64(1 << 52), uint64(1 << 52)},
		{SInt(12), int8(-100), int64(-100)},
		{SByte, uint8('z'), byte('z')},
		{SFloat32, 0.5, 0.5},
		{SFloat64, -1e300, -1e300},
		{SFixed(4, 4), -2.5, -2.5},
		{SUfixed(2, 2), 3.75, 3.75},
		{SBytes(3), "abc", []byte("abc")},
		{SString, "", ""},
	}
	for _, tc := range cases {
		data, err := Encode(tc.s, tc.in)
		require.NoError(t, err, "%T", tc.s)
		got, err := Decode(data, tc.s)
		require.NoError(t, err, "%T", tc.s)
		assert.Equal(t, tc.want, got, "%T", tc.s)
	}
}

func TestEnum(t *testing.T) {
	assert.Equal(t, 0, SEnum("only").BitSize())
	assert.Equal(t, 1, SEnum("a", "b").BitSize())
	assert.Equal(t, 3, SEnum("a", "b", "c", "d", "e").BitSize())

	_, err := SEnum("a", "b").Encode("c")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = Decode([]byte{0x07}, SEnum("a", "b", "c", "d", "e"))
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	v, err := Decode(nil, SEnum("only"))
	require.NoError(t, err)
	assert.Equal(t, "only", v)
}

func TestBytes_WidthMismatch(t *testing.T) {
	_, err := SBytes(4).Encode([]byte{1, 2})
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestDecode_Truncated(t *testing.T) {
	_, err := Decode(nil, SUint(3))
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	_, err = Decode([]byte{0x01}, STuple(SBool, SFloat64))
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestDecode_RecordToJSON(t *testing.T) {
	s := STupleNamed([]string{"z", "a"}, SInt(6), SBool)
	data, err := Encode(s, map[string]any{"z": -31, "a": false})
	require.NoError(t, err)
	out, err := Decode(data, s)
	require.NoError(t, err)

	js, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, `{"z":-31,"a":false}`, string(js))
}

func TestTupleNamed_NameCountMismatch(t *testing.T) {
	s := STupleNamed([]string{"a"}, SUint(4), SUint(4))
	_, err := Encode(s, map[string]any{"a": 1})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = Decode([]byte{0xFF}, s)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = Encode(STupleNamed([]string{"a", "b"}, SBool), map[string]any{"a": true, "b": false})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestRepeat_ZeroWidthElements(t *testing.T) {
	_, err := Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, SRepeat(40, 0, -1, SPad(0)))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = Decode([]byte{0xFF}, SRepeat(8, 0, -1, STuple()))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	bounded := SRepeat(4, 0, 3, SEnum("only"))
	_, err = Decode([]byte{0x0F}, bounded)
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	v, err := Decode([]byte{0x02}, bounded)
	require.NoError(t, err)
	assert.Equal(t, []any{"only", "only"}, v)
}
