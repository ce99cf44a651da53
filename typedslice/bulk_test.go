package typedslice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/quickwritereader/PackBits/config"
	"github.com/quickwritereader/PackBits/types"
)

func TestNextCap(t *testing.T) {
	cases := []struct {
		oldCap, newLen, expect int
	}{
		{0, 1, 1},
		{0, 5, 5},
		{2, 3, 4},
		{2, 5, 5},
		{100, 150, 200},
		{255, 256, 510},
		{256, 257, 512},
		{300, 301, 567},
		{300, 600, 900},
		{300, 601, 601},
		{1000, 1500, 1994},
		{4096, 4097, 5312},
	}
	for _, tc := range cases {
		got, err := nextCap(tc.oldCap, tc.newLen)
		require.NoError(t, err)
		assert.Equal(t, tc.expect, got, "nextCap(%d, %d)", tc.oldCap, tc.newLen)
		assert.GreaterOrEqual(t, got, tc.newLen)
	}
}

func TestNextCap_Overflow(t *testing.T) {
	maxInt := int(^uint(0) >> 1)
	_, err := nextCap(maxInt-10, maxInt)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestAppend_SmallDoubles(t *testing.T) {
	s, err := Int32.MakeCap(2, 2)
	require.NoError(t, err)
	g, err := s.Append(9)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 4, g.Cap())
	assert.False(t, g.SameArray(s))
	assert.Equal(t, []int32{0, 0, 9}, g.ToTable())
}

func TestAppend_LargeGrowsByQuarterSteps(t *testing.T) {
	s, err := Uint8.MakeCap(300, 300)
	require.NoError(t, err)
	g, err := s.Append(1)
	require.NoError(t, err)
	assert.Equal(t, 301, g.Len())
	assert.Equal(t, 300+(300+3*256)/4, g.Cap())
	assert.NotEqual(t, 600, g.Cap())
}

func TestAppend_InPlace(t *testing.T) {
	s, err := Int32.MakeCap(1, 4)
	require.NoError(t, err)
	g, err := s.Append(5, 6)
	require.NoError(t, err)
	assert.True(t, g.SameArray(s))
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 4, g.Cap())
	assert.Equal(t, 1, s.Len(), "original header is unchanged")

	require.NoError(t, g.Write(0, 11))
	v, err := s.Read(0)
	require.NoError(t, err)
	assert.Equal(t, int32(11), v)
}

func TestAppend_Nothing(t *testing.T) {
	s := rangeOf(t, 3)
	g, err := s.Append()
	require.NoError(t, err)
	assert.Equal(t, s, g)

	var zero Slice[int32]
	_, err = zero.Append(1)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestAppend_OldArrayUntouched(t *testing.T) {
	s := rangeOf(t, 4)
	g, err := s.Append(4, 5, 6)
	require.NoError(t, err)
	require.NoError(t, g.Write(0, 100))
	assert.Equal(t, []int32{0, 1, 2, 3}, s.ToTable())
	assert.Equal(t, []int32{100, 1, 2, 3, 4, 5, 6}, g.ToTable())
}

func TestAppend_AllocationBound(t *testing.T) {
	require.NoError(t, SetLimits(config.Limits{MaxAllocBytes: 16}))
	defer func() { require.NoError(t, SetLimits(config.Default())) }()

	s, err := Uint32.Make(4)
	require.NoError(t, err)
	g, err := s.Append(1)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	assert.Equal(t, s, g)
}

func TestAppend_LogsReallocation(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	s, err := Int64.MakeCap(0, 1)
	require.NoError(t, err)
	s, err = s.Append(1)
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len(), "in-place growth does not reallocate")

	_, err = s.Append(2)
	require.NoError(t, err)
	entries := logs.FilterMessage("typedslice reallocated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "int64", entries[0].ContextMap()["elem"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["new_cap"])
}

func TestJoin(t *testing.T) {
	a := rangeOf(t, 2)
	b := rangeOf(t, 3)
	c, err := Int32.Make(0)
	require.NoError(t, err)

	j, err := a.Join(b, c, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 0, 1, 2, 0, 1, 2}, j.ToTable())
	// one growth decision for the combined length 8 from cap 2
	assert.Equal(t, 8, j.Cap())
	assert.Equal(t, []int32{0, 1}, a.ToTable())

	same, err := a.Join(c)
	require.NoError(t, err)
	assert.Equal(t, a, same)
}

func TestJoin_InPlace(t *testing.T) {
	base, err := Int32.MakeCap(1, 6)
	require.NoError(t, err)
	j, err := base.Join(rangeOf(t, 2), rangeOf(t, 3))
	require.NoError(t, err)
	assert.True(t, j.SameArray(base))
	assert.Equal(t, []int32{0, 0, 1, 0, 1, 2}, j.ToTable())
	assert.Equal(t, 6, j.Cap())
}

func TestJoin_Self(t *testing.T) {
	a := rangeOf(t, 3)
	j, err := a.Join(a, a)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2, 0, 1, 2, 0, 1, 2}, j.ToTable())
}

func TestFrom(t *testing.T) {
	s, err := From(Int16.MakeCap, 3, -4, 5)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, -4, 5}, s.ToTable())

	s, err = FromTable(Int16.MakeCap, []int16{7, 8})
	require.NoError(t, err)
	assert.Equal(t, []int16{7, 8}, s.ToTable())

	s, err = From[int16](Int16.MakeCap)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestFrom_NonConformantMake(t *testing.T) {
	short := func(n, c int) (Slice[int16], error) { return Int16.Make(n / 2) }
	_, err := From(short, 1, 2, 3)
	assert.ErrorIs(t, err, types.ErrTypeMismatch)

	bare := func(n, c int) (Slice[int16], error) { return Slice[int16]{}, nil }
	_, err = FromTable(bare, []int16{1})
	assert.ErrorIs(t, err, types.ErrTypeMismatch)

	failing := func(n, c int) (Slice[int16], error) { return Int16.MakeCap(n, c-1) }
	_, err = From(failing, 1)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}
