package bitbuf

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/quickwritereader/PackBits/config"
	"github.com/quickwritereader/PackBits/types"
)

func sampleBuffer(t *testing.T) *BitBuffer {
	b := New(0)
	require.NoError(t, b.WriteUint(13, 0x1ABC))
	require.NoError(t, b.WriteInt(7, -3))
	b.SetIndex(4)
	return b
}

func TestMarshalBinary(t *testing.T) {
	b := sampleBuffer(t)
	data, err := b.MarshalBinary()
	require.NoError(t, err)
	// varint(20) then three content bytes
	assert.Equal(t, []byte{0x14, 0xBC, 0xBA, 0x0F}, data)

	var got BitBuffer
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, 20, got.Len())
	assert.Equal(t, 0, got.Index())
	assert.Equal(t, b.Bytes(), got.Bytes())

	assert.ErrorIs(t, got.UnmarshalBinary(data[:3]), types.ErrOutOfRange)
	assert.ErrorIs(t, got.UnmarshalBinary(append(data, 0)), types.ErrOutOfRange)
	assert.Error(t, got.UnmarshalBinary(nil))
}

func TestMsgpack(t *testing.T) {
	b := sampleBuffer(t)
	data, err := msgpack.Marshal(b)
	require.NoError(t, err)

	got := New(0)
	require.NoError(t, msgpack.Unmarshal(data, got))
	assert.Equal(t, b.Len(), got.Len())
	assert.Equal(t, b.Bytes(), got.Bytes())

	bad, err := msgpack.Marshal([]any{uint64(64), []byte{1}})
	require.NoError(t, err)
	assert.ErrorIs(t, msgpack.Unmarshal(bad, got), types.ErrOutOfRange)
}

func TestCBOR(t *testing.T) {
	b := sampleBuffer(t)
	data, err := cbor.Marshal(b)
	require.NoError(t, err)

	var got BitBuffer
	require.NoError(t, cbor.Unmarshal(data, &got))
	assert.Equal(t, b.Len(), got.Len())
	assert.Equal(t, b.Bytes(), got.Bytes())
}

func TestJSON(t *testing.T) {
	b := sampleBuffer(t)
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"len":20,"data":"vLoP"}`, string(data))

	var got BitBuffer
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 20, got.Len())
	assert.Equal(t, b.Bytes(), got.Bytes())

	err = json.Unmarshal([]byte(`{"len":3,"data":"vLoP"}`), &got)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestRestoreClearsTailBits(t *testing.T) {
	var got BitBuffer
	require.NoError(t, got.UnmarshalBinary([]byte{0x03, 0xFF}))
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, []byte{0x07}, got.Bytes())
}

func TestSnapshotLimit(t *testing.T) {
	require.NoError(t, SetLimits(config.Limits{MaxSnapshotBytes: 2}))
	defer func() { require.NoError(t, SetLimits(config.Default())) }()

	b := sampleBuffer(t)
	data, err := b.MarshalBinary()
	require.NoError(t, err)

	var got BitBuffer
	assert.ErrorIs(t, got.UnmarshalBinary(data), types.ErrOutOfRange)

	assert.ErrorIs(t, SetLimits(config.Limits{MaxSnapshotBytes: -1}), types.ErrInvalidArgument)
}
