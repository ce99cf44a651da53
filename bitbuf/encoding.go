package bitbuf

import (
	"encoding"
	"fmt"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"
	json "github.com/goccy/go-json"
	"github.com/mus-format/mus-go/varint"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/quickwritereader/PackBits/config"
	"github.com/quickwritereader/PackBits/types"
)

// Snapshot forms carry Len in bits next to the byte content, so buffers whose
// length is not a multiple of 8 restore exactly. Decoding puts the cursor at 0.

var (
	_ encoding.BinaryMarshaler   = (*BitBuffer)(nil)
	_ encoding.BinaryUnmarshaler = (*BitBuffer)(nil)
	_ msgpack.CustomEncoder      = (*BitBuffer)(nil)
	_ msgpack.CustomDecoder      = (*BitBuffer)(nil)
	_ cbor.Marshaler             = (*BitBuffer)(nil)
	_ cbor.Unmarshaler           = (*BitBuffer)(nil)
	_ json.Marshaler             = (*BitBuffer)(nil)
	_ json.Unmarshaler           = (*BitBuffer)(nil)
)

var maxSnapshotBytes atomic.Int64

func init() {
	maxSnapshotBytes.Store(config.DefaultMaxSnapshotBytes)
}

// SetLimits installs the largest byte payload a snapshot decoder accepts.
func SetLimits(l config.Limits) error {
	l = l.WithDefaults()
	if err := l.Validate(); err != nil {
		return err
	}
	maxSnapshotBytes.Store(l.MaxSnapshotBytes)
	return nil
}

type snapshot struct {
	Len  uint64 `cbor:"1,keyasint" json:"len"`
	Data []byte `cbor:"2,keyasint" json:"data"`
}

func (b *BitBuffer) snapshot() snapshot {
	return snapshot{Len: uint64(b.length), Data: b.Bytes()}
}

// restore replaces the content with bits bits taken from data.
func (b *BitBuffer) restore(op string, bits uint64, data []byte) error {
	limit := maxSnapshotBytes.Load()
	if int64(len(data)) > limit || bits > uint64(limit)*8 {
		return fmt.Errorf("bitbuf: %s: snapshot of %d bits exceeds %d bytes: %w", op, bits, limit, types.ErrOutOfRange)
	}
	if need := (bits + 7) / 8; uint64(len(data)) != need {
		return fmt.Errorf("bitbuf: %s: %d bits need %d bytes, got %d: %w", op, bits, need, len(data), types.ErrOutOfRange)
	}
	fresh := FromBytes(data)
	fresh.SetLen(int(bits))
	*b = *fresh
	return nil
}

// MarshalBinary encodes Len as a varint followed by the byte content.
func (b *BitBuffer) MarshalBinary() ([]byte, error) {
	bits := uint64(b.length)
	head := varint.Uint64.Size(bits)
	out := make([]byte, head+b.ByteLen())
	n := varint.Uint64.Marshal(bits, out)
	b.fillBytes(0, out[n:])
	return out, nil
}

func (b *BitBuffer) UnmarshalBinary(data []byte) error {
	bits, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("bitbuf: UnmarshalBinary: length prefix: %v: %w", err, types.ErrInvalidArgument)
	}
	return b.restore("UnmarshalBinary", bits, data[n:])
}

// EncodeMsgpack writes the buffer as a two element array [len, bytes].
func (b *BitBuffer) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeUint(uint64(b.length)); err != nil {
		return err
	}
	return enc.EncodeBytes(b.Bytes())
}

func (b *BitBuffer) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("bitbuf: DecodeMsgpack: %w", err)
	}
	if n != 2 {
		return fmt.Errorf("bitbuf: DecodeMsgpack: array of %d elements, want 2: %w", n, types.ErrInvalidArgument)
	}
	bits, err := dec.DecodeUint64()
	if err != nil {
		return fmt.Errorf("bitbuf: DecodeMsgpack: len: %w", err)
	}
	data, err := dec.DecodeBytes()
	if err != nil {
		return fmt.Errorf("bitbuf: DecodeMsgpack: data: %w", err)
	}
	return b.restore("DecodeMsgpack", bits, data)
}

func (b *BitBuffer) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(b.snapshot())
}

func (b *BitBuffer) UnmarshalCBOR(data []byte) error {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bitbuf: UnmarshalCBOR: %w", err)
	}
	return b.restore("UnmarshalCBOR", s.Len, s.Data)
}

// MarshalJSON encodes {"len": bits, "data": base64 bytes}.
func (b *BitBuffer) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.snapshot())
}

func (b *BitBuffer) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bitbuf: UnmarshalJSON: %w", err)
	}
	return b.restore("UnmarshalJSON", s.Len, s.Data)
}
