package parcel

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Codec converts values of type V to and from bytes for storage in a
// parcel's segment. Implementations should be total for valid inputs;
// any failure is surfaced to the caller wrapped in ErrCorrupt.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// GobCodec is the default Codec, backed by encoding/gob. It is the pack's
// one ambient stdlib serializer: no reusable generic codec for an arbitrary
// payload type appears anywhere in the retrieval pack, so this stays on the
// standard library rather than forcing in an unrelated third-party format.
type GobCodec[V any] struct{}

// Encode implements Codec.
func (GobCodec[V]) Encode(v V) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("parcel: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode implements Codec.
func (GobCodec[V]) Decode(data []byte) (V, error) {
	var v V
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return v, fmt.Errorf("parcel: gob decode: %w", err)
	}
	return v, nil
}
