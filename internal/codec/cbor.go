package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CBORCodec encodes values as canonical CBOR. It is a compact alternative to
// JSONCodec for large outputs; decoded values are generic CBOR forms
// (map[any]any, []any, uint64/int64, string, bool, nil).
type CBORCodec struct {
	em cbor.EncMode
}

func NewCBORCodec() (*CBORCodec, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("codec: init cbor: %w", err)
	}
	return &CBORCodec{em: em}, nil
}

func (c *CBORCodec) Encode(v any) ([]byte, error) {
	if c == nil || c.em == nil {
		return nil, fmt.Errorf("codec: cbor codec not initialized")
	}
	raw, err := c.em.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: encode cbor: %w", err)
	}
	return raw, nil
}

func (c *CBORCodec) Decode(data []byte) (any, error) {
	var v any
	if err := cbor.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("codec: decode cbor: %w", err)
	}
	return v, nil
}
