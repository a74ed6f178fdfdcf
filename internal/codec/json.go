package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONCodec encodes values as JSON without escaping <, >, & into < etc.,
// so stored artifacts stay grep-able. Decode returns generic JSON values
// (map[string]any, []any, float64, string, bool, nil).
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("codec: encode json: %w", err)
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (JSONCodec) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("codec: decode json: %w", err)
	}
	return v, nil
}
