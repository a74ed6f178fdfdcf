// Package codec provides the pluggable serialization strategy used by the
// byte-persisting output store backends. A Codec must round-trip any value it
// can encode: Decode(Encode(v)) yields the codec's canonical form of v.
package codec

// Codec turns output values into bytes and back.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}
