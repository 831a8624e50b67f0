package codec

import (
	"google.golang.org/grpc/encoding"
)

// Name is the gRPC content subtype served by Codec.
const Name = "cbor"

// Codec is a gRPC codec that carries plain Go structs as CBOR.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error)      { return Marshal(v) }
func (Codec) Unmarshal(data []byte, v any) error { return Unmarshal(data, v) }
func (Codec) Name() string                       { return Name }

func init() {
	encoding.RegisterCodec(Codec{})
}
