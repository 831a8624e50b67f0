package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)
	assert.Equal(t, Name, c.Name())
}

func TestMarshalDeterministic(t *testing.T) {
	a, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	b, err := Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	type v2 struct {
		Op    string `cbor:"op"`
		Extra int    `cbor:"extra"`
	}
	type v1 struct {
		Op string `cbor:"op"`
	}
	data, err := Marshal(v2{Op: "hello", Extra: 7})
	require.NoError(t, err)

	var got v1
	require.NoError(t, Unmarshal(data, &got))
	assert.Equal(t, "hello", got.Op)
}
