package registry

import (
	"testing"

	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"github.com/stretchr/testify/require"
)

type fakeFormat struct {
	serde.FormatEngine
}

func TestSimpleRegistry_GetAndRegister(t *testing.T) {
	registry := NewSimpleRegistry()

	registry.Register(serde.FormatJSON, fakeFormat{})

	require.IsType(t, fakeFormat{}, registry.Get(serde.FormatJSON))
	require.IsType(t, emptyFormat{}, registry.Get("XML"))
}

func TestEmptyFormat_EncodeAndDecode(t *testing.T) {
	format := emptyFormat{name: "XML"}

	_, err := format.Encode(serde.Context{}, nil)
	require.EqualError(t, err, "format 'XML' is not implemented")

	_, err = format.Decode(serde.Context{}, nil)
	require.EqualError(t, err, "format 'XML' is not implemented")
}
