package json

import (
	"testing"

	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"github.com/stretchr/testify/require"
)

func TestContext_MarshalAndUnmarshal(t *testing.T) {
	ctx := NewContext()

	require.Equal(t, serde.FormatJSON, ctx.GetFormat())

	data, err := ctx.Marshal(map[string]int{"value": 42})
	require.NoError(t, err)
	require.Equal(t, `{"value":42}`, string(data))

	m := map[string]int{}
	err = ctx.Unmarshal(data, &m)
	require.NoError(t, err)
	require.Equal(t, 42, m["value"])

	err = ctx.Unmarshal([]byte("garbage"), &m)
	require.Error(t, err)
}
