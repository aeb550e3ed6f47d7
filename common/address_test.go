package common

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common/errs"
)

func TestAddressRoundTrip(t *testing.T) {
	addr, priv, err := NewWalletAddress()
	require.NoError(t, err)
	require.Len(t, priv, 64)
	require.False(t, addr.IsZero())

	parsed, err := NewAddressFromString(addr.String())
	require.NoError(t, err)
	require.Equal(t, addr, parsed)
}

func TestAddressFromBytesLength(t *testing.T) {
	_, err := NewAddressFromBytes(make([]byte, 31))
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.InvalidArgument))

	_, err = NewAddressFromBytes(make([]byte, AddressSize))
	require.NoError(t, err)
}

func TestAddressJSON(t *testing.T) {
	addr, _, err := NewWalletAddress()
	require.NoError(t, err)

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, addr, decoded)

	require.Error(t, json.Unmarshal([]byte(`"not-base58-!"`), &decoded))
}
