package common

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common/errs"
)

// AddressSize is the byte length of a ledger account address.
const AddressSize = 32

// Address identifies a ledger account. It is a 32-byte value rendered as
// base58 text. Wallet addresses are ed25519 public keys; program-derived
// addresses are SHA-256 digests with no corresponding private key.
type Address [AddressSize]byte

var ZeroAddress = Address{}

// NewAddressFromBytes converts b to an Address. Returns errs.InvalidArgument
// if b is not exactly AddressSize bytes.
func NewAddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, errors.Wrapf(errs.InvalidArgument, "address must be %d bytes, got %d", AddressSize, len(b))
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// NewAddressFromString parses a base58-encoded address.
func NewAddressFromString(s string) (Address, error) {
	decoded := base58.Decode(s)
	if len(decoded) != AddressSize {
		return Address{}, errors.Wrapf(errs.InvalidArgument, "invalid address %q", s)
	}
	return NewAddressFromBytes(decoded)
}

// NewWalletAddress generates a fresh ed25519 keypair and returns the public
// key as an Address along with the private key.
func NewWalletAddress() (Address, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Address{}, nil, errors.Wrap(err, "failed to generate ed25519 keypair")
	}
	addr, err := NewAddressFromBytes(pub)
	if err != nil {
		return Address{}, nil, errors.WithStack(err)
	}
	return addr, priv, nil
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.WithStack(err)
	}
	addr, err := NewAddressFromString(s)
	if err != nil {
		return errors.WithStack(err)
	}
	*a = addr
	return nil
}
