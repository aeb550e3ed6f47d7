// Package pda implements program-derived addresses: deterministic,
// collision-free account addresses computed from a seed tuple under a program
// id. A derived address is the SHA-256 digest of the seeds, a bump byte, the
// program id and a fixed marker, where the bump is the highest value in
// [0,255] for which the digest is not a valid ed25519 curve point. Addresses
// off the curve have no private key, so only program logic can authorize
// them.
package pda

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
)

const (
	// MaxSeeds is the maximum number of seeds in a derivation tuple.
	MaxSeeds = 16

	// MaxSeedLen is the maximum byte length of a single seed.
	MaxSeedLen = 32
)

var derivationMarker = []byte("ProgramDerivedAddress")

// Find searches for the canonical bump of the given seed tuple, starting at
// 255 and counting down until the derived digest falls off the ed25519
// curve. Returns the derived address and the bump.
func Find(programID common.Address, seeds ...[]byte) (common.Address, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return common.Address{}, 0, errors.WithStack(err)
	}
	for bump := 255; bump >= 0; bump-- {
		addr, err := derive(programID, seeds, uint8(bump))
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	// Unreachable in practice: the digest search space leaves no seed tuple
	// without an off-curve bump.
	return common.Address{}, 0, errors.Wrap(errs.SomethingWentWrong, "no valid bump found for seeds")
}

// Create derives the address for the given seed tuple and an explicit bump.
// Returns errs.InvalidArgument if the resulting digest is a valid curve
// point, i.e. the bump is not usable for this tuple.
func Create(programID common.Address, bump uint8, seeds ...[]byte) (common.Address, error) {
	if err := validateSeeds(seeds); err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	addr, err := derive(programID, seeds, bump)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return addr, nil
}

// Verify checks that addr is exactly the canonical derivation of the given
// seed tuple. Fails closed: any mismatch is an error, never a substitution.
func Verify(addr common.Address, programID common.Address, seeds ...[]byte) (uint8, error) {
	derived, bump, err := Find(programID, seeds...)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if derived != addr {
		return 0, errors.Wrapf(errs.InvalidArgument, "account %s does not match expected derivation %s", addr, derived)
	}
	return bump, nil
}

func derive(programID common.Address, seeds [][]byte, bump uint8) (common.Address, error) {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write(programID.Bytes())
	h.Write(derivationMarker)
	digest := h.Sum(nil)

	if isOnCurve(digest) {
		return common.Address{}, errors.Wrap(errs.InvalidArgument, "derived address is on the ed25519 curve")
	}
	return common.NewAddressFromBytes(digest)
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errs.InvalidArgument, "too many seeds: %d > %d", len(seeds), MaxSeeds)
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return errors.Wrapf(errs.InvalidArgument, "seed %d is too long: %d > %d", i, len(seed), MaxSeedLen)
		}
	}
	return nil
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
