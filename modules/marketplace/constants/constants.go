package constants

import (
	"crypto/sha256"

	"github.com/tickr-network/tickr/common"
)

const Version = "v0.1.0"

// ProgramID is the address of the marketplace program. Every PDA in the
// module is derived under this id.
var ProgramID = common.Address(sha256.Sum256([]byte("tickr.marketplace.program.v1")))

// Seed tags for program-derived addresses. The scheme must stay bit-exact:
// clients derive the same addresses independently.
const (
	SeedMarketplace = "marketplace"
	SeedRewards     = "rewards"
	SeedTreasury    = "treasury"
	SeedManager     = "manager"
)

const (
	// MaxNameLength bounds the marketplace name, which is part of its own
	// derivation seed.
	MaxNameLength = 32

	// MaxFeeBasisPoints is the inclusive upper bound of the marketplace fee.
	// 10000 basis points = 100%.
	MaxFeeBasisPoints = 10_000

	// BasisPointsDenominator converts basis points to a fraction.
	BasisPointsDenominator = 10_000
)

const (
	// RentExemptReserve is the minimum balance an account must hold to stay
	// alive on the ledger. The treasury can never be drawn below it.
	RentExemptReserve uint64 = 890_880

	// RewardsDecimals is the decimal count of the loyalty rewards mint.
	RewardsDecimals = 6

	// RewardUnitPrice is the purchase volume, in lamports, that earns one
	// reward unit.
	RewardUnitPrice uint64 = 1_000
)
