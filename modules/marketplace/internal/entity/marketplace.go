package entity

import (
	"time"

	"github.com/tickr-network/tickr/common"
)

// Marketplace is the singleton-per-name configuration record. The name is
// immutable: it is part of the marketplace's own derivation seed.
type Marketplace struct {
	Address      common.Address
	Bump         uint8
	Name         string
	Admin        common.Address
	Fee          uint16 // basis points, 0..10000
	RewardsMint  common.Address
	RewardsBump  uint8
	Treasury     common.Address
	TreasuryBump uint8
	CreatedAt    time.Time
}

// Manager authorizes an organizer address to create events. At most one
// exists per organizer, enforced by derivation.
type Manager struct {
	Address   common.Address
	Bump      uint8
	Authority common.Address
	IsActive  bool
	CreatedAt time.Time
}
