package entity

import (
	"time"

	"github.com/tickr-network/tickr/common"
)

// AccountKind is the discriminant identifying what an account holds. Every
// instruction checks the kind of each account it touches before mutating
// anything.
type AccountKind string

const (
	AccountKindSystem          AccountKind = "system"
	AccountKindMarketplace     AccountKind = "marketplace"
	AccountKindRewardsMint     AccountKind = "rewards_mint"
	AccountKindTreasury        AccountKind = "treasury"
	AccountKindManager         AccountKind = "manager"
	AccountKindEventCollection AccountKind = "event_collection"
	AccountKindTicketAsset     AccountKind = "ticket_asset"
	AccountKindListing         AccountKind = "listing"
)

func (k AccountKind) String() string {
	return string(k)
}

// Account is a ledger account: an address, its kind and its native balance.
type Account struct {
	Address   common.Address
	Kind      AccountKind
	Lamports  uint64
	CreatedAt time.Time
}
