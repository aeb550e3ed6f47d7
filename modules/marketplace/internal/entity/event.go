package entity

import (
	"strconv"
	"time"

	"github.com/tickr-network/tickr/common"
)

// Event is a single ticketed event and, on the asset side, an NFT
// collection. Capacity is immutable; TicketsSold is mutated only by the
// ticket mint path and never exceeds Capacity.
type Event struct {
	Address        common.Address
	Name           string
	Category       string
	URI            string
	City           string
	Venue          string
	Organizer      string // display name
	Date           string
	Time           string
	Capacity       uint32
	TicketsSold    uint32
	IsTransferable bool
	Authority      common.Address // the Manager that created it
	CreatedAt      time.Time
}

// Attribute is one display attribute of the event's collection asset.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attributes returns the collection attribute list mirroring the event's
// display fields.
func (e Event) Attributes() []Attribute {
	return []Attribute{
		{Key: "Category", Value: e.Category},
		{Key: "City", Value: e.City},
		{Key: "Venue", Value: e.Venue},
		{Key: "Artist", Value: e.Organizer},
		{Key: "Date", Value: e.Date},
		{Key: "Time", Value: e.Time},
		{Key: "Capacity", Value: strconv.FormatUint(uint64(e.Capacity), 10)},
		{Key: "IsTicketTransferable", Value: strconv.FormatBool(e.IsTransferable)},
	}
}

// Ticket is an NFT asset belonging to exactly one event's collection. The
// Event field is a non-owning back-reference; relations are validated at
// use, never assumed live.
type Ticket struct {
	Address      common.Address
	Event        common.Address
	Owner        common.Address
	Serial       uint32 // 1..capacity, monotonic within the event
	Transferable bool   // copied from the event at mint time
	Redeemed     bool   // terminal state, set by RedeemTicket
	CreatedAt    time.Time
}

// Listing is an escrow record offering a ticket for resale. Its address is
// derived from (marketplace, ticket), so at most one active listing exists
// per ticket per marketplace.
type Listing struct {
	Address     common.Address
	Bump        uint8
	Marketplace common.Address
	Ticket      common.Address
	Seller      common.Address
	Price       uint64
	CreatedAt   time.Time
}
