package datagateway

import (
	"context"
	"time"

	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

type MarketplaceDataGateway interface {
	MarketplaceReaderDataGateway
	MarketplaceWriterDataGateway

	// BeginMarketplaceTx returns a new MarketplaceDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	// Reads inside a transaction lock the rows they touch, so a check-then-mutate sequence on one account is serialized against concurrent transactions.
	BeginMarketplaceTx(ctx context.Context) (MarketplaceDataGatewayWithTx, error)
}

type MarketplaceDataGatewayWithTx interface {
	MarketplaceDataGateway
	Tx
}

type MarketplaceReaderDataGateway interface {
	// GetAccount returns the account at addr. Returns errs.NotFound if no account exists.
	GetAccount(ctx context.Context, addr common.Address) (*entity.Account, error)
	// GetBalance returns the native balance of the account at addr. Returns errs.NotFound if no account exists.
	GetBalance(ctx context.Context, addr common.Address) (uint64, error)

	// GetMarketplace returns the marketplace at addr. Returns errs.NotFound if it does not exist.
	GetMarketplace(ctx context.Context, addr common.Address) (*entity.Marketplace, error)
	// GetMarketplaceByName returns the marketplace with the given name. Returns errs.NotFound if it does not exist.
	GetMarketplaceByName(ctx context.Context, name string) (*entity.Marketplace, error)

	// GetManager returns the manager record at addr. Returns errs.NotFound if it does not exist.
	GetManager(ctx context.Context, addr common.Address) (*entity.Manager, error)

	// GetEvent returns the event at addr. Returns errs.NotFound if it does not exist.
	GetEvent(ctx context.Context, addr common.Address) (*entity.Event, error)
	// GetEvents returns events ordered by creation time, newest first.
	GetEvents(ctx context.Context, limit int32, offset int32) ([]*entity.Event, error)

	// GetTicket returns the ticket at addr. Returns errs.NotFound if it does not exist.
	GetTicket(ctx context.Context, addr common.Address) (*entity.Ticket, error)
	GetTicketsByEvent(ctx context.Context, event common.Address, limit int32, offset int32) ([]*entity.Ticket, error)
	GetTicketsByOwner(ctx context.Context, owner common.Address) ([]*entity.Ticket, error)

	// GetListing returns the listing at addr. Returns errs.NotFound if it does not exist.
	GetListing(ctx context.Context, addr common.Address) (*entity.Listing, error)
	GetListings(ctx context.Context, params GetListingsParams) ([]*entity.Listing, error)

	// GetRewardBalance returns the rewards token balance of owner under mint. Returns 0 if no balance record exists.
	GetRewardBalance(ctx context.Context, mint, owner common.Address) (uint64, error)

	// GetEventMetadata returns the cached off-chain metadata of the event. Returns errs.NotFound if nothing is cached yet.
	GetEventMetadata(ctx context.Context, event common.Address) (*entity.EventMetadata, error)
	// GetEventsWithStaleMetadata returns events whose metadata cache is missing or older than staleBefore.
	GetEventsWithStaleMetadata(ctx context.Context, staleBefore time.Time, limit int32) ([]*entity.Event, error)
}

type MarketplaceWriterDataGateway interface {
	// CreateAccount creates a new ledger account. Returns errs.Duplicate if an account already exists at the address.
	CreateAccount(ctx context.Context, account entity.Account) error
	// SetBalance overwrites the native balance of the account at addr.
	SetBalance(ctx context.Context, addr common.Address, lamports uint64) error
	// UpdateAccountKind rewrites the discriminant of the account at addr.
	// Used once per treasury: a pre-funded system account is adopted as the
	// treasury during Initialize.
	UpdateAccountKind(ctx context.Context, addr common.Address, kind entity.AccountKind) error

	CreateMarketplace(ctx context.Context, marketplace entity.Marketplace) error
	CreateManager(ctx context.Context, manager entity.Manager) error
	CreateEvent(ctx context.Context, event entity.Event) error
	CreateTicket(ctx context.Context, ticket entity.Ticket) error
	CreateListing(ctx context.Context, listing entity.Listing) error

	// UpdateEventTicketsSold overwrites the tickets_sold counter of the event at addr.
	UpdateEventTicketsSold(ctx context.Context, addr common.Address, ticketsSold uint32) error
	UpdateTicketOwner(ctx context.Context, addr common.Address, owner common.Address) error
	SetTicketRedeemed(ctx context.Context, addr common.Address) error
	// DeleteListing removes both the listing record and its ledger account.
	DeleteListing(ctx context.Context, addr common.Address) error

	AddRewardBalance(ctx context.Context, mint, owner common.Address, amount uint64) error
	UpsertEventMetadata(ctx context.Context, metadata entity.EventMetadata) error
}

type GetListingsParams struct {
	Marketplace common.Address
	Event       common.Address // optional, zero value means no filter
	Limit       int32
	Offset      int32
}
