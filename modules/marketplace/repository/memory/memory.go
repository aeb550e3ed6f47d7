// Package memory implements the marketplace datagateway on in-process maps.
// It backs tests and the "memory" storage mode of the module. A transaction
// takes an exclusive lock and works on a deep copy of the state, so commit
// and rollback have the same all-or-nothing behavior as the postgres
// repository.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

type rewardKey struct {
	Mint  common.Address
	Owner common.Address
}

type state struct {
	accounts          map[common.Address]entity.Account
	marketplaces      map[common.Address]entity.Marketplace
	marketplaceByName map[string]common.Address
	managers          map[common.Address]entity.Manager
	events            map[common.Address]entity.Event
	eventOrder        []common.Address
	tickets           map[common.Address]entity.Ticket
	ticketOrder       []common.Address
	listings          map[common.Address]entity.Listing
	listingOrder      []common.Address
	rewardBalances    map[rewardKey]uint64
	eventMetadata     map[common.Address]entity.EventMetadata
}

func newState() *state {
	return &state{
		accounts:          make(map[common.Address]entity.Account),
		marketplaces:      make(map[common.Address]entity.Marketplace),
		marketplaceByName: make(map[string]common.Address),
		managers:          make(map[common.Address]entity.Manager),
		events:            make(map[common.Address]entity.Event),
		tickets:           make(map[common.Address]entity.Ticket),
		listings:          make(map[common.Address]entity.Listing),
		rewardBalances:    make(map[rewardKey]uint64),
		eventMetadata:     make(map[common.Address]entity.EventMetadata),
	}
}

func (s *state) clone() *state {
	cloned := &state{
		accounts:          make(map[common.Address]entity.Account, len(s.accounts)),
		marketplaces:      make(map[common.Address]entity.Marketplace, len(s.marketplaces)),
		marketplaceByName: make(map[string]common.Address, len(s.marketplaceByName)),
		managers:          make(map[common.Address]entity.Manager, len(s.managers)),
		events:            make(map[common.Address]entity.Event, len(s.events)),
		eventOrder:        append([]common.Address(nil), s.eventOrder...),
		tickets:           make(map[common.Address]entity.Ticket, len(s.tickets)),
		ticketOrder:       append([]common.Address(nil), s.ticketOrder...),
		listings:          make(map[common.Address]entity.Listing, len(s.listings)),
		listingOrder:      append([]common.Address(nil), s.listingOrder...),
		rewardBalances:    make(map[rewardKey]uint64, len(s.rewardBalances)),
		eventMetadata:     make(map[common.Address]entity.EventMetadata, len(s.eventMetadata)),
	}
	for k, v := range s.accounts {
		cloned.accounts[k] = v
	}
	for k, v := range s.marketplaces {
		cloned.marketplaces[k] = v
	}
	for k, v := range s.marketplaceByName {
		cloned.marketplaceByName[k] = v
	}
	for k, v := range s.managers {
		cloned.managers[k] = v
	}
	for k, v := range s.events {
		cloned.events[k] = v
	}
	for k, v := range s.tickets {
		cloned.tickets[k] = v
	}
	for k, v := range s.listings {
		cloned.listings[k] = v
	}
	for k, v := range s.rewardBalances {
		cloned.rewardBalances[k] = v
	}
	for k, v := range s.eventMetadata {
		cloned.eventMetadata[k] = v
	}
	return cloned
}

type Repository struct {
	mu *sync.Mutex
	st *state

	// transaction state; nil when this repository is not a transaction
	parent *Repository
	work   *state
	closed bool
}

var _ datagateway.MarketplaceDataGateway = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{
		mu: &sync.Mutex{},
		st: newState(),
	}
}

// view returns the state this repository reads and writes. Transactions use
// their working copy; the base repository uses the committed state.
func (r *Repository) view() *state {
	if r.work != nil {
		return r.work
	}
	return r.st
}

func (r *Repository) BeginMarketplaceTx(ctx context.Context) (datagateway.MarketplaceDataGatewayWithTx, error) {
	if r.work != nil {
		return nil, errors.Wrap(errs.Unsupported, "nested transactions are not supported")
	}
	r.mu.Lock()
	return &Repository{
		mu:     r.mu,
		parent: r,
		work:   r.st.clone(),
	}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.work == nil || r.closed {
		return nil
	}
	r.parent.st = r.work
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	if r.work == nil || r.closed {
		return nil
	}
	r.closed = true
	r.mu.Unlock()
	return nil
}

// lock takes the repository mutex for a single non-transactional operation.
// Inside a transaction the mutex is already held.
func (r *Repository) lock() func() {
	if r.work != nil {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *Repository) GetAccount(ctx context.Context, addr common.Address) (*entity.Account, error) {
	defer r.lock()()
	account, ok := r.view().accounts[addr]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "account %s", addr)
	}
	return &account, nil
}

func (r *Repository) GetBalance(ctx context.Context, addr common.Address) (uint64, error) {
	account, err := r.GetAccount(ctx, addr)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return account.Lamports, nil
}

func (r *Repository) GetMarketplace(ctx context.Context, addr common.Address) (*entity.Marketplace, error) {
	defer r.lock()()
	marketplace, ok := r.view().marketplaces[addr]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "marketplace %s", addr)
	}
	return &marketplace, nil
}

func (r *Repository) GetMarketplaceByName(ctx context.Context, name string) (*entity.Marketplace, error) {
	defer r.lock()()
	addr, ok := r.view().marketplaceByName[name]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "marketplace %q", name)
	}
	marketplace := r.view().marketplaces[addr]
	return &marketplace, nil
}

func (r *Repository) GetManager(ctx context.Context, addr common.Address) (*entity.Manager, error) {
	defer r.lock()()
	manager, ok := r.view().managers[addr]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "manager %s", addr)
	}
	return &manager, nil
}

func (r *Repository) GetEvent(ctx context.Context, addr common.Address) (*entity.Event, error) {
	defer r.lock()()
	event, ok := r.view().events[addr]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "event %s", addr)
	}
	return &event, nil
}

func (r *Repository) GetEvents(ctx context.Context, limit int32, offset int32) ([]*entity.Event, error) {
	defer r.lock()()
	st := r.view()
	result := make([]*entity.Event, 0)
	// newest first
	for i := len(st.eventOrder) - 1; i >= 0; i-- {
		if offset > 0 {
			offset--
			continue
		}
		if limit >= 0 && int32(len(result)) >= limit {
			break
		}
		event := st.events[st.eventOrder[i]]
		result = append(result, &event)
	}
	return result, nil
}

func (r *Repository) GetTicket(ctx context.Context, addr common.Address) (*entity.Ticket, error) {
	defer r.lock()()
	ticket, ok := r.view().tickets[addr]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "ticket %s", addr)
	}
	return &ticket, nil
}

func (r *Repository) GetTicketsByEvent(ctx context.Context, event common.Address, limit int32, offset int32) ([]*entity.Ticket, error) {
	defer r.lock()()
	st := r.view()
	result := make([]*entity.Ticket, 0)
	for _, addr := range st.ticketOrder {
		ticket, ok := st.tickets[addr]
		if !ok || ticket.Event != event {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		if limit >= 0 && int32(len(result)) >= limit {
			break
		}
		t := ticket
		result = append(result, &t)
	}
	return result, nil
}

func (r *Repository) GetTicketsByOwner(ctx context.Context, owner common.Address) ([]*entity.Ticket, error) {
	defer r.lock()()
	st := r.view()
	result := make([]*entity.Ticket, 0)
	for _, addr := range st.ticketOrder {
		ticket, ok := st.tickets[addr]
		if !ok || ticket.Owner != owner {
			continue
		}
		t := ticket
		result = append(result, &t)
	}
	return result, nil
}

func (r *Repository) GetListing(ctx context.Context, addr common.Address) (*entity.Listing, error) {
	defer r.lock()()
	listing, ok := r.view().listings[addr]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "listing %s", addr)
	}
	return &listing, nil
}

func (r *Repository) GetListings(ctx context.Context, params datagateway.GetListingsParams) ([]*entity.Listing, error) {
	defer r.lock()()
	st := r.view()
	offset := params.Offset
	result := make([]*entity.Listing, 0)
	for _, addr := range st.listingOrder {
		listing, ok := st.listings[addr]
		if !ok {
			continue
		}
		if !params.Marketplace.IsZero() && listing.Marketplace != params.Marketplace {
			continue
		}
		if !params.Event.IsZero() {
			ticket, ok := st.tickets[listing.Ticket]
			if !ok || ticket.Event != params.Event {
				continue
			}
		}
		if offset > 0 {
			offset--
			continue
		}
		if params.Limit >= 0 && int32(len(result)) >= params.Limit {
			break
		}
		l := listing
		result = append(result, &l)
	}
	return result, nil
}

func (r *Repository) GetRewardBalance(ctx context.Context, mint, owner common.Address) (uint64, error) {
	defer r.lock()()
	return r.view().rewardBalances[rewardKey{Mint: mint, Owner: owner}], nil
}

func (r *Repository) GetEventMetadata(ctx context.Context, event common.Address) (*entity.EventMetadata, error) {
	defer r.lock()()
	metadata, ok := r.view().eventMetadata[event]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "metadata for event %s", event)
	}
	return &metadata, nil
}

func (r *Repository) GetEventsWithStaleMetadata(ctx context.Context, staleBefore time.Time, limit int32) ([]*entity.Event, error) {
	defer r.lock()()
	st := r.view()
	result := make([]*entity.Event, 0)
	for _, addr := range st.eventOrder {
		if limit >= 0 && int32(len(result)) >= limit {
			break
		}
		event := st.events[addr]
		if event.URI == "" {
			continue
		}
		if metadata, ok := st.eventMetadata[addr]; ok && !metadata.FetchedAt.Before(staleBefore) {
			continue
		}
		e := event
		result = append(result, &e)
	}
	return result, nil
}

func (r *Repository) CreateAccount(ctx context.Context, account entity.Account) error {
	defer r.lock()()
	st := r.view()
	if _, ok := st.accounts[account.Address]; ok {
		return errors.Wrapf(errs.Duplicate, "account %s", account.Address)
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	st.accounts[account.Address] = account
	return nil
}

func (r *Repository) SetBalance(ctx context.Context, addr common.Address, lamports uint64) error {
	defer r.lock()()
	st := r.view()
	account, ok := st.accounts[addr]
	if !ok {
		return errors.Wrapf(errs.NotFound, "account %s", addr)
	}
	account.Lamports = lamports
	st.accounts[addr] = account
	return nil
}

func (r *Repository) UpdateAccountKind(ctx context.Context, addr common.Address, kind entity.AccountKind) error {
	defer r.lock()()
	st := r.view()
	account, ok := st.accounts[addr]
	if !ok {
		return errors.Wrapf(errs.NotFound, "account %s", addr)
	}
	account.Kind = kind
	st.accounts[addr] = account
	return nil
}

func (r *Repository) CreateMarketplace(ctx context.Context, marketplace entity.Marketplace) error {
	defer r.lock()()
	st := r.view()
	if _, ok := st.marketplaces[marketplace.Address]; ok {
		return errors.Wrapf(errs.Duplicate, "marketplace %s", marketplace.Address)
	}
	if _, ok := st.marketplaceByName[marketplace.Name]; ok {
		return errors.Wrapf(errs.Duplicate, "marketplace %q", marketplace.Name)
	}
	if marketplace.CreatedAt.IsZero() {
		marketplace.CreatedAt = time.Now().UTC()
	}
	st.marketplaces[marketplace.Address] = marketplace
	st.marketplaceByName[marketplace.Name] = marketplace.Address
	return nil
}

func (r *Repository) CreateManager(ctx context.Context, manager entity.Manager) error {
	defer r.lock()()
	st := r.view()
	if _, ok := st.managers[manager.Address]; ok {
		return errors.Wrapf(errs.Duplicate, "manager %s", manager.Address)
	}
	if manager.CreatedAt.IsZero() {
		manager.CreatedAt = time.Now().UTC()
	}
	st.managers[manager.Address] = manager
	return nil
}

func (r *Repository) CreateEvent(ctx context.Context, event entity.Event) error {
	defer r.lock()()
	st := r.view()
	if _, ok := st.events[event.Address]; ok {
		return errors.Wrapf(errs.Duplicate, "event %s", event.Address)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	st.events[event.Address] = event
	st.eventOrder = append(st.eventOrder, event.Address)
	return nil
}

func (r *Repository) CreateTicket(ctx context.Context, ticket entity.Ticket) error {
	defer r.lock()()
	st := r.view()
	if _, ok := st.tickets[ticket.Address]; ok {
		return errors.Wrapf(errs.Duplicate, "ticket %s", ticket.Address)
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}
	st.tickets[ticket.Address] = ticket
	st.ticketOrder = append(st.ticketOrder, ticket.Address)
	return nil
}

func (r *Repository) CreateListing(ctx context.Context, listing entity.Listing) error {
	defer r.lock()()
	st := r.view()
	if _, ok := st.listings[listing.Address]; ok {
		return errors.Wrapf(errs.Duplicate, "listing %s", listing.Address)
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now().UTC()
	}
	st.listings[listing.Address] = listing
	st.listingOrder = append(st.listingOrder, listing.Address)
	return nil
}

func (r *Repository) UpdateEventTicketsSold(ctx context.Context, addr common.Address, ticketsSold uint32) error {
	defer r.lock()()
	st := r.view()
	event, ok := st.events[addr]
	if !ok {
		return errors.Wrapf(errs.NotFound, "event %s", addr)
	}
	event.TicketsSold = ticketsSold
	st.events[addr] = event
	return nil
}

func (r *Repository) UpdateTicketOwner(ctx context.Context, addr common.Address, owner common.Address) error {
	defer r.lock()()
	st := r.view()
	ticket, ok := st.tickets[addr]
	if !ok {
		return errors.Wrapf(errs.NotFound, "ticket %s", addr)
	}
	ticket.Owner = owner
	st.tickets[addr] = ticket
	return nil
}

func (r *Repository) SetTicketRedeemed(ctx context.Context, addr common.Address) error {
	defer r.lock()()
	st := r.view()
	ticket, ok := st.tickets[addr]
	if !ok {
		return errors.Wrapf(errs.NotFound, "ticket %s", addr)
	}
	ticket.Redeemed = true
	st.tickets[addr] = ticket
	return nil
}

func (r *Repository) DeleteListing(ctx context.Context, addr common.Address) error {
	defer r.lock()()
	st := r.view()
	if _, ok := st.listings[addr]; !ok {
		return errors.Wrapf(errs.NotFound, "listing %s", addr)
	}
	delete(st.listings, addr)
	delete(st.accounts, addr)
	return nil
}

func (r *Repository) AddRewardBalance(ctx context.Context, mint, owner common.Address, amount uint64) error {
	defer r.lock()()
	st := r.view()
	st.rewardBalances[rewardKey{Mint: mint, Owner: owner}] += amount
	return nil
}

func (r *Repository) UpsertEventMetadata(ctx context.Context, metadata entity.EventMetadata) error {
	defer r.lock()()
	st := r.view()
	if metadata.FetchedAt.IsZero() {
		metadata.FetchedAt = time.Now().UTC()
	}
	st.eventMetadata[metadata.Event] = metadata
	return nil
}
