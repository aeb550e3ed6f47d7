package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
	"github.com/tickr-network/tickr/pkg/pda"
)

func (u *Usecase) GetTicket(ctx context.Context, addr common.Address) (*entity.Ticket, error) {
	ticket, err := u.marketplaceDg.GetTicket(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get ticket")
	}
	return ticket, nil
}

func (u *Usecase) GetTicketsByOwner(ctx context.Context, owner common.Address) ([]*entity.Ticket, error) {
	tickets, err := u.marketplaceDg.GetTicketsByOwner(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tickets by owner")
	}
	return tickets, nil
}

func (u *Usecase) GetTicketsByEvent(ctx context.Context, event common.Address, limit, offset int32) ([]*entity.Ticket, error) {
	tickets, err := u.marketplaceDg.GetTicketsByEvent(ctx, event, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tickets by event")
	}
	return tickets, nil
}

func (u *Usecase) GetListings(ctx context.Context, params datagateway.GetListingsParams) ([]*entity.Listing, error) {
	listings, err := u.marketplaceDg.GetListings(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list listings")
	}
	return listings, nil
}

// GetListingByTicket resolves the listing escrow of a ticket on a
// marketplace by derivation rather than by scanning.
func (u *Usecase) GetListingByTicket(ctx context.Context, marketplace, ticket common.Address) (*entity.Listing, error) {
	listingAddr, _, err := pda.Find(constants.ProgramID, marketplace.Bytes(), ticket.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive listing address")
	}
	listing, err := u.marketplaceDg.GetListing(ctx, listingAddr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get listing")
	}
	return listing, nil
}
