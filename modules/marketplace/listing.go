package marketplace

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
	"github.com/tickr-network/tickr/pkg/pda"
)

type ListTicketParams struct {
	Marketplace common.Address
	Ticket      common.Address
	Seller      common.Address // signer, current ticket owner
	Price       uint64
}

// ListTicket offers a ticket for resale. Ownership does not move at listing
// time; the listing PDA derived from (marketplace, ticket) guarantees at
// most one active listing per ticket per marketplace. Non-transferable
// tickets are rejected here, not at purchase time.
func (p *Processor) ListTicket(ctx context.Context, params ListTicketParams) (*entity.Listing, error) {
	if params.Price == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "listing price must be positive")
	}
	if params.Marketplace.IsZero() || params.Ticket.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "marketplace and ticket addresses must not be zero")
	}

	listingAddr, bump, err := pda.Find(constants.ProgramID, params.Marketplace.Bytes(), params.Ticket.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive listing address")
	}

	listing := entity.Listing{
		Address:     listingAddr,
		Bump:        bump,
		Marketplace: params.Marketplace,
		Ticket:      params.Ticket,
		Seller:      params.Seller,
		Price:       params.Price,
	}

	err = p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if _, err := getAccountOfKind(ctx, qtx, params.Marketplace, entity.AccountKindMarketplace); err != nil {
			return errors.WithStack(err)
		}
		if _, err := getAccountOfKind(ctx, qtx, params.Ticket, entity.AccountKindTicketAsset); err != nil {
			return errors.WithStack(err)
		}
		ticket, err := qtx.GetTicket(ctx, params.Ticket)
		if err != nil {
			return errors.Wrap(err, "failed to get ticket record")
		}
		if ticket.Owner != params.Seller {
			return errors.Wrapf(errs.Unauthorized, "%s does not own ticket %s", params.Seller, params.Ticket)
		}
		if !ticket.Transferable {
			return errors.Wrapf(errs.InvalidArgument, "ticket %s is not transferable", params.Ticket)
		}
		if ticket.Redeemed {
			return errors.Wrapf(errs.InvalidArgument, "ticket %s is already redeemed", params.Ticket)
		}

		if _, err := qtx.GetAccount(ctx, listingAddr); err == nil {
			return errors.Wrapf(errs.Duplicate, "ticket %s is already listed", params.Ticket)
		} else if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to check listing account")
		}

		if err := debit(ctx, qtx, params.Seller, constants.RentExemptReserve); err != nil {
			return errors.Wrap(err, "seller cannot fund listing account reserve")
		}
		if err := qtx.CreateAccount(ctx, entity.Account{
			Address:  listingAddr,
			Kind:     entity.AccountKindListing,
			Lamports: constants.RentExemptReserve,
		}); err != nil {
			return errors.Wrap(err, "failed to create listing account")
		}
		if err := qtx.CreateListing(ctx, listing); err != nil {
			return errors.Wrap(err, "failed to create listing record")
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &listing, nil
}

type DelistTicketParams struct {
	Marketplace common.Address
	Ticket      common.Address
	Seller      common.Address // signer, must be the original seller
}

// DelistTicket closes a listing without a sale. The listing account's
// reserve flows back to the seller, the way closing an escrow returns its
// rent.
func (p *Processor) DelistTicket(ctx context.Context, params DelistTicketParams) error {
	listingAddr, _, err := pda.Find(constants.ProgramID, params.Marketplace.Bytes(), params.Ticket.Bytes())
	if err != nil {
		return errors.Wrap(err, "failed to derive listing address")
	}

	return p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		listingAccount, err := getAccountOfKind(ctx, qtx, listingAddr, entity.AccountKindListing)
		if err != nil {
			return errors.WithStack(err)
		}
		listing, err := qtx.GetListing(ctx, listingAddr)
		if err != nil {
			return errors.Wrap(err, "failed to get listing record")
		}
		if listing.Seller != params.Seller {
			return errors.Wrapf(errs.Unauthorized, "%s is not the seller of listing %s", params.Seller, listingAddr)
		}
		return errors.WithStack(closeListing(ctx, qtx, listing, listingAccount.Lamports, listing.Seller))
	})
}

// closeListing deletes the listing record and account, returning the
// account's lamports to recipient.
func closeListing(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, listing *entity.Listing, lamports uint64, recipient common.Address) error {
	if err := qtx.DeleteListing(ctx, listing.Address); err != nil {
		return errors.Wrap(err, "failed to delete listing")
	}
	if lamports > 0 {
		if err := credit(ctx, qtx, recipient, lamports); err != nil {
			return errors.Wrap(err, "failed to return listing reserve")
		}
	}
	return nil
}
