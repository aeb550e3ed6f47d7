package marketplace

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
	"github.com/tickr-network/tickr/pkg/pda"
)

type PurchaseTicketParams struct {
	Marketplace common.Address
	Ticket      common.Address
	Buyer       common.Address // signer, pays the listing price
}

// PurchaseTicketResult reports the settled amounts of a purchase.
type PurchaseTicketResult struct {
	Listing        entity.Listing
	SellerProceeds uint64
	MarketplaceCut uint64
	RewardsMinted  uint64
}

// PurchaseTicket settles a listing: the buyer pays the price, the seller
// receives price minus the marketplace cut, the cut accrues to the
// treasury, ticket ownership moves to the buyer and the listing closes.
// The cut is floor(price * fee / 10000); the truncated remainder always
// stays with the seller. The buyer also earns loyalty rewards on the
// purchase volume.
func (p *Processor) PurchaseTicket(ctx context.Context, params PurchaseTicketParams) (*PurchaseTicketResult, error) {
	if params.Buyer.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "buyer must not be the zero address")
	}
	listingAddr, _, err := pda.Find(constants.ProgramID, params.Marketplace.Bytes(), params.Ticket.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive listing address")
	}

	var result PurchaseTicketResult
	err = p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if _, err := getAccountOfKind(ctx, qtx, params.Marketplace, entity.AccountKindMarketplace); err != nil {
			return errors.WithStack(err)
		}
		marketplace, err := qtx.GetMarketplace(ctx, params.Marketplace)
		if err != nil {
			return errors.Wrap(err, "failed to get marketplace record")
		}

		listingAccount, err := getAccountOfKind(ctx, qtx, listingAddr, entity.AccountKindListing)
		if err != nil {
			return errors.WithStack(err)
		}
		listing, err := qtx.GetListing(ctx, listingAddr)
		if err != nil {
			return errors.Wrap(err, "failed to get listing record")
		}

		ticket, err := qtx.GetTicket(ctx, params.Ticket)
		if err != nil {
			return errors.Wrap(err, "failed to get ticket record")
		}
		if ticket.Owner != listing.Seller {
			// The stored back-reference went stale; fail closed rather than
			// settle against the wrong owner.
			return errors.Wrapf(errs.InvalidArgument, "listing seller %s no longer owns ticket %s", listing.Seller, params.Ticket)
		}
		if ticket.Redeemed {
			// Redeemed after listing; the admission right no longer exists.
			return errors.Wrapf(errs.InvalidArgument, "ticket %s is already redeemed", params.Ticket)
		}

		cut, err := marketplaceCut(listing.Price, marketplace.Fee)
		if err != nil {
			return errors.WithStack(err)
		}
		proceeds := listing.Price - cut

		if err := debit(ctx, qtx, params.Buyer, listing.Price); err != nil {
			return errors.Wrap(err, "buyer cannot cover the listing price")
		}
		if err := credit(ctx, qtx, listing.Seller, proceeds); err != nil {
			return errors.Wrap(err, "failed to pay seller")
		}
		if cut > 0 {
			if err := credit(ctx, qtx, marketplace.Treasury, cut); err != nil {
				return errors.Wrap(err, "failed to pay treasury")
			}
		}

		if err := qtx.UpdateTicketOwner(ctx, params.Ticket, params.Buyer); err != nil {
			return errors.Wrap(err, "failed to transfer ticket ownership")
		}

		// Listing closes to the seller, returning its rent reserve.
		if err := closeListing(ctx, qtx, listing, listingAccount.Lamports, listing.Seller); err != nil {
			return errors.WithStack(err)
		}

		rewards := listing.Price / constants.RewardUnitPrice
		if rewards > 0 {
			if err := qtx.AddRewardBalance(ctx, marketplace.RewardsMint, params.Buyer, rewards); err != nil {
				return errors.Wrap(err, "failed to mint loyalty rewards")
			}
		}

		result = PurchaseTicketResult{
			Listing:        *listing,
			SellerProceeds: proceeds,
			MarketplaceCut: cut,
			RewardsMinted:  rewards,
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &result, nil
}

// marketplaceCut computes floor(price * fee / 10000) without overflowing
// uint64.
func marketplaceCut(price uint64, fee uint16) (uint64, error) {
	if fee == 0 {
		return 0, nil
	}
	if price > math.MaxUint64/uint64(fee) {
		return 0, errors.Wrapf(errs.OverflowUint64, "price %d with fee %d", price, fee)
	}
	return price * uint64(fee) / constants.BasisPointsDenominator, nil
}
