package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

// listedTicket provisions a marketplace, event, minted ticket and an active
// listing at the given price. Returns the marketplace, ticket and seller.
func listedTicket(t *testing.T, p *Processor, tag string, fee uint16, price uint64) (*entity.Marketplace, *entity.Ticket, common.Address) {
	t.Helper()
	ctx := context.Background()
	marketplace := setupMarketplace(t, p, tag, fee)
	_, event := setupEvent(t, p, tag, 10, true)
	seller := testWallet(tag + "-seller")
	ticket := mintTicket(t, p, event, seller, tag)
	_, err := p.ListTicket(ctx, ListTicketParams{
		Marketplace: marketplace.Address,
		Ticket:      ticket.Address,
		Seller:      seller,
		Price:       price,
	})
	require.NoError(t, err)
	return marketplace, ticket, seller
}

func TestPurchaseTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("settles price, fee and rewards", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace, ticket, seller := listedTicket(t, p, "buy", 500, 5_000)
		buyer := testWallet("buy-buyer")
		fund(t, p, buyer, 100_000)

		sellerBefore := balanceOf(t, dg, seller)
		treasuryBefore := balanceOf(t, dg, marketplace.Treasury)

		result, err := p.PurchaseTicket(ctx, PurchaseTicketParams{
			Marketplace: marketplace.Address,
			Ticket:      ticket.Address,
			Buyer:       buyer,
		})
		require.NoError(t, err)

		// 500 basis points of 5000 is 250; the rest goes to the seller.
		assert.Equal(t, uint64(250), result.MarketplaceCut)
		assert.Equal(t, uint64(4_750), result.SellerProceeds)
		assert.Equal(t, uint64(5), result.RewardsMinted)

		assert.Equal(t, uint64(100_000-5_000), balanceOf(t, dg, buyer))
		// The seller receives the proceeds plus the listing reserve back.
		assert.Equal(t, sellerBefore+4_750+constants.RentExemptReserve, balanceOf(t, dg, seller))
		assert.Equal(t, treasuryBefore+250, balanceOf(t, dg, marketplace.Treasury))

		stored, err := dg.GetTicket(ctx, ticket.Address)
		require.NoError(t, err)
		assert.Equal(t, buyer, stored.Owner)

		_, err = dg.GetListing(ctx, listingAddr(t, marketplace.Address, ticket.Address))
		assert.ErrorIs(t, err, errs.NotFound)

		rewards, err := dg.GetRewardBalance(ctx, marketplace.RewardsMint, buyer)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), rewards)
	})

	t.Run("zero fee marketplace", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace, ticket, seller := listedTicket(t, p, "buy-nofee", 0, 999)
		buyer := testWallet("buy-nofee-buyer")
		fund(t, p, buyer, 10_000)
		sellerBefore := balanceOf(t, dg, seller)
		treasuryBefore := balanceOf(t, dg, marketplace.Treasury)

		result, err := p.PurchaseTicket(ctx, PurchaseTicketParams{
			Marketplace: marketplace.Address,
			Ticket:      ticket.Address,
			Buyer:       buyer,
		})
		require.NoError(t, err)

		assert.Equal(t, uint64(0), result.MarketplaceCut)
		assert.Equal(t, uint64(999), result.SellerProceeds)
		// 999 lamports is below the reward unit.
		assert.Equal(t, uint64(0), result.RewardsMinted)
		assert.Equal(t, sellerBefore+999+constants.RentExemptReserve, balanceOf(t, dg, seller))
		assert.Equal(t, treasuryBefore, balanceOf(t, dg, marketplace.Treasury))
	})

	t.Run("treasury accrues over purchases", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace := setupMarketplace(t, p, "buy-accrue", 1_000)
		_, event := setupEvent(t, p, "buy-accrue", 10, true)
		buyer := testWallet("buy-accrue-buyer")
		fund(t, p, buyer, 10*constants.RentExemptReserve)

		var want uint64
		for i, price := range []uint64{10_000, 3_333, 70_001} {
			seller := testWallet("buy-accrue-seller")
			ticket := mintTicket(t, p, event, seller, "buy-accrue-"+string(rune('a'+i)))
			_, err := p.ListTicket(ctx, ListTicketParams{
				Marketplace: marketplace.Address,
				Ticket:      ticket.Address,
				Seller:      seller,
				Price:       price,
			})
			require.NoError(t, err)
			_, err = p.PurchaseTicket(ctx, PurchaseTicketParams{
				Marketplace: marketplace.Address,
				Ticket:      ticket.Address,
				Buyer:       buyer,
			})
			require.NoError(t, err)
			want += price * 1_000 / constants.BasisPointsDenominator
		}

		assert.Equal(t, constants.RentExemptReserve+want, balanceOf(t, dg, marketplace.Treasury))
	})

	t.Run("broke buyer rolls back", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace, ticket, seller := listedTicket(t, p, "buy-broke", 500, 50_000)
		buyer := testWallet("buy-broke-buyer")
		fund(t, p, buyer, 49_999)
		sellerBefore := balanceOf(t, dg, seller)

		_, err := p.PurchaseTicket(ctx, PurchaseTicketParams{
			Marketplace: marketplace.Address,
			Ticket:      ticket.Address,
			Buyer:       buyer,
		})
		assert.ErrorIs(t, err, errs.InsufficientFunds)

		assert.Equal(t, uint64(49_999), balanceOf(t, dg, buyer))
		assert.Equal(t, sellerBefore, balanceOf(t, dg, seller))
		stored, err := dg.GetTicket(ctx, ticket.Address)
		require.NoError(t, err)
		assert.Equal(t, seller, stored.Owner)
		_, err = dg.GetListing(ctx, listingAddr(t, marketplace.Address, ticket.Address))
		assert.NoError(t, err)
	})

	t.Run("stale listing fails closed", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace, ticket, _ := listedTicket(t, p, "buy-stale", 500, 5_000)
		buyer := testWallet("buy-stale-buyer")
		fund(t, p, buyer, 100_000)

		// Ownership moved underneath the listing.
		require.NoError(t, dg.UpdateTicketOwner(ctx, ticket.Address, testWallet("buy-stale-new-owner")))

		_, err := p.PurchaseTicket(ctx, PurchaseTicketParams{
			Marketplace: marketplace.Address,
			Ticket:      ticket.Address,
			Buyer:       buyer,
		})
		assert.ErrorIs(t, err, errs.InvalidArgument)
		assert.Equal(t, uint64(100_000), balanceOf(t, dg, buyer))
	})

	t.Run("redeemed after listing fails closed", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace, ticket, seller := listedTicket(t, p, "buy-redeemed", 500, 5_000)
		buyer := testWallet("buy-redeemed-buyer")
		fund(t, p, buyer, 100_000)

		// The seller redeems while the listing is still open.
		_, err := p.RedeemTicket(ctx, RedeemTicketParams{Ticket: ticket.Address, Owner: seller})
		require.NoError(t, err)
		sellerBefore := balanceOf(t, dg, seller)
		treasuryBefore := balanceOf(t, dg, marketplace.Treasury)

		_, err = p.PurchaseTicket(ctx, PurchaseTicketParams{
			Marketplace: marketplace.Address,
			Ticket:      ticket.Address,
			Buyer:       buyer,
		})
		assert.ErrorIs(t, err, errs.InvalidArgument)

		assert.Equal(t, uint64(100_000), balanceOf(t, dg, buyer))
		assert.Equal(t, sellerBefore, balanceOf(t, dg, seller))
		assert.Equal(t, treasuryBefore, balanceOf(t, dg, marketplace.Treasury))
		stored, err := dg.GetTicket(ctx, ticket.Address)
		require.NoError(t, err)
		assert.Equal(t, seller, stored.Owner)
		rewards, err := dg.GetRewardBalance(ctx, marketplace.RewardsMint, buyer)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), rewards)

		// The dead listing can still be delisted to recover the reserve.
		require.NoError(t, p.DelistTicket(ctx, DelistTicketParams{
			Marketplace: marketplace.Address,
			Ticket:      ticket.Address,
			Seller:      seller,
		}))
		assert.Equal(t, sellerBefore+constants.RentExemptReserve, balanceOf(t, dg, seller))
	})

	t.Run("unknown listing", func(t *testing.T) {
		p, _ := newTestProcessor()
		marketplace := setupMarketplace(t, p, "buy-none", 500)
		buyer := testWallet("buy-none-buyer")
		fund(t, p, buyer, 100_000)

		_, err := p.PurchaseTicket(ctx, PurchaseTicketParams{
			Marketplace: marketplace.Address,
			Ticket:      testWallet("buy-none-ticket"),
			Buyer:       buyer,
		})
		assert.ErrorIs(t, err, errs.NotFound)
	})
}
