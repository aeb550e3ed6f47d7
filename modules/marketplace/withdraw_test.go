package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

// treasuryWithFees provisions a marketplace whose treasury holds the
// rent-exempt reserve plus the given amount of collected fees.
func treasuryWithFees(t *testing.T, p *Processor, tag string, fees uint64) *entity.Marketplace {
	t.Helper()
	marketplace := setupMarketplace(t, p, tag, 500)
	if fees > 0 {
		funder := testWallet(tag + "-funder")
		fund(t, p, funder, fees)
		require.NoError(t, p.Transfer(context.Background(), TransferParams{
			From:   funder,
			To:     marketplace.Treasury,
			Amount: fees,
		}))
	}
	return marketplace
}

func TestWithdrawFromTreasury(t *testing.T) {
	ctx := context.Background()

	t.Run("admin withdraws collected fees", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace := treasuryWithFees(t, p, "wd", 5_000)
		adminBefore := balanceOf(t, dg, marketplace.Admin)

		err := p.WithdrawFromTreasury(ctx, WithdrawFromTreasuryParams{
			Marketplace: marketplace.Address,
			Admin:       marketplace.Admin,
			Amount:      5_000,
		})
		require.NoError(t, err)

		assert.Equal(t, constants.RentExemptReserve, balanceOf(t, dg, marketplace.Treasury))
		assert.Equal(t, adminBefore+5_000, balanceOf(t, dg, marketplace.Admin))
	})

	t.Run("treasury never drops below the reserve", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace := treasuryWithFees(t, p, "wd-floor", 500)

		err := p.WithdrawFromTreasury(ctx, WithdrawFromTreasuryParams{
			Marketplace: marketplace.Address,
			Admin:       marketplace.Admin,
			Amount:      501,
		})
		assert.ErrorIs(t, err, errs.InsufficientFunds)
		assert.Equal(t, constants.RentExemptReserve+500, balanceOf(t, dg, marketplace.Treasury))

		// The exact withdrawable amount still moves.
		err = p.WithdrawFromTreasury(ctx, WithdrawFromTreasuryParams{
			Marketplace: marketplace.Address,
			Admin:       marketplace.Admin,
			Amount:      500,
		})
		require.NoError(t, err)
		assert.Equal(t, constants.RentExemptReserve, balanceOf(t, dg, marketplace.Treasury))
	})

	t.Run("no partial withdrawals", func(t *testing.T) {
		p, dg := newTestProcessor()
		marketplace := treasuryWithFees(t, p, "wd-partial", 1_000)
		adminBefore := balanceOf(t, dg, marketplace.Admin)

		err := p.WithdrawFromTreasury(ctx, WithdrawFromTreasuryParams{
			Marketplace: marketplace.Address,
			Admin:       marketplace.Admin,
			Amount:      2_000,
		})
		assert.ErrorIs(t, err, errs.InsufficientFunds)
		assert.Equal(t, adminBefore, balanceOf(t, dg, marketplace.Admin))
		assert.Equal(t, constants.RentExemptReserve+1_000, balanceOf(t, dg, marketplace.Treasury))
	})

	t.Run("only the admin withdraws", func(t *testing.T) {
		p, _ := newTestProcessor()
		marketplace := treasuryWithFees(t, p, "wd-auth", 5_000)

		err := p.WithdrawFromTreasury(ctx, WithdrawFromTreasuryParams{
			Marketplace: marketplace.Address,
			Admin:       testWallet("wd-auth-stranger"),
			Amount:      1,
		})
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		p, _ := newTestProcessor()
		marketplace := treasuryWithFees(t, p, "wd-zero", 0)

		err := p.WithdrawFromTreasury(ctx, WithdrawFromTreasuryParams{
			Marketplace: marketplace.Address,
			Admin:       marketplace.Admin,
			Amount:      0,
		})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("unknown marketplace", func(t *testing.T) {
		p, _ := newTestProcessor()
		err := p.WithdrawFromTreasury(ctx, WithdrawFromTreasuryParams{
			Marketplace: testWallet("wd-missing"),
			Admin:       testWallet("wd-missing-admin"),
			Amount:      1,
		})
		assert.ErrorIs(t, err, errs.NotFound)
	})
}
