package marketplace

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
	"github.com/tickr-network/tickr/pkg/pda"
)

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("creates marketplace, rewards mint and treasury", func(t *testing.T) {
		p, dg := newTestProcessor()
		admin := testWallet("init-admin")
		fund(t, p, admin, 10*constants.RentExemptReserve)

		marketplace, err := p.Initialize(ctx, InitializeParams{Name: "tickr", Fee: 500, Admin: admin})
		require.NoError(t, err)

		expectedAddr, expectedBump, err := pda.Find(constants.ProgramID, []byte(constants.SeedMarketplace), []byte("tickr"))
		require.NoError(t, err)
		assert.Equal(t, expectedAddr, marketplace.Address)
		assert.Equal(t, expectedBump, marketplace.Bump)
		assert.Equal(t, admin, marketplace.Admin)
		assert.Equal(t, uint16(500), marketplace.Fee)

		marketplaceAccount, err := dg.GetAccount(ctx, marketplace.Address)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountKindMarketplace, marketplaceAccount.Kind)
		assert.Equal(t, constants.RentExemptReserve, marketplaceAccount.Lamports)

		rewardsAccount, err := dg.GetAccount(ctx, marketplace.RewardsMint)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountKindRewardsMint, rewardsAccount.Kind)

		treasuryAccount, err := dg.GetAccount(ctx, marketplace.Treasury)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountKindTreasury, treasuryAccount.Kind)
		assert.Equal(t, constants.RentExemptReserve, treasuryAccount.Lamports)

		// The admin funded all three reserves.
		assert.Equal(t, 7*constants.RentExemptReserve, balanceOf(t, dg, admin))

		stored, err := dg.GetMarketplaceByName(ctx, "tickr")
		require.NoError(t, err)
		assert.Equal(t, marketplace.Address, stored.Address)
	})

	t.Run("same name twice is a duplicate", func(t *testing.T) {
		p, dg := newTestProcessor()
		admin := testWallet("init-admin-dup")
		fund(t, p, admin, 10*constants.RentExemptReserve)

		first, err := p.Initialize(ctx, InitializeParams{Name: "mainstage", Fee: 250, Admin: admin})
		require.NoError(t, err)

		other := testWallet("init-other-admin")
		fund(t, p, other, 10*constants.RentExemptReserve)
		_, err = p.Initialize(ctx, InitializeParams{Name: "mainstage", Fee: 9_999, Admin: other})
		assert.ErrorIs(t, err, errs.Duplicate)

		// The first marketplace is untouched.
		stored, err := dg.GetMarketplaceByName(ctx, "mainstage")
		require.NoError(t, err)
		assert.Equal(t, first.Admin, stored.Admin)
		assert.Equal(t, uint16(250), stored.Fee)
		assert.Equal(t, uint64(10*constants.RentExemptReserve), balanceOf(t, dg, other))
	})

	t.Run("adopts a partially pre-funded treasury", func(t *testing.T) {
		p, dg := newTestProcessor()
		admin := testWallet("init-admin-prefund")
		fund(t, p, admin, 10*constants.RentExemptReserve)

		marketplaceAddr, _, err := pda.Find(constants.ProgramID, []byte(constants.SeedMarketplace), []byte("prefunded"))
		require.NoError(t, err)
		treasuryAddr, _, err := pda.Find(constants.ProgramID, []byte(constants.SeedTreasury), marketplaceAddr.Bytes())
		require.NoError(t, err)

		prefund := uint64(300_000)
		require.NoError(t, p.Transfer(ctx, TransferParams{From: admin, To: treasuryAddr, Amount: prefund}))

		marketplace, err := p.Initialize(ctx, InitializeParams{Name: "prefunded", Fee: 100, Admin: admin})
		require.NoError(t, err)
		assert.Equal(t, treasuryAddr, marketplace.Treasury)

		treasuryAccount, err := dg.GetAccount(ctx, treasuryAddr)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountKindTreasury, treasuryAccount.Kind)
		assert.Equal(t, constants.RentExemptReserve, treasuryAccount.Lamports)

		// Only the missing part of the treasury reserve came from the admin:
		// the prefund, then two full reserves, then reserve minus prefund.
		expected := 10*constants.RentExemptReserve - prefund - 2*constants.RentExemptReserve - (constants.RentExemptReserve - prefund)
		assert.Equal(t, expected, balanceOf(t, dg, admin))
	})

	t.Run("keeps an over-funded treasury balance", func(t *testing.T) {
		p, dg := newTestProcessor()
		admin := testWallet("init-admin-overfund")
		fund(t, p, admin, 10*constants.RentExemptReserve)

		marketplaceAddr, _, err := pda.Find(constants.ProgramID, []byte(constants.SeedMarketplace), []byte("overfunded"))
		require.NoError(t, err)
		treasuryAddr, _, err := pda.Find(constants.ProgramID, []byte(constants.SeedTreasury), marketplaceAddr.Bytes())
		require.NoError(t, err)

		prefund := constants.RentExemptReserve + 123
		require.NoError(t, p.Transfer(ctx, TransferParams{From: admin, To: treasuryAddr, Amount: prefund}))

		_, err = p.Initialize(ctx, InitializeParams{Name: "overfunded", Fee: 100, Admin: admin})
		require.NoError(t, err)

		assert.Equal(t, prefund, balanceOf(t, dg, treasuryAddr))
		// The admin paid only the marketplace and rewards mint reserves.
		assert.Equal(t, 10*constants.RentExemptReserve-prefund-2*constants.RentExemptReserve, balanceOf(t, dg, admin))
	})

	t.Run("poor admin rolls back completely", func(t *testing.T) {
		p, dg := newTestProcessor()
		admin := testWallet("init-admin-poor")
		fund(t, p, admin, constants.RentExemptReserve)

		_, err := p.Initialize(ctx, InitializeParams{Name: "broke", Fee: 0, Admin: admin})
		assert.ErrorIs(t, err, errs.InsufficientFunds)

		_, err = dg.GetMarketplaceByName(ctx, "broke")
		assert.ErrorIs(t, err, errs.NotFound)
		assert.Equal(t, constants.RentExemptReserve, balanceOf(t, dg, admin))
	})

	t.Run("validates name and fee", func(t *testing.T) {
		p, _ := newTestProcessor()
		admin := testWallet("init-admin-invalid")

		_, err := p.Initialize(ctx, InitializeParams{Name: "", Fee: 0, Admin: admin})
		assert.ErrorIs(t, err, errs.InvalidArgument)

		_, err = p.Initialize(ctx, InitializeParams{Name: strings.Repeat("x", constants.MaxNameLength+1), Fee: 0, Admin: admin})
		assert.ErrorIs(t, err, errs.InvalidArgument)

		_, err = p.Initialize(ctx, InitializeParams{Name: "ok", Fee: constants.MaxFeeBasisPoints + 1, Admin: admin})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}
