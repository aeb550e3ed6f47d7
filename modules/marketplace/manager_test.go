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
	"github.com/tickr-network/tickr/pkg/pda"
)

func TestSetupManager(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an active manager", func(t *testing.T) {
		p, dg := newTestProcessor()
		authority := testWallet("mgr-authority")
		fund(t, p, authority, 2*constants.RentExemptReserve)

		manager, err := p.SetupManager(ctx, SetupManagerParams{Authority: authority})
		require.NoError(t, err)

		expectedAddr, expectedBump, err := pda.Find(constants.ProgramID, []byte(constants.SeedManager), authority.Bytes())
		require.NoError(t, err)
		assert.Equal(t, expectedAddr, manager.Address)
		assert.Equal(t, expectedBump, manager.Bump)
		assert.True(t, manager.IsActive)

		account, err := dg.GetAccount(ctx, manager.Address)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountKindManager, account.Kind)
		assert.Equal(t, constants.RentExemptReserve, account.Lamports)

		// The authority paid its own reserve.
		assert.Equal(t, constants.RentExemptReserve, balanceOf(t, dg, authority))
	})

	t.Run("separate payer funds the reserve", func(t *testing.T) {
		p, dg := newTestProcessor()
		authority := testWallet("mgr-authority-2")
		payer := testWallet("mgr-payer")
		fund(t, p, payer, 2*constants.RentExemptReserve)

		_, err := p.SetupManager(ctx, SetupManagerParams{Authority: authority, Payer: payer})
		require.NoError(t, err)

		assert.Equal(t, constants.RentExemptReserve, balanceOf(t, dg, payer))
		_, err = dg.GetAccount(ctx, authority)
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("one manager per authority", func(t *testing.T) {
		p, _ := newTestProcessor()
		authority := testWallet("mgr-authority-3")
		fund(t, p, authority, 4*constants.RentExemptReserve)

		_, err := p.SetupManager(ctx, SetupManagerParams{Authority: authority})
		require.NoError(t, err)

		_, err = p.SetupManager(ctx, SetupManagerParams{Authority: authority})
		assert.ErrorIs(t, err, errs.Duplicate)
	})

	t.Run("rejects zero authority", func(t *testing.T) {
		p, _ := newTestProcessor()
		_, err := p.SetupManager(ctx, SetupManagerParams{Authority: common.Address{}})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("unfunded payer", func(t *testing.T) {
		p, dg := newTestProcessor()
		authority := testWallet("mgr-authority-4")
		fund(t, p, authority, 10)

		_, err := p.SetupManager(ctx, SetupManagerParams{Authority: authority})
		assert.ErrorIs(t, err, errs.InsufficientFunds)

		_, err = dg.GetManager(ctx, mustManagerAddr(t, authority))
		assert.ErrorIs(t, err, errs.NotFound)
	})
}

func mustManagerAddr(t *testing.T, authority common.Address) common.Address {
	t.Helper()
	addr, _, err := pda.Find(constants.ProgramID, []byte(constants.SeedManager), authority.Bytes())
	require.NoError(t, err)
	return addr
}
