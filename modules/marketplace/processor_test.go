package marketplace

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
	"github.com/tickr-network/tickr/modules/marketplace/repository/memory"
)

func newTestProcessor() (*Processor, datagateway.MarketplaceDataGateway) {
	repo := memory.NewRepository()
	return NewProcessor(repo), repo
}

// testWallet derives a deterministic, non-zero wallet address from a tag so
// tests don't depend on randomness.
func testWallet(tag string) common.Address {
	return common.Address(sha256.Sum256([]byte("test wallet:" + tag)))
}

func fund(t *testing.T, p *Processor, addr common.Address, amount uint64) {
	t.Helper()
	require.NoError(t, p.Airdrop(context.Background(), AirdropParams{To: addr, Amount: amount}))
}

func balanceOf(t *testing.T, dg datagateway.MarketplaceDataGateway, addr common.Address) uint64 {
	t.Helper()
	balance, err := dg.GetBalance(context.Background(), addr)
	require.NoError(t, err)
	return balance
}

func TestAirdrop(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing account", func(t *testing.T) {
		p, dg := newTestProcessor()
		wallet := testWallet("airdrop-new")

		err := p.Airdrop(ctx, AirdropParams{To: wallet, Amount: 1_000})
		require.NoError(t, err)

		account, err := dg.GetAccount(ctx, wallet)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountKindSystem, account.Kind)
		assert.Equal(t, uint64(1_000), account.Lamports)
	})

	t.Run("accumulates on existing account", func(t *testing.T) {
		p, dg := newTestProcessor()
		wallet := testWallet("airdrop-existing")
		fund(t, p, wallet, 500)
		fund(t, p, wallet, 700)

		assert.Equal(t, uint64(1_200), balanceOf(t, dg, wallet))
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		p, _ := newTestProcessor()
		err := p.Airdrop(ctx, AirdropParams{To: testWallet("airdrop-zero"), Amount: 0})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("rejects zero address", func(t *testing.T) {
		p, _ := newTestProcessor()
		err := p.Airdrop(ctx, AirdropParams{To: common.Address{}, Amount: 1})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves value between wallets", func(t *testing.T) {
		p, dg := newTestProcessor()
		from := testWallet("transfer-from")
		to := testWallet("transfer-to")
		fund(t, p, from, 10_000)

		err := p.Transfer(ctx, TransferParams{From: from, To: to, Amount: 4_000})
		require.NoError(t, err)

		assert.Equal(t, uint64(6_000), balanceOf(t, dg, from))
		assert.Equal(t, uint64(4_000), balanceOf(t, dg, to))
	})

	t.Run("creates the recipient account", func(t *testing.T) {
		p, dg := newTestProcessor()
		from := testWallet("transfer-from-2")
		to := testWallet("transfer-to-2")
		fund(t, p, from, 1_000)

		require.NoError(t, p.Transfer(ctx, TransferParams{From: from, To: to, Amount: 1_000}))

		account, err := dg.GetAccount(ctx, to)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountKindSystem, account.Kind)
	})

	t.Run("insufficient funds rolls back", func(t *testing.T) {
		p, dg := newTestProcessor()
		from := testWallet("transfer-poor")
		to := testWallet("transfer-rich")
		fund(t, p, from, 100)

		err := p.Transfer(ctx, TransferParams{From: from, To: to, Amount: 101})
		assert.ErrorIs(t, err, errs.InsufficientFunds)

		assert.Equal(t, uint64(100), balanceOf(t, dg, from))
		_, err = dg.GetAccount(ctx, to)
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("unknown sender", func(t *testing.T) {
		p, _ := newTestProcessor()
		err := p.Transfer(ctx, TransferParams{From: testWallet("transfer-ghost"), To: testWallet("transfer-to-3"), Amount: 1})
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		p, _ := newTestProcessor()
		err := p.Transfer(ctx, TransferParams{From: testWallet("a"), To: testWallet("b"), Amount: 0})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("rejects zero endpoints", func(t *testing.T) {
		p, _ := newTestProcessor()
		err := p.Transfer(ctx, TransferParams{From: common.Address{}, To: testWallet("b"), Amount: 1})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}

func TestMarketplaceCut(t *testing.T) {
	cut, err := marketplaceCut(5_000, 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), cut)

	cut, err = marketplaceCut(9_999, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cut)

	cut, err = marketplaceCut(123_456, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cut)

	cut, err = marketplaceCut(1, constants.MaxFeeBasisPoints)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cut)

	_, err = marketplaceCut(1<<63, 500)
	assert.ErrorIs(t, err, errs.OverflowUint64)
}
