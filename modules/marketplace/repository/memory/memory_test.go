package memory

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

func addr(tag string) common.Address {
	return common.Address(sha256.Sum256([]byte(tag)))
}

func TestTransactionCommit(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	tx, err := repo.BeginMarketplaceTx(ctx)
	require.NoError(t, err)

	account := entity.Account{Address: addr("commit"), Kind: entity.AccountKindSystem, Lamports: 42}
	require.NoError(t, tx.CreateAccount(ctx, account))
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	got, err := repo.GetAccount(ctx, account.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Lamports)
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	require.NoError(t, repo.CreateAccount(ctx, entity.Account{
		Address:  addr("rollback"),
		Kind:     entity.AccountKindSystem,
		Lamports: 100,
	}))

	tx, err := repo.BeginMarketplaceTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetBalance(ctx, addr("rollback"), 1))
	require.NoError(t, tx.CreateAccount(ctx, entity.Account{Address: addr("rollback-2"), Kind: entity.AccountKindSystem}))
	require.NoError(t, tx.Rollback(ctx))

	balance, err := repo.GetBalance(ctx, addr("rollback"))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance)
	_, err = repo.GetAccount(ctx, addr("rollback-2"))
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestNestedTransaction(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	tx, err := repo.BeginMarketplaceTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.BeginMarketplaceTx(ctx)
	assert.ErrorIs(t, err, errs.Unsupported)
}

func TestTransactionsAreSerialized(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	target := addr("serialized")
	require.NoError(t, repo.CreateAccount(ctx, entity.Account{Address: target, Kind: entity.AccountKindSystem}))

	// Two concurrent read-modify-write transactions must not lose an update.
	done := make(chan struct{})
	increment := func() {
		defer func() { done <- struct{}{} }()
		for i := 0; i < 100; i++ {
			tx, err := repo.BeginMarketplaceTx(ctx)
			require.NoError(t, err)
			account, err := tx.GetAccount(ctx, target)
			require.NoError(t, err)
			require.NoError(t, tx.SetBalance(ctx, target, account.Lamports+1))
			require.NoError(t, tx.Commit(ctx))
		}
	}
	go increment()
	go increment()
	<-done
	<-done

	balance, err := repo.GetBalance(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), balance)
}

func TestDuplicateAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	account := entity.Account{Address: addr("dup"), Kind: entity.AccountKindSystem}

	require.NoError(t, repo.CreateAccount(ctx, account))
	err := repo.CreateAccount(ctx, account)
	assert.ErrorIs(t, err, errs.Duplicate)
}
