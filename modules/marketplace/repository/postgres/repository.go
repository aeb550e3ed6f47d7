package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/tickr-network/tickr/internal/postgres"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
)

// Make sure to implement the MarketplaceDataGateway interface
var _ datagateway.MarketplaceDataGateway = (*Repository)(nil)

type Repository struct {
	db postgres.DB
	tx pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// queryable returns the current transaction if one is active, otherwise the
// underlying pool.
func (r *Repository) queryable() postgres.Queryable {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// lockSuffix returns the row-locking clause for single-row reads. Inside a
// transaction every read locks the row it touches, so check-then-mutate
// sequences are serialized against concurrent transactions.
func (r *Repository) lockSuffix() string {
	if r.tx != nil {
		return " FOR UPDATE"
	}
	return ""
}

func (r *Repository) BeginMarketplaceTx(ctx context.Context) (datagateway.MarketplaceDataGatewayWithTx, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	return &Repository{
		db: r.db,
		tx: tx,
	}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	if err := r.tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	r.tx = nil
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	if err := r.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Wrap(err, "failed to rollback transaction")
	}
	r.tx = nil
	return nil
}
