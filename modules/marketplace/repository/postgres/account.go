package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

func (r *Repository) GetAccount(ctx context.Context, addr common.Address) (*entity.Account, error) {
	row := r.queryable().QueryRow(ctx, `
		SELECT address, kind, lamports, created_at
		FROM marketplace_accounts
		WHERE address = $1`+r.lockSuffix(),
		addr[:],
	)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "account %s", addr)
		}
		return nil, errors.Wrap(err, "failed to get account")
	}
	return account, nil
}

func (r *Repository) GetBalance(ctx context.Context, addr common.Address) (uint64, error) {
	account, err := r.GetAccount(ctx, addr)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return account.Lamports, nil
}

func (r *Repository) CreateAccount(ctx context.Context, account entity.Account) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_accounts (address, kind, lamports, created_at)
		VALUES ($1, $2, $3, now())`,
		account.Address[:], string(account.Kind), numericFromUint64(account.Lamports),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.Duplicate, "account %s", account.Address)
		}
		return errors.Wrap(err, "failed to create account")
	}
	return nil
}

func (r *Repository) SetBalance(ctx context.Context, addr common.Address, lamports uint64) error {
	tag, err := r.queryable().Exec(ctx, `
		UPDATE marketplace_accounts SET lamports = $2 WHERE address = $1`,
		addr[:], numericFromUint64(lamports),
	)
	if err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.NotFound, "account %s", addr)
	}
	return nil
}

func (r *Repository) UpdateAccountKind(ctx context.Context, addr common.Address, kind entity.AccountKind) error {
	tag, err := r.queryable().Exec(ctx, `
		UPDATE marketplace_accounts SET kind = $2 WHERE address = $1`,
		addr[:], string(kind),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update account kind")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.NotFound, "account %s", addr)
	}
	return nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var (
		rawAddress []byte
		kind       string
		lamports   pgtype.Numeric
		account    entity.Account
	)
	if err := row.Scan(&rawAddress, &kind, &lamports, &account.CreatedAt); err != nil {
		return nil, errors.WithStack(err)
	}
	address, err := addressFromBytes(rawAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid account address")
	}
	amount, err := uint64FromNumeric(lamports)
	if err != nil {
		return nil, errors.Wrap(err, "invalid account balance")
	}
	account.Address = address
	account.Kind = entity.AccountKind(kind)
	account.Lamports = amount
	return &account, nil
}
