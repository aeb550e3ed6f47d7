package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

const selectMarketplace = `
	SELECT address, bump, name, admin, fee, rewards_mint, rewards_bump, treasury, treasury_bump, created_at
	FROM marketplace_marketplaces`

func (r *Repository) GetMarketplace(ctx context.Context, addr common.Address) (*entity.Marketplace, error) {
	row := r.queryable().QueryRow(ctx, selectMarketplace+` WHERE address = $1`+r.lockSuffix(), addr[:])
	marketplace, err := scanMarketplace(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "marketplace %s", addr)
		}
		return nil, errors.Wrap(err, "failed to get marketplace")
	}
	return marketplace, nil
}

func (r *Repository) GetMarketplaceByName(ctx context.Context, name string) (*entity.Marketplace, error) {
	row := r.queryable().QueryRow(ctx, selectMarketplace+` WHERE name = $1`+r.lockSuffix(), name)
	marketplace, err := scanMarketplace(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "marketplace %q", name)
		}
		return nil, errors.Wrap(err, "failed to get marketplace by name")
	}
	return marketplace, nil
}

func (r *Repository) CreateMarketplace(ctx context.Context, marketplace entity.Marketplace) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_marketplaces (address, bump, name, admin, fee, rewards_mint, rewards_bump, treasury, treasury_bump, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
		marketplace.Address[:], int16(marketplace.Bump), marketplace.Name, marketplace.Admin[:],
		int32(marketplace.Fee), marketplace.RewardsMint[:], int16(marketplace.RewardsBump),
		marketplace.Treasury[:], int16(marketplace.TreasuryBump),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.Duplicate, "marketplace %q", marketplace.Name)
		}
		return errors.Wrap(err, "failed to create marketplace")
	}
	return nil
}

func (r *Repository) GetManager(ctx context.Context, addr common.Address) (*entity.Manager, error) {
	row := r.queryable().QueryRow(ctx, `
		SELECT address, bump, authority, is_active, created_at
		FROM marketplace_managers
		WHERE address = $1`+r.lockSuffix(),
		addr[:],
	)
	var (
		rawAddress   []byte
		bump         int16
		rawAuthority []byte
		manager      entity.Manager
	)
	if err := row.Scan(&rawAddress, &bump, &rawAuthority, &manager.IsActive, &manager.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "manager %s", addr)
		}
		return nil, errors.Wrap(err, "failed to get manager")
	}
	address, err := addressFromBytes(rawAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid manager address")
	}
	authority, err := addressFromBytes(rawAuthority)
	if err != nil {
		return nil, errors.Wrap(err, "invalid manager authority")
	}
	manager.Address = address
	manager.Bump = uint8(bump)
	manager.Authority = authority
	return &manager, nil
}

func (r *Repository) CreateManager(ctx context.Context, manager entity.Manager) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_managers (address, bump, authority, is_active, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		manager.Address[:], int16(manager.Bump), manager.Authority[:], manager.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.Duplicate, "manager %s", manager.Address)
		}
		return errors.Wrap(err, "failed to create manager")
	}
	return nil
}

func scanMarketplace(row pgx.Row) (*entity.Marketplace, error) {
	var (
		rawAddress     []byte
		bump           int16
		rawAdmin       []byte
		fee            int32
		rawRewardsMint []byte
		rewardsBump    int16
		rawTreasury    []byte
		treasuryBump   int16
		marketplace    entity.Marketplace
	)
	err := row.Scan(&rawAddress, &bump, &marketplace.Name, &rawAdmin, &fee,
		&rawRewardsMint, &rewardsBump, &rawTreasury, &treasuryBump, &marketplace.CreatedAt)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, field := range []struct {
		raw []byte
		dst *common.Address
	}{
		{rawAddress, &marketplace.Address},
		{rawAdmin, &marketplace.Admin},
		{rawRewardsMint, &marketplace.RewardsMint},
		{rawTreasury, &marketplace.Treasury},
	} {
		addr, err := addressFromBytes(field.raw)
		if err != nil {
			return nil, errors.Wrap(err, "invalid marketplace address field")
		}
		*field.dst = addr
	}
	marketplace.Bump = uint8(bump)
	marketplace.Fee = uint16(fee)
	marketplace.RewardsBump = uint8(rewardsBump)
	marketplace.TreasuryBump = uint8(treasuryBump)
	return &marketplace, nil
}
