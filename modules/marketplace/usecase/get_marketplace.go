package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

func (u *Usecase) GetMarketplace(ctx context.Context, addr common.Address) (*entity.Marketplace, error) {
	marketplace, err := u.marketplaceDg.GetMarketplace(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get marketplace")
	}
	return marketplace, nil
}

func (u *Usecase) GetMarketplaceByName(ctx context.Context, name string) (*entity.Marketplace, error) {
	marketplace, err := u.marketplaceDg.GetMarketplaceByName(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get marketplace by name")
	}
	return marketplace, nil
}

func (u *Usecase) GetTreasuryBalance(ctx context.Context, marketplace *entity.Marketplace) (uint64, error) {
	balance, err := u.marketplaceDg.GetBalance(ctx, marketplace.Treasury)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get treasury balance")
	}
	return balance, nil
}

func (u *Usecase) GetBalance(ctx context.Context, addr common.Address) (uint64, error) {
	balance, err := u.marketplaceDg.GetBalance(ctx, addr)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get balance")
	}
	return balance, nil
}

func (u *Usecase) GetRewardBalance(ctx context.Context, mint, owner common.Address) (uint64, error) {
	balance, err := u.marketplaceDg.GetRewardBalance(ctx, mint, owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get reward balance")
	}
	return balance, nil
}
