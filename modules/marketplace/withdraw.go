package marketplace

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

type WithdrawFromTreasuryParams struct {
	Marketplace common.Address
	Admin       common.Address // signer, must be Marketplace.Admin
	Amount      uint64
}

// WithdrawFromTreasury moves collected fees from the treasury to the admin.
// The treasury can never be drawn below its rent-exempt reserve, and there
// are no partial withdrawals: either the full amount moves or nothing does.
func (p *Processor) WithdrawFromTreasury(ctx context.Context, params WithdrawFromTreasuryParams) error {
	if params.Amount == 0 {
		return errors.Wrap(errs.InvalidArgument, "withdrawal amount must be positive")
	}

	return p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if _, err := getAccountOfKind(ctx, qtx, params.Marketplace, entity.AccountKindMarketplace); err != nil {
			return errors.WithStack(err)
		}
		marketplace, err := qtx.GetMarketplace(ctx, params.Marketplace)
		if err != nil {
			return errors.Wrap(err, "failed to get marketplace record")
		}
		if marketplace.Admin != params.Admin {
			return errors.Wrapf(errs.Unauthorized, "%s is not the marketplace admin", params.Admin)
		}

		treasury, err := getAccountOfKind(ctx, qtx, marketplace.Treasury, entity.AccountKindTreasury)
		if err != nil {
			return errors.WithStack(err)
		}
		if treasury.Lamports < params.Amount || treasury.Lamports-params.Amount < constants.RentExemptReserve {
			withdrawable := uint64(0)
			if treasury.Lamports > constants.RentExemptReserve {
				withdrawable = treasury.Lamports - constants.RentExemptReserve
			}
			return errors.Wrapf(errs.InsufficientFunds, "withdrawable treasury balance is %d lamports, requested %d", withdrawable, params.Amount)
		}

		if err := qtx.SetBalance(ctx, marketplace.Treasury, treasury.Lamports-params.Amount); err != nil {
			return errors.Wrap(err, "failed to debit treasury")
		}
		if err := credit(ctx, qtx, params.Admin, params.Amount); err != nil {
			return errors.Wrap(err, "failed to credit admin")
		}
		return nil
	})
}
