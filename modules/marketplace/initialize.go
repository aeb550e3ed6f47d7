package marketplace

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
	"github.com/tickr-network/tickr/pkg/pda"
)

type InitializeParams struct {
	Name  string
	Fee   uint16         // basis points
	Admin common.Address // signer, becomes Marketplace.Admin and pays the reserves
}

// Initialize creates the marketplace, its rewards mint and its treasury in
// one transaction. A second Initialize with the same name fails with
// errs.Duplicate and leaves the first marketplace untouched. The treasury
// must end up holding at least the rent-exempt reserve: whatever part of the
// reserve is not pre-funded is taken from the admin.
func (p *Processor) Initialize(ctx context.Context, params InitializeParams) (*entity.Marketplace, error) {
	if params.Name == "" || len(params.Name) > constants.MaxNameLength {
		return nil, errors.Wrapf(errs.InvalidArgument, "marketplace name must be 1..%d bytes", constants.MaxNameLength)
	}
	if params.Fee > constants.MaxFeeBasisPoints {
		return nil, errors.Wrapf(errs.InvalidArgument, "fee %d exceeds %d basis points", params.Fee, constants.MaxFeeBasisPoints)
	}
	if params.Admin.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "admin must not be the zero address")
	}

	marketplaceAddr, marketplaceBump, err := pda.Find(constants.ProgramID, []byte(constants.SeedMarketplace), []byte(params.Name))
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive marketplace address")
	}
	rewardsAddr, rewardsBump, err := pda.Find(constants.ProgramID, []byte(constants.SeedRewards), marketplaceAddr.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive rewards mint address")
	}
	treasuryAddr, treasuryBump, err := pda.Find(constants.ProgramID, []byte(constants.SeedTreasury), marketplaceAddr.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive treasury address")
	}

	marketplace := entity.Marketplace{
		Address:      marketplaceAddr,
		Bump:         marketplaceBump,
		Name:         params.Name,
		Admin:        params.Admin,
		Fee:          params.Fee,
		RewardsMint:  rewardsAddr,
		RewardsBump:  rewardsBump,
		Treasury:     treasuryAddr,
		TreasuryBump: treasuryBump,
	}

	err = p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if _, err := qtx.GetAccount(ctx, marketplaceAddr); err == nil {
			return errors.Wrapf(errs.Duplicate, "marketplace %q is already initialized", params.Name)
		} else if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to check marketplace account")
		}

		// The marketplace and rewards mint accounts are rent-funded by the
		// admin. The treasury may have been pre-funded by an ordinary
		// transfer; only the missing part of its reserve is taken.
		if err := debit(ctx, qtx, params.Admin, 2*constants.RentExemptReserve); err != nil {
			return errors.Wrap(err, "admin cannot fund account reserves")
		}
		if err := qtx.CreateAccount(ctx, entity.Account{
			Address:  marketplaceAddr,
			Kind:     entity.AccountKindMarketplace,
			Lamports: constants.RentExemptReserve,
		}); err != nil {
			return errors.Wrap(err, "failed to create marketplace account")
		}
		if err := qtx.CreateAccount(ctx, entity.Account{
			Address:  rewardsAddr,
			Kind:     entity.AccountKindRewardsMint,
			Lamports: constants.RentExemptReserve,
		}); err != nil {
			return errors.Wrap(err, "failed to create rewards mint account")
		}

		treasuryBalance := uint64(0)
		treasuryExists := false
		if treasuryAccount, err := qtx.GetAccount(ctx, treasuryAddr); err == nil {
			// Pre-funded by an ordinary transfer before initialization;
			// adopt the account as the treasury.
			treasuryBalance = treasuryAccount.Lamports
			treasuryExists = true
		} else if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to check treasury account")
		}
		if treasuryBalance < constants.RentExemptReserve {
			missing := constants.RentExemptReserve - treasuryBalance
			if err := debit(ctx, qtx, params.Admin, missing); err != nil {
				return errors.Wrap(err, "treasury reserve is not funded")
			}
			treasuryBalance += missing
		}
		if treasuryExists {
			if err := qtx.UpdateAccountKind(ctx, treasuryAddr, entity.AccountKindTreasury); err != nil {
				return errors.Wrap(err, "failed to adopt treasury account")
			}
			if err := qtx.SetBalance(ctx, treasuryAddr, treasuryBalance); err != nil {
				return errors.Wrap(err, "failed to set treasury balance")
			}
		} else {
			if err := qtx.CreateAccount(ctx, entity.Account{
				Address:  treasuryAddr,
				Kind:     entity.AccountKindTreasury,
				Lamports: treasuryBalance,
			}); err != nil {
				return errors.Wrap(err, "failed to create treasury account")
			}
		}

		if err := qtx.CreateMarketplace(ctx, marketplace); err != nil {
			return errors.Wrap(err, "failed to create marketplace record")
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &marketplace, nil
}
