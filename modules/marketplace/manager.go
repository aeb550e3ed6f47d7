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

type SetupManagerParams struct {
	Authority common.Address // signer, the organizer registering itself
	Payer     common.Address // signer, funds the manager account reserve
}

// SetupManager registers the caller as an event organizer. Self-service by
// design: no admin approval is required. At most one manager can exist per
// authority, enforced by derivation: a second SetupManager for the same
// authority fails with errs.Duplicate.
func (p *Processor) SetupManager(ctx context.Context, params SetupManagerParams) (*entity.Manager, error) {
	if params.Authority.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "authority must not be the zero address")
	}
	payer := params.Payer
	if payer.IsZero() {
		payer = params.Authority
	}

	managerAddr, bump, err := pda.Find(constants.ProgramID, []byte(constants.SeedManager), params.Authority.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive manager address")
	}

	manager := entity.Manager{
		Address:   managerAddr,
		Bump:      bump,
		Authority: params.Authority,
		IsActive:  true,
	}

	err = p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if _, err := qtx.GetAccount(ctx, managerAddr); err == nil {
			return errors.Wrapf(errs.Duplicate, "manager for %s already exists", params.Authority)
		} else if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to check manager account")
		}

		if err := debit(ctx, qtx, payer, constants.RentExemptReserve); err != nil {
			return errors.Wrap(err, "payer cannot fund manager account reserve")
		}
		if err := qtx.CreateAccount(ctx, entity.Account{
			Address:  managerAddr,
			Kind:     entity.AccountKindManager,
			Lamports: constants.RentExemptReserve,
		}); err != nil {
			return errors.Wrap(err, "failed to create manager account")
		}
		if err := qtx.CreateManager(ctx, manager); err != nil {
			return errors.Wrap(err, "failed to create manager record")
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &manager, nil
}
