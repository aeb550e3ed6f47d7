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

type CreateEventArgs struct {
	Name           string
	Category       string
	URI            string
	City           string
	Venue          string
	Organizer      string // display name
	Date           string
	Time           string
	Capacity       uint32
	IsTransferable bool
}

type CreateEventParams struct {
	Args         CreateEventArgs
	EventAddress common.Address // fresh address supplied by the caller, signer
	Organizer    common.Address // signer, must hold an active manager
	Payer        common.Address // signer, funds the collection account
}

// CreateEvent creates an event account and its collection asset. The caller
// must be a registered, active manager and co-sign as the organizer role.
// Capacity is immutable afterwards; tickets_sold starts at zero.
func (p *Processor) CreateEvent(ctx context.Context, params CreateEventParams) (*entity.Event, error) {
	args := params.Args
	if args.Name == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "event name must not be empty")
	}
	if args.Capacity < 1 {
		return nil, errors.Wrap(errs.InvalidArgument, "event capacity must be at least 1")
	}
	if params.EventAddress.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "event address must not be the zero address")
	}
	if params.Organizer.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "organizer must not be the zero address")
	}
	payer := params.Payer
	if payer.IsZero() {
		payer = params.Organizer
	}

	managerAddr, _, err := pda.Find(constants.ProgramID, []byte(constants.SeedManager), params.Organizer.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive manager address")
	}

	event := entity.Event{
		Address:        params.EventAddress,
		Name:           args.Name,
		Category:       args.Category,
		URI:            args.URI,
		City:           args.City,
		Venue:          args.Venue,
		Organizer:      args.Organizer,
		Date:           args.Date,
		Time:           args.Time,
		Capacity:       args.Capacity,
		TicketsSold:    0,
		IsTransferable: args.IsTransferable,
		Authority:      managerAddr,
	}

	err = p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if _, err := getAccountOfKind(ctx, qtx, managerAddr, entity.AccountKindManager); err != nil {
			if errors.Is(err, errs.NotFound) {
				return errors.Wrapf(errs.Unauthorized, "organizer %s has no manager record", params.Organizer)
			}
			return errors.WithStack(err)
		}
		manager, err := qtx.GetManager(ctx, managerAddr)
		if err != nil {
			return errors.Wrap(err, "failed to get manager record")
		}
		if !manager.IsActive {
			return errors.Wrapf(errs.Unauthorized, "manager for %s is inactive", params.Organizer)
		}

		if _, err := qtx.GetAccount(ctx, params.EventAddress); err == nil {
			return errors.Wrapf(errs.Duplicate, "account %s already exists", params.EventAddress)
		} else if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to check event account")
		}

		if err := debit(ctx, qtx, payer, constants.RentExemptReserve); err != nil {
			return errors.Wrap(err, "payer cannot fund event collection account")
		}
		if err := qtx.CreateAccount(ctx, entity.Account{
			Address:  params.EventAddress,
			Kind:     entity.AccountKindEventCollection,
			Lamports: constants.RentExemptReserve,
		}); err != nil {
			return errors.Wrap(err, "failed to create event collection account")
		}
		if err := qtx.CreateEvent(ctx, event); err != nil {
			return errors.Wrap(err, "failed to create event record")
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &event, nil
}
