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

type GenerateTicketParams struct {
	Event         common.Address
	TicketAddress common.Address // fresh address supplied by the caller, signer
	Recipient     common.Address // becomes Ticket.Owner
	Payer         common.Address // signer, funds the ticket asset account
}

// GenerateTicket mints a ticket asset into the event's collection. The
// capacity check and the tickets_sold increment happen on the same event row
// inside one transaction; minting past capacity fails with
// errs.CapacityExceeded and mutates nothing.
func (p *Processor) GenerateTicket(ctx context.Context, params GenerateTicketParams) (*entity.Ticket, error) {
	if params.Event.IsZero() || params.TicketAddress.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "event and ticket addresses must not be zero")
	}
	if params.Recipient.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "recipient must not be the zero address")
	}
	payer := params.Payer
	if payer.IsZero() {
		payer = params.Recipient
	}

	var ticket entity.Ticket
	err := p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if _, err := getAccountOfKind(ctx, qtx, params.Event, entity.AccountKindEventCollection); err != nil {
			return errors.WithStack(err)
		}
		event, err := qtx.GetEvent(ctx, params.Event)
		if err != nil {
			return errors.Wrap(err, "failed to get event record")
		}
		if event.TicketsSold >= event.Capacity {
			return errors.Wrapf(errs.CapacityExceeded, "event %s sold %d of %d tickets", event.Address, event.TicketsSold, event.Capacity)
		}

		if _, err := qtx.GetAccount(ctx, params.TicketAddress); err == nil {
			return errors.Wrapf(errs.Duplicate, "account %s already exists", params.TicketAddress)
		} else if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to check ticket account")
		}

		if err := debit(ctx, qtx, payer, constants.RentExemptReserve); err != nil {
			return errors.Wrap(err, "payer cannot fund ticket asset account")
		}
		if err := qtx.CreateAccount(ctx, entity.Account{
			Address:  params.TicketAddress,
			Kind:     entity.AccountKindTicketAsset,
			Lamports: constants.RentExemptReserve,
		}); err != nil {
			return errors.Wrap(err, "failed to create ticket asset account")
		}

		ticket = entity.Ticket{
			Address:      params.TicketAddress,
			Event:        event.Address,
			Owner:        params.Recipient,
			Serial:       event.TicketsSold + 1,
			Transferable: event.IsTransferable,
		}
		if err := qtx.CreateTicket(ctx, ticket); err != nil {
			return errors.Wrap(err, "failed to create ticket record")
		}
		if err := qtx.UpdateEventTicketsSold(ctx, event.Address, event.TicketsSold+1); err != nil {
			return errors.Wrap(err, "failed to increment tickets sold")
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &ticket, nil
}

type RedeemTicketParams struct {
	Ticket common.Address
	Owner  common.Address // signer, current holder
}

// RedeemTicket burns the admission right: the terminal state of a ticket.
// Only the current owner may redeem, and a redeemed ticket can never be
// listed, transferred or redeemed again.
func (p *Processor) RedeemTicket(ctx context.Context, params RedeemTicketParams) (*entity.Ticket, error) {
	if params.Ticket.IsZero() {
		return nil, errors.Wrap(errs.InvalidArgument, "ticket address must not be zero")
	}

	var redeemed entity.Ticket
	err := p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if _, err := getAccountOfKind(ctx, qtx, params.Ticket, entity.AccountKindTicketAsset); err != nil {
			return errors.WithStack(err)
		}
		ticket, err := qtx.GetTicket(ctx, params.Ticket)
		if err != nil {
			return errors.Wrap(err, "failed to get ticket record")
		}
		if ticket.Owner != params.Owner {
			return errors.Wrapf(errs.Unauthorized, "%s does not own ticket %s", params.Owner, params.Ticket)
		}
		if ticket.Redeemed {
			return errors.Wrapf(errs.InvalidArgument, "ticket %s is already redeemed", params.Ticket)
		}
		if err := qtx.SetTicketRedeemed(ctx, params.Ticket); err != nil {
			return errors.Wrap(err, "failed to mark ticket redeemed")
		}
		redeemed = *ticket
		redeemed.Redeemed = true
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &redeemed, nil
}
