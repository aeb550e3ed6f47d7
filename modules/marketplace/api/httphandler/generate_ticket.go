package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace"
)

type generateTicketRequest struct {
	Event         string `json:"event"`
	TicketAddress string `json:"ticketAddress"`
	Recipient     string `json:"recipient"`
	Payer         string `json:"payer"` // optional, defaults to recipient
}

func (r *generateTicketRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Event); !ok {
		errList = append(errList, errors.Errorf("event '%s' is not a valid address", r.Event))
	}
	if _, ok := parseAddress(r.TicketAddress); !ok {
		errList = append(errList, errors.Errorf("ticketAddress '%s' is not a valid address", r.TicketAddress))
	}
	if _, ok := parseAddress(r.Recipient); !ok {
		errList = append(errList, errors.Errorf("recipient '%s' is not a valid address", r.Recipient))
	}
	if r.Payer != "" {
		if _, ok := parseAddress(r.Payer); !ok {
			errList = append(errList, errors.Errorf("payer '%s' is not a valid address", r.Payer))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type generateTicketResponse = HttpResponse[ticketResult]

func (h *HttpHandler) GenerateTicket(ctx *fiber.Ctx) (err error) {
	var req generateTicketRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	event, _ := parseAddress(req.Event)
	ticketAddr, _ := parseAddress(req.TicketAddress)
	recipient, _ := parseAddress(req.Recipient)
	payer := recipient
	if req.Payer != "" {
		payer, _ = parseAddress(req.Payer)
	}

	ticket, err := h.processor.GenerateTicket(ctx.UserContext(), marketplace.GenerateTicketParams{
		Event:         event,
		TicketAddress: ticketAddr,
		Recipient:     recipient,
		Payer:         payer,
	})
	if err != nil {
		if errors.Is(err, errs.CapacityExceeded) {
			return errs.WithPublicMessage(err, "event is sold out")
		}
		if errors.Is(err, errs.NotFound) {
			return errs.WithPublicMessage(err, "event not found")
		}
		if errors.Is(err, errs.Duplicate) {
			return errs.WithPublicMessage(err, "ticket address already in use")
		}
		if errors.Is(err, errs.InsufficientFunds) {
			return errs.WithPublicMessage(err, "payer cannot fund the ticket reserve")
		}
		return errors.Wrap(err, "error during GenerateTicket")
	}

	result := newTicketResult(ticket)
	resp := generateTicketResponse{
		Result: &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}
