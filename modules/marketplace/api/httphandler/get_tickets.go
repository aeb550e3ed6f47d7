package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

type ticketResult struct {
	Address      common.Address `json:"address"`
	Event        common.Address `json:"event"`
	Owner        common.Address `json:"owner"`
	Serial       uint32         `json:"serial"`
	Transferable bool           `json:"transferable"`
	Redeemed     bool           `json:"redeemed"`
	CreatedAt    int64          `json:"createdAt"` // unix timestamp
}

func newTicketResult(ticket *entity.Ticket) ticketResult {
	return ticketResult{
		Address:      ticket.Address,
		Event:        ticket.Event,
		Owner:        ticket.Owner,
		Serial:       ticket.Serial,
		Transferable: ticket.Transferable,
		Redeemed:     ticket.Redeemed,
		CreatedAt:    ticket.CreatedAt.Unix(),
	}
}

type getTicketRequest struct {
	Address string `params:"address"`
}

func (r *getTicketRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Address); !ok {
		errList = append(errList, errors.Errorf("address '%s' is not a valid address", r.Address))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTicketResponse = HttpResponse[ticketResult]

func (h *HttpHandler) GetTicket(ctx *fiber.Ctx) (err error) {
	var req getTicketRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	addr, _ := parseAddress(req.Address)

	ticket, err := h.usecase.GetTicket(ctx.UserContext(), addr)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("ticket not found")
		}
		return errors.Wrap(err, "error during GetTicket")
	}

	result := newTicketResult(ticket)
	resp := getTicketResponse{
		Result: &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getTicketsByWalletRequest struct {
	Wallet string `params:"wallet"`
}

func (r *getTicketsByWalletRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Wallet); !ok {
		errList = append(errList, errors.Errorf("wallet '%s' is not a valid address", r.Wallet))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTicketsResult struct {
	List []ticketResult `json:"list"`
}

type getTicketsResponse = HttpResponse[getTicketsResult]

func (h *HttpHandler) GetTicketsByWallet(ctx *fiber.Ctx) (err error) {
	var req getTicketsByWalletRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	wallet, _ := parseAddress(req.Wallet)

	tickets, err := h.usecase.GetTicketsByOwner(ctx.UserContext(), wallet)
	if err != nil {
		return errors.Wrap(err, "error during GetTicketsByOwner")
	}

	resp := getTicketsResponse{
		Result: &getTicketsResult{
			List: lo.Map(tickets, func(ticket *entity.Ticket, _ int) ticketResult {
				return newTicketResult(ticket)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getTicketsByEventRequest struct {
	Address string `params:"address"`
	Limit   int32  `query:"limit"`
	Offset  int32  `query:"offset"`
}

func (r *getTicketsByEventRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Address); !ok {
		errList = append(errList, errors.Errorf("address '%s' is not a valid address", r.Address))
	}
	if r.Limit < 0 || r.Offset < 0 {
		errList = append(errList, errors.New("limit and offset must not be negative"))
	}
	if r.Limit == 0 {
		r.Limit = defaultEventsLimit
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) GetTicketsByEvent(ctx *fiber.Ctx) (err error) {
	var req getTicketsByEventRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	event, _ := parseAddress(req.Address)

	tickets, err := h.usecase.GetTicketsByEvent(ctx.UserContext(), event, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetTicketsByEvent")
	}

	resp := getTicketsResponse{
		Result: &getTicketsResult{
			List: lo.Map(tickets, func(ticket *entity.Ticket, _ int) ticketResult {
				return newTicketResult(ticket)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
