package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace"
)

const entryPassTTL = 24 * time.Hour

type redeemTicketRequest struct {
	Address string `params:"address"`
	Owner   string `json:"owner"`
}

func (r *redeemTicketRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Address); !ok {
		errList = append(errList, errors.Errorf("address '%s' is not a valid address", r.Address))
	}
	if _, ok := parseAddress(r.Owner); !ok {
		errList = append(errList, errors.Errorf("owner '%s' is not a valid address", r.Owner))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type redeemTicketResult struct {
	Ticket    ticketResult `json:"ticket"`
	EntryPass string       `json:"entryPass"`
}

type redeemTicketResponse = HttpResponse[redeemTicketResult]

// RedeemTicket burns the ticket's admission right and returns a signed entry
// pass the venue gate can verify offline.
func (h *HttpHandler) RedeemTicket(ctx *fiber.Ctx) (err error) {
	var req redeemTicketRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	addr, _ := parseAddress(req.Address)
	owner, _ := parseAddress(req.Owner)

	ticket, err := h.processor.RedeemTicket(ctx.UserContext(), marketplace.RedeemTicketParams{
		Ticket: addr,
		Owner:  owner,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.NotFound):
			return errs.WithPublicMessage(err, "ticket not found")
		case errors.Is(err, errs.Unauthorized):
			return errs.WithPublicMessage(err, "only the ticket owner can redeem")
		case errors.Is(err, errs.InvalidArgument):
			return errs.WithPublicMessage(err, "ticket is already redeemed")
		}
		return errors.Wrap(err, "error during RedeemTicket")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    ticket.Address.String(),
		"event":  ticket.Event.String(),
		"serial": ticket.Serial,
		"owner":  ticket.Owner.String(),
		"iat":    now.Unix(),
		"exp":    now.Add(entryPassTTL).Unix(),
	}
	entryPass, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.entryPassSecret)
	if err != nil {
		return errors.Wrap(err, "failed to sign entry pass")
	}

	resp := redeemTicketResponse{
		Result: &redeemTicketResult{
			Ticket:    newTicketResult(ticket),
			EntryPass: entryPass,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
