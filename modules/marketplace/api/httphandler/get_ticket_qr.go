package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/tickr-network/tickr/common/errs"
)

const ticketQRSize = 256

type getTicketQRRequest struct {
	Address string `params:"address"`
}

func (r *getTicketQRRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Address); !ok {
		errList = append(errList, errors.Errorf("address '%s' is not a valid address", r.Address))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

// GetTicketQR renders the ticket address as a PNG QR code for venue
// scanners.
func (h *HttpHandler) GetTicketQR(ctx *fiber.Ctx) (err error) {
	var req getTicketQRRequest
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

	png, err := qrcode.Encode(ticket.Address.String(), qrcode.Medium, ticketQRSize)
	if err != nil {
		return errors.Wrap(err, "failed to encode QR code")
	}

	ctx.Set(fiber.HeaderContentType, "image/png")
	return errors.WithStack(ctx.Send(png))
}
