package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace"
)

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

func (r *transferRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.From); !ok {
		errList = append(errList, errors.Errorf("from '%s' is not a valid address", r.From))
	}
	if _, ok := parseAddress(r.To); !ok {
		errList = append(errList, errors.Errorf("to '%s' is not a valid address", r.To))
	}
	if r.Amount == 0 {
		errList = append(errList, errors.New("amount must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type fundingResult struct {
	Ok bool `json:"ok"`
}

type fundingResponse = HttpResponse[fundingResult]

func (h *HttpHandler) Transfer(ctx *fiber.Ctx) (err error) {
	var req transferRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	from, _ := parseAddress(req.From)
	to, _ := parseAddress(req.To)

	if err := h.processor.Transfer(ctx.UserContext(), marketplace.TransferParams{
		From:   from,
		To:     to,
		Amount: req.Amount,
	}); err != nil {
		switch {
		case errors.Is(err, errs.InsufficientFunds):
			return errs.WithPublicMessage(err, "insufficient balance")
		case errors.Is(err, errs.NotFound):
			return errs.WithPublicMessage(err, "account not found")
		case errors.Is(err, errs.OverflowUint64):
			return errs.WithPublicMessage(err, "transfer would overflow the destination balance")
		}
		return errors.Wrap(err, "error during Transfer")
	}

	resp := fundingResponse{
		Result: &fundingResult{Ok: true},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type airdropRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

func (r *airdropRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.To); !ok {
		errList = append(errList, errors.Errorf("to '%s' is not a valid address", r.To))
	}
	if r.Amount == 0 {
		errList = append(errList, errors.New("amount must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) Airdrop(ctx *fiber.Ctx) (err error) {
	var req airdropRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	to, _ := parseAddress(req.To)

	if err := h.processor.Airdrop(ctx.UserContext(), marketplace.AirdropParams{
		To:     to,
		Amount: req.Amount,
	}); err != nil {
		if errors.Is(err, errs.OverflowUint64) {
			return errs.WithPublicMessage(err, "airdrop would overflow the destination balance")
		}
		return errors.Wrap(err, "error during Airdrop")
	}

	resp := fundingResponse{
		Result: &fundingResult{Ok: true},
	}
	return errors.WithStack(ctx.JSON(resp))
}
