package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace"
)

type withdrawRequest struct {
	Marketplace string `json:"marketplace"`
	Admin       string `json:"admin"`
	Amount      uint64 `json:"amount"`
}

func (r *withdrawRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Marketplace); !ok {
		errList = append(errList, errors.Errorf("marketplace '%s' is not a valid address", r.Marketplace))
	}
	if _, ok := parseAddress(r.Admin); !ok {
		errList = append(errList, errors.Errorf("admin '%s' is not a valid address", r.Admin))
	}
	if r.Amount == 0 {
		errList = append(errList, errors.New("amount must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type withdrawResult struct {
	Withdrawn uint64 `json:"withdrawn"`
}

type withdrawResponse = HttpResponse[withdrawResult]

func (h *HttpHandler) WithdrawFromTreasury(ctx *fiber.Ctx) (err error) {
	var req withdrawRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	marketplaceAddr, _ := parseAddress(req.Marketplace)
	admin, _ := parseAddress(req.Admin)

	if err := h.processor.WithdrawFromTreasury(ctx.UserContext(), marketplace.WithdrawFromTreasuryParams{
		Marketplace: marketplaceAddr,
		Admin:       admin,
		Amount:      req.Amount,
	}); err != nil {
		switch {
		case errors.Is(err, errs.Unauthorized):
			return errs.WithPublicMessage(err, "only the marketplace admin can withdraw")
		case errors.Is(err, errs.InsufficientFunds):
			return errs.WithPublicMessage(err, "withdrawal would break the treasury reserve")
		case errors.Is(err, errs.NotFound):
			return errs.WithPublicMessage(err, "marketplace not found")
		}
		return errors.Wrap(err, "error during WithdrawFromTreasury")
	}

	resp := withdrawResponse{
		Result: &withdrawResult{Withdrawn: req.Amount},
	}
	return errors.WithStack(ctx.JSON(resp))
}
