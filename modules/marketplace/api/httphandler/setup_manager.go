package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace"
)

type setupManagerRequest struct {
	Authority string `json:"authority"`
	Payer     string `json:"payer"` // optional, defaults to authority
}

func (r *setupManagerRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Authority); !ok {
		errList = append(errList, errors.Errorf("authority '%s' is not a valid address", r.Authority))
	}
	if r.Payer != "" {
		if _, ok := parseAddress(r.Payer); !ok {
			errList = append(errList, errors.Errorf("payer '%s' is not a valid address", r.Payer))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type setupManagerResult struct {
	Manager   common.Address `json:"manager"`
	Authority common.Address `json:"authority"`
	IsActive  bool           `json:"isActive"`
}

type setupManagerResponse = HttpResponse[setupManagerResult]

func (h *HttpHandler) SetupManager(ctx *fiber.Ctx) (err error) {
	var req setupManagerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	authority, _ := parseAddress(req.Authority)
	params := marketplace.SetupManagerParams{
		Authority: authority,
	}
	if req.Payer != "" {
		params.Payer, _ = parseAddress(req.Payer)
	}

	manager, err := h.processor.SetupManager(ctx.UserContext(), params)
	if err != nil {
		if errors.Is(err, errs.Duplicate) {
			return errs.WithPublicMessage(err, "manager already registered")
		}
		if errors.Is(err, errs.InsufficientFunds) {
			return errs.WithPublicMessage(err, "payer cannot fund the manager reserve")
		}
		return errors.Wrap(err, "error during SetupManager")
	}

	resp := setupManagerResponse{
		Result: &setupManagerResult{
			Manager:   manager.Address,
			Authority: manager.Authority,
			IsActive:  manager.IsActive,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
