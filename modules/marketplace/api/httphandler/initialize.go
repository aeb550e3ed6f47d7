package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
)

type initializeRequest struct {
	Name  string `json:"name"`
	Fee   uint16 `json:"fee"` // basis points
	Admin string `json:"admin"`
}

func (r *initializeRequest) Validate() error {
	var errList []error
	if r.Name == "" || len(r.Name) > constants.MaxNameLength {
		errList = append(errList, errors.Errorf("name must be 1..%d bytes", constants.MaxNameLength))
	}
	if r.Fee > constants.MaxFeeBasisPoints {
		errList = append(errList, errors.Errorf("fee must be at most %d basis points", constants.MaxFeeBasisPoints))
	}
	if _, ok := parseAddress(r.Admin); !ok {
		errList = append(errList, errors.Errorf("admin '%s' is not a valid address", r.Admin))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type initializeResult struct {
	Marketplace common.Address `json:"marketplace"`
	RewardsMint common.Address `json:"rewardsMint"`
	Treasury    common.Address `json:"treasury"`
}

type initializeResponse = HttpResponse[initializeResult]

func (h *HttpHandler) Initialize(ctx *fiber.Ctx) (err error) {
	var req initializeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	admin, _ := parseAddress(req.Admin)

	created, err := h.processor.Initialize(ctx.UserContext(), marketplace.InitializeParams{
		Name:  req.Name,
		Fee:   req.Fee,
		Admin: admin,
	})
	if err != nil {
		if errors.Is(err, errs.Duplicate) {
			return errs.WithPublicMessage(err, "marketplace already initialized")
		}
		if errors.Is(err, errs.InsufficientFunds) {
			return errs.WithPublicMessage(err, "admin cannot fund the account reserves")
		}
		return errors.Wrap(err, "error during Initialize")
	}

	resp := initializeResponse{
		Result: &initializeResult{
			Marketplace: created.Address,
			RewardsMint: created.RewardsMint,
			Treasury:    created.Treasury,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
