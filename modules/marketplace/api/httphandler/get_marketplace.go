package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
)

type getMarketplaceRequest struct {
	Name string `params:"name"`
}

func (r *getMarketplaceRequest) Validate() error {
	var errList []error
	if r.Name == "" {
		errList = append(errList, errors.New("name is required"))
	}
	if len(r.Name) > constants.MaxNameLength {
		errList = append(errList, errors.Errorf("name must be at most %d bytes", constants.MaxNameLength))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getMarketplaceResult struct {
	Address         common.Address  `json:"address"`
	Name            string          `json:"name"`
	Admin           common.Address  `json:"admin"`
	FeeBasisPoints  uint16          `json:"feeBasisPoints"`
	FeePercent      decimal.Decimal `json:"feePercent"`
	RewardsMint     common.Address  `json:"rewardsMint"`
	RewardsDecimals uint8           `json:"rewardsDecimals"`
	Treasury        common.Address  `json:"treasury"`
	TreasuryBalance uint64          `json:"treasuryBalance"`
	CreatedAt       int64           `json:"createdAt"` // unix timestamp
}

type getMarketplaceResponse = HttpResponse[getMarketplaceResult]

func (h *HttpHandler) GetMarketplace(ctx *fiber.Ctx) (err error) {
	var req getMarketplaceRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	marketplace, err := h.usecase.GetMarketplaceByName(ctx.UserContext(), req.Name)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("marketplace not found")
		}
		return errors.Wrap(err, "error during GetMarketplaceByName")
	}
	treasuryBalance, err := h.usecase.GetTreasuryBalance(ctx.UserContext(), marketplace)
	if err != nil {
		return errors.Wrap(err, "error during GetTreasuryBalance")
	}

	resp := getMarketplaceResponse{
		Result: &getMarketplaceResult{
			Address:         marketplace.Address,
			Name:            marketplace.Name,
			Admin:           marketplace.Admin,
			FeeBasisPoints:  marketplace.Fee,
			FeePercent:      decimal.New(int64(marketplace.Fee), -2),
			RewardsMint:     marketplace.RewardsMint,
			RewardsDecimals: constants.RewardsDecimals,
			Treasury:        marketplace.Treasury,
			TreasuryBalance: treasuryBalance,
			CreatedAt:       marketplace.CreatedAt.Unix(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
