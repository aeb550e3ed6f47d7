package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

type getListingsRequest struct {
	Marketplace string `query:"marketplace"`
	Event       string `query:"event"`
	Limit       int32  `query:"limit"`
	Offset      int32  `query:"offset"`
}

func (r *getListingsRequest) Validate() error {
	var errList []error
	if r.Marketplace != "" {
		if _, ok := parseAddress(r.Marketplace); !ok {
			errList = append(errList, errors.Errorf("marketplace '%s' is not a valid address", r.Marketplace))
		}
	}
	if r.Event != "" {
		if _, ok := parseAddress(r.Event); !ok {
			errList = append(errList, errors.Errorf("event '%s' is not a valid address", r.Event))
		}
	}
	if r.Limit < 0 || r.Offset < 0 {
		errList = append(errList, errors.New("limit and offset must not be negative"))
	}
	if r.Limit == 0 {
		r.Limit = defaultEventsLimit
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type listingResult struct {
	Address     common.Address `json:"address"`
	Marketplace common.Address `json:"marketplace"`
	Ticket      common.Address `json:"ticket"`
	Seller      common.Address `json:"seller"`
	Price       uint64         `json:"price"`
	CreatedAt   int64          `json:"createdAt"` // unix timestamp
}

func newListingResult(listing *entity.Listing) listingResult {
	return listingResult{
		Address:     listing.Address,
		Marketplace: listing.Marketplace,
		Ticket:      listing.Ticket,
		Seller:      listing.Seller,
		Price:       listing.Price,
		CreatedAt:   listing.CreatedAt.Unix(),
	}
}

type getListingsResult struct {
	List []listingResult `json:"list"`
}

type getListingsResponse = HttpResponse[getListingsResult]

func (h *HttpHandler) GetListings(ctx *fiber.Ctx) (err error) {
	var req getListingsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	params := datagateway.GetListingsParams{
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.Marketplace != "" {
		params.Marketplace, _ = parseAddress(req.Marketplace)
	}
	if req.Event != "" {
		params.Event, _ = parseAddress(req.Event)
	}

	listings, err := h.usecase.GetListings(ctx.UserContext(), params)
	if err != nil {
		return errors.Wrap(err, "error during GetListings")
	}

	resp := getListingsResponse{
		Result: &getListingsResult{
			List: lo.Map(listings, func(listing *entity.Listing, _ int) listingResult {
				return newListingResult(listing)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
