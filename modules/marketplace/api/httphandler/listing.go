package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace"
)

type listTicketRequest struct {
	Marketplace string `json:"marketplace"`
	Ticket      string `json:"ticket"`
	Seller      string `json:"seller"`
	Price       uint64 `json:"price"`
}

func (r *listTicketRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Marketplace); !ok {
		errList = append(errList, errors.Errorf("marketplace '%s' is not a valid address", r.Marketplace))
	}
	if _, ok := parseAddress(r.Ticket); !ok {
		errList = append(errList, errors.Errorf("ticket '%s' is not a valid address", r.Ticket))
	}
	if _, ok := parseAddress(r.Seller); !ok {
		errList = append(errList, errors.Errorf("seller '%s' is not a valid address", r.Seller))
	}
	if r.Price == 0 {
		errList = append(errList, errors.New("price must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type listTicketResponse = HttpResponse[listingResult]

func (h *HttpHandler) ListTicket(ctx *fiber.Ctx) (err error) {
	var req listTicketRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	marketplaceAddr, _ := parseAddress(req.Marketplace)
	ticket, _ := parseAddress(req.Ticket)
	seller, _ := parseAddress(req.Seller)

	listing, err := h.processor.ListTicket(ctx.UserContext(), marketplace.ListTicketParams{
		Marketplace: marketplaceAddr,
		Ticket:      ticket,
		Seller:      seller,
		Price:       req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.Unauthorized):
			return errs.WithPublicMessage(err, "seller does not own the ticket")
		case errors.Is(err, errs.Duplicate):
			return errs.WithPublicMessage(err, "ticket is already listed")
		case errors.Is(err, errs.InvalidArgument):
			return errs.WithPublicMessage(err, "ticket cannot be listed")
		case errors.Is(err, errs.NotFound):
			return errs.WithPublicMessage(err, "ticket or marketplace not found")
		case errors.Is(err, errs.InsufficientFunds):
			return errs.WithPublicMessage(err, "seller cannot fund the listing reserve")
		}
		return errors.Wrap(err, "error during ListTicket")
	}

	result := newListingResult(listing)
	resp := listTicketResponse{
		Result: &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}

type purchaseTicketRequest struct {
	Marketplace string `json:"marketplace"`
	Ticket      string `json:"ticket"`
	Buyer       string `json:"buyer"`
}

func (r *purchaseTicketRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Marketplace); !ok {
		errList = append(errList, errors.Errorf("marketplace '%s' is not a valid address", r.Marketplace))
	}
	if _, ok := parseAddress(r.Ticket); !ok {
		errList = append(errList, errors.Errorf("ticket '%s' is not a valid address", r.Ticket))
	}
	if _, ok := parseAddress(r.Buyer); !ok {
		errList = append(errList, errors.Errorf("buyer '%s' is not a valid address", r.Buyer))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type purchaseTicketResult struct {
	Ticket         common.Address `json:"ticket"`
	Buyer          common.Address `json:"buyer"`
	Seller         common.Address `json:"seller"`
	Price          uint64         `json:"price"`
	SellerProceeds uint64         `json:"sellerProceeds"`
	MarketplaceCut uint64         `json:"marketplaceCut"`
	RewardsMinted  uint64         `json:"rewardsMinted"`
}

type purchaseTicketResponse = HttpResponse[purchaseTicketResult]

func (h *HttpHandler) PurchaseTicket(ctx *fiber.Ctx) (err error) {
	var req purchaseTicketRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	marketplaceAddr, _ := parseAddress(req.Marketplace)
	ticket, _ := parseAddress(req.Ticket)
	buyer, _ := parseAddress(req.Buyer)

	settled, err := h.processor.PurchaseTicket(ctx.UserContext(), marketplace.PurchaseTicketParams{
		Marketplace: marketplaceAddr,
		Ticket:      ticket,
		Buyer:       buyer,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.NotFound):
			return errs.WithPublicMessage(err, "listing not found")
		case errors.Is(err, errs.InsufficientFunds):
			return errs.WithPublicMessage(err, "buyer cannot pay the listing price")
		case errors.Is(err, errs.InvalidArgument):
			return errs.WithPublicMessage(err, "listing is no longer valid")
		}
		return errors.Wrap(err, "error during PurchaseTicket")
	}

	resp := purchaseTicketResponse{
		Result: &purchaseTicketResult{
			Ticket:         settled.Listing.Ticket,
			Buyer:          buyer,
			Seller:         settled.Listing.Seller,
			Price:          settled.Listing.Price,
			SellerProceeds: settled.SellerProceeds,
			MarketplaceCut: settled.MarketplaceCut,
			RewardsMinted:  settled.RewardsMinted,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type delistTicketRequest struct {
	Marketplace string `json:"marketplace"`
	Ticket      string `json:"ticket"`
	Seller      string `json:"seller"`
}

func (r *delistTicketRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Marketplace); !ok {
		errList = append(errList, errors.Errorf("marketplace '%s' is not a valid address", r.Marketplace))
	}
	if _, ok := parseAddress(r.Ticket); !ok {
		errList = append(errList, errors.Errorf("ticket '%s' is not a valid address", r.Ticket))
	}
	if _, ok := parseAddress(r.Seller); !ok {
		errList = append(errList, errors.Errorf("seller '%s' is not a valid address", r.Seller))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type delistTicketResult struct {
	Delisted bool `json:"delisted"`
}

type delistTicketResponse = HttpResponse[delistTicketResult]

func (h *HttpHandler) DelistTicket(ctx *fiber.Ctx) (err error) {
	var req delistTicketRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	marketplaceAddr, _ := parseAddress(req.Marketplace)
	ticket, _ := parseAddress(req.Ticket)
	seller, _ := parseAddress(req.Seller)

	if err := h.processor.DelistTicket(ctx.UserContext(), marketplace.DelistTicketParams{
		Marketplace: marketplaceAddr,
		Ticket:      ticket,
		Seller:      seller,
	}); err != nil {
		switch {
		case errors.Is(err, errs.NotFound):
			return errs.WithPublicMessage(err, "listing not found")
		case errors.Is(err, errs.Unauthorized):
			return errs.WithPublicMessage(err, "only the seller can delist")
		}
		return errors.Wrap(err, "error during DelistTicket")
	}

	resp := delistTicketResponse{
		Result: &delistTicketResult{Delisted: true},
	}
	return errors.WithStack(ctx.JSON(resp))
}
