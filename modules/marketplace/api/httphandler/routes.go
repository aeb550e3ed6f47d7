package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1")

	r.Get("/marketplaces/:name", h.GetMarketplace)

	r.Get("/events", h.GetEvents)
	r.Post("/events/batch", h.GetEventBatch)
	r.Get("/events/:address", h.GetEvent)
	r.Get("/events/:address/tickets", h.GetTicketsByEvent)
	r.Get("/events/:address/metadata", h.GetEventMetadata)

	r.Get("/tickets/wallet/:wallet", h.GetTicketsByWallet)
	r.Get("/tickets/:address", h.GetTicket)
	r.Get("/tickets/:address/qr", h.GetTicketQR)
	r.Post("/tickets/:address/redeem", h.RedeemTicket)

	r.Get("/listings", h.GetListings)

	instructions := r.Group("/instructions")
	instructions.Post("/initialize", h.Initialize)
	instructions.Post("/setup-manager", h.SetupManager)
	instructions.Post("/create-event", h.CreateEvent)
	instructions.Post("/generate-ticket", h.GenerateTicket)
	instructions.Post("/list-ticket", h.ListTicket)
	instructions.Post("/purchase-ticket", h.PurchaseTicket)
	instructions.Post("/delist-ticket", h.DelistTicket)
	instructions.Post("/withdraw", h.WithdrawFromTreasury)
	instructions.Post("/transfer", h.Transfer)
	instructions.Post("/airdrop", h.Airdrop)

	return nil
}
