package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace"
)

type createEventRequest struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	URI            string `json:"uri"`
	City           string `json:"city"`
	Venue          string `json:"venue"`
	Organizer      string `json:"organizer"` // display name
	Date           string `json:"date"`
	Time           string `json:"time"`
	Capacity       uint32 `json:"capacity"`
	IsTransferable bool   `json:"isTransferable"`

	EventAddress     string `json:"eventAddress"`
	OrganizerAddress string `json:"organizerAddress"`
	Payer            string `json:"payer"` // optional, defaults to organizer address
}

func (r *createEventRequest) Validate() error {
	var errList []error
	if r.Name == "" {
		errList = append(errList, errors.New("name is required"))
	}
	if r.Capacity == 0 {
		errList = append(errList, errors.New("capacity must be at least 1"))
	}
	if _, ok := parseAddress(r.EventAddress); !ok {
		errList = append(errList, errors.Errorf("eventAddress '%s' is not a valid address", r.EventAddress))
	}
	if _, ok := parseAddress(r.OrganizerAddress); !ok {
		errList = append(errList, errors.Errorf("organizerAddress '%s' is not a valid address", r.OrganizerAddress))
	}
	if r.Payer != "" {
		if _, ok := parseAddress(r.Payer); !ok {
			errList = append(errList, errors.Errorf("payer '%s' is not a valid address", r.Payer))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type createEventResponse = HttpResponse[eventResult]

func (h *HttpHandler) CreateEvent(ctx *fiber.Ctx) (err error) {
	var req createEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	eventAddr, _ := parseAddress(req.EventAddress)
	organizer, _ := parseAddress(req.OrganizerAddress)
	payer := organizer
	if req.Payer != "" {
		payer, _ = parseAddress(req.Payer)
	}

	event, err := h.processor.CreateEvent(ctx.UserContext(), marketplace.CreateEventParams{
		Args: marketplace.CreateEventArgs{
			Name:           req.Name,
			Category:       req.Category,
			URI:            req.URI,
			City:           req.City,
			Venue:          req.Venue,
			Organizer:      req.Organizer,
			Date:           req.Date,
			Time:           req.Time,
			Capacity:       req.Capacity,
			IsTransferable: req.IsTransferable,
		},
		EventAddress: eventAddr,
		Organizer:    organizer,
		Payer:        payer,
	})
	if err != nil {
		if errors.Is(err, errs.Unauthorized) {
			return errs.WithPublicMessage(err, "organizer is not a registered manager")
		}
		if errors.Is(err, errs.Duplicate) {
			return errs.WithPublicMessage(err, "event address already in use")
		}
		if errors.Is(err, errs.InsufficientFunds) {
			return errs.WithPublicMessage(err, "payer cannot fund the event reserve")
		}
		return errors.Wrap(err, "error during CreateEvent")
	}

	result := newEventResult(event)
	resp := createEventResponse{
		Result: &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}
