package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

const (
	defaultEventsLimit = 100
	maxEventsLimit     = 1000
)

type getEventsRequest struct {
	Limit  int32 `query:"limit"`
	Offset int32 `query:"offset"`
}

func (r *getEventsRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("limit must not be negative"))
	}
	if r.Limit > maxEventsLimit {
		errList = append(errList, errors.Errorf("limit must be at most %d", maxEventsLimit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.New("offset must not be negative"))
	}
	if r.Limit == 0 {
		r.Limit = defaultEventsLimit
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type eventResult struct {
	Address        common.Address     `json:"address"`
	Name           string             `json:"name"`
	Category       string             `json:"category"`
	URI            string             `json:"uri"`
	City           string             `json:"city"`
	Venue          string             `json:"venue"`
	Organizer      string             `json:"organizer"`
	Date           string             `json:"date"`
	Time           string             `json:"time"`
	Capacity       uint32             `json:"capacity"`
	TicketsSold    uint32             `json:"ticketsSold"`
	IsTransferable bool               `json:"isTransferable"`
	Authority      common.Address     `json:"authority"`
	Attributes     []entity.Attribute `json:"attributes"`
	CreatedAt      int64              `json:"createdAt"` // unix timestamp
}

func newEventResult(event *entity.Event) eventResult {
	return eventResult{
		Address:        event.Address,
		Name:           event.Name,
		Category:       event.Category,
		URI:            event.URI,
		City:           event.City,
		Venue:          event.Venue,
		Organizer:      event.Organizer,
		Date:           event.Date,
		Time:           event.Time,
		Capacity:       event.Capacity,
		TicketsSold:    event.TicketsSold,
		IsTransferable: event.IsTransferable,
		Authority:      event.Authority,
		Attributes:     event.Attributes(),
		CreatedAt:      event.CreatedAt.Unix(),
	}
}

type getEventsResult struct {
	List []eventResult `json:"list"`
}

type getEventsResponse = HttpResponse[getEventsResult]

func (h *HttpHandler) GetEvents(ctx *fiber.Ctx) (err error) {
	var req getEventsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	events, err := h.usecase.GetEvents(ctx.UserContext(), req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetEvents")
	}

	resp := getEventsResponse{
		Result: &getEventsResult{
			List: lo.Map(events, func(event *entity.Event, _ int) eventResult {
				return newEventResult(event)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
