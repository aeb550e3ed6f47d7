package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
)

type getEventRequest struct {
	Address string `params:"address"`
}

func (r *getEventRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Address); !ok {
		errList = append(errList, errors.Errorf("address '%s' is not a valid address", r.Address))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getEventResponse = HttpResponse[eventResult]

func (h *HttpHandler) GetEvent(ctx *fiber.Ctx) (err error) {
	var req getEventRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	addr, _ := parseAddress(req.Address)

	event, err := h.usecase.GetEvent(ctx.UserContext(), addr)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("event not found")
		}
		return errors.Wrap(err, "error during GetEvent")
	}

	result := newEventResult(event)
	resp := getEventResponse{
		Result: &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getEventBatchRequest struct {
	Addresses []string `json:"addresses"`
}

func (r *getEventBatchRequest) Validate() error {
	var errList []error
	if len(r.Addresses) == 0 {
		errList = append(errList, errors.New("addresses is required"))
	}
	if len(r.Addresses) > maxEventsLimit {
		errList = append(errList, errors.Errorf("at most %d addresses per batch", maxEventsLimit))
	}
	for _, raw := range r.Addresses {
		if _, ok := parseAddress(raw); !ok {
			errList = append(errList, errors.Errorf("address '%s' is not a valid address", raw))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getEventBatchResult struct {
	List []*eventResult `json:"list"`
}

type getEventBatchResponse = HttpResponse[getEventBatchResult]

// GetEventBatch returns the requested events in input order. Addresses with
// no event yield a null entry instead of failing the whole batch.
func (h *HttpHandler) GetEventBatch(ctx *fiber.Ctx) (err error) {
	var req getEventBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	addrs := make([]common.Address, 0, len(req.Addresses))
	for _, raw := range req.Addresses {
		addr, _ := parseAddress(raw)
		addrs = append(addrs, addr)
	}

	events, err := h.usecase.GetEventBatch(ctx.UserContext(), addrs)
	if err != nil {
		return errors.Wrap(err, "error during GetEventBatch")
	}

	list := make([]*eventResult, 0, len(addrs))
	for _, addr := range addrs {
		event, ok := events[addr]
		if !ok {
			list = append(list, nil)
			continue
		}
		result := newEventResult(event)
		list = append(list, &result)
	}

	resp := getEventBatchResponse{
		Result: &getEventBatchResult{
			List: list,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
