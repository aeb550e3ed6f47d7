package httphandler

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common/errs"
)

type getEventMetadataRequest struct {
	Address string `params:"address"`
}

func (r *getEventMetadataRequest) Validate() error {
	var errList []error
	if _, ok := parseAddress(r.Address); !ok {
		errList = append(errList, errors.Errorf("address '%s' is not a valid address", r.Address))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getEventMetadataResult struct {
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt int64           `json:"fetchedAt"` // unix timestamp
}

type getEventMetadataResponse = HttpResponse[getEventMetadataResult]

// GetEventMetadata serves the worker-maintained cache of the event's
// off-chain metadata document.
func (h *HttpHandler) GetEventMetadata(ctx *fiber.Ctx) (err error) {
	var req getEventMetadataRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	addr, _ := parseAddress(req.Address)

	metadata, err := h.usecase.GetEventMetadata(ctx.UserContext(), addr)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("event metadata not cached yet")
		}
		return errors.Wrap(err, "error during GetEventMetadata")
	}

	resp := getEventMetadataResponse{
		Result: &getEventMetadataResult{
			Event:     metadata.Event.String(),
			Payload:   metadata.Payload,
			FetchedAt: metadata.FetchedAt.Unix(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
