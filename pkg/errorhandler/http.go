package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/pkg/logger"
	"github.com/tickr-network/tickr/pkg/logger/slogx"
)

// statusFromKind maps domain error kinds to HTTP status codes. Unmapped
// errors fall through to a logged 500.
func statusFromKind(err error) (int, bool) {
	switch {
	case errors.Is(err, errs.NotFound):
		return http.StatusNotFound, true
	case errors.Is(err, errs.Duplicate):
		return http.StatusConflict, true
	case errors.Is(err, errs.Unauthorized):
		return http.StatusForbidden, true
	case errors.Is(err, errs.InvalidArgument), errors.Is(err, errs.OverflowUint64):
		return http.StatusBadRequest, true
	case errors.Is(err, errs.CapacityExceeded), errors.Is(err, errs.InsufficientFunds):
		return http.StatusConflict, true
	case errors.Is(err, errs.Unsupported):
		return http.StatusNotImplemented, true
	}
	return 0, false
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			status := http.StatusBadRequest
			if s, ok := statusFromKind(err); ok {
				status = s
			}
			return errors.WithStack(ctx.Status(status).JSON(map[string]any{
				"error": e.Message(),
			}))
		}
		if status, ok := statusFromKind(err); ok {
			return errors.WithStack(ctx.Status(status).JSON(map[string]any{
				"error": http.StatusText(status),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).SendString(e.Error()))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error",
			slogx.String("event", "api_unhandled_error"),
			slogx.Error(err),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(map[string]any{
			"error": "Internal Server Error",
		}))
	}
}
