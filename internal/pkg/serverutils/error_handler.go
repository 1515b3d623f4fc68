package serverutils

import (
	"errors"

	"library-management-be/internal/pkg/logger"
	"library-management-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperror.KindPaymentRequired:
		return fiber.StatusPaymentRequired
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns errors returned by handlers into the standard
// envelope. Unknown errors are logged and answered with a generic 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
	}

	kind := apperror.KindOf(err)
	status := StatusFor(kind)

	if kind == apperror.KindInternal {
		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err,
		})
		return ctx.Status(status).JSON(ErrorResponse(status, "internal server error"))
	}

	message := err.Error()
	var ae *apperror.Error
	if errors.As(err, &ae) {
		message = ae.Message()
	}

	details := apperror.DetailsOf(err)
	if details == nil && kind == apperror.KindValidation {
		details = validationDetails(err)
	}
	if details != nil {
		return ctx.Status(status).JSON(ErrorResponseWithData(status, message, details))
	}
	return ctx.Status(status).JSON(ErrorResponse(status, message))
}
