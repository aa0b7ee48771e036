package serverutils

import (
	"errors"

	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindNotFound:     fiber.StatusNotFound,
	apperror.KindForbidden:    fiber.StatusForbidden,
	apperror.KindConflict:     fiber.StatusConflict,
	apperror.KindValidation:   fiber.StatusBadRequest,
	apperror.KindBadRequest:   fiber.StatusBadRequest,
	apperror.KindUnauthorized: fiber.StatusUnauthorized,
}

// NewErrorHandler renders any error returned by a handler as a BaseResponse.
// Unknown errors become a 500 and are logged; their text is not exposed.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code, message := classify(err)
		if code == fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err,
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// ErrorHandlerMiddleware applies the same mapping inside the middleware chain,
// so that later middleware (request logging) sees the final status.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := NewErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}

func classify(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if code, ok := statusByKind[appErr.Kind]; ok {
			return code, appErr.Message
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.StatusConflict, "resource already exists"
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fiber.StatusBadRequest, "referenced resource does not exist"
	}

	return fiber.StatusInternalServerError, "internal server error"
}
