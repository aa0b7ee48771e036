package serverutils

import (
	"strconv"

	"recados-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ParseIdParam reads a non-negative integer route parameter.
func ParseIdParam(ctx *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params(name), 10, 64)
	if err != nil || id < 0 {
		return 0, apperror.BadRequest(name + " param must be numeric")
	}
	return id, nil
}

// ParseBody decodes the request body into req and validates it.
func ParseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.BadRequest("invalid request body")
	}
	return ValidateRequest(req)
}
