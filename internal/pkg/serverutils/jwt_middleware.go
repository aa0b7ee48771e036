package serverutils

import (
	"strings"

	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
)

const callerKey = "person_id"

// NewJwtMiddleware accepts "Authorization: Bearer <access token>" and stores
// the caller's person id in the request locals.
func NewJwtMiddleware(tokens *token.Manager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || raw == "" {
			return apperror.Unauthorized("missing token")
		}

		claims, err := tokens.Parse(raw, token.Access)
		if err != nil {
			return apperror.Unauthorized("invalid token")
		}

		ctx.Locals(callerKey, claims.PersonID)
		return ctx.Next()
	}
}

// CallerID returns the authenticated person id set by the JWT middleware.
func CallerID(ctx *fiber.Ctx) (int64, error) {
	id, ok := ctx.Locals(callerKey).(int64)
	if !ok {
		return 0, apperror.Unauthorized("missing token")
	}
	return id, nil
}
