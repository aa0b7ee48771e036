package serverutils

import (
	"time"

	"recados-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestLogger logs one line per request with its latency. A request id is
// taken from X-Request-ID or generated, and echoed back.
func RequestLogger(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()

		requestID := ctx.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Set(fiber.HeaderXRequestID, requestID)

		err := ctx.Next()

		log.Info("HTTP", "request", map[string]interface{}{
			"request_id": requestID,
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     ctx.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		return err
	}
}
