package serverutils

import (
	"strings"

	"recados-be/internal/pkg/cache"

	"github.com/gofiber/fiber/v2"
)

// CacheResponses serves successful GET responses from c. Anything that is not
// a GET, or that did not end in 200, passes through untouched.
func CacheResponses(c *cache.ResponseCache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Method() != fiber.MethodGet {
			return ctx.Next()
		}

		key := strings.Clone(ctx.OriginalURL())
		if e, ok := c.Get(key); ok {
			ctx.Set("X-Cache", "HIT")
			ctx.Set(fiber.HeaderContentType, e.ContentType)
			return ctx.Status(e.Status).Send(e.Body)
		}

		// a write that purges while we render makes this response stale
		gen := c.Generation()
		if err := ctx.Next(); err != nil {
			return err
		}

		if ctx.Response().StatusCode() == fiber.StatusOK {
			body := append([]byte(nil), ctx.Response().Body()...)
			c.SetIfCurrent(key, cache.Entry{
				Status:      fiber.StatusOK,
				ContentType: string(ctx.Response().Header.ContentType()),
				Body:        body,
			}, gen)
		}
		ctx.Set("X-Cache", "MISS")
		return nil
	}
}

// PurgeOnWrite empties c after every successful non-GET request.
func PurgeOnWrite(c *cache.ResponseCache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if ctx.Method() != fiber.MethodGet && err == nil && ctx.Response().StatusCode() < 400 {
			c.Purge()
		}
		return err
	}
}
