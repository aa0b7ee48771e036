package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recados-be/internal/dto"
	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/cache"
	"recados-be/internal/pkg/logger"
	"recados-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	return app
}

func decode(t *testing.T, res *http.Response) BaseResponse[json.RawMessage] {
	t.Helper()
	var body BaseResponse[json.RawMessage]
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not found", apperror.NotFound("Note not found"), 404, "Note not found"},
		{"forbidden", apperror.Forbidden("not your note"), 403, "not your note"},
		{"conflict", apperror.Conflict("email already registered"), 409, "email already registered"},
		{"validation", apperror.Validation("text is required"), 400, "text is required"},
		{"bad request", apperror.BadRequest("id param must be numeric"), 400, "id param must be numeric"},
		{"unauthorized", apperror.Unauthorized("invalid token"), 401, "invalid token"},
		{"wrapped", fmt.Errorf("update: %w", apperror.Forbidden("nope")), 403, "nope"},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "no"), 405, "no"},
		{"duplicate key", gorm.ErrDuplicatedKey, 409, "resource already exists"},
		{"unknown", errors.New("db exploded"), 500, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			app.Get("/", func(ctx *fiber.Ctx) error { return tt.err })

			res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, res.StatusCode)

			body := decode(t, res)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newApp()
	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, res.StatusCode)
}

func TestParseIdParam(t *testing.T) {
	app := newApp()
	app.Get("/:id", func(ctx *fiber.Ctx) error {
		id, err := ParseIdParam(ctx, "id")
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", id))
	})

	for path, want := range map[string]int{"/12": 200, "/0": 200, "/abc": 400, "/-3": 400} {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, res.StatusCode, path)
	}
}

func TestValidateRequest(t *testing.T) {
	err := ValidateRequest(&dto.CreateNoteRequest{Text: "abc", RecipientId: 0})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "text must be at least 5 characters")
	assert.Contains(t, err.Error(), "recipientId is required")

	assert.NoError(t, ValidateRequest(&dto.CreateNoteRequest{Text: "hello", RecipientId: 2}))

	short := "hey"
	assert.Error(t, ValidateRequest(&dto.UpdateNoteRequest{Text: &short}))
	assert.NoError(t, ValidateRequest(&dto.UpdateNoteRequest{}))
}

func TestJwtMiddleware(t *testing.T) {
	tokens := token.NewManager("secret", "aud", "iss", time.Hour, time.Hour)
	app := newApp()
	app.Get("/me", NewJwtMiddleware(tokens), func(ctx *fiber.Ctx) error {
		id, err := CallerID(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", id))
	})

	access, err := tokens.Generate(42, "a@example.com", token.Access)
	require.NoError(t, err)
	refresh, err := tokens.Generate(42, "a@example.com", token.Refresh)
	require.NoError(t, err)

	cases := map[string]int{
		"":                  401,
		"Bearer ":           401,
		"Token " + access:   401,
		"Bearer garbage":    401,
		"Bearer " + refresh: 401,
		"Bearer " + access:  200,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, res.StatusCode, header)

		if want == 200 {
			body := decode(t, res)
			assert.JSONEq(t, "42", string(body.Data))
		}
	}
}

func TestCacheMiddleware(t *testing.T) {
	c := cache.NewResponseCache(10, time.Minute)
	hits := 0

	app := newApp()
	app.Use(PurgeOnWrite(c))
	app.Get("/items", CacheResponses(c), func(ctx *fiber.Ctx) error {
		hits++
		return ctx.JSON(SuccessResponse("ok", hits))
	})
	app.Post("/items", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusCreated).JSON(CreatedResponse("created", 1))
	})
	app.Post("/fail", func(ctx *fiber.Ctx) error {
		return apperror.Validation("bad")
	})

	get := func() *http.Response {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?limit=2", nil))
		require.NoError(t, err)
		return res
	}

	first := get()
	assert.Equal(t, "MISS", first.Header.Get("X-Cache"))
	second := get()
	assert.Equal(t, "HIT", second.Header.Get("X-Cache"))
	assert.JSONEq(t, "1", string(decode(t, second).Data))
	assert.Equal(t, 1, hits)

	res, err := app.Test(httptest.NewRequest(http.MethodPost, "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, res.StatusCode)
	assert.Equal(t, 1, c.Len(), "failed writes keep the cache")

	res, err = app.Test(httptest.NewRequest(http.MethodPost, "/items", nil))
	require.NoError(t, err)
	assert.Equal(t, 201, res.StatusCode)
	assert.Equal(t, 0, c.Len())

	third := get()
	assert.Equal(t, "MISS", third.Header.Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestCacheMiddleware_WriteDuringRenderIsNotCached(t *testing.T) {
	c := cache.NewResponseCache(10, time.Minute)

	app := newApp()
	app.Get("/items", CacheResponses(c), func(ctx *fiber.Ctx) error {
		// a concurrent write lands after the read but before the response is stored
		c.Purge()
		return ctx.JSON(SuccessResponse("ok", "stale"))
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "MISS", res.Header.Get("X-Cache"))
	assert.Equal(t, 0, c.Len())
}
