package websocket

import (
	"strings"

	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	hub    *Hub
	tokens *token.Manager
}

func NewHandler(hub *Hub, tokens *token.Manager) *Handler {
	return &Handler{hub: hub, tokens: tokens}
}

// RegisterRoutes mounts GET /ws. Browsers pass the access token as ?token=,
// other clients may use the Authorization header.
func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.authenticate, websocket.New(func(c *websocket.Conn) {
		personID, _ := c.Locals("ws_person_id").(int64)
		ServeWs(h.hub, c, personID)
	}))
}

func (h *Handler) authenticate(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	raw := ctx.Query("token")
	if raw == "" {
		raw, _ = strings.CutPrefix(ctx.Get(fiber.HeaderAuthorization), "Bearer ")
	}
	if raw == "" {
		return apperror.Unauthorized("missing token")
	}

	claims, err := h.tokens.Parse(raw, token.Access)
	if err != nil {
		return apperror.Unauthorized("invalid token")
	}

	ctx.Locals("ws_person_id", claims.PersonID)
	return ctx.Next()
}

// ServeWs registers the session and blocks until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, personID int64) {
	client := &Client{Hub: hub, Conn: c, PersonID: personID, Send: make(chan []byte, 256)}
	if !hub.attach(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
