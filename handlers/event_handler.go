package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/srr-project/srr-backend/events"
	"github.com/srr-project/srr-backend/middleware"
	"github.com/srr-project/srr-backend/services"
)

type EventHandler struct {
	hub *events.Hub
}

func NewEventHandler(hub *events.Hub) *EventHandler {
	return &EventHandler{hub: hub}
}

// Upgrade rejects plain HTTP requests on the websocket route.
func (h *EventHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("actor", middleware.CurrentActor(c))
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream keeps the connection registered with the hub until the client
// goes away. Events are pushed from the hub; inbound frames are ignored.
func (h *EventHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		actor := conn.Locals("actor").(services.Actor)
		client := &events.Client{UserID: actor.ID, Conn: conn}
		h.hub.Register(client)
		defer h.hub.Unregister(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
