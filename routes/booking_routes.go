package routes

import (
	"github.com/gofiber/fiber/v2"

	config "github.com/srr-project/srr-backend/configs"
	"github.com/srr-project/srr-backend/handlers"
	"github.com/srr-project/srr-backend/middleware"
)

func BookingRoutes(app *fiber.App, h *handlers.BookingHandler, cfg *config.Config) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected(cfg))
	booking.Get("", h.List)
	booking.Post("", h.Create)
	booking.Get("/:bookingId", h.Get)
	booking.Put("/:bookingId", h.Update)
	booking.Post("/:bookingId/cancel", h.Cancel)
	booking.Post("/:bookingId/decision", h.Decide)
}
