package routes

import (
	"github.com/gofiber/fiber/v2"

	config "github.com/srr-project/srr-backend/configs"
	"github.com/srr-project/srr-backend/handlers"
	"github.com/srr-project/srr-backend/middleware"
)

func EventRoutes(app *fiber.App, h *handlers.EventHandler, cfg *config.Config) {
	app.Use("/ws/events", middleware.Protected(cfg), h.Upgrade)
	app.Get("/ws/events", h.Stream())
}
