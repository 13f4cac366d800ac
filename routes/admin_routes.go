package routes

import (
	"github.com/gofiber/fiber/v2"

	config "github.com/srr-project/srr-backend/configs"
	"github.com/srr-project/srr-backend/handlers"
	"github.com/srr-project/srr-backend/middleware"
)

func AdminRoutes(app *fiber.App, h *handlers.UserHandler, cfg *config.Config) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(cfg), middleware.AdminRequired())

	users := admin.Group("/users")
	users.Get("", h.List)
	users.Put("/:userId/status", h.SetStatus)
}
