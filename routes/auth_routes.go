package routes

import (
	"github.com/gofiber/fiber/v2"

	config "github.com/srr-project/srr-backend/configs"
	"github.com/srr-project/srr-backend/handlers"
	"github.com/srr-project/srr-backend/middleware"
)

func AuthRoutes(app *fiber.App, h *handlers.AuthHandler, cfg *config.Config) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.Protected(cfg), h.Me)
}
