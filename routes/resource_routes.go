package routes

import (
	"github.com/gofiber/fiber/v2"

	config "github.com/srr-project/srr-backend/configs"
	"github.com/srr-project/srr-backend/handlers"
	"github.com/srr-project/srr-backend/middleware"
)

func ResourceRoutes(app *fiber.App, h *handlers.ResourceHandler, th *handlers.ResourceTypeHandler, cfg *config.Config) {
	api := app.Group("/api/v1")

	resources := api.Group("/resources", middleware.Protected(cfg))
	resources.Get("", h.List)
	resources.Get("/:resourceId", h.Get)
	resources.Get("/:resourceId/availability", h.CheckAvailability)

	adminResources := api.Group("/resources", middleware.Protected(cfg), middleware.AdminRequired())
	adminResources.Post("", h.Create)
	adminResources.Put("/:resourceId", h.Update)
	adminResources.Delete("/:resourceId", h.Delete)
	adminResources.Post("/:resourceId/managers/:userId", h.AddManager)
	adminResources.Delete("/:resourceId/managers/:userId", h.RemoveManager)

	types := api.Group("/resource-types", middleware.Protected(cfg))
	types.Get("", th.List)
	types.Get("/:typeId", th.Get)

	adminTypes := api.Group("/resource-types", middleware.Protected(cfg), middleware.AdminRequired())
	adminTypes.Post("", th.Create)
	adminTypes.Put("/:typeId", th.Update)
	adminTypes.Delete("/:typeId", th.Delete)
}
