package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	config "github.com/srr-project/srr-backend/configs"
	"github.com/srr-project/srr-backend/database"
	"github.com/srr-project/srr-backend/directory"
	"github.com/srr-project/srr-backend/events"
	"github.com/srr-project/srr-backend/handlers"
	"github.com/srr-project/srr-backend/jobs"
	"github.com/srr-project/srr-backend/notifications"
	"github.com/srr-project/srr-backend/routes"
	"github.com/srr-project/srr-backend/services"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.Migrate(db)

	dir := directory.NewMock(cfg.MockUsersFile, cfg.Debug)
	database.SeedDirectoryUsers(db, dir)
	if cfg.SeedSampleData {
		database.SeedSampleCatalog(db)
	}

	notifier := notifications.NewEmailService(cfg)
	hub := events.NewHub()
	go hub.Run()

	availability := services.NewAvailabilityService()
	bookingService := services.NewBookingService(db, availability, notifier, hub)
	resourceService := services.NewResourceService(db)
	userService := services.NewUserService(db)

	c := cron.New()
	completion := jobs.NewCompletionJob(db, hub)
	reminders := jobs.NewReminderJob(db, notifier)
	c.AddFunc("*/5 * * * *", completion.Run)
	c.AddFunc("*/5 * * * *", reminders.Run)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "SRR Backend",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to the SRR API",
		})
	})

	authHandler := handlers.NewAuthHandler(dir, userService, cfg)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	resourceHandler := handlers.NewResourceHandler(resourceService, bookingService)
	typeHandler := handlers.NewResourceTypeHandler(resourceService)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(hub)

	routes.AuthRoutes(app, authHandler, cfg)
	routes.BookingRoutes(app, bookingHandler, cfg)
	routes.ResourceRoutes(app, resourceHandler, typeHandler, cfg)
	routes.AdminRoutes(app, userHandler, cfg)
	routes.EventRoutes(app, eventHandler, cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Printf("✅ Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
