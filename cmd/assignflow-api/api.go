// Package main provides the Assignflow API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/edukit/assignflow/pkg/eventbus"
	"github.com/edukit/assignflow/pkg/persistence"
	"github.com/edukit/assignflow/pkg/services"
	"github.com/edukit/assignflow/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	assignmentService := services.NewAssignment(a.persistence)
	publishingService := services.NewPublishing(a.persistence)

	handlers := web.NewAPIHandlers(assignmentService, publishingService, a.validate, a.eventBus, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Assignflow API")
	})

	as := app.Group("/assignments")
	as.Get("/", handlers.ListAssignments)
	as.Post("/", handlers.CreateAssignment)
	as.Get("/:id", handlers.GetAssignment)
	as.Patch("/:id", handlers.UpdateAssignment)
	as.Delete("/:id", handlers.DeleteAssignment)
	as.Post("/:id/publish", handlers.PublishAssignment)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
