// Package main provides the Prompt Finder preset API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger     *slog.Logger
	repository persistence.PresetRepository
	nonce      string
	validate   *validator.Validate
}

func NewAPI(logger *slog.Logger, repository persistence.PresetRepository, nonce string) *API {
	return &API{
		logger:     logger,
		repository: repository,
		nonce:      nonce,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewPresetHandlers(a.repository, a.validate, a.nonce, nil, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Prompt Finder API")
	})

	handlers.Mount(app)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
