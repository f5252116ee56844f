package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/okoval/minidate/internal/app"
	"github.com/okoval/minidate/internal/config"
)

// NewApp builds the fiber application, wires the health endpoint and
// registers all provided services.
func NewApp(appCtx *app.AppContext, registrars ...Registrar) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:      "minidate",
		ErrorHandler: errorHandler,
	})

	// liveness endpoint, deliberately outside the auth middleware
	fiberApp.Get("/api/health", healthHandler(appCtx))

	for _, r := range registrars {
		r.Register(fiberApp)
	}

	return fiberApp
}

// StartHTTPServer boots the HTTP server and blocks until it stops.
func StartHTTPServer(cfg *config.Config, appCtx *app.AppContext, registrars ...Registrar) error {
	fiberApp := NewApp(appCtx, registrars...)
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return fiberApp.Listen(addr)
}

// errorHandler renders every error as a JSON body with the mapped status.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func healthHandler(appCtx *app.AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		services := fiber.Map{"db": "ok", "redis": "ok"}

		if sqlDB, err := appCtx.DB.DB(); err != nil {
			services["db"] = "error: " + err.Error()
		} else if err := sqlDB.PingContext(c.UserContext()); err != nil {
			services["db"] = "error: " + err.Error()
		}

		if err := appCtx.RedisCache.Ping(c.UserContext()); err != nil {
			services["redis"] = "error: " + err.Error()
		}

		return c.JSON(fiber.Map{
			"status":   "ok",
			"services": services,
		})
	}
}
