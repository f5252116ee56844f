package match

import (
	"github.com/gofiber/fiber/v2"

	"github.com/okoval/minidate/internal/app"
	"github.com/okoval/minidate/internal/auth"
	apperr "github.com/okoval/minidate/internal/errors"
	"github.com/okoval/minidate/internal/middleware"
)

// Registrar ties the like/match endpoints into the HTTP server
type Registrar struct {
	appCtx    *app.AppContext
	validator *auth.Validator
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext, validator *auth.Validator) *Registrar {
	return &Registrar{appCtx: appCtx, validator: validator}
}

// Register attaches the like/match routes behind the init-data auth middleware
func (r *Registrar) Register(fiberApp *fiber.App) {
	svc := NewService(r.appCtx)
	api := fiberApp.Group("/api", middleware.InitDataAuth(r.validator))

	api.Post("/like", func(c *fiber.Ctx) error {
		var req LikeRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.InvalidArgument("malformed request body")
		}
		resp, err := svc.RecordLike(c.UserContext(), middleware.UserID(c), &req)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	api.Get("/matches", func(c *fiber.Ctx) error {
		rows, err := svc.ListMatches(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(rows)
	})

	api.Get("/likes/count", func(c *fiber.Ctx) error {
		resp, err := svc.CountLikers(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})
}
