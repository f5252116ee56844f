package profile

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/okoval/minidate/internal/app"
	"github.com/okoval/minidate/internal/auth"
	apperr "github.com/okoval/minidate/internal/errors"
	"github.com/okoval/minidate/internal/middleware"
)

// Registrar ties the profile endpoints into the HTTP server
type Registrar struct {
	appCtx    *app.AppContext
	validator *auth.Validator
}

// NewRegistrar creates a new Registrar for the profile service
func NewRegistrar(appCtx *app.AppContext, validator *auth.Validator) *Registrar {
	return &Registrar{appCtx: appCtx, validator: validator}
}

// Register attaches the profile routes behind the init-data auth middleware
func (r *Registrar) Register(fiberApp *fiber.App) {
	svc := NewService(r.appCtx)
	api := fiberApp.Group("/api", middleware.InitDataAuth(r.validator))

	api.Get("/user/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return apperr.InvalidArgument("id must be a valid integer")
		}
		resp, err := svc.GetProfile(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	api.Post("/user", func(c *fiber.Ctx) error {
		var req UpsertRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.InvalidArgument("malformed request body")
		}
		if err := svc.UpsertProfile(c.UserContext(), middleware.UserID(c), &req); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	})

	api.Get("/profiles", func(c *fiber.Ctx) error {
		var pageToken *string
		if v := c.Query("page_token"); v != "" {
			pageToken = &v
		}
		resp, err := svc.Discover(c.UserContext(), middleware.UserID(c), pageToken)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})
}
