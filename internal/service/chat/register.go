package chat

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/okoval/minidate/internal/app"
	"github.com/okoval/minidate/internal/auth"
	apperr "github.com/okoval/minidate/internal/errors"
	"github.com/okoval/minidate/internal/middleware"
)

// Registrar ties the chat endpoints into the HTTP server
type Registrar struct {
	appCtx    *app.AppContext
	validator *auth.Validator
}

// NewRegistrar creates a new Registrar for the chat service
func NewRegistrar(appCtx *app.AppContext, validator *auth.Validator) *Registrar {
	return &Registrar{appCtx: appCtx, validator: validator}
}

// Register attaches the chat routes behind the init-data auth middleware
func (r *Registrar) Register(fiberApp *fiber.App) {
	svc := NewService(r.appCtx)
	api := fiberApp.Group("/api", middleware.InitDataAuth(r.validator))

	api.Get("/messages/:chat_id", func(c *fiber.Ctx) error {
		chatID, err := strconv.ParseInt(c.Params("chat_id"), 10, 64)
		if err != nil {
			return apperr.InvalidArgument("chat_id must be a valid integer")
		}
		msgs, err := svc.ListMessages(c.UserContext(), middleware.UserID(c), chatID)
		if err != nil {
			return err
		}
		return c.JSON(msgs)
	})

	api.Post("/messages", func(c *fiber.Ctx) error {
		var req SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.InvalidArgument("malformed request body")
		}
		if err := svc.SendMessage(c.UserContext(), middleware.UserID(c), &req); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
