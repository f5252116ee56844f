package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/okoval/minidate/internal/auth"
	apperr "github.com/okoval/minidate/internal/errors"
)

// HeaderInitData carries the Telegram WebApp initData payload.
const HeaderInitData = "X-Init-Data"

const localsUserID = "auth_user_id"

// InitDataAuth validates the X-Init-Data header on every request passing
// through it and stores the authenticated Telegram user id in the request
// locals. Every identity-bearing route goes through this middleware; handlers
// never trust ids from bodies or paths.
func InitDataAuth(v *auth.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderInitData)
		if raw == "" {
			return apperr.Unauthorized()
		}

		user, err := v.Validate(raw)
		if err != nil || user.ID == 0 {
			// uniform rejection, no detail about which check failed
			return apperr.Unauthorized()
		}

		c.Locals(localsUserID, user.ID)
		return c.Next()
	}
}

// UserID returns the authenticated Telegram user id stored by InitDataAuth,
// or 0 when the request was not authenticated.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(localsUserID).(int64)
	return id
}
