package errors

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrNotFound marks lookups that matched no row, including access to chats
// the caller is not a member of.
var ErrNotFound = errors.New("record not found")

// Map converts repo/infra errors into fiber errors with HTTP status codes.
// Keeps the service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "record not found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.NewError(fiber.StatusConflict, "already exists")

	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusRequestTimeout, "request timed out")

	case errors.Is(err, context.Canceled):
		return fiber.NewError(fiber.StatusRequestTimeout, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// InvalidArgument creates a 400 error.
// Use this in the service layer for bad input validation.
func InvalidArgument(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// Unauthorized creates the uniform 401 rejection. Deliberately detail-free:
// signature mismatch, stale timestamp and malformed payload all look alike.
func Unauthorized() error {
	return fiber.NewError(fiber.StatusUnauthorized, "invalid init data")
}
