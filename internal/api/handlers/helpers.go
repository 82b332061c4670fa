package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/feedrail/internal/api/middleware"
	"github.com/maheshrc27/feedrail/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := c.Locals(middleware.LocalUserID).(int64)
	return userID
}

// errorStatus maps service errors to HTTP status codes. Anything unknown is a
// server error.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnsupportedProvider),
		errors.Is(err, service.ErrAccountLink),
		errors.Is(err, service.ErrNoPages),
		errors.Is(err, service.ErrKeyLimit):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrBrandNotFound):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrKeyNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrDuplicateBrand):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse writes err with its mapped status. Server errors are logged and
// replaced by fallback so internals never reach the client.
func errorResponse(c *fiber.Ctx, err error, fallback string) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		slog.Error(err.Error(), "path", c.Path())
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   fallback,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
