package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/feedrail/internal/service"
	"github.com/maheshrc27/feedrail/internal/transfer"
)

type PlatformHandler struct {
	s service.PlatformService
}

func NewPlatformHandler(service service.PlatformService) *PlatformHandler {
	return &PlatformHandler{s: service}
}

func (h *PlatformHandler) GetAuthURL(c *fiber.Ctx) error {
	url, err := h.s.GetAuthURL(c.UserContext(), GetUserID(c), c.Query("provider"), c.Query("brandId"))
	if err != nil {
		return errorResponse(c, err, "Unable to build authorization URL")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"url": url},
	})
}

// LinkAccount completes the OAuth flow with the code the client received.
func (h *PlatformHandler) LinkAccount(c *fiber.Ctx) error {
	var req transfer.SocialAccountLink
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	info, err := h.s.LinkAccount(c.UserContext(), GetUserID(c), &req)
	if err != nil {
		return errorResponse(c, err, "Failed to link social account")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    info,
	})
}

func (h *PlatformHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.s.List(c.UserContext(), GetUserID(c), c.Query("brandId"))
	if err != nil {
		return errorResponse(c, err, "Unable to list social accounts")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    accounts,
	})
}
