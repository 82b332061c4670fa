package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/feedrail/internal/service"
)

type ApiKeyHandler struct {
	s service.ApiKeyService
}

func NewApiKeyHandler(service service.ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{s: service}
}

func (h *ApiKeyHandler) CreateApiKey(c *fiber.Ctx) error {
	key, err := h.s.Create(c.UserContext(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err, "Unable to create API Key")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    key,
	})
}

func (h *ApiKeyHandler) ListKeys(c *fiber.Ctx) error {
	keys, err := h.s.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err, "Unable to list api keys")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    keys,
	})
}

func (h *ApiKeyHandler) RemoveAPIKey(c *fiber.Ctx) error {
	keyID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid key id",
		})
	}

	if err := h.s.RemoveAPIKey(c.UserContext(), GetUserID(c), int64(keyID)); err != nil {
		return errorResponse(c, err, "Unable to delete API Key")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
