package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/feedrail/internal/service"
	"github.com/maheshrc27/feedrail/internal/transfer"
)

type BrandHandler struct {
	s service.BrandService
}

func NewBrandHandler(service service.BrandService) *BrandHandler {
	return &BrandHandler{s: service}
}

func (h *BrandHandler) CreateBrand(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var bc transfer.BrandCreation
	if err := c.BodyParser(&bc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	brand, err := h.s.Create(c.UserContext(), userID, &bc)
	if err != nil {
		return errorResponse(c, err, "Failed to create brand")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    brand,
	})
}

func (h *BrandHandler) ListBrands(c *fiber.Ctx) error {
	brands, err := h.s.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err, "Unable to list brands")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    brands,
	})
}
