package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/feedrail/internal/service"
	"github.com/maheshrc27/feedrail/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

// CreatePost admits a post and answers 202 once its publish job is queued.
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	ref, err := h.s.SubmitPost(c.UserContext(), userID, &pc)
	if err != nil {
		return errorResponse(c, err, "Failed to queue post")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"data":    ref,
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.UserContext(), userID, c.Query("brandId"))
	if err != nil {
		return errorResponse(c, err, "Unable to list posts")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    posts,
	})
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	post, err := h.s.PostInfo(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return errorResponse(c, err, "Unable to get post")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}
