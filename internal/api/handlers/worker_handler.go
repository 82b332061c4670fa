package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/feedrail/internal/api/middleware"
	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/service"
	"github.com/maheshrc27/feedrail/internal/transfer"
)

// WorkerHandler lets an external delivery mechanism run publish jobs over
// HTTP. It shares ProcessJob with the asynq worker.
type WorkerHandler struct {
	s service.PublishService
}

func NewWorkerHandler(service service.PublishService) *WorkerHandler {
	return &WorkerHandler{s: service}
}

func (h *WorkerHandler) Publish(c *fiber.Ctx) error {
	var job transfer.PublishJob
	if err := c.BodyParser(&job); err != nil || job.PostID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Missing or invalid postId",
		})
	}

	if claimed, _ := c.Locals(middleware.LocalPostID).(string); claimed != job.PostID {
		slog.Warn("worker token does not match job", "post_id", job.PostID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Token not valid for this post",
		})
	}

	res, err := h.s.ProcessJob(c.UserContext(), job.PostID)
	switch {
	case errors.Is(err, service.ErrNotActionable):
		status := models.PostStatus("")
		if res != nil {
			status = res.Status
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"skipped": true,
			"status":  status,
		})
	case errors.Is(err, service.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Post not found",
		})
	case err != nil:
		slog.Error("worker endpoint failed", "post_id", job.PostID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": res.Status == models.PostStatusCompleted,
		"postId":  res.PostID,
		"status":  res.Status,
		"results": res.Results,
	})
}
