package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/feedrail/configs"
	"github.com/maheshrc27/feedrail/internal/service"
	"github.com/maheshrc27/feedrail/pkg/utils"
)

const (
	APIKeyHeader = "x-api-key"

	LocalUserID = "user_id"
	LocalPostID = "worker_post_id"
)

type AuthMiddleware struct {
	s   service.ApiKeyService
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config, service service.ApiKeyService) *AuthMiddleware {
	return &AuthMiddleware{s: service, cfg: cfg}
}

// AuthMiddleware resolves the x-api-key header to a tenant and stores its id
// in the request locals.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := strings.TrimSpace(c.Get(APIKeyHeader))
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing x-api-key header",
			})
		}

		userID, ok, err := m.s.GetUserID(c.Context(), apiKey)
		if err != nil {
			slog.Error("api key lookup failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		}
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API Key",
			})
		}

		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// WorkerAuth checks the bearer token a delivery mechanism presents on the
// worker endpoint. The token is scoped to a single post.
func (m *AuthMiddleware) WorkerAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing bearer token",
			})
		}

		claims, err := utils.ValidateWorkerToken(m.cfg.WorkerSigningKey, tokenString)
		if err != nil {
			slog.Info("worker token rejected", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalPostID, claims.PostID)
		return c.Next()
	}
}
