package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/feedrail/configs"
	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubKeys struct {
	keys map[string]int64
}

func (s *stubKeys) Create(context.Context, int64) (*models.ApiKey, error)  { return nil, nil }
func (s *stubKeys) List(context.Context, int64) ([]*models.ApiKey, error) { return nil, nil }
func (s *stubKeys) RemoveAPIKey(context.Context, int64, int64) error       { return nil }

func (s *stubKeys) GetUserID(_ context.Context, apiKey string) (int64, bool, error) {
	id, ok := s.keys[apiKey]
	return id, ok, nil
}

const signingKey = "worker-signing-key"

func newApp() *fiber.App {
	m := NewAuthMiddleware(config.Config{WorkerSigningKey: signingKey}, &stubKeys{keys: map[string]int64{"fr_good": 7}})

	app := fiber.New()
	app.Get("/tenant", m.AuthMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals(LocalUserID).(int64)})
	})
	app.Post("/worker", m.WorkerAuth(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalPostID).(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	app := newApp()

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", fiber.StatusUnauthorized},
		{"unknown key", "fr_bad", fiber.StatusUnauthorized},
		{"valid key", "fr_good", fiber.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/tenant", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestWorkerAuth(t *testing.T) {
	app := newApp()

	good, err := utils.GenerateWorkerToken(signingKey, "post-1", time.Minute)
	require.NoError(t, err)
	forged, err := utils.GenerateWorkerToken("other-key", "post-1", time.Minute)
	require.NoError(t, err)
	expired, err := utils.GenerateWorkerToken(signingKey, "post-1", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"forged", "Bearer " + forged, fiber.StatusUnauthorized},
		{"expired", "Bearer " + expired, fiber.StatusUnauthorized},
		{"valid", "Bearer " + good, fiber.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/worker", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			if tt.want == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "post-1", string(body))
			}
		})
	}
}
