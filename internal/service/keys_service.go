package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/repository"
	"github.com/maheshrc27/feedrail/pkg/utils"
)

const maxKeysPerUser = 5

type ApiKeyService interface {
	Create(ctx context.Context, userID int64) (*models.ApiKey, error)
	List(ctx context.Context, userID int64) ([]*models.ApiKey, error)
	// GetUserID resolves an API key to its tenant. ok is false for unknown keys.
	GetUserID(ctx context.Context, apiKey string) (userID int64, ok bool, err error)
	RemoveAPIKey(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64) (*models.ApiKey, error) {
	n, err := s.k.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting API keys: %w", err)
	}
	if n >= maxKeysPerUser {
		slog.Info(ErrKeyLimit.Error(), "user_id", userID)
		return nil, ErrKeyLimit
	}

	key, err := utils.GenerateRandomKey(24)
	if err != nil {
		return nil, fmt.Errorf("error generating API key: %w", err)
	}

	apiKey := &models.ApiKey{
		UserID: userID,
		ApiKey: key,
	}
	if err := s.k.Create(ctx, apiKey); err != nil {
		return nil, fmt.Errorf("error saving API key: %w", err)
	}
	return apiKey, nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (int64, bool, error) {
	if apiKey == "" {
		return 0, false, nil
	}
	return s.k.GetByKey(ctx, apiKey)
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys: %w", err)
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID, keyID int64) error {
	if keyID <= 0 {
		return fmt.Errorf("%w: key id is not valid", ErrValidation)
	}

	removed, err := s.k.Remove(ctx, keyID, userID)
	if err != nil {
		return fmt.Errorf("error removing API key: %w", err)
	}
	if !removed {
		slog.Info(ErrKeyNotFound.Error(), "key_id", keyID, "user_id", userID)
		return ErrKeyNotFound
	}
	return nil
}
