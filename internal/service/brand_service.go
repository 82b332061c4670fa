package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/repository"
	"github.com/maheshrc27/feedrail/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type BrandService interface {
	Create(ctx context.Context, userID int64, bc *transfer.BrandCreation) (*models.Brand, error)
	List(ctx context.Context, userID int64) ([]*models.Brand, error)
}

type brandService struct {
	br repository.BrandRepository
}

func NewBrandService(br repository.BrandRepository) BrandService {
	return &brandService{br: br}
}

func (s *brandService) Create(ctx context.Context, userID int64, bc *transfer.BrandCreation) (*models.Brand, error) {
	if bc == nil || strings.TrimSpace(bc.Name) == "" {
		return nil, fmt.Errorf("%w: missing required field: name", ErrValidation)
	}
	if err := validateStruct(bc); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("error generating brand id: %w", err)
	}

	brand := &models.Brand{
		ID:          id,
		UserID:      userID,
		Name:        strings.TrimSpace(bc.Name),
		ClientRefID: bc.ClientRefID,
	}
	if err := s.br.Create(ctx, brand); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateBrand
		}
		return nil, fmt.Errorf("error creating brand: %w", err)
	}
	return brand, nil
}

func (s *brandService) List(ctx context.Context, userID int64) ([]*models.Brand, error) {
	brands, err := s.br.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing brands: %w", err)
	}
	return brands, nil
}
