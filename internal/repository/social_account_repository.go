package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/feedrail/internal/models"
)

type SocialAccountRepository interface {
	Upsert(ctx context.Context, sa *models.SocialAccount) error
	GetByProvider(ctx context.Context, brandID, provider string) (*models.SocialAccount, error)
	ListByBrandID(ctx context.Context, brandID string) ([]*models.SocialAccount, error)
}

type socialAccountRepository struct {
	db *sql.DB
}

func NewSocialAccountRepository(db *sql.DB) SocialAccountRepository {
	return &socialAccountRepository{db: db}
}

// Upsert replaces the credential and platform id when the brand already has
// an account for the provider.
func (r *socialAccountRepository) Upsert(ctx context.Context, sa *models.SocialAccount) error {
	query := `
		INSERT INTO social_accounts (brand_id, provider, platform_id, access_token)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (brand_id, provider) DO UPDATE
		SET platform_id = EXCLUDED.platform_id,
			access_token = EXCLUDED.access_token,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, sa.BrandID, sa.Provider, sa.PlatformID, sa.AccessToken).
		Scan(&sa.ID, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *socialAccountRepository) GetByProvider(ctx context.Context, brandID, provider string) (*models.SocialAccount, error) {
	query := `
		SELECT id, brand_id, provider, platform_id, access_token, created_at, updated_at
		FROM social_accounts
		WHERE brand_id = $1 AND provider = $2
	`

	var sa models.SocialAccount
	err := r.db.QueryRowContext(ctx, query, brandID, provider).
		Scan(&sa.ID, &sa.BrandID, &sa.Provider, &sa.PlatformID, &sa.AccessToken, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &sa, nil
}

func (r *socialAccountRepository) ListByBrandID(ctx context.Context, brandID string) ([]*models.SocialAccount, error) {
	query := `
		SELECT id, brand_id, provider, platform_id, access_token, created_at, updated_at
		FROM social_accounts
		WHERE brand_id = $1
		ORDER BY provider
	`
	rows, err := r.db.QueryContext(ctx, query, brandID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	accounts := []*models.SocialAccount{}
	for rows.Next() {
		var sa models.SocialAccount
		err := rows.Scan(&sa.ID, &sa.BrandID, &sa.Provider, &sa.PlatformID, &sa.AccessToken, &sa.CreatedAt, &sa.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &sa)
	}
	return accounts, rows.Err()
}
