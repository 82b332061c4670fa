package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/feedrail/internal/models"
)

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) error
	GetByUserID(ctx context.Context, id string, userID int64) (*models.Brand, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Brand, error)
}

type brandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(ctx context.Context, brand *models.Brand) error {
	query := `
		INSERT INTO brands (id, user_id, name, client_ref_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, brand.ID, brand.UserID, brand.Name, brand.ClientRefID).
		Scan(&brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		slog.Info(err.Error())
		return err
	}
	return nil
}

// GetByUserID returns nil when the brand does not exist or is owned by
// another user. Callers must not distinguish the two.
func (r *brandRepository) GetByUserID(ctx context.Context, id string, userID int64) (*models.Brand, error) {
	query := `SELECT id, user_id, name, client_ref_id, created_at, updated_at FROM brands WHERE id = $1 AND user_id = $2`

	var b models.Brand
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&b.ID, &b.UserID, &b.Name, &b.ClientRefID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &b, nil
}

func (r *brandRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Brand, error) {
	query := `SELECT id, user_id, name, client_ref_id, created_at, updated_at FROM brands WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	brands := []*models.Brand{}
	for rows.Next() {
		var b models.Brand
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.ClientRefID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		brands = append(brands, &b)
	}
	return brands, rows.Err()
}
