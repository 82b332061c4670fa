package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/feedrail/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByUserID(ctx context.Context, id string, userID int64) (*models.Post, error)
	ListByUserID(ctx context.Context, userID int64, brandID string) ([]*models.Post, error)
	// ListStaleByStatus returns posts in status whose last update is older
	// than before, oldest first.
	ListStaleByStatus(ctx context.Context, status models.PostStatus, before time.Time, limit int) ([]*models.Post, error)
	// TransitionStatus moves a post from one status to another only if it is
	// still in the expected status. It reports whether the row was updated.
	TransitionStatus(ctx context.Context, id string, from, to models.PostStatus) (bool, error)
	// Finalize writes a terminal status and the full results map in one
	// update, guarded on the expected current status.
	Finalize(ctx context.Context, id string, from, to models.PostStatus, results models.Results) (bool, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, brand_id, content, media_urls, targets, status, results, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.BrandID,
		&post.Content,
		pq.Array(&post.MediaURLs),
		pq.Array(&post.Targets),
		&post.Status,
		&post.Results,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if post.MediaURLs == nil {
		post.MediaURLs = []string{}
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, brand_id, content, media_urls, targets, status, results)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	mediaURLs := post.MediaURLs
	if mediaURLs == nil {
		mediaURLs = []string{}
	}

	err := r.db.QueryRowContext(ctx, query,
		post.ID,
		post.BrandID,
		post.Content,
		pq.Array(mediaURLs),
		pq.Array(post.Targets),
		post.Status,
		post.Results,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, id string, userID int64) (*models.Post, error) {
	query := `
		SELECT p.id, p.brand_id, p.content, p.media_urls, p.targets, p.status, p.results, p.created_at, p.updated_at
		FROM posts p
		JOIN brands b ON b.id = p.brand_id
		WHERE p.id = $1 AND b.user_id = $2
	`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID int64, brandID string) ([]*models.Post, error) {
	query := `
		SELECT p.id, p.brand_id, p.content, p.media_urls, p.targets, p.status, p.results, p.created_at, p.updated_at
		FROM posts p
		JOIN brands b ON b.id = p.brand_id
		WHERE b.user_id = $1 AND ($2 = '' OR p.brand_id = $2)
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, brandID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListStaleByStatus(ctx context.Context, status models.PostStatus, before time.Time, limit int) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = $1 AND updated_at < $2 ORDER BY updated_at LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, status, before, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) TransitionStatus(ctx context.Context, id string, from, to models.PostStatus) (bool, error) {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postRepository) Finalize(ctx context.Context, id string, from, to models.PostStatus, results models.Results) (bool, error) {
	query := `
		UPDATE posts
		SET status = $1,
			results = $2,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, to, results, time.Now(), id, from)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}
