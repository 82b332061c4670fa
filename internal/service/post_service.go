package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/repository"
	"github.com/maheshrc27/feedrail/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// JobEnqueuer hands a post off to the delivery mechanism.
type JobEnqueuer interface {
	EnqueuePublish(ctx context.Context, postID string) error
}

type PostService interface {
	SubmitPost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*transfer.PostRef, error)
	List(ctx context.Context, userID int64, brandID string) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID string, userID int64) (*models.Post, error)
}

type postService struct {
	pr repository.PostRepository
	br repository.BrandRepository
	q  JobEnqueuer
}

func NewPostService(pr repository.PostRepository, br repository.BrandRepository, q JobEnqueuer) PostService {
	return &postService{
		pr: pr,
		br: br,
		q:  q,
	}
}

// SubmitPost validates and persists a post and enqueues its publish job. It
// returns before any platform is contacted.
func (s *postService) SubmitPost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*transfer.PostRef, error) {
	if pc == nil {
		return nil, fmt.Errorf("%w: post creation data is nil", ErrValidation)
	}
	if strings.TrimSpace(pc.Content) == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}
	targets := pc.TargetList()
	if err := validateTargets(targets); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if err := validateStruct(pc); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	brand, err := s.br.GetByUserID(ctx, pc.BrandID, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading brand: %w", err)
	}
	if brand == nil {
		slog.Info("brand not owned by tenant", "brand_id", pc.BrandID, "user_id", userID)
		return nil, ErrBrandNotFound
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("error generating post id: %w", err)
	}

	mediaURLs := pc.MediaURLs
	if mediaURLs == nil {
		mediaURLs = []string{}
	}

	post := &models.Post{
		ID:        id,
		BrandID:   brand.ID,
		Content:   pc.Content,
		MediaURLs: mediaURLs,
		Targets:   append([]string(nil), targets...),
		Status:    models.PostStatusQueued,
		Results:   models.Results{},
	}
	if err := s.pr.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	if err := s.q.EnqueuePublish(ctx, post.ID); err != nil {
		slog.Error("failed to queue publish job", "post_id", post.ID, "error", err)
		s.failUnqueued(context.WithoutCancel(ctx), post)
		return nil, fmt.Errorf("%w: %v", ErrDispatch, err)
	}

	slog.Info("post queued", "post_id", post.ID, "brand_id", brand.ID, "targets", post.Targets)
	return &transfer.PostRef{
		ID:      post.ID,
		Status:  "queued",
		Message: "Post has been scheduled for processing.",
	}, nil
}

// failUnqueued moves a post whose job never reached the queue to FAILED so it
// does not sit in QUEUED forever. Every target gets the same structural error.
func (s *postService) failUnqueued(ctx context.Context, post *models.Post) {
	results := make(models.Results, len(post.Targets))
	for _, t := range post.Targets {
		results[t] = models.FailedOutcome(models.OutcomeQueueingFailed)
	}

	ok, err := s.pr.Finalize(ctx, post.ID, models.PostStatusQueued, models.PostStatusFailed, results)
	if err != nil {
		slog.Error("failed to mark unqueued post as failed", "post_id", post.ID, "error", err)
		return
	}
	if !ok {
		slog.Warn("unqueued post already left QUEUED", "post_id", post.ID)
	}
}

func (s *postService) List(ctx context.Context, userID int64, brandID string) ([]*models.Post, error) {
	posts, err := s.pr.ListByUserID(ctx, userID, brandID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID string, userID int64) (*models.Post, error) {
	if postID == "" {
		return nil, fmt.Errorf("%w: post id is not valid", ErrValidation)
	}

	post, err := s.pr.GetByUserID(ctx, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}
