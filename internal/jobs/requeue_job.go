package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/repository"
	"github.com/maheshrc27/feedrail/internal/service"
)

const (
	requeueBatchSize = 100
	concurrencyLimit = 10
)

// RequeueJob sweeps posts that never reached a terminal status. Posts whose
// job was lost get a new one; posts that stayed queued past the expiry window
// are failed, and so are posts a worker claimed but never finalized.
type RequeueJob struct {
	pr     repository.PostRepository
	q      service.JobEnqueuer
	after  time.Duration
	expire time.Duration
	now    func() time.Time
}

func NewRequeueJob(
	pr repository.PostRepository,
	q service.JobEnqueuer,
	requeueAfter time.Duration,
	expireAfter time.Duration) *RequeueJob {
	return &RequeueJob{
		pr:     pr,
		q:      q,
		after:  requeueAfter,
		expire: expireAfter,
		now:    time.Now,
	}
}

func (j *RequeueJob) RequeuePosts() {
	ctx := context.Background()
	currentTime := j.now()

	posts, err := j.pr.ListStaleByStatus(ctx, models.PostStatusQueued, currentTime.Add(-j.after), requeueBatchSize)
	if err != nil {
		slog.Info(err.Error())
	}
	j.each(posts, func(post *models.Post) {
		if j.expire > 0 && post.CreatedAt.Before(currentTime.Add(-j.expire)) {
			j.fail(ctx, post, models.PostStatusQueued, models.OutcomeQueueingFailed)
			return
		}

		if err := j.q.EnqueuePublish(ctx, post.ID); err != nil {
			slog.Info("unable to requeue post", "post_id", post.ID, "error", err)
			return
		}
		slog.Info("post requeued", "post_id", post.ID)
	})

	if j.expire <= 0 {
		return
	}
	stuck, err := j.pr.ListStaleByStatus(ctx, models.PostStatusProcessing, currentTime.Add(-j.expire), requeueBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	j.each(stuck, func(post *models.Post) {
		j.fail(ctx, post, models.PostStatusProcessing, models.OutcomeTimedOut)
	})
}

func (j *RequeueJob) each(posts []*models.Post, fn func(post *models.Post)) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, post := range posts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(post *models.Post) {
			defer wg.Done()
			defer func() { <-semaphore }()
			fn(post)
		}(post)
	}

	wg.Wait()
}

// fail moves a post from the given status to FAILED, marking every target
// with reason. Results already stored for a target are kept.
func (j *RequeueJob) fail(ctx context.Context, post *models.Post, from models.PostStatus, reason string) {
	results := make(models.Results, len(post.Targets))
	for _, t := range post.Targets {
		if prev, ok := post.Results[t]; ok {
			results[t] = prev
			continue
		}
		results[t] = models.FailedOutcome(reason)
	}

	ok, err := j.pr.Finalize(ctx, post.ID, from, models.PostStatusFailed, results)
	if err != nil {
		slog.Info("unable to expire post", "post_id", post.ID, "status", from, "error", err)
		return
	}
	if ok {
		slog.Warn("post expired", "post_id", post.ID, "status", from, "created_at", post.CreatedAt, "updated_at", post.UpdatedAt)
	}
}
