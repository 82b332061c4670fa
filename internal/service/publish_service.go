package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/rails"
	"github.com/maheshrc27/feedrail/internal/repository"
)

// RailResolver maps a platform identifier to its rail.
type RailResolver interface {
	Resolve(platform string) (rails.Rail, bool)
}

type WorkerResult struct {
	PostID  string            `json:"postId"`
	Status  models.PostStatus `json:"status"`
	Results models.Results    `json:"results"`
}

type PublishService interface {
	ProcessJob(ctx context.Context, postID string) (*WorkerResult, error)
}

const finalizeAttempts = 3

type publishService struct {
	pr              repository.PostRepository
	ac              repository.SocialAccountRepository
	creds           CredentialService
	rails           RailResolver
	concurrency     int
	finalizeBackoff time.Duration
}

func NewPublishService(
	pr repository.PostRepository,
	ac repository.SocialAccountRepository,
	creds CredentialService,
	rr RailResolver,
	concurrency int) PublishService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &publishService{
		pr:              pr,
		ac:              ac,
		creds:           creds,
		rails:           rr,
		concurrency:     concurrency,
		finalizeBackoff: 200 * time.Millisecond,
	}
}

// ProcessJob claims a QUEUED post, publishes it to every target and commits
// the terminal status together with the per-target results.
//
// A redelivered job for a post that already left QUEUED returns
// ErrNotActionable without writing anything, along with the status it saw.
func (s *publishService) ProcessJob(ctx context.Context, postID string) (*WorkerResult, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error loading post %s: %w", postID, err)
	}
	if post == nil {
		slog.Warn("publish job for unknown post", "post_id", postID)
		return nil, ErrPostNotFound
	}
	if post.Status != models.PostStatusQueued {
		slog.Info("skipping publish job", "post_id", postID, "status", post.Status)
		return &WorkerResult{PostID: postID, Status: post.Status, Results: post.Results}, ErrNotActionable
	}

	// Read before the claim: a failed read leaves the post QUEUED for retry.
	accounts, err := s.ac.ListByBrandID(ctx, post.BrandID)
	if err != nil {
		return nil, fmt.Errorf("error loading social accounts for brand %s: %w", post.BrandID, err)
	}
	byProvider := make(map[string]*models.SocialAccount, len(accounts))
	for _, acc := range accounts {
		byProvider[strings.ToLower(acc.Provider)] = acc
	}

	claimed, err := s.pr.TransitionStatus(ctx, postID, models.PostStatusQueued, models.PostStatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("error claiming post %s: %w", postID, err)
	}
	if !claimed {
		slog.Info("publish job lost the claim", "post_id", postID)
		return s.currentState(ctx, postID), ErrNotActionable
	}

	results := s.fanOut(ctx, post, byProvider)

	status := models.PostStatusFailed
	if results.AllSucceeded() {
		status = models.PostStatusCompleted
	}

	ok, err := s.finalize(context.WithoutCancel(ctx), postID, status, results)
	if err != nil {
		// The rails already ran; keep what they reported in the log.
		slog.Error("unable to save publish results", "post_id", postID, "status", status, "results", results, "error", err)
		return nil, fmt.Errorf("error saving results for post %s: %w", postID, err)
	}
	if !ok {
		return nil, fmt.Errorf("post %s left PROCESSING before results were saved", postID)
	}

	slog.Info("post processed", "post_id", postID, "status", status, "targets", len(post.Targets))
	return &WorkerResult{PostID: postID, Status: status, Results: results}, nil
}

// currentState re-reads a post whose claim went to another delivery. The
// status is left empty when the read fails.
func (s *publishService) currentState(ctx context.Context, postID string) *WorkerResult {
	res := &WorkerResult{PostID: postID}
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil || post == nil {
		return res
	}
	res.Status = post.Status
	res.Results = post.Results
	return res
}

// finalize commits the terminal state, retrying transient write errors. A
// lost guard is not retried.
func (s *publishService) finalize(ctx context.Context, postID string, status models.PostStatus, results models.Results) (bool, error) {
	var err error
	for attempt := 1; attempt <= finalizeAttempts; attempt++ {
		var ok bool
		ok, err = s.pr.Finalize(ctx, postID, models.PostStatusProcessing, status, results)
		if err == nil {
			return ok, nil
		}
		slog.Warn("saving publish results failed", "post_id", postID, "attempt", attempt, "error", err)
		if attempt < finalizeAttempts {
			time.Sleep(time.Duration(attempt) * s.finalizeBackoff)
		}
	}
	return false, err
}

func (s *publishService) fanOut(ctx context.Context, post *models.Post, accounts map[string]*models.SocialAccount) models.Results {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, s.concurrency)
		results   = make(models.Results, len(post.Targets))
	)

	for _, target := range post.Targets {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(target string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			outcome := s.publishTarget(ctx, post, target, accounts[strings.ToLower(strings.TrimSpace(target))])

			mu.Lock()
			results[target] = outcome
			mu.Unlock()
		}(target)
	}

	wg.Wait()
	return results
}

func (s *publishService) publishTarget(ctx context.Context, post *models.Post, target string, acc *models.SocialAccount) (outcome models.Outcome) {
	log := slog.With("post_id", post.ID, "platform", target)

	rail, ok := s.rails.Resolve(target)
	if !ok {
		log.Info("platform not supported")
		return models.FailedOutcome(models.OutcomeUnsupported)
	}
	if acc == nil {
		log.Info("no social account configured")
		return models.FailedOutcome(models.OutcomeNoAccount)
	}

	accessToken, err := s.creds.Decrypt(acc.AccessToken)
	if err != nil {
		log.Error("failed to decrypt access token", "error", err)
		return models.FailedOutcome(models.OutcomeDecryptFailed)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("rail panicked", "panic", r)
			outcome = models.FailedOutcome(models.OutcomeNetworkError)
		}
	}()

	outcome = rail.Publish(ctx, post.Content, post.MediaURLs, accessToken, acc.PlatformID)
	if outcome.Success {
		log.Info("published", "remote_id", outcome.RemoteID)
	} else {
		log.Warn("publish failed", "error", outcome.Error)
	}
	return outcome
}
