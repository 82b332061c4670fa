package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/rails"
	"github.com/maheshrc27/feedrail/internal/repository"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})))
	os.Exit(m.Run())
}

type fakePostRepo struct {
	mu          sync.Mutex
	posts       map[string]*models.Post
	finalizes   int
	finalizeErr error
	// finalizeFailures fails that many Finalize calls before succeeding.
	finalizeFailures int
	// beforeClaim runs under the lock ahead of a status transition.
	beforeClaim func(p *models.Post)
	// claimed, when set, is closed once a QUEUED -> PROCESSING transition wins.
	claimed chan struct{}
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Targets = append([]string(nil), p.Targets...)
	cp.MediaURLs = append([]string(nil), p.MediaURLs...)
	cp.Results = make(models.Results, len(p.Results))
	for k, v := range p.Results {
		cp.Results[k] = v
	}
	return &cp
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(p), nil
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, id string, _ int64) (*models.Post, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePostRepo) ListByUserID(_ context.Context, _ int64, brandID string) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if brandID == "" || p.BrandID == brandID {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListStaleByStatus(_ context.Context, status models.PostStatus, before time.Time, _ int) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if p.Status == status && p.UpdatedAt.Before(before) {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (r *fakePostRepo) TransitionStatus(_ context.Context, id string, from, to models.PostStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if ok && r.beforeClaim != nil {
		r.beforeClaim(p)
	}
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	if r.claimed != nil && to == models.PostStatusProcessing {
		close(r.claimed)
		r.claimed = nil
	}
	return true, nil
}

func (r *fakePostRepo) Finalize(_ context.Context, id string, from, to models.PostStatus, results models.Results) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalizeErr != nil {
		return false, r.finalizeErr
	}
	if r.finalizeFailures > 0 {
		r.finalizeFailures--
		return false, errors.New("connection reset by peer")
	}
	p, ok := r.posts[id]
	if !ok || p.Status != from {
		return false, nil
	}
	r.finalizes++
	p.Status = to
	p.Results = results
	return true, nil
}

func (r *fakePostRepo) get(id string) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clonePost(r.posts[id])
}

type fakeBrandRepo struct {
	brands map[string]*models.Brand
	err    error
}

func (r *fakeBrandRepo) Create(_ context.Context, b *models.Brand) error {
	for _, existing := range r.brands {
		if existing.UserID == b.UserID && existing.Name == b.Name {
			return repository.ErrDuplicate
		}
	}
	r.brands[b.ID] = b
	return nil
}

func (r *fakeBrandRepo) GetByUserID(_ context.Context, id string, userID int64) (*models.Brand, error) {
	if r.err != nil {
		return nil, r.err
	}
	b, ok := r.brands[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	return b, nil
}

func (r *fakeBrandRepo) ListByUserID(_ context.Context, userID int64) ([]*models.Brand, error) {
	var out []*models.Brand
	for _, b := range r.brands {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string][]*models.SocialAccount
	err      error
}

func (r *fakeAccountRepo) Upsert(_ context.Context, sa *models.SocialAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.accounts[sa.BrandID]
	for i, acc := range list {
		if acc.Provider == sa.Provider {
			sa.ID = acc.ID
			list[i] = sa
			return nil
		}
	}
	sa.ID = int64(len(list) + 1)
	r.accounts[sa.BrandID] = append(list, sa)
	return nil
}

func (r *fakeAccountRepo) GetByProvider(_ context.Context, brandID, provider string) (*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acc := range r.accounts[brandID] {
		if acc.Provider == provider {
			return acc, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) ListByBrandID(_ context.Context, brandID string) ([]*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]*models.SocialAccount(nil), r.accounts[brandID]...), nil
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	jobs  []string
	err   error
	onJob func(postID string)
}

func (q *fakeEnqueuer) EnqueuePublish(_ context.Context, postID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, postID)
	if q.onJob != nil {
		q.onJob(postID)
	}
	return nil
}

// fakeCreds treats "enc:" + token as ciphertext.
type fakeCreds struct{}

func (fakeCreds) Encrypt(plaintext string) (string, error) { return "enc:" + plaintext, nil }

func (fakeCreds) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", errors.New("bad ciphertext")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

// countingRail records every call and answers with the configured outcome.
type countingRail struct {
	calls   atomic.Int32
	outcome models.Outcome
	block   chan struct{}
	seen    sync.Map
}

func (r *countingRail) Publish(_ context.Context, content string, mediaURLs []string, accessToken, platformAccountID string) models.Outcome {
	r.calls.Add(1)
	r.seen.Store(platformAccountID, accessToken)
	if r.block != nil {
		<-r.block
	}
	return r.outcome
}

const (
	tenantA int64 = 1
	tenantB int64 = 2
	brandA        = "brand-a"
)

type fixture struct {
	posts    *fakePostRepo
	brands   *fakeBrandRepo
	accounts *fakeAccountRepo
	queue    *fakeEnqueuer
	registry *rails.Registry
	meta     *countingRail
	dispatch PostService
	worker   PublishService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		posts: newFakePostRepo(),
		brands: &fakeBrandRepo{brands: map[string]*models.Brand{
			brandA: {ID: brandA, UserID: tenantA, Name: "Acme"},
		}},
		accounts: &fakeAccountRepo{accounts: map[string][]*models.SocialAccount{}},
		queue:    &fakeEnqueuer{},
		registry: rails.NewRegistry(),
		meta:     &countingRail{outcome: models.Outcome{Success: true, RemoteID: "remote-1"}},
	}
	f.registry.Register(f.meta, rails.PlatformFacebook, rails.PlatformInstagram)
	f.dispatch = NewPostService(f.posts, f.brands, f.queue)
	f.worker = NewPublishService(f.posts, f.accounts, fakeCreds{}, f.registry, 4)
	f.worker.(*publishService).finalizeBackoff = time.Millisecond
	return f
}

func (f *fixture) link(provider, platformID string) {
	f.accounts.Upsert(context.Background(), &models.SocialAccount{
		BrandID:     brandA,
		Provider:    provider,
		PlatformID:  platformID,
		AccessToken: "enc:token-" + provider,
	})
}
