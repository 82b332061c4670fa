package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	config "github.com/maheshrc27/feedrail/configs"
	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/rails"
	"github.com/maheshrc27/feedrail/internal/repository"
	"github.com/maheshrc27/feedrail/internal/transfer"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

var linkableProviders = map[string]struct{}{
	rails.PlatformFacebook:  {},
	rails.PlatformInstagram: {},
}

// PlatformService links social accounts to brands through the Meta OAuth
// code flow.
type PlatformService interface {
	GetAuthURL(ctx context.Context, userID int64, provider, brandID string) (string, error)
	LinkAccount(ctx context.Context, userID int64, req *transfer.SocialAccountLink) (*transfer.SocialAccountInfo, error)
	List(ctx context.Context, userID int64, brandID string) ([]*transfer.SocialAccountInfo, error)
}

type platformService struct {
	oauth    *oauth2.Config
	graphURL string
	br       repository.BrandRepository
	sa       repository.SocialAccountRepository
	creds    CredentialService
}

func NewPlatformService(
	meta config.Meta,
	br repository.BrandRepository,
	sa repository.SocialAccountRepository,
	creds CredentialService) PlatformService {
	graphURL := strings.TrimRight(meta.GraphURL, "/")
	if graphURL == "" {
		graphURL = rails.DefaultGraphURL
	}

	return &platformService{
		oauth: &oauth2.Config{
			ClientID:     meta.AppID,
			ClientSecret: meta.AppSecret,
			RedirectURL:  meta.RedirectURI,
			Scopes:       []string{"pages_manage_posts", "pages_read_engagement", "instagram_basic", "instagram_content_publish"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   facebook.Endpoint.AuthURL,
				TokenURL:  graphURL + "/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		graphURL: graphURL,
		br:       br,
		sa:       sa,
		creds:    creds,
	}
}

func (s *platformService) configured() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != "" && s.oauth.RedirectURL != ""
}

func (s *platformService) checkRequest(ctx context.Context, userID int64, provider, brandID string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if _, ok := linkableProviders[provider]; !ok {
		return "", ErrUnsupportedProvider
	}

	brand, err := s.br.GetByUserID(ctx, brandID, userID)
	if err != nil {
		return "", fmt.Errorf("error loading brand: %w", err)
	}
	if brand == nil {
		return "", ErrBrandNotFound
	}
	return provider, nil
}

// GetAuthURL builds the Meta consent URL. The brand id travels in state and
// comes back with the code.
func (s *platformService) GetAuthURL(ctx context.Context, userID int64, provider, brandID string) (string, error) {
	if _, err := s.checkRequest(ctx, userID, provider, brandID); err != nil {
		return "", err
	}
	if !s.configured() {
		return "", fmt.Errorf("%w: Meta API not configured", ErrAccountLink)
	}
	return s.oauth.AuthCodeURL(brandID), nil
}

func (s *platformService) LinkAccount(ctx context.Context, userID int64, req *transfer.SocialAccountLink) (*transfer.SocialAccountInfo, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing required fields: provider, code, brandId", ErrValidation)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	provider, err := s.checkRequest(ctx, userID, req.Provider, req.BrandID)
	if err != nil {
		return nil, err
	}
	if !s.configured() {
		return nil, fmt.Errorf("%w: Meta API not configured", ErrAccountLink)
	}

	token, err := s.oauth.Exchange(ctx, req.Code)
	if err != nil {
		slog.Info("meta code exchange failed", "brand_id", req.BrandID, "error", err)
		return nil, fmt.Errorf("%w: failed to exchange code for token", ErrAccountLink)
	}

	client := s.oauth.Client(ctx, token)
	platformID, err := s.lookupPlatformID(ctx, client, provider)
	if err != nil {
		return nil, err
	}

	encrypted, err := s.creds.Encrypt(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("error encrypting access token: %w", err)
	}

	account := &models.SocialAccount{
		BrandID:     req.BrandID,
		Provider:    provider,
		PlatformID:  platformID,
		AccessToken: encrypted,
	}
	if err := s.sa.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("error saving social account: %w", err)
	}

	slog.Info("social account linked", "brand_id", req.BrandID, "provider", provider)
	return &transfer.SocialAccountInfo{
		ID:         account.ID,
		Provider:   account.Provider,
		PlatformID: account.PlatformID,
	}, nil
}

// lookupPlatformID finds the id the rail will publish to: the first managed
// page for facebook, the account itself for instagram.
func (s *platformService) lookupPlatformID(ctx context.Context, client *http.Client, provider string) (string, error) {
	if provider == rails.PlatformFacebook {
		var pages transfer.MetaPagesResponse
		if err := s.graphGet(ctx, client, "/me/accounts", &pages); err != nil {
			return "", err
		}
		if len(pages.Data) == 0 {
			return "", ErrNoPages
		}
		return pages.Data[0].ID, nil
	}

	var me transfer.MetaUserInfo
	if err := s.graphGet(ctx, client, "/me?fields=id", &me); err != nil {
		return "", err
	}
	if me.ID == "" {
		return "", fmt.Errorf("%w: no account id returned", ErrAccountLink)
	}
	return me.ID, nil
}

func (s *platformService) graphGet(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.graphURL+path, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: graph request failed", ErrAccountLink)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: graph returned status %d", ErrAccountLink, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid graph response", ErrAccountLink)
	}
	return nil
}

func (s *platformService) List(ctx context.Context, userID int64, brandID string) ([]*transfer.SocialAccountInfo, error) {
	brand, err := s.br.GetByUserID(ctx, brandID, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading brand: %w", err)
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}

	accounts, err := s.sa.ListByBrandID(ctx, brand.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting social accounts: %w", err)
	}

	infos := make([]*transfer.SocialAccountInfo, 0, len(accounts))
	for _, acc := range accounts {
		infos = append(infos, &transfer.SocialAccountInfo{
			ID:         acc.ID,
			Provider:   acc.Provider,
			PlatformID: acc.PlatformID,
		})
	}
	return infos, nil
}
