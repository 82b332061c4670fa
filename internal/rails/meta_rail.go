package rails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/transfer"
)

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"

	DefaultGraphURL = "https://graph.facebook.com/v18.0"
)

// MetaRail publishes to the Graph API feed edge of a page or account. The
// same rail serves facebook and instagram.
type MetaRail struct {
	baseURL string
	client  *http.Client
}

func NewMetaRail(baseURL string, client *http.Client) *MetaRail {
	if baseURL == "" {
		baseURL = DefaultGraphURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &MetaRail{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (m *MetaRail) Publish(ctx context.Context, content string, mediaURLs []string, accessToken, platformAccountID string) models.Outcome {
	outcome, err := m.publish(ctx, content, mediaURLs, accessToken, platformAccountID)
	if err != nil {
		slog.Error("meta publish failed", "platform_account_id", platformAccountID, "error", err)
		return models.FailedOutcome(models.OutcomeNetworkError)
	}
	return outcome
}

func (m *MetaRail) publish(ctx context.Context, content string, mediaURLs []string, accessToken, platformAccountID string) (models.Outcome, error) {
	url := fmt.Sprintf("%s/%s/feed", m.baseURL, platformAccountID)

	payload := transfer.MetaFeedRequest{
		Message:     content,
		AccessToken: accessToken,
	}
	// Media upload is not supported; the first URL is attached as a link.
	if len(mediaURLs) > 0 {
		payload.Link = mediaURLs[0]
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return models.Outcome{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("error reading response body: %w", err)
	}

	var result transfer.MetaFeedResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return models.Outcome{}, fmt.Errorf("error parsing response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && result.ID != "" {
		return models.Outcome{Success: true, RemoteID: result.ID}, nil
	}

	if result.Error != nil && result.Error.Message != "" {
		return models.FailedOutcome(result.Error.Message), nil
	}
	return models.FailedOutcome(models.OutcomeUnknownError), nil
}
