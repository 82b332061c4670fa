// Package rails holds the platform publishing adapters. Each rail turns
// content into a post on one social platform and reports an Outcome; it never
// returns transport errors to the caller.
package rails

import (
	"context"

	"github.com/maheshrc27/feedrail/internal/models"
)

type Rail interface {
	Publish(ctx context.Context, content string, mediaURLs []string, accessToken, platformAccountID string) models.Outcome
}

// RailFunc adapts a function to the Rail interface.
type RailFunc func(ctx context.Context, content string, mediaURLs []string, accessToken, platformAccountID string) models.Outcome

func (f RailFunc) Publish(ctx context.Context, content string, mediaURLs []string, accessToken, platformAccountID string) models.Outcome {
	return f(ctx, content, mediaURLs, accessToken, platformAccountID)
}
