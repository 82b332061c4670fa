package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type PostStatus string

const (
	PostStatusQueued     PostStatus = "QUEUED"
	PostStatusProcessing PostStatus = "PROCESSING"
	PostStatusCompleted  PostStatus = "COMPLETED"
	PostStatusFailed     PostStatus = "FAILED"
)

// Terminal reports whether no further worker transition may happen.
func (s PostStatus) Terminal() bool {
	return s == PostStatusCompleted || s == PostStatusFailed
}

type Post struct {
	ID        string     `db:"id" json:"id"`
	BrandID   string     `db:"brand_id" json:"brand_id"`
	Content   string     `db:"content" json:"content"`
	MediaURLs []string   `db:"media_urls" json:"media_urls"`
	Targets   []string   `db:"targets" json:"targets"`
	Status    PostStatus `db:"status" json:"status"`
	Results   Results    `db:"results" json:"results"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Outcome is what a rail reports for one target.
type Outcome struct {
	Success  bool   `json:"success"`
	RemoteID string `json:"postId,omitempty"`
	Error    string `json:"error,omitempty"`
}

const (
	OutcomeNoAccount      = "No social account configured"
	OutcomeUnsupported    = "Platform not supported"
	OutcomeDecryptFailed  = "Failed to decrypt credentials"
	OutcomeNetworkError   = "Network or API error"
	OutcomeUnknownError   = "Unknown error"
	OutcomeQueueingFailed = "Queueing failed"
	OutcomeTimedOut       = "Processing timed out"
)

func FailedOutcome(msg string) Outcome {
	return Outcome{Success: false, Error: msg}
}

// Results maps a platform identifier to its outcome. Stored as JSONB.
type Results map[string]Outcome

// AllSucceeded is false for an empty map: no work done is not a success.
func (r Results) AllSucceeded() bool {
	if len(r) == 0 {
		return false
	}
	for _, o := range r {
		if !o.Success {
			return false
		}
	}
	return true
}

func (r Results) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

func (r *Results) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = Results{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("results: unsupported scan type")
	}

	out := Results{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*r = out
	return nil
}
