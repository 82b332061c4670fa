package models

import (
	"time"
)

// SocialAccount links one provider to a brand. AccessToken is ciphertext and
// never leaves the service layer.
type SocialAccount struct {
	ID          int64     `db:"id" json:"id"`
	BrandID     string    `db:"brand_id" json:"brand_id"`
	Provider    string    `db:"provider" json:"provider"`
	PlatformID  string    `db:"platform_id" json:"platform_id"`
	AccessToken string    `db:"access_token" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
