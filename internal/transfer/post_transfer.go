package transfer

// PostCreation is the admission payload. Platforms is the field name used by
// existing clients; Targets is accepted as an alias.
type PostCreation struct {
	Content   string   `json:"content" validate:"required"`
	MediaURLs []string `json:"mediaUrls" validate:"omitempty,dive,required,url"`
	Platforms []string `json:"platforms"`
	Targets   []string `json:"targets"`
	BrandID   string   `json:"brandId" validate:"required"`
}

// TargetList returns the submitted targets, preferring Platforms.
func (p *PostCreation) TargetList() []string {
	if p.Platforms != nil {
		return p.Platforms
	}
	return p.Targets
}

type PostRef struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type PublishJob struct {
	PostID string `json:"postId"`
}
