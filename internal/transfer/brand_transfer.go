package transfer

type BrandCreation struct {
	Name        string `json:"name" validate:"required,max=120"`
	ClientRefID string `json:"clientRefId" validate:"max=255"`
}

type SocialAccountLink struct {
	Provider string `json:"provider" validate:"required"`
	Code     string `json:"code" validate:"required"`
	BrandID  string `json:"brandId" validate:"required"`
}

type SocialAccountInfo struct {
	ID         int64  `json:"id"`
	Provider   string `json:"provider"`
	PlatformID string `json:"platformId"`
}
