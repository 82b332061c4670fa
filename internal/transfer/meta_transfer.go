package transfer

type MetaFeedRequest struct {
	Message     string `json:"message"`
	Link        string `json:"link,omitempty"`
	AccessToken string `json:"access_token"`
}

type MetaFeedResponse struct {
	ID    string     `json:"id"`
	Error *MetaError `json:"error,omitempty"`
}

type MetaError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	IsTransient  bool   `json:"is_transient"`
	FbtraceID    string `json:"fbtrace_id"`
}

type MetaPagesResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
	Error *MetaError `json:"error,omitempty"`
}

type MetaUserInfo struct {
	ID    string     `json:"id"`
	Error *MetaError `json:"error,omitempty"`
}
