package httpapi

type CreateFromFileRequest struct {
	Path         string  `json:"path"`
	OriginalName string  `json:"original_name"`
	MimeType     string  `json:"mime_type"`
	Size         int64   `json:"size"`
	Duration     float64 `json:"duration"`
	Language     string  `json:"language"`
	Priority     bool    `json:"priority"`
}

type CreateFromYouTubeRequest struct {
	URL      string `json:"url"`
	Language string `json:"language"`
	Priority bool   `json:"priority"`
}

type CreateResponse struct {
	ID            string  `json:"id"`
	EstimatedCost float64 `json:"estimated_cost"`
	Currency      string  `json:"currency"`
}
