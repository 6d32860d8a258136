// Package transport defines the HTTP DTOs for the summarize module.
package transport

// SummarizeForm is the multipart form accompanying the uploaded video.
type SummarizeForm struct {
	Style  string `form:"style" validate:"required,oneof=executive_summary bullet_points in_depth_narrative"`
	Query  string `form:"query" validate:"omitempty,max=2000"`
	APIKey string `form:"api_key" validate:"omitempty,max=256"`
}

// SummaryResponse is the successful summarization payload.
type SummaryResponse struct {
	Summary string `json:"summary"`
	Style   string `json:"style"`
	Model   string `json:"model"`
}

// StyleOption describes one supported summary style.
type StyleOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StylesResponse lists the supported summary styles.
type StylesResponse struct {
	Styles []StyleOption `json:"styles"`
}
