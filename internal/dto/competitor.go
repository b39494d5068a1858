package dto

import "time"

// CreateCompetitorRequest is the DTO for registering a storefront to monitor.
type CreateCompetitorRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// CompetitorResponse is the DTO for API responses containing a competitor.
type CompetitorResponse struct {
	ID        uint      `json:"id"`
	URL       string    `json:"url"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyzeResponse is returned by the manual analyze-now trigger.
type AnalyzeResponse struct {
	Status  AnalyzeStatus `json:"status"`
	Message string        `json:"message"`
}
