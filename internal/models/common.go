package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// VisualScheduleStep is one step of a generated visual schedule, optionally
// illustrated with a pictogram match.
type VisualScheduleStep struct {
	Order        int     `json:"order"`
	Text         string  `json:"text"`
	PictogramURL *string `json:"pictogram_url,omitempty"`
}
