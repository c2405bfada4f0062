package models

// StatusCounts breaks the feature registry down by lifecycle state.
type StatusCounts struct {
	NotStarted int `json:"notStarted"`
	InProgress int `json:"inProgress"`
	Blocked    int `json:"blocked"`
	Verified   int `json:"verified"`
}

// StatusSummary is the server's aggregate view returned by GET /api/status.
type StatusSummary struct {
	ProjectName     string       `json:"projectName"`
	Version         string       `json:"version"`
	TotalFeatures   int          `json:"totalFeatures"`
	PassingFeatures int          `json:"passingFeatures"`
	Counts          StatusCounts `json:"counts"`
	CurrentStatus   string       `json:"currentStatus,omitempty"`
	ActiveSession   *Session     `json:"activeSession,omitempty"`
	LastUpdated     string       `json:"lastUpdated,omitempty"`
}

// CompletionPercent returns passing/total as a 0-100 value, 0 when empty.
func (s StatusSummary) CompletionPercent() int {
	if s.TotalFeatures == 0 {
		return 0
	}
	return s.PassingFeatures * 100 / s.TotalFeatures
}
