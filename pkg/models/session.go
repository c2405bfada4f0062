package models

import "time"

// Session is one work-session entry in the server's progress log.
type Session struct {
	SessionNumber  int      `json:"sessionNumber"`
	Date           string   `json:"date"`
	Agent          string   `json:"agent,omitempty"`
	Duration       string   `json:"duration,omitempty"`
	Focus          string   `json:"focus"`
	StartedAt      string   `json:"startedAt,omitempty"`
	Active         bool     `json:"active"`
	Completed      []string `json:"completed,omitempty"`
	InProgress     []string `json:"inProgress,omitempty"`
	Blockers       []string `json:"blockers,omitempty"`
	NextSteps      []string `json:"nextSteps,omitempty"`
	TechnicalNotes []string `json:"technicalNotes,omitempty"`
}

// StartTime parses the server-reported start timestamp. Returns the zero
// time when the field is absent or unparseable.
func (s Session) StartTime() time.Time {
	if s.StartedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.StartedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StartSessionRequest is the body for POST /api/session/start.
type StartSessionRequest struct {
	Focus string `json:"focus"`
}

// EndSessionRequest is the body for POST /api/session/end.
type EndSessionRequest struct {
	Summary   string   `json:"summary,omitempty"`
	Completed []string `json:"completed,omitempty"`
	Blockers  []string `json:"blockers,omitempty"`
	NextSteps []string `json:"nextSteps,omitempty"`
}
