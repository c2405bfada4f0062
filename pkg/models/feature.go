package models

// FeatureStatus is the lifecycle state of a tracked feature.
type FeatureStatus string

const (
	StatusNotStarted FeatureStatus = "not-started"
	StatusInProgress FeatureStatus = "in-progress"
	StatusBlocked    FeatureStatus = "blocked"
	StatusVerified   FeatureStatus = "verified"
)

// AllStatuses lists the lifecycle states in kanban column order.
var AllStatuses = []FeatureStatus{StatusNotStarted, StatusInProgress, StatusBlocked, StatusVerified}

// Valid reports whether s is a known lifecycle state.
func (s FeatureStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusBlocked, StatusVerified:
		return true
	}
	return false
}

// Label returns the human-readable form used in tables and the kanban header.
func (s FeatureStatus) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusBlocked:
		return "Blocked"
	case StatusVerified:
		return "Verified"
	}
	return string(s)
}

// FeatureCategory groups features by area of the tracked project.
type FeatureCategory string

const (
	CategoryCore           FeatureCategory = "core"
	CategoryUI             FeatureCategory = "ui"
	CategoryAPI            FeatureCategory = "api"
	CategoryTesting        FeatureCategory = "testing"
	CategoryInfrastructure FeatureCategory = "infrastructure"
	CategoryDocs           FeatureCategory = "docs"
	CategorySecurity       FeatureCategory = "security"
	CategoryPerformance    FeatureCategory = "performance"
)

// Feature is a single tracked work item as reported by the server.
// Field names follow the server's wire format.
type Feature struct {
	ID                 string          `json:"id"`
	Category           FeatureCategory `json:"category"`
	Priority           int             `json:"priority"`
	Description        string          `json:"description"`
	Dependencies       []string        `json:"dependencies,omitempty"`
	AcceptanceCriteria []string        `json:"acceptanceCriteria,omitempty"`
	EstimatedEffort    string          `json:"estimatedEffort,omitempty"`
	Status             FeatureStatus   `json:"status"`
	Passes             bool            `json:"passes"`
	VerifiedAt         string          `json:"verifiedAt,omitempty"`
	VerifiedBy         string          `json:"verifiedBy,omitempty"`
	EvidenceLinks      []string        `json:"evidenceLinks,omitempty"`
	BlockedBy          []string        `json:"blockedBy,omitempty"`
	LastWorkedOn       string          `json:"lastWorkedOn,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

// CreateFeatureRequest is the body for POST /api/features.
type CreateFeatureRequest struct {
	Description        string   `json:"description"`
	Category           string   `json:"category,omitempty"`
	Priority           int      `json:"priority"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// UpdateFeatureRequest is the body for PUT /api/features/{id}.
type UpdateFeatureRequest struct {
	Description string `json:"description"`
	Notes       string `json:"notes"`
	Category    string `json:"category"`
	Priority    int    `json:"priority"`
}

// BlockFeatureRequest is the body for POST /api/features/{id}/block.
type BlockFeatureRequest struct {
	Reason string `json:"reason"`
}

// VerifyFeatureRequest is the body for POST /api/features/{id}/verify.
type VerifyFeatureRequest struct {
	Evidence string `json:"evidence"`
}

// ReorderItem pairs a feature ID with its new priority rank.
type ReorderItem struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
}

// ReorderRequest is the body for POST /api/features/reorder.
type ReorderRequest struct {
	Order []ReorderItem `json:"order"`
}
