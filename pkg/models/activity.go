package models

// ActivityEntry is one row of the server's activity feed.
type ActivityEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor,omitempty"`
	FeatureID string `json:"featureId,omitempty"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
}
