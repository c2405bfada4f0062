package models

import "encoding/json"

// UpdateMessage is an opaque change notification delivered over the
// /api/updates socket. The payload is never merged client-side; a message
// only signals that cached server views may be stale.
type UpdateMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Presence message types delivered over the /ws/presence socket.
const (
	PresenceMsgUpdate = "presence"     // single user upsert
	PresenceMsgList   = "presenceList" // full roster replace
	PresenceMsgLeft   = "userLeft"     // remove by id
	PresenceMsgHello  = "hello"        // outbound announcement on connect
)

// Presence describes one remote user currently viewing the dashboard.
type Presence struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color,omitempty"`
	CurrentView string `json:"currentView,omitempty"`
	LastSeenMs  int64  `json:"lastSeenAtMs,omitempty"`
}

// PresenceMessage is the envelope for all presence socket traffic.
type PresenceMessage struct {
	Type   string     `json:"type"`
	User   *Presence  `json:"user,omitempty"`
	Users  []Presence `json:"users,omitempty"`
	UserID string     `json:"userId,omitempty"`
}
