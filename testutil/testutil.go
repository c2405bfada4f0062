// Package testutil provides shared fixtures for dash tests: a canned
// feature registry, an in-process tracker API server and temp preference
// directories.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/klondike-tools/dash/pkg/models"
)

// Fixtures returns a small feature registry covering every lifecycle
// state.
func Fixtures() []models.Feature {
	return []models.Feature{
		{ID: "F001", Description: "User login flow", Category: models.CategoryCore, Priority: 1, Status: models.StatusVerified, Passes: true},
		{ID: "F002", Description: "Session progress log", Category: models.CategoryCore, Priority: 2, Status: models.StatusInProgress},
		{ID: "F003", Description: "Activity feed widget", Category: models.CategoryUI, Priority: 3, Status: models.StatusNotStarted},
		{ID: "F004", Description: "Presence roster", Category: models.CategoryUI, Priority: 4, Status: models.StatusBlocked, BlockedBy: []string{"waiting on websocket server"}},
	}
}

// TrackerServer is a minimal in-process stand-in for the feature tracker
// REST API. It serves the fixture registry and records mutations.
type TrackerServer struct {
	mu       sync.Mutex
	Features []models.Feature
	Summary  models.StatusSummary
	Activity []models.ActivityEntry

	// FailPaths maps a path substring to an HTTP status; matching
	// requests fail with that status instead of succeeding.
	FailPaths map[string]int

	srv *httptest.Server
}

// NewTrackerServer starts a tracker API stub seeded with Fixtures.
// The server is shut down automatically when the test finishes.
func NewTrackerServer(t *testing.T) *TrackerServer {
	t.Helper()

	ts := &TrackerServer{
		Features:  Fixtures(),
		FailPaths: map[string]int{},
	}
	ts.srv = httptest.NewServer(http.HandlerFunc(ts.handler))
	t.Cleanup(ts.srv.Close)
	return ts
}

// URL returns the server's base URL.
func (ts *TrackerServer) URL() string { return ts.srv.URL }

func (ts *TrackerServer) handler(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for sub, status := range ts.FailPaths {
		if strings.Contains(r.URL.Path, sub) {
			http.Error(w, `{"error":"injected failure"}`, status)
			return
		}
	}

	switch {
	case r.URL.Path == "/api/features" && r.Method == http.MethodGet:
		writeJSON(w, ts.Features)

	case r.URL.Path == "/api/status":
		summary := ts.Summary
		summary.TotalFeatures = len(ts.Features)
		for _, f := range ts.Features {
			if f.Passes {
				summary.PassingFeatures++
			}
		}
		writeJSON(w, summary)

	case r.URL.Path == "/api/activity":
		writeJSON(w, ts.Activity)

	case strings.HasSuffix(r.URL.Path, "/start") && strings.HasPrefix(r.URL.Path, "/api/features/"):
		ts.transition(featureID(r.URL.Path), models.StatusInProgress)
		writeJSON(w, map[string]bool{"ok": true})

	case strings.HasSuffix(r.URL.Path, "/block"):
		ts.transition(featureID(r.URL.Path), models.StatusBlocked)
		writeJSON(w, map[string]bool{"ok": true})

	case strings.HasSuffix(r.URL.Path, "/verify"):
		ts.transition(featureID(r.URL.Path), models.StatusVerified)
		writeJSON(w, map[string]bool{"ok": true})

	default:
		http.NotFound(w, r)
	}
}

// featureID extracts the id segment from /api/features/{id}/...
func featureID(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}

func (ts *TrackerServer) transition(id string, status models.FeatureStatus) {
	for i := range ts.Features {
		if ts.Features[i].ID == id {
			ts.Features[i].Status = status
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
