package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/pkg/models"
)

func TestListFeatures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/features", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Feature{
			{ID: "F001", Description: "user login", Status: models.StatusInProgress},
			{ID: "F002", Description: "session log", Status: models.StatusNotStarted},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	features, err := client.ListFeatures(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "F001", features[0].ID)
	assert.Equal(t, models.StatusInProgress, features[0].Status)
}

func TestCreateFeatureSendsWireFormat(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(models.Feature{ID: "F010", Description: "new thing"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	feature, err := client.CreateFeature(context.Background(), models.CreateFeatureRequest{
		Description:        "new thing",
		Category:           "core",
		Priority:           2,
		AcceptanceCriteria: []string{"does the thing"},
	})
	require.NoError(t, err)
	assert.Equal(t, "F010", feature.ID)

	// The create body uses snake_case for acceptance criteria.
	assert.Equal(t, "new thing", body["description"])
	assert.Contains(t, body, "acceptance_criteria")
}

func TestBlockFeature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/features/F003/block", r.URL.Path)
		var req models.BlockFeatureRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "waiting on schema migration", req.Reason)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	require.NoError(t, client.BlockFeature(context.Background(), "F003", "waiting on schema migration"))
}

func TestServerRejectedCarriesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "feature has unmet dependencies"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.VerifyFeature(context.Background(), "F002", "tests pass")
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeServerRejected))
	assert.Contains(t, err.Error(), "feature has unmet dependencies")

	var de *dasherr.DashError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusConflict, de.Details["status"])
}

func TestServerRejectedWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.StartFeature(context.Background(), "F001")
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeServerRejected))
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.StatusSummary(context.Background())
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeMalformed))
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, time.Second)
	_, err := client.ListFeatures(context.Background())
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeNetwork))
}

func TestActivityLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/activity", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode([]models.ActivityEntry{{ID: "a1", Action: "verified", FeatureID: "F001"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	entries, err := client.Activity(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "F001", entries[0].FeatureID)
}

func TestReorderFeatures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/features/reorder", r.URL.Path)
		var req models.ReorderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Order, 2)
		assert.Equal(t, "F002", req.Order[0].ID)
		assert.Equal(t, 1, req.Order[0].Priority)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.ReorderFeatures(context.Background(), []models.ReorderItem{
		{ID: "F002", Priority: 1},
		{ID: "F001", Priority: 2},
	})
	require.NoError(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/session/start":
			var req models.StartSessionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(models.Session{
				SessionNumber: 7,
				Focus:         req.Focus,
				Active:        true,
				StartedAt:     time.Now().UTC().Format(time.RFC3339),
			})
		case "/api/session/end":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	session, err := client.StartSession(context.Background(), "wire up presence")
	require.NoError(t, err)
	assert.Equal(t, 7, session.SessionNumber)
	assert.True(t, session.Active)
	assert.False(t, session.StartTime().IsZero())

	require.NoError(t, client.EndSession(context.Background(), models.EndSessionRequest{
		Summary: "presence wired",
	}))
}
