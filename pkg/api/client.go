// Package api is the HTTP client for the klondike feature-tracker server.
// Every method maps to one server operation and returns structured errors
// (dasherr codes) so callers can distinguish transport failures from server
// rejections and contract breakage.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/pkg/models"
)

// Client talks to the tracker server's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given base URL (e.g. "http://localhost:8081").
// A zero timeout falls back to 10 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the server base URL the client was constructed with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the shape servers use for structured rejection details.
// Both field names are seen in the wild; whichever is present wins.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues the request and decodes a 2xx JSON body into out (out may be nil
// for operations whose response body is ignored). Non-2xx responses become
// ServerRejected, transport failures become Network, and undecodable success
// bodies become Malformed.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return dasherr.Wrap(err, dasherr.ErrCodeInternal, fmt.Sprintf("failed to encode %s request", op))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return dasherr.Wrap(err, dasherr.ErrCodeInternal, fmt.Sprintf("failed to create %s request", op))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dasherr.Network(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := ""
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			if eb.Error != "" {
				detail = eb.Error
			} else {
				detail = eb.Message
			}
		}
		return dasherr.ServerRejected(op, resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dasherr.Malformed(op, err)
	}
	return nil
}

// ListFeatures returns every feature in the registry.
func (c *Client) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	var features []models.Feature
	if err := c.do(ctx, "list features", http.MethodGet, "/api/features", nil, &features); err != nil {
		return nil, err
	}
	return features, nil
}

// GetFeature returns a single feature by ID.
func (c *Client) GetFeature(ctx context.Context, id string) (*models.Feature, error) {
	var feature models.Feature
	path := "/api/features/" + url.PathEscape(id)
	if err := c.do(ctx, "get feature "+id, http.MethodGet, path, nil, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// CreateFeature adds a new feature and returns the server's view of it,
// including the assigned ID.
func (c *Client) CreateFeature(ctx context.Context, req models.CreateFeatureRequest) (*models.Feature, error) {
	var feature models.Feature
	if err := c.do(ctx, "create feature", http.MethodPost, "/api/features", req, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// UpdateFeature replaces the editable fields of a feature.
func (c *Client) UpdateFeature(ctx context.Context, id string, req models.UpdateFeatureRequest) (*models.Feature, error) {
	var feature models.Feature
	path := "/api/features/" + url.PathEscape(id)
	if err := c.do(ctx, "update feature "+id, http.MethodPut, path, req, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// StartFeature moves a feature to in-progress.
func (c *Client) StartFeature(ctx context.Context, id string) error {
	path := "/api/features/" + url.PathEscape(id) + "/start"
	return c.do(ctx, "start feature "+id, http.MethodPost, path, nil, nil)
}

// BlockFeature marks a feature blocked with a reason.
func (c *Client) BlockFeature(ctx context.Context, id, reason string) error {
	path := "/api/features/" + url.PathEscape(id) + "/block"
	return c.do(ctx, "block feature "+id, http.MethodPost, path, models.BlockFeatureRequest{Reason: reason}, nil)
}

// VerifyFeature marks a feature verified with supporting evidence.
func (c *Client) VerifyFeature(ctx context.Context, id, evidence string) error {
	path := "/api/features/" + url.PathEscape(id) + "/verify"
	return c.do(ctx, "verify feature "+id, http.MethodPost, path, models.VerifyFeatureRequest{Evidence: evidence}, nil)
}

// ReorderFeatures submits a new priority ranking for the given features.
func (c *Client) ReorderFeatures(ctx context.Context, order []models.ReorderItem) error {
	return c.do(ctx, "reorder features", http.MethodPost, "/api/features/reorder", models.ReorderRequest{Order: order}, nil)
}

// StatusSummary returns the aggregate project status.
func (c *Client) StatusSummary(ctx context.Context) (*models.StatusSummary, error) {
	var summary models.StatusSummary
	if err := c.do(ctx, "status summary", http.MethodGet, "/api/status", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Activity returns the most recent activity entries, newest first.
// A limit of 0 leaves the count to the server default.
func (c *Client) Activity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	path := "/api/activity"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var entries []models.ActivityEntry
	if err := c.do(ctx, "activity feed", http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// StartSession opens a new work session with the given focus.
func (c *Client) StartSession(ctx context.Context, focus string) (*models.Session, error) {
	var session models.Session
	if err := c.do(ctx, "start session", http.MethodPost, "/api/session/start", models.StartSessionRequest{Focus: focus}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// EndSession closes the active work session.
func (c *Client) EndSession(ctx context.Context, req models.EndSessionRequest) error {
	return c.do(ctx, "end session", http.MethodPost, "/api/session/end", req, nil)
}
