// Package ankiconnect is a minimal client for the AnkiConnect add-on's
// JSON-over-HTTP API.
package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starford/ankitools/internal/apperr"
	"github.com/starford/ankitools/internal/models"
)

// Version is the AnkiConnect protocol version sent with every request.
const Version = 6

// Request is the body POSTed to the endpoint.
type Request struct {
	Action  string         `json:"action"`
	Version int            `json:"version"`
	Params  map[string]any `json:"params"`
}

// Response is the envelope every action answers with.
type Response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Client talks to a single AnkiConnect endpoint. Each call is one
// request/response exchange without retries.
type Client struct {
	url  string
	http *http.Client
}

// New creates a client for url. A zero timeout leaves the HTTP client's
// default behaviour in place.
func New(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Do sends action with params and returns the decoded envelope. Transport
// failures are reported as apperr.ErrUnavailable so callers can tell "Anki
// is not running" from an action-level error.
func (c *Client) Do(ctx context.Context, action string, params map[string]any) (*Response, error) {
	if params == nil {
		params = map[string]any{}
	}
	payload, err := json.Marshal(Request{Action: action, Version: Version, Params: params})
	if err != nil {
		return nil, fmt.Errorf("ankiconnect: encode %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ankiconnect: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrUnavailable, c.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperr.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", apperr.ErrUnavailable, c.url, resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("ankiconnect: decode %s response: %w", action, err)
	}
	return &out, nil
}

// Invoke calls action and decodes the result into target. A non-null error
// field in the envelope becomes apperr.ErrAPI.
func (c *Client) Invoke(ctx context.Context, action string, params map[string]any, target any) error {
	resp, err := c.Do(ctx, action, params)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("%w: %s: %s", apperr.ErrAPI, action, *resp.Error)
	}
	if target == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, target); err != nil {
		return fmt.Errorf("ankiconnect: decode %s result: %w", action, err)
	}
	return nil
}

// NotesInfo fetches the notes with the given ids. AnkiConnect answers with
// one entry per id, using an empty object for ids it does not know.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]models.Note, error) {
	var notes []models.Note
	if err := c.Invoke(ctx, "notesInfo", map[string]any{"notes": ids}, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// FindNotes returns the ids of notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.Invoke(ctx, "findNotes", map[string]any{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
