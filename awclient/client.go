// Package awclient talks to an ActivityWatch-compatible server: bucket
// provisioning and zero-duration heartbeat delivery.
package awclient

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
)

// Event is the wire form of one heartbeat. Duration is seconds and always
// zero here; the server merges consecutive heartbeats of the same data
// within the pulsetime window into intervals.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Duration  float64   `json:"duration"`
	Data      EventData `json:"data"`
}

type EventData struct {
	App   string `json:"app"`
	Title string `json:"title"`
}

// Client is a thin HTTP client for the ActivityWatch REST API.
// It does not retry: retry policy belongs to the caller.
type Client struct {
	baseURL    string
	clientName string
	hostname   string
	httpClient *http.Client
}

// Config holds configuration for the client.
type Config struct {
	BaseURL    string
	ClientName string
	Hostname   string
	Timeout    time.Duration
}

// NewClient creates a new ActivityWatch client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		clientName: cfg.ClientName,
		hostname:   cfg.Hostname,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// EnsureBucket creates the bucket if it does not exist yet. The server
// answers 304 for a bucket that is already there; both count as success.
func (c *Client) EnsureBucket(ctx context.Context, bucketID, bucketType string) error {
	payload := map[string]string{
		"client":   c.clientName,
		"type":     bucketType,
		"hostname": c.hostname,
	}
	endpoint := "/api/0/buckets/" + url.PathEscape(bucketID)
	if err := c.postJSON(ctx, endpoint, payload); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucketID, err)
	}
	return nil
}

// Heartbeat posts one event to the bucket's heartbeat endpoint. The merge
// window is sent as the pulsetime query parameter, in seconds.
func (c *Client) Heartbeat(ctx context.Context, bucketID string, event Event, mergeWindow time.Duration) error {
	pulsetime := strconv.FormatFloat(mergeWindow.Seconds(), 'f', -1, 64)
	endpoint := "/api/0/buckets/" + url.PathEscape(bucketID) + "/heartbeat?pulsetime=" + pulsetime
	if err := c.postJSON(ctx, endpoint, event); err != nil {
		return fmt.Errorf("heartbeat to %s failed: %w", bucketID, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotModified {
		return nil
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
}
