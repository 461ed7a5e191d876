package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// Client talks to the style map HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// MapNode is the part of a map node the seeder inspects.
type MapNode struct {
	ID      string `json:"id"`
	Metrics struct {
		Games int `json:"games"`
	} `json:"metrics"`
}

// MapEdge is the part of a map edge the seeder inspects.
type MapEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
}

// StyleMap is the part of a map result the seeder inspects.
type StyleMap struct {
	Nodes    []MapNode `json:"nodes"`
	Edges    []MapEdge `json:"edges"`
	Clusters []struct {
		Members []string `json:"members"`
	} `json:"clusters"`
	Summary string `json:"summary"`
}

// JobStatus mirrors GET /jobs/{id}.
type JobStatus struct {
	ID     string    `json:"id"`
	State  string    `json:"state"`
	Result *StyleMap `json:"result"`
	Error  string    `json:"error"`
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

// Ingest posts matches for a player and returns how many were new.
func (c *Client) Ingest(ctx context.Context, playerID string, matches []Match) (int, error) {
	var out struct {
		Inserted int `json:"inserted"`
	}
	body := struct {
		Matches []Match `json:"matches"`
	}{matches}
	err := c.do(ctx, http.MethodPost, "/players/"+url.PathEscape(playerID)+"/matches", body, http.StatusOK, &out)
	return out.Inserted, err
}

// PlayerMaps fetches one map per queue for a player.
func (c *Client) PlayerMaps(ctx context.Context, playerID string) (map[string]StyleMap, error) {
	var out map[string]StyleMap
	err := c.do(ctx, http.MethodGet, "/players/"+url.PathEscape(playerID)+"/stylemaps", nil, http.StatusOK, &out)
	return out, err
}

// SubmitJob queues an asynchronous build.
func (c *Client) SubmitJob(ctx context.Context, playerID, queue string) (JobStatus, error) {
	var out JobStatus
	body := map[string]string{"player_id": playerID, "queue": queue}
	err := c.do(ctx, http.MethodPost, "/jobs", body, http.StatusAccepted, &out)
	return out, err
}

// Job polls a build job.
func (c *Client) Job(ctx context.Context, id string) (JobStatus, error) {
	var out JobStatus
	err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		return &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
