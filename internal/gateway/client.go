package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotRegistered indicates the backend has not registered the workflow yet.
// Pollers treat this as "not ready", not as a failure.
var ErrNotRegistered = errors.New("workflow not registered")

// StatusError reports a non-2xx gateway response other than the 404
// not-registered case.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned %d", e.Code)
}

// Status is the body of a status response. An empty Result means the job is
// still running; State carries free-form backend progress text.
type Status struct {
	State  string `json:"status"`
	Result string `json:"result"`
}

// Done reports whether the job has produced an artifact.
func (s Status) Done() bool {
	return strings.TrimSpace(s.Result) != ""
}

// Service defines the generation backend operations consumed by the workflow.
type Service interface {
	StartGeneration(ctx context.Context, repoURL, language string) (string, error)
	WorkflowStatus(ctx context.Context, workflowID string) (Status, error)
	Ping(ctx context.Context) error
}

// Client talks to the generation gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a gateway client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("gateway base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// StartGeneration submits a generation job and returns its workflow identifier.
func (c *Client) StartGeneration(ctx context.Context, repoURL, language string) (string, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return "", errors.New("repo url must not be empty")
	}
	language = strings.TrimSpace(language)
	if language == "" {
		return "", errors.New("language must not be empty")
	}

	body, err := json.Marshal(map[string]string{
		"repo_url": repoURL,
		"language": language,
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("generate (latency=%v): %w", latency, &StatusError{Code: resp.StatusCode})
	}

	var payload struct {
		WorkflowID string `json:"workflow_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if strings.TrimSpace(payload.WorkflowID) == "" {
		return "", errors.New("gateway returned empty workflow id")
	}
	return payload.WorkflowID, nil
}

// WorkflowStatus fetches the current state of a generation job. A 404 maps to
// ErrNotRegistered; any other non-2xx maps to a StatusError.
func (c *Client) WorkflowStatus(ctx context.Context, workflowID string) (Status, error) {
	workflowID = strings.TrimSpace(workflowID)
	if workflowID == "" {
		return Status{}, errors.New("workflow id must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status/"+workflowID, nil)
	if err != nil {
		return Status{}, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return Status{}, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Status{}, ErrNotRegistered
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Status{}, fmt.Errorf("status check (latency=%v): %w", latency, &StatusError{Code: resp.StatusCode})
	}

	var payload Status
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Status{}, fmt.Errorf("decode status response: %w", err)
	}
	return payload, nil
}

// Ping checks that the gateway is reachable. Any HTTP response counts as
// reachable; only transport errors fail the check.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// BaseURL returns the configured gateway base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
