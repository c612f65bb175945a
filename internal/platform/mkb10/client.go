// Package mkb10 provides a client for an external MKB-10 (ICD-10)
// diagnosis suggestion API. The upstream credential stays server-side;
// callers only see the suggestion list or an upstream error.
package mkb10

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Suggestion is a single diagnosis code offered by the upstream API.
type Suggestion struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// UpstreamError reports a failed call to the suggestion API. The message is
// safe to surface to API consumers; it never contains the credential.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mkb10 upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return "mkb10 upstream unreachable: " + e.Message
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client. Used by tests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// Client calls the suggestion API with a bearer credential.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest queries the upstream API for diagnosis suggestions matching query.
func (c *Client) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	payload, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read at most 1KB of the error body.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return result.Suggestions, nil
}
