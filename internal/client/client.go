package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"eduadmin/internal/session"
)

// APIError is the normalized shape of every upstream failure: the
// server-supplied message when one exists, a generic one otherwise,
// plus the HTTP status. Transport failures (no response received)
// carry status 0 and the message "Network error".
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// IsNetwork reports whether no response was received at all.
func (e *APIError) IsNetwork() bool { return e.Status == 0 }

// Client calls the upstream platform API. Every outgoing request
// attaches the bearer token carried by the request context, when the
// session middleware has put one there.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := session.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: "Network error"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Message: "An error occurred", Status: resp.StatusCode}
		var serverErr struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&serverErr) == nil && serverErr.Message != "" {
			apiErr.Message = serverErr.Message
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
