// Package api implements the client for the managed backend: record rows over
// the REST endpoint, blobs over the storage endpoint and identity over the
// auth endpoint, all under one project base URL.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable marks the backend as unreachable or not configured. Callers
// treat it as a signal to degrade to local data, not as a failure.
var ErrUnavailable = errors.New("backend unavailable")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// Client talks to the managed backend. AccessToken is the signed-in user's
// token; when empty, requests carry the anonymous key only.
type Client struct {
	BaseURL     string
	AnonKey     string
	AccessToken string
	HTTPClient  *http.Client
}

// NewClient creates a client for the given project. An empty baseURL yields a
// client whose every call fails with ErrUnavailable, which keeps the
// fallback-catalog path exercised without special-casing configuration.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		AnonKey: anonKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether the client points at a real backend.
func (c *Client) Configured() bool {
	return c.BaseURL != "" && c.AnonKey != ""
}

// doJSON makes a request with a JSON body (optional) and returns the raw
// response body. All backend errors come back as ErrUnavailable (transport)
// or *StatusError (HTTP).
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, headers map[string]string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrUnavailable
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.send(req)
}

// doRaw posts raw bytes (blob upload) with an explicit content type.
func (c *Client) doRaw(ctx context.Context, method, path string, data []byte, contentType string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.setAuthHeaders(req)

	return c.send(req)
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", c.AnonKey)
	token := c.AccessToken
	if token == "" {
		token = c.AnonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}
