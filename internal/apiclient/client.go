// Package apiclient is a thin JSON client for the appointments API, used by
// the seed and simulate commands.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusError is returned when the API answers with an unexpected status.
type StatusError struct {
	Status int
	Code   string
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api returned %d %s: %s", e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("api returned %d %s", e.Status, e.Code)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying client, e.g. for an httptest server.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Login opens a session and uses its token on every later call.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	in := map[string]string{"username": username, "password": password}
	if _, err := c.Do(ctx, http.MethodPost, "/auth/login", in, &out, http.StatusOK); err != nil {
		return fmt.Errorf("login %s: %w", username, err)
	}
	c.token = out.Token
	return nil
}

// Do sends in as JSON and decodes the body into out when the status is one
// of want. The status is returned even when err is a *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any, want ...int) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	for _, w := range want {
		if resp.StatusCode != w {
			continue
		}
		if out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return resp.StatusCode, fmt.Errorf("decode response: %w", err)
			}
		}
		return resp.StatusCode, nil
	}

	var apiErr struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	_ = json.Unmarshal(raw, &apiErr)
	return resp.StatusCode, &StatusError{Status: resp.StatusCode, Code: apiErr.Error, Detail: apiErr.Details}
}
