// Package supabase is a small client for the hosted backend's Auth and Storage APIs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds the project settings needed to reach the hosted backend
type Config struct {
	ProjectURL string
	AnonKey    string
	ServiceKey string
	JWTSecret  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is the entry point for Supabase calls
type Client struct {
	config     Config
	httpClient *http.Client

	baseURL    string
	authURL    string
	storageURL string

	auth    *AuthClient
	storage *StorageClient
}

// New creates a client for the project at cfg.ProjectURL
func New(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}

	baseURL := strings.TrimRight(cfg.ProjectURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		config:     cfg,
		httpClient: httpClient,
		baseURL:    baseURL,
		authURL:    baseURL + "/auth/v1",
		storageURL: baseURL + "/storage/v1",
	}
	c.auth = &AuthClient{client: c}
	c.storage = &StorageClient{client: c}

	return c, nil
}

// Auth returns the auth client
func (c *Client) Auth() *AuthClient {
	return c.auth
}

// Storage returns the storage client
func (c *Client) Storage() *StorageClient {
	return c.storage
}

// serviceKey prefers the service role key so storage writes bypass row level security
func (c *Client) serviceKey() string {
	if c.config.ServiceKey != "" {
		return c.config.ServiceKey
	}
	return c.config.AnonKey
}

// request performs an HTTP call. bearer is sent as the Authorization token;
// the anon key always goes in the apikey header.
func (c *Client) request(ctx context.Context, method, urlStr string, body []byte, headers map[string]string, bearer string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("apikey", c.config.AnonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

// Error is an error response from the hosted backend
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
	StatusCode int    `json:"status_code"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// parseError turns an error response body into *Error
func parseError(body []byte, statusCode int) error {
	var errResp struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Details          string `json:"details"`
		Hint             string `json:"hint"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return &Error{Code: "unknown", Message: string(body), StatusCode: statusCode}
	}

	msg := errResp.Message
	for _, alt := range []string{errResp.Error, errResp.ErrorDescription, errResp.Msg} {
		if msg == "" {
			msg = alt
		}
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	return &Error{
		Code:       errResp.Code,
		Message:    msg,
		Details:    errResp.Details,
		Hint:       errResp.Hint,
		StatusCode: statusCode,
	}
}
