package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ProfileHeader mirrors the server's profile header name
const ProfileHeader = "X-Tally-Profile"

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	profile    string
	token      string
	onProfile  func(string)
	httpClient *http.Client
}

// NewClient creates a new API client. onProfile is invoked when the server
// mints a profile id for a first-time caller, so it can be persisted.
func NewClient(baseURL, profile, token string, onProfile func(string)) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		profile:   profile,
		token:     token,
		onProfile: onProfile,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func (e *APIError) String() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Do performs a JSON HTTP request
func (c *Client) Do(method, path string, body, result any) error {
	var bodyReader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	return c.doRaw(method, path, contentType, bodyReader, result)
}

// DoRaw performs a request with a raw body (uploads)
func (c *Client) DoRaw(method, path, contentType string, data []byte, result any) error {
	return c.doRaw(method, path, contentType, bytes.NewReader(data), result)
}

func (c *Client) doRaw(method, path, contentType string, bodyReader io.Reader, result any) error {
	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.profile != "" {
		req.Header.Set(ProfileHeader, c.profile)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The server echoes the resolved profile id; adopt a freshly minted one
	if echoed := resp.Header.Get(ProfileHeader); echoed != "" && echoed != c.profile {
		c.profile = echoed
		if c.onProfile != nil {
			c.onProfile(echoed)
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return fmt.Errorf("%s", errResp.Error.String())
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, nil, result)
}

// GetBytes performs a GET request and returns the raw body
func (c *Client) GetBytes(path string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.profile != "" {
		req.Header.Set(ProfileHeader, c.profile)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, body, result)
}

// Put performs a PUT request
func (c *Client) Put(path string, body, result any) error {
	return c.Do(http.MethodPut, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(path string) error {
	return c.Do(http.MethodDelete, path, nil, nil)
}
