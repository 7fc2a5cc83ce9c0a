// Package client is a Go client for the Studio Mobile publish relay.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultHTTPTimeout covers a create, which makes two sequential upstream calls.
const DefaultHTTPTimeout = 5 * time.Minute

const apiKeyHeader = "x-api-key"

type Action string

const (
	ActionPublish Action = "publish"
	ActionCreate  Action = "create"
)

// ID is a universe or place id. The relay echoes numeric ids as JSON numbers
// and anything else as strings; both decode.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(data)
	return nil
}

type PublishRequest struct {
	Action     Action `json:"action"`
	PlaceID    string `json:"placeId,omitempty"`
	UniverseID string `json:"universeId,omitempty"`

	// WorkspaceData is the serialized workspace document, e.g.
	// {"Objects":[{"ClassName":"Part","Name":"Baseplate"}]}.
	WorkspaceData string `json:"workspaceData"`

	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
}

type PublishResult struct {
	Success        bool   `json:"success"`
	Action         Action `json:"action"`
	UniverseID     ID     `json:"universeId,omitempty"`
	PlaceID        ID     `json:"placeId"`
	PlaceURL       string `json:"placeUrl"`
	EditURL        string `json:"editUrl,omitempty"`
	VersionNumber  any    `json:"versionNumber,omitempty"`
	ProcessingTime string `json:"processingTime"`
	Message        string `json:"message"`
}

type Place struct {
	UniverseID  ID     `json:"universeId"`
	PlaceID     ID     `json:"placeId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type Status struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError is a failure envelope returned by the relay.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("relay api error (%d): %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("relay api error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	apiKey     string
}

// NewClient builds a client for the relay at rawURL. When httpClient is nil a
// client with DefaultHTTPTimeout is used.
func NewClient(rawURL, apiKey string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid relay url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("relay url must be http(s) (got %q)", rawURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{baseURL: parsed, httpClient: httpClient, apiKey: apiKey}, nil
}

func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	if err := c.get(ctx, "/", &status, false); err != nil {
		return Status{}, err
	}
	return status, nil
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var health Health
	if err := c.get(ctx, "/health", &health, false); err != nil {
		return Health{}, err
	}
	return health, nil
}

// Publish sends a publish or create request.
func (c *Client) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	var result PublishResult
	if err := c.post(ctx, "/api/v1/publish", req, &result); err != nil {
		return PublishResult{}, err
	}
	return result, nil
}

// ListPlaces returns the first page of places visible to the API key.
func (c *Client) ListPlaces(ctx context.Context) ([]Place, error) {
	var resp struct {
		Success bool    `json:"success"`
		Places  []Place `json:"places"`
	}
	if err := c.get(ctx, "/api/v1/places", &resp, true); err != nil {
		return nil, err
	}
	return resp.Places, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body), true)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any, withAuth bool) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, withAuth)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, withAuth bool) (*http.Request, error) {
	rel := &url.URL{Path: path.Join(c.baseURL.Path, endpoint)}
	u := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if withAuth {
		if c.apiKey == "" {
			return nil, errors.New("relay: api key is not set")
		}
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(data) > 0 {
			_ = json.Unmarshal(data, apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
