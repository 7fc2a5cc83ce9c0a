// Package opencloud is a minimal client for the Roblox Open Cloud universe and
// place endpoints the relay forwards to. Every call authenticates with the
// caller's API key and is attempted exactly once.
package opencloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/logger"
)

const (
	apiKeyHeader   = "x-api-key"
	defaultBaseURL = "https://apis.roblox.com"
	defaultTimeout = 120 * time.Second

	// maxResponseBytes caps how much of an upstream body is buffered.
	maxResponseBytes = 16 << 20
)

type Config struct {
	// BaseURL defaults to https://apis.roblox.com.
	BaseURL string

	// HTTPClient is used for all requests. When nil a client with Timeout is built.
	HTTPClient *http.Client

	// Timeout bounds each outbound call when HTTPClient is nil. Defaults to 120s.
	Timeout time.Duration

	Logger *slog.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("opencloud: invalid base url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("opencloud: base url must be http(s) (got %q)", baseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     log,
	}, nil
}

// request describes one outbound call.
type request struct {
	operation   string
	method      string
	path        string
	query       url.Values
	apiKey      string
	contentType string
	body        []byte

	// bestEffortDecode ignores a 2xx body that does not decode into out.
	bestEffortDecode bool
}

// do executes the request and decodes a 2xx JSON body into out (when non-nil).
// Non-2xx responses return *APIError. Transport failures are wrapped.
func (c *Client) do(ctx context.Context, req request, out any) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "relay.opencloud"})
	sc := logger.StartSpan(ctx, "opencloud."+req.operation, trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()
	ctx = sc.Context()
	sc.SetAttributes(
		attribute.String("http.request.method", req.method),
		attribute.String("url.path", req.path),
	)

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		sc.RecordError(err)
		return fmt.Errorf("opencloud: building %s request: %w", req.operation, err)
	}
	httpReq.Header.Set(apiKeyHeader, req.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		sc.RecordError(err)
		c.logger.ErrorContext(ctx, "opencloud request failed",
			"operation", req.operation,
			"error", err,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("opencloud: %s: %w", req.operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		sc.RecordError(err)
		return fmt.Errorf("opencloud: reading %s response: %w", req.operation, err)
	}
	sc.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(respBody),
			Body:       respBody,
		}
		sc.RecordError(apiErr)
		c.logger.WarnContext(ctx, "opencloud returned error status",
			"operation", req.operation,
			"status", resp.StatusCode,
			"body", logger.Truncate(string(respBody), 512),
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return apiErr
	}

	c.logger.DebugContext(ctx, "opencloud request completed",
		"operation", req.operation,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		if req.bestEffortDecode {
			c.logger.DebugContext(ctx, "ignoring undecodable opencloud response", "operation", req.operation, "error", err)
			return nil
		}
		sc.RecordError(err)
		return fmt.Errorf("opencloud: decoding %s response: %w", req.operation, err)
	}
	return nil
}
