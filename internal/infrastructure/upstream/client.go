// Package upstream is the REST client for the commerce backend the
// panel fronts. All panel state lives upstream; this package is the only
// place that talks to it, and the only place that sees the raw wire
// shapes before normalization.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/alerting"
	"github.com/sellerdesk/panel/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum allowed response size from the upstream
// API (10MB).
const maxResponseSize = 10 * 1024 * 1024

// ErrNotFound is returned when the upstream reports HTTP 404 for a
// requested resource.
var ErrNotFound = errors.New("upstream: resource not found")

// Config holds upstream connection settings. The bearer token represents
// the authenticated seller session; the panel never refreshes it.
type Config struct {
	BaseURL        string
	Token          string
	TimeoutSeconds int
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("upstream: base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("upstream: invalid base URL %q", c.BaseURL)
	}
	if c.Token == "" {
		return errors.New("upstream: bearer token is required")
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	return nil
}

// Client is the upstream API client.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new upstream client with the given configuration.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// envelope is the upstream response wrapper shared by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doRequest performs an HTTP request and returns the decoded envelope.
// Transport failures map to ErrUpstreamUnavailable, HTTP and
// application-level failures to ErrUpstreamRequestFailed (with the
// server message preserved where available).
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	ctx, span := telemetry.StartSpan(ctx, "upstream.request",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("http.method", method),
		telemetry.WithAttribute("http.path", path),
	)
	defer span.End()

	env, err := c.do(ctx, method, path, query, body)
	if err != nil {
		telemetry.RecordError(span, err)
		return env, err
	}
	telemetry.SetOK(span)
	return env, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("upstream: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("upstream: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", alerting.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("upstream: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", alerting.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", alerting.ErrUpstreamInvalidResponse, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return &env, fmt.Errorf("%w: %s", alerting.ErrUpstreamRequestFailed, msg)
	}

	return &env, nil
}

// getJSON performs a GET and decodes the envelope's data field into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	env, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", alerting.ErrUpstreamInvalidResponse, err)
	}
	return nil
}

// postJSON performs a POST and decodes the envelope's data field into
// out (when out is non-nil).
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	env, err := c.doRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", alerting.ErrUpstreamInvalidResponse, err)
	}
	return nil
}

// putJSON performs a PUT and decodes the envelope's data field into out.
func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	env, err := c.doRequest(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", alerting.ErrUpstreamInvalidResponse, err)
	}
	return nil
}
