// Package rest is the HTTP transport collaborator behind the concord object
// model. It owns credential handling, JSON framing, and retry/backoff; the
// object model consumes it through a single Request operation and inspects
// nothing of a failure beyond its HTTP status.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL        = "https://discord.com/api/v6"
	defaultUserAgent      = "concord (https://github.com/concord, v0)"
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxElapsed     = 30 * time.Second
)

// StatusError is a remote-call failure that reached the service and came
// back with a status. It implements the HTTPStatus accessor the object model
// uses for permission classification.
type StatusError struct {
	// Method is the HTTP method of the failed call.
	Method string
	// Path is the API path of the failed call.
	Path string
	// Status is the HTTP response status.
	Status int
	// Code is the platform error code from the failure body when present.
	Code int64
	// Message is the platform error message from the failure body.
	Message string
	// RetryAfter is the rate-limit hint from the failure body when present.
	RetryAfter time.Duration
}

// Error returns an operator-readable failure summary.
func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}

	summary := fmt.Sprintf("rest: %s %s: status %d", e.Method, e.Path, e.Status)
	if e.Code != 0 {
		summary += fmt.Sprintf(" code %d", e.Code)
	}
	if e.Message != "" {
		summary += ": " + e.Message
	}

	return summary
}

// HTTPStatus returns the HTTP response status.
func (e *StatusError) HTTPStatus() int {
	return e.Status
}

// Client issues authenticated JSON calls against the remote API. Transient
// failures (rate limits and 5xx) are retried with exponential backoff; every
// other failure is returned to the caller unretried.
type Client struct {
	httpClient     *http.Client
	logger         *slog.Logger
	baseURL        string
	token          string
	userAgent      string
	initialBackoff time.Duration
	maxElapsed     time.Duration
}

// Option mutates REST client configuration.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		if httpClient != nil {
			client.httpClient = httpClient
		}
	}
}

// WithLogger injects a structured logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// WithBaseURL points the client at a non-standard API origin.
func WithBaseURL(baseURL string) Option {
	return func(client *Client) {
		if baseURL != "" {
			client.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(client *Client) {
		if userAgent != "" {
			client.userAgent = userAgent
		}
	}
}

// WithInitialBackoff sets the first retry delay.
func WithInitialBackoff(initial time.Duration) Option {
	return func(client *Client) {
		if initial > 0 {
			client.initialBackoff = initial
		}
	}
}

// WithMaxElapsed bounds the total time spent retrying one call.
func WithMaxElapsed(maxElapsed time.Duration) Option {
	return func(client *Client) {
		if maxElapsed > 0 {
			client.maxElapsed = maxElapsed
		}
	}
}

// New creates a REST client for the given credential.
func New(token string, opts ...Option) *Client {
	client := &Client{
		httpClient:     &http.Client{},
		logger:         slog.Default(),
		baseURL:        defaultBaseURL,
		token:          token,
		userAgent:      defaultUserAgent,
		initialBackoff: defaultInitialBackoff,
		maxElapsed:     defaultMaxElapsed,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Request issues one call and returns the raw response body. body is
// JSON-encoded when non-nil. Failures with a status are returned as
// *StatusError; transport-level failures are returned wrapped.
func (c *Client) Request(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("rest: encode %s %s body: %w", method, path, err)
		}
		payload = encoded
	}

	var response []byte
	operation := func() error {
		data, err := c.attempt(ctx, method, path, payload)
		if err != nil {
			return err
		}
		response = data

		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying request",
			"method", method,
			"path", path,
			"wait", wait,
			"error", err,
		)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialBackoff
	policy.MaxElapsedTime = c.maxElapsed

	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, err
	}

	return response, nil
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("rest: build %s %s: %w", method, path, err))
	}
	request.Header.Set("Authorization", c.token)
	request.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("rest: do %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: read %s %s response: %w", method, path, err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return data, nil
	}

	statusErr := &StatusError{
		Method:  method,
		Path:    path,
		Status:  response.StatusCode,
		Code:    gjson.GetBytes(data, "code").Int(),
		Message: gjson.GetBytes(data, "message").String(),
	}
	if retryAfter := gjson.GetBytes(data, "retry_after").Float(); retryAfter > 0 {
		statusErr.RetryAfter = time.Duration(retryAfter * float64(time.Second))
	}

	if retryable(response.StatusCode) {
		return nil, statusErr
	}

	return nil, backoff.Permanent(statusErr)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
