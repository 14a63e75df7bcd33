// Package client is the boundary between pipeline steps and external HTTP
// services. It normalizes every outcome into the pipeline's two failure
// kinds: transport problems become NetworkError and are retried with bounded
// backoff, while application-level rejections become ServiceError and are
// surfaced immediately. Status codes and headers never leak past this
// package.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

type (
	// Caller performs JSON round-trips against external HTTP services
	Caller interface {
		Get(ctx context.Context, endpoint string, out any) error
		Post(ctx context.Context, endpoint string, in, out any) error
		PostForm(
			ctx context.Context, endpoint string, form url.Values, out any,
		) error
	}

	// HTTPClient implements Caller over net/http with a per-call timeout
	// and bounded retry of transport failures
	HTTPClient struct {
		httpClient *http.Client
		retry      RetryConfig
		headers    map[string]string
	}

	// Option configures an HTTPClient
	Option func(*HTTPClient)

	requestFunc func(ctx context.Context) (*http.Request, error)
)

const userAgent = "MemeForge/1.0"

var _ Caller = (*HTTPClient)(nil)

// NewHTTPClient creates a client with the provided per-call timeout and
// retry configuration
func NewHTTPClient(timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithRetry overrides the default retry configuration
func WithRetry(rc RetryConfig) Option {
	return func(c *HTTPClient) {
		c.retry = rc
	}
}

// WithHeader attaches a header to every request, e.g. an Authorization
// bearer token
func WithHeader(name, value string) Option {
	return func(c *HTTPClient) {
		if c.headers == nil {
			c.headers = map[string]string{}
		}
		c.headers[name] = value
	}
}

// Get performs a GET request and decodes the JSON response into out
func (c *HTTPClient) Get(
	ctx context.Context, endpoint string, out any,
) error {
	return c.roundTrip(ctx, endpoint, func(
		ctx context.Context,
	) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}, out)
}

// Post marshals in as a JSON body, performs a POST request, and decodes the
// JSON response into out
func (c *HTTPClient) Post(
	ctx context.Context, endpoint string, in, out any,
) error {
	body, err := json.Marshal(in)
	if err != nil {
		return NewNetworkError("failed to encode request", err)
	}
	return c.roundTrip(ctx, endpoint, func(
		ctx context.Context,
	) (*http.Request, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, endpoint, bytes.NewReader(body),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, out)
}

// PostForm performs a form-encoded POST request and decodes the JSON
// response into out
func (c *HTTPClient) PostForm(
	ctx context.Context, endpoint string, form url.Values, out any,
) error {
	encoded := form.Encode()
	return c.roundTrip(ctx, endpoint, func(
		ctx context.Context,
	) (*http.Request, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, endpoint, strings.NewReader(encoded),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, out)
}

// roundTrip executes the request, retrying transport failures within the
// retry budget. Service errors are returned immediately
func (c *HTTPClient) roundTrip(
	ctx context.Context, endpoint string, build requestFunc, out any,
) error {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retry.delayFor(attempt - 1)
			slog.Debug("Retrying request",
				slog.String("endpoint", endpoint),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return NewNetworkError("call cancelled", ctx.Err())
			case <-time.After(delay):
			}
		}

		err := c.once(ctx, build, out)
		if err == nil {
			return nil
		}
		if !IsNetwork(err) {
			return err
		}
		lastErr = err
	}

	slog.Warn("Retry budget exhausted",
		slog.String("endpoint", endpoint),
		slog.Int("max_retries", c.retry.MaxRetries),
		slog.Any("error", lastErr))
	return lastErr
}

func (c *HTTPClient) once(
	ctx context.Context, build requestFunc, out any,
) error {
	req, err := build(ctx)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for name, value := range c.headers {
		req.Header.Set(name, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	dur := time.Since(start)

	if err != nil {
		slog.Error("HTTP request failed",
			slog.String("endpoint", req.URL.String()),
			slog.Duration("duration", dur),
			slog.Any("error", err))
		msg := "service unreachable"
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			msg = "network timeout"
		}
		return NewNetworkError(msg, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("Service rejected request",
			slog.String("endpoint", req.URL.String()),
			slog.Int("status_code", resp.StatusCode))
		return NewServiceError(
			"service rejected request: %s",
			strings.TrimSpace(truncate(string(respBody), 200)),
		)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return NewNetworkError("malformed response body", err)
	}
	return nil
}

// truncate cuts s to at most n bytes, backing off to the nearest rune
// boundary so the result stays valid UTF-8
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
