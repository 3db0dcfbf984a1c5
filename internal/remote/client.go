// Package remote is the gateway to the coaching service. Every call is a single
// attempt and reports a tagged Result instead of an error.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgienger/hbt/internal/logging"
	"github.com/tgienger/hbt/internal/metrics"
)

// HTTPClient abstracts HTTP calls for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps the coaching service REST API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a new service client. A zero timeout leaves the transport default.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.Component(logger, "remote"),
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(hc HTTPClient) {
	c.httpClient = hc
}

// SetMetrics enables call counters.
func (c *Client) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is implemented by response bodies that carry a success flag.
type envelope interface {
	succeeded() bool
}

// exchange performs exactly one request. A 2xx body is decoded into out when
// out is non-nil; a body reporting success=false is classified as rejected.
func (c *Client) exchange(ctx context.Context, op, method, path string, in, out any) (status int, kind Kind, cause error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordRemoteCall(op, kind.String(), time.Since(start).Seconds())
		ev := c.logger.Debug()
		if kind != KindOK {
			ev = c.logger.Info()
		}
		ev.Str("op", op).
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Str("outcome", kind.String()).
			Dur("took", time.Since(start)).
			AnErr("cause", cause).
			Msg("remote call")
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, KindUnreachable, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, KindUnreachable, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, KindUnreachable, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, KindRejected, nil
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, KindOK, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, KindUnreachable, fmt.Errorf("decoding response: %w", err)
	}
	if env, ok := out.(envelope); ok && !env.succeeded() {
		return resp.StatusCode, KindRejected, nil
	}
	return resp.StatusCode, KindOK, nil
}

// Ping checks that the service answers its root endpoint.
func (c *Client) Ping(ctx context.Context) Result[struct{}] {
	status, kind, err := c.exchange(ctx, "ping", http.MethodGet, "/", nil, nil)
	return result(status, kind, err, struct{}{})
}

func result[T any](status int, kind Kind, cause error, payload T) Result[T] {
	switch kind {
	case KindOK:
		return OK(status, payload)
	case KindRejected:
		return Rejected[T](status)
	default:
		return Unreachable[T](cause)
	}
}
