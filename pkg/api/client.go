package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/td-cli/td/pkg/log"
	"github.com/td-cli/td/pkg/metrics"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.todoist.com/api/v1"

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 30 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// Client talks to the remote task service. It is safe to copy; the
// underlying http.Client pools connections.
type Client struct {
	token          string
	baseURL        string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         zerolog.Logger

	// sleep is swapped out in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMaxRetries sets how many times a 429 response is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackoff sets the initial and maximum backoff durations.
func WithBackoff(initial, max time.Duration) Option {
	return func(c *Client) {
		c.initialBackoff = initial
		c.maxBackoff = max
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client authenticated with the given API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:          token,
		baseURL:        DefaultBaseURL,
		httpClient:     &http.Client{Timeout: defaultRequestTimeout},
		maxRetries:     defaultMaxRetries,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
		logger:         log.WithComponent(log.ComponentAPI),
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// String renders the client for debug output. The token never appears.
func (c *Client) String() string {
	return fmt.Sprintf("Client{base_url: %s, token: [REDACTED], max_retries: %d, timeout: %s}",
		c.baseURL, c.maxRetries, c.httpClient.Timeout)
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// Post issues an authenticated POST with a JSON body and decodes the
// response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return &APIError{Kind: KindInternal, Message: err.Error(), Err: err}
	}
	return c.do(ctx, http.MethodPost, path, "application/json", encoded, out)
}

// PostEmpty issues an authenticated POST with no body.
func (c *Client) PostEmpty(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodPost, path, "", nil, out)
}

// Delete issues an authenticated DELETE. Any 2xx status is success.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

// Sync posts a batching sync request and returns the decoded response.
func (c *Client) Sync(ctx context.Context, req SyncRequest) (*SyncResponse, error) {
	body := []byte(req.FormBody())
	var resp SyncResponse
	err := c.do(ctx, http.MethodPost, "/sync", "application/x-www-form-urlencoded", body, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// QuickAdd creates a task from natural-language text in one request.
func (c *Client) QuickAdd(ctx context.Context, req QuickAddRequest) (*QuickAddResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp QuickAddResponse
	if err := c.Post(ctx, "/tasks/quick", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do runs the request/retry loop. Only 429 responses are retried, up to
// maxRetries times; every other failure is terminal.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	url := c.baseURL + path

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return &APIError{Kind: KindInternal, Message: err.Error(), Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)
		metrics.RequestDuration.Observe(duration.Seconds())
		if err != nil {
			metrics.RequestsTotal.WithLabelValues(method, "error").Inc()
			c.logger.Debug().Str("method", method).Str("path", path).
				Dur("duration", duration).Err(err).Msg("request failed")
			return networkError(err)
		}

		metrics.RequestsTotal.WithLabelValues(method, statusClass(resp.StatusCode)).Inc()
		c.logger.Debug().Str("method", method).Str("path", path).
			Int("status", resp.StatusCode).Dur("duration", duration).
			Int("attempt", attempt).Msg("request completed")

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			retryAfter := parseRetryAfter(resp)
			drainBody(resp)
			metrics.RetriesTotal.Inc()
			backoff := c.calculateBackoff(attempt, retryAfter)
			c.logger.Warn().Dur("backoff", backoff).Int("attempt", attempt).
				Msg("rate limited, backing off")
			if err := c.sleep(ctx, backoff); err != nil {
				return networkError(err)
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return decodeResponse(resp, out)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			metrics.RateLimitExhaustedTotal.Inc()
		}
		return c.errorFromResponse(resp)
	}

	metrics.RateLimitExhaustedTotal.Inc()
	return &APIError{Kind: KindRateLimit}
}

// calculateBackoff returns the wait before the next attempt. A numeric
// Retry-After wins, capped at the maximum; otherwise exponential
// backoff starting from the initial duration.
func (c *Client) calculateBackoff(attempt int, retryAfter *int64) time.Duration {
	if retryAfter != nil {
		d := time.Duration(*retryAfter) * time.Second
		if d > c.maxBackoff {
			return c.maxBackoff
		}
		return d
	}
	d := c.initialBackoff << uint(attempt)
	if d > c.maxBackoff || d <= 0 {
		return c.maxBackoff
	}
	return d
}

// errorFromResponse maps a terminal non-2xx response to an APIError.
func (c *Client) errorFromResponse(resp *http.Response) error {
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	message, tag, code := parseErrorBody(raw)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = "Authentication failed"
		}
		return &APIError{Kind: KindAuth, Status: resp.StatusCode, Message: message}
	case http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Status: resp.StatusCode, Resource: "resource", ID: "unknown"}
	case http.StatusTooManyRequests:
		return &APIError{Kind: KindRateLimit, Status: resp.StatusCode, RetryAfter: parseRetryAfter(resp)}
	case http.StatusBadRequest:
		if message == "" {
			message = "Bad request"
		}
		return &APIError{Kind: KindValidation, Status: resp.StatusCode, Message: message, Tag: tag, Code: code}
	default:
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Kind: KindHTTP, Status: resp.StatusCode, Message: message}
	}
}

// decodeResponse reads a 2xx body into out. A nil out discards the body.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return decodeError(err)
	}
	return nil
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// parseRetryAfter reads a numeric Retry-After header in seconds.
func parseRetryAfter(resp *http.Response) *int64 {
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return nil
	}
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil || secs < 0 {
		return nil
	}
	return &secs
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
