// Package upstream reads holder records from the register's HTTP API
// (GET {base}/home).
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/source"
)

const (
	Name         = "http"
	recordsPath  = "/home"
	maxBodyBytes = 32 << 20
)

// Client is a source.Source over the register's HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries uint64
	backoff    func() backoff.BackOff
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout bounds each individual attempt.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient.Timeout = d
		}
	}
}

// WithMaxRetries sets how many times a retryable failure is retried.
func WithMaxRetries(n uint64) Option {
	return func(cl *Client) { cl.maxRetries = n }
}

// WithAPIKey sends key in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(cl *Client) { cl.apiKey = key }
}

// WithBackOff overrides the retry schedule, mainly for tests.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(cl *Client) {
		if f != nil {
			cl.backoff = f
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(cl *Client) {
		if now != nil {
			cl.now = now
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 2,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return Name }

// Fetch retrieves all records. A 404 from the register means it holds no
// records and yields an empty snapshot.
func (c *Client) Fetch(ctx context.Context) (*models.Snapshot, error) {
	var records []models.RawRecord
	attempt := 0
	op := func() error {
		attempt++
		recs, err := c.fetchOnce(ctx)
		if err != nil {
			if source.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		records = recs
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "record source fetch failed, retrying",
			"source", Name,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxRetries), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return source.NewSnapshot(Name, records, c.now()), nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]models.RawRecord, error) {
	resp, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return []models.RawRecord{}, nil
	}
	if err := statusError(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransport(err, "read response body")
	}
	records, err := source.DecodePayload(body)
	if err != nil {
		return nil, source.Classify(Name, err)
	}
	return records, nil
}

// Health performs the same request as Fetch without decoding; any 2xx
// status means the register is online.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.get(ctx)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return source.NewSourceError(source.ErrorProviderOutage, Name,
			fmt.Sprintf("health check returned status %d", resp.StatusCode), nil)
	}
	return nil
}

func (c *Client) get(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+recordsPath, nil)
	if err != nil {
		return nil, source.NewSourceError(source.ErrorInternal, Name, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err, "request failed")
	}
	return resp, nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code <= 299:
		return nil
	case code == http.StatusTooManyRequests:
		return source.NewSourceError(source.ErrorRateLimited, Name, "rate limited by upstream", nil)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return source.NewSourceError(source.ErrorAuthentication, Name,
			fmt.Sprintf("upstream rejected credentials (%d)", code), nil)
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return source.NewSourceError(source.ErrorTimeout, Name,
			fmt.Sprintf("upstream timed out (%d)", code), nil)
	case code >= 500:
		return source.NewSourceError(source.ErrorProviderOutage, Name,
			fmt.Sprintf("upstream error (%d)", code), nil)
	default:
		return source.NewSourceError(source.ErrorBadData, Name,
			fmt.Sprintf("unexpected status %d", code), nil)
	}
}

func classifyTransport(err error, msg string) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return source.NewSourceError(source.ErrorTimeout, Name, msg, err)
	}
	if errors.Is(err, context.Canceled) {
		return source.NewSourceError(source.ErrorInternal, Name, "request cancelled", err)
	}
	return source.NewSourceError(source.ErrorProviderOutage, Name, msg, err)
}
