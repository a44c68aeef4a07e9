// Package relay forwards file-number lookups to the external record service
// and normalizes whatever it answers into a JSON array.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/starford/sikabut/internal/apperr"
)

const (
	// DefaultParam is the query parameter carrying the file number.
	DefaultParam = "nomor_berkas"
	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 15 * time.Second

	nonceParam   = "ts"
	maxBodyBytes = 4 << 20 // 4 MB

	detailTooLarge = "upstream response too large"
)

type settings struct {
	endpoint *url.URL
	timeout  time.Duration
}

// Client is a stateless relay to the upstream record service. Endpoint and
// timeout can be swapped at runtime with Reconfigure.
type Client struct {
	http   *http.Client
	param  string
	now    func() time.Time
	logger *slog.Logger

	cur atomic.Pointer[settings]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithParam overrides the upstream query parameter name.
func WithParam(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.param = name
		}
	}
}

// WithClock sets the clock used for the cache-busting nonce.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithLogger sets the logger for upstream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a relay to endpoint.
func New(endpoint string, timeout time.Duration, opts ...Option) (*Client, error) {
	c := &Client{
		http:   &http.Client{},
		param:  DefaultParam,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reconfigure(endpoint, timeout); err != nil {
		return nil, err
	}
	return c, nil
}

// Reconfigure atomically replaces the upstream endpoint and timeout.
// A non-positive timeout selects DefaultTimeout.
func (c *Client) Reconfigure(endpoint string, timeout time.Duration) error {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return fmt.Errorf("relay: parse endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("relay: endpoint must be an absolute http(s) URL: %q", endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c.cur.Store(&settings{endpoint: u, timeout: timeout})
	return nil
}

// Endpoint returns the current upstream URL.
func (c *Client) Endpoint() string {
	return c.cur.Load().endpoint.String()
}

// Timeout returns the current per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.cur.Load().timeout
}

// Lookup asks the upstream service for fileNumber.
//
// The number is trimmed; a blank number fails with apperr.ErrValidation and
// no request is made. Transport failures and non-2xx answers yield an
// *apperr.UpstreamError. Any 2xx body is normalized and never fails; the
// returned slice is never nil.
func (c *Client) Lookup(ctx context.Context, fileNumber string) ([]json.RawMessage, error) {
	fileNumber = strings.TrimSpace(fileNumber)
	if fileNumber == "" {
		return nil, fmt.Errorf("%w: file number is required", apperr.ErrValidation)
	}

	s := c.cur.Load()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(s.endpoint, fileNumber), nil)
	if err != nil {
		return nil, fmt.Errorf("relay: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			slog.String("file_number", fileNumber),
			slog.String("error", err.Error()))
		return nil, &apperr.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &apperr.UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := diagnosticText(resp.Header.Get("Content-Type"), body, resp.Status)
		c.logger.Warn("upstream returned an error",
			slog.String("file_number", fileNumber),
			slog.Int("status", resp.StatusCode),
			slog.String("detail", detail))
		return nil, &apperr.UpstreamError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if len(body) > maxBodyBytes {
		c.logger.Warn("upstream response exceeds size limit",
			slog.String("file_number", fileNumber),
			slog.Int("limit_bytes", maxBodyBytes))
		return nil, &apperr.UpstreamError{StatusCode: resp.StatusCode, Detail: detailTooLarge}
	}

	return Normalize(body), nil
}

// buildURL keeps any query of the configured endpoint (Apps Script URLs
// sometimes carry one) and adds the file number and a cache-busting nonce.
func (c *Client) buildURL(endpoint *url.URL, fileNumber string) string {
	u := *endpoint
	q := u.Query()
	q.Set(c.param, fileNumber)
	q.Set(nonceParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
