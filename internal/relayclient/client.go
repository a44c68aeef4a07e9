// Package relayclient lets the lookup UI reach the relay, either over HTTP
// or in-process.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/sikabut/internal/apperr"
	"github.com/starford/sikabut/internal/models"
	"github.com/starford/sikabut/internal/portal"
)

const (
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client calls GET <base>?nomor_berkas= on a running relay.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a Client for the relay endpoint, e.g.
// http://localhost:8080/api/proxy. A non-positive timeout uses the default.
func New(endpoint string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("relayclient: parse endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("relayclient: endpoint %q must be an absolute http(s) URL", endpoint)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

// Lookup implements portal.Fetcher.
func (c *Client) Lookup(ctx context.Context, fileNumber string) ([]models.FileRecord, error) {
	u := *c.base
	q := u.Query()
	q.Set("nomor_berkas", fileNumber)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("relayclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &apperr.UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(body, &e)
		if resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, e.Error)
		}
		detail := e.Detail
		if detail == "" {
			detail = e.Error
		}
		return nil, &apperr.UpstreamError{StatusCode: resp.StatusCode, Detail: detail}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("relayclient: decode response: %w", err)
	}
	return Decode(raw)
}

// Decode converts relay output into records. null elements are skipped.
func Decode(raw []json.RawMessage) ([]models.FileRecord, error) {
	records := make([]models.FileRecord, 0, len(raw))
	for i, r := range raw {
		if string(bytes.TrimSpace(r)) == "null" {
			continue
		}
		var rec models.FileRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, fmt.Errorf("relayclient: decode record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Relay is the in-process relay contract.
type Relay interface {
	Lookup(ctx context.Context, fileNumber string) ([]json.RawMessage, error)
}

// Local adapts an in-process relay to portal.Fetcher.
type Local struct {
	Relay Relay
}

// Lookup implements portal.Fetcher.
func (l Local) Lookup(ctx context.Context, fileNumber string) ([]models.FileRecord, error) {
	raw, err := l.Relay.Lookup(ctx, fileNumber)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

var (
	_ portal.Fetcher = (*Client)(nil)
	_ portal.Fetcher = Local{}
)
