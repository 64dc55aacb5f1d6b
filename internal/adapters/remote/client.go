// Package remote reads the forgotten-item log and taxonomy from the remote
// REST service.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/pkg/logger"
)

// maxBodyBytes caps a single response body.
const maxBodyBytes = 16 << 20

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client. Its timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client fetches remote events and taxonomy over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 3 * time.Second},
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchEvents performs GET {base}/events. Records that cannot be decoded
// as objects are skipped with a warning.
func (c *Client) FetchEvents(ctx context.Context) ([]model.RawEvent, error) {
	var items []json.RawMessage
	if err := c.get(ctx, "/events", &items); err != nil {
		return nil, err
	}
	out := make([]model.RawEvent, 0, len(items))
	for i, item := range items {
		var ev model.RemoteEvent
		if err := json.Unmarshal(item, &ev); err != nil {
			c.logger.Warn(ctx, "skipping undecodable remote event", logger.Int("index", i), logger.Error(err))
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// FetchTaxonomy performs GET {base}/taxonomy.
func (c *Client) FetchTaxonomy(ctx context.Context) (model.Taxonomy, error) {
	var t model.Taxonomy
	if err := c.get(ctx, "/taxonomy", &t); err != nil {
		return model.Taxonomy{}, err
	}
	return t, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrUnavailable, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%w: GET %s: status %d", ErrUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrUnavailable, path, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedPayload, path, err)
	}
	return nil
}
