// Package client talks to the remote events API. Every method is a single
// request: no retry, no caching, no dedupe.
package client

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

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultMaxBodyBytes = 10 * 1024 * 1024

// TokenSource yields the bearer token for the next request. It is consulted
// on every call.
type TokenSource interface {
	Token(ctx context.Context) string
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	maxBodyBytes   int64
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	images         ImageOptions
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUnauthorizedHandler is called once for every 401 response, before the
// error is returned.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithImageOptions(opts ImageOptions) Option {
	return func(c *Client) { c.images = opts }
}

func New(cfg *config.APIConfig, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		tokens:       tokens,
		images:       DefaultImageOptions(),
	}
	if c.maxBodyBytes <= 0 {
		c.maxBodyBytes = defaultMaxBodyBytes
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = 30 * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	return c.do(ctx, request{method: method, path: path, body: body, contentType: "application/json"}, out)
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if r.contentType != "" && r.body != nil {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return remoteError(0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return remoteError(resp.StatusCode, "failed to read response", err)
	}

	logrus.WithFields(logrus.Fields{
		"method":     r.method,
		"path":       r.path,
		"request_id": requestID,
		"status":     resp.StatusCode,
		"duration":   time.Since(start),
	}).Debug("API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, body)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return remoteError(resp.StatusCode, "failed to parse response", err)
	}
	return nil
}

func escape(id entity.ID) string {
	return url.PathEscape(id.String())
}

func requireID(ids ...entity.ID) error {
	for _, id := range ids {
		if id.IsZero() {
			return entity.ErrEmptyID
		}
	}
	return nil
}
