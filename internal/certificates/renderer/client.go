// Package renderer dispatches signed certificate tokens to the external
// rendering service. The call is synchronous and at-most-once: no retries
// live here, and any failure must leave no trace locally.
package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"gala/internal/platform/config"
	dErrors "gala/pkg/domain-errors"
	"gala/pkg/platform/circuit"
)

// upstreamMessage is the outward message for every dispatch failure. It stays
// generic so signing internals never leak to callers.
const upstreamMessage = "certificate rendering failed"

type generateRequest struct {
	Data string `json:"data"`
}

type generateResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Client talks to the rendering service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *circuit.Breaker
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBreaker guards the upstream with a circuit breaker.
func WithBreaker(breaker *circuit.Breaker) Option {
	return func(c *Client) { c.breaker = breaker }
}

// WithHTTPClient overrides the HTTP client, used by tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New constructs a renderer client with the configured timeout bounding the
// one network round trip of the issuance pipeline.
func New(cfg config.Renderer, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render submits the signed token. Success requires a 2xx response whose id
// matches the certificate id embedded in the token; anything else is an
// upstream failure.
func (c *Client) Render(ctx context.Context, token string, certID string) error {
	if c.breaker != nil && c.breaker.IsOpen() {
		return dErrors.New(dErrors.CodeUpstreamFailure, upstreamMessage)
	}

	body, err := json.Marshal(generateRequest{Data: token})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode render request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/generate-cert", bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build render request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(ctx, fmt.Errorf("render call: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, fmt.Errorf("render call: unexpected status %d", resp.StatusCode))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return c.fail(ctx, fmt.Errorf("render call: decode response: %w", err))
	}
	if out.ID != certID {
		return c.fail(ctx, fmt.Errorf("render call: renderer confirmed id %q, want %q", out.ID, certID))
	}

	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
	return nil
}

func (c *Client) fail(ctx context.Context, err error) error {
	if c.breaker != nil {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "renderer circuit opened", "breaker", c.breaker.Name())
		}
	}
	c.logger.ErrorContext(ctx, "renderer dispatch failed", "error", err)
	return dErrors.Wrap(err, dErrors.CodeUpstreamFailure, upstreamMessage)
}
