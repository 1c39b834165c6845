package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gala/pkg/platform/httputil"
	"gala/pkg/requestcontext"
)

// Middleware enforces a per-client-IP fixed-window limit. Counter store
// failures fail open: a broken Redis must not take issuance down with it.
type Middleware struct {
	store    CounterStore
	logger   *slog.Logger
	window   time.Duration
	disabled bool
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) { m.disabled = disabled }
}

// WithWindow overrides the default one-minute window.
func WithWindow(window time.Duration) Option {
	return func(m *Middleware) {
		if window > 0 {
			m.window = window
		}
	}
}

// New constructs the rate limit middleware.
func New(store CounterStore, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{store: store, logger: logger, window: time.Minute}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit returns middleware allowing at most perMinute requests per client IP.
func (m *Middleware) Limit(perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled || perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			count, err := m.store.Incr(ctx, "ratelimit:issue:"+ip, m.window)
			if err != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(perMinute) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(perMinute) {
				writeLimitExceeded(w, m.window)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeLimitExceeded(w http.ResponseWriter, window time.Duration) {
	retryAfter := int(window.Seconds())
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     fmt.Sprintf("Too many requests from this IP address. Please try again in %d seconds.", retryAfter),
		"retry_after": retryAfter,
	})
}
