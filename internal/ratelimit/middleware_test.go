package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gala/pkg/requestcontext"
)

func doRequest(t *testing.T, handler http.Handler, ip string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/certificates/issue", nil)
	req = req.WithContext(requestcontext.WithClientIP(req.Context(), ip))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLimitPerIP(t *testing.T) {
	m := New(NewMemoryStore(), slog.New(slog.DiscardHandler))
	handler := m.Limit(2)(okHandler())

	rec := doRequest(t, handler, "10.0.0.1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = doRequest(t, handler, "10.0.0.1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = doRequest(t, handler, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Another client is unaffected.
	rec = doRequest(t, handler, "10.0.0.2")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWindowReset(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	m := New(store, slog.New(slog.DiscardHandler), WithWindow(time.Minute))
	handler := m.Limit(1)(okHandler())

	require.Equal(t, http.StatusOK, doRequest(t, handler, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(t, handler, "10.0.0.1").Code)

	now = now.Add(61 * time.Second)
	require.Equal(t, http.StatusOK, doRequest(t, handler, "10.0.0.1").Code)
}

func TestDisabledPassesThrough(t *testing.T) {
	m := New(NewMemoryStore(), slog.New(slog.DiscardHandler), WithDisabled(true))
	handler := m.Limit(1)(okHandler())

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, doRequest(t, handler, "10.0.0.1").Code)
	}
}

type failingStore struct{}

func (failingStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func TestStoreFailureFailsOpen(t *testing.T) {
	m := New(failingStore{}, slog.New(slog.DiscardHandler))
	handler := m.Limit(1)(okHandler())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(t, handler, "10.0.0.1").Code)
	}
}
