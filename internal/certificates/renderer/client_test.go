package renderer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gala/internal/platform/config"
	dErrors "gala/pkg/domain-errors"
	"gala/pkg/platform/circuit"
)

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	cfg := config.Renderer{BaseURL: url, Timeout: 2 * time.Second}
	return New(cfg, slog.New(slog.DiscardHandler), opts...)
}

func TestRenderSuccess(t *testing.T) {
	var gotMethod, gotPath, gotData string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotData = body.Data

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(generateResponse{Message: "ok", ID: "cert-123"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Render(context.Background(), "signed-token", "cert-123")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/generate-cert", gotPath)
	assert.Equal(t, "signed-token", gotData)
}

func TestRenderIDMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Message: "ok", ID: "someone-else"})
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).Render(context.Background(), "signed-token", "cert-123")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamFailure))
}

func TestRenderNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).Render(context.Background(), "signed-token", "cert-123")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamFailure))
}

func TestRenderTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	err := newTestClient(t, server.URL).Render(context.Background(), "signed-token", "cert-123")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamFailure))
}

func TestRenderBreaker(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	breaker := circuit.New("renderer", circuit.WithFailureThreshold(2))
	client := newTestClient(t, server.URL, WithBreaker(breaker))

	for i := 0; i < 2; i++ {
		err := client.Render(context.Background(), "signed-token", "cert-123")
		require.Error(t, err)
	}
	require.True(t, breaker.IsOpen())

	// Open circuit fails fast without reaching the upstream.
	err := client.Render(context.Background(), "signed-token", "cert-123")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamFailure))
	assert.Equal(t, 2, calls)
}
