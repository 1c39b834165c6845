// Package httptransport assembles the HTTP router. It owns the middleware
// chain and route layout; all behavior lives in the module handlers.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cataloghandler "gala/internal/catalog/handler"
	certhandler "gala/internal/certificates/handler"
	resulthandler "gala/internal/results/handler"
	"gala/pkg/platform/httputil"
)

// HealthChecker reports whether one backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Catalog      *cataloghandler.Handler
	Results      *resulthandler.Handler
	Certificates *certhandler.Handler
	IssueLimit   func(http.Handler) http.Handler

	// HealthChecks maps a dependency name to its probe. Nil probes are skipped.
	HealthChecks map[string]HealthChecker
}

// NewRouter wires all public endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestMetadata)

	r.Get("/healthz", handleHealth(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Catalog.Register(r)
	deps.Results.Register(r)
	deps.Certificates.Register(r, deps.IssueLimit)
	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = "unreachable"
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
