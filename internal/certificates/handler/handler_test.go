package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gala/internal/certificates/models"
	"gala/internal/certificates/service"
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
)

type stubService struct {
	issue      func(ctx context.Context, params service.IssueParams) (models.Certificate, bool, error)
	listByItem func(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error)
}

func (s *stubService) Issue(ctx context.Context, params service.IssueParams) (models.Certificate, bool, error) {
	return s.issue(ctx, params)
}

func (s *stubService) ListByItem(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error) {
	return s.listByItem(ctx, itemID, itemType, award)
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r, nil)
	return r
}

const issueBody = `{"event_id":1,"item_id":10,"item_type":"individual","award_type":"participation","participant_id":7}`

func TestHandleIssue(t *testing.T) {
	t.Run("fresh issuance responds 201", func(t *testing.T) {
		svc := &stubService{
			issue: func(ctx context.Context, params service.IssueParams) (models.Certificate, bool, error) {
				assert.Equal(t, domain.EventID(1), params.EventID)
				assert.Equal(t, domain.AwardParticipation, params.AwardType)
				return models.Certificate{Key: "cert-123", ItemID: params.ItemID}, true, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/certificates/issue", strings.NewReader(issueBody))
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var cert models.Certificate
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cert))
		assert.Equal(t, "cert-123", cert.Key)
	})

	t.Run("idempotent replay responds 200", func(t *testing.T) {
		svc := &stubService{
			issue: func(ctx context.Context, params service.IssueParams) (models.Certificate, bool, error) {
				return models.Certificate{Key: "cert-123"}, false, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/certificates/issue", strings.NewReader(issueBody))
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing template maps to 404 with its own code", func(t *testing.T) {
		svc := &stubService{
			issue: func(ctx context.Context, params service.IssueParams) (models.Certificate, bool, error) {
				return models.Certificate{}, false, dErrors.New(dErrors.CodeTemplateMissing, "event has no participation certificate template configured")
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/certificates/issue", strings.NewReader(issueBody))
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "template_missing", body["error"])
	})

	t.Run("upstream failure responds 502 without details", func(t *testing.T) {
		svc := &stubService{
			issue: func(ctx context.Context, params service.IssueParams) (models.Certificate, bool, error) {
				return models.Certificate{}, false, dErrors.New(dErrors.CodeUpstreamFailure, "certificate rendering failed")
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/certificates/issue", strings.NewReader(issueBody))
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotContains(t, body, "error_description")
	})

	t.Run("rejects an unknown award type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/certificates/issue",
			strings.NewReader(`{"event_id":1,"item_id":10,"award_type":"gold","participant_id":7}`))
		newRouter(&stubService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleListByItem(t *testing.T) {
	t.Run("passes item, track and award filter through", func(t *testing.T) {
		svc := &stubService{
			listByItem: func(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error) {
				assert.Equal(t, domain.ItemID(10), itemID)
				assert.Equal(t, domain.ItemGroup, itemType)
				require.NotNil(t, award)
				assert.Equal(t, domain.AwardFirst, *award)
				return []models.Certificate{{Key: "cert-123"}}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/items/10/certificates?type=group&award=first", nil)
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var certs []models.Certificate
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &certs))
		require.Len(t, certs, 1)
	})

	t.Run("omitting the award lists everything", func(t *testing.T) {
		svc := &stubService{
			listByItem: func(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error) {
				assert.Nil(t, award)
				assert.Equal(t, domain.ItemIndividual, itemType)
				return nil, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/items/10/certificates", nil)
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
