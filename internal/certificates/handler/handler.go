package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gala/internal/certificates/models"
	"gala/internal/certificates/service"
	"gala/pkg/domain"
	"gala/pkg/platform/httputil"
	"gala/pkg/requestcontext"
)

// Service defines the certificate operations the handler needs.
type Service interface {
	Issue(ctx context.Context, params service.IssueParams) (models.Certificate, bool, error)
	ListByItem(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error)
}

// Handler wires certificate endpoints to the certificates service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a certificates handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts certificate endpoints on the router. Issuance is the one
// renderer-touching endpoint, so it alone takes the rate limit middleware.
func (h *Handler) Register(r chi.Router, issueLimit func(http.Handler) http.Handler) {
	r.Group(func(gr chi.Router) {
		if issueLimit != nil {
			gr.Use(issueLimit)
		}
		gr.Post("/certificates/issue", h.HandleIssue)
	})
	r.Get("/items/{itemID}/certificates", h.HandleListByItem)
}

// HandleIssue handles POST /certificates/issue. A fresh issuance responds 201;
// an idempotent replay returns the stored certificate with 200.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueCertificateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cert, created, err := h.service.Issue(ctx, service.IssueParams{
		EventID:       domain.EventID(req.EventID),
		ItemID:        domain.ItemID(req.ItemID),
		ItemType:      req.ParsedItemType(),
		AwardType:     req.ParsedAwardType(),
		ParticipantID: domain.ParticipantID(req.ParticipantID),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "certificate issue failed",
			"request_id", requestID,
			"item_id", req.ItemID,
			"award_type", req.AwardType,
			"participant_id", req.ParticipantID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, cert)
}

// HandleListByItem handles GET /items/{itemID}/certificates. The ?type query
// selects the track (defaults to individual); ?award narrows to one award type.
func (h *Handler) HandleListByItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := domain.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	itemType, err := domain.ParseItemType(r.URL.Query().Get("type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var award *domain.AwardType
	if raw := r.URL.Query().Get("award"); raw != "" {
		parsed, err := domain.ParseAwardType(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		award = &parsed
	}

	certs, err := h.service.ListByItem(ctx, itemID, itemType, award)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, certs)
}
