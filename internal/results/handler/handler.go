package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gala/internal/results/models"
	"gala/pkg/domain"
	"gala/pkg/platform/httputil"
	"gala/pkg/requestcontext"
)

// Service defines the result operations the handler needs.
type Service interface {
	CreateResult(ctx context.Context, itemID domain.ItemID, position domain.Position, registrationID domain.RegistrationID) (models.Result, error)
	CreateGroupResult(ctx context.Context, groupRegistrationID domain.GroupRegistrationID, position domain.Position) (models.Result, error)
	DeleteResult(ctx context.Context, id domain.ResultID, itemType domain.ItemType) error
	SectionLeaderboard(ctx context.Context, eventID domain.EventID) ([]models.SectionStanding, error)
	GlobalLeaderboard(ctx context.Context) ([]models.ParticipantStanding, error)
}

// Handler wires result endpoints to the results service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a results handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts result endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/results", h.HandleCreateResult)
	r.Post("/group-results", h.HandleCreateGroupResult)
	r.Delete("/results/{resultID}", h.HandleDeleteResult)
	r.Get("/events/{eventID}/leaderboard", h.HandleSectionLeaderboard)
	r.Get("/leaderboard/participants", h.HandleGlobalLeaderboard)
}

// HandleCreateResult handles POST /results.
func (h *Handler) HandleCreateResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateResultRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CreateResult(ctx,
		domain.ItemID(req.ItemID), req.ParsedPosition(), domain.RegistrationID(req.RegistrationID))
	if err != nil {
		h.logger.ErrorContext(ctx, "result create failed",
			"request_id", requestID,
			"item_id", req.ItemID,
			"position", req.Position,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleCreateGroupResult handles POST /group-results.
func (h *Handler) HandleCreateGroupResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateGroupResultRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CreateGroupResult(ctx,
		domain.GroupRegistrationID(req.GroupRegistrationID), req.ParsedPosition())
	if err != nil {
		h.logger.ErrorContext(ctx, "group result create failed",
			"request_id", requestID,
			"group_registration_id", req.GroupRegistrationID,
			"position", req.Position,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleDeleteResult handles DELETE /results/{resultID}. The ?type query
// selects the track; it defaults to individual.
func (h *Handler) HandleDeleteResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resultID, err := domain.ParseResultID(chi.URLParam(r, "resultID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	itemType, err := domain.ParseItemType(r.URL.Query().Get("type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteResult(ctx, resultID, itemType); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSectionLeaderboard handles GET /events/{eventID}/leaderboard.
func (h *Handler) HandleSectionLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := domain.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	standings, err := h.service.SectionLeaderboard(ctx, eventID)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard compute failed", "event_id", eventID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, standings)
}

// HandleGlobalLeaderboard handles GET /leaderboard/participants.
func (h *Handler) HandleGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.GlobalLeaderboard(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, standings)
}
