// Package handler exposes the catalog CRUD endpoints. These are thin
// data-access wrappers: referential checks and persistence, no business
// logic.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gala/internal/catalog/models"
	"gala/internal/catalog/store"
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
	"gala/pkg/platform/httputil"
	"gala/pkg/platform/sentinel"
	"gala/pkg/requestcontext"
)

// Handler wires catalog endpoints to the stores.
type Handler struct {
	events             store.EventStore
	items              store.ItemStore
	sections           store.SectionStore
	participants       store.ParticipantStore
	registrations      store.RegistrationStore
	groupRegistrations store.GroupRegistrationStore
	logger             *slog.Logger
}

// New constructs a catalog handler.
func New(
	events store.EventStore,
	items store.ItemStore,
	sections store.SectionStore,
	participants store.ParticipantStore,
	registrations store.RegistrationStore,
	groupRegistrations store.GroupRegistrationStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		events:             events,
		items:              items,
		sections:           sections,
		participants:       participants,
		registrations:      registrations,
		groupRegistrations: groupRegistrations,
		logger:             logger,
	}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events", h.HandleCreateEvent)
	r.Get("/events", h.HandleListEvents)
	r.Get("/events/{eventID}", h.HandleGetEvent)
	r.Get("/events/{eventID}/items", h.HandleListItems)
	r.Post("/items", h.HandleCreateItem)
	r.Get("/items/{itemID}", h.HandleGetItem)
	r.Post("/sections", h.HandleCreateSection)
	r.Get("/sections", h.HandleListSections)
	r.Post("/participants", h.HandleCreateParticipant)
	r.Get("/participants", h.HandleListParticipants)
	r.Post("/registrations", h.HandleCreateRegistration)
	r.Get("/registrations/{registrationID}", h.HandleGetRegistration)
	r.Post("/group-registrations", h.HandleCreateGroupRegistration)
	r.Get("/group-registrations/{registrationID}", h.HandleGetGroupRegistration)
}

func (h *Handler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateEventRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	event := req.ToModel()
	if err := h.events.Create(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "event create failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create event"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, err := domain.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	event, err := h.events.GetByID(ctx, eventID)
	if err != nil {
		httputil.WriteError(w, h.translate(err, "event not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateItemRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if _, err := h.events.GetByID(ctx, domain.EventID(req.EventID)); err != nil {
		httputil.WriteError(w, h.translate(err, "event not found"))
		return
	}
	item := req.ToModel()
	if err := h.items.Create(ctx, item); err != nil {
		h.logger.ErrorContext(ctx, "item create failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create item"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID, err := domain.ParseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	item, err := h.items.GetByID(ctx, itemID)
	if err != nil {
		httputil.WriteError(w, h.translate(err, "item not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, err := domain.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	itemType, err := domain.ParseItemType(r.URL.Query().Get("type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if _, err := h.events.GetByID(ctx, eventID); err != nil {
		httputil.WriteError(w, h.translate(err, "event not found"))
		return
	}
	items, err := h.items.ListByEvent(ctx, eventID, itemType)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list items"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleCreateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateSectionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	section := &models.Section{Name: req.Name}
	if err := h.sections.Create(ctx, section); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create section"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, section)
}

func (h *Handler) HandleListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.sections.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sections"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sections)
}

func (h *Handler) HandleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateParticipantRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if _, err := h.sections.GetByID(ctx, domain.SectionID(req.SectionID)); err != nil {
		httputil.WriteError(w, h.translate(err, "section not found"))
		return
	}
	participant := &models.Participant{
		FullName:  req.FullName,
		SectionID: domain.SectionID(req.SectionID),
	}
	if err := h.participants.Create(ctx, participant); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create participant"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, participant)
}

func (h *Handler) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participants.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list participants"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, participants)
}

func (h *Handler) HandleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateRegistrationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	item, err := h.items.GetByID(ctx, domain.ItemID(req.ItemID))
	if err != nil {
		httputil.WriteError(w, h.translate(err, "item not found"))
		return
	}
	if item.Type != domain.ItemIndividual {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "registrations bind to individual items"))
		return
	}
	if _, err := h.participants.GetByID(ctx, domain.ParticipantID(req.ParticipantID)); err != nil {
		httputil.WriteError(w, h.translate(err, "participant not found"))
		return
	}
	registration := &models.Registration{
		ItemID:        domain.ItemID(req.ItemID),
		ParticipantID: domain.ParticipantID(req.ParticipantID),
	}
	if err := h.registrations.Create(ctx, registration); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registration"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, registration)
}

func (h *Handler) HandleGetRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registrationID, err := domain.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	registration, err := h.registrations.GetByID(ctx, registrationID)
	if err != nil {
		httputil.WriteError(w, h.translate(err, "registration not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, registration)
}

func (h *Handler) HandleCreateGroupRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateGroupRegistrationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	item, err := h.items.GetByID(ctx, domain.ItemID(req.ItemID))
	if err != nil {
		httputil.WriteError(w, h.translate(err, "item not found"))
		return
	}
	if item.Type != domain.ItemGroup {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "group registrations bind to group items"))
		return
	}
	if len(req.ParticipantIDs) < item.MinSize || len(req.ParticipantIDs) > item.MaxSize {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "participant count outside the item's size bounds"))
		return
	}
	if req.SectionID != nil {
		if _, err := h.sections.GetByID(ctx, domain.SectionID(*req.SectionID)); err != nil {
			httputil.WriteError(w, h.translate(err, "section not found"))
			return
		}
	}
	registration := req.ToModel()
	if err := h.groupRegistrations.Create(ctx, registration); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create group registration"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, registration)
}

func (h *Handler) HandleGetGroupRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registrationID, err := domain.ParseGroupRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	registration, err := h.groupRegistrations.GetByID(ctx, registrationID)
	if err != nil {
		httputil.WriteError(w, h.translate(err, "group registration not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, registration)
}

func (h *Handler) translate(err error, notFoundMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "catalog lookup failed")
}
