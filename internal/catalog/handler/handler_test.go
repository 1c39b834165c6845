package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gala/internal/catalog/models"
	"gala/internal/catalog/store"
	"gala/pkg/domain"
)

type fixture struct {
	memory *store.Memory
	router http.Handler
}

func newFixture() *fixture {
	memory := store.NewMemory()
	h := New(
		memory.Events(),
		memory.Items(),
		memory.Sections(),
		memory.Participants(),
		memory.Registrations(),
		memory.GroupRegistrations(),
		slog.New(slog.DiscardHandler),
	)
	r := chi.NewRouter()
	h.Register(r)
	return &fixture{memory: memory, router: r}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func (f *fixture) seedEvent(t *testing.T) models.Event {
	t.Helper()
	event := &models.Event{Name: "Founders Day"}
	require.NoError(t, f.memory.Events().Create(context.Background(), event))
	return *event
}

func (f *fixture) seedItem(t *testing.T, eventID domain.EventID, itemType domain.ItemType, name string) models.Item {
	t.Helper()
	item := &models.Item{EventID: eventID, Type: itemType, Name: name, MinSize: 2, MaxSize: 4}
	if itemType == domain.ItemIndividual {
		item.MinSize, item.MaxSize = 0, 0
	}
	require.NoError(t, f.memory.Items().Create(context.Background(), item))
	return *item
}

func TestHandleListItems(t *testing.T) {
	t.Run("defaults to individual items", func(t *testing.T) {
		f := newFixture()
		event := f.seedEvent(t)
		solo := f.seedItem(t, event.ID, domain.ItemIndividual, "Chess")
		f.seedItem(t, event.ID, domain.ItemGroup, "Quiz")

		rec := f.do(t, http.MethodGet, fmt.Sprintf("/events/%d/items", event.ID), "")

		require.Equal(t, http.StatusOK, rec.Code)
		var items []models.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, solo.ID, items[0].ID)
	})

	t.Run("type=group filters to group items", func(t *testing.T) {
		f := newFixture()
		event := f.seedEvent(t)
		f.seedItem(t, event.ID, domain.ItemIndividual, "Chess")
		quiz := f.seedItem(t, event.ID, domain.ItemGroup, "Quiz")

		rec := f.do(t, http.MethodGet, fmt.Sprintf("/events/%d/items?type=group", event.ID), "")

		require.Equal(t, http.StatusOK, rec.Code)
		var items []models.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, quiz.ID, items[0].ID)
	})

	t.Run("unknown event responds 404", func(t *testing.T) {
		f := newFixture()
		rec := f.do(t, http.MethodGet, "/events/99/items", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad type responds 400", func(t *testing.T) {
		f := newFixture()
		event := f.seedEvent(t)
		rec := f.do(t, http.MethodGet, fmt.Sprintf("/events/%d/items?type=pair", event.ID), "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetRegistration(t *testing.T) {
	t.Run("returns the stored registration", func(t *testing.T) {
		f := newFixture()
		event := f.seedEvent(t)
		item := f.seedItem(t, event.ID, domain.ItemIndividual, "Chess")
		reg := &models.Registration{ItemID: item.ID, ParticipantID: 7}
		require.NoError(t, f.memory.Registrations().Create(context.Background(), reg))

		rec := f.do(t, http.MethodGet, fmt.Sprintf("/registrations/%d", reg.ID), "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Registration
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, reg.ID, got.ID)
		assert.Equal(t, item.ID, got.ItemID)
	})

	t.Run("missing registration responds 404", func(t *testing.T) {
		f := newFixture()
		rec := f.do(t, http.MethodGet, "/registrations/42", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleGetGroupRegistration(t *testing.T) {
	t.Run("returns members in registration order", func(t *testing.T) {
		f := newFixture()
		event := f.seedEvent(t)
		item := f.seedItem(t, event.ID, domain.ItemGroup, "Quiz")
		reg := &models.GroupRegistration{
			ItemID:         item.ID,
			ParticipantIDs: []domain.ParticipantID{3, 1, 2},
		}
		require.NoError(t, f.memory.GroupRegistrations().Create(context.Background(), reg))

		rec := f.do(t, http.MethodGet, fmt.Sprintf("/group-registrations/%d", reg.ID), "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.GroupRegistration
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, []domain.ParticipantID{3, 1, 2}, got.ParticipantIDs)
	})

	t.Run("junk id responds 400", func(t *testing.T) {
		f := newFixture()
		rec := f.do(t, http.MethodGet, "/group-registrations/abc", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleCreateRegistration(t *testing.T) {
	t.Run("rejects group items", func(t *testing.T) {
		f := newFixture()
		event := f.seedEvent(t)
		item := f.seedItem(t, event.ID, domain.ItemGroup, "Quiz")
		section := &models.Section{Name: "Civil"}
		require.NoError(t, f.memory.Sections().Create(context.Background(), section))
		participant := &models.Participant{FullName: "Asha", SectionID: section.ID}
		require.NoError(t, f.memory.Participants().Create(context.Background(), participant))

		body := fmt.Sprintf(`{"item_id":%d,"participant_id":%d}`, item.ID, participant.ID)
		rec := f.do(t, http.MethodPost, "/registrations", body)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("creates an individual registration", func(t *testing.T) {
		f := newFixture()
		event := f.seedEvent(t)
		item := f.seedItem(t, event.ID, domain.ItemIndividual, "Chess")
		section := &models.Section{Name: "Civil"}
		require.NoError(t, f.memory.Sections().Create(context.Background(), section))
		participant := &models.Participant{FullName: "Asha", SectionID: section.ID}
		require.NoError(t, f.memory.Participants().Create(context.Background(), participant))

		body := fmt.Sprintf(`{"item_id":%d,"participant_id":%d}`, item.ID, participant.ID)
		rec := f.do(t, http.MethodPost, "/registrations", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got models.Registration
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotZero(t, got.ID)
	})
}
