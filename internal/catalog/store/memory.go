package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"gala/internal/catalog/models"
	"gala/pkg/domain"
	"gala/pkg/platform/sentinel"
)

// Memory implements every catalog store interface behind one mutex. It is the
// development default and the fake used by service tests.
type Memory struct {
	mu                 sync.RWMutex
	nextID             int64
	events             map[domain.EventID]models.Event
	items              map[domain.ItemID]models.Item
	sections           map[domain.SectionID]models.Section
	participants       map[domain.ParticipantID]models.Participant
	registrations      map[domain.RegistrationID]models.Registration
	groupRegistrations map[domain.GroupRegistrationID]models.GroupRegistration
}

// NewMemory constructs an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		events:             make(map[domain.EventID]models.Event),
		items:              make(map[domain.ItemID]models.Item),
		sections:           make(map[domain.SectionID]models.Section),
		participants:       make(map[domain.ParticipantID]models.Participant),
		registrations:      make(map[domain.RegistrationID]models.Registration),
		groupRegistrations: make(map[domain.GroupRegistrationID]models.GroupRegistration),
	}
}

func (m *Memory) nextSeq() int64 {
	m.nextID++
	return m.nextID
}

// Events returns a view satisfying EventStore.
func (m *Memory) Events() EventStore { return (*memoryEvents)(m) }

// Items returns a view satisfying ItemStore.
func (m *Memory) Items() ItemStore { return (*memoryItems)(m) }

// Sections returns a view satisfying SectionStore.
func (m *Memory) Sections() SectionStore { return (*memorySections)(m) }

// Participants returns a view satisfying ParticipantStore.
func (m *Memory) Participants() ParticipantStore { return (*memoryParticipants)(m) }

// Registrations returns a view satisfying RegistrationStore.
func (m *Memory) Registrations() RegistrationStore { return (*memoryRegistrations)(m) }

// GroupRegistrations returns a view satisfying GroupRegistrationStore.
func (m *Memory) GroupRegistrations() GroupRegistrationStore { return (*memoryGroupRegs)(m) }

type memoryEvents Memory

func (m *memoryEvents) Create(ctx context.Context, event *models.Event) error {
	mm := (*Memory)(m)
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if event.ID.IsNil() {
		event.ID = domain.EventID(mm.nextSeq())
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	mm.events[event.ID] = *event
	return nil
}

func (m *memoryEvents) GetByID(ctx context.Context, id domain.EventID) (models.Event, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	event, ok := mm.events[id]
	if !ok {
		return models.Event{}, sentinel.ErrNotFound
	}
	return event, nil
}

func (m *memoryEvents) List(ctx context.Context) ([]models.Event, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	out := make([]models.Event, 0, len(mm.events))
	for _, e := range mm.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryItems Memory

func (m *memoryItems) Create(ctx context.Context, item *models.Item) error {
	mm := (*Memory)(m)
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if item.ID.IsNil() {
		item.ID = domain.ItemID(mm.nextSeq())
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	mm.items[item.ID] = *item
	return nil
}

func (m *memoryItems) GetByID(ctx context.Context, id domain.ItemID) (models.Item, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	item, ok := mm.items[id]
	if !ok {
		return models.Item{}, sentinel.ErrNotFound
	}
	return item, nil
}

func (m *memoryItems) ListByEvent(ctx context.Context, eventID domain.EventID, itemType domain.ItemType) ([]models.Item, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	var out []models.Item
	for _, item := range mm.items {
		if item.EventID == eventID && item.Type == itemType {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memorySections Memory

func (m *memorySections) Create(ctx context.Context, section *models.Section) error {
	mm := (*Memory)(m)
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if section.ID.IsNil() {
		section.ID = domain.SectionID(mm.nextSeq())
	}
	if section.CreatedAt.IsZero() {
		section.CreatedAt = time.Now()
	}
	mm.sections[section.ID] = *section
	return nil
}

func (m *memorySections) GetByID(ctx context.Context, id domain.SectionID) (models.Section, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	section, ok := mm.sections[id]
	if !ok {
		return models.Section{}, sentinel.ErrNotFound
	}
	return section, nil
}

func (m *memorySections) List(ctx context.Context) ([]models.Section, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	out := make([]models.Section, 0, len(mm.sections))
	for _, s := range mm.sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryParticipants Memory

func (m *memoryParticipants) Create(ctx context.Context, participant *models.Participant) error {
	mm := (*Memory)(m)
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if participant.ID.IsNil() {
		participant.ID = domain.ParticipantID(mm.nextSeq())
	}
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = time.Now()
	}
	mm.participants[participant.ID] = *participant
	return nil
}

func (m *memoryParticipants) GetByID(ctx context.Context, id domain.ParticipantID) (models.Participant, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	participant, ok := mm.participants[id]
	if !ok {
		return models.Participant{}, sentinel.ErrNotFound
	}
	return participant, nil
}

func (m *memoryParticipants) List(ctx context.Context) ([]models.Participant, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	out := make([]models.Participant, 0, len(mm.participants))
	for _, p := range mm.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryRegistrations Memory

func (m *memoryRegistrations) Create(ctx context.Context, registration *models.Registration) error {
	mm := (*Memory)(m)
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if registration.ID.IsNil() {
		registration.ID = domain.RegistrationID(mm.nextSeq())
	}
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = time.Now()
	}
	mm.registrations[registration.ID] = *registration
	return nil
}

func (m *memoryRegistrations) GetByID(ctx context.Context, id domain.RegistrationID) (models.Registration, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	registration, ok := mm.registrations[id]
	if !ok {
		return models.Registration{}, sentinel.ErrNotFound
	}
	return registration, nil
}

type memoryGroupRegs Memory

func (m *memoryGroupRegs) Create(ctx context.Context, registration *models.GroupRegistration) error {
	mm := (*Memory)(m)
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if registration.ID.IsNil() {
		registration.ID = domain.GroupRegistrationID(mm.nextSeq())
	}
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = time.Now()
	}
	mm.groupRegistrations[registration.ID] = *registration
	return nil
}

func (m *memoryGroupRegs) GetByID(ctx context.Context, id domain.GroupRegistrationID) (models.GroupRegistration, error) {
	mm := (*Memory)(m)
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	registration, ok := mm.groupRegistrations[id]
	if !ok {
		return models.GroupRegistration{}, sentinel.ErrNotFound
	}
	return registration, nil
}
