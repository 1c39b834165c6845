// Package store persists catalog entities. Stores are interface-driven so
// the results and certificates modules stay testable against the in-memory
// implementation while production runs on PostgreSQL.
package store

import (
	"context"

	"gala/internal/catalog/models"
	"gala/pkg/domain"
)

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id domain.EventID) (models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
}

type ItemStore interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id domain.ItemID) (models.Item, error)
	ListByEvent(ctx context.Context, eventID domain.EventID, itemType domain.ItemType) ([]models.Item, error)
}

type SectionStore interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id domain.SectionID) (models.Section, error)
	List(ctx context.Context) ([]models.Section, error)
}

type ParticipantStore interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, id domain.ParticipantID) (models.Participant, error)
	List(ctx context.Context) ([]models.Participant, error)
}

type RegistrationStore interface {
	Create(ctx context.Context, registration *models.Registration) error
	GetByID(ctx context.Context, id domain.RegistrationID) (models.Registration, error)
}

type GroupRegistrationStore interface {
	Create(ctx context.Context, registration *models.GroupRegistration) error
	GetByID(ctx context.Context, id domain.GroupRegistrationID) (models.GroupRegistration, error)
}
