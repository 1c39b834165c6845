package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gala/internal/catalog/models"
	"gala/pkg/domain"
	"gala/pkg/platform/sentinel"
)

// Postgres persists catalog entities in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed catalog store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Events returns a view satisfying EventStore.
func (p *Postgres) Events() EventStore { return (*pgEvents)(p) }

// Items returns a view satisfying ItemStore.
func (p *Postgres) Items() ItemStore { return (*pgItems)(p) }

// Sections returns a view satisfying SectionStore.
func (p *Postgres) Sections() SectionStore { return (*pgSections)(p) }

// Participants returns a view satisfying ParticipantStore.
func (p *Postgres) Participants() ParticipantStore { return (*pgParticipants)(p) }

// Registrations returns a view satisfying RegistrationStore.
func (p *Postgres) Registrations() RegistrationStore { return (*pgRegistrations)(p) }

// GroupRegistrations returns a view satisfying GroupRegistrationStore.
func (p *Postgres) GroupRegistrations() GroupRegistrationStore { return (*pgGroupRegs)(p) }

type pgEvents Postgres

func (p *pgEvents) Create(ctx context.Context, event *models.Event) error {
	templates, err := json.Marshal(event.Templates)
	if err != nil {
		return fmt.Errorf("marshal event templates: %w", err)
	}
	err = p.db.QueryRowContext(ctx,
		`INSERT INTO events (name, description, templates) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		event.Name, event.Description, templates,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (p *pgEvents) GetByID(ctx context.Context, id domain.EventID) (models.Event, error) {
	var event models.Event
	var templates []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, description, templates, created_at FROM events WHERE id = $1`, id,
	).Scan(&event.ID, &event.Name, &event.Description, &templates, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, sentinel.ErrNotFound
		}
		return models.Event{}, fmt.Errorf("find event by id: %w", err)
	}
	if len(templates) > 0 {
		if err := json.Unmarshal(templates, &event.Templates); err != nil {
			return models.Event{}, fmt.Errorf("unmarshal event templates: %w", err)
		}
	}
	return event, nil
}

func (p *pgEvents) List(ctx context.Context) ([]models.Event, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, description, templates, created_at FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var event models.Event
		var templates []byte
		if err := rows.Scan(&event.ID, &event.Name, &event.Description, &templates, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if len(templates) > 0 {
			if err := json.Unmarshal(templates, &event.Templates); err != nil {
				return nil, fmt.Errorf("unmarshal event templates: %w", err)
			}
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

type pgItems Postgres

func (p *pgItems) Create(ctx context.Context, item *models.Item) error {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO items (event_id, item_type, name, gender, points_first, points_second, points_third, min_size, max_size)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		item.EventID, item.Type, item.Name, item.Gender,
		item.Scale.First, item.Scale.Second, item.Scale.Third,
		item.MinSize, item.MaxSize,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (p *pgItems) GetByID(ctx context.Context, id domain.ItemID) (models.Item, error) {
	var item models.Item
	err := p.db.QueryRowContext(ctx,
		`SELECT id, event_id, item_type, name, gender, points_first, points_second, points_third, min_size, max_size, created_at
		 FROM items WHERE id = $1`, id,
	).Scan(&item.ID, &item.EventID, &item.Type, &item.Name, &item.Gender,
		&item.Scale.First, &item.Scale.Second, &item.Scale.Third,
		&item.MinSize, &item.MaxSize, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, sentinel.ErrNotFound
		}
		return models.Item{}, fmt.Errorf("find item by id: %w", err)
	}
	return item, nil
}

func (p *pgItems) ListByEvent(ctx context.Context, eventID domain.EventID, itemType domain.ItemType) ([]models.Item, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, event_id, item_type, name, gender, points_first, points_second, points_third, min_size, max_size, created_at
		 FROM items WHERE event_id = $1 AND item_type = $2 ORDER BY id`,
		eventID, itemType)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.EventID, &item.Type, &item.Name, &item.Gender,
			&item.Scale.First, &item.Scale.Second, &item.Scale.Third,
			&item.MinSize, &item.MaxSize, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

type pgSections Postgres

func (p *pgSections) Create(ctx context.Context, section *models.Section) error {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO sections (name) VALUES ($1) RETURNING id, created_at`,
		section.Name,
	).Scan(&section.ID, &section.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}

func (p *pgSections) GetByID(ctx context.Context, id domain.SectionID) (models.Section, error) {
	var section models.Section
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM sections WHERE id = $1`, id,
	).Scan(&section.ID, &section.Name, &section.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Section{}, sentinel.ErrNotFound
		}
		return models.Section{}, fmt.Errorf("find section by id: %w", err)
	}
	return section, nil
}

func (p *pgSections) List(ctx context.Context) ([]models.Section, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name, created_at FROM sections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var out []models.Section
	for rows.Next() {
		var section models.Section
		if err := rows.Scan(&section.ID, &section.Name, &section.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, section)
	}
	return out, rows.Err()
}

type pgParticipants Postgres

func (p *pgParticipants) Create(ctx context.Context, participant *models.Participant) error {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO participants (full_name, section_id) VALUES ($1, $2) RETURNING id, created_at`,
		participant.FullName, participant.SectionID,
	).Scan(&participant.ID, &participant.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (p *pgParticipants) GetByID(ctx context.Context, id domain.ParticipantID) (models.Participant, error) {
	var participant models.Participant
	err := p.db.QueryRowContext(ctx,
		`SELECT id, full_name, section_id, created_at FROM participants WHERE id = $1`, id,
	).Scan(&participant.ID, &participant.FullName, &participant.SectionID, &participant.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Participant{}, sentinel.ErrNotFound
		}
		return models.Participant{}, fmt.Errorf("find participant by id: %w", err)
	}
	return participant, nil
}

func (p *pgParticipants) List(ctx context.Context) ([]models.Participant, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, full_name, section_id, created_at FROM participants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		var participant models.Participant
		if err := rows.Scan(&participant.ID, &participant.FullName, &participant.SectionID, &participant.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, participant)
	}
	return out, rows.Err()
}

type pgRegistrations Postgres

func (p *pgRegistrations) Create(ctx context.Context, registration *models.Registration) error {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO registrations (item_id, participant_id) VALUES ($1, $2) RETURNING id, created_at`,
		registration.ItemID, registration.ParticipantID,
	).Scan(&registration.ID, &registration.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (p *pgRegistrations) GetByID(ctx context.Context, id domain.RegistrationID) (models.Registration, error) {
	var registration models.Registration
	err := p.db.QueryRowContext(ctx,
		`SELECT id, item_id, participant_id, created_at FROM registrations WHERE id = $1`, id,
	).Scan(&registration.ID, &registration.ItemID, &registration.ParticipantID, &registration.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Registration{}, sentinel.ErrNotFound
		}
		return models.Registration{}, fmt.Errorf("find registration by id: %w", err)
	}
	return registration, nil
}

type pgGroupRegs Postgres

func (p *pgGroupRegs) Create(ctx context.Context, registration *models.GroupRegistration) error {
	participantIDs, err := json.Marshal(registration.ParticipantIDs)
	if err != nil {
		return fmt.Errorf("marshal participant ids: %w", err)
	}
	err = p.db.QueryRowContext(ctx,
		`INSERT INTO group_registrations (item_id, participant_ids, section_id)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		registration.ItemID, participantIDs, nullableSectionID(registration.SectionID),
	).Scan(&registration.ID, &registration.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert group registration: %w", err)
	}
	return nil
}

func (p *pgGroupRegs) GetByID(ctx context.Context, id domain.GroupRegistrationID) (models.GroupRegistration, error) {
	var registration models.GroupRegistration
	var participantIDs []byte
	var sectionID sql.NullInt64
	err := p.db.QueryRowContext(ctx,
		`SELECT id, item_id, participant_ids, section_id, created_at FROM group_registrations WHERE id = $1`, id,
	).Scan(&registration.ID, &registration.ItemID, &participantIDs, &sectionID, &registration.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.GroupRegistration{}, sentinel.ErrNotFound
		}
		return models.GroupRegistration{}, fmt.Errorf("find group registration by id: %w", err)
	}
	if err := json.Unmarshal(participantIDs, &registration.ParticipantIDs); err != nil {
		return models.GroupRegistration{}, fmt.Errorf("unmarshal participant ids: %w", err)
	}
	if sectionID.Valid {
		sid := domain.SectionID(sectionID.Int64)
		registration.SectionID = &sid
	}
	return registration, nil
}

func nullableSectionID(id *domain.SectionID) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}
