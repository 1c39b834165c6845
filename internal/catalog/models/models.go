// Package models holds the catalog entities: events, items, participants,
// sections, and registrations. These are the collaborator surfaces the
// results and certificates modules read from; handlers for them are simple
// data-access wrappers.
package models

import (
	"time"

	certmodels "gala/internal/certificates/models"
	"gala/pkg/domain"
)

// RewardScale is an item's configured point values per podium position.
type RewardScale struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
}

// Points returns the configured points for a position.
func (s RewardScale) Points(p domain.Position) int {
	switch p {
	case domain.PositionFirst:
		return s.First
	case domain.PositionSecond:
		return s.Second
	case domain.PositionThird:
		return s.Third
	}
	return 0
}

// Event is a competition event. Templates maps an award type to the
// certificate layout configured for it; absence of a key means certificates
// of that award type cannot be issued yet.
type Event struct {
	ID          domain.EventID                            `json:"id"`
	Name        string                                    `json:"name"`
	Description string                                    `json:"description,omitempty"`
	Templates   map[domain.AwardType]certmodels.Template  `json:"templates,omitempty"`
	CreatedAt   time.Time                                 `json:"created_at"`
}

// Item is a competition entry, individual or group. Type is the discriminant;
// MinSize/MaxSize bound group participant counts and stay zero for
// individual items.
type Item struct {
	ID        domain.ItemID   `json:"id"`
	EventID   domain.EventID  `json:"event_id"`
	Type      domain.ItemType `json:"type"`
	Name      string          `json:"name"`
	Gender    string          `json:"gender,omitempty"`
	Scale     RewardScale     `json:"reward_scale"`
	MinSize   int             `json:"min_size,omitempty"`
	MaxSize   int             `json:"max_size,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Section is the organizational unit of leaderboard aggregation.
type Section struct {
	ID        domain.SectionID `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
}

// Participant belongs to exactly one section.
type Participant struct {
	ID        domain.ParticipantID `json:"id"`
	FullName  string               `json:"full_name"`
	SectionID domain.SectionID     `json:"section_id"`
	CreatedAt time.Time            `json:"created_at"`
}

// Registration binds one participant to an individual item.
type Registration struct {
	ID            domain.RegistrationID `json:"id"`
	ItemID        domain.ItemID         `json:"item_id"`
	ParticipantID domain.ParticipantID  `json:"participant_id"`
	CreatedAt     time.Time             `json:"created_at"`
}

// GroupRegistration binds an ordered list of participants to a group item,
// optionally owned by a section. Registrations without a section do not
// contribute to the section leaderboard.
type GroupRegistration struct {
	ID             domain.GroupRegistrationID `json:"id"`
	ItemID         domain.ItemID              `json:"item_id"`
	ParticipantIDs []domain.ParticipantID     `json:"participant_ids"`
	SectionID      *domain.SectionID          `json:"section_id,omitempty"`
	CreatedAt      time.Time                  `json:"created_at"`
}
