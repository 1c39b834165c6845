package handler

import (
	"strings"

	"gala/internal/catalog/models"
	certmodels "gala/internal/certificates/models"
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
)

// CreateEventRequest is the HTTP request body for POST /events.
type CreateEventRequest struct {
	Name        string                         `json:"name"`
	Description string                         `json:"description"`
	Templates   map[string]certmodels.Template `json:"templates"`

	parsedTemplates map[domain.AwardType]certmodels.Template
}

func (r *CreateEventRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Templates) > 0 {
		r.parsedTemplates = make(map[domain.AwardType]certmodels.Template, len(r.Templates))
		for key, tpl := range r.Templates {
			award, err := domain.ParseAwardType(key)
			if err != nil {
				return dErrors.New(dErrors.CodeValidation, "invalid template award type "+key)
			}
			r.parsedTemplates[award] = tpl
		}
	}
	return nil
}

// ToModel builds the event entity.
func (r *CreateEventRequest) ToModel() *models.Event {
	return &models.Event{Name: r.Name, Description: r.Description, Templates: r.parsedTemplates}
}

// CreateItemRequest is the HTTP request body for POST /items.
type CreateItemRequest struct {
	EventID int64              `json:"event_id"`
	Type    string             `json:"type"`
	Name    string             `json:"name"`
	Gender  string             `json:"gender"`
	Scale   models.RewardScale `json:"reward_scale"`
	MinSize int                `json:"min_size"`
	MaxSize int                `json:"max_size"`

	parsedType domain.ItemType
}

func (r *CreateItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.EventID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "event_id is required")
	}
	itemType, err := domain.ParseItemType(r.Type)
	if err != nil {
		return err
	}
	r.parsedType = itemType
	if itemType == domain.ItemGroup {
		if r.MinSize <= 0 || r.MaxSize < r.MinSize {
			return dErrors.New(dErrors.CodeValidation, "group items need valid min_size/max_size bounds")
		}
	} else if r.MinSize != 0 || r.MaxSize != 0 {
		return dErrors.New(dErrors.CodeValidation, "size bounds only apply to group items")
	}
	if r.Scale.First < 0 || r.Scale.Second < 0 || r.Scale.Third < 0 {
		return dErrors.New(dErrors.CodeValidation, "reward scale points must not be negative")
	}
	return nil
}

// ToModel builds the item entity.
func (r *CreateItemRequest) ToModel() *models.Item {
	return &models.Item{
		EventID: domain.EventID(r.EventID),
		Type:    r.parsedType,
		Name:    r.Name,
		Gender:  r.Gender,
		Scale:   r.Scale,
		MinSize: r.MinSize,
		MaxSize: r.MaxSize,
	}
}

// CreateSectionRequest is the HTTP request body for POST /sections.
type CreateSectionRequest struct {
	Name string `json:"name"`
}

func (r *CreateSectionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// CreateParticipantRequest is the HTTP request body for POST /participants.
type CreateParticipantRequest struct {
	FullName  string `json:"full_name"`
	SectionID int64  `json:"section_id"`
}

func (r *CreateParticipantRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if r.SectionID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "section_id is required")
	}
	return nil
}

// CreateRegistrationRequest is the HTTP request body for POST /registrations.
type CreateRegistrationRequest struct {
	ItemID        int64 `json:"item_id"`
	ParticipantID int64 `json:"participant_id"`
}

func (r *CreateRegistrationRequest) Validate() error {
	if r.ItemID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "item_id is required")
	}
	if r.ParticipantID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "participant_id is required")
	}
	return nil
}

// CreateGroupRegistrationRequest is the HTTP request body for
// POST /group-registrations.
type CreateGroupRegistrationRequest struct {
	ItemID         int64   `json:"item_id"`
	ParticipantIDs []int64 `json:"participant_ids"`
	SectionID      *int64  `json:"section_id"`
}

func (r *CreateGroupRegistrationRequest) Validate() error {
	if r.ItemID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "item_id is required")
	}
	if len(r.ParticipantIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "participant_ids is required")
	}
	seen := make(map[int64]bool, len(r.ParticipantIDs))
	for _, id := range r.ParticipantIDs {
		if id <= 0 {
			return dErrors.New(dErrors.CodeValidation, "participant ids must be positive")
		}
		if seen[id] {
			return dErrors.New(dErrors.CodeValidation, "participant ids must be unique")
		}
		seen[id] = true
	}
	if r.SectionID != nil && *r.SectionID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "section_id must be positive when set")
	}
	return nil
}

// ToModel builds the group registration entity.
func (r *CreateGroupRegistrationRequest) ToModel() *models.GroupRegistration {
	ids := make([]domain.ParticipantID, len(r.ParticipantIDs))
	for i, id := range r.ParticipantIDs {
		ids[i] = domain.ParticipantID(id)
	}
	reg := &models.GroupRegistration{
		ItemID:         domain.ItemID(r.ItemID),
		ParticipantIDs: ids,
	}
	if r.SectionID != nil {
		sid := domain.SectionID(*r.SectionID)
		reg.SectionID = &sid
	}
	return reg
}
