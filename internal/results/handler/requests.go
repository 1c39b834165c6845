package handler

import (
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
)

// CreateResultRequest is the HTTP request body for POST /results.
type CreateResultRequest struct {
	ItemID         int64  `json:"item_id"`
	Position       string `json:"position"`
	RegistrationID int64  `json:"registration_id"`

	parsedPosition domain.Position
}

func (r *CreateResultRequest) Validate() error {
	if r.ItemID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "item_id is required")
	}
	if r.RegistrationID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "registration_id is required")
	}
	position, err := domain.ParsePosition(r.Position)
	if err != nil {
		return err
	}
	r.parsedPosition = position
	return nil
}

// ParsedPosition returns the validated position.
func (r *CreateResultRequest) ParsedPosition() domain.Position { return r.parsedPosition }

// CreateGroupResultRequest is the HTTP request body for POST /group-results.
type CreateGroupResultRequest struct {
	GroupRegistrationID int64  `json:"group_registration_id"`
	Position            string `json:"position"`

	parsedPosition domain.Position
}

func (r *CreateGroupResultRequest) Validate() error {
	if r.GroupRegistrationID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "group_registration_id is required")
	}
	position, err := domain.ParsePosition(r.Position)
	if err != nil {
		return err
	}
	r.parsedPosition = position
	return nil
}

// ParsedPosition returns the validated position.
func (r *CreateGroupResultRequest) ParsedPosition() domain.Position { return r.parsedPosition }
