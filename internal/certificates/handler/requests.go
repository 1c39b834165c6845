package handler

import (
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
)

// IssueCertificateRequest is the HTTP request body for POST /certificates/issue.
type IssueCertificateRequest struct {
	EventID       int64  `json:"event_id"`
	ItemID        int64  `json:"item_id"`
	ItemType      string `json:"item_type"`
	AwardType     string `json:"award_type"`
	ParticipantID int64  `json:"participant_id"`

	parsedItemType  domain.ItemType
	parsedAwardType domain.AwardType
}

func (r *IssueCertificateRequest) Validate() error {
	if r.EventID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "event_id is required")
	}
	if r.ItemID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "item_id is required")
	}
	if r.ParticipantID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "participant_id is required")
	}
	itemType, err := domain.ParseItemType(r.ItemType)
	if err != nil {
		return err
	}
	awardType, err := domain.ParseAwardType(r.AwardType)
	if err != nil {
		return err
	}
	r.parsedItemType = itemType
	r.parsedAwardType = awardType
	return nil
}

// ParsedItemType returns the validated item type.
func (r *IssueCertificateRequest) ParsedItemType() domain.ItemType { return r.parsedItemType }

// ParsedAwardType returns the validated award type.
func (r *IssueCertificateRequest) ParsedAwardType() domain.AwardType { return r.parsedAwardType }
