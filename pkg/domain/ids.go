package domain

import (
	"strconv"

	dErrors "gala/pkg/domain-errors"
)

// Numeric entity identifiers. Typed so a section id can never be passed where
// an item id is expected.
type (
	EventID             int64
	ItemID              int64
	SectionID           int64
	ParticipantID       int64
	RegistrationID      int64
	GroupRegistrationID int64
	ResultID            int64
)

func (id EventID) IsNil() bool             { return id == 0 }
func (id ItemID) IsNil() bool              { return id == 0 }
func (id SectionID) IsNil() bool           { return id == 0 }
func (id ParticipantID) IsNil() bool       { return id == 0 }
func (id RegistrationID) IsNil() bool      { return id == 0 }
func (id GroupRegistrationID) IsNil() bool { return id == 0 }
func (id ResultID) IsNil() bool            { return id == 0 }

func parseID(s, what string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	return n, nil
}

// ParseEventID parses a path or query parameter into an EventID.
func ParseEventID(s string) (EventID, error) {
	n, err := parseID(s, "event id")
	return EventID(n), err
}

// ParseItemID parses a path or query parameter into an ItemID.
func ParseItemID(s string) (ItemID, error) {
	n, err := parseID(s, "item id")
	return ItemID(n), err
}

// ParseRegistrationID parses a path or query parameter into a RegistrationID.
func ParseRegistrationID(s string) (RegistrationID, error) {
	n, err := parseID(s, "registration id")
	return RegistrationID(n), err
}

// ParseGroupRegistrationID parses a path or query parameter into a
// GroupRegistrationID.
func ParseGroupRegistrationID(s string) (GroupRegistrationID, error) {
	n, err := parseID(s, "group registration id")
	return GroupRegistrationID(n), err
}

// ParseResultID parses a path or query parameter into a ResultID.
func ParseResultID(s string) (ResultID, error) {
	n, err := parseID(s, "result id")
	return ResultID(n), err
}
