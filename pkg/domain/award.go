package domain

import dErrors "gala/pkg/domain-errors"

// AwardType is the category of a result or certificate.
// Invariant: the value must be one of the supported award types.
//
// Usage: construct via ParseAwardType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type AwardType string

const (
	AwardParticipation AwardType = "participation"
	AwardFirst         AwardType = "first"
	AwardSecond        AwardType = "second"
	AwardThird         AwardType = "third"
)

var validAwardTypes = map[AwardType]bool{
	AwardParticipation: true,
	AwardFirst:         true,
	AwardSecond:        true,
	AwardThird:         true,
}

// ParseAwardType constructs an AwardType from external input.
func ParseAwardType(s string) (AwardType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "award type is required")
	}
	a := AwardType(s)
	if !validAwardTypes[a] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid award type")
	}
	return a, nil
}

func (a AwardType) String() string { return string(a) }

// IsPlacement reports whether the award corresponds to a podium position.
func (a AwardType) IsPlacement() bool {
	return a == AwardFirst || a == AwardSecond || a == AwardThird
}

// Position is a podium position of a recorded result. It is the placement
// subset of AwardType: participation is not a position.
type Position string

const (
	PositionFirst  Position = "first"
	PositionSecond Position = "second"
	PositionThird  Position = "third"
)

var validPositions = map[Position]bool{
	PositionFirst:  true,
	PositionSecond: true,
	PositionThird:  true,
}

// ParsePosition constructs a Position from external input.
func ParsePosition(s string) (Position, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "position is required")
	}
	p := Position(s)
	if !validPositions[p] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid position")
	}
	return p, nil
}

func (p Position) String() string { return string(p) }

// Award returns the award type a position corresponds to.
func (p Position) Award() AwardType { return AwardType(p) }
