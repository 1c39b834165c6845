package domain

import dErrors "gala/pkg/domain-errors"

// ItemType discriminates the two parallel competition tracks. Individual and
// group items share one code path everywhere; this is the discriminant.
type ItemType string

const (
	ItemIndividual ItemType = "individual"
	ItemGroup      ItemType = "group"
)

var validItemTypes = map[ItemType]bool{
	ItemIndividual: true,
	ItemGroup:      true,
}

// ParseItemType constructs an ItemType from external input. An empty value
// defaults to individual so the common case stays terse on the wire.
func ParseItemType(s string) (ItemType, error) {
	if s == "" {
		return ItemIndividual, nil
	}
	t := ItemType(s)
	if !validItemTypes[t] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid item type")
	}
	return t, nil
}

func (t ItemType) String() string { return string(t) }
