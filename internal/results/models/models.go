// Package models defines recorded results and leaderboard rows.
package models

import (
	"time"

	"gala/pkg/domain"
)

// Result is one podium award for an item. Individual and group results share
// this shape; ItemType discriminates, and Ref is the registration id for
// individual items or the group registration id for group items.
//
// Points are snapshotted from the item's reward scale at creation time and
// never recomputed. Rows may be deleted but not otherwise mutated.
type Result struct {
	ID        domain.ResultID `json:"id"`
	ItemID    domain.ItemID   `json:"item_id"`
	ItemType  domain.ItemType `json:"item_type"`
	Position  domain.Position `json:"position"`
	Points    int             `json:"points"`
	Ref       int64           `json:"ref"`
	CreatedAt time.Time       `json:"created_at"`
}

// SideTotals accumulates one competition track for a section.
type SideTotals struct {
	Points int `json:"points"`
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
}

// Add folds one result row into the totals.
func (t *SideTotals) Add(position domain.Position, points int) {
	t.Points += points
	switch position {
	case domain.PositionFirst:
		t.First++
	case domain.PositionSecond:
		t.Second++
	case domain.PositionThird:
		t.Third++
	}
}

// SectionStanding is one row of the section leaderboard. A section appears as
// soon as either track has points for it; the other track stays zero-valued.
type SectionStanding struct {
	SectionID   domain.SectionID `json:"section_id"`
	SectionName string           `json:"section_name,omitempty"`
	TotalPoints int              `json:"total_points"`
	Individual  SideTotals       `json:"individual"`
	Group       SideTotals       `json:"group"`
}

// ParticipantStanding is one row of the global participant ranking.
type ParticipantStanding struct {
	ParticipantID domain.ParticipantID `json:"participant_id"`
	FullName      string               `json:"full_name"`
	Points        int                  `json:"points"`
}
