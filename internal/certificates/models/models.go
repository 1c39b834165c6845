// Package models defines the certificate template, its typed elements, and
// the issued certificate record. Template JSON is decoded into these types
// once at the storage boundary; nothing downstream handles loose maps.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gala/pkg/domain"
)

// ElementKind discriminates literal text from substituted variables.
type ElementKind string

const (
	ElementText     ElementKind = "text"
	ElementVariable ElementKind = "variable"
)

// VariableName is a template placeholder resolved per recipient.
type VariableName string

const (
	VarDate        VariableName = "date"
	VarEventName   VariableName = "eventName"
	VarItemName    VariableName = "itemName"
	VarName        VariableName = "name"
	VarPosition    VariableName = "position"
	VarID          VariableName = "id"
	VarSectionName VariableName = "sectionName"
)

var validVariables = map[VariableName]bool{
	VarDate:        true,
	VarEventName:   true,
	VarItemName:    true,
	VarName:        true,
	VarPosition:    true,
	VarID:          true,
	VarSectionName: true,
}

// Style carries the positional and font metadata of one element.
type Style struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Color      string  `json:"color,omitempty"`
	Align      string  `json:"align,omitempty"`
}

// Element is one entry of a certificate layout: either literal text or a
// named variable. Resolution rewrites variable elements into text elements.
type Element struct {
	Kind     ElementKind  `json:"kind"`
	Text     string       `json:"text,omitempty"`
	Variable VariableName `json:"variable,omitempty"`
	Style    Style        `json:"style"`
}

// UnmarshalJSON validates the tagged variant while decoding so malformed
// templates are rejected at the boundary.
func (e *Element) UnmarshalJSON(data []byte) error {
	type alias Element
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	switch a.Kind {
	case ElementText:
		if a.Variable != "" {
			return fmt.Errorf("text element must not carry a variable")
		}
	case ElementVariable:
		if !validVariables[a.Variable] {
			return fmt.Errorf("unknown template variable %q", a.Variable)
		}
	default:
		return fmt.Errorf("unknown element kind %q", a.Kind)
	}
	*e = Element(a)
	return nil
}

// Template is the declarative per-event, per-award-type certificate layout.
type Template struct {
	Elements   []Element `json:"elements"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Fonts      []string  `json:"fonts,omitempty"`
	Background string    `json:"background,omitempty"`
}

// ResolvedCertificate is a template with every variable substituted for one
// recipient. Its field names follow the rendering service contract.
type ResolvedCertificate struct {
	ID                   string           `json:"id"`
	Elements             []Element        `json:"certificateElements"`
	Height               int              `json:"height"`
	Width                int              `json:"width"`
	Fonts                []string         `json:"fonts,omitempty"`
	Background           string           `json:"certificateBackground,omitempty"`
	Recipient            string           `json:"recipient"`
	RecipientDescription string           `json:"recipientDescription"`
	Issuer               string           `json:"issuer,omitempty"`
	IssuerDescription    string           `json:"issuerDescription,omitempty"`
	IssuedFor            domain.AwardType `json:"issuedFor"`
	IssuedForDescription string           `json:"issuedForDescription"`
}

// Certificate is a persisted issuance record. (ItemID, ItemType, AwardType,
// Ref) is the idempotency key; Key is the renderer-facing unique id embedded
// in the signed token.
type Certificate struct {
	ID        int64                `json:"-"`
	Key       string               `json:"key"`
	ItemID    domain.ItemID        `json:"item_id"`
	ItemType  domain.ItemType      `json:"item_type"`
	AwardType domain.AwardType     `json:"award_type"`
	Ref       domain.ParticipantID `json:"ref"`
	Payload   ResolvedCertificate  `json:"payload"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
