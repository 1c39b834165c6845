package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	catalogstore "gala/internal/catalog/store"
	"gala/internal/certificates/models"
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
	"gala/pkg/platform/sentinel"
	"gala/pkg/requestcontext"
)

// dateLayout renders the `date` variable as day-month-year.
const dateLayout = "02-01-2006"

// Resolver expands a per-event, per-award-type template into a fully
// substituted certificate instance for one recipient.
type Resolver struct {
	events       catalogstore.EventStore
	items        catalogstore.ItemStore
	participants catalogstore.ParticipantStore
	sections     catalogstore.SectionStore
	newID        func() string
}

// NewResolver constructs a template resolver.
func NewResolver(
	events catalogstore.EventStore,
	items catalogstore.ItemStore,
	participants catalogstore.ParticipantStore,
	sections catalogstore.SectionStore,
) *Resolver {
	return &Resolver{
		events:       events,
		items:        items,
		participants: participants,
		sections:     sections,
		newID:        uuid.NewString,
	}
}

// Resolve loads the template configured for (event, award type) and
// substitutes every variable element for the given recipient. Literal
// elements pass through unchanged.
func (r *Resolver) Resolve(
	ctx context.Context,
	eventID domain.EventID,
	awardType domain.AwardType,
	itemID domain.ItemID,
	itemType domain.ItemType,
	participantID domain.ParticipantID,
) (models.ResolvedCertificate, error) {
	event, err := r.events.GetByID(ctx, eventID)
	if err != nil {
		return models.ResolvedCertificate{}, notFound(err, "event not found")
	}
	template, ok := event.Templates[awardType]
	if !ok {
		return models.ResolvedCertificate{}, dErrors.New(dErrors.CodeTemplateMissing,
			fmt.Sprintf("event has no %s certificate template configured", awardType))
	}

	item, err := r.items.GetByID(ctx, itemID)
	if err != nil {
		return models.ResolvedCertificate{}, notFound(err, "item not found")
	}
	if item.Type != itemType {
		return models.ResolvedCertificate{}, dErrors.New(dErrors.CodeValidation, "item type mismatch")
	}
	participant, err := r.participants.GetByID(ctx, participantID)
	if err != nil {
		return models.ResolvedCertificate{}, notFound(err, "participant not found")
	}

	sectionName := ""
	if section, err := r.sections.GetByID(ctx, participant.SectionID); err == nil {
		sectionName = section.Name
	}

	certID := r.newID()
	values := map[models.VariableName]string{
		models.VarDate:        requestcontext.Now(ctx).Format(dateLayout),
		models.VarEventName:   event.Name,
		models.VarItemName:    item.Name,
		models.VarName:        participant.FullName,
		models.VarPosition:    awardType.String(),
		models.VarID:          certID,
		models.VarSectionName: sectionName,
	}

	elements := make([]models.Element, len(template.Elements))
	for i, element := range template.Elements {
		if element.Kind == models.ElementVariable {
			element.Text = values[element.Variable]
			element.Kind = models.ElementText
			element.Variable = ""
		}
		elements[i] = element
	}

	return models.ResolvedCertificate{
		ID:                   certID,
		Elements:             elements,
		Height:               template.Height,
		Width:                template.Width,
		Fonts:                template.Fonts,
		Background:           template.Background,
		Recipient:            participant.FullName,
		RecipientDescription: sectionName,
		IssuerDescription:    event.Description,
		IssuedFor:            awardType,
		IssuedForDescription: issuedForDescription(awardType, item.Name, event.Name),
	}, nil
}

func issuedForDescription(awardType domain.AwardType, itemName, eventName string) string {
	if awardType == domain.AwardParticipation {
		return fmt.Sprintf("Participation in %s at %s.", itemName, eventName)
	}
	return fmt.Sprintf("Achieving %s prize in %s at %s.", awardType, itemName, eventName)
}

func notFound(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store lookup failed")
}
