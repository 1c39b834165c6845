package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	catalogmodels "gala/internal/catalog/models"
	catalogstore "gala/internal/catalog/store"
	"gala/internal/certificates/models"
	"gala/pkg/domain"
	dErrors "gala/pkg/domain-errors"
	"gala/pkg/requestcontext"
)

type ResolverSuite struct {
	suite.Suite
	catalog  *catalogstore.Memory
	resolver *Resolver
	ctx      context.Context

	eventID       domain.EventID
	itemID        domain.ItemID
	participantID domain.ParticipantID
}

func (s *ResolverSuite) SetupTest() {
	s.catalog = catalogstore.NewMemory()
	s.resolver = NewResolver(s.catalog.Events(), s.catalog.Items(), s.catalog.Participants(), s.catalog.Sections())
	s.resolver.newID = func() string { return "cert-123" }
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC))

	event := &catalogmodels.Event{
		Name:        "Founders Day",
		Description: "Annual arts and sports fest",
		Templates: map[domain.AwardType]models.Template{
			domain.AwardParticipation: participationTemplate(),
		},
	}
	s.Require().NoError(s.catalog.Events().Create(s.ctx, event))
	s.eventID = event.ID

	item := &catalogmodels.Item{EventID: event.ID, Type: domain.ItemIndividual, Name: "Chess"}
	s.Require().NoError(s.catalog.Items().Create(s.ctx, item))
	s.itemID = item.ID

	section := &catalogmodels.Section{Name: "Civil"}
	s.Require().NoError(s.catalog.Sections().Create(s.ctx, section))

	participant := &catalogmodels.Participant{FullName: "Asha", SectionID: section.ID}
	s.Require().NoError(s.catalog.Participants().Create(s.ctx, participant))
	s.participantID = participant.ID
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func participationTemplate() models.Template {
	return models.Template{
		Width:      800,
		Height:     600,
		Fonts:      []string{"Lora"},
		Background: "bg.png",
		Elements: []models.Element{
			{Kind: models.ElementText, Text: "Certificate of Participation"},
			{Kind: models.ElementVariable, Variable: models.VarName},
			{Kind: models.ElementVariable, Variable: models.VarItemName},
			{Kind: models.ElementVariable, Variable: models.VarEventName},
			{Kind: models.ElementVariable, Variable: models.VarSectionName},
			{Kind: models.ElementVariable, Variable: models.VarDate},
			{Kind: models.ElementVariable, Variable: models.VarPosition},
			{Kind: models.ElementVariable, Variable: models.VarID},
		},
	}
}

// TestResolve verifies variable substitution and the composed descriptions.
func (s *ResolverSuite) TestResolve() {
	s.Run("substitutes every variable and keeps literals", func() {
		resolved, err := s.resolver.Resolve(s.ctx, s.eventID, domain.AwardParticipation,
			s.itemID, domain.ItemIndividual, s.participantID)
		s.Require().NoError(err)

		s.Equal("cert-123", resolved.ID)
		s.Require().Len(resolved.Elements, 8)

		s.Equal("Certificate of Participation", resolved.Elements[0].Text)
		s.Equal("Asha", resolved.Elements[1].Text)
		s.Equal("Chess", resolved.Elements[2].Text)
		s.Equal("Founders Day", resolved.Elements[3].Text)
		s.Equal("Civil", resolved.Elements[4].Text)
		s.Equal("14-03-2025", resolved.Elements[5].Text)
		s.Equal("participation", resolved.Elements[6].Text)
		s.Equal("cert-123", resolved.Elements[7].Text)

		// All elements come out as literals; no variable survives resolution.
		for _, element := range resolved.Elements {
			s.Equal(models.ElementText, element.Kind)
			s.Empty(element.Variable)
		}
	})

	s.Run("composes recipient and issuance descriptions", func() {
		resolved, err := s.resolver.Resolve(s.ctx, s.eventID, domain.AwardParticipation,
			s.itemID, domain.ItemIndividual, s.participantID)
		s.Require().NoError(err)

		s.Equal("Asha", resolved.Recipient)
		s.Equal("Civil", resolved.RecipientDescription)
		s.Equal(domain.AwardParticipation, resolved.IssuedFor)
		s.Equal("Participation in Chess at Founders Day.", resolved.IssuedForDescription)
		s.Equal("Annual arts and sports fest", resolved.IssuerDescription)
		s.Equal(800, resolved.Width)
		s.Equal(600, resolved.Height)
		s.Equal("bg.png", resolved.Background)
	})

	s.Run("placement awards describe the prize", func() {
		event := &catalogmodels.Event{
			Name: "Founders Day",
			Templates: map[domain.AwardType]models.Template{
				domain.AwardFirst: participationTemplate(),
			},
		}
		s.Require().NoError(s.catalog.Events().Create(s.ctx, event))
		item := &catalogmodels.Item{EventID: event.ID, Type: domain.ItemIndividual, Name: "Chess"}
		s.Require().NoError(s.catalog.Items().Create(s.ctx, item))

		resolved, err := s.resolver.Resolve(s.ctx, event.ID, domain.AwardFirst,
			item.ID, domain.ItemIndividual, s.participantID)
		s.Require().NoError(err)
		s.Equal("Achieving first prize in Chess at Founders Day.", resolved.IssuedForDescription)
	})
}

// TestResolveFailures verifies the distinct error codes per missing input.
func (s *ResolverSuite) TestResolveFailures() {
	s.Run("missing template is TemplateMissing, not NotFound", func() {
		_, err := s.resolver.Resolve(s.ctx, s.eventID, domain.AwardThird,
			s.itemID, domain.ItemIndividual, s.participantID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTemplateMissing))
	})

	s.Run("unknown event is NotFound", func() {
		_, err := s.resolver.Resolve(s.ctx, domain.EventID(9999), domain.AwardParticipation,
			s.itemID, domain.ItemIndividual, s.participantID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown participant is NotFound", func() {
		_, err := s.resolver.Resolve(s.ctx, s.eventID, domain.AwardParticipation,
			s.itemID, domain.ItemIndividual, domain.ParticipantID(9999))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("item type mismatch is Validation", func() {
		_, err := s.resolver.Resolve(s.ctx, s.eventID, domain.AwardParticipation,
			s.itemID, domain.ItemGroup, s.participantID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
