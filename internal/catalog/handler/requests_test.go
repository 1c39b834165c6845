package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	certmodels "gala/internal/certificates/models"
	"gala/pkg/domain"
)

func TestCreateEventRequestValidate(t *testing.T) {
	t.Run("parses template award-type keys", func(t *testing.T) {
		req := &CreateEventRequest{
			Name: "Founders Day",
			Templates: map[string]certmodels.Template{
				"participation": {Width: 800, Height: 600},
				"first":         {Width: 800, Height: 600},
			},
		}
		require.NoError(t, req.Validate())

		event := req.ToModel()
		assert.Contains(t, event.Templates, domain.AwardParticipation)
		assert.Contains(t, event.Templates, domain.AwardFirst)
	})

	t.Run("rejects unknown template key", func(t *testing.T) {
		req := &CreateEventRequest{
			Name:      "Founders Day",
			Templates: map[string]certmodels.Template{"gold": {}},
		}
		require.Error(t, req.Validate())
	})

	t.Run("rejects blank name", func(t *testing.T) {
		require.Error(t, (&CreateEventRequest{Name: "   "}).Validate())
	})
}

func TestCreateItemRequestValidate(t *testing.T) {
	t.Run("individual item defaults type and forbids size bounds", func(t *testing.T) {
		req := &CreateItemRequest{EventID: 1, Name: "Chess"}
		require.NoError(t, req.Validate())
		assert.Equal(t, domain.ItemIndividual, req.ToModel().Type)

		withBounds := &CreateItemRequest{EventID: 1, Name: "Chess", MinSize: 2, MaxSize: 4}
		require.Error(t, withBounds.Validate())
	})

	t.Run("group item requires sane bounds", func(t *testing.T) {
		valid := &CreateItemRequest{EventID: 1, Name: "Relay", Type: "group", MinSize: 2, MaxSize: 4}
		require.NoError(t, valid.Validate())

		inverted := &CreateItemRequest{EventID: 1, Name: "Relay", Type: "group", MinSize: 4, MaxSize: 2}
		require.Error(t, inverted.Validate())

		unbounded := &CreateItemRequest{EventID: 1, Name: "Relay", Type: "group"}
		require.Error(t, unbounded.Validate())
	})

	t.Run("rejects negative reward scale", func(t *testing.T) {
		req := &CreateItemRequest{EventID: 1, Name: "Chess"}
		req.Scale.Second = -1
		require.Error(t, req.Validate())
	})
}

func TestCreateGroupRegistrationRequestValidate(t *testing.T) {
	t.Run("accepts a sectionless registration", func(t *testing.T) {
		req := &CreateGroupRegistrationRequest{ItemID: 1, ParticipantIDs: []int64{1, 2}}
		require.NoError(t, req.Validate())
		assert.Nil(t, req.ToModel().SectionID)
	})

	t.Run("rejects duplicate participants", func(t *testing.T) {
		req := &CreateGroupRegistrationRequest{ItemID: 1, ParticipantIDs: []int64{1, 1}}
		require.Error(t, req.Validate())
	})

	t.Run("rejects empty participant list", func(t *testing.T) {
		req := &CreateGroupRegistrationRequest{ItemID: 1}
		require.Error(t, req.Validate())
	})

	t.Run("keeps participant order", func(t *testing.T) {
		req := &CreateGroupRegistrationRequest{ItemID: 1, ParticipantIDs: []int64{3, 1, 2}}
		require.NoError(t, req.Validate())
		assert.Equal(t, []domain.ParticipantID{3, 1, 2}, req.ToModel().ParticipantIDs)
	})
}
