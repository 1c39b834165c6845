// Package store persists issued certificates. Implementations must enforce
// uniqueness of the (item, type, award, ref) tuple so that concurrent issuance
// attempts for the same recipient collapse to a single record.
package store

import (
	"context"

	"gala/internal/certificates/models"
	"gala/pkg/domain"
)

// Key identifies a certificate issuance target.
type Key struct {
	ItemID    domain.ItemID
	ItemType  domain.ItemType
	AwardType domain.AwardType
	Ref       domain.ParticipantID
}

// CertificateStore is the persistence contract for issued certificates.
// Create returns sentinel.ErrConflict when a certificate for the same key
// tuple already exists; FindByKey returns sentinel.ErrNotFound when none does.
type CertificateStore interface {
	Create(ctx context.Context, cert *models.Certificate) error
	FindByKey(ctx context.Context, key Key) (models.Certificate, error)
	ListByItem(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error)
}
