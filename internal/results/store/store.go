// Package store persists result rows. One implementation serves both
// competition tracks through the item type discriminant.
package store

import (
	"context"

	"gala/internal/results/models"
	"gala/pkg/domain"
)

// ResultStore persists award results.
//
// Create must reject a second row for the same (item, item type, position)
// with sentinel.ErrConflict; that uniqueness guarantee is what keeps result
// recording idempotent per podium slot.
type ResultStore interface {
	Create(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id domain.ResultID, itemType domain.ItemType) error
	GetByID(ctx context.Context, id domain.ResultID, itemType domain.ItemType) (models.Result, error)
	ListByItems(ctx context.Context, itemIDs []domain.ItemID, itemType domain.ItemType) ([]models.Result, error)
	ListByType(ctx context.Context, itemType domain.ItemType) ([]models.Result, error)
}
