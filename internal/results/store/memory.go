package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"gala/internal/results/models"
	"gala/pkg/domain"
	"gala/pkg/platform/sentinel"
)

type resultKey struct {
	itemID   domain.ItemID
	itemType domain.ItemType
	position domain.Position
}

// Memory is the in-memory ResultStore. The (item, type, position) uniqueness
// check happens under the same mutex hold as the insert, so it carries the
// same guarantee the postgres constraint does.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[domain.ResultID]models.Result
	byKey  map[resultKey]domain.ResultID
}

// NewMemory constructs an empty in-memory result store.
func NewMemory() *Memory {
	return &Memory{
		rows:  make(map[domain.ResultID]models.Result),
		byKey: make(map[resultKey]domain.ResultID),
	}
}

func (m *Memory) Create(ctx context.Context, result *models.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := resultKey{result.ItemID, result.ItemType, result.Position}
	if _, exists := m.byKey[key]; exists {
		return sentinel.ErrConflict
	}

	m.nextID++
	result.ID = domain.ResultID(m.nextID)
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	m.rows[result.ID] = *result
	m.byKey[key] = result.ID
	return nil
}

func (m *Memory) Delete(ctx context.Context, id domain.ResultID, itemType domain.ItemType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok || row.ItemType != itemType {
		return sentinel.ErrNotFound
	}
	delete(m.rows, id)
	delete(m.byKey, resultKey{row.ItemID, row.ItemType, row.Position})
	return nil
}

func (m *Memory) GetByID(ctx context.Context, id domain.ResultID, itemType domain.ItemType) (models.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[id]
	if !ok || row.ItemType != itemType {
		return models.Result{}, sentinel.ErrNotFound
	}
	return row, nil
}

func (m *Memory) ListByItems(ctx context.Context, itemIDs []domain.ItemID, itemType domain.ItemType) ([]models.Result, error) {
	wanted := make(map[domain.ItemID]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Result
	for _, row := range m.rows {
		if row.ItemType == itemType && wanted[row.ItemID] {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListByType(ctx context.Context, itemType domain.ItemType) ([]models.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Result
	for _, row := range m.rows {
		if row.ItemType == itemType {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
