package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"gala/internal/certificates/models"
	"gala/pkg/domain"
	"gala/pkg/platform/sentinel"
)

// Memory is the in-memory CertificateStore. The key-tuple uniqueness check
// happens under the same mutex hold as the insert, so it carries the same
// guarantee the postgres constraint does.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]models.Certificate
	byKey  map[Key]int64
}

// NewMemory constructs an empty in-memory certificate store.
func NewMemory() *Memory {
	return &Memory{
		rows:  make(map[int64]models.Certificate),
		byKey: make(map[Key]int64),
	}
}

func (m *Memory) Create(ctx context.Context, cert *models.Certificate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key{cert.ItemID, cert.ItemType, cert.AwardType, cert.Ref}
	if _, exists := m.byKey[key]; exists {
		return sentinel.ErrConflict
	}

	m.nextID++
	cert.ID = m.nextID
	now := time.Now()
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = now
	}
	cert.UpdatedAt = now
	m.rows[cert.ID] = *cert
	m.byKey[key] = cert.ID
	return nil
}

func (m *Memory) FindByKey(ctx context.Context, key Key) (models.Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byKey[key]
	if !ok {
		return models.Certificate{}, sentinel.ErrNotFound
	}
	return m.rows[id], nil
}

func (m *Memory) ListByItem(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Certificate
	for _, row := range m.rows {
		if row.ItemID != itemID || row.ItemType != itemType {
			continue
		}
		if award != nil && row.AwardType != *award {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
