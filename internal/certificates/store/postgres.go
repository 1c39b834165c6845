package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gala/internal/certificates/models"
	"gala/pkg/domain"
	"gala/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Postgres persists certificates in PostgreSQL. The certificates_award_uniq
// constraint enforces at most one row per (item, type, award, ref).
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed certificate store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, cert *models.Certificate) error {
	payload, err := json.Marshal(cert.Payload)
	if err != nil {
		return fmt.Errorf("marshal certificate payload: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO certificates (cert_key, item_id, item_type, award_type, ref, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		cert.Key, cert.ItemID, cert.ItemType, cert.AwardType, cert.Ref, payload,
	).Scan(&cert.ID, &cert.CreatedAt, &cert.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

func (s *Postgres) FindByKey(ctx context.Context, key Key) (models.Certificate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, cert_key, item_id, item_type, award_type, ref, payload, created_at, updated_at
		 FROM certificates
		 WHERE item_id = $1 AND item_type = $2 AND award_type = $3 AND ref = $4`,
		key.ItemID, key.ItemType, key.AwardType, key.Ref)
	cert, err := scanCertificate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Certificate{}, sentinel.ErrNotFound
		}
		return models.Certificate{}, fmt.Errorf("find certificate by key: %w", err)
	}
	return cert, nil
}

func (s *Postgres) ListByItem(ctx context.Context, itemID domain.ItemID, itemType domain.ItemType, award *domain.AwardType) ([]models.Certificate, error) {
	query := `SELECT id, cert_key, item_id, item_type, award_type, ref, payload, created_at, updated_at
		 FROM certificates WHERE item_id = $1 AND item_type = $2`
	args := []any{itemID, itemType}
	if award != nil {
		query += ` AND award_type = $3`
		args = append(args, *award)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list certificates by item: %w", err)
	}
	defer rows.Close()

	var out []models.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, cert)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row scanner) (models.Certificate, error) {
	var (
		cert    models.Certificate
		payload []byte
	)
	err := row.Scan(&cert.ID, &cert.Key, &cert.ItemID, &cert.ItemType,
		&cert.AwardType, &cert.Ref, &payload, &cert.CreatedAt, &cert.UpdatedAt)
	if err != nil {
		return models.Certificate{}, err
	}
	if err := json.Unmarshal(payload, &cert.Payload); err != nil {
		return models.Certificate{}, fmt.Errorf("decode certificate payload: %w", err)
	}
	return cert, nil
}
