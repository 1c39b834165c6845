package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gala/internal/results/models"
	"gala/pkg/domain"
	"gala/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Postgres persists results in PostgreSQL. The results_item_position_uniq
// constraint enforces at most one row per (item, type, position).
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed result store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, result *models.Result) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO results (item_id, item_type, position, points, ref)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		result.ItemID, result.ItemType, result.Position, result.Points, result.Ref,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id domain.ResultID, itemType domain.ItemType) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM results WHERE id = $1 AND item_type = $2`, id, itemType)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) GetByID(ctx context.Context, id domain.ResultID, itemType domain.ItemType) (models.Result, error) {
	var row models.Result
	err := s.db.QueryRowContext(ctx,
		`SELECT id, item_id, item_type, position, points, ref, created_at
		 FROM results WHERE id = $1 AND item_type = $2`, id, itemType,
	).Scan(&row.ID, &row.ItemID, &row.ItemType, &row.Position, &row.Points, &row.Ref, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Result{}, sentinel.ErrNotFound
		}
		return models.Result{}, fmt.Errorf("find result by id: %w", err)
	}
	return row, nil
}

func (s *Postgres) ListByItems(ctx context.Context, itemIDs []domain.ItemID, itemType domain.ItemType) ([]models.Result, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = int64(id)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, item_type, position, points, ref, created_at
		 FROM results WHERE item_id = ANY($1) AND item_type = $2 ORDER BY id`,
		pq.Array(ids), itemType)
	if err != nil {
		return nil, fmt.Errorf("list results by items: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func (s *Postgres) ListByType(ctx context.Context, itemType domain.ItemType) ([]models.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, item_type, position, points, ref, created_at
		 FROM results WHERE item_type = $1 ORDER BY id`, itemType)
	if err != nil {
		return nil, fmt.Errorf("list results by type: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]models.Result, error) {
	var out []models.Result
	for rows.Next() {
		var row models.Result
		if err := rows.Scan(&row.ID, &row.ItemID, &row.ItemType, &row.Position,
			&row.Points, &row.Ref, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
