package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSummariesStorage — Postgres реализация SummariesStorage
type PostgresSummariesStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresSummariesStorage создаёт новое Postgres хранилище
func NewPostgresSummariesStorage(pool *pgxpool.Pool) *PostgresSummariesStorage {
	return &PostgresSummariesStorage{pool: pool}
}

// UpsertDailySummary сохраняет сводку (upsert по owner_user_id, date)
func (s *PostgresSummariesStorage) UpsertDailySummary(ctx context.Context, ownerUserID string, date string, payload []byte) error {
	query := `
		INSERT INTO daily_summaries (owner_user_id, date, payload, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (owner_user_id, date) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`

	_, err := s.pool.Exec(ctx, query, ownerUserID, date, payload)
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}

	return nil
}

// GetDailySummary возвращает сохранённую сводку за день
func (s *PostgresSummariesStorage) GetDailySummary(ctx context.Context, ownerUserID string, date string) (*storage.DailySummaryRow, error) {
	query := `
		SELECT owner_user_id, date, payload, created_at, updated_at
		FROM daily_summaries
		WHERE owner_user_id = $1 AND date = $2
	`

	var row storage.DailySummaryRow
	err := s.pool.QueryRow(ctx, query, ownerUserID, date).Scan(
		&row.OwnerUserID,
		&row.Date,
		&row.Payload,
		&row.CreatedAt,
		&row.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// ListDailySummaries возвращает сводки за период [from, to], oldest first
func (s *PostgresSummariesStorage) ListDailySummaries(ctx context.Context, ownerUserID string, from, to string) ([]storage.DailySummaryRow, error) {
	query := `
		SELECT owner_user_id, date, payload, created_at, updated_at
		FROM daily_summaries
		WHERE owner_user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily summaries: %w", err)
	}
	defer rows.Close()

	var results []storage.DailySummaryRow
	for rows.Next() {
		var row storage.DailySummaryRow
		err := rows.Scan(
			&row.OwnerUserID,
			&row.Date,
			&row.Payload,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
