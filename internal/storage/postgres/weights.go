package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresWeightsStorage — Postgres реализация WeightsStorage
type PostgresWeightsStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresWeightsStorage создаёт новое Postgres хранилище
func NewPostgresWeightsStorage(pool *pgxpool.Pool) *PostgresWeightsStorage {
	return &PostgresWeightsStorage{pool: pool}
}

// UpsertWeightEntry сохраняет вес (upsert по owner_user_id, date).
// COALESCE сохраняет ранее записанные morning/evening, если новое значение не передано.
func (s *PostgresWeightsStorage) UpsertWeightEntry(ctx context.Context, entry *storage.WeightEntry) error {
	query := `
		INSERT INTO weight_entries (owner_user_id, date, morning_kg, evening_kg, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (owner_user_id, date) DO UPDATE SET
			morning_kg = COALESCE(EXCLUDED.morning_kg, weight_entries.morning_kg),
			evening_kg = COALESCE(EXCLUDED.evening_kg, weight_entries.evening_kg),
			updated_at = NOW()
		RETURNING morning_kg, evening_kg, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		entry.OwnerUserID,
		entry.Date,
		entry.MorningKg,
		entry.EveningKg,
	).Scan(&entry.MorningKg, &entry.EveningKg, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert weight entry: %w", err)
	}

	return nil
}

// GetWeightEntry возвращает запись веса за день
func (s *PostgresWeightsStorage) GetWeightEntry(ctx context.Context, ownerUserID string, date string) (*storage.WeightEntry, error) {
	query := `
		SELECT owner_user_id, date, morning_kg, evening_kg, created_at, updated_at
		FROM weight_entries
		WHERE owner_user_id = $1 AND date = $2
	`

	var e storage.WeightEntry
	err := s.pool.QueryRow(ctx, query, ownerUserID, date).Scan(
		&e.OwnerUserID,
		&e.Date,
		&e.MorningKg,
		&e.EveningKg,
		&e.CreatedAt,
		&e.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}
