package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresGarminStorage — Postgres реализация GarminStorage
type PostgresGarminStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresGarminStorage создаёт новое Postgres хранилище
func NewPostgresGarminStorage(pool *pgxpool.Pool) *PostgresGarminStorage {
	return &PostgresGarminStorage{pool: pool}
}

// UpsertGarminSnapshot сохраняет снимок (upsert по owner_user_id, sync_date).
// Существующий снимок перезаписывается целиком — last-write-wins, без merge.
func (s *PostgresGarminStorage) UpsertGarminSnapshot(ctx context.Context, snapshot *storage.GarminSnapshot) error {
	var heartRateJSON []byte
	if snapshot.HeartRate != nil {
		b, err := json.Marshal(snapshot.HeartRate)
		if err != nil {
			return fmt.Errorf("failed to marshal heart rate: %w", err)
		}
		heartRateJSON = b
	}

	activitiesJSON, err := json.Marshal(snapshot.Activities)
	if err != nil {
		return fmt.Errorf("failed to marshal activities: %w", err)
	}

	query := `
		INSERT INTO garmin_snapshots (owner_user_id, sync_date, total_calories, active_calories, resting_calories,
			steps, distance_km, heart_rate, activities, training_type, synced_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (owner_user_id, sync_date) DO UPDATE SET
			total_calories = EXCLUDED.total_calories,
			active_calories = EXCLUDED.active_calories,
			resting_calories = EXCLUDED.resting_calories,
			steps = EXCLUDED.steps,
			distance_km = EXCLUDED.distance_km,
			heart_rate = EXCLUDED.heart_rate,
			activities = EXCLUDED.activities,
			training_type = EXCLUDED.training_type,
			synced_at = EXCLUDED.synced_at,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = s.pool.QueryRow(ctx, query,
		snapshot.OwnerUserID,
		snapshot.SyncDate,
		snapshot.TotalCalories,
		snapshot.ActiveCalories,
		snapshot.RestingCalories,
		snapshot.Steps,
		snapshot.DistanceKm,
		heartRateJSON,
		activitiesJSON,
		snapshot.TrainingType,
		snapshot.SyncedAt,
	).Scan(&snapshot.CreatedAt, &snapshot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert garmin snapshot: %w", err)
	}

	return nil
}

// GetGarminSnapshot возвращает снимок за день
func (s *PostgresGarminStorage) GetGarminSnapshot(ctx context.Context, ownerUserID string, date string) (*storage.GarminSnapshot, error) {
	query := `
		SELECT owner_user_id, sync_date, total_calories, active_calories, resting_calories,
			steps, distance_km, heart_rate, activities, training_type, synced_at, created_at, updated_at
		FROM garmin_snapshots
		WHERE owner_user_id = $1 AND sync_date = $2
	`

	snap, err := scanGarminSnapshot(s.pool.QueryRow(ctx, query, ownerUserID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// ListGarminSnapshots возвращает снимки за период [from, to], newest first
func (s *PostgresGarminStorage) ListGarminSnapshots(ctx context.Context, ownerUserID string, from, to string) ([]storage.GarminSnapshot, error) {
	query := `
		SELECT owner_user_id, sync_date, total_calories, active_calories, resting_calories,
			steps, distance_km, heart_rate, activities, training_type, synced_at, created_at, updated_at
		FROM garmin_snapshots
		WHERE owner_user_id = $1 AND sync_date >= $2 AND sync_date <= $3
		ORDER BY sync_date DESC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list garmin snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []storage.GarminSnapshot
	for rows.Next() {
		snap, err := scanGarminSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan garmin snapshot: %w", err)
		}
		snapshots = append(snapshots, *snap)
	}

	return snapshots, rows.Err()
}

func scanGarminSnapshot(row pgx.Row) (*storage.GarminSnapshot, error) {
	var snap storage.GarminSnapshot
	var heartRateJSON []byte
	var activitiesJSON []byte

	err := row.Scan(
		&snap.OwnerUserID,
		&snap.SyncDate,
		&snap.TotalCalories,
		&snap.ActiveCalories,
		&snap.RestingCalories,
		&snap.Steps,
		&snap.DistanceKm,
		&heartRateJSON,
		&activitiesJSON,
		&snap.TrainingType,
		&snap.SyncedAt,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(heartRateJSON) > 0 {
		var hr storage.HeartRateData
		if err := json.Unmarshal(heartRateJSON, &hr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal heart rate: %w", err)
		}
		snap.HeartRate = &hr
	}

	if len(activitiesJSON) > 0 {
		if err := json.Unmarshal(activitiesJSON, &snap.Activities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activities: %w", err)
		}
	}

	return &snap, nil
}
