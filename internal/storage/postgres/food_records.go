package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFoodRecordsStorage — Postgres реализация FoodRecordsStorage
type PostgresFoodRecordsStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresFoodRecordsStorage создаёт новое Postgres хранилище
func NewPostgresFoodRecordsStorage(pool *pgxpool.Pool) *PostgresFoodRecordsStorage {
	return &PostgresFoodRecordsStorage{pool: pool}
}

const foodRecordColumns = `id, owner_user_id, record_date, record_time, description, meal_type,
	calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg,
	ai_advice, image_url, photo_object_key, created_at, updated_at`

func scanFoodRecord(row pgx.Row) (*storage.FoodRecord, error) {
	var r storage.FoodRecord
	err := row.Scan(
		&r.ID,
		&r.OwnerUserID,
		&r.RecordDate,
		&r.RecordTime,
		&r.Description,
		&r.MealType,
		&r.Nutrition.Calories,
		&r.Nutrition.ProteinG,
		&r.Nutrition.CarbsG,
		&r.Nutrition.FatG,
		&r.Nutrition.FiberG,
		&r.Nutrition.SugarG,
		&r.Nutrition.SodiumMg,
		&r.AIAdvice,
		&r.ImageURL,
		&r.PhotoObjectKey,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateFoodRecord создаёт новую запись
func (s *PostgresFoodRecordsStorage) CreateFoodRecord(ctx context.Context, record *storage.FoodRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query := `
		INSERT INTO food_records (id, owner_user_id, record_date, record_time, description, meal_type,
			calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg,
			ai_advice, image_url, photo_object_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		record.ID,
		record.OwnerUserID,
		record.RecordDate,
		record.RecordTime,
		record.Description,
		record.MealType,
		record.Nutrition.Calories,
		record.Nutrition.ProteinG,
		record.Nutrition.CarbsG,
		record.Nutrition.FatG,
		record.Nutrition.FiberG,
		record.Nutrition.SugarG,
		record.Nutrition.SodiumMg,
		record.AIAdvice,
		record.ImageURL,
		record.PhotoObjectKey,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create food record: %w", err)
	}

	return nil
}

// GetFoodRecord возвращает запись по ID с проверкой владельца
func (s *PostgresFoodRecordsStorage) GetFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.FoodRecord, error) {
	query := `SELECT ` + foodRecordColumns + ` FROM food_records WHERE id = $1`

	r, err := scanFoodRecord(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.OwnerUserID != ownerUserID {
		return nil, storage.ErrForbidden
	}

	return r, nil
}

// ListFoodRecordsByDate возвращает записи за день
func (s *PostgresFoodRecordsStorage) ListFoodRecordsByDate(ctx context.Context, ownerUserID string, date string) ([]storage.FoodRecord, error) {
	query := `
		SELECT ` + foodRecordColumns + `
		FROM food_records
		WHERE owner_user_id = $1 AND record_date = $2
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list food records: %w", err)
	}
	defer rows.Close()

	return collectFoodRecords(rows)
}

// ListRecentFoodRecords возвращает последние записи (newest created_at first)
func (s *PostgresFoodRecordsStorage) ListRecentFoodRecords(ctx context.Context, ownerUserID string, limit int) ([]storage.FoodRecord, error) {
	query := `
		SELECT ` + foodRecordColumns + `
		FROM food_records
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent food records: %w", err)
	}
	defer rows.Close()

	return collectFoodRecords(rows)
}

func collectFoodRecords(rows pgx.Rows) ([]storage.FoodRecord, error) {
	var records []storage.FoodRecord
	for rows.Next() {
		r, err := scanFoodRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// UpdateFoodRecord обновляет запись с проверкой владельца
func (s *PostgresFoodRecordsStorage) UpdateFoodRecord(ctx context.Context, ownerUserID string, record *storage.FoodRecord) error {
	// Проверяем существование и владельца отдельно, чтобы различать 404 и 403
	existing, err := s.GetFoodRecord(ctx, ownerUserID, record.ID)
	if err != nil {
		return err
	}
	record.OwnerUserID = existing.OwnerUserID
	record.CreatedAt = existing.CreatedAt

	query := `
		UPDATE food_records
		SET record_date = $3, record_time = $4, description = $5, meal_type = $6,
			calories = $7, protein_g = $8, carbs_g = $9, fat_g = $10,
			fiber_g = $11, sugar_g = $12, sodium_mg = $13,
			ai_advice = $14, image_url = $15, photo_object_key = $16, updated_at = NOW()
		WHERE id = $1 AND owner_user_id = $2
		RETURNING updated_at
	`

	err = s.pool.QueryRow(ctx, query,
		record.ID,
		ownerUserID,
		record.RecordDate,
		record.RecordTime,
		record.Description,
		record.MealType,
		record.Nutrition.Calories,
		record.Nutrition.ProteinG,
		record.Nutrition.CarbsG,
		record.Nutrition.FatG,
		record.Nutrition.FiberG,
		record.Nutrition.SugarG,
		record.Nutrition.SodiumMg,
		record.AIAdvice,
		record.ImageURL,
		record.PhotoObjectKey,
	).Scan(&record.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update food record: %w", err)
	}

	return nil
}

// DeleteFoodRecord удаляет запись с проверкой владельца
func (s *PostgresFoodRecordsStorage) DeleteFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	if _, err := s.GetFoodRecord(ctx, ownerUserID, id); err != nil {
		return err
	}

	query := `DELETE FROM food_records WHERE id = $1 AND owner_user_id = $2`
	result, err := s.pool.Exec(ctx, query, id, ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to delete food record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// PutFoodPhoto сохраняет фото еды в таблицу food_photos (local blob mode)
func (s *PostgresFoodRecordsStorage) PutFoodPhoto(ctx context.Context, key string, data []byte, contentType string) error {
	query := `
		INSERT INTO food_photos (key, data, content_type, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, content_type = EXCLUDED.content_type
	`

	_, err := s.pool.Exec(ctx, query, key, data, contentType)
	if err != nil {
		return fmt.Errorf("failed to put food photo: %w", err)
	}

	return nil
}

// GetFoodPhoto возвращает фото еды по ключу
func (s *PostgresFoodRecordsStorage) GetFoodPhoto(ctx context.Context, key string) ([]byte, string, error) {
	query := `SELECT data, content_type FROM food_photos WHERE key = $1`

	var data []byte
	var contentType string
	err := s.pool.QueryRow(ctx, query, key).Scan(&data, &contentType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", storage.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	return data, contentType, nil
}
