package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage — Postgres реализация всех storage интерфейсов
type PostgresStorage struct {
	pool        *pgxpool.Pool
	foodRecords *PostgresFoodRecordsStorage
	garmin      *PostgresGarminStorage
	summaries   *PostgresSummariesStorage
	weights     *PostgresWeightsStorage
	reports     *PostgresReportsStorage
}

// New создаёт PostgresStorage
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{
		pool:        pool,
		foodRecords: NewPostgresFoodRecordsStorage(pool),
		garmin:      NewPostgresGarminStorage(pool),
		summaries:   NewPostgresSummariesStorage(pool),
		weights:     NewPostgresWeightsStorage(pool),
		reports:     NewPostgresReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) GetProfile(ctx context.Context, ownerUserID string) (*storage.Profile, error) {
	query := `
		SELECT id, owner_user_id, email, name, height_cm, current_weight_kg, target_weight_kg,
		       daily_calorie_goal_kcal, protein_goal_g, steps_goal, activity_level, created_at, updated_at
		FROM profiles
		WHERE owner_user_id = $1
	`

	var prof storage.Profile
	err := p.pool.QueryRow(ctx, query, ownerUserID).Scan(
		&prof.ID,
		&prof.OwnerUserID,
		&prof.Email,
		&prof.Name,
		&prof.HeightCm,
		&prof.CurrentWeightKg,
		&prof.TargetWeightKg,
		&prof.DailyCalorieGoalKcal,
		&prof.ProteinGoalG,
		&prof.StepsGoal,
		&prof.ActivityLevel,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &prof, nil
}

func (p *PostgresStorage) UpsertProfile(ctx context.Context, profile *storage.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	now := time.Now()
	profile.UpdatedAt = now

	query := `
		INSERT INTO profiles (id, owner_user_id, email, name, height_cm, current_weight_kg, target_weight_kg,
		                      daily_calorie_goal_kcal, protein_goal_g, steps_goal, activity_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (owner_user_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			height_cm = EXCLUDED.height_cm,
			current_weight_kg = EXCLUDED.current_weight_kg,
			target_weight_kg = EXCLUDED.target_weight_kg,
			daily_calorie_goal_kcal = EXCLUDED.daily_calorie_goal_kcal,
			protein_goal_g = EXCLUDED.protein_goal_g,
			steps_goal = EXCLUDED.steps_goal,
			activity_level = EXCLUDED.activity_level,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := p.pool.QueryRow(ctx, query,
		profile.ID,
		profile.OwnerUserID,
		profile.Email,
		profile.Name,
		profile.HeightCm,
		profile.CurrentWeightKg,
		profile.TargetWeightKg,
		profile.DailyCalorieGoalKcal,
		profile.ProteinGoalG,
		profile.StepsGoal,
		profile.ActivityLevel,
		now,
	).Scan(&profile.ID, &profile.CreatedAt)

	return err
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// GetFoodRecordsStorage returns the food records storage
func (p *PostgresStorage) GetFoodRecordsStorage() *PostgresFoodRecordsStorage {
	return p.foodRecords
}

// GetGarminStorage returns the garmin snapshots storage
func (p *PostgresStorage) GetGarminStorage() *PostgresGarminStorage {
	return p.garmin
}

// GetSummariesStorage returns the daily summaries storage
func (p *PostgresStorage) GetSummariesStorage() *PostgresSummariesStorage {
	return p.summaries
}

// GetWeightsStorage returns the weight entries storage
func (p *PostgresStorage) GetWeightsStorage() *PostgresWeightsStorage {
	return p.weights
}

// GetReportsStorage returns the reports storage
func (p *PostgresStorage) GetReportsStorage() *PostgresReportsStorage {
	return p.reports
}

// FoodRecordsStorage methods - delegate to embedded food records storage

func (p *PostgresStorage) CreateFoodRecord(ctx context.Context, record *storage.FoodRecord) error {
	return p.foodRecords.CreateFoodRecord(ctx, record)
}

func (p *PostgresStorage) GetFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.FoodRecord, error) {
	return p.foodRecords.GetFoodRecord(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ListFoodRecordsByDate(ctx context.Context, ownerUserID string, date string) ([]storage.FoodRecord, error) {
	return p.foodRecords.ListFoodRecordsByDate(ctx, ownerUserID, date)
}

func (p *PostgresStorage) ListRecentFoodRecords(ctx context.Context, ownerUserID string, limit int) ([]storage.FoodRecord, error) {
	return p.foodRecords.ListRecentFoodRecords(ctx, ownerUserID, limit)
}

func (p *PostgresStorage) UpdateFoodRecord(ctx context.Context, ownerUserID string, record *storage.FoodRecord) error {
	return p.foodRecords.UpdateFoodRecord(ctx, ownerUserID, record)
}

func (p *PostgresStorage) DeleteFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return p.foodRecords.DeleteFoodRecord(ctx, ownerUserID, id)
}

func (p *PostgresStorage) PutFoodPhoto(ctx context.Context, key string, data []byte, contentType string) error {
	return p.foodRecords.PutFoodPhoto(ctx, key, data, contentType)
}

func (p *PostgresStorage) GetFoodPhoto(ctx context.Context, key string) ([]byte, string, error) {
	return p.foodRecords.GetFoodPhoto(ctx, key)
}

// GarminStorage methods - delegate to embedded garmin storage

func (p *PostgresStorage) UpsertGarminSnapshot(ctx context.Context, snapshot *storage.GarminSnapshot) error {
	return p.garmin.UpsertGarminSnapshot(ctx, snapshot)
}

func (p *PostgresStorage) GetGarminSnapshot(ctx context.Context, ownerUserID string, date string) (*storage.GarminSnapshot, error) {
	return p.garmin.GetGarminSnapshot(ctx, ownerUserID, date)
}

func (p *PostgresStorage) ListGarminSnapshots(ctx context.Context, ownerUserID string, from, to string) ([]storage.GarminSnapshot, error) {
	return p.garmin.ListGarminSnapshots(ctx, ownerUserID, from, to)
}

// SummariesStorage methods - delegate to embedded summaries storage

func (p *PostgresStorage) UpsertDailySummary(ctx context.Context, ownerUserID string, date string, payload []byte) error {
	return p.summaries.UpsertDailySummary(ctx, ownerUserID, date, payload)
}

func (p *PostgresStorage) GetDailySummary(ctx context.Context, ownerUserID string, date string) (*storage.DailySummaryRow, error) {
	return p.summaries.GetDailySummary(ctx, ownerUserID, date)
}

func (p *PostgresStorage) ListDailySummaries(ctx context.Context, ownerUserID string, from, to string) ([]storage.DailySummaryRow, error) {
	return p.summaries.ListDailySummaries(ctx, ownerUserID, from, to)
}

// WeightsStorage methods - delegate to embedded weights storage

func (p *PostgresStorage) UpsertWeightEntry(ctx context.Context, entry *storage.WeightEntry) error {
	return p.weights.UpsertWeightEntry(ctx, entry)
}

func (p *PostgresStorage) GetWeightEntry(ctx context.Context, ownerUserID string, date string) (*storage.WeightEntry, error) {
	return p.weights.GetWeightEntry(ctx, ownerUserID, date)
}

// ReportsStorage methods - delegate to embedded reports storage

func (p *PostgresStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return p.reports.CreateReport(ctx, report)
}

func (p *PostgresStorage) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ReportMeta, error) {
	return p.reports.GetReport(ctx, ownerUserID, id)
}

func (p *PostgresStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	return p.reports.ListReports(ctx, ownerUserID, limit, offset)
}

func (p *PostgresStorage) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return p.reports.DeleteReport(ctx, ownerUserID, id)
}
