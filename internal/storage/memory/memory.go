package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/google/uuid"
)

// MemoryStorage — in-memory реализация всех storage интерфейсов
type MemoryStorage struct {
	profiles    *ProfilesMemoryStorage
	foodRecords *FoodRecordsMemoryStorage
	garmin      *GarminMemoryStorage
	summaries   *SummariesMemoryStorage
	weights     *WeightsMemoryStorage
	reports     *ReportsMemoryStorage
}

// New создаёт новый MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		profiles:    NewProfilesMemoryStorage(),
		foodRecords: NewFoodRecordsMemoryStorage(),
		garmin:      NewGarminMemoryStorage(),
		summaries:   NewSummariesMemoryStorage(),
		weights:     NewWeightsMemoryStorage(),
		reports:     NewReportsMemoryStorage(),
	}
}

// Storage methods - делегируем к встроенному profiles storage

func (m *MemoryStorage) GetProfile(ctx context.Context, ownerUserID string) (*storage.Profile, error) {
	return m.profiles.GetProfile(ctx, ownerUserID)
}

func (m *MemoryStorage) UpsertProfile(ctx context.Context, profile *storage.Profile) error {
	return m.profiles.UpsertProfile(ctx, profile)
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}

// GetFoodRecordsStorage returns the food records storage
func (m *MemoryStorage) GetFoodRecordsStorage() *FoodRecordsMemoryStorage {
	return m.foodRecords
}

// GetGarminStorage returns the garmin snapshots storage
func (m *MemoryStorage) GetGarminStorage() *GarminMemoryStorage {
	return m.garmin
}

// GetSummariesStorage returns the daily summaries storage
func (m *MemoryStorage) GetSummariesStorage() *SummariesMemoryStorage {
	return m.summaries
}

// GetWeightsStorage returns the weight entries storage
func (m *MemoryStorage) GetWeightsStorage() *WeightsMemoryStorage {
	return m.weights
}

// GetReportsStorage returns the reports storage
func (m *MemoryStorage) GetReportsStorage() *ReportsMemoryStorage {
	return m.reports
}

// FoodRecordsStorage methods - delegate to embedded food records storage

func (m *MemoryStorage) CreateFoodRecord(ctx context.Context, record *storage.FoodRecord) error {
	return m.foodRecords.CreateFoodRecord(ctx, record)
}

func (m *MemoryStorage) GetFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.FoodRecord, error) {
	return m.foodRecords.GetFoodRecord(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ListFoodRecordsByDate(ctx context.Context, ownerUserID string, date string) ([]storage.FoodRecord, error) {
	return m.foodRecords.ListFoodRecordsByDate(ctx, ownerUserID, date)
}

func (m *MemoryStorage) ListRecentFoodRecords(ctx context.Context, ownerUserID string, limit int) ([]storage.FoodRecord, error) {
	return m.foodRecords.ListRecentFoodRecords(ctx, ownerUserID, limit)
}

func (m *MemoryStorage) UpdateFoodRecord(ctx context.Context, ownerUserID string, record *storage.FoodRecord) error {
	return m.foodRecords.UpdateFoodRecord(ctx, ownerUserID, record)
}

func (m *MemoryStorage) DeleteFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return m.foodRecords.DeleteFoodRecord(ctx, ownerUserID, id)
}

func (m *MemoryStorage) PutFoodPhoto(ctx context.Context, key string, data []byte, contentType string) error {
	return m.foodRecords.PutFoodPhoto(ctx, key, data, contentType)
}

func (m *MemoryStorage) GetFoodPhoto(ctx context.Context, key string) ([]byte, string, error) {
	return m.foodRecords.GetFoodPhoto(ctx, key)
}

// GarminStorage methods - delegate to embedded garmin storage

func (m *MemoryStorage) UpsertGarminSnapshot(ctx context.Context, snapshot *storage.GarminSnapshot) error {
	return m.garmin.UpsertGarminSnapshot(ctx, snapshot)
}

func (m *MemoryStorage) GetGarminSnapshot(ctx context.Context, ownerUserID string, date string) (*storage.GarminSnapshot, error) {
	return m.garmin.GetGarminSnapshot(ctx, ownerUserID, date)
}

func (m *MemoryStorage) ListGarminSnapshots(ctx context.Context, ownerUserID string, from, to string) ([]storage.GarminSnapshot, error) {
	return m.garmin.ListGarminSnapshots(ctx, ownerUserID, from, to)
}

// SummariesStorage methods - delegate to embedded summaries storage

func (m *MemoryStorage) UpsertDailySummary(ctx context.Context, ownerUserID string, date string, payload []byte) error {
	return m.summaries.UpsertDailySummary(ctx, ownerUserID, date, payload)
}

func (m *MemoryStorage) GetDailySummary(ctx context.Context, ownerUserID string, date string) (*storage.DailySummaryRow, error) {
	return m.summaries.GetDailySummary(ctx, ownerUserID, date)
}

func (m *MemoryStorage) ListDailySummaries(ctx context.Context, ownerUserID string, from, to string) ([]storage.DailySummaryRow, error) {
	return m.summaries.ListDailySummaries(ctx, ownerUserID, from, to)
}

// WeightsStorage methods - delegate to embedded weights storage

func (m *MemoryStorage) UpsertWeightEntry(ctx context.Context, entry *storage.WeightEntry) error {
	return m.weights.UpsertWeightEntry(ctx, entry)
}

func (m *MemoryStorage) GetWeightEntry(ctx context.Context, ownerUserID string, date string) (*storage.WeightEntry, error) {
	return m.weights.GetWeightEntry(ctx, ownerUserID, date)
}

// ReportsStorage methods - delegate to embedded reports storage

func (m *MemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return m.reports.CreateReport(ctx, report)
}

func (m *MemoryStorage) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ReportMeta, error) {
	return m.reports.GetReport(ctx, ownerUserID, id)
}

func (m *MemoryStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	return m.reports.ListReports(ctx, ownerUserID, limit, offset)
}

func (m *MemoryStorage) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	return m.reports.DeleteReport(ctx, ownerUserID, id)
}

// ProfilesMemoryStorage — in-memory реализация Storage (профили)
type ProfilesMemoryStorage struct {
	mu       sync.RWMutex
	profiles map[string]storage.Profile // key: ownerUserID
}

// NewProfilesMemoryStorage создаёт новый ProfilesMemoryStorage
func NewProfilesMemoryStorage() *ProfilesMemoryStorage {
	return &ProfilesMemoryStorage{
		profiles: make(map[string]storage.Profile),
	}
}

func (m *ProfilesMemoryStorage) GetProfile(ctx context.Context, ownerUserID string) (*storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[ownerUserID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &p, nil
}

func (m *ProfilesMemoryStorage) UpsertProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	existing, ok := m.profiles[profile.OwnerUserID]
	if ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	} else {
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	m.profiles[profile.OwnerUserID] = *profile

	return nil
}
