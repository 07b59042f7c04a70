package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors shared by all backends. Handlers map them to HTTP codes.
var (
	// ErrNotFound — запись не существует.
	ErrNotFound = errors.New("not_found")

	// ErrForbidden — запись принадлежит другому пользователю.
	ErrForbidden = errors.New("forbidden")
)

// Profile представляет профиль пользователя
type Profile struct {
	ID                   uuid.UUID
	OwnerUserID          string // "default" для MVP, позже uuid
	Email                string
	Name                 string
	HeightCm             *float64
	CurrentWeightKg      *float64
	TargetWeightKg       *float64
	DailyCalorieGoalKcal *float64
	ProteinGoalG         *float64
	StepsGoal            *int
	ActivityLevel        string // "low", "moderate", "high"
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Storage — интерфейс для работы с профилями
type Storage interface {
	// GetProfile возвращает профиль пользователя (ErrNotFound если не создан)
	GetProfile(ctx context.Context, ownerUserID string) (*Profile, error)

	// UpsertProfile создаёт или обновляет профиль (upsert по owner_user_id)
	UpsertProfile(ctx context.Context, profile *Profile) error

	// Close закрывает соединение (для Postgres)
	Close() error
}

// NutritionInfo — пищевая ценность одного приёма пищи.
// Required macros are always present; fiber/sugar/sodium are optional.
type NutritionInfo struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	FiberG   *float64
	SugarG   *float64
	SodiumMg *float64
}

// FoodRecord — запись о приёме пищи
type FoodRecord struct {
	ID             uuid.UUID
	OwnerUserID    string
	RecordDate     string // YYYY-MM-DD, user-local
	RecordTime     string // HH:MM, optional ("" when unknown)
	Description    string
	MealType       string // breakfast, lunch, dinner, snack
	Nutrition      NutritionInfo
	AIAdvice       *string
	ImageURL       *string
	PhotoObjectKey *string // blob key when a photo is attached
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FoodRecordsStorage — интерфейс для работы с записями о еде
type FoodRecordsStorage interface {
	// CreateFoodRecord создаёт новую запись
	CreateFoodRecord(ctx context.Context, record *FoodRecord) error

	// GetFoodRecord возвращает запись по ID.
	// ErrNotFound if missing, ErrForbidden if owned by another user.
	GetFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) (*FoodRecord, error)

	// ListFoodRecordsByDate возвращает записи за день (порядок не гарантируется)
	ListFoodRecordsByDate(ctx context.Context, ownerUserID string, date string) ([]FoodRecord, error)

	// ListRecentFoodRecords возвращает последние записи (newest created_at first)
	ListRecentFoodRecords(ctx context.Context, ownerUserID string, limit int) ([]FoodRecord, error)

	// UpdateFoodRecord обновляет запись (ErrNotFound / ErrForbidden как у Get)
	UpdateFoodRecord(ctx context.Context, ownerUserID string, record *FoodRecord) error

	// DeleteFoodRecord удаляет запись (ErrNotFound / ErrForbidden как у Get)
	DeleteFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) error

	// PutFoodPhoto сохраняет фото еды (memory mode only)
	PutFoodPhoto(ctx context.Context, key string, data []byte, contentType string) error

	// GetFoodPhoto возвращает фото еды по ключу (memory mode only)
	GetFoodPhoto(ctx context.Context, key string) ([]byte, string, error)
}

// HeartRateZone — минуты в пульсовой зоне за день.
type HeartRateZone struct {
	Zone    int // 1..5
	Minutes float64
}

// HeartRateData — дневная статистика пульса.
type HeartRateData struct {
	Resting int
	Average int
	Max     int
	Zones   []HeartRateZone
}

// ActivityData — одна тренировка/активность за день.
type ActivityData struct {
	Type            string
	Name            string
	DurationMinutes float64
	Calories        float64
	DistanceKm      float64
}

// GarminSnapshot — нормализованный дневной снимок данных с носимого устройства.
// At most one snapshot per (owner_user_id, sync_date); a later sync
// overwrites the earlier one wholesale (last-write-wins, no merge).
type GarminSnapshot struct {
	OwnerUserID     string
	SyncDate        string // YYYY-MM-DD
	TotalCalories   float64
	ActiveCalories  float64
	RestingCalories float64 // total − active, never clamped
	Steps           int
	DistanceKm      float64
	HeartRate       *HeartRateData
	Activities      []ActivityData
	TrainingType    string // none, A, S, both
	SyncedAt        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GarminStorage — интерфейс для работы со снимками Garmin
type GarminStorage interface {
	// UpsertGarminSnapshot сохраняет снимок (upsert по owner_user_id, sync_date)
	UpsertGarminSnapshot(ctx context.Context, snapshot *GarminSnapshot) error

	// GetGarminSnapshot возвращает снимок за день (ErrNotFound если нет)
	GetGarminSnapshot(ctx context.Context, ownerUserID string, date string) (*GarminSnapshot, error)

	// ListGarminSnapshots возвращает снимки за период [from, to], newest first
	ListGarminSnapshots(ctx context.Context, ownerUserID string, from, to string) ([]GarminSnapshot, error)
}

// DailySummaryRow — персистентная строка дневной сводки.
// Payload holds the serialized summary (JSON), same shape the API returns.
type DailySummaryRow struct {
	OwnerUserID string
	Date        string // YYYY-MM-DD
	Payload     []byte // JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SummariesStorage — интерфейс для работы с персистентными дневными сводками
type SummariesStorage interface {
	// UpsertDailySummary сохраняет сводку (upsert по owner_user_id, date; last-write-wins)
	UpsertDailySummary(ctx context.Context, ownerUserID string, date string, payload []byte) error

	// GetDailySummary возвращает сохранённую сводку за день (ErrNotFound если нет)
	GetDailySummary(ctx context.Context, ownerUserID string, date string) (*DailySummaryRow, error)

	// ListDailySummaries возвращает сводки за период [from, to], oldest first
	ListDailySummaries(ctx context.Context, ownerUserID string, from, to string) ([]DailySummaryRow, error)
}

// WeightEntry — утренний/вечерний вес за день.
type WeightEntry struct {
	OwnerUserID string
	Date        string // YYYY-MM-DD
	MorningKg   *float64
	EveningKg   *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WeightsStorage — интерфейс для работы с записями веса
type WeightsStorage interface {
	// UpsertWeightEntry сохраняет вес (upsert по owner_user_id, date;
	// only the provided morning/evening fields are replaced)
	UpsertWeightEntry(ctx context.Context, entry *WeightEntry) error

	// GetWeightEntry возвращает запись веса за день (ErrNotFound если нет)
	GetWeightEntry(ctx context.Context, ownerUserID string, date string) (*WeightEntry, error)
}

// ReportsStorage — интерфейс для работы с отчётами
type ReportsStorage interface {
	// CreateReport создаёт новый отчёт (metadata + optional data for memory mode)
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт по ID (ErrNotFound / ErrForbidden)
	GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов пользователя, newest first
	ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет отчёт (metadata и данные)
	DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error
}

// ReportMeta — метаданные отчёта
type ReportMeta struct {
	ID          uuid.UUID
	OwnerUserID string
	Format      string  // "pdf" or "csv"
	FromDate    string  // YYYY-MM-DD
	ToDate      string  // YYYY-MM-DD
	ObjectKey   *string // S3 object key (NULL for memory mode)
	SizeBytes   int64
	Status      string // "ready" or "failed"
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Data        []byte // Only used in memory mode (not stored in DB)
}
