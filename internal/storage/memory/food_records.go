package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/google/uuid"
)

type photoBlob struct {
	data        []byte
	contentType string
}

// FoodRecordsMemoryStorage — in-memory реализация FoodRecordsStorage
type FoodRecordsMemoryStorage struct {
	mu      sync.RWMutex
	records map[uuid.UUID]storage.FoodRecord
	photos  map[string]photoBlob // key: object key
}

// NewFoodRecordsMemoryStorage создаёт новый FoodRecordsMemoryStorage
func NewFoodRecordsMemoryStorage() *FoodRecordsMemoryStorage {
	return &FoodRecordsMemoryStorage{
		records: make(map[uuid.UUID]storage.FoodRecord),
		photos:  make(map[string]photoBlob),
	}
}

func (m *FoodRecordsMemoryStorage) CreateFoodRecord(ctx context.Context, record *storage.FoodRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	m.records[record.ID] = *record

	return nil
}

func (m *FoodRecordsMemoryStorage) GetFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.FoodRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if r.OwnerUserID != ownerUserID {
		return nil, storage.ErrForbidden
	}

	return &r, nil
}

func (m *FoodRecordsMemoryStorage) ListFoodRecordsByDate(ctx context.Context, ownerUserID string, date string) ([]storage.FoodRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []storage.FoodRecord
	for _, r := range m.records {
		if r.OwnerUserID == ownerUserID && r.RecordDate == date {
			results = append(results, r)
		}
	}

	// Сортировка по времени создания (oldest first внутри дня)
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})

	return results, nil
}

func (m *FoodRecordsMemoryStorage) ListRecentFoodRecords(ctx context.Context, ownerUserID string, limit int) ([]storage.FoodRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []storage.FoodRecord
	for _, r := range m.records {
		if r.OwnerUserID == ownerUserID {
			results = append(results, r)
		}
	}

	// newest created_at first
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (m *FoodRecordsMemoryStorage) UpdateFoodRecord(ctx context.Context, ownerUserID string, record *storage.FoodRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if existing.OwnerUserID != ownerUserID {
		return storage.ErrForbidden
	}

	record.OwnerUserID = existing.OwnerUserID
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = time.Now()

	m.records[record.ID] = *record

	return nil
}

func (m *FoodRecordsMemoryStorage) DeleteFoodRecord(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[id]
	if !ok {
		return storage.ErrNotFound
	}
	if existing.OwnerUserID != ownerUserID {
		return storage.ErrForbidden
	}

	delete(m.records, id)

	return nil
}

func (m *FoodRecordsMemoryStorage) PutFoodPhoto(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.photos[key] = photoBlob{data: data, contentType: contentType}

	return nil
}

func (m *FoodRecordsMemoryStorage) GetFoodPhoto(ctx context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.photos[key]
	if !ok {
		return nil, "", storage.ErrNotFound
	}

	return b.data, b.contentType, nil
}
