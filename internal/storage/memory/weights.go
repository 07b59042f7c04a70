package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

// WeightsMemoryStorage — in-memory реализация WeightsStorage
type WeightsMemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]storage.WeightEntry // key: "ownerUserID:date"
}

// NewWeightsMemoryStorage создаёт новый WeightsMemoryStorage
func NewWeightsMemoryStorage() *WeightsMemoryStorage {
	return &WeightsMemoryStorage{
		entries: make(map[string]storage.WeightEntry),
	}
}

func (m *WeightsMemoryStorage) UpsertWeightEntry(ctx context.Context, entry *storage.WeightEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s:%s", entry.OwnerUserID, entry.Date)
	now := time.Now()

	existing, exists := m.entries[key]
	if exists {
		// merge: заменяем только переданные поля
		if entry.MorningKg != nil {
			existing.MorningKg = entry.MorningKg
		}
		if entry.EveningKg != nil {
			existing.EveningKg = entry.EveningKg
		}
		existing.UpdatedAt = now
		m.entries[key] = existing
		*entry = existing
	} else {
		entry.CreatedAt = now
		entry.UpdatedAt = now
		m.entries[key] = *entry
	}

	return nil
}

func (m *WeightsMemoryStorage) GetWeightEntry(ctx context.Context, ownerUserID string, date string) (*storage.WeightEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fmt.Sprintf("%s:%s", ownerUserID, date)
	e, ok := m.entries[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &e, nil
}
