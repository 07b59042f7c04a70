package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

// GarminMemoryStorage — in-memory реализация GarminStorage
type GarminMemoryStorage struct {
	mu        sync.RWMutex
	snapshots map[string]storage.GarminSnapshot // key: "ownerUserID:date"
}

// NewGarminMemoryStorage создаёт новый GarminMemoryStorage
func NewGarminMemoryStorage() *GarminMemoryStorage {
	return &GarminMemoryStorage{
		snapshots: make(map[string]storage.GarminSnapshot),
	}
}

func (m *GarminMemoryStorage) UpsertGarminSnapshot(ctx context.Context, snapshot *storage.GarminSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s:%s", snapshot.OwnerUserID, snapshot.SyncDate)
	now := time.Now()

	// last-write-wins: существующий снимок перезаписывается целиком
	existing, exists := m.snapshots[key]
	if exists {
		snapshot.CreatedAt = existing.CreatedAt
	} else {
		snapshot.CreatedAt = now
	}
	snapshot.UpdatedAt = now

	m.snapshots[key] = *snapshot

	return nil
}

func (m *GarminMemoryStorage) GetGarminSnapshot(ctx context.Context, ownerUserID string, date string) (*storage.GarminSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fmt.Sprintf("%s:%s", ownerUserID, date)
	s, ok := m.snapshots[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &s, nil
}

func (m *GarminMemoryStorage) ListGarminSnapshots(ctx context.Context, ownerUserID string, from, to string) ([]storage.GarminSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []storage.GarminSnapshot
	for _, s := range m.snapshots {
		if s.OwnerUserID == ownerUserID && s.SyncDate >= from && s.SyncDate <= to {
			results = append(results, s)
		}
	}

	// newest first
	sort.Slice(results, func(i, j int) bool {
		return results[i].SyncDate > results[j].SyncDate
	})

	return results, nil
}
