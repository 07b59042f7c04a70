package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

// SummariesMemoryStorage — in-memory реализация SummariesStorage
type SummariesMemoryStorage struct {
	mu        sync.RWMutex
	summaries map[string]storage.DailySummaryRow // key: "ownerUserID:date"
}

// NewSummariesMemoryStorage создаёт новый SummariesMemoryStorage
func NewSummariesMemoryStorage() *SummariesMemoryStorage {
	return &SummariesMemoryStorage{
		summaries: make(map[string]storage.DailySummaryRow),
	}
}

func (m *SummariesMemoryStorage) UpsertDailySummary(ctx context.Context, ownerUserID string, date string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s:%s", ownerUserID, date)
	now := time.Now()

	existing, exists := m.summaries[key]
	if exists {
		existing.Payload = payload
		existing.UpdatedAt = now
		m.summaries[key] = existing
	} else {
		m.summaries[key] = storage.DailySummaryRow{
			OwnerUserID: ownerUserID,
			Date:        date,
			Payload:     payload,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return nil
}

func (m *SummariesMemoryStorage) GetDailySummary(ctx context.Context, ownerUserID string, date string) (*storage.DailySummaryRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fmt.Sprintf("%s:%s", ownerUserID, date)
	row, ok := m.summaries[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &row, nil
}

func (m *SummariesMemoryStorage) ListDailySummaries(ctx context.Context, ownerUserID string, from, to string) ([]storage.DailySummaryRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []storage.DailySummaryRow
	for _, row := range m.summaries {
		if row.OwnerUserID == ownerUserID && row.Date >= from && row.Date <= to {
			results = append(results, row)
		}
	}

	// oldest first
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date < results[j].Date
	})

	return results, nil
}
