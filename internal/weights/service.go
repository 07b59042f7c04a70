package weights

import (
	"context"
	"errors"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

var (
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvalidWeight  = errors.New("weight must be positive")
	ErrNoMeasurements = errors.New("at least one measurement is required")
	ErrEntryNotFound  = errors.New("weight entry not found")
)

// Service содержит бизнес-логику записей веса
type Service struct {
	weightsStorage storage.WeightsStorage
}

// NewService создаёт новый сервис
func NewService(weightsStorage storage.WeightsStorage) *Service {
	return &Service{weightsStorage: weightsStorage}
}

// Upsert сохраняет вес за день. Merge-семантика: присланное измерение
// перезаписывает прежнее, отсутствующее сохраняется.
func (s *Service) Upsert(ctx context.Context, userID string, req UpsertWeightRequest) (*WeightEntryDTO, error) {
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}

	if req.MorningKg == nil && req.EveningKg == nil {
		return nil, ErrNoMeasurements
	}
	for _, v := range []*float64{req.MorningKg, req.EveningKg} {
		if v != nil && *v <= 0 {
			return nil, ErrInvalidWeight
		}
	}

	entry := &storage.WeightEntry{
		OwnerUserID: userID,
		Date:        date,
		MorningKg:   req.MorningKg,
		EveningKg:   req.EveningKg,
	}

	if err := s.weightsStorage.UpsertWeightEntry(ctx, entry); err != nil {
		return nil, err
	}

	return toDTO(entry), nil
}

// Get возвращает запись веса за день
func (s *Service) Get(ctx context.Context, userID, date string) (*WeightEntryDTO, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}

	entry, err := s.weightsStorage.GetWeightEntry(ctx, userID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return toDTO(entry), nil
}

func toDTO(entry *storage.WeightEntry) *WeightEntryDTO {
	dto := &WeightEntryDTO{
		Date:      entry.Date,
		MorningKg: entry.MorningKg,
		EveningKg: entry.EveningKg,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	if entry.MorningKg != nil && entry.EveningKg != nil {
		change := *entry.EveningKg - *entry.MorningKg
		dto.ChangeKg = &change
	}
	return dto
}
