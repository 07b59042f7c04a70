package garmin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

var (
	ErrInvalidDate      = errors.New("invalid date format")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrNoVendorData     = errors.New("provider has no data for this date")
	ErrClientDisabled   = errors.New("provider client is not configured")
)

// Service handles wearable snapshot business logic
type Service struct {
	client        *Client // nil в push-only режиме
	garminStorage storage.GarminStorage
}

// NewService creates a new garmin service
func NewService(client *Client, garminStorage storage.GarminStorage) *Service {
	return &Service{
		client:        client,
		garminStorage: garminStorage,
	}
}

// SyncDate тянет данные за дату у провайдера и сохраняет снимок.
func (s *Service) SyncDate(ctx context.Context, userID, date string) (*SnapshotDTO, error) {
	if s.client == nil {
		return nil, ErrClientDisabled
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	payload, err := s.client.FetchDaily(ctx, date)
	if err != nil {
		return nil, err
	}

	return s.savePayload(ctx, userID, payload)
}

// SyncPayload сохраняет снимок из присланного устройством payload.
func (s *Service) SyncPayload(ctx context.Context, userID string, payload *VendorDaily) (*SnapshotDTO, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload is required")
	}
	if err := validateDate(payload.Date); err != nil {
		return nil, err
	}

	return s.savePayload(ctx, userID, payload)
}

func (s *Service) savePayload(ctx context.Context, userID string, payload *VendorDaily) (*SnapshotDTO, error) {
	snapshot := Normalize(userID, payload, time.Now())

	// last-write-wins: повторный sync за тот же день перезаписывает
	// снимок целиком
	if err := s.garminStorage.UpsertGarminSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return toDTO(snapshot), nil
}

// GetDaily возвращает снимок за день
func (s *Service) GetDaily(ctx context.Context, userID, date string) (*SnapshotDTO, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	snapshot, err := s.garminStorage.GetGarminSnapshot(ctx, userID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	return toDTO(snapshot), nil
}

// ListRecent возвращает снимки за последние days календарных дней
// (включая сегодня), newest first; дни без снимка пропускаются.
func (s *Service) ListRecent(ctx context.Context, userID string, days int) ([]SnapshotDTO, error) {
	if days <= 0 {
		days = 7
	}
	if days > 31 {
		days = 31
	}

	today := time.Now()
	from := today.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	to := today.Format("2006-01-02")

	snapshots, err := s.garminStorage.ListGarminSnapshots(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]SnapshotDTO, len(snapshots))
	for i := range snapshots {
		dtos[i] = *toDTO(&snapshots[i])
	}
	return dtos, nil
}

// HasClient reports whether pull sync is available.
func (s *Service) HasClient() bool {
	return s.client != nil
}

func toDTO(snapshot *storage.GarminSnapshot) *SnapshotDTO {
	dto := &SnapshotDTO{
		SyncDate:        snapshot.SyncDate,
		TotalCalories:   snapshot.TotalCalories,
		ActiveCalories:  snapshot.ActiveCalories,
		RestingCalories: snapshot.RestingCalories,
		Steps:           snapshot.Steps,
		DistanceKm:      snapshot.DistanceKm,
		TrainingType:    snapshot.TrainingType,
		SyncedAt:        snapshot.SyncedAt,
		UpdatedAt:       snapshot.UpdatedAt,
	}

	if snapshot.HeartRate != nil {
		hr := &HeartRateDTO{
			Resting: snapshot.HeartRate.Resting,
			Average: snapshot.HeartRate.Average,
			Max:     snapshot.HeartRate.Max,
		}
		for _, z := range snapshot.HeartRate.Zones {
			hr.Zones = append(hr.Zones, HeartRateZoneDTO{Zone: z.Zone, Minutes: z.Minutes})
		}
		dto.HeartRate = hr
	}

	for _, a := range snapshot.Activities {
		dto.Activities = append(dto.Activities, ActivityDTO{
			Type:            a.Type,
			Name:            a.Name,
			DurationMinutes: a.DurationMinutes,
			Calories:        a.Calories,
			DistanceKm:      a.DistanceKm,
		})
	}

	return dto
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
