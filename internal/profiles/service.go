package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

var (
	ErrNotFound             = errors.New("profile not found")
	ErrInvalidActivityLevel = errors.New("invalid activity level")
	ErrInvalidGoal          = errors.New("goals and body measurements must be positive")
)

var activityLevels = map[string]bool{
	"low":      true,
	"moderate": true,
	"high":     true,
}

// Service содержит бизнес-логику профиля
type Service struct {
	storage storage.Storage
}

// NewService создаёт новый сервис
func NewService(st storage.Storage) *Service {
	return &Service{storage: st}
}

// GetProfile возвращает профиль пользователя
func (s *Service) GetProfile(ctx context.Context, userID string) (*ProfileDTO, error) {
	profile, err := s.storage.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return toDTO(profile), nil
}

// UpsertProfile создаёт или частично обновляет профиль пользователя.
// Первый PUT создаёт профиль, последующие меняют только присланные поля.
func (s *Service) UpsertProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileDTO, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	profile, err := s.storage.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		profile = &storage.Profile{OwnerUserID: userID}
	} else if err != nil {
		return nil, err
	}

	apply(profile, req)

	if err := s.storage.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	return toDTO(profile), nil
}

func validate(req UpdateProfileRequest) error {
	if req.ActivityLevel != nil && *req.ActivityLevel != "" && !activityLevels[*req.ActivityLevel] {
		return ErrInvalidActivityLevel
	}

	for _, v := range []*float64{req.HeightCm, req.CurrentWeightKg, req.TargetWeightKg, req.DailyCalorieGoalKcal, req.ProteinGoalG} {
		if v != nil && *v <= 0 {
			return ErrInvalidGoal
		}
	}
	if req.StepsGoal != nil && *req.StepsGoal <= 0 {
		return ErrInvalidGoal
	}

	return nil
}

func apply(profile *storage.Profile, req UpdateProfileRequest) {
	if req.Email != nil {
		profile.Email = strings.TrimSpace(*req.Email)
	}
	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.HeightCm != nil {
		profile.HeightCm = req.HeightCm
	}
	if req.CurrentWeightKg != nil {
		profile.CurrentWeightKg = req.CurrentWeightKg
	}
	if req.TargetWeightKg != nil {
		profile.TargetWeightKg = req.TargetWeightKg
	}
	if req.DailyCalorieGoalKcal != nil {
		profile.DailyCalorieGoalKcal = req.DailyCalorieGoalKcal
	}
	if req.ProteinGoalG != nil {
		profile.ProteinGoalG = req.ProteinGoalG
	}
	if req.StepsGoal != nil {
		profile.StepsGoal = req.StepsGoal
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = *req.ActivityLevel
	}
}

// toDTO конвертирует storage.Profile в ProfileDTO
func toDTO(p *storage.Profile) *ProfileDTO {
	return &ProfileDTO{
		ID:                   p.ID,
		Email:                p.Email,
		Name:                 p.Name,
		HeightCm:             p.HeightCm,
		CurrentWeightKg:      p.CurrentWeightKg,
		TargetWeightKg:       p.TargetWeightKg,
		DailyCalorieGoalKcal: p.DailyCalorieGoalKcal,
		ProteinGoalG:         p.ProteinGoalG,
		StepsGoal:            p.StepsGoal,
		ActivityLevel:        p.ActivityLevel,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
