package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

var (
	ErrInvalidDate  = errors.New("invalid date format")
	ErrInvalidRange = errors.New("invalid date range")
)

// FoodRecordsStorage defines the food record reads the aggregator needs
type FoodRecordsStorage interface {
	ListFoodRecordsByDate(ctx context.Context, ownerUserID string, date string) ([]storage.FoodRecord, error)
}

// GarminStorage defines the snapshot read the aggregator needs
type GarminStorage interface {
	GetGarminSnapshot(ctx context.Context, ownerUserID string, date string) (*storage.GarminSnapshot, error)
}

// WeightsStorage defines the weight read used for the optional weight block
type WeightsStorage interface {
	GetWeightEntry(ctx context.Context, ownerUserID string, date string) (*storage.WeightEntry, error)
}

// ProfileStorage defines the profile read used to resolve goal parameters
type ProfileStorage interface {
	GetProfile(ctx context.Context, ownerUserID string) (*storage.Profile, error)
}

// SummariesStorage defines the persistence operations for computed summaries
type SummariesStorage interface {
	UpsertDailySummary(ctx context.Context, ownerUserID string, date string, payload []byte) error
	GetDailySummary(ctx context.Context, ownerUserID string, date string) (*storage.DailySummaryRow, error)
}

// ComputeDailySummary рассчитывает дневную сводку для (userID, date).
//
// Pure over its two reads: no persistence, no profile lookup. Missing
// snapshot or records are valid input and degrade to zero values, never
// an error. Recomputing with the same records and goals yields identical
// nutrition/activity/balance fields (timestamps excluded).
func ComputeDailySummary(ctx context.Context, foods FoodRecordsStorage, garmin GarminStorage, userID, date string, goals Goals) (*DailySummary, error) {
	if err := validateDate(date); err != nil {
		return nil, ErrInvalidDate
	}

	records, err := foods.ListFoodRecordsByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list food records: %w", err)
	}

	var nutrition NutritionTotals
	for _, r := range records {
		nutrition.TotalCaloriesIn += r.Nutrition.Calories
		nutrition.TotalProtein += r.Nutrition.ProteinG
		nutrition.TotalCarbs += r.Nutrition.CarbsG
		nutrition.TotalFat += r.Nutrition.FatG
		if r.Nutrition.FiberG != nil {
			nutrition.TotalFiber += *r.Nutrition.FiberG
		}
		// sugar/sodium намеренно не суммируются
	}

	activity := ActivityTotals{TrainingType: "none"}
	snapshot, err := garmin.GetGarminSnapshot(ctx, userID, date)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to get garmin snapshot: %w", err)
	}
	if snapshot != nil {
		activity = ActivityTotals{
			TotalCaloriesOut: snapshot.TotalCalories,
			ActiveCalories:   snapshot.ActiveCalories,
			Steps:            snapshot.Steps,
			Distance:         snapshot.DistanceKm,
			TrainingType:     snapshot.TrainingType,
		}
		if activity.TrainingType == "" {
			activity.TrainingType = "none"
		}
	}

	balance := Balance{
		CalorieDeficit: activity.TotalCaloriesOut - nutrition.TotalCaloriesIn,
		ProteinGoalMet: nutrition.TotalProtein >= goals.ProteinGoalG,
		StepsGoalMet:   activity.Steps >= goals.StepsGoal,
	}

	now := time.Now()

	return &DailySummary{
		UserID:      userID,
		SummaryDate: date,
		Nutrition:   nutrition,
		Activity:    activity,
		Balance:     balance,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Service handles daily summary business logic
type Service struct {
	foods     FoodRecordsStorage
	garmin    GarminStorage
	weights   WeightsStorage
	profiles  ProfileStorage
	summaries SummariesStorage

	defaultProteinGoalG float64
	defaultStepsGoal    int
	maxRangeDays        int
}

// NewService creates a new summary service
func NewService(foods FoodRecordsStorage, garmin GarminStorage, profiles ProfileStorage, defaultProteinGoalG float64, defaultStepsGoal int) *Service {
	return &Service{
		foods:               foods,
		garmin:              garmin,
		profiles:            profiles,
		defaultProteinGoalG: defaultProteinGoalG,
		defaultStepsGoal:    defaultStepsGoal,
		maxRangeDays:        90,
	}
}

// WithWeightsStorage adds weight entries storage to the service
func (s *Service) WithWeightsStorage(weights WeightsStorage) *Service {
	s.weights = weights
	return s
}

// WithSummariesStorage adds persistent summaries storage to the service
func (s *Service) WithSummariesStorage(summaries SummariesStorage) *Service {
	s.summaries = summaries
	return s
}

// WithMaxRangeDays overrides the range query limit
func (s *Service) WithMaxRangeDays(days int) *Service {
	if days > 0 {
		s.maxRangeDays = days
	}
	return s
}

// GetDaySummary рассчитывает свежую сводку за день: цели из профиля
// (или дефолтные), плюс опциональный блок веса.
func (s *Service) GetDaySummary(ctx context.Context, userID, date string) (*DailySummary, error) {
	goals := s.resolveGoals(ctx, userID)

	sum, err := ComputeDailySummary(ctx, s.foods, s.garmin, userID, date, goals)
	if err != nil {
		return nil, err
	}

	sum.Weight = s.weightBlock(ctx, userID, date)

	return sum, nil
}

// RecomputeAndSave рассчитывает сводку и сохраняет её (last-write-wins).
// Persisted summaries are NOT refreshed automatically when same-day food
// records change afterwards; callers recompute explicitly.
func (s *Service) RecomputeAndSave(ctx context.Context, userID, date string) (*DailySummary, error) {
	sum, err := s.GetDaySummary(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if s.summaries != nil {
		payload, err := json.Marshal(sum)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal summary: %w", err)
		}
		if err := s.summaries.UpsertDailySummary(ctx, userID, date, payload); err != nil {
			return nil, err
		}
	}

	return sum, nil
}

// GetRangeSummaries рассчитывает свежие сводки за период [from, to].
func (s *Service) GetRangeSummaries(ctx context.Context, userID, from, to string) ([]DailySummary, error) {
	fromDay, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDay, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if toDay.Before(fromDay) {
		return nil, ErrInvalidRange
	}
	if int(toDay.Sub(fromDay).Hours()/24)+1 > s.maxRangeDays {
		return nil, ErrInvalidRange
	}

	goals := s.resolveGoals(ctx, userID)

	var results []DailySummary
	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		sum, err := ComputeDailySummary(ctx, s.foods, s.garmin, userID, date, goals)
		if err != nil {
			return nil, err
		}
		sum.Weight = s.weightBlock(ctx, userID, date)
		results = append(results, *sum)
	}

	return results, nil
}

// resolveGoals берёт цели из профиля пользователя, fallback на дефолты.
func (s *Service) resolveGoals(ctx context.Context, userID string) Goals {
	goals := Goals{
		ProteinGoalG: s.defaultProteinGoalG,
		StepsGoal:    s.defaultStepsGoal,
	}

	if s.profiles == nil {
		return goals
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		// профиль не создан — используем дефолты
		return goals
	}

	if profile.ProteinGoalG != nil && *profile.ProteinGoalG > 0 {
		goals.ProteinGoalG = *profile.ProteinGoalG
	}
	if profile.StepsGoal != nil && *profile.StepsGoal > 0 {
		goals.StepsGoal = *profile.StepsGoal
	}

	return goals
}

// weightBlock возвращает блок веса за день, nil если записи нет.
func (s *Service) weightBlock(ctx context.Context, userID, date string) *WeightBlock {
	if s.weights == nil {
		return nil
	}

	entry, err := s.weights.GetWeightEntry(ctx, userID, date)
	if err != nil {
		return nil
	}

	block := &WeightBlock{
		Morning: entry.MorningKg,
		Evening: entry.EveningKg,
	}
	if entry.MorningKg != nil && entry.EveningKg != nil {
		change := *entry.EveningKg - *entry.MorningKg
		block.Change = &change
	}

	return block
}

func validateDate(date string) error {
	_, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ErrInvalidDate
	}
	return nil
}
