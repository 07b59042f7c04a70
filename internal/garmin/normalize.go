package garmin

import (
	"strings"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

// Типы активностей, которые считаем аэробными (A) и силовыми (S).
var aerobicTypes = map[string]bool{
	"running":    true,
	"cycling":    true,
	"swimming":   true,
	"walking":    true,
	"hiking":     true,
	"rowing":     true,
	"elliptical": true,
	"cardio":     true,
}

var strengthTypes = map[string]bool{
	"strength":          true,
	"strength_training": true,
	"weight_training":   true,
	"crossfit":          true,
	"hiit":              true,
}

// Normalize переводит сырой payload провайдера в дневной снимок.
// restingCalories = total − active, без клампа: отрицательное значение
// сигнализирует о расхождении данных провайдера и должно быть видно.
func Normalize(ownerUserID string, payload *VendorDaily, syncedAt time.Time) *storage.GarminSnapshot {
	snapshot := &storage.GarminSnapshot{
		OwnerUserID:     ownerUserID,
		SyncDate:        payload.Date,
		TotalCalories:   payload.Calories.Total,
		ActiveCalories:  payload.Calories.Active,
		RestingCalories: payload.Calories.Total - payload.Calories.Active,
		Steps:           payload.Steps,
		DistanceKm:      payload.DistanceM / 1000,
		TrainingType:    classifyTraining(payload.Activities),
		SyncedAt:        syncedAt,
	}

	if payload.HeartRate != nil {
		hr := &storage.HeartRateData{
			Resting: payload.HeartRate.Resting,
			Average: payload.HeartRate.Average,
			Max:     payload.HeartRate.Max,
		}
		for _, z := range payload.HeartRate.Zones {
			hr.Zones = append(hr.Zones, storage.HeartRateZone{Zone: z.Zone, Minutes: z.Minutes})
		}
		snapshot.HeartRate = hr
	}

	for _, a := range payload.Activities {
		snapshot.Activities = append(snapshot.Activities, storage.ActivityData{
			Type:            a.Type,
			Name:            a.Name,
			DurationMinutes: a.DurationMinutes,
			Calories:        a.Calories,
			DistanceKm:      a.DistanceM / 1000,
		})
	}

	return snapshot
}

// classifyTraining: A — только аэробные, S — только силовые,
// both — и те и другие, none — тренировок нет (или только неизвестные типы).
func classifyTraining(activities []VendorActivity) string {
	hasAerobic := false
	hasStrength := false

	for _, a := range activities {
		t := strings.ToLower(strings.TrimSpace(a.Type))
		if aerobicTypes[t] {
			hasAerobic = true
		}
		if strengthTypes[t] {
			hasStrength = true
		}
	}

	switch {
	case hasAerobic && hasStrength:
		return "both"
	case hasAerobic:
		return "A"
	case hasStrength:
		return "S"
	default:
		return "none"
	}
}
