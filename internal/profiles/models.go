package profiles

import (
	"time"

	"github.com/google/uuid"
)

// ProfileDTO — DTO для API
type ProfileDTO struct {
	ID                   uuid.UUID `json:"id"`
	Email                string    `json:"email,omitempty"`
	Name                 string    `json:"name"`
	HeightCm             *float64  `json:"height_cm,omitempty"`
	CurrentWeightKg      *float64  `json:"current_weight_kg,omitempty"`
	TargetWeightKg       *float64  `json:"target_weight_kg,omitempty"`
	DailyCalorieGoalKcal *float64  `json:"daily_calorie_goal_kcal,omitempty"`
	ProteinGoalG         *float64  `json:"protein_goal_g,omitempty"`
	StepsGoal            *int      `json:"steps_goal,omitempty"`
	ActivityLevel        string    `json:"activity_level,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UpdateProfileRequest — запрос для PUT /v1/profile.
// nil-поля не трогаются, профиль создаётся при первом PUT.
type UpdateProfileRequest struct {
	Email                *string  `json:"email"`
	Name                 *string  `json:"name"`
	HeightCm             *float64 `json:"height_cm"`
	CurrentWeightKg      *float64 `json:"current_weight_kg"`
	TargetWeightKg       *float64 `json:"target_weight_kg"`
	DailyCalorieGoalKcal *float64 `json:"daily_calorie_goal_kcal"`
	ProteinGoalG         *float64 `json:"protein_goal_g"`
	StepsGoal            *int     `json:"steps_goal"`
	ActivityLevel        *string  `json:"activity_level"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
