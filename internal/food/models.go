package food

import (
	"time"

	"github.com/google/uuid"
)

// NutritionDTO — КБЖУ одной записи. Sugar и sodium хранятся по записям,
// но не попадают в дневные суммы.
type NutritionDTO struct {
	Calories float64  `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g,omitempty"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
	SodiumMg *float64 `json:"sodium_mg,omitempty"`
}

type FoodRecordDTO struct {
	ID          uuid.UUID    `json:"id"`
	RecordDate  string       `json:"record_date"`
	RecordTime  string       `json:"record_time,omitempty"`
	Description string       `json:"description"`
	MealType    string       `json:"meal_type"`
	Nutrition   NutritionDTO `json:"nutrition"`
	AIAdvice    *string      `json:"ai_advice,omitempty"`
	ImageURL    *string      `json:"image_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateFoodRecordRequest struct {
	RecordDate  string       `json:"record_date"`
	RecordTime  string       `json:"record_time"`
	Description string       `json:"description"`
	MealType    string       `json:"meal_type"`
	Nutrition   NutritionDTO `json:"nutrition"`
	AIAdvice    *string      `json:"ai_advice"`
}

// UpdateFoodRecordRequest — частичное обновление, nil-поля не трогаются.
type UpdateFoodRecordRequest struct {
	RecordDate  *string       `json:"record_date"`
	RecordTime  *string       `json:"record_time"`
	Description *string       `json:"description"`
	MealType    *string       `json:"meal_type"`
	Nutrition   *NutritionDTO `json:"nutrition"`
	AIAdvice    *string       `json:"ai_advice"`
}

type FoodRecordsResponse struct {
	Records []FoodRecordDTO `json:"records"`
}

type AnalyzeFoodRequest struct {
	Description string `json:"description"`
	MealType    string `json:"meal_type"`
}

type AnalyzeFoodResponse struct {
	FoodName  string       `json:"food_name"`
	Nutrition NutritionDTO `json:"nutrition"`
	Advice    string       `json:"advice"`
}

type PhotoUploadResponse struct {
	ImageURL string `json:"image_url"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
