package ai

import (
	"context"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

type Provider interface {
	AnalyzeFood(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error)
}

// AnalyzeRequest — вход анализа еды: текстовое описание и/или фото.
type AnalyzeRequest struct {
	UserID      string
	Description string
	MealType    string // breakfast, lunch, dinner, snack
	ImageData   []byte // optional photo bytes
	ImageMime   string // required when ImageData is set, e.g. image/jpeg
}

// AnalyzeResponse — оценка КБЖУ и короткий совет.
type AnalyzeResponse struct {
	FoodName  string
	Nutrition storage.NutritionInfo
	Advice    string
}
