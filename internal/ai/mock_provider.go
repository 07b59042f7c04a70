package ai

import (
	"context"
	"strings"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

type mockDish struct {
	keywords []string
	name     string
	info     storage.NutritionInfo
	advice   string
}

func floatPtr(v float64) *float64 { return &v }

// Детерминированный каталог: подбор по ключевым словам описания.
// Первое совпадение выигрывает, порядок фиксирован.
var mockDishes = []mockDish{
	{
		keywords: []string{"овсянк", "oatmeal", "porridge", "каша"},
		name:     "Овсянка",
		info: storage.NutritionInfo{
			Calories: 320, ProteinG: 12, CarbsG: 54, FatG: 7,
			FiberG: floatPtr(8), SugarG: floatPtr(12),
		},
		advice: "Хороший завтрак с медленными углеводами. Добавьте орехи или творог для белка.",
	},
	{
		keywords: []string{"куриц", "chicken", "грудк"},
		name:     "Куриная грудка с гарниром",
		info: storage.NutritionInfo{
			Calories: 450, ProteinG: 42, CarbsG: 35, FatG: 14,
			FiberG: floatPtr(4), SodiumMg: floatPtr(520),
		},
		advice: "Отличный источник белка. Следите за количеством соли в маринаде.",
	},
	{
		keywords: []string{"салат", "salad", "овощ"},
		name:     "Овощной салат",
		info: storage.NutritionInfo{
			Calories: 180, ProteinG: 4, CarbsG: 12, FatG: 13,
			FiberG: floatPtr(5), SugarG: floatPtr(6),
		},
		advice: "Много клетчатки, мало калорий. Заправка маслом добавляет основную часть жиров.",
	},
	{
		keywords: []string{"рыб", "fish", "лосос", "salmon"},
		name:     "Рыба с рисом",
		info: storage.NutritionInfo{
			Calories: 520, ProteinG: 38, CarbsG: 48, FatG: 18,
			FiberG: floatPtr(2), SodiumMg: floatPtr(430),
		},
		advice: "Омега-3 и качественный белок. Хороший выбор для ужина.",
	},
	{
		keywords: []string{"бургер", "burger", "фастфуд", "пицц", "pizza"},
		name:     "Фастфуд",
		info: storage.NutritionInfo{
			Calories: 780, ProteinG: 28, CarbsG: 68, FatG: 42,
			SugarG: floatPtr(11), SodiumMg: floatPtr(1350),
		},
		advice: "Калорийно и много натрия. Сбалансируйте остальные приёмы пищи овощами.",
	},
	{
		keywords: []string{"творог", "cottage", "йогурт", "yogurt", "yoghurt"},
		name:     "Творог с фруктами",
		info: storage.NutritionInfo{
			Calories: 280, ProteinG: 24, CarbsG: 28, FatG: 8,
			SugarG: floatPtr(18),
		},
		advice: "Хороший белковый перекус. Следите за добавленным сахаром во фруктовых йогуртах.",
	},
}

// mealTypeDefaults — оценка, когда описание ничему не соответствует.
var mealTypeDefaults = map[string]storage.NutritionInfo{
	"breakfast": {Calories: 400, ProteinG: 18, CarbsG: 50, FatG: 14},
	"lunch":     {Calories: 600, ProteinG: 30, CarbsG: 60, FatG: 22},
	"dinner":    {Calories: 550, ProteinG: 32, CarbsG: 45, FatG: 20},
	"snack":     {Calories: 220, ProteinG: 8, CarbsG: 25, FatG: 10},
}

func (p *MockProvider) AnalyzeFood(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error) {
	_ = ctx

	lowered := strings.ToLower(req.Description)
	for _, dish := range mockDishes {
		for _, kw := range dish.keywords {
			if strings.Contains(lowered, kw) {
				return AnalyzeResponse{
					FoodName:  dish.name,
					Nutrition: dish.info,
					Advice:    dish.advice + " Это демо-режим, оценка приблизительная.",
				}, nil
			}
		}
	}

	info, ok := mealTypeDefaults[strings.ToLower(strings.TrimSpace(req.MealType))]
	if !ok {
		info = storage.NutritionInfo{Calories: 450, ProteinG: 20, CarbsG: 45, FatG: 18}
	}

	name := strings.TrimSpace(req.Description)
	if name == "" {
		name = "Приём пищи"
	}

	return AnalyzeResponse{
		FoodName:  name,
		Nutrition: info,
		Advice:    "Не удалось распознать блюдо точно, оценка по типу приёма пищи. Это демо-режим.",
	}, nil
}
