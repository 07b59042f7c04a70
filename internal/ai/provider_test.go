package ai

import (
	"context"
	"testing"
)

func TestMockProviderAnalyzeFood(t *testing.T) {
	provider := NewMockProvider()

	t.Run("KeywordMatch", func(t *testing.T) {
		resp, err := provider.AnalyzeFood(context.Background(), AnalyzeRequest{
			Description: "Овсянка с бананом",
			MealType:    "breakfast",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.FoodName != "Овсянка" {
			t.Errorf("expected food name Овсянка, got %s", resp.FoodName)
		}
		if resp.Nutrition.Calories != 320 {
			t.Errorf("expected 320 kcal, got %v", resp.Nutrition.Calories)
		}
		if resp.Advice == "" {
			t.Error("expected non-empty advice")
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		req := AnalyzeRequest{Description: "chicken with rice", MealType: "lunch"}
		first, _ := provider.AnalyzeFood(context.Background(), req)
		second, _ := provider.AnalyzeFood(context.Background(), req)
		if first.Nutrition != second.Nutrition {
			t.Errorf("expected identical estimates, got %+v and %+v", first.Nutrition, second.Nutrition)
		}
	})

	t.Run("FallbackByMealType", func(t *testing.T) {
		resp, err := provider.AnalyzeFood(context.Background(), AnalyzeRequest{
			Description: "что-то непонятное",
			MealType:    "snack",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Nutrition.Calories != 220 {
			t.Errorf("expected snack default 220 kcal, got %v", resp.Nutrition.Calories)
		}
	})
}

func TestParseAnalysisContent(t *testing.T) {
	t.Run("PlainJSON", func(t *testing.T) {
		resp, err := parseAnalysisContent(`{"food_name":"Салат","calories":180,"protein_g":4,"carbs_g":12,"fat_g":13,"advice":"ок"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.FoodName != "Салат" || resp.Nutrition.Calories != 180 {
			t.Errorf("unexpected result: %+v", resp)
		}
		if resp.Nutrition.FiberG != nil {
			t.Error("expected fiber to stay nil when omitted")
		}
	})

	t.Run("FencedJSON", func(t *testing.T) {
		content := "```json\n{\"food_name\":\"Суп\",\"calories\":250,\"protein_g\":10,\"carbs_g\":20,\"fat_g\":8,\"sodium_mg\":900,\"advice\":\"меньше соли\"}\n```"
		resp, err := parseAnalysisContent(content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Nutrition.SodiumMg == nil || *resp.Nutrition.SodiumMg != 900 {
			t.Errorf("expected sodium 900, got %+v", resp.Nutrition.SodiumMg)
		}
	})

	t.Run("NoJSON", func(t *testing.T) {
		if _, err := parseAnalysisContent("извините, не могу оценить"); err == nil {
			t.Error("expected error for content without JSON")
		}
	})
}
