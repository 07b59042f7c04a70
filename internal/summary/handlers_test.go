package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/AlimanIrawan/zhiji-sub000/internal/storage/memory"
)

func setupTestHandlers(t *testing.T) (*Handlers, *memory.MemoryStorage) {
	t.Helper()
	mem := memory.New()
	service := NewService(mem, mem, mem, 100, 10000).
		WithWeightsStorage(mem).
		WithSummariesStorage(mem)
	return NewHandlers(service), mem
}

func TestHandleGetDaySummary(t *testing.T) {
	handler, mem := setupTestHandlers(t)

	err := mem.CreateFoodRecord(context.Background(), &storage.FoodRecord{
		OwnerUserID: "default",
		RecordDate:  "2024-05-01",
		Description: "oatmeal",
		MealType:    "breakfast",
		Nutrition:   storage.NutritionInfo{Calories: 320, ProteinG: 12, CarbsG: 58, FatG: 6},
	})
	if err != nil {
		t.Fatalf("failed to seed food record: %v", err)
	}

	t.Run("OK", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/summary/day?date=2024-05-01", nil)
		w := httptest.NewRecorder()

		handler.HandleGetDaySummary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var sum DailySummary
		json.NewDecoder(w.Body).Decode(&sum)

		if sum.UserID != "default" {
			t.Errorf("expected userId default, got %s", sum.UserID)
		}
		if sum.SummaryDate != "2024-05-01" {
			t.Errorf("expected summaryDate 2024-05-01, got %s", sum.SummaryDate)
		}
		if sum.Nutrition.TotalCaloriesIn != 320 {
			t.Errorf("expected totalCaloriesIn 320, got %v", sum.Nutrition.TotalCaloriesIn)
		}
	})

	t.Run("InvalidDate", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/summary/day?date=not-a-date", nil)
		w := httptest.NewRecorder()

		handler.HandleGetDaySummary(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}

		var resp ErrorResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Error.Code != "invalid_date" {
			t.Errorf("expected code invalid_date, got %s", resp.Error.Code)
		}
	})
}

func TestHandleRecomputeDaySummary(t *testing.T) {
	handler, mem := setupTestHandlers(t)

	err := mem.CreateFoodRecord(context.Background(), &storage.FoodRecord{
		OwnerUserID: "default",
		RecordDate:  "2024-05-01",
		Description: "chicken salad",
		MealType:    "dinner",
		Nutrition:   storage.NutritionInfo{Calories: 450, ProteinG: 35, CarbsG: 15, FatG: 18},
	})
	if err != nil {
		t.Fatalf("failed to seed food record: %v", err)
	}

	body, _ := json.Marshal(RecomputeRequest{Date: "2024-05-01"})
	req := httptest.NewRequest("POST", "/v1/summary/day/recompute", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleRecomputeDaySummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	row, err := mem.GetDailySummary(context.Background(), "default", "2024-05-01")
	if err != nil {
		t.Fatalf("expected persisted summary: %v", err)
	}
	if len(row.Payload) == 0 {
		t.Error("expected non-empty payload")
	}
}

func TestHandleGetRangeSummaries(t *testing.T) {
	handler, _ := setupTestHandlers(t)

	t.Run("MissingParams", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/summary/range?from=2024-05-01", nil)
		w := httptest.NewRecorder()

		handler.HandleGetRangeSummaries(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("OK", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/summary/range?from=2024-05-01&to=2024-05-02", nil)
		w := httptest.NewRecorder()

		handler.HandleGetRangeSummaries(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp RangeResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if len(resp.Summaries) != 2 {
			t.Errorf("expected 2 summaries, got %d", len(resp.Summaries))
		}
	})
}
