package profiles

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage/memory"
)

func setupTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	return NewHandlers(NewService(memory.New()))
}

func TestHandleGetBeforeCreation(t *testing.T) {
	handler := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	w := httptest.NewRecorder()

	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "profile_not_found" {
		t.Errorf("expected code profile_not_found, got %s", resp.Error.Code)
	}
}

func TestHandlePutCreatesProfile(t *testing.T) {
	handler := setupTestHandlers(t)

	name := "Алиман"
	protein := 120.0
	steps := 12000
	body, _ := json.Marshal(UpdateProfileRequest{
		Name:         &name,
		ProteinGoalG: &protein,
		StepsGoal:    &steps,
	})

	req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandlePut(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var dto ProfileDTO
	json.NewDecoder(w.Body).Decode(&dto)
	if dto.Name != name {
		t.Errorf("expected name %s, got %s", name, dto.Name)
	}
	if dto.ProteinGoalG == nil || *dto.ProteinGoalG != 120 {
		t.Errorf("expected protein goal 120, got %v", dto.ProteinGoalG)
	}

	// после PUT профиль читается
	getReq := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	getW := httptest.NewRecorder()
	handler.HandleGet(getW, getReq)

	if getW.Code != http.StatusOK {
		t.Fatalf("expected status 200 after PUT, got %d", getW.Code)
	}
}

func TestHandlePutPartialUpdate(t *testing.T) {
	handler := setupTestHandlers(t)

	name := "Я"
	calories := 2000.0
	body, _ := json.Marshal(UpdateProfileRequest{Name: &name, DailyCalorieGoalKcal: &calories})
	req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandlePut(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	// второй PUT меняет только шаги, имя и калории остаются
	steps := 9000
	body, _ = json.Marshal(UpdateProfileRequest{StepsGoal: &steps})
	req = httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(body))
	w = httptest.NewRecorder()
	handler.HandlePut(w, req)

	var dto ProfileDTO
	json.NewDecoder(w.Body).Decode(&dto)
	if dto.Name != "Я" {
		t.Errorf("expected name preserved, got %q", dto.Name)
	}
	if dto.DailyCalorieGoalKcal == nil || *dto.DailyCalorieGoalKcal != 2000 {
		t.Errorf("expected calorie goal preserved, got %v", dto.DailyCalorieGoalKcal)
	}
	if dto.StepsGoal == nil || *dto.StepsGoal != 9000 {
		t.Errorf("expected steps goal 9000, got %v", dto.StepsGoal)
	}
}

func TestHandlePutValidation(t *testing.T) {
	handler := setupTestHandlers(t)

	t.Run("InvalidActivityLevel", func(t *testing.T) {
		level := "extreme"
		body, _ := json.Marshal(UpdateProfileRequest{ActivityLevel: &level})
		req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandlePut(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("NonPositiveGoal", func(t *testing.T) {
		protein := -5.0
		body, _ := json.Marshal(UpdateProfileRequest{ProteinGoalG: &protein})
		req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandlePut(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}

		var resp ErrorResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Error.Code != "invalid_goal" {
			t.Errorf("expected code invalid_goal, got %s", resp.Error.Code)
		}
	})
}
