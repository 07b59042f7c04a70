package weights

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

func postWeight(t *testing.T, handler *Handlers, req UpsertWeightRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/v1/weights", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleUpsert(w, httpReq)
	return w
}

func TestHandleUpsertMergesMeasurements(t *testing.T) {
	handler := setupTestHandlers(t)

	morning := 71.2
	if w := postWeight(t, handler, UpsertWeightRequest{Date: "2024-05-01", MorningKg: &morning}); w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	evening := 71.9
	w := postWeight(t, handler, UpsertWeightRequest{Date: "2024-05-01", EveningKg: &evening})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var dto WeightEntryDTO
	json.NewDecoder(w.Body).Decode(&dto)
	if dto.MorningKg == nil || *dto.MorningKg != 71.2 {
		t.Errorf("expected morning 71.2 preserved, got %v", dto.MorningKg)
	}
	if dto.EveningKg == nil || *dto.EveningKg != 71.9 {
		t.Errorf("expected evening 71.9, got %v", dto.EveningKg)
	}
	if dto.ChangeKg == nil || *dto.ChangeKg < 0.69 || *dto.ChangeKg > 0.71 {
		t.Errorf("expected change ~0.7, got %v", dto.ChangeKg)
	}
}

func TestHandleUpsertValidation(t *testing.T) {
	handler := setupTestHandlers(t)

	t.Run("NoMeasurements", func(t *testing.T) {
		w := postWeight(t, handler, UpsertWeightRequest{Date: "2024-05-01"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("NegativeWeight", func(t *testing.T) {
		negative := -3.0
		w := postWeight(t, handler, UpsertWeightRequest{Date: "2024-05-01", MorningKg: &negative})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}

		var resp ErrorResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Error.Code != "invalid_weight" {
			t.Errorf("expected code invalid_weight, got %s", resp.Error.Code)
		}
	})

	t.Run("BadDate", func(t *testing.T) {
		morning := 70.0
		w := postWeight(t, handler, UpsertWeightRequest{Date: "May 1", MorningKg: &morning})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleGet(t *testing.T) {
	handler := setupTestHandlers(t)

	t.Run("NotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/weights?date=2024-05-01", nil)
		w := httptest.NewRecorder()

		handler.HandleGet(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("OK", func(t *testing.T) {
		morning := 70.5
		postWeight(t, handler, UpsertWeightRequest{Date: "2024-05-01", MorningKg: &morning})

		req := httptest.NewRequest(http.MethodGet, "/v1/weights?date=2024-05-01", nil)
		w := httptest.NewRecorder()

		handler.HandleGet(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var dto WeightEntryDTO
		json.NewDecoder(w.Body).Decode(&dto)
		if dto.MorningKg == nil || *dto.MorningKg != 70.5 {
			t.Errorf("expected morning 70.5, got %v", dto.MorningKg)
		}
	})
}
