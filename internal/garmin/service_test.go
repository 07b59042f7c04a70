package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/storage/memory"
)

func TestSyncPayload(t *testing.T) {
	mem := memory.New()
	service := NewService(nil, mem)

	t.Run("SavesSnapshot", func(t *testing.T) {
		dto, err := service.SyncPayload(context.Background(), "default", vendorPayload("2024-05-01"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.RestingCalories != 1800 {
			t.Errorf("expected resting 1800, got %v", dto.RestingCalories)
		}

		got, err := service.GetDaily(context.Background(), "default", "2024-05-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Steps != 8500 {
			t.Errorf("expected 8500 steps, got %d", got.Steps)
		}
	})

	t.Run("LastWriteWins", func(t *testing.T) {
		second := vendorPayload("2024-05-01")
		second.Steps = 12000
		second.HeartRate = &VendorHeartRate{Resting: 50, Average: 68, Max: 150}

		if _, err := service.SyncPayload(context.Background(), "default", second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := service.GetDaily(context.Background(), "default", "2024-05-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Steps != 12000 {
			t.Errorf("expected overwritten steps 12000, got %d", got.Steps)
		}
		if got.HeartRate == nil || got.HeartRate.Resting != 50 {
			t.Errorf("expected overwritten heart rate, got %+v", got.HeartRate)
		}
	})

	t.Run("InvalidDate", func(t *testing.T) {
		if _, err := service.SyncPayload(context.Background(), "default", vendorPayload("01.05.2024")); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("expected ErrInvalidDate, got %v", err)
		}
	})

	t.Run("MissingPayload", func(t *testing.T) {
		if _, err := service.SyncPayload(context.Background(), "default", nil); err == nil {
			t.Error("expected error for nil payload")
		}
	})
}

func TestGetDailyNotFound(t *testing.T) {
	service := NewService(nil, memory.New())

	if _, err := service.GetDaily(context.Background(), "default", "2024-05-01"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestListRecentSkipsMissingDays(t *testing.T) {
	mem := memory.New()
	service := NewService(nil, mem)

	today := time.Now().Format("2006-01-02")
	twoDaysAgo := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	lastMonth := time.Now().AddDate(0, -1, 0).Format("2006-01-02")

	for _, date := range []string{today, twoDaysAgo, lastMonth} {
		if _, err := service.SyncPayload(context.Background(), "default", vendorPayload(date)); err != nil {
			t.Fatalf("failed to seed %s: %v", date, err)
		}
	}

	snapshots, err := service.ListRecent(context.Background(), "default", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 snapshots in window, got %d", len(snapshots))
	}
	if snapshots[0].SyncDate != today || snapshots[1].SyncDate != twoDaysAgo {
		t.Errorf("expected newest first [%s %s], got [%s %s]",
			today, twoDaysAgo, snapshots[0].SyncDate, snapshots[1].SyncDate)
	}
}

func TestSyncDate(t *testing.T) {
	t.Run("ClientDisabled", func(t *testing.T) {
		service := NewService(nil, memory.New())
		if _, err := service.SyncDate(context.Background(), "default", "2024-05-01"); !errors.Is(err, ErrClientDisabled) {
			t.Errorf("expected ErrClientDisabled, got %v", err)
		}
	})

	t.Run("PullsFromProvider", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(vendorPayload(r.URL.Query().Get("date")))
		}))
		defer provider.Close()

		client := NewClient(provider.URL, "test-token", 5)
		service := NewService(client, memory.New())

		dto, err := service.SyncDate(context.Background(), "default", "2024-05-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.SyncDate != "2024-05-01" || dto.Steps != 8500 {
			t.Errorf("unexpected snapshot: %+v", dto)
		}
	})

	t.Run("ProviderHasNoData", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer provider.Close()

		client := NewClient(provider.URL, "", 5)
		service := NewService(client, memory.New())

		if _, err := service.SyncDate(context.Background(), "default", "2024-05-01"); !errors.Is(err, ErrNoVendorData) {
			t.Errorf("expected ErrNoVendorData, got %v", err)
		}
	})
}

func TestHandleSyncPush(t *testing.T) {
	mem := memory.New()
	handler := NewHandlers(NewService(nil, mem))

	body, _ := json.Marshal(SyncRequest{Payload: vendorPayload("2024-05-01")})
	req := httptest.NewRequest("POST", "/v1/garmin/sync", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleSync(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var dto SnapshotDTO
	json.NewDecoder(w.Body).Decode(&dto)
	if dto.TrainingType != "none" {
		t.Errorf("expected training type none, got %s", dto.TrainingType)
	}
}

func TestHandleSyncPullWithoutClient(t *testing.T) {
	handler := NewHandlers(NewService(nil, memory.New()))

	req := httptest.NewRequest("POST", "/v1/garmin/sync", nil)
	w := httptest.NewRecorder()

	handler.HandleSync(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "sync_disabled" {
		t.Errorf("expected code sync_disabled, got %s", resp.Error.Code)
	}
}
