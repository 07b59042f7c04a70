package food

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/AlimanIrawan/zhiji-sub000/internal/ai"
	"github.com/AlimanIrawan/zhiji-sub000/internal/storage/memory"
	"github.com/google/uuid"
)

func setupTestService(t *testing.T) (*Service, *memory.MemoryStorage) {
	t.Helper()
	mem := memory.New()
	service := NewService(mem, ai.NewMockProvider(), nil, 10, "image/jpeg, image/png", "", false, 900)
	return service, mem
}

func validCreateRequest() CreateFoodRecordRequest {
	return CreateFoodRecordRequest{
		RecordDate:  "2024-05-01",
		RecordTime:  "08:30",
		Description: "овсянка с бананом",
		MealType:    "breakfast",
		Nutrition:   NutritionDTO{Calories: 320, ProteinG: 12, CarbsG: 58, FatG: 6},
	}
}

func TestCreateRecord(t *testing.T) {
	service, _ := setupTestService(t)

	t.Run("OK", func(t *testing.T) {
		dto, err := service.CreateRecord(context.Background(), "default", validCreateRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.ID == uuid.Nil {
			t.Error("expected generated ID")
		}
		if dto.MealType != "breakfast" || dto.Nutrition.Calories != 320 {
			t.Errorf("unexpected dto: %+v", dto)
		}
	})

	t.Run("InvalidDate", func(t *testing.T) {
		req := validCreateRequest()
		req.RecordDate = "05/01/2024"
		if _, err := service.CreateRecord(context.Background(), "default", req); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("expected ErrInvalidDate, got %v", err)
		}
	})

	t.Run("InvalidTime", func(t *testing.T) {
		req := validCreateRequest()
		req.RecordTime = "25:99"
		if _, err := service.CreateRecord(context.Background(), "default", req); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("expected ErrInvalidTime, got %v", err)
		}
	})

	t.Run("InvalidMealType", func(t *testing.T) {
		req := validCreateRequest()
		req.MealType = "brunch"
		if _, err := service.CreateRecord(context.Background(), "default", req); !errors.Is(err, ErrInvalidMealType) {
			t.Errorf("expected ErrInvalidMealType, got %v", err)
		}
	})

	t.Run("NegativeMacros", func(t *testing.T) {
		req := validCreateRequest()
		req.Nutrition.ProteinG = -1
		if _, err := service.CreateRecord(context.Background(), "default", req); !errors.Is(err, ErrInvalidMacros) {
			t.Errorf("expected ErrInvalidMacros, got %v", err)
		}
	})

	t.Run("NegativeOptionalField", func(t *testing.T) {
		req := validCreateRequest()
		negative := -2.0
		req.Nutrition.SugarG = &negative
		if _, err := service.CreateRecord(context.Background(), "default", req); !errors.Is(err, ErrInvalidMacros) {
			t.Errorf("expected ErrInvalidMacros, got %v", err)
		}
	})
}

func TestGetRecordOwnership(t *testing.T) {
	service, _ := setupTestService(t)

	dto, err := service.CreateRecord(context.Background(), "alice", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create record: %v", err)
	}

	t.Run("Owner", func(t *testing.T) {
		got, err := service.GetRecord(context.Background(), "alice", dto.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != dto.ID {
			t.Errorf("expected id %s, got %s", dto.ID, got.ID)
		}
	})

	t.Run("OtherUser", func(t *testing.T) {
		if _, err := service.GetRecord(context.Background(), "bob", dto.ID); !errors.Is(err, ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := service.GetRecord(context.Background(), "alice", uuid.New()); !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestListRecent(t *testing.T) {
	service, _ := setupTestService(t)

	for i := 0; i < 5; i++ {
		req := validCreateRequest()
		if _, err := service.CreateRecord(context.Background(), "default", req); err != nil {
			t.Fatalf("failed to create record %d: %v", i, err)
		}
	}

	records, err := service.ListRecent(context.Background(), "default", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}

	all, err := service.ListRecent(context.Background(), "default", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 records with default limit, got %d", len(all))
	}
}

func TestUpdateRecordPartial(t *testing.T) {
	service, _ := setupTestService(t)

	dto, err := service.CreateRecord(context.Background(), "default", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create record: %v", err)
	}

	newDescription := "овсянка с ягодами"
	updated, err := service.UpdateRecord(context.Background(), "default", dto.ID, UpdateFoodRecordRequest{
		Description: &newDescription,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != newDescription {
		t.Errorf("expected updated description, got %s", updated.Description)
	}
	if updated.MealType != "breakfast" || updated.Nutrition.Calories != 320 {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	badMealType := "midnight"
	if _, err := service.UpdateRecord(context.Background(), "default", dto.ID, UpdateFoodRecordRequest{
		MealType: &badMealType,
	}); !errors.Is(err, ErrInvalidMealType) {
		t.Errorf("expected ErrInvalidMealType, got %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	service, _ := setupTestService(t)

	dto, err := service.CreateRecord(context.Background(), "default", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create record: %v", err)
	}

	if err := service.DeleteRecord(context.Background(), "default", dto.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.GetRecord(context.Background(), "default", dto.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
	}

	if err := service.DeleteRecord(context.Background(), "default", dto.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	service, _ := setupTestService(t)

	t.Run("OK", func(t *testing.T) {
		resp, err := service.Analyze(context.Background(), "default", AnalyzeFoodRequest{
			Description: "куриная грудка с рисом",
			MealType:    "lunch",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Nutrition.Calories <= 0 {
			t.Errorf("expected positive calorie estimate, got %v", resp.Nutrition.Calories)
		}
		if resp.Advice == "" {
			t.Error("expected non-empty advice")
		}
	})

	t.Run("EmptyDescription", func(t *testing.T) {
		if _, err := service.Analyze(context.Background(), "default", AnalyzeFoodRequest{}); err == nil {
			t.Error("expected error for empty description")
		}
	})
}

func TestAttachPhotoLocalMode(t *testing.T) {
	service, mem := setupTestService(t)

	dto, err := service.CreateRecord(context.Background(), "default", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create record: %v", err)
	}

	photo := bytes.Repeat([]byte{0xFF}, 128)

	t.Run("OK", func(t *testing.T) {
		updated, err := service.AttachPhoto(context.Background(), "default", dto.ID, photo, "image/jpeg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.ImageURL == nil || *updated.ImageURL == "" {
			t.Fatal("expected image_url to be set")
		}

		data, contentType, err := service.GetPhotoData(context.Background(), "default", dto.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(data, photo) {
			t.Error("photo bytes mismatch")
		}
		if contentType != "image/jpeg" {
			t.Errorf("expected image/jpeg, got %s", contentType)
		}

		record, err := mem.GetFoodRecord(context.Background(), "default", dto.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.PhotoObjectKey == nil {
			t.Error("expected photo object key on record")
		}
	})

	t.Run("UnsupportedMime", func(t *testing.T) {
		if _, err := service.AttachPhoto(context.Background(), "default", dto.ID, photo, "application/pdf"); !errors.Is(err, ErrUnsupportedMime) {
			t.Errorf("expected ErrUnsupportedMime, got %v", err)
		}
	})

	t.Run("TooLarge", func(t *testing.T) {
		huge := make([]byte, 11*1024*1024)
		if _, err := service.AttachPhoto(context.Background(), "default", dto.ID, huge, "image/jpeg"); !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("OtherUser", func(t *testing.T) {
		if _, err := service.AttachPhoto(context.Background(), "bob", dto.ID, photo, "image/jpeg"); !errors.Is(err, ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})
}
