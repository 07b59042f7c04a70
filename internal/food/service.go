package food

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/ai"
	"github.com/AlimanIrawan/zhiji-sub000/internal/blob"
	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrRecordNotFound  = errors.New("food record not found")
	ErrAccessDenied    = errors.New("food record belongs to another user")
	ErrInvalidDate     = errors.New("invalid date format")
	ErrInvalidTime     = errors.New("invalid time format")
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrInvalidMacros   = errors.New("nutrition values must be non-negative")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedMime = errors.New("unsupported mime type")
)

var mealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// Service handles food record business logic
type Service struct {
	foodStorage     storage.FoodRecordsStorage
	provider        ai.Provider
	blobStore       blob.Store
	localMode       bool // true if no S3 configured
	publicBaseURL   string
	preferPublicURL bool
	presignTTL      int
	maxUploadMB     int
	allowedMimes    []string
}

// NewService creates a new food service
func NewService(
	foodStorage storage.FoodRecordsStorage,
	provider ai.Provider,
	blobStore blob.Store,
	maxUploadMB int,
	allowedMimes string,
	publicBaseURL string,
	preferPublicURL bool,
	presignTTL int,
) *Service {
	mimes := strings.Split(allowedMimes, ",")
	for i, m := range mimes {
		mimes[i] = strings.TrimSpace(m)
	}
	if presignTTL <= 0 {
		presignTTL = 900
	}

	return &Service{
		foodStorage:     foodStorage,
		provider:        provider,
		blobStore:       blobStore,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
		presignTTL:      presignTTL,
		maxUploadMB:     maxUploadMB,
		allowedMimes:    mimes,
	}
}

// CreateRecord создаёт новую запись о приёме пищи
func (s *Service) CreateRecord(ctx context.Context, userID string, req CreateFoodRecordRequest) (*FoodRecordDTO, error) {
	if err := validateDate(req.RecordDate); err != nil {
		return nil, err
	}
	if err := validateRecordTime(req.RecordTime); err != nil {
		return nil, err
	}
	if !mealTypes[req.MealType] {
		return nil, ErrInvalidMealType
	}
	if err := validateNutrition(req.Nutrition); err != nil {
		return nil, err
	}

	record := &storage.FoodRecord{
		OwnerUserID: userID,
		RecordDate:  req.RecordDate,
		RecordTime:  req.RecordTime,
		Description: strings.TrimSpace(req.Description),
		MealType:    req.MealType,
		Nutrition:   toStorageNutrition(req.Nutrition),
		AIAdvice:    req.AIAdvice,
	}

	if err := s.foodStorage.CreateFoodRecord(ctx, record); err != nil {
		return nil, err
	}

	return toDTO(record), nil
}

// GetRecord возвращает запись по ID
func (s *Service) GetRecord(ctx context.Context, userID string, id uuid.UUID) (*FoodRecordDTO, error) {
	record, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toDTO(record), nil
}

// ListByDate возвращает записи за день
func (s *Service) ListByDate(ctx context.Context, userID string, date string) ([]FoodRecordDTO, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	records, err := s.foodStorage.ListFoodRecordsByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	return toDTOs(records), nil
}

// ListRecent возвращает последние записи (newest first)
func (s *Service) ListRecent(ctx context.Context, userID string, limit int) ([]FoodRecordDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	records, err := s.foodStorage.ListRecentFoodRecords(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	return toDTOs(records), nil
}

// UpdateRecord частично обновляет запись
func (s *Service) UpdateRecord(ctx context.Context, userID string, id uuid.UUID, req UpdateFoodRecordRequest) (*FoodRecordDTO, error) {
	record, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.RecordDate != nil {
		if err := validateDate(*req.RecordDate); err != nil {
			return nil, err
		}
		record.RecordDate = *req.RecordDate
	}
	if req.RecordTime != nil {
		if err := validateRecordTime(*req.RecordTime); err != nil {
			return nil, err
		}
		record.RecordTime = *req.RecordTime
	}
	if req.Description != nil {
		record.Description = strings.TrimSpace(*req.Description)
	}
	if req.MealType != nil {
		if !mealTypes[*req.MealType] {
			return nil, ErrInvalidMealType
		}
		record.MealType = *req.MealType
	}
	if req.Nutrition != nil {
		if err := validateNutrition(*req.Nutrition); err != nil {
			return nil, err
		}
		record.Nutrition = toStorageNutrition(*req.Nutrition)
	}
	if req.AIAdvice != nil {
		record.AIAdvice = req.AIAdvice
	}

	if err := s.foodStorage.UpdateFoodRecord(ctx, userID, record); err != nil {
		return nil, mapStorageErr(err)
	}

	return toDTO(record), nil
}

// DeleteRecord удаляет запись и её фото (если есть)
func (s *Service) DeleteRecord(ctx context.Context, userID string, id uuid.UUID) error {
	record, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if !s.localMode && record.PhotoObjectKey != nil && *record.PhotoObjectKey != "" {
		// фото-сирота в S3 хуже, чем лишний запрос; ошибку игнорируем
		_ = s.blobStore.DeleteObject(ctx, *record.PhotoObjectKey)
	}

	return mapStorageErr(s.foodStorage.DeleteFoodRecord(ctx, userID, id))
}

// Analyze оценивает КБЖУ блюда по описанию (без сохранения)
func (s *Service) Analyze(ctx context.Context, userID string, req AnalyzeFoodRequest) (*AnalyzeFoodResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("description is required")
	}

	resp, err := s.provider.AnalyzeFood(ctx, ai.AnalyzeRequest{
		UserID:      userID,
		Description: req.Description,
		MealType:    req.MealType,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return &AnalyzeFoodResponse{
		FoodName:  resp.FoodName,
		Nutrition: fromStorageNutrition(resp.Nutrition),
		Advice:    resp.Advice,
	}, nil
}

// AnalyzePhoto оценивает КБЖУ по фото (и опциональному описанию)
func (s *Service) AnalyzePhoto(ctx context.Context, userID string, description, mealType string, data []byte, contentType string) (*AnalyzeFoodResponse, error) {
	if err := s.checkUpload(int64(len(data)), contentType); err != nil {
		return nil, err
	}

	resp, err := s.provider.AnalyzeFood(ctx, ai.AnalyzeRequest{
		UserID:      userID,
		Description: description,
		MealType:    mealType,
		ImageData:   data,
		ImageMime:   contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return &AnalyzeFoodResponse{
		FoodName:  resp.FoodName,
		Nutrition: fromStorageNutrition(resp.Nutrition),
		Advice:    resp.Advice,
	}, nil
}

// AttachPhoto сохраняет фото еды и привязывает его к записи
func (s *Service) AttachPhoto(ctx context.Context, userID string, id uuid.UUID, data []byte, contentType string) (*FoodRecordDTO, error) {
	record, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUpload(int64(len(data)), contentType); err != nil {
		return nil, err
	}

	key := blob.FoodPhotoKey(userID, id, extForMime(contentType))

	var imageURL string
	if s.localMode {
		if err := s.foodStorage.PutFoodPhoto(ctx, key, data, contentType); err != nil {
			return nil, fmt.Errorf("failed to store photo: %w", err)
		}
		imageURL = fmt.Sprintf("/v1/food/records/%s/photo", id)
	} else {
		if _, err := s.blobStore.PutObject(ctx, key, data, contentType); err != nil {
			return nil, fmt.Errorf("failed to upload photo: %w", err)
		}
		if s.preferPublicURL && s.publicBaseURL != "" {
			imageURL = strings.TrimSuffix(s.publicBaseURL, "/") + "/" + key
		} else {
			// стабильный URL; редирект на presigned делает download handler
			imageURL = fmt.Sprintf("/v1/food/records/%s/photo", id)
		}
	}

	record.ImageURL = &imageURL
	record.PhotoObjectKey = &key

	if err := s.foodStorage.UpdateFoodRecord(ctx, userID, record); err != nil {
		return nil, mapStorageErr(err)
	}

	return toDTO(record), nil
}

// GetPhotoDownloadURL returns a redirect URL for S3 mode ("" for local serve)
func (s *Service) GetPhotoDownloadURL(ctx context.Context, userID string, id uuid.UUID) (string, bool, error) {
	record, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return "", false, err
	}
	if record.PhotoObjectKey == nil || *record.PhotoObjectKey == "" {
		return "", false, ErrRecordNotFound
	}

	if s.localMode {
		return "", false, nil
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *record.PhotoObjectKey, true, nil
	}

	presigned, err := s.blobStore.PresignGet(ctx, *record.PhotoObjectKey, s.presignTTL)
	if err != nil {
		return "", false, fmt.Errorf("failed to presign photo URL: %w", err)
	}
	return presigned, true, nil
}

// GetPhotoData возвращает байты фото (local mode, либо прокси из S3)
func (s *Service) GetPhotoData(ctx context.Context, userID string, id uuid.UUID) ([]byte, string, error) {
	record, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	if record.PhotoObjectKey == nil || *record.PhotoObjectKey == "" {
		return nil, "", ErrRecordNotFound
	}

	if s.localMode {
		data, contentType, err := s.foodStorage.GetFoodPhoto(ctx, *record.PhotoObjectKey)
		if err != nil {
			return nil, "", mapStorageErr(err)
		}
		return data, contentType, nil
	}

	data, err := s.blobStore.GetObject(ctx, *record.PhotoObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get photo: %w", err)
	}
	return data, "application/octet-stream", nil
}

// MARK: - Helpers

func (s *Service) getOwned(ctx context.Context, userID string, id uuid.UUID) (*storage.FoodRecord, error) {
	record, err := s.foodStorage.GetFoodRecord(ctx, userID, id)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return record, nil
}

func (s *Service) checkUpload(size int64, contentType string) error {
	if s.maxUploadMB > 0 && size > int64(s.maxUploadMB)*1024*1024 {
		return ErrFileTooLarge
	}
	for _, allowed := range s.allowedMimes {
		if strings.EqualFold(contentType, allowed) {
			return nil
		}
	}
	return ErrUnsupportedMime
}

func mapStorageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrRecordNotFound
	case errors.Is(err, storage.ErrForbidden):
		return ErrAccessDenied
	default:
		return err
	}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func validateRecordTime(t string) error {
	if t == "" {
		return nil
	}
	if _, err := time.Parse("15:04", t); err != nil {
		return ErrInvalidTime
	}
	return nil
}

func validateNutrition(n NutritionDTO) error {
	if n.Calories < 0 || n.ProteinG < 0 || n.CarbsG < 0 || n.FatG < 0 {
		return ErrInvalidMacros
	}
	for _, opt := range []*float64{n.FiberG, n.SugarG, n.SodiumMg} {
		if opt != nil && *opt < 0 {
			return ErrInvalidMacros
		}
	}
	return nil
}

func toStorageNutrition(n NutritionDTO) storage.NutritionInfo {
	return storage.NutritionInfo{
		Calories: n.Calories,
		ProteinG: n.ProteinG,
		CarbsG:   n.CarbsG,
		FatG:     n.FatG,
		FiberG:   n.FiberG,
		SugarG:   n.SugarG,
		SodiumMg: n.SodiumMg,
	}
}

func fromStorageNutrition(n storage.NutritionInfo) NutritionDTO {
	return NutritionDTO{
		Calories: n.Calories,
		ProteinG: n.ProteinG,
		CarbsG:   n.CarbsG,
		FatG:     n.FatG,
		FiberG:   n.FiberG,
		SugarG:   n.SugarG,
		SodiumMg: n.SodiumMg,
	}
}

func toDTO(record *storage.FoodRecord) *FoodRecordDTO {
	return &FoodRecordDTO{
		ID:          record.ID,
		RecordDate:  record.RecordDate,
		RecordTime:  record.RecordTime,
		Description: record.Description,
		MealType:    record.MealType,
		Nutrition:   fromStorageNutrition(record.Nutrition),
		AIAdvice:    record.AIAdvice,
		ImageURL:    record.ImageURL,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toDTOs(records []storage.FoodRecord) []FoodRecordDTO {
	dtos := make([]FoodRecordDTO, len(records))
	for i := range records {
		dtos[i] = *toDTO(&records[i])
	}
	return dtos
}

func extForMime(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return "png"
	case "image/heic":
		return "heic"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
