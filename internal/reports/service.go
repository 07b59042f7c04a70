package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/blob"
	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidFormat  = errors.New("invalid report format")
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvalidRange   = errors.New("invalid date range")
	ErrRangeTooLarge  = errors.New("date range too large")
	ErrReportNotFound = errors.New("report not found")
	ErrAccessDenied   = errors.New("access denied")
)

// Service содержит бизнес-логику отчётов.
// In local mode report bytes live in the metadata row; in S3 mode they
// are uploaded under blob.ReportKey and only the key is persisted.
type Service struct {
	reportsStorage  storage.ReportsStorage
	generator       *Generator
	blobStore       blob.Store
	maxRangeDays    int
	presignTTL      int
	localMode       bool
	publicBaseURL   string
	preferPublicURL bool
}

// NewService создаёт новый сервис отчётов. blobStore == nil — local mode.
func NewService(
	reportsStorage storage.ReportsStorage,
	summaries SummarySource,
	blobStore blob.Store,
	fontPath string,
	maxRangeDays int,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
) *Service {
	return &Service{
		reportsStorage:  reportsStorage,
		generator:       NewGenerator(summaries, fontPath),
		blobStore:       blobStore,
		maxRangeDays:    maxRangeDays,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// CreateReport генерирует отчёт за период и сохраняет его.
func (s *Service) CreateReport(ctx context.Context, userID string, req CreateReportRequest) (*ReportDTO, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	fromDay, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDay, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if fromDay.After(toDay) {
		return nil, ErrInvalidRange
	}
	if int(toDay.Sub(fromDay).Hours()/24)+1 > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	data, err := s.generator.GenerateReport(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := &storage.ReportMeta{
		ID:          uuid.New(),
		OwnerUserID: userID,
		Format:      req.Format,
		FromDate:    req.From,
		ToDate:      req.To,
		SizeBytes:   int64(len(data)),
		Status:      StatusReady,
	}

	if s.localMode {
		report.Data = data
	} else {
		key := blob.ReportKey(userID, report.ID, req.Format)
		if _, err := s.blobStore.PutObject(ctx, key, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload report: %w", err)
		}
		report.ObjectKey = &key
	}

	if err := s.reportsStorage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return s.toDTO(report), nil
}

// GetReport возвращает метаданные отчёта.
func (s *Service) GetReport(ctx context.Context, userID string, id uuid.UUID) (*ReportDTO, error) {
	meta, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(meta), nil
}

// ListReports возвращает отчёты пользователя, newest first.
func (s *Service) ListReports(ctx context.Context, userID string, limit, offset int) ([]ReportDTO, error) {
	metaList, err := s.reportsStorage.ListReports(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	dtos := make([]ReportDTO, len(metaList))
	for i := range metaList {
		dtos[i] = *s.toDTO(&metaList[i])
	}
	return dtos, nil
}

// DeleteReport удаляет отчёт. S3-объект чистится best-effort:
// потерянный файл в бакете лучше висящей записи в БД.
func (s *Service) DeleteReport(ctx context.Context, userID string, id uuid.UUID) error {
	meta, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			log.Printf("WARN: failed to delete report object key=%s: %v", *meta.ObjectKey, err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, userID, id); err != nil {
		return mapStorageErr(err)
	}
	return nil
}

// GetDownloadURL returns a redirect URL for S3 mode ("" for local serve)
func (s *Service) GetDownloadURL(ctx context.Context, userID string, id uuid.UUID) (string, bool, error) {
	meta, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return "", false, err
	}

	if s.localMode || meta.ObjectKey == nil {
		return "", false, nil
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey, true, nil
	}

	presigned, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", false, fmt.Errorf("failed to presign report URL: %w", err)
	}
	return presigned, true, nil
}

// GetReportData возвращает байты отчёта с content-type и именем файла.
func (s *Service) GetReportData(ctx context.Context, userID string, id uuid.UUID) ([]byte, string, string, error) {
	meta, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, "", "", err
	}

	filename := fmt.Sprintf("report_%s_%s.%s", meta.FromDate, meta.ToDate, meta.Format)

	if s.localMode || meta.ObjectKey == nil {
		return meta.Data, contentTypeFor(meta.Format), filename, nil
	}

	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to get report object: %w", err)
	}
	return data, contentTypeFor(meta.Format), filename, nil
}

// MARK: - Helpers

func (s *Service) getOwned(ctx context.Context, userID string, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reportsStorage.GetReport(ctx, userID, id)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return meta, nil
}

func (s *Service) toDTO(meta *storage.ReportMeta) *ReportDTO {
	downloadURL := fmt.Sprintf("/v1/reports/%s/download", meta.ID)
	if !s.localMode && meta.ObjectKey != nil && s.preferPublicURL && s.publicBaseURL != "" {
		downloadURL = strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey
	}

	return &ReportDTO{
		ID:          meta.ID,
		Format:      meta.Format,
		From:        meta.FromDate,
		To:          meta.ToDate,
		DownloadURL: downloadURL,
		SizeBytes:   meta.SizeBytes,
		Status:      meta.Status,
		CreatedAt:   meta.CreatedAt,
	}
}

func mapStorageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrReportNotFound
	case errors.Is(err, storage.ErrForbidden):
		return ErrAccessDenied
	default:
		return err
	}
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}
