package food

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/userctx"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/food/records
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateFoodRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	dto, err := h.service.CreateRecord(r.Context(), ownerUserID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto)
}

// HandleGet handles GET /v1/food/records/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	dto, err := h.service.GetRecord(r.Context(), ownerUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandleList handles GET /v1/food/records?date=YYYY-MM-DD
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	records, err := h.service.ListByDate(r.Context(), ownerUserID(r), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FoodRecordsResponse{Records: records})
}

// HandleListRecent handles GET /v1/food/records/recent?limit=N
func (h *Handlers) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	records, err := h.service.ListRecent(r.Context(), ownerUserID(r), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FoodRecordsResponse{Records: records})
}

// HandleUpdate handles PATCH /v1/food/records/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	var req UpdateFoodRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	dto, err := h.service.UpdateRecord(r.Context(), ownerUserID(r), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandleDelete handles DELETE /v1/food/records/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRecord(r.Context(), ownerUserID(r), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAnalyze handles POST /v1/food/analyze.
// JSON body для текстового анализа, multipart (поле file) для анализа фото.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		h.handleAnalyzePhoto(w, r)
		return
	}

	var req AnalyzeFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	resp, err := h.service.Analyze(r.Context(), ownerUserID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) handleAnalyzePhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to parse multipart form")
		return
	}

	data, mime, ok := readUpload(w, r)
	if !ok {
		return
	}

	resp, err := h.service.AnalyzePhoto(r.Context(), ownerUserID(r),
		r.FormValue("description"), r.FormValue("meal_type"), data, mime)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleUploadPhoto handles POST /v1/food/records/{id}/photo (multipart)
func (h *Handlers) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to parse multipart form")
		return
	}

	data, mime, ok := readUpload(w, r)
	if !ok {
		return
	}

	dto, err := h.service.AttachPhoto(r.Context(), ownerUserID(r), id, data, mime)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto)
}

// HandleGetPhoto handles GET /v1/food/records/{id}/photo
func (h *Handlers) HandleGetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	downloadURL, isRedirect, err := h.service.GetPhotoDownloadURL(r.Context(), ownerUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if isRedirect {
		http.Redirect(w, r, downloadURL, http.StatusFound)
		return
	}

	data, contentType, err := h.service.GetPhotoData(r.Context(), ownerUserID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// MARK: - Helpers

func recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := strings.TrimSpace(r.PathValue("id"))
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid record ID")
		return uuid.Nil, false
	}
	return id, true
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "file is required")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to read file")
		return nil, "", false
	}

	return data, fileHeader.Header.Get("Content-Type"), true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "record_not_found", "food record not found")
	case errors.Is(err, ErrAccessDenied):
		writeError(w, http.StatusForbidden, "forbidden", "food record belongs to another user")
	case errors.Is(err, ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", "record_date must be YYYY-MM-DD")
	case errors.Is(err, ErrInvalidTime):
		writeError(w, http.StatusBadRequest, "invalid_time", "record_time must be HH:MM")
	case errors.Is(err, ErrInvalidMealType):
		writeError(w, http.StatusBadRequest, "invalid_meal_type", "meal_type must be breakfast, lunch, dinner or snack")
	case errors.Is(err, ErrInvalidMacros):
		writeError(w, http.StatusBadRequest, "invalid_nutrition", "nutrition values must be non-negative")
	case errors.Is(err, ErrFileTooLarge):
		writeError(w, http.StatusBadRequest, "file_too_large", "file exceeds the maximum upload size")
	case errors.Is(err, ErrUnsupportedMime):
		writeError(w, http.StatusBadRequest, "unsupported_mime", "file type not supported")
	case strings.Contains(err.Error(), "required"):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func ownerUserID(r *http.Request) string {
	if userID, ok := userctx.GetUserID(r.Context()); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return "default"
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
