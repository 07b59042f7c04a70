package weights

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/userctx"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleUpsert handles POST /v1/weights
func (h *Handlers) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	dto, err := h.service.Upsert(r.Context(), ownerUserID(r), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		case errors.Is(err, ErrInvalidWeight):
			writeError(w, http.StatusBadRequest, "invalid_weight", "weight must be positive")
		case errors.Is(err, ErrNoMeasurements):
			writeError(w, http.StatusBadRequest, "invalid_request", "morning_kg or evening_kg is required")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandleGet handles GET /v1/weights?date=YYYY-MM-DD
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	dto, err := h.service.Get(r.Context(), ownerUserID(r), date)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		case errors.Is(err, ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "entry_not_found", "no weight entry for this date")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
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
