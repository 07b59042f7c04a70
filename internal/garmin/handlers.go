package garmin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
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

// HandleSync handles POST /v1/garmin/sync.
// Body с payload — push с устройства; body с date (или пустой) —
// pull через клиента провайдера.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	userID := ownerUserID(r)

	var dto *SnapshotDTO
	var err error
	if req.Payload != nil {
		dto, err = h.service.SyncPayload(r.Context(), userID, req.Payload)
	} else {
		date := strings.TrimSpace(req.Date)
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		dto, err = h.service.SyncDate(r.Context(), userID, date)
	}

	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dto)
}

// HandleGetDaily handles GET /v1/garmin/daily?date=YYYY-MM-DD
func (h *Handlers) HandleGetDaily(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	dto, err := h.service.GetDaily(r.Context(), ownerUserID(r), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandleListRecent handles GET /v1/garmin/recent?days=N
func (h *Handlers) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	days := 7
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	snapshots, err := h.service.ListRecent(r.Context(), ownerUserID(r), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SnapshotsResponse{Snapshots: snapshots})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
	case errors.Is(err, ErrSnapshotNotFound):
		writeError(w, http.StatusNotFound, "snapshot_not_found", "no snapshot for this date")
	case errors.Is(err, ErrNoVendorData):
		writeError(w, http.StatusNotFound, "no_vendor_data", "provider has no data for this date")
	case errors.Is(err, ErrClientDisabled):
		writeError(w, http.StatusConflict, "sync_disabled", "provider client is not configured, push a payload instead")
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
