package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AlimanIrawan/zhiji-sub000/internal/userctx"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGet handles GET /v1/profile
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	dto, err := h.service.GetProfile(r.Context(), ownerUserID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile_not_found", "profile is not created yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandlePut handles PUT /v1/profile
func (h *Handlers) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	dto, err := h.service.UpsertProfile(r.Context(), ownerUserID(r), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidActivityLevel):
			writeError(w, http.StatusBadRequest, "invalid_activity_level", "activity_level must be low, moderate or high")
		case errors.Is(err, ErrInvalidGoal):
			writeError(w, http.StatusBadRequest, "invalid_goal", "goals and body measurements must be positive")
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
