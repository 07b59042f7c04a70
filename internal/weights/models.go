package weights

import "time"

// WeightEntryDTO — вес за день (утро/вечер опциональны).
type WeightEntryDTO struct {
	Date      string    `json:"date"`
	MorningKg *float64  `json:"morning_kg,omitempty"`
	EveningKg *float64  `json:"evening_kg,omitempty"`
	ChangeKg  *float64  `json:"change_kg,omitempty"` // evening − morning
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertWeightRequest — запрос POST /v1/weights.
// Присылается одно или оба измерения; отсутствующее не затирается.
type UpsertWeightRequest struct {
	Date      string   `json:"date"`
	MorningKg *float64 `json:"morning_kg"`
	EveningKg *float64 `json:"evening_kg"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
