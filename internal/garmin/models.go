package garmin

import "time"

// VendorDaily — сырой дневной payload провайдера носимых устройств.
// Дистанция приходит в метрах, калории раздельно total/active.
type VendorDaily struct {
	Date      string  `json:"date"`
	Steps     int     `json:"steps"`
	DistanceM float64 `json:"distance_m"`

	Calories struct {
		Total  float64 `json:"total"`
		Active float64 `json:"active"`
	} `json:"calories"`

	HeartRate  *VendorHeartRate `json:"heart_rate"`
	Activities []VendorActivity `json:"activities"`
}

type VendorHeartRate struct {
	Resting int          `json:"resting"`
	Average int          `json:"average"`
	Max     int          `json:"max"`
	Zones   []VendorZone `json:"zones"`
}

type VendorZone struct {
	Zone    int     `json:"zone"`
	Minutes float64 `json:"minutes"`
}

type VendorActivity struct {
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"duration_minutes"`
	Calories        float64 `json:"calories"`
	DistanceM       float64 `json:"distance_m"`
}

// SnapshotDTO — нормализованный снимок в ответах API.
type SnapshotDTO struct {
	SyncDate        string        `json:"sync_date"`
	TotalCalories   float64       `json:"total_calories"`
	ActiveCalories  float64       `json:"active_calories"`
	RestingCalories float64       `json:"resting_calories"`
	Steps           int           `json:"steps"`
	DistanceKm      float64       `json:"distance_km"`
	HeartRate       *HeartRateDTO `json:"heart_rate,omitempty"`
	Activities      []ActivityDTO `json:"activities,omitempty"`
	TrainingType    string        `json:"training_type"`
	SyncedAt        time.Time     `json:"synced_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type HeartRateDTO struct {
	Resting int                `json:"resting"`
	Average int                `json:"average"`
	Max     int                `json:"max"`
	Zones   []HeartRateZoneDTO `json:"zones,omitempty"`
}

type HeartRateZoneDTO struct {
	Zone    int     `json:"zone"`
	Minutes float64 `json:"minutes"`
}

type ActivityDTO struct {
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"duration_minutes"`
	Calories        float64 `json:"calories"`
	DistanceKm      float64 `json:"distance_km"`
}

// SyncRequest — запрос POST /v1/garmin/sync.
// Либо date (pull через клиента провайдера), либо payload (push с устройства).
type SyncRequest struct {
	Date    string       `json:"date"`
	Payload *VendorDaily `json:"payload"`
}

type SnapshotsResponse struct {
	Snapshots []SnapshotDTO `json:"snapshots"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
