package garmin

import (
	"testing"
	"time"
)

func vendorPayload(date string, activities ...VendorActivity) *VendorDaily {
	payload := &VendorDaily{
		Date:       date,
		Steps:      8500,
		DistanceM:  6200,
		Activities: activities,
	}
	payload.Calories.Total = 2340
	payload.Calories.Active = 540
	return payload
}

func TestNormalize(t *testing.T) {
	syncedAt := time.Date(2024, 5, 1, 23, 55, 0, 0, time.UTC)

	t.Run("Fields", func(t *testing.T) {
		snapshot := Normalize("default", vendorPayload("2024-05-01"), syncedAt)

		if snapshot.SyncDate != "2024-05-01" {
			t.Errorf("expected sync date 2024-05-01, got %s", snapshot.SyncDate)
		}
		if snapshot.RestingCalories != 1800 {
			t.Errorf("expected resting 1800, got %v", snapshot.RestingCalories)
		}
		if snapshot.DistanceKm != 6.2 {
			t.Errorf("expected 6.2 km, got %v", snapshot.DistanceKm)
		}
		if snapshot.TrainingType != "none" {
			t.Errorf("expected training type none, got %s", snapshot.TrainingType)
		}
		if !snapshot.SyncedAt.Equal(syncedAt) {
			t.Errorf("expected synced_at %v, got %v", syncedAt, snapshot.SyncedAt)
		}
	})

	t.Run("RestingNeverClamped", func(t *testing.T) {
		payload := vendorPayload("2024-05-01")
		payload.Calories.Total = 400
		payload.Calories.Active = 700

		snapshot := Normalize("default", payload, syncedAt)
		if snapshot.RestingCalories != -300 {
			t.Errorf("expected resting -300, got %v", snapshot.RestingCalories)
		}
	})

	t.Run("HeartRateZones", func(t *testing.T) {
		payload := vendorPayload("2024-05-01")
		payload.HeartRate = &VendorHeartRate{
			Resting: 52,
			Average: 71,
			Max:     164,
			Zones:   []VendorZone{{Zone: 2, Minutes: 34.5}},
		}

		snapshot := Normalize("default", payload, syncedAt)
		if snapshot.HeartRate == nil {
			t.Fatal("expected heart rate data")
		}
		if snapshot.HeartRate.Resting != 52 || len(snapshot.HeartRate.Zones) != 1 {
			t.Errorf("unexpected heart rate: %+v", snapshot.HeartRate)
		}
		if snapshot.HeartRate.Zones[0].Minutes != 34.5 {
			t.Errorf("expected 34.5 zone minutes, got %v", snapshot.HeartRate.Zones[0].Minutes)
		}
	})

	t.Run("ActivityDistanceConverted", func(t *testing.T) {
		snapshot := Normalize("default", vendorPayload("2024-05-01", VendorActivity{
			Type: "running", Name: "Morning Run", DurationMinutes: 31, Calories: 320, DistanceM: 5000,
		}), syncedAt)

		if len(snapshot.Activities) != 1 {
			t.Fatalf("expected 1 activity, got %d", len(snapshot.Activities))
		}
		if snapshot.Activities[0].DistanceKm != 5 {
			t.Errorf("expected 5 km, got %v", snapshot.Activities[0].DistanceKm)
		}
	})
}

func TestClassifyTraining(t *testing.T) {
	cases := []struct {
		name       string
		activities []VendorActivity
		want       string
	}{
		{"NoActivities", nil, "none"},
		{"AerobicOnly", []VendorActivity{{Type: "running"}}, "A"},
		{"StrengthOnly", []VendorActivity{{Type: "strength_training"}}, "S"},
		{"Both", []VendorActivity{{Type: "cycling"}, {Type: "crossfit"}}, "both"},
		{"UnknownType", []VendorActivity{{Type: "yoga"}}, "none"},
		{"CaseInsensitive", []VendorActivity{{Type: " Running "}}, "A"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyTraining(tc.activities); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestResyncerNextRun(t *testing.T) {
	r := NewResyncer(nil, "default", 23, 55)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	next := r.nextRun(now)
	if next.Day() != 1 || next.Hour() != 23 || next.Minute() != 55 {
		t.Errorf("expected same-day 23:55, got %v", next)
	}

	late := time.Date(2024, 5, 1, 23, 56, 0, 0, time.UTC)
	next = r.nextRun(late)
	if next.Day() != 2 {
		t.Errorf("expected next-day run after cutoff, got %v", next)
	}
}
