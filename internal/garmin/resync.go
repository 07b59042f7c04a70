package garmin

import (
	"context"
	"log"
	"time"
)

// Resyncer раз в сутки (в заданное время) перетягивает сегодняшний
// снимок у провайдера. Ошибки логируются и игнорируются: следующий
// запуск или ручной sync их перекроет.
type Resyncer struct {
	service *Service
	userID  string
	hour    int
	minute  int
}

func NewResyncer(service *Service, userID string, hour, minute int) *Resyncer {
	return &Resyncer{
		service: service,
		userID:  userID,
		hour:    hour,
		minute:  minute,
	}
}

// Run blocks until ctx is cancelled. Call in a goroutine.
func (r *Resyncer) Run(ctx context.Context) {
	if !r.service.HasClient() {
		log.Printf("garmin resync: provider client not configured, resync loop not started")
		return
	}

	for {
		next := r.nextRun(time.Now())
		timer := time.NewTimer(time.Until(next))
		log.Printf("garmin resync: next run at %s", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		date := time.Now().Format("2006-01-02")
		if _, err := r.service.SyncDate(ctx, r.userID, date); err != nil {
			log.Printf("garmin resync: sync for %s failed: %v", date, err)
		} else {
			log.Printf("garmin resync: synced %s", date)
		}
	}
}

// nextRun возвращает ближайший момент hour:minute строго после now.
func (r *Resyncer) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), r.hour, r.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
