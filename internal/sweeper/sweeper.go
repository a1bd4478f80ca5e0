// Package sweeper keeps awaiting-parts records fresh. A single goroutine
// wakes on a fixed interval, recomputes derived fields for records still
// waiting on parts, and hands staleness alerts to a notifier. Each pass is
// synchronous and bounded, so ticks never overlap.
package sweeper

import (
	"context"
	"time"

	"github.com/excalibur-systems/maintenance-api/internal/db"
	"github.com/excalibur-systems/maintenance-api/internal/engine"
	"github.com/excalibur-systems/maintenance-api/internal/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// DefaultInterval matches the refresh cadence of the record form: at least
// once per 60 seconds while anything is awaiting parts.
const DefaultInterval = time.Minute

// Notifier receives the alerts produced by a sweep.
type Notifier interface {
	PublishAlerts(ctx context.Context, alerts []models.Alert) error
}

// Sweeper periodically refreshes derived record fields and raises alerts.
type Sweeper struct {
	records  db.RecordCollection
	notifier Notifier
	interval time.Duration
	now      func() time.Time
}

// New creates a sweeper with the default cadence. The notifier may be nil,
// in which case alerts are only logged.
func New(records db.RecordCollection, notifier Notifier) *Sweeper {
	return &Sweeper{
		records:  records,
		notifier: notifier,
		interval: DefaultInterval,
		now:      time.Now,
	}
}

// SetInterval overrides the sweep cadence.
func (s *Sweeper) SetInterval(d time.Duration) { s.interval = d }

// SetClock overrides the time source.
func (s *Sweeper) SetClock(now func() time.Time) { s.now = now }

// Run sweeps until the context is cancelled. The ticker is released on
// return so no background work leaks past shutdown.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.WithError(err).Error("sweep failed")
			}
		}
	}
}

// Sweep performs one pass: refresh awaiting-parts records whose derived
// fields drifted, then scan for and publish alerts. Records that fail to
// persist are skipped; the rest of the pass continues.
func (s *Sweeper) Sweep(ctx context.Context) error {
	records, err := s.records.ListRecords(ctx, bson.M{})
	if err != nil {
		return err
	}

	now := s.now()
	for i := range records {
		rec := &records[i]
		if rec.Status != models.StatusAwaitingParts {
			continue
		}

		total, obs := engine.Recompute(*rec, now)
		if total == rec.TotalHours && obs == rec.Observations {
			continue
		}

		rec.TotalHours, rec.Observations = total, obs
		if err := s.records.UpdateRecord(ctx, rec.ID.Hex(), *rec); err != nil {
			log.WithError(err).WithField("code", rec.Code).Warn("failed to refresh record")
		}
	}

	alerts := engine.ScanForAlerts(records, now)
	if len(alerts) == 0 {
		return nil
	}

	log.WithField("count", len(alerts)).Info("records awaiting parts for over an hour")
	if s.notifier == nil {
		return nil
	}
	return s.notifier.PublishAlerts(ctx, alerts)
}
