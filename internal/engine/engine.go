// Package engine implements the maintenance record time/status computation:
// elapsed-hours derivation, observation tag automation, staleness alerting
// and draft code generation. All functions are pure; the current time is
// always an explicit parameter so callers and tests control the clock.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/excalibur-systems/maintenance-api/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// ZeroHours is the clamped result for missing, malformed or negative
	// time spans.
	ZeroHours = "0.00"

	// CodePrefix is the fixed prefix for auto-generated record codes.
	CodePrefix = "MAN-"
)

var codePattern = regexp.MustCompile(`MAN-(\d+)`)

// ParseDateTime combines a YYYY-MM-DD date and a HH:MM clock time into a
// single local-time instant.
func ParseDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
}

// elapsedHours derives the record's total hours as a 2-decimal string. The
// second return value reports whether the inputs were usable; callers must
// not touch observations when it is false.
func elapsedHours(rec models.MaintenanceRecord, now time.Time) (string, bool) {
	start, err := ParseDateTime(rec.StartDate, rec.StartTime)
	if err != nil {
		return ZeroHours, false
	}

	var end time.Time
	switch rec.Status {
	case models.StatusAwaitingParts:
		end = now
	case models.StatusCompleted:
		end, err = ParseDateTime(rec.EndDate, rec.EndTime)
		if err != nil {
			return ZeroHours, false
		}
	default:
		return ZeroHours, false
	}

	hours := end.Sub(start).Hours()
	if hours < 0 {
		// End before start means clock skew or a data-entry error; clamp
		// rather than surface a negative duration.
		hours = 0
	}
	return fmt.Sprintf("%.2f", hours), true
}

// Recompute derives TotalHours and Observations for a record at the given
// instant. Malformed dates, a missing end on a completed record, or an
// unknown status all yield "0.00" with observations untouched. The result is
// idempotent: feeding it back with the same now produces the same output.
func Recompute(rec models.MaintenanceRecord, now time.Time) (totalHours, observations string) {
	total, ok := elapsedHours(rec, now)
	if !ok {
		return total, rec.Observations
	}
	return total, UpsertTags(rec.Observations, rec.Status, total)
}

// EnsureCompletion fills in the end date/time from now when a record is
// completed but the caller left them empty.
func EnsureCompletion(rec *models.MaintenanceRecord, now time.Time) {
	if rec.Status != models.StatusCompleted {
		return
	}
	if rec.EndDate == "" {
		rec.EndDate = now.Format(dateLayout)
	}
	if rec.EndTime == "" {
		rec.EndTime = now.Format(timeLayout)
	}
}

// Apply runs the full derivation pipeline on a record in place: completion
// backfill, total hours and observation tags, and the display-time mirror.
func Apply(rec *models.MaintenanceRecord, now time.Time) {
	EnsureCompletion(rec, now)
	rec.TotalHours, rec.Observations = Recompute(*rec, now)
	rec.Time = rec.StartTime
}

// NextCode generates the next draft code from the existing record set. Codes
// matching MAN-<digits> contribute their numeric suffix; everything else is
// ignored. The result is the maximum plus one, zero-padded to three digits.
func NextCode(records []models.MaintenanceRecord) string {
	max := 0
	for _, rec := range records {
		m := codePattern.FindStringSubmatch(rec.Code)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", CodePrefix, max+1)
}
