package engine

import (
	"fmt"
	"time"

	"github.com/excalibur-systems/maintenance-api/internal/models"
)

// AlertThreshold is the minimum stop duration before an awaiting-parts
// record demands attention.
const AlertThreshold = time.Hour

// ScanForAlerts sweeps a record set and returns an alert for every
// awaiting-parts record stopped for an hour or more. Elapsed time is
// decomposed with floor semantics (90 minutes reads 1h 30m). Records whose
// start fields do not parse are skipped silently; this is a best-effort
// display sweep and never errors. Input order is preserved and the records
// themselves are not touched.
func ScanForAlerts(records []models.MaintenanceRecord, now time.Time) []models.Alert {
	var alerts []models.Alert
	for _, rec := range records {
		if rec.Status != models.StatusAwaitingParts {
			continue
		}
		start, err := ParseDateTime(rec.StartDate, rec.StartTime)
		if err != nil {
			continue
		}
		elapsed := now.Sub(start)
		if elapsed < AlertThreshold {
			continue
		}
		hours := int(elapsed / time.Hour)
		minutes := int(elapsed % time.Hour / time.Minute)
		alerts = append(alerts, models.Alert{
			Record:  rec,
			Hours:   hours,
			Minutes: minutes,
			Message: fmt.Sprintf("%s (%s) REQUER ATENÇÃO. PARADA HÁ %dH %dM.",
				rec.Code, rec.EquipmentCode, hours, minutes),
		})
	}
	return alerts
}
