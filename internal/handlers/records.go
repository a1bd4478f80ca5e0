package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/excalibur-systems/maintenance-api/internal/db"
	"github.com/excalibur-systems/maintenance-api/internal/engine"
	"github.com/excalibur-systems/maintenance-api/internal/middleware"
	"github.com/excalibur-systems/maintenance-api/internal/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordHandler handles maintenance record requests. The clock is injectable
// so tests can pin the engine's notion of "now".
type RecordHandler struct {
	records db.RecordCollection
	now     func() time.Time
}

// NewRecordHandler creates a new maintenance record handler
func NewRecordHandler(records db.RecordCollection) *RecordHandler {
	return &RecordHandler{records: records, now: time.Now}
}

// Collection dispatches /api/records requests.
func (h *RecordHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item dispatches /api/records/{id} requests.
func (h *RecordHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Record ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RecordHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	records, err := h.records.ListRecords(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("failed to list records")
		http.Error(w, "Failed to list records", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.MaintenanceRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// normalizeInput applies the form's input conventions: upper-case free text
// and ISO date storage.
func normalizeInput(rec *models.MaintenanceRecord) {
	rec.Code = strings.ToUpper(strings.TrimSpace(rec.Code))
	rec.EquipmentCode = strings.ToUpper(strings.TrimSpace(rec.EquipmentCode))
	rec.Title = strings.ToUpper(strings.TrimSpace(rec.Title))
	rec.Mechanic = strings.ToUpper(strings.TrimSpace(rec.Mechanic))
	rec.StopType = strings.ToUpper(strings.TrimSpace(rec.StopType))
	rec.StartDate = engine.NormalizeISO(rec.StartDate)
	rec.EndDate = engine.NormalizeISO(rec.EndDate)
}

func (h *RecordHandler) decode(r *http.Request) (*models.MaintenanceRecord, string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "Failed to read request body"
	}

	var rec models.MaintenanceRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, "Invalid JSON"
	}

	normalizeInput(&rec)

	if rec.Title == "" {
		return nil, "Title is required"
	}
	if !models.IsValidStatus(rec.Status) {
		return nil, "Invalid status"
	}
	return &rec, ""
}

func (h *RecordHandler) create(w http.ResponseWriter, r *http.Request) {
	rec, errMsg := h.decode(r)
	if errMsg != "" {
		http.Error(w, errMsg, http.StatusBadRequest)
		return
	}

	// Drafts without a code get the next free one. The existing set is read
	// fresh on every call, never cached.
	if rec.Code == "" || rec.Code == engine.CodePrefix {
		existing, err := h.records.ListRecords(r.Context(), bson.M{})
		if err != nil {
			log.WithError(err).Error("failed to list records for code generation")
			http.Error(w, "Failed to generate record code", http.StatusInternalServerError)
			return
		}
		rec.Code = engine.NextCode(existing)
	}

	rec.ID = primitive.NewObjectID()
	engine.Apply(rec, h.now())

	if err := h.records.InsertRecord(r.Context(), *rec); err != nil {
		log.WithError(err).Error("failed to insert record")
		http.Error(w, "Failed to save record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

func (h *RecordHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.records.FindRecordByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}

	rec, errMsg := h.decode(r)
	if errMsg != "" {
		http.Error(w, errMsg, http.StatusBadRequest)
		return
	}

	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	engine.Apply(rec, h.now())

	if err := h.records.UpdateRecord(r.Context(), id, *rec); err != nil {
		log.WithError(err).Error("failed to update record")
		http.Error(w, "Failed to update record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (h *RecordHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if !claims.Role.HasPermission("delete_record") {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.records.DeleteRecord(r.Context(), id); err != nil {
		log.WithError(err).Error("failed to delete record")
		http.Error(w, "Failed to delete record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Record deleted"})
}

// NextCode serves a fresh draft code for the new record form.
func (h *RecordHandler) NextCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.records.ListRecords(r.Context(), bson.M{})
	if err != nil {
		log.WithError(err).Error("failed to list records for code generation")
		http.Error(w, "Failed to generate record code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"code": engine.NextCode(records)})
}

// Stats serves the dashboard counters.
func (h *RecordHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.records.ListRecords(r.Context(), bson.M{})
	if err != nil {
		log.WithError(err).Error("failed to list records for stats")
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.CountByStatus(records))
}

// Alerts serves the staleness sweep over the current record set.
func (h *RecordHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.records.ListRecords(r.Context(), bson.M{})
	if err != nil {
		log.WithError(err).Error("failed to list records for alerts")
		http.Error(w, "Failed to scan for alerts", http.StatusInternalServerError)
		return
	}

	alerts := engine.ScanForAlerts(records, h.now())
	if alerts == nil {
		alerts = []models.Alert{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alerts)
}
