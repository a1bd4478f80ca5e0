package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status represents the lifecycle state of a maintenance record.
type Status string

const (
	StatusCompleted     Status = "CONCLUÍDO"
	StatusAwaitingParts Status = "AGUARDANDO PEÇA"
	// StatusYesterday is a display-only badge value. It is never written by
	// the engine or accepted on record creation.
	StatusYesterday Status = "ONTEM"
)

// Stop type classification for a maintenance intervention.
const (
	StopTypeMechanical  = "PARADA MECÂNICA"
	StopTypeOpportunity = "OPORTUNIDADE"
)

// MaintenanceRecord represents a single maintenance intervention on a piece
// of equipment. Dates are stored as YYYY-MM-DD strings and clock times as
// 24h HH:MM strings, exactly as entered. TotalHours and Observations are
// derived fields, recomputed by the engine on every relevant edit.
type MaintenanceRecord struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code          string             `json:"code" bson:"code"`
	EquipmentCode string             `json:"equipment_code" bson:"equipment_code"`
	Title         string             `json:"title" bson:"title"`
	Time          string             `json:"time" bson:"time"` // display time, mirrors start_time
	StartDate     string             `json:"start_date" bson:"start_date"`
	StartTime     string             `json:"start_time" bson:"start_time"`
	EndDate       string             `json:"end_date" bson:"end_date"`
	EndTime       string             `json:"end_time" bson:"end_time"`
	Status        Status             `json:"status" bson:"status"`
	Mechanic      string             `json:"mechanic" bson:"mechanic"`
	TotalHours    string             `json:"total_hours" bson:"total_hours"`
	Observations  string             `json:"observations" bson:"observations"`
	StopType      string             `json:"stop_type" bson:"stop_type"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// Alert flags an awaiting-parts record that has been stopped for an hour or
// more. Alerts are derived views and are never persisted.
type Alert struct {
	Record  MaintenanceRecord `json:"record"`
	Hours   int               `json:"hours"`
	Minutes int               `json:"minutes"`
	Message string            `json:"message"`
}

// Stats holds the dashboard counters.
type Stats struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// IsValidStatus reports whether a status is accepted on create/edit.
// StatusYesterday is display-only and is rejected here.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusCompleted, StatusAwaitingParts:
		return true
	default:
		return false
	}
}

// CountByStatus derives the dashboard counters from a record set.
func CountByStatus(records []MaintenanceRecord) Stats {
	var stats Stats
	for _, rec := range records {
		switch rec.Status {
		case StatusAwaitingParts:
			stats.Pending++
		case StatusCompleted:
			stats.Completed++
		}
	}
	return stats
}
