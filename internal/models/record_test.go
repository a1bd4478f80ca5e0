package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"completed", StatusCompleted, true},
		{"awaiting parts", StatusAwaitingParts, true},
		{"display-only yesterday", StatusYesterday, false},
		{"unknown", "PENDENTE", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidStatus(tt.status))
		})
	}
}

func TestCountByStatus(t *testing.T) {
	records := []MaintenanceRecord{
		{Status: StatusAwaitingParts},
		{Status: StatusCompleted},
		{Status: StatusAwaitingParts},
		{Status: StatusYesterday},
		{Status: "DESCONHECIDO"},
	}

	stats := CountByStatus(records)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
}

func TestCountByStatus_Empty(t *testing.T) {
	stats := CountByStatus(nil)
	assert.Zero(t, stats.Pending)
	assert.Zero(t, stats.Completed)
}
