package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/excalibur-systems/maintenance-api/internal/db"
	"github.com/excalibur-systems/maintenance-api/internal/middleware"
	log "github.com/sirupsen/logrus"
)

// LookupHandler serves the auxiliary lookup lists managed from the config
// screen. Reads are open to any authenticated user; writes are admin-only.
type LookupHandler struct {
	lookups db.LookupCollection
}

// NewLookupHandler creates a new lookup list handler
func NewLookupHandler(lookups db.LookupCollection) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

// Mechanics dispatches /api/mechanics requests.
func (h *LookupHandler) Mechanics(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.lookups.ListMechanics, h.lookups.ReplaceMechanics)
}

// Equipment dispatches /api/equipment requests.
func (h *LookupHandler) Equipment(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.lookups.ListEquipmentCodes, h.lookups.ReplaceEquipmentCodes)
}

func (h *LookupHandler) serve(
	w http.ResponseWriter,
	r *http.Request,
	list func(context.Context) ([]string, error),
	replace func(context.Context, []string) error,
) {
	switch r.Method {
	case http.MethodGet:
		values, err := list(r.Context())
		if err != nil {
			log.WithError(err).Error("failed to list lookup values")
			http.Error(w, "Failed to list values", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(values)

	case http.MethodPut:
		claims, ok := middleware.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "User context not found", http.StatusUnauthorized)
			return
		}
		if !claims.Role.HasPermission("manage_lookups") {
			http.Error(w, "Insufficient permissions", http.StatusForbidden)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		var values []string
		if err := json.Unmarshal(body, &values); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		for i, v := range values {
			values[i] = strings.ToUpper(strings.TrimSpace(v))
		}

		if err := replace(r.Context(), values); err != nil {
			log.WithError(err).Error("failed to replace lookup values")
			http.Error(w, "Failed to save values", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Saved"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
