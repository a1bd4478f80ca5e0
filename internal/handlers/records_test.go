package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/excalibur-systems/maintenance-api/internal/middleware"
	"github.com/excalibur-systems/maintenance-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockRecordCollection is a mock implementation of db.RecordCollection
type MockRecordCollection struct {
	mock.Mock
}

func (m *MockRecordCollection) ListRecords(ctx context.Context, filter bson.M) ([]models.MaintenanceRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceRecord), args.Error(1)
}

func (m *MockRecordCollection) FindRecordByID(ctx context.Context, id string) (*models.MaintenanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRecord), args.Error(1)
}

func (m *MockRecordCollection) InsertRecord(ctx context.Context, record models.MaintenanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordCollection) UpdateRecord(ctx context.Context, id string, record models.MaintenanceRecord) error {
	args := m.Called(ctx, id, record)
	return args.Error(0)
}

func (m *MockRecordCollection) DeleteRecord(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func fixedNow() time.Time {
	return time.Date(2024, time.January, 1, 9, 30, 0, 0, time.Local)
}

func newTestHandler(records *MockRecordCollection) *RecordHandler {
	h := NewRecordHandler(records)
	h.now = fixedNow
	return h
}

func adminRequest(req *http.Request) *http.Request {
	claims := &models.Claims{UserID: "abc", Email: "admin@excalibur.com", Role: models.RoleAdmin}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func universalRequest(req *http.Request) *http.Request {
	claims := &models.Claims{UserID: "abc", Email: "op@excalibur.com", Role: models.RoleUniversal}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func TestRecordHandler_List(t *testing.T) {
	t.Run("returns records", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		stored := []models.MaintenanceRecord{
			{Code: "MAN-002", Status: models.StatusAwaitingParts},
			{Code: "MAN-001", Status: models.StatusCompleted},
		}
		records.On("ListRecords", mock.Anything, bson.M{}).Return(stored, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
		w := httptest.NewRecorder()
		handler.Collection(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []models.MaintenanceRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "MAN-002", got[0].Code)
	})

	t.Run("status filter forwarded", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		records.On("ListRecords", mock.Anything, bson.M{"status": "AGUARDANDO PEÇA"}).
			Return([]models.MaintenanceRecord{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/records?status=AGUARDANDO+PE%C3%87A", nil)
		w := httptest.NewRecorder()
		handler.Collection(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		records.AssertExpectations(t)
	})

	t.Run("empty set encodes as empty array", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)
		records.On("ListRecords", mock.Anything, bson.M{}).Return([]models.MaintenanceRecord(nil), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
		w := httptest.NewRecorder()
		handler.Collection(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestRecordHandler_Create(t *testing.T) {
	t.Run("draft without code gets next code and derived fields", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		existing := []models.MaintenanceRecord{{Code: "MAN-007"}}
		records.On("ListRecords", mock.Anything, bson.M{}).Return(existing, nil)

		var inserted models.MaintenanceRecord
		records.On("InsertRecord", mock.Anything, mock.AnythingOfType("models.MaintenanceRecord")).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(models.MaintenanceRecord)
			}).Return(nil)

		payload := map[string]string{
			"title":      "troca de óleo",
			"status":     "AGUARDANDO PEÇA",
			"start_date": "2024-01-01",
			"start_time": "08:00",
			"stop_type":  "PARADA MECÂNICA",
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.Collection(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "MAN-008", inserted.Code)
		assert.Equal(t, "TROCA DE ÓLEO", inserted.Title)
		assert.Equal(t, "1.50", inserted.TotalHours)
		assert.Equal(t, "AGUARDANDO PEÇA", inserted.Observations)
		assert.Equal(t, "08:00", inserted.Time)
		assert.False(t, inserted.ID.IsZero())
	})

	t.Run("completed record without end gets backfilled", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		var inserted models.MaintenanceRecord
		records.On("InsertRecord", mock.Anything, mock.AnythingOfType("models.MaintenanceRecord")).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(models.MaintenanceRecord)
			}).Return(nil)

		payload := map[string]string{
			"code":       "MAN-010",
			"title":      "INSPEÇÃO",
			"status":     "CONCLUÍDO",
			"start_date": "2024-01-01",
			"start_time": "08:00",
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.Collection(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "2024-01-01", inserted.EndDate)
		assert.Equal(t, "09:30", inserted.EndTime)
		assert.Equal(t, "1.50", inserted.TotalHours)
		assert.Contains(t, inserted.Observations, "TOTAL DE HORAS: 1.50H")
	})

	t.Run("missing title rejected", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		body, _ := json.Marshal(map[string]string{"status": "CONCLUÍDO"})
		req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.Collection(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("display-only status rejected", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		body, _ := json.Marshal(map[string]string{"title": "X", "status": "ONTEM"})
		req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.Collection(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid JSON rejected", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewBufferString("{bad"))
		w := httptest.NewRecorder()
		handler.Collection(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecordHandler_Update(t *testing.T) {
	records := new(MockRecordCollection)
	handler := newTestHandler(records)

	id := primitive.NewObjectID()
	created := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.MaintenanceRecord{ID: id, Code: "MAN-001", CreatedAt: created}
	records.On("FindRecordByID", mock.Anything, id.Hex()).Return(existing, nil)

	var updated models.MaintenanceRecord
	records.On("UpdateRecord", mock.Anything, id.Hex(), mock.AnythingOfType("models.MaintenanceRecord")).
		Run(func(args mock.Arguments) {
			updated = args.Get(2).(models.MaintenanceRecord)
		}).Return(nil)

	payload := map[string]string{
		"code":       "MAN-001",
		"title":      "MANUTENÇÃO HIDRÁULICA",
		"status":     "CONCLUÍDO",
		"start_date": "2024-01-01",
		"start_time": "08:00",
		"end_date":   "2024-01-01",
		"end_time":   "09:30",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/api/records/"+id.Hex(), bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.Item(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, created, updated.CreatedAt, "creation timestamp survives edits")
	assert.Equal(t, "1.50", updated.TotalHours)
}

func TestRecordHandler_Update_NotFound(t *testing.T) {
	records := new(MockRecordCollection)
	handler := newTestHandler(records)

	records.On("FindRecordByID", mock.Anything, "missing").Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodPut, "/api/records/missing", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()
	handler.Item(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordHandler_Delete(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("admin can delete", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)
		records.On("DeleteRecord", mock.Anything, id.Hex()).Return(nil)

		req := adminRequest(httptest.NewRequest(http.MethodDelete, "/api/records/"+id.Hex(), nil))
		w := httptest.NewRecorder()
		handler.Item(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		records.AssertExpectations(t)
	})

	t.Run("universal forbidden", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		req := universalRequest(httptest.NewRequest(http.MethodDelete, "/api/records/"+id.Hex(), nil))
		w := httptest.NewRecorder()
		handler.Item(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		records.AssertNotCalled(t, "DeleteRecord", mock.Anything, mock.Anything)
	})

	t.Run("missing claims unauthorized", func(t *testing.T) {
		records := new(MockRecordCollection)
		handler := newTestHandler(records)

		req := httptest.NewRequest(http.MethodDelete, "/api/records/"+id.Hex(), nil)
		w := httptest.NewRecorder()
		handler.Item(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRecordHandler_NextCode(t *testing.T) {
	records := new(MockRecordCollection)
	handler := newTestHandler(records)

	stored := []models.MaintenanceRecord{{Code: "MAN-001"}, {Code: "MAN-007"}, {Code: "X-999"}}
	records.On("ListRecords", mock.Anything, bson.M{}).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/records/next-code", nil)
	w := httptest.NewRecorder()
	handler.NextCode(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":"MAN-008"}`, w.Body.String())
}

func TestRecordHandler_Stats(t *testing.T) {
	records := new(MockRecordCollection)
	handler := newTestHandler(records)

	stored := []models.MaintenanceRecord{
		{Status: models.StatusAwaitingParts},
		{Status: models.StatusAwaitingParts},
		{Status: models.StatusCompleted},
	}
	records.On("ListRecords", mock.Anything, bson.M{}).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	handler.Stats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pending":2,"completed":1}`, w.Body.String())
}

func TestRecordHandler_Alerts(t *testing.T) {
	records := new(MockRecordCollection)
	handler := newTestHandler(records)

	stored := []models.MaintenanceRecord{
		{Code: "MAN-001", Status: models.StatusAwaitingParts, StartDate: "2024-01-01", StartTime: "08:00"},
		{Code: "MAN-002", Status: models.StatusAwaitingParts, StartDate: "2024-01-01", StartTime: "09:00"},
	}
	records.On("ListRecords", mock.Anything, bson.M{}).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	w := httptest.NewRecorder()
	handler.Alerts(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var alerts []models.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "MAN-001", alerts[0].Record.Code)
	assert.Equal(t, 1, alerts[0].Hours)
	assert.Equal(t, 30, alerts[0].Minutes)
}

func TestRecordHandler_DBError(t *testing.T) {
	records := new(MockRecordCollection)
	handler := newTestHandler(records)
	records.On("ListRecords", mock.Anything, bson.M{}).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
