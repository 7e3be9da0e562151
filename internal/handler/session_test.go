package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"epd-map-api/internal/models"
	"epd-map-api/internal/selection"
	"epd-map-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSessionManager is a mock implementation of the SessionManager interface
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) Create(ctx context.Context) (string, selection.Snapshot, error) {
	args := m.Called(ctx)
	return args.String(0), args.Get(1).(selection.Snapshot), args.Error(2)
}

func (m *MockSessionManager) Get(id string) (selection.Snapshot, error) {
	args := m.Called(id)
	return args.Get(0).(selection.Snapshot), args.Error(1)
}

func (m *MockSessionManager) Type(id, query string) (selection.Snapshot, error) {
	args := m.Called(id, query)
	return args.Get(0).(selection.Snapshot), args.Error(1)
}

func (m *MockSessionManager) ClearQuery(id string) (selection.Snapshot, error) {
	args := m.Called(id)
	return args.Get(0).(selection.Snapshot), args.Error(1)
}

func (m *MockSessionManager) Select(id, locationID string) (selection.Snapshot, error) {
	args := m.Called(id, locationID)
	return args.Get(0).(selection.Snapshot), args.Error(1)
}

func (m *MockSessionManager) SetFilters(id string, f selection.Filters) (selection.Snapshot, error) {
	args := m.Called(id, f)
	return args.Get(0).(selection.Snapshot), args.Error(1)
}

func (m *MockSessionManager) Publish(id string, msg selection.Message) (selection.Snapshot, error) {
	args := m.Called(id, msg)
	return args.Get(0).(selection.Snapshot), args.Error(1)
}

func (m *MockSessionManager) Markers(id string) (models.FilterResult, error) {
	args := m.Called(id)
	return args.Get(0).(models.FilterResult), args.Error(1)
}

func (m *MockSessionManager) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func idleSnapshot() selection.Snapshot {
	return selection.Snapshot{
		State:   selection.StateIdle,
		Filters: selection.DefaultFilters(),
		Results: []models.SearchHit{},
	}
}

func TestSessionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	typing := idleSnapshot()
	typing.State = selection.StateResultsShown
	typing.Query = "brandx"

	france := selection.DefaultFilters()
	france.Country = "France"
	france.YearRange = models.YearRange{Min: 2015, Max: models.AllYears}

	notFound := fmt.Errorf("%w: %q", service.ErrLocationNotFound, "zzz")

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setup          func(m *MockSessionManager)
		expectedStatus int
		expectedBody   any
	}{
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/sessions",
			setup: func(m *MockSessionManager) {
				m.On("Create", mock.Anything).Return("s1", idleSnapshot(), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   sessionResponse{ID: "s1", Snapshot: idleSnapshot()},
		},
		{
			name:   "create failure",
			method: http.MethodPost,
			path:   "/sessions",
			setup: func(m *MockSessionManager) {
				m.On("Create", mock.Anything).Return("", selection.Snapshot{}, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/sessions/s1",
			setup: func(m *MockSessionManager) {
				m.On("Get", "s1").Return(idleSnapshot(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   sessionResponse{ID: "s1", Snapshot: idleSnapshot()},
		},
		{
			name:   "get unknown session",
			method: http.MethodGet,
			path:   "/sessions/nope",
			setup: func(m *MockSessionManager) {
				m.On("Get", "nope").Return(selection.Snapshot{}, service.ErrSessionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   gin.H{"error": "session not found"},
		},
		{
			name:   "set query",
			method: http.MethodPut,
			path:   "/sessions/s1/query",
			body:   `{"query": "brandx"}`,
			setup: func(m *MockSessionManager) {
				m.On("Type", "s1", "brandx").Return(typing, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   sessionResponse{ID: "s1", Snapshot: typing},
		},
		{
			name:           "set query invalid body",
			method:         http.MethodPut,
			path:           "/sessions/s1/query",
			body:           `{"query":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request body"},
		},
		{
			name:   "clear query",
			method: http.MethodDelete,
			path:   "/sessions/s1/query",
			setup: func(m *MockSessionManager) {
				m.On("ClearQuery", "s1").Return(idleSnapshot(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   sessionResponse{ID: "s1", Snapshot: idleSnapshot()},
		},
		{
			name:           "select without location",
			method:         http.MethodPost,
			path:           "/sessions/s1/select",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "missing required field 'location_id'"},
		},
		{
			name:   "select unknown location",
			method: http.MethodPost,
			path:   "/sessions/s1/select",
			body:   `{"location_id": "zzz"}`,
			setup: func(m *MockSessionManager) {
				m.On("Select", "s1", "zzz").Return(selection.Snapshot{}, notFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   gin.H{"error": "location not found"},
		},
		{
			name:   "set filters",
			method: http.MethodPut,
			path:   "/sessions/s1/filters",
			body:   `{"country": "France", "year_min": "2015", "year_max": "all"}`,
			setup: func(m *MockSessionManager) {
				snap := idleSnapshot()
				snap.Filters = france
				m.On("SetFilters", "s1", france).Return(snap, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: func() sessionResponse {
				snap := idleSnapshot()
				snap.Filters = france
				return sessionResponse{ID: "s1", Snapshot: snap}
			}(),
		},
		{
			name:   "publish event",
			method: http.MethodPost,
			path:   "/sessions/s1/events",
			body:   `{"type": "all_markers_requested"}`,
			setup: func(m *MockSessionManager) {
				m.On("Publish", "s1", selection.AllMarkersRequested{}).Return(idleSnapshot(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   sessionResponse{ID: "s1", Snapshot: idleSnapshot()},
		},
		{
			name:           "publish unknown event",
			method:         http.MethodPost,
			path:           "/sessions/s1/events",
			body:           `{"type": "explode"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "unknown event type"},
		},
		{
			name:           "publish without type",
			method:         http.MethodPost,
			path:           "/sessions/s1/events",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "missing required field 'type'"},
		},
		{
			name:   "markers",
			method: http.MethodGet,
			path:   "/sessions/s1/markers",
			setup: func(m *MockSessionManager) {
				m.On("Markers", "s1").Return(sampleResult(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   sampleResult(),
		},
		{
			name:   "markers failure",
			method: http.MethodGet,
			path:   "/sessions/s1/markers",
			setup: func(m *MockSessionManager) {
				m.On("Markers", "s1").Return(models.FilterResult{}, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
		{
			name:   "delete unknown session",
			method: http.MethodDelete,
			path:   "/sessions/nope",
			setup: func(m *MockSessionManager) {
				m.On("Delete", "nope").Return(service.ErrSessionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   gin.H{"error": "session not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockSessionManager)
			if tt.setup != nil {
				tt.setup(mockSvc)
			}
			router := gin.New()
			NewSessionHandler(mockSvc).Register(router)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			// Execute
			router.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assertJSONBody(t, tt.expectedBody, w)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockSessionManager)
	mockSvc.On("Delete", "s1").Return(nil)
	router := gin.New()
	NewSessionHandler(mockSvc).Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sessions/s1", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	mockSvc.AssertExpectations(t)
}
