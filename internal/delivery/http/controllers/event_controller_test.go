package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr       error
	getByIDErr      error
	getByIDResult   *domain.EventWithSubscriptions
	listErr         error
	listResult      []*domain.Event
	searchErr       error
	searchResult    []*domain.Event
	updateErr       error
	deleteErr       error
	statsErr        error
	statsResult     *domain.EventStats
	lastCreated     *domain.Event
	lastUpdated     *domain.Event
	lastSearch      domain.EventSearchFilter
	lastDeletedID   int64
	lastGetByIDID   int64
}

func (f *fakeEventService) Create(ctx context.Context, event *domain.Event) error {
	f.lastCreated = event
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = 77
	return nil
}

func (f *fakeEventService) GetByID(ctx context.Context, id int64) (*domain.EventWithSubscriptions, error) {
	f.lastGetByIDID = id
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDResult, nil
}

func (f *fakeEventService) List(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeEventService) Search(ctx context.Context, filter domain.EventSearchFilter) ([]*domain.Event, error) {
	f.lastSearch = filter
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResult, nil
}

func (f *fakeEventService) Update(ctx context.Context, event *domain.Event) error {
	f.lastUpdated = event
	return f.updateErr
}

func (f *fakeEventService) Delete(ctx context.Context, id int64) error {
	f.lastDeletedID = id
	return f.deleteErr
}

func (f *fakeEventService) Stats(ctx context.Context) (*domain.EventStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.statsResult, nil
}

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		checkEvent     func(t *testing.T, event domain.Event)
	}{
		{
			name:       "success",
			body:       `{"title":"Music Festival","start_time":"2026-07-01T18:00:00Z","max_participants":200}`,
			wantStatus: http.StatusCreated,
			checkEvent: func(t *testing.T, event domain.Event) {
				assert.Equal(t, int64(77), event.ID)
				assert.Equal(t, "Music Festival", event.Title)
				assert.Equal(t, 200, event.MaxParticipants)
			},
		},
		{
			name:           "bad request invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing title",
			body:           `{"start_time":"2026-07-01T18:00:00Z"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "title is required",
		},
		{
			name:           "missing start_time",
			body:           `{"title":"Conf"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "start_time is required",
		},
		{
			name:           "negative max_participants",
			body:           `{"title":"Conf","start_time":"2026-07-01T18:00:00Z","max_participants":-1}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "max_participants",
		},
		{
			name:           "unknown field rejected",
			body:           `{"title":"Conf","start_time":"2026-07-01T18:00:00Z","id":99}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "unknown field",
		},
		{
			name:           "service validation error",
			body:           `{"title":"Conf","start_time":"2026-07-01T18:00:00Z"}`,
			fakeErr:        domain.ErrInvalidInput,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid input",
		},
		{
			name:           "service error",
			body:           `{"title":"Conf","start_time":"2026-07-01T18:00:00Z"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{createErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error, "success response must have error nil")
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var event domain.Event
				require.NoError(t, json.Unmarshal(dataBytes, &event))
				tt.checkEvent(t, event)
				return
			}
			require.NotNil(t, envelope.Error, "error response must have error set")
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
		})
	}
}

func TestEventController_ListEvents(t *testing.T) {
	tests := []struct {
		name           string
		fakeErr        error
		fakeResult     []*domain.Event
		wantStatus     int
		wantLen        int
		wantBodySubstr string
	}{
		{
			name:       "success",
			fakeResult: []*domain.Event{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
			wantStatus: http.StatusOK,
			wantLen:    2,
		},
		{
			name:       "nil result becomes empty array",
			wantStatus: http.StatusOK,
			wantLen:    0,
		},
		{
			name:           "service error",
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{listErr: tt.fakeErr, listResult: tt.fakeResult}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			rr := httptest.NewRecorder()
			ctrl.ListEvents(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataList, ok := envelope.Data.([]interface{})
				require.True(t, ok, "data must be array")
				assert.Len(t, dataList, tt.wantLen)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_SearchEvents(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantStatus     int
		wantBodySubstr string
		checkFilter    func(t *testing.T, filter domain.EventSearchFilter)
	}{
		{
			name:       "all filters",
			query:      "?q=music&category=Music&location=rome&from=2026-01-01T00:00:00Z&to=2026-12-31T00:00:00Z",
			wantStatus: http.StatusOK,
			checkFilter: func(t *testing.T, filter domain.EventSearchFilter) {
				assert.Equal(t, "music", filter.Text)
				assert.Equal(t, "Music", filter.Category)
				assert.Equal(t, "rome", filter.Location)
				require.NotNil(t, filter.From)
				require.NotNil(t, filter.To)
			},
		},
		{
			name:       "no filters",
			query:      "",
			wantStatus: http.StatusOK,
			checkFilter: func(t *testing.T, filter domain.EventSearchFilter) {
				assert.Empty(t, filter.Text)
				assert.Nil(t, filter.From)
				assert.Nil(t, filter.To)
			},
		},
		{
			name:           "bad from timestamp",
			query:          "?from=yesterday",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "from must be an RFC 3339 timestamp",
		},
		{
			name:           "bad to timestamp",
			query:          "?to=2026-13-45",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "to must be an RFC 3339 timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/events/search"+tt.query, nil)
			rr := httptest.NewRecorder()
			ctrl.SearchEvents(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				if tt.checkFilter != nil {
					tt.checkFilter(t, fake.lastSearch)
				}
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_GetEventByID(t *testing.T) {
	tests := []struct {
		name           string
		eventID        string
		fakeErr        error
		fakeResult     *domain.EventWithSubscriptions
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:    "success",
			eventID: "1",
			fakeResult: &domain.EventWithSubscriptions{
				Event:         &domain.Event{ID: 1, Title: "Conf"},
				Subscriptions: []*domain.Subscription{{ID: 9, EventID: 1, UserID: "user-1"}},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:           "invalid eventID",
			eventID:        "abc",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid eventID",
		},
		{
			name:           "not found",
			eventID:        "42",
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "event not found",
		},
		{
			name:           "service error",
			eventID:        "1",
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{getByIDErr: tt.fakeErr, getByIDResult: tt.fakeResult}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "http://test/events/"+tt.eventID, nil)
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()
			ctrl.GetEventByID(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var data domain.EventWithSubscriptions
				require.NoError(t, json.Unmarshal(dataBytes, &data))
				require.NotNil(t, data.Event)
				assert.Equal(t, int64(1), data.Event.ID)
				require.Len(t, data.Subscriptions, 1)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_UpdateEvent(t *testing.T) {
	tests := []struct {
		name           string
		eventID        string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			eventID:    "1",
			body:       `{"title":"Renamed","start_time":"2026-07-01T18:00:00Z","max_participants":50}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "invalid eventID",
			eventID:        "0",
			body:           `{"title":"X","start_time":"2026-07-01T18:00:00Z"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid eventID",
		},
		{
			name:           "missing title",
			eventID:        "1",
			body:           `{"start_time":"2026-07-01T18:00:00Z"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "title is required",
		},
		{
			name:           "not found",
			eventID:        "42",
			body:           `{"title":"X","start_time":"2026-07-01T18:00:00Z"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "event not found",
		},
		{
			name:           "service error",
			eventID:        "1",
			body:           `{"title":"X","start_time":"2026-07-01T18:00:00Z"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{updateErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPut, "http://test/events/"+tt.eventID, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()
			ctrl.UpdateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				require.NotNil(t, fake.lastUpdated)
				assert.Equal(t, int64(1), fake.lastUpdated.ID)
				assert.Equal(t, "Renamed", fake.lastUpdated.Title)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name           string
		eventID        string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			eventID:    "1",
			wantStatus: http.StatusOK,
		},
		{
			name:           "invalid eventID",
			eventID:        "-1",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid eventID",
		},
		{
			name:           "not found",
			eventID:        "42",
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "event not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{deleteErr: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)
			req := httptest.NewRequest(http.MethodDelete, "http://test/events/"+tt.eventID, nil)
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()
			ctrl.DeleteEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, int64(1), fake.lastDeletedID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_GetEventStats(t *testing.T) {
	fake := &fakeEventService{statsResult: &domain.EventStats{TotalEvents: 3, UpcomingEvents: 2, TotalSubscriptions: 7, TotalCapacity: 800}}
	ctrl := NewEventController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/events/stats", nil)
	rr := httptest.NewRecorder()
	ctrl.GetEventStats(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var stats domain.EventStats
	require.NoError(t, json.Unmarshal(dataBytes, &stats))
	assert.Equal(t, 3, stats.TotalEvents)
	assert.Equal(t, 7, stats.TotalSubscriptions)
}
