package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeSubscriptionService implements domain.SubscriptionService for handler tests.
type fakeSubscriptionService struct {
	subscribeResult    domain.SubscribeResult
	subscribeErr       error
	unsubscribeRemoved bool
	unsubscribeErr     error
	isSubscribed       bool
	isSubscribedErr    error
	subscribers        []*domain.Subscriber
	subscribersErr     error
	lastEventID        int64
	lastUserID         string
}

func (f *fakeSubscriptionService) Subscribe(ctx context.Context, eventID int64, userID string) (domain.SubscribeResult, error) {
	f.lastEventID = eventID
	f.lastUserID = userID
	return f.subscribeResult, f.subscribeErr
}

func (f *fakeSubscriptionService) Unsubscribe(ctx context.Context, eventID int64, userID string) (bool, error) {
	f.lastEventID = eventID
	f.lastUserID = userID
	return f.unsubscribeRemoved, f.unsubscribeErr
}

func (f *fakeSubscriptionService) IsSubscribed(ctx context.Context, eventID int64, userID string) (bool, error) {
	f.lastEventID = eventID
	f.lastUserID = userID
	return f.isSubscribed, f.isSubscribedErr
}

func (f *fakeSubscriptionService) ListSubscribers(ctx context.Context, eventID int64) ([]*domain.Subscriber, error) {
	f.lastEventID = eventID
	return f.subscribers, f.subscribersErr
}

func TestSubscriptionController_Subscribe(t *testing.T) {
	tests := []struct {
		name           string
		eventID        string
		noUserContext  bool
		fakeResult     domain.SubscribeResult
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			eventID:    "1",
			fakeResult: domain.SubscribeSuccess,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid eventID",
			eventID:        "abc",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid eventID",
		},
		{
			name:           "no user in context",
			eventID:        "1",
			noUserContext:  true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "event not found",
			eventID:        "1",
			fakeResult:     domain.SubscribeEventNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "event not found",
		},
		{
			name:           "user not found",
			eventID:        "1",
			fakeResult:     domain.SubscribeUserNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "user not found",
		},
		{
			name:           "event closed",
			eventID:        "1",
			fakeResult:     domain.SubscribeEventClosed,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already started",
		},
		{
			name:           "already subscribed",
			eventID:        "1",
			fakeResult:     domain.SubscribeAlreadySubscribed,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already subscribed",
		},
		{
			name:           "event full",
			eventID:        "1",
			fakeResult:     domain.SubscribeEventFull,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "event is full",
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
			fake := &fakeSubscriptionService{subscribeResult: tt.fakeResult, subscribeErr: tt.fakeErr}
			ctrl := NewSubscriptionController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/events/"+tt.eventID+"/subscription", nil)
			req.SetPathValue("eventID", tt.eventID)
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()
			ctrl.Subscribe(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error, "success response must have error nil")
				dataMap, ok := envelope.Data.(map[string]interface{})
				require.True(t, ok, "data must be object")
				assert.Equal(t, "success", dataMap["result"], "data.result")
				assert.Equal(t, int64(1), fake.lastEventID)
				assert.Equal(t, "user-123", fake.lastUserID)
				return
			}
			require.NotNil(t, envelope.Error, "error response must have error set")
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
		})
	}
}

func TestSubscriptionController_Unsubscribe(t *testing.T) {
	tests := []struct {
		name           string
		eventID        string
		noUserContext  bool
		removed        bool
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			eventID:    "1",
			removed:    true,
			wantStatus: http.StatusOK,
		},
		{
			name:           "invalid eventID",
			eventID:        "x",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid eventID",
		},
		{
			name:           "no user in context",
			eventID:        "1",
			noUserContext:  true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "not subscribed",
			eventID:        "1",
			removed:        false,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "not subscribed",
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
			fake := &fakeSubscriptionService{unsubscribeRemoved: tt.removed, unsubscribeErr: tt.fakeErr}
			ctrl := NewSubscriptionController(testLogger, fake)
			req := httptest.NewRequest(http.MethodDelete, "http://test/events/"+tt.eventID+"/subscription", nil)
			req.SetPathValue("eventID", tt.eventID)
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()
			ctrl.Unsubscribe(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataMap, ok := envelope.Data.(map[string]interface{})
				require.True(t, ok, "data must be object")
				assert.Equal(t, "unsubscribed", dataMap["status"], "data.status")
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
		})
	}
}

func TestSubscriptionController_IsSubscribed(t *testing.T) {
	tests := []struct {
		name       string
		subscribed bool
	}{
		{name: "subscribed", subscribed: true},
		{name: "not subscribed", subscribed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSubscriptionService{isSubscribed: tt.subscribed}
			ctrl := NewSubscriptionController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "http://test/events/1/subscription", nil)
			req.SetPathValue("eventID", "1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()
			ctrl.IsSubscribed(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.Nil(t, envelope.Error)
			dataMap, ok := envelope.Data.(map[string]interface{})
			require.True(t, ok, "data must be object")
			assert.Equal(t, tt.subscribed, dataMap["subscribed"], "data.subscribed")
		})
	}
}

func TestSubscriptionController_ListSubscribers(t *testing.T) {
	tests := []struct {
		name           string
		eventID        string
		subscribers    []*domain.Subscriber
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		wantLen        int
	}{
		{
			name:    "success",
			eventID: "1",
			subscribers: []*domain.Subscriber{
				{UserID: "user-1", Name: "Alice", Email: "alice@example.com"},
				{UserID: "user-2", Name: "Bob", Email: "bob@example.com"},
			},
			wantStatus: http.StatusOK,
			wantLen:    2,
		},
		{
			name:       "empty list stays an array",
			eventID:    "1",
			wantStatus: http.StatusOK,
			wantLen:    0,
		},
		{
			name:           "invalid eventID",
			eventID:        "abc",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid eventID",
		},
		{
			name:           "event not found",
			eventID:        "1",
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
			fake := &fakeSubscriptionService{subscribers: tt.subscribers, subscribersErr: tt.fakeErr}
			ctrl := NewSubscriptionController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "http://test/events/"+tt.eventID+"/subscribers", nil)
			req.SetPathValue("eventID", tt.eventID)
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()
			ctrl.ListSubscribers(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
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
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
		})
	}
}
