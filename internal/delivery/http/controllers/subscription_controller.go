package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

type SubscriptionController struct {
	Logger  *slog.Logger
	Service domain.SubscriptionService
}

func NewSubscriptionController(logger *slog.Logger, svc domain.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		Logger:  logger,
		Service: svc,
	}
}

// SubscribeResponse is the data payload for POST /events/{eventID}/subscription.
type SubscribeResponse struct {
	Result domain.SubscribeResult `json:"result"`
}

// SubscribeSuccessResponse is the success response envelope for POST /events/{eventID}/subscription (201).
type SubscribeSuccessResponse struct {
	Data  SubscribeResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// subscribeFailureMessages maps non-success subscribe results to their
// response message.
var subscribeFailureMessages = map[domain.SubscribeResult]string{
	domain.SubscribeEventNotFound:     "event not found",
	domain.SubscribeUserNotFound:      "user not found",
	domain.SubscribeEventClosed:       "event has already started",
	domain.SubscribeAlreadySubscribed: "already subscribed to this event",
	domain.SubscribeEventFull:         "event is full",
}

// Subscribe godoc
// @Summary Subscribe to an event
// @Description Subscribes the authenticated user to the event. Fails if the event does not exist, has already started, is full, or the user is already subscribed. The result field in error responses distinguishes the cases.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 201 {object} controllers.SubscribeSuccessResponse "data contains result: success"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or user)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (closed, full, or already subscribed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/subscription [post]
func (c *SubscriptionController) Subscribe(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parsePathID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.Subscribe(r.Context(), eventID, userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	switch result {
	case domain.SubscribeSuccess:
		helpers.WriteJSONSuccess(w, http.StatusCreated, SubscribeResponse{Result: result})
	case domain.SubscribeEventNotFound, domain.SubscribeUserNotFound:
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, subscribeFailureMessages[result])
	default:
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, subscribeFailureMessages[result])
	}
}

// UnsubscribeResponse is the data payload for DELETE /events/{eventID}/subscription (200).
type UnsubscribeResponse struct {
	Status string `json:"status"`
}

// UnsubscribeSuccessResponse is the success response envelope for DELETE /events/{eventID}/subscription (200).
type UnsubscribeSuccessResponse struct {
	Data  UnsubscribeResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// Unsubscribe godoc
// @Summary Unsubscribe from an event
// @Description Removes the authenticated user's subscription to the event. Returns 404 if no subscription exists.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.UnsubscribeSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no subscription)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/subscription [delete]
func (c *SubscriptionController) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parsePathID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	removed, err := c.Service.Unsubscribe(r.Context(), eventID, userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if !removed {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not subscribed to this event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UnsubscribeResponse{Status: "unsubscribed"})
}

// IsSubscribedResponse is the data payload for GET /events/{eventID}/subscription (200).
type IsSubscribedResponse struct {
	Subscribed bool `json:"subscribed"`
}

// IsSubscribedSuccessResponse is the success response envelope for GET /events/{eventID}/subscription (200).
type IsSubscribedSuccessResponse struct {
	Data  IsSubscribedResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// IsSubscribed godoc
// @Summary Check subscription status
// @Description Reports whether the authenticated user is subscribed to the event.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.IsSubscribedSuccessResponse "data contains subscribed flag"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/subscription [get]
func (c *SubscriptionController) IsSubscribed(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parsePathID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	subscribed, err := c.Service.IsSubscribed(r.Context(), eventID, userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, IsSubscribedResponse{Subscribed: subscribed})
}

// ListSubscribersSuccessResponse is the success response envelope for GET /events/{eventID}/subscribers (200).
type ListSubscribersSuccessResponse struct {
	Data  []*domain.Subscriber `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListSubscribers godoc
// @Summary List subscribers of an event
// @Description Returns user display info for every subscription of the event, ordered by subscription time. Requires the subscribers.view permission.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.ListSubscribersSuccessResponse "data is an array of subscribers"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/subscribers [get]
func (c *SubscriptionController) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parsePathID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	subscribers, err := c.Service.ListSubscribers(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if subscribers == nil {
		subscribers = []*domain.Subscriber{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, subscribers)
}
