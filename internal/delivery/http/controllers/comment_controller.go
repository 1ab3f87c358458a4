package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
	Authz   domain.AuthzService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService, authz domain.AuthzService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
		Authz:   authz,
	}
}

// isModerator reports whether the caller holds events.manage. Errors are
// treated as "not a moderator" so a flaky permission lookup cannot block
// regular comment reads.
func (c *CommentController) isModerator(r *http.Request) bool {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return false
	}
	allowed, err := c.Authz.HasPermission(r.Context(), userID, domain.PermManageEvents)
	if err != nil {
		c.Logger.WarnContext(r.Context(), "permission check failed", "err", err)
		return false
	}
	return allowed
}

// AddCommentRequest is the request body for POST /events/{eventID}/comments.
type AddCommentRequest struct {
	Body     string `json:"body"`
	ParentID *int64 `json:"parent_id"`
}

// Validate implements Validator.
func (a AddCommentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Body) == "" {
		errs = append(errs, "body is required")
	}
	if len(a.Body) > 4000 {
		errs = append(errs, "body must be at most 4000 characters")
	}
	return errs
}

// AddCommentSuccessResponse is the success response envelope for POST /events/{eventID}/comments (201).
type AddCommentSuccessResponse struct {
	Data  *domain.Comment   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AddComment godoc
// @Summary Add a comment to an event
// @Description Posts a comment, optionally as a reply to an existing comment of the same event. Replies to replies attach to the top-level parent; threads are at most one level deep.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body AddCommentRequest true "Comment body and optional parent_id"
// @Success 201 {object} controllers.AddCommentSuccessResponse "data contains the created comment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (bad body or parent from another event)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event, user, or parent comment)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/comments [post]
func (c *CommentController) AddComment(w http.ResponseWriter, r *http.Request) {
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
	var req AddCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.Add(r.Context(), eventID, userID, req.ParentID, req.Body)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comment)
}

// ListCommentsSuccessResponse is the success response envelope for GET /events/{eventID}/comments (200).
type ListCommentsSuccessResponse struct {
	Data  []*domain.Comment `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListComments godoc
// @Summary List comments of an event
// @Description Returns top-level comments with nested replies, ordered by creation time. Hidden comments are included only for callers with the events.manage permission.
// @Tags comments
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.ListCommentsSuccessResponse "data is an array of comment threads"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/comments [get]
func (c *CommentController) ListComments(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parsePathID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	comments, err := c.Service.ListByEvent(r.Context(), eventID, c.isModerator(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comments)
}

// SetCommentHiddenRequest is the request body for PATCH /comments/{commentID}/hidden.
type SetCommentHiddenRequest struct {
	Hidden *bool `json:"hidden"`
}

// Validate implements Validator.
func (s SetCommentHiddenRequest) Validate() []string {
	if s.Hidden == nil {
		return []string{"hidden is required"}
	}
	return nil
}

// SetCommentHiddenResponse is the data payload for PATCH /comments/{commentID}/hidden (200).
type SetCommentHiddenResponse struct {
	Status string `json:"status"`
}

// SetCommentHiddenSuccessResponse is the success response envelope for PATCH /comments/{commentID}/hidden (200).
type SetCommentHiddenSuccessResponse struct {
	Data  SetCommentHiddenResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// SetCommentHidden godoc
// @Summary Hide or unhide a comment
// @Description Sets the hidden flag of a comment. Hidden comments stay stored and visible to moderators. Requires the events.manage permission.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentID path int true "Comment ID"
// @Param body body SetCommentHiddenRequest true "Hidden flag"
// @Success 200 {object} controllers.SetCommentHiddenSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /comments/{commentID}/hidden [patch]
func (c *CommentController) SetCommentHidden(w http.ResponseWriter, r *http.Request) {
	commentID, ok := parsePathID(r, "commentID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid commentID")
		return
	}
	var req SetCommentHiddenRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.SetHidden(r.Context(), commentID, *req.Hidden); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "comment not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SetCommentHiddenResponse{Status: "updated"})
}

// DeleteCommentResponse is the data payload for DELETE /comments/{commentID} (200).
type DeleteCommentResponse struct {
	Status string `json:"status"`
}

// DeleteCommentSuccessResponse is the success response envelope for DELETE /comments/{commentID} (200).
type DeleteCommentSuccessResponse struct {
	Data  DeleteCommentResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Deletes the comment. Allowed for the comment's author or callers with the events.manage permission. Deleting a top-level comment deletes its replies.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentID path int true "Comment ID"
// @Success 200 {object} controllers.DeleteCommentSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not author or moderator)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /comments/{commentID} [delete]
func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := parsePathID(r, "commentID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid commentID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), commentID, userID, c.isModerator(r)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "comment not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteCommentResponse{Status: "deleted"})
}
