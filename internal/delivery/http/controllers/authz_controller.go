package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"
)

type AuthzController struct {
	Logger  *slog.Logger
	Service domain.AuthzService
}

func NewAuthzController(logger *slog.Logger, svc domain.AuthzService) *AuthzController {
	return &AuthzController{
		Logger:  logger,
		Service: svc,
	}
}

// PermissionMatrixResponse is the data payload for GET /admin/permissions (200).
type PermissionMatrixResponse struct {
	Permissions []string            `json:"permissions"`
	Grants      map[string][]string `json:"grants"`
}

// PermissionMatrixSuccessResponse is the success response envelope for GET /admin/permissions (200).
type PermissionMatrixSuccessResponse struct {
	Data  PermissionMatrixResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// ListPermissions godoc
// @Summary List the permission matrix
// @Description Returns every known permission and the current grants per role code. Requires the permissions.configure permission.
// @Tags permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.PermissionMatrixSuccessResponse "data contains permissions and grants"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/permissions [get]
func (c *AuthzController) ListPermissions(w http.ResponseWriter, r *http.Request) {
	grants, err := c.Service.ListGrants(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PermissionMatrixResponse{
		Permissions: domain.AllPermissions,
		Grants:      grants,
	})
}

// GrantPermissionRequest is the request body for POST and DELETE /admin/roles/{roleCode}/permissions.
type GrantPermissionRequest struct {
	Permission string `json:"permission"`
}

// Validate implements Validator.
func (g GrantPermissionRequest) Validate() []string {
	if strings.TrimSpace(g.Permission) == "" {
		return []string{"permission is required"}
	}
	return nil
}

// GrantPermissionResponse is the data payload for grant/revoke endpoints (200).
type GrantPermissionResponse struct {
	Status string `json:"status"`
}

// GrantPermissionSuccessResponse is the success response envelope for grant/revoke endpoints (200).
type GrantPermissionSuccessResponse struct {
	Data  GrantPermissionResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// GrantPermission godoc
// @Summary Grant a permission to a role
// @Description Grants the permission to the role. Granting an already-held permission is a no-op. The permission must belong to the known set. Requires the permissions.configure permission.
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roleCode path string true "Role code"
// @Param body body GrantPermissionRequest true "Permission string"
// @Success 200 {object} controllers.GrantPermissionSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown permission)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (role)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/roles/{roleCode}/permissions [post]
func (c *AuthzController) GrantPermission(w http.ResponseWriter, r *http.Request) {
	roleCode := r.PathValue("roleCode")
	if roleCode == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing roleCode")
		return
	}
	var req GrantPermissionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Grant(r.Context(), roleCode, strings.TrimSpace(req.Permission)); err != nil {
		if errors.Is(err, domain.ErrUnknownPermission) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown permission")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "role not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GrantPermissionResponse{Status: "granted"})
}

// RevokePermission godoc
// @Summary Revoke a permission from a role
// @Description Revokes the permission from the role. Returns 404 if the role does not hold it.
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roleCode path string true "Role code"
// @Param body body GrantPermissionRequest true "Permission string"
// @Success 200 {object} controllers.GrantPermissionSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (role or grant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/roles/{roleCode}/permissions [delete]
func (c *AuthzController) RevokePermission(w http.ResponseWriter, r *http.Request) {
	roleCode := r.PathValue("roleCode")
	if roleCode == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing roleCode")
		return
	}
	var req GrantPermissionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Revoke(r.Context(), roleCode, strings.TrimSpace(req.Permission)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "role or grant not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GrantPermissionResponse{Status: "revoked"})
}
