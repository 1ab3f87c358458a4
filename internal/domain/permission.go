package domain

import "context"

// Permission strings grantable to roles. The set is closed: grants are
// validated against it, checks are not (an unknown string simply never
// matches).
const (
	PermManageEvents         = "events.manage"
	PermViewSubscribers      = "subscribers.view"
	PermManageUsers          = "users.manage"
	PermManageRoles          = "roles.manage"
	PermConfigurePermissions = "permissions.configure"
)

// AllPermissions enumerates every grantable permission.
var AllPermissions = []string{
	PermManageEvents,
	PermViewSubscribers,
	PermManageUsers,
	PermManageRoles,
	PermConfigurePermissions,
}

// IsValidPermission reports whether p belongs to the closed permission set.
func IsValidPermission(p string) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// RolePermissionRepository stores the permission grants of each role.
type RolePermissionRepository interface {
	// Grant is idempotent: granting an already-held permission is a no-op.
	Grant(ctx context.Context, roleID, permission string) error
	// Revoke reports whether a grant was removed.
	Revoke(ctx context.Context, roleID, permission string) (bool, error)
	ListByRoleID(ctx context.Context, roleID string) ([]string, error)
	// ListAll returns the full grant matrix keyed by role code.
	ListAll(ctx context.Context) (map[string][]string, error)
}

// AuthzService evaluates and administers the role/permission model.
type AuthzService interface {
	// HasPermission reports whether at least one of the user's roles holds the
	// permission. An empty user ID or unknown user denies; it never errors on
	// business grounds.
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
	// Grant validates the permission against the closed enumeration before
	// persisting; Revoke does not.
	Grant(ctx context.Context, roleCode, permission string) error
	Revoke(ctx context.Context, roleCode, permission string) error
	ListGrants(ctx context.Context) (map[string][]string, error)
}
