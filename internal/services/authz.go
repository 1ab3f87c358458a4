package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventmanagement/internal/domain"
)

type authzService struct {
	userRepo           domain.UserRepository
	roleRepo           domain.RoleRepository
	rolePermissionRepo domain.RolePermissionRepository
	contextTimeout     time.Duration
}

// NewAuthzService creates an AuthzService over the role/permission tables.
func NewAuthzService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	rolePermissionRepo domain.RolePermissionRepository,
	timeout time.Duration,
) domain.AuthzService {
	return &authzService{
		userRepo:           userRepo,
		roleRepo:           roleRepo,
		rolePermissionRepo: rolePermissionRepo,
		contextTimeout:     timeout,
	}
}

// HasPermission denies unauthenticated callers, resolves the user, then walks
// the user's roles until one holds the permission. The permission string is
// not validated here: an unknown string simply never matches a grant.
func (s *authzService) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return false, nil
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get user: %w", err)
	}

	roles, err := s.roleRepo.ListByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list roles: %w", err)
	}
	for _, role := range roles {
		grants, err := s.rolePermissionRepo.ListByRoleID(ctx, role.ID)
		if err != nil {
			return false, fmt.Errorf("list grants for role %q: %w", role.Code, err)
		}
		for _, granted := range grants {
			if granted == permission {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *authzService) Grant(ctx context.Context, roleCode, permission string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.IsValidPermission(permission) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPermission, permission)
	}
	role, err := s.roleRepo.GetByCode(ctx, roleCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get role: %w", err)
	}
	if err := s.rolePermissionRepo.Grant(ctx, role.ID, permission); err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

func (s *authzService) Revoke(ctx context.Context, roleCode, permission string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	role, err := s.roleRepo.GetByCode(ctx, roleCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get role: %w", err)
	}
	removed, err := s.rolePermissionRepo.Revoke(ctx, role.ID, permission)
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	if !removed {
		return domain.ErrNotFound
	}
	return nil
}

func (s *authzService) ListGrants(ctx context.Context) (map[string][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	matrix, err := s.rolePermissionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return matrix, nil
}
