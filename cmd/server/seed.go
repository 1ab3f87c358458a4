package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventmanagement/internal/domain"
)

type seedDeps struct {
	Roles           domain.RoleRepository
	RolePermissions domain.RolePermissionRepository
	Events          domain.EventRepository
	Logger          *slog.Logger
	DemoData        bool
}

// rolePermissions defines the default grant set per role. The user role holds
// no permissions; supervisors hold everything.
var rolePermissions = map[string][]string{
	"user":  {},
	"admin": {domain.PermManageEvents, domain.PermViewSubscribers},
	"supervisor": {
		domain.PermManageEvents,
		domain.PermViewSubscribers,
		domain.PermManageUsers,
		domain.PermManageRoles,
		domain.PermConfigurePermissions,
	},
}

// seed ensures the default roles and their permission grants exist. Role
// creation and grants are idempotent, so seeding runs on every start. Demo
// events are inserted only when enabled and the event table is empty.
func seed(ctx context.Context, deps seedDeps) error {
	for code, perms := range rolePermissions {
		role, err := deps.Roles.Create(ctx, code)
		if err != nil {
			return fmt.Errorf("seed role %q: %w", code, err)
		}
		for _, p := range perms {
			if err := deps.RolePermissions.Grant(ctx, role.ID, p); err != nil {
				return fmt.Errorf("seed grant %q to role %q: %w", p, code, err)
			}
		}
	}
	deps.Logger.Info("roles seeded", "count", len(rolePermissions))

	if !deps.DemoData {
		return nil
	}
	existing, err := deps.Events.List(ctx)
	if err != nil {
		return fmt.Errorf("seed demo events: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	now := time.Now()
	for _, e := range demoEvents(now) {
		if err := deps.Events.Create(ctx, e); err != nil {
			return fmt.Errorf("seed demo event %q: %w", e.Title, err)
		}
	}
	deps.Logger.Info("demo events seeded")
	return nil
}

func demoEvents(now time.Time) []*domain.Event {
	str := func(s string) *string { return &s }
	return []*domain.Event{
		domain.NewEvent(
			"Music Festival",
			str("Three days of live music across four stages."),
			now.AddDate(0, 1, 0),
			str("Rome"),
			str("Music"),
			200,
			now, now,
		),
		domain.NewEvent(
			"Tech Conference",
			str("Talks and workshops on modern software engineering."),
			now.AddDate(0, 2, 0),
			str("Milan"),
			str("Technology"),
			500,
			now, now,
		),
		domain.NewEvent(
			"Art Exhibition",
			str("Contemporary art from emerging artists."),
			now.AddDate(0, 0, 14),
			str("Florence"),
			str("Art"),
			100,
			now, now,
		),
	}
}
