package domain

import (
	"context"
	"time"
)

// Limits enforced on event creation and update.
const (
	MaxTitleLength     = 200
	MaxParticipantsCap = 100000
)

// Event represents a schedulable activity users may subscribe to.
type Event struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	StartTime       time.Time `json:"start_time"`
	Location        *string   `json:"location"`
	Category        *string   `json:"category"`
	MaxParticipants int       `json:"max_participants"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title string, description *string, startTime time.Time, location, category *string, maxParticipants int, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:           title,
		Description:     description,
		StartTime:       startTime,
		Location:        location,
		Category:        category,
		MaxParticipants: maxParticipants,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// EventSearchFilter holds the optional filters for event search.
// Text matches title, description, and location case-insensitively.
type EventSearchFilter struct {
	Text     string
	Category string
	Location string
	From     *time.Time
	To       *time.Time
}

// EventStats is the aggregate view over the whole event table.
type EventStats struct {
	TotalEvents        int `json:"total_events"`
	UpcomingEvents     int `json:"upcoming_events"`
	TotalSubscriptions int `json:"total_subscriptions"`
	TotalCapacity      int `json:"total_capacity"`
}

// EventWithSubscriptions bundles an event with its subscription rows.
type EventWithSubscriptions struct {
	Event         *Event          `json:"event"`
	Subscriptions []*Subscription `json:"subscriptions"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// List returns all events ordered by start time ascending.
	List(ctx context.Context) ([]*Event, error)
	Search(ctx context.Context, filter EventSearchFilter) ([]*Event, error)
	// Update overwrites every mutable field of the event row.
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, now time.Time) (*EventStats, error)
}

// EventService defines event CRUD and query operations.
// Access control for the mutating operations lives at the HTTP layer.
type EventService interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*EventWithSubscriptions, error)
	List(ctx context.Context) ([]*Event, error)
	Search(ctx context.Context, filter EventSearchFilter) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*EventStats, error)
}
