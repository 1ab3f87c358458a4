package domain

import (
	"context"
	"time"
)

// Change kinds published after mutating operations.
const (
	ChangeEventCreated = "event.created"
	ChangeEventUpdated = "event.updated"
	ChangeEventDeleted = "event.deleted"
	ChangeSubscribed   = "event.subscribed"
	ChangeUnsubscribed = "event.unsubscribed"
	ChangeCommentAdded = "event.comment_added"
)

// ChangeEvent is the fire-and-forget signal emitted after a mutation so
// clients can refresh. It carries no durable state and has no delivery or
// ordering guarantee.
type ChangeEvent struct {
	Kind       string    `json:"kind"`
	EventID    int64     `json:"event_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ChangePublisher publishes change signals. Publish must not block request
// handling; failures are for the caller to log and ignore.
type ChangePublisher interface {
	Publish(ctx context.Context, change ChangeEvent) error
}
