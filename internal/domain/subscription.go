package domain

import (
	"context"
	"time"
)

// Subscription links one user to one event. The (event_id, user_id) pair is
// unique at the schema level; deleting the event deletes its subscriptions.
type Subscription struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSubscription returns a new Subscription. ID is set by the repository on create.
func NewSubscription(eventID int64, userID string, createdAt time.Time) *Subscription {
	return &Subscription{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

// Subscriber is a subscription row joined with user display info,
// for the per-event subscriber listing.
type Subscriber struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// SubscribeResult is the closed outcome set of a Subscribe call.
// Business outcomes are values, not errors; the error return of Subscribe is
// reserved for infrastructure failures.
type SubscribeResult string

const (
	SubscribeSuccess           SubscribeResult = "success"
	SubscribeEventNotFound     SubscribeResult = "event_not_found"
	SubscribeUserNotFound      SubscribeResult = "user_not_found"
	SubscribeEventClosed       SubscribeResult = "event_closed"
	SubscribeAlreadySubscribed SubscribeResult = "already_subscribed"
	SubscribeEventFull         SubscribeResult = "event_full"
)

// SubscriptionRepository defines storage operations for subscriptions.
type SubscriptionRepository interface {
	// Create inserts the subscription. A unique-index violation on
	// (event_id, user_id) is reported as ErrAlreadySubscribed.
	Create(ctx context.Context, sub *Subscription) error
	Exists(ctx context.Context, eventID int64, userID string) (bool, error)
	CountByEventID(ctx context.Context, eventID int64) (int, error)
	// Delete removes the row for the pair and reports whether one existed.
	Delete(ctx context.Context, eventID int64, userID string) (bool, error)
	ListByEventID(ctx context.Context, eventID int64) ([]*Subscription, error)
	// ListSubscribers returns user display info for an event's subscriptions,
	// ordered by subscription time ascending.
	ListSubscribers(ctx context.Context, eventID int64) ([]*Subscriber, error)
}

// SubscriptionService is the event subscription workflow.
type SubscriptionService interface {
	// Subscribe checks, in order: event exists, user exists, event not yet
	// started, no duplicate subscription, capacity. The first failing check
	// determines the result and nothing is persisted for it.
	Subscribe(ctx context.Context, eventID int64, userID string) (SubscribeResult, error)
	Unsubscribe(ctx context.Context, eventID int64, userID string) (bool, error)
	IsSubscribed(ctx context.Context, eventID int64, userID string) (bool, error)
	ListSubscribers(ctx context.Context, eventID int64) ([]*Subscriber, error)
}
