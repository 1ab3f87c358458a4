package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventmanagement/internal/domain"
)

type subscriptionService struct {
	eventRepo        domain.EventRepository
	userRepo         domain.UserRepository
	subscriptionRepo domain.SubscriptionRepository
	publisher        domain.ChangePublisher
	logger           *slog.Logger
	now              func() time.Time
	contextTimeout   time.Duration
}

// NewSubscriptionService creates a SubscriptionService with the given
// repositories. publisher may be nil when no change signal is wired.
func NewSubscriptionService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	subscriptionRepo domain.SubscriptionRepository,
	publisher domain.ChangePublisher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SubscriptionService {
	return &subscriptionService{
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		logger:           logger,
		now:              time.Now,
		contextTimeout:   timeout,
	}
}

// Subscribe runs the registration checks in a fixed order; the first failing
// check determines the outcome. Each outcome except success leaves the store
// untouched. The capacity check is best-effort: two concurrent calls can both
// pass it, so the unique index on (event_id, user_id) is the only hard
// guarantee and its violation surfaces as SubscribeAlreadySubscribed.
func (s *subscriptionService) Subscribe(ctx context.Context, eventID int64, userID string) (domain.SubscribeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.SubscribeEventNotFound, nil
		}
		return "", fmt.Errorf("get event: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.SubscribeUserNotFound, nil
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	// Registration closes once the event has started.
	if !event.StartTime.After(s.now()) {
		return domain.SubscribeEventClosed, nil
	}

	exists, err := s.subscriptionRepo.Exists(ctx, eventID, userID)
	if err != nil {
		return "", fmt.Errorf("check subscription: %w", err)
	}
	if exists {
		return domain.SubscribeAlreadySubscribed, nil
	}

	count, err := s.subscriptionRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("count subscriptions: %w", err)
	}
	if count >= event.MaxParticipants {
		return domain.SubscribeEventFull, nil
	}

	sub := domain.NewSubscription(eventID, userID, s.now())
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, domain.ErrAlreadySubscribed) {
			// Lost the race against a concurrent subscribe for the same pair.
			return domain.SubscribeAlreadySubscribed, nil
		}
		return "", fmt.Errorf("create subscription: %w", err)
	}

	s.publish(ctx, domain.ChangeSubscribed, eventID)
	return domain.SubscribeSuccess, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, eventID int64, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	removed, err := s.subscriptionRepo.Delete(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	if removed {
		s.publish(ctx, domain.ChangeUnsubscribed, eventID)
	}
	return removed, nil
}

func (s *subscriptionService) IsSubscribed(ctx context.Context, eventID int64, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.subscriptionRepo.Exists(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return exists, nil
}

func (s *subscriptionService) ListSubscribers(ctx context.Context, eventID int64) ([]*domain.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	subscribers, err := s.subscriptionRepo.ListSubscribers(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	if subscribers == nil {
		subscribers = []*domain.Subscriber{}
	}
	return subscribers, nil
}

// publish emits a change signal; failures are logged and never propagated.
func (s *subscriptionService) publish(ctx context.Context, kind string, eventID int64) {
	if s.publisher == nil {
		return
	}
	change := domain.ChangeEvent{Kind: kind, EventID: eventID, OccurredAt: s.now()}
	if err := s.publisher.Publish(ctx, change); err != nil {
		s.logger.WarnContext(ctx, "change publish failed", "kind", kind, "event_id", eventID, "err", err)
	}
}
