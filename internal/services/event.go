package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"eventmanagement/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	subscriptionRepo domain.SubscriptionRepository
	publisher        domain.ChangePublisher
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewEventService creates an EventService with the given repositories.
// publisher may be nil when no change signal is wired.
func NewEventService(
	eventRepo domain.EventRepository,
	subscriptionRepo domain.SubscriptionRepository,
	publisher domain.ChangePublisher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func validateEvent(e *domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(e.Title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", domain.ErrInvalidInput, domain.MaxTitleLength)
	}
	if e.MaxParticipants < 0 || e.MaxParticipants > domain.MaxParticipantsCap {
		return fmt.Errorf("%w: max participants must be between 0 and %d", domain.ErrInvalidInput, domain.MaxParticipantsCap)
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.publish(ctx, domain.ChangeEventCreated, event.ID)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*domain.EventWithSubscriptions, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	subs, err := s.subscriptionRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if subs == nil {
		subs = []*domain.Subscription{}
	}

	return &domain.EventWithSubscriptions{
		Event:         event,
		Subscriptions: subs,
	}, nil
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) Search(ctx context.Context, filter domain.EventSearchFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}

	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	s.publish(ctx, domain.ChangeEventUpdated, event.ID)
	return nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Subscriptions and comments go with the event via ON DELETE CASCADE.
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.publish(ctx, domain.ChangeEventDeleted, id)
	return nil
}

func (s *eventService) Stats(ctx context.Context) (*domain.EventStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stats, err := s.eventRepo.Stats(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("event stats: %w", err)
	}
	return stats, nil
}

func (s *eventService) publish(ctx context.Context, kind string, eventID int64) {
	if s.publisher == nil {
		return
	}
	change := domain.ChangeEvent{Kind: kind, EventID: eventID, OccurredAt: time.Now()}
	if err := s.publisher.Publish(ctx, change); err != nil {
		s.logger.WarnContext(ctx, "change publish failed", "kind", kind, "event_id", eventID, "err", err)
	}
}
