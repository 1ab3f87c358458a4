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

const maxCommentLength = 4000

type commentService struct {
	commentRepo    domain.CommentRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	authz          domain.AuthzService
	publisher      domain.ChangePublisher
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewCommentService creates a CommentService. publisher may be nil.
func NewCommentService(
	commentRepo domain.CommentRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	authz domain.AuthzService,
	publisher domain.ChangePublisher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		authz:          authz,
		publisher:      publisher,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *commentService) Add(ctx context.Context, eventID int64, userID string, parentID *int64, body string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: body is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > maxCommentLength {
		return nil, fmt.Errorf("%w: body exceeds %d characters", domain.ErrInvalidInput, maxCommentLength)
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent comment not found", domain.ErrInvalidInput)
			}
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		if parent.EventID != eventID {
			return nil, fmt.Errorf("%w: parent comment belongs to another event", domain.ErrInvalidInput)
		}
		// One level of threading: replies to replies attach to the top-level parent.
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	fromAdmin, err := s.authz.HasPermission(ctx, userID, domain.PermManageEvents)
	if err != nil {
		return nil, fmt.Errorf("check moderator: %w", err)
	}

	displayName := user.Name
	if displayName == "" {
		displayName = user.Email
	}
	comment := &domain.Comment{
		EventID:         eventID,
		ParentID:        parentID,
		UserID:          userID,
		UserDisplayName: displayName,
		Body:            body,
		FromAdmin:       fromAdmin,
		CreatedAt:       time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if s.publisher != nil {
		change := domain.ChangeEvent{Kind: domain.ChangeCommentAdded, EventID: eventID, OccurredAt: time.Now()}
		if err := s.publisher.Publish(ctx, change); err != nil {
			s.logger.WarnContext(ctx, "change publish failed", "kind", change.Kind, "event_id", eventID, "err", err)
		}
	}
	return comment, nil
}

func (s *commentService) ListByEvent(ctx context.Context, eventID int64, includeHidden bool) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	flat, err := s.commentRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	// Assemble one-level threads from the flat, time-ordered list.
	byID := make(map[int64]*domain.Comment, len(flat))
	threads := make([]*domain.Comment, 0)
	for _, c := range flat {
		if c.Hidden && !includeHidden {
			continue
		}
		byID[c.ID] = c
		if c.ParentID == nil {
			threads = append(threads, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
		// Replies to hidden or missing parents are dropped from the view.
	}
	return threads, nil
}

func (s *commentService) SetHidden(ctx context.Context, commentID int64, hidden bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.commentRepo.SetHidden(ctx, commentID, hidden); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set comment hidden: %w", err)
	}
	return nil
}

func (s *commentService) Delete(ctx context.Context, commentID int64, callerID string, isModerator bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if comment.UserID != callerID && !isModerator {
		return domain.ErrForbidden
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
