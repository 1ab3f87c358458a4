package domain

import (
	"context"
	"time"
)

// Comment is a user comment on an event. Replies reference their parent
// comment; the thread is at most one level deep. Deleting the event deletes
// its comments at the schema level.
type Comment struct {
	ID              int64      `json:"id"`
	EventID         int64      `json:"event_id"`
	ParentID        *int64     `json:"parent_id"`
	UserID          string     `json:"user_id"`
	UserDisplayName string     `json:"user_display_name"`
	Body            string     `json:"body"`
	FromAdmin       bool       `json:"from_admin"`
	Hidden          bool       `json:"hidden"`
	CreatedAt       time.Time  `json:"created_at"`
	Replies         []*Comment `json:"replies,omitempty"`
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	// ListByEventID returns all comments of an event ordered by creation time
	// ascending, flat (threading is assembled by the service).
	ListByEventID(ctx context.Context, eventID int64) ([]*Comment, error)
	SetHidden(ctx context.Context, id int64, hidden bool) error
	Delete(ctx context.Context, id int64) error
}

// CommentService defines comment operations. Bodies are stored and served
// verbatim; rendering is the client's concern.
type CommentService interface {
	Add(ctx context.Context, eventID int64, userID string, parentID *int64, body string) (*Comment, error)
	// ListByEvent returns top-level comments with nested replies. Hidden
	// comments are included only when includeHidden is set.
	ListByEvent(ctx context.Context, eventID int64, includeHidden bool) ([]*Comment, error)
	SetHidden(ctx context.Context, commentID int64, hidden bool) error
	// Delete removes the comment if callerID is its author or isModerator.
	Delete(ctx context.Context, commentID int64, callerID string, isModerator bool) error
}
