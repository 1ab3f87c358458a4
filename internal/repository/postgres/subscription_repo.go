package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventmanagement/internal/domain"
)

type subscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) domain.SubscriptionRepository {
	return &subscriptionRepository{
		DB: db,
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, sub.EventID, sub.UserID, sub.CreatedAt).Scan(&sub.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadySubscribed
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, eventID int64, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions WHERE event_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *subscriptionRepository) CountByEventID(ctx context.Context, eventID int64) (int, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE event_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, eventID int64, userID string) (bool, error) {
	query := `DELETE FROM subscriptions WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *subscriptionRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Subscription, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM subscriptions
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*domain.Subscription, 0)
	for rows.Next() {
		sub := &domain.Subscription{}
		if err := rows.Scan(&sub.ID, &sub.EventID, &sub.UserID, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, eventID int64) ([]*domain.Subscriber, error) {
	query := `
		SELECT s.user_id, u.name, u.email, s.created_at
		FROM subscriptions s
		INNER JOIN users u ON u.id = s.user_id
		WHERE s.event_id = $1
		ORDER BY s.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := make([]*domain.Subscriber, 0)
	for rows.Next() {
		sub := &domain.Subscriber{}
		if err := rows.Scan(&sub.UserID, &sub.Name, &sub.Email, &sub.SubscribedAt); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, sub)
	}
	return subscribers, rows.Err()
}
