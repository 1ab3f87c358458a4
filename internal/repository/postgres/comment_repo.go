package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventmanagement/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{DB: db}
}

const commentColumns = "id, event_id, parent_id, user_id, user_display_name, body, from_admin, hidden, created_at"

func scanComment(row interface{ Scan(...any) error }) (*domain.Comment, error) {
	c := &domain.Comment{}
	var parentNull sql.NullInt64
	err := row.Scan(
		&c.ID, &c.EventID, &parentNull, &c.UserID, &c.UserDisplayName,
		&c.Body, &c.FromAdmin, &c.Hidden, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentNull.Valid {
		c.ParentID = &parentNull.Int64
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (event_id, parent_id, user_id, user_display_name, body, from_admin, hidden, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.EventID, c.ParentID, c.UserID, c.UserDisplayName, c.Body, c.FromAdmin, c.Hidden, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE id = $1
	`
	c, err := scanComment(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) SetHidden(ctx context.Context, id int64, hidden bool) error {
	query := `UPDATE comments SET hidden = $1 WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, hidden, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM comments WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
