package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogcomments/internal/model"
	"blogcomments/internal/spec"
)

const commentColumns = `c.id, c.post_id, c.username, c.email, c.ip_address, c.comment_content, c.create_time_utc, c.is_approved`

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Count(ctx context.Context, s spec.CommentSpec) (int, error) {
	query := `SELECT COUNT(*) FROM comments c`
	where, args := s.Where()
	if where != "" {
		query += " WHERE " + where
	}
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return 0, fmt.Errorf("expand count query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

func (r *commentRepository) Get(ctx context.Context, s spec.CommentSpec) ([]model.Comment, error) {
	comments := []model.Comment{}
	if err := selectSpec(ctx, r.db, &comments, `SELECT `+commentColumns+` FROM comments c`, s); err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	query := r.db.Rebind(`SELECT ` + commentColumns + ` FROM comments c WHERE c.id = ?`)

	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) SelectItems(ctx context.Context, s spec.CommentSpec) ([]model.CommentItem, error) {
	base := `SELECT c.id, c.username, c.comment_content, c.create_time_utc FROM comments c`

	items := []model.CommentItem{}
	if err := selectSpec(ctx, r.db, &items, base, s); err != nil {
		return nil, fmt.Errorf("select comment items: %w", err)
	}
	return items, nil
}

func (r *commentRepository) SelectDetailed(ctx context.Context, s spec.CommentSpec) ([]model.CommentDetailedItem, error) {
	base := `
		SELECT c.id, p.title AS post_title, c.username, c.email, c.ip_address,
		       c.comment_content, c.create_time_utc, c.is_approved
		FROM comments c
		JOIN posts p ON p.id = c.post_id`

	items := []model.CommentDetailedItem{}
	if err := selectSpec(ctx, r.db, &items, base, s); err != nil {
		return nil, fmt.Errorf("select detailed comments: %w", err)
	}
	return items, nil
}

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := r.db.Rebind(`
		INSERT INTO comments (id, post_id, username, email, ip_address, comment_content, create_time_utc, is_approved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		c.ID.String(), c.PostID.String(), c.Username, c.Email, c.IPAddress, c.Content, c.CreatedAt, c.IsApproved)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// Update writes every mutable column of c.
func (r *commentRepository) Update(ctx context.Context, c *model.Comment) error {
	query := r.db.Rebind(`
		UPDATE comments
		SET username = ?, email = ?, ip_address = ?, comment_content = ?, is_approved = ?
		WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query, c.Username, c.Email, c.IPAddress, c.Content, c.IsApproved, c.ID.String())
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if n == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// Delete removes a single comment. Its replies must already be gone.
func (r *commentRepository) Delete(ctx context.Context, c *model.Comment) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM comments WHERE id = ?`), c.ID.String())
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
