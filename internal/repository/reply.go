package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogcomments/internal/model"
	"blogcomments/internal/spec"
)

type commentReplyRepository struct {
	db *sqlx.DB
}

func NewCommentReplyRepository(db *sqlx.DB) CommentReplyRepository {
	return &commentReplyRepository{db: db}
}

func (r *commentReplyRepository) Get(ctx context.Context, s spec.CommentReplySpec) ([]model.CommentReply, error) {
	base := `SELECT r.id, r.comment_id, r.reply_content, r.create_time_utc FROM comment_replies r`

	replies := []model.CommentReply{}
	if err := selectSpec(ctx, r.db, &replies, base, s); err != nil {
		return nil, fmt.Errorf("get replies: %w", err)
	}
	return replies, nil
}

func (r *commentReplyRepository) Create(ctx context.Context, reply *model.CommentReply) error {
	query := r.db.Rebind(`
		INSERT INTO comment_replies (id, comment_id, reply_content, create_time_utc)
		VALUES (?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query, reply.ID.String(), reply.CommentID.String(), reply.Content, reply.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reply: %w", err)
	}
	return nil
}

func (r *commentReplyRepository) Delete(ctx context.Context, replies []model.CommentReply) error {
	if len(replies) == 0 {
		return nil
	}
	ids := make([]string, len(replies))
	for i, reply := range replies {
		ids[i] = reply.ID.String()
	}

	if _, err := execIn(ctx, r.db, `DELETE FROM comment_replies WHERE id IN (?)`, ids); err != nil {
		return fmt.Errorf("delete replies: %w", err)
	}
	return nil
}
