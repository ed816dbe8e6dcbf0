package repository

import (
	"context"

	"github.com/google/uuid"

	"blogcomments/internal/model"
	"blogcomments/internal/spec"
)

type CommentRepository interface {
	// Count counts the comments matching s. Paging and ordering are ignored.
	Count(ctx context.Context, s spec.CommentSpec) (int, error)
	Get(ctx context.Context, s spec.CommentSpec) ([]model.Comment, error)
	// GetByID returns model.ErrCommentNotFound when no comment has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	// SelectItems projects matching comments to the public shape. Replies are not filled.
	SelectItems(ctx context.Context, s spec.CommentSpec) ([]model.CommentItem, error)
	// SelectDetailed projects matching comments with their post title. Replies are not filled.
	SelectDetailed(ctx context.Context, s spec.CommentSpec) ([]model.CommentDetailedItem, error)
	Create(ctx context.Context, comment *model.Comment) error
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, comment *model.Comment) error
}

type CommentReplyRepository interface {
	Get(ctx context.Context, s spec.CommentReplySpec) ([]model.CommentReply, error)
	Create(ctx context.Context, reply *model.CommentReply) error
	Delete(ctx context.Context, replies []model.CommentReply) error
}

type PostRepository interface {
	// SelectTitle returns model.ErrPostNotFound when no post matches.
	SelectTitle(ctx context.Context, s spec.PostSpec) (string, error)
}

type BannedWordRepository interface {
	BannedWords(ctx context.Context) ([]string, error)
	Add(ctx context.Context, words ...string) error
	Remove(ctx context.Context, word string) error
}

type AuditRepository interface {
	// Insert ignores events whose id is already stored, so redelivered
	// stream messages are harmless.
	Insert(ctx context.Context, event model.AuditEvent) error
	List(ctx context.Context, limit int) ([]model.AuditEvent, error)
}
