package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Comment represents a top-level reader comment on a post.
type Comment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PostID     uuid.UUID `db:"post_id" json:"post_id"`
	Username   string    `db:"username" json:"username"`
	Email      string    `db:"email" json:"email"`
	IPAddress  string    `db:"ip_address" json:"-"`
	Content    string    `db:"comment_content" json:"comment_content"`
	CreatedAt  time.Time `db:"create_time_utc" json:"create_time_utc"`
	IsApproved bool      `db:"is_approved" json:"is_approved"`
}

// CommentReply is a moderator reply owned by a single comment.
type CommentReply struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CommentID uuid.UUID `db:"comment_id" json:"comment_id"`
	Content   string    `db:"reply_content" json:"reply_content"`
	CreatedAt time.Time `db:"create_time_utc" json:"create_time_utc"`
}

// CommentRequest carries a reader submission through moderation.
// It is never persisted as-is.
type CommentRequest struct {
	PostID    uuid.UUID `json:"post_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IPAddress string    `json:"-"`
	Content   string    `json:"content"`
}

// ReplyItem is the reply shape embedded in comment listings.
type ReplyItem struct {
	Content   string    `json:"reply_content"`
	CreatedAt time.Time `json:"create_time_utc"`
}

// CommentItem is the public projection shown under a post.
type CommentItem struct {
	ID        uuid.UUID   `db:"id" json:"-"`
	Username  string      `db:"username" json:"username"`
	Content   string      `db:"comment_content" json:"comment_content"`
	CreatedAt time.Time   `db:"create_time_utc" json:"create_time_utc"`
	Replies   []ReplyItem `db:"-" json:"replies"`
}

// CommentDetailedItem is the administration projection.
type CommentDetailedItem struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	PostTitle  string      `db:"post_title" json:"post_title"`
	Username   string      `db:"username" json:"username"`
	Email      string      `db:"email" json:"email"`
	IPAddress  string      `db:"ip_address" json:"ip_address"`
	Content    string      `db:"comment_content" json:"comment_content"`
	CreatedAt  time.Time   `db:"create_time_utc" json:"create_time_utc"`
	IsApproved bool        `db:"is_approved" json:"is_approved"`
	Replies    []ReplyItem `db:"-" json:"replies"`
}

// Comment errors
var (
	ErrInvalidArgument = errors.New("invalid argument")

	ErrNoCommentIDs    = fmt.Errorf("%w: at least one comment id is required", ErrInvalidArgument)
	ErrPageOutOfRange  = fmt.Errorf("%w: page size and page number must be positive", ErrInvalidArgument)
	ErrContentRequired = fmt.Errorf("%w: reply content is required", ErrInvalidArgument)

	ErrCommentNotFound = errors.New("comment not found")
)
