package spec

import (
	"slices"

	"github.com/google/uuid"

	"blogcomments/internal/model"
)

// CommentReplySpec selects the replies owned by a set of comments, oldest
// first. Replies are aliased "r" in rendered SQL.
type CommentReplySpec struct {
	commentIDs []uuid.UUID
}

// RepliesFor selects replies of the given comments. No ids selects nothing.
func RepliesFor(commentIDs ...uuid.UUID) CommentReplySpec {
	return CommentReplySpec{commentIDs: slices.Clone(commentIDs)}
}

func (s CommentReplySpec) Match(r model.CommentReply) bool {
	return slices.Contains(s.commentIDs, r.CommentID)
}

func (s CommentReplySpec) Less(a, b model.CommentReply) bool {
	return a.CreatedAt.Before(b.CreatedAt)
}

func (s CommentReplySpec) Where() (string, []any) {
	if len(s.commentIDs) == 0 {
		return "1 = 0", nil
	}
	return "r.comment_id IN (?)", []any{idStrings(s.commentIDs)}
}

func (s CommentReplySpec) OrderBy() string {
	return "r.create_time_utc ASC, r.id ASC"
}

func (s CommentReplySpec) Page() (Page, bool) {
	return Page{}, false
}

var _ Specification[model.CommentReply] = CommentReplySpec{}
