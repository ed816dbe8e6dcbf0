package spec

import (
	"slices"

	"github.com/google/uuid"

	"blogcomments/internal/model"
)

// CommentSpec selects comments. Comments are aliased "c" in rendered SQL.
//
// The zero value selects every comment in storage order. With* methods
// return modified copies; a CommentSpec is never mutated in place.
type CommentSpec struct {
	postID      uuid.UUID
	hasPost     bool
	approved    bool
	hasApproved bool
	ids         []uuid.UUID
	hasIDs      bool
	newestFirst bool
	page        Page
	paged       bool
}

// ApprovedForPost selects the approved comments of a post, newest first.
func ApprovedForPost(postID uuid.UUID) CommentSpec {
	return CommentSpec{}.ForPost(postID).Approved(true).NewestFirst()
}

// CommentPage selects one page of all comments, newest first.
func CommentPage(pageSize, pageNumber int) CommentSpec {
	return CommentSpec{}.NewestFirst().Paged(pageSize, pageNumber)
}

// CommentsByIDs selects the comments with the given ids.
func CommentsByIDs(ids []uuid.UUID) CommentSpec {
	return CommentSpec{}.WithIDs(ids...)
}

func (s CommentSpec) ForPost(postID uuid.UUID) CommentSpec {
	s.postID = postID
	s.hasPost = true
	return s
}

func (s CommentSpec) Approved(approved bool) CommentSpec {
	s.approved = approved
	s.hasApproved = true
	return s
}

// WithIDs restricts the selection to ids. An empty list selects nothing.
func (s CommentSpec) WithIDs(ids ...uuid.UUID) CommentSpec {
	s.ids = slices.Clone(ids)
	s.hasIDs = true
	return s
}

func (s CommentSpec) NewestFirst() CommentSpec {
	s.newestFirst = true
	return s
}

func (s CommentSpec) Paged(pageSize, pageNumber int) CommentSpec {
	s.page = Page{Size: pageSize, Number: pageNumber}
	s.paged = true
	return s
}

func (s CommentSpec) Match(c model.Comment) bool {
	if s.hasPost && c.PostID != s.postID {
		return false
	}
	if s.hasApproved && c.IsApproved != s.approved {
		return false
	}
	if s.hasIDs && !slices.Contains(s.ids, c.ID) {
		return false
	}
	return true
}

func (s CommentSpec) Less(a, b model.Comment) bool {
	return s.newestFirst && a.CreatedAt.After(b.CreatedAt)
}

func (s CommentSpec) Where() (string, []any) {
	var w where
	if s.hasPost {
		w.add("c.post_id = ?", s.postID.String())
	}
	if s.hasApproved {
		w.add("c.is_approved = ?", s.approved)
	}
	if s.hasIDs {
		if len(s.ids) == 0 {
			w.add("1 = 0")
		} else {
			w.add("c.id IN (?)", idStrings(s.ids))
		}
	}
	return w.String(), w.args
}

func (s CommentSpec) OrderBy() string {
	if s.newestFirst {
		return "c.create_time_utc DESC, c.id DESC"
	}
	return ""
}

func (s CommentSpec) Page() (Page, bool) {
	return s.page, s.paged
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

var _ Specification[model.Comment] = CommentSpec{}
