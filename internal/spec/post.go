package spec

import (
	"github.com/google/uuid"

	"blogcomments/internal/model"
)

// PostSpec selects a single post by id. Posts are aliased "p".
type PostSpec struct {
	id uuid.UUID
}

func PostByID(id uuid.UUID) PostSpec {
	return PostSpec{id: id}
}

func (s PostSpec) ID() uuid.UUID {
	return s.id
}

func (s PostSpec) Match(p model.Post) bool {
	return p.ID == s.id
}

func (s PostSpec) Less(a, b model.Post) bool {
	return false
}

func (s PostSpec) Where() (string, []any) {
	return "p.id = ?", []any{s.id.String()}
}

func (s PostSpec) OrderBy() string {
	return ""
}

func (s PostSpec) Page() (Page, bool) {
	return Page{Size: 1, Number: 1}, true
}

var _ Specification[model.Post] = PostSpec{}
