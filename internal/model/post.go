package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Post is the slice of a blog post this subsystem reads. Posts are
// referenced by id only and never mutated here.
type Post struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"create_time_utc" json:"create_time_utc"`
}

// Post errors
var (
	ErrPostNotFound = errors.New("post not found")
)
