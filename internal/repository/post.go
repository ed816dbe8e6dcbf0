package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogcomments/internal/model"
	"blogcomments/internal/spec"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// SelectTitle resolves the title of the first post matching s.
func (r *postRepository) SelectTitle(ctx context.Context, s spec.PostSpec) (string, error) {
	var titles []string
	if err := selectSpec(ctx, r.db, &titles, `SELECT p.title FROM posts p`, s); err != nil {
		return "", fmt.Errorf("select post title: %w", err)
	}
	if len(titles) == 0 {
		return "", model.ErrPostNotFound
	}
	return titles[0], nil
}
