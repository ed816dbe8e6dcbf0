package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type bannedWordRepository struct {
	db *sqlx.DB
}

func NewBannedWordRepository(db *sqlx.DB) BannedWordRepository {
	return &bannedWordRepository{db: db}
}

// BannedWords lists every stored term in alphabetical order.
func (r *bannedWordRepository) BannedWords(ctx context.Context) ([]string, error) {
	words := []string{}
	if err := r.db.SelectContext(ctx, &words, `SELECT word FROM banned_words ORDER BY word`); err != nil {
		return nil, fmt.Errorf("list banned words: %w", err)
	}
	return words, nil
}

// Add stores words lower-cased. Existing and blank words are skipped.
func (r *bannedWordRepository) Add(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`INSERT INTO banned_words (word) VALUES (?) ON CONFLICT (word) DO NOTHING`)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, query, w); err != nil {
			return fmt.Errorf("insert banned word: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *bannedWordRepository) Remove(ctx context.Context, word string) error {
	query := r.db.Rebind(`DELETE FROM banned_words WHERE word = ?`)
	if _, err := r.db.ExecContext(ctx, query, strings.ToLower(strings.TrimSpace(word))); err != nil {
		return fmt.Errorf("delete banned word: %w", err)
	}
	return nil
}
