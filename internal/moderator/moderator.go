// Package moderator applies the banned word policy to comment submissions.
package moderator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blogcomments/internal/model"
	"blogcomments/internal/wordfilter"
)

// CommentModerator checks and cleans submitted text.
type CommentModerator interface {
	// HasBadWord reports whether any input contains a banned term.
	HasBadWord(ctx context.Context, inputs ...string) (bool, error)
	// Mask replaces banned terms in input.
	Mask(ctx context.Context, input string) (string, error)
}

// WordSource supplies the current banned word list.
type WordSource interface {
	BannedWords(ctx context.Context) ([]string, error)
}

// StaticSource is a fixed word list.
type StaticSource []string

func (s StaticSource) BannedWords(ctx context.Context) ([]string, error) {
	return s, nil
}

// LocalModerator evaluates the word filter in process against a source
// that is read on every call, so list changes apply immediately.
type LocalModerator struct {
	source WordSource
}

func NewLocalModerator(source WordSource) *LocalModerator {
	return &LocalModerator{source: source}
}

func (m *LocalModerator) HasBadWord(ctx context.Context, inputs ...string) (bool, error) {
	f, err := m.filter(ctx)
	if err != nil {
		return false, err
	}
	for _, in := range inputs {
		if f.Contains(in) {
			return true, nil
		}
	}
	return false, nil
}

func (m *LocalModerator) Mask(ctx context.Context, input string) (string, error) {
	f, err := m.filter(ctx)
	if err != nil {
		return "", err
	}
	return f.Mask(input), nil
}

// filter loads the word list and builds a Filter. Any load failure is an
// error: content is never let through unchecked. Cancellation is returned as
// is so callers can tell it apart from an unavailable source.
func (m *LocalModerator) filter(ctx context.Context) (*wordfilter.Filter, error) {
	words, err := m.source.BannedWords(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("load banned words: %w", err)
		}
		log.Printf("[Moderator] Banned word source FAILED: err=%v", err)
		return nil, fmt.Errorf("%w: %w", model.ErrWordSourceUnavailable, err)
	}
	return wordfilter.New(words), nil
}
