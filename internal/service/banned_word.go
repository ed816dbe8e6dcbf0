package service

import (
	"context"
	"fmt"
	"log"

	"blogcomments/internal/model"
	"blogcomments/internal/repository"
)

// WordCacheInvalidator drops a cached banned word list after the stored list
// changes.
type WordCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ModerationService maintains the banned word list and exposes the audit
// trail. A nil cache means the moderator reads the repository directly.
type ModerationService struct {
	words  repository.BannedWordRepository
	audits repository.AuditRepository
	cache  WordCacheInvalidator
}

func NewModerationService(
	words repository.BannedWordRepository,
	audits repository.AuditRepository,
	cache WordCacheInvalidator,
) *ModerationService {
	return &ModerationService{words: words, audits: audits, cache: cache}
}

func (s *ModerationService) BannedWords(ctx context.Context) ([]string, error) {
	return s.words.BannedWords(ctx)
}

// AddBannedWords stores words and drops the cached list.
func (s *ModerationService) AddBannedWords(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}
	if err := s.words.Add(ctx, words...); err != nil {
		return err
	}
	log.Printf("[ModerationService] Added %d banned words", len(words))
	return s.invalidate(ctx)
}

// RemoveBannedWord deletes word and drops the cached list, so the next
// moderation check no longer matches it.
func (s *ModerationService) RemoveBannedWord(ctx context.Context, word string) error {
	if err := s.words.Remove(ctx, word); err != nil {
		return err
	}
	log.Printf("[ModerationService] Removed banned word %q", word)
	return s.invalidate(ctx)
}

// RecentAudit returns up to limit audit events, newest first.
func (s *ModerationService) RecentAudit(ctx context.Context, limit int) ([]model.AuditEvent, error) {
	return s.audits.List(ctx, limit)
}

func (s *ModerationService) invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate banned word cache: %w", err)
	}
	return nil
}
