package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/pipz"

	"blogcomments/internal/model"
	"blogcomments/internal/spec"
	"blogcomments/internal/wordfilter"
)

// Processor names of the comment creation pipeline.
const (
	ProcessorResolvePost = "resolve-post"
	ProcessorModerate    = "moderate"
	ProcessorWordFilter  = "word-filter"
	ProcessorPersist     = "persist"

	PipelineCreateComment = "create-comment"
)

// errRejected stops the pipeline when the Block policy matches.
var errRejected = errors.New("comment rejected by word filter")

// ErrUnknownFilterMode is returned when ContentSettings carries a mode the
// moderation step does not handle.
var ErrUnknownFilterMode = errors.New("unknown word filter mode")

func isRejected(err error) bool {
	return errors.Is(err, errRejected)
}

// submission is the value flowing through the creation pipeline.
type submission struct {
	req       model.CommentRequest
	postTitle string
	comment   model.Comment
}

func (s submission) Clone() submission {
	return s
}

// createPipeline wires the creation steps:
// resolve-post -> word-filter(moderate) -> persist.
// Persist is last so nothing after the write can fail the submission.
func (s *CommentService) createPipeline() *pipz.Sequence[submission] {
	resolvePost := pipz.Apply(ProcessorResolvePost, func(ctx context.Context, sub submission) (submission, error) {
		title, err := s.postRepo.SelectTitle(ctx, spec.PostByID(sub.req.PostID))
		if err != nil {
			return sub, fmt.Errorf("resolve post %s: %w", sub.req.PostID, err)
		}
		sub.postTitle = title
		return sub, nil
	})

	moderate := pipz.Apply(ProcessorModerate, func(ctx context.Context, sub submission) (submission, error) {
		switch s.settings.WordFilterMode {
		case wordfilter.ModeBlock:
			bad, err := s.moderator.HasBadWord(ctx, sub.req.Username, sub.req.Content)
			if err != nil {
				return sub, fmt.Errorf("check banned words: %w", err)
			}
			if bad {
				return sub, errRejected
			}
		case wordfilter.ModeMask:
			username, err := s.moderator.Mask(ctx, sub.req.Username)
			if err != nil {
				return sub, fmt.Errorf("mask username: %w", err)
			}
			content, err := s.moderator.Mask(ctx, sub.req.Content)
			if err != nil {
				return sub, fmt.Errorf("mask content: %w", err)
			}
			sub.req.Username = username
			sub.req.Content = content
		default:
			return sub, fmt.Errorf("%w: %s", ErrUnknownFilterMode, s.settings.WordFilterMode)
		}
		return sub, nil
	})

	wordFilter := pipz.NewFilter(ProcessorWordFilter, func(_ context.Context, _ submission) bool {
		return s.settings.EnableWordFilter
	}, moderate)

	persist := pipz.Apply(ProcessorPersist, func(ctx context.Context, sub submission) (submission, error) {
		comment := model.Comment{
			ID:         uuid.New(),
			PostID:     sub.req.PostID,
			Username:   sub.req.Username,
			Email:      sub.req.Email,
			IPAddress:  sub.req.IPAddress,
			Content:    sub.req.Content,
			CreatedAt:  time.Now().UTC(),
			IsApproved: !s.settings.RequireCommentReview,
		}
		if err := s.commentRepo.Create(ctx, &comment); err != nil {
			return sub, fmt.Errorf("create comment: %w", err)
		}
		sub.comment = comment
		return sub, nil
	})

	return pipz.NewSequence[submission](
		PipelineCreateComment,
		resolvePost,
		wordFilter,
		persist,
	)
}
