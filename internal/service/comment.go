package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/pipz"

	"blogcomments/internal/audit"
	"blogcomments/internal/config"
	"blogcomments/internal/model"
	"blogcomments/internal/moderator"
	"blogcomments/internal/repository"
	"blogcomments/internal/spec"
)

type CommentService struct {
	settings    config.ContentSettings
	audit       audit.Sink
	commentRepo repository.CommentRepository
	replyRepo   repository.CommentReplyRepository
	postRepo    repository.PostRepository
	moderator   moderator.CommentModerator

	create *pipz.Sequence[submission]
}

func NewCommentService(
	settings config.ContentSettings,
	audit audit.Sink,
	commentRepo repository.CommentRepository,
	replyRepo repository.CommentReplyRepository,
	postRepo repository.PostRepository,
	moderator moderator.CommentModerator,
) *CommentService {
	s := &CommentService{
		settings:    settings,
		audit:       audit,
		commentRepo: commentRepo,
		replyRepo:   replyRepo,
		postRepo:    postRepo,
		moderator:   moderator,
	}
	s.create = s.createPipeline()
	return s
}

// Count returns the number of stored comments, approved or not.
func (s *CommentService) Count(ctx context.Context) (int, error) {
	n, err := s.commentRepo.Count(ctx, spec.CommentSpec{})
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

// GetApprovedComments returns the approved comments of a post, newest first,
// each with its replies.
func (s *CommentService) GetApprovedComments(ctx context.Context, postID uuid.UUID) ([]model.CommentItem, error) {
	items, err := s.commentRepo.SelectItems(ctx, spec.ApprovedForPost(postID))
	if err != nil {
		return nil, fmt.Errorf("select approved comments: %w", err)
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	replies, err := s.replyItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]model.CommentItem, 0, len(items))
	for _, item := range items {
		item.Replies = replies[item.ID]
		if item.Replies == nil {
			item.Replies = []model.ReplyItem{}
		}
		result = append(result, item)
	}
	return result, nil
}

// GetComments returns one page of all comments for administration.
func (s *CommentService) GetComments(ctx context.Context, pageSize, pageNumber int) ([]model.CommentDetailedItem, error) {
	page := spec.Page{Size: pageSize, Number: pageNumber}
	if !page.Valid() {
		return nil, model.ErrPageOutOfRange
	}

	items, err := s.commentRepo.SelectDetailed(ctx, spec.CommentPage(pageSize, pageNumber))
	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	replies, err := s.replyItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]model.CommentDetailedItem, 0, len(items))
	for _, item := range items {
		item.Replies = replies[item.ID]
		if item.Replies == nil {
			item.Replies = []model.ReplyItem{}
		}
		result = append(result, item)
	}
	return result, nil
}

// Create moderates and stores a reader submission. A submission rejected by
// the Block policy yields a nil item and a nil error.
func (s *CommentService) Create(ctx context.Context, req model.CommentRequest) (*model.CommentDetailedItem, error) {
	out, err := s.create.Process(ctx, submission{req: req})
	if err != nil {
		if isRejected(err) {
			log.Printf("[CommentService] Comment on post %s rejected by word filter", req.PostID)
			return nil, nil
		}
		// A stored comment is the outcome even if the context ended after
		// the write.
		if out.comment.ID == uuid.Nil {
			return nil, err
		}
		log.Printf("[CommentService] Comment %s stored before pipeline returned: %v", out.comment.ID, err)
	}

	c := out.comment
	log.Printf("[CommentService] Created comment %s on post %s (approved=%t)", c.ID, c.PostID, c.IsApproved)
	s.logAudit(ctx, model.AuditCommentCreated,
		fmt.Sprintf("comment %s on post %q by %s", c.ID, out.postTitle, c.Username))

	return &model.CommentDetailedItem{
		ID:         c.ID,
		PostTitle:  out.postTitle,
		Username:   c.Username,
		Email:      c.Email,
		IPAddress:  c.IPAddress,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		IsApproved: c.IsApproved,
		Replies:    []model.ReplyItem{},
	}, nil
}

// ToggleApproval flips the approval flag of each comment in ids. Unknown ids
// are ignored.
func (s *CommentService) ToggleApproval(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return model.ErrNoCommentIDs
	}

	comments, err := s.commentRepo.Get(ctx, spec.CommentsByIDs(ids))
	if err != nil {
		return fmt.Errorf("get comments: %w", err)
	}

	for i := range comments {
		c := &comments[i]
		c.IsApproved = !c.IsApproved
		if err := s.commentRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("update comment %s: %w", c.ID, err)
		}
		s.logAudit(ctx, model.AuditCommentApprovalToggled,
			fmt.Sprintf("comment %s approved=%t", c.ID, c.IsApproved))
	}

	log.Printf("[CommentService] Toggled approval on %d comments", len(comments))
	return nil
}

// Delete removes the comments in ids together with their replies. Replies of
// a comment are always removed before the comment itself.
func (s *CommentService) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return model.ErrNoCommentIDs
	}

	comments, err := s.commentRepo.Get(ctx, spec.CommentsByIDs(ids))
	if err != nil {
		return fmt.Errorf("get comments: %w", err)
	}
	if len(comments) == 0 {
		return nil
	}

	found := make([]uuid.UUID, len(comments))
	for i, c := range comments {
		found[i] = c.ID
	}
	replies, err := s.replyRepo.Get(ctx, spec.RepliesFor(found...))
	if err != nil {
		return fmt.Errorf("get replies: %w", err)
	}
	byComment := make(map[uuid.UUID][]model.CommentReply, len(comments))
	for _, r := range replies {
		byComment[r.CommentID] = append(byComment[r.CommentID], r)
	}

	for i := range comments {
		c := &comments[i]
		owned := byComment[c.ID]
		if len(owned) > 0 {
			if err := s.replyRepo.Delete(ctx, owned); err != nil {
				return fmt.Errorf("delete replies of comment %s: %w", c.ID, err)
			}
		}
		if err := s.commentRepo.Delete(ctx, c); err != nil {
			return fmt.Errorf("delete comment %s: %w", c.ID, err)
		}
		s.logAudit(ctx, model.AuditCommentDeleted,
			fmt.Sprintf("comment %s deleted with %d replies", c.ID, len(owned)))
	}

	log.Printf("[CommentService] Deleted %d comments and %d replies", len(comments), len(replies))
	return nil
}

// AddReply attaches a reply to an existing comment.
func (s *CommentService) AddReply(ctx context.Context, commentID uuid.UUID, content string) (*model.CommentReply, error) {
	if content == "" {
		return nil, model.ErrContentRequired
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err // ErrCommentNotFound or wrapped error
	}

	reply := &model.CommentReply{
		ID:        uuid.New(),
		CommentID: comment.ID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}

	log.Printf("[CommentService] Reply %s added to comment %s", reply.ID, comment.ID)
	s.logAudit(ctx, model.AuditCommentReplied, fmt.Sprintf("reply %s on comment %s", reply.ID, comment.ID))
	return reply, nil
}

// replyItems loads the replies of the given comments, oldest first, keyed by
// owning comment.
func (s *CommentService) replyItems(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID][]model.ReplyItem, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	replies, err := s.replyRepo.Get(ctx, spec.RepliesFor(commentIDs...))
	if err != nil {
		return nil, fmt.Errorf("get replies: %w", err)
	}

	out := make(map[uuid.UUID][]model.ReplyItem, len(commentIDs))
	for _, r := range replies {
		out[r.CommentID] = append(out[r.CommentID], model.ReplyItem{
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// logAudit records an event for a write that already happened, so it is
// detached from the caller's cancellation. Failures are logged and never
// returned.
func (s *CommentService) logAudit(ctx context.Context, kind model.AuditEventKind, detail string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(context.WithoutCancel(ctx), model.NewAuditEvent(kind, detail)); err != nil {
		log.Printf("[CommentService] Failed to write audit event %s: %v", kind, err)
	}
}
