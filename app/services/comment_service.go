package services

import (
	"fmt"
	"time"

	"myblog/app/forms"
	"myblog/app/metrics"
	"myblog/app/models"
	"myblog/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	now         func() time.Time
}

// NewCommentService creates a new CommentService. A nil clock means time.Now.
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, now func() time.Time) *CommentService {
	if now == nil {
		now = time.Now
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		now:         now,
	}
}

// AddComment validates form and stores a pending comment on the post.
// A missing post is reported before the form is looked at.
func (s *CommentService) AddComment(postID int, form forms.CommentForm) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	comment := form.Comment(postID)
	comment.BeforeCreate(s.now())
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fieldError(err)
	}
	metrics.CommentOperationsTotal.WithLabelValues(metrics.CommentSubmitted).Inc()
	return comment, nil
}

// ApproveComment marks the comment approved and returns it.
func (s *CommentService) ApproveComment(id int) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	comment.Approve()
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to approve comment %d: %w", id, err)
	}
	metrics.CommentOperationsTotal.WithLabelValues(metrics.CommentApproved).Inc()
	return comment, nil
}

// RemoveComment deletes the comment and returns the id of the post it
// belonged to.
func (s *CommentService) RemoveComment(id int) (int, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return 0, err
	}

	postID := comment.PostID
	if err := s.commentRepo.Delete(id); err != nil {
		return 0, err
	}
	metrics.CommentOperationsTotal.WithLabelValues(metrics.CommentRemoved).Inc()
	return postID, nil
}
