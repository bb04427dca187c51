package services

import (
	"errors"
	"fmt"
	"time"

	"myblog/app/forms"
	"myblog/app/metrics"
	"myblog/app/models"
	"myblog/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	now         func() time.Time
}

// NewPostService creates a new PostService. A nil clock means time.Now.
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, userRepo repositories.UserRepository, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		now:         now,
	}
}

// ListPublished returns the posts visible to readers right now, newest first.
func (s *PostService) ListPublished() ([]*models.Post, error) {
	posts, err := s.postRepo.ListPublished(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	return s.withAuthors(posts)
}

// ListDrafts returns unpublished posts, oldest first.
func (s *PostService) ListDrafts() ([]*models.Post, error) {
	posts, err := s.postRepo.ListDrafts()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return s.withAuthors(posts)
}

// GetPost retrieves a post by ID with its author and comments. Unapproved
// comments are only included when includeUnapproved is set.
func (s *PostService) GetPost(id int, includeUnapproved bool) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	for _, c := range comments {
		if err := post.AddComment(c); err != nil {
			return nil, err
		}
	}
	if !includeUnapproved {
		post.Comments = post.ApprovedComments()
	}

	if err := s.attachAuthor(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Authors lists the users a post can be attributed to
func (s *PostService) Authors() ([]*models.User, error) {
	return s.userRepo.List()
}

// CreatePost validates form and stores a new draft
func (s *PostService) CreatePost(form forms.PostForm) (*models.Post, error) {
	if err := s.validate(form); err != nil {
		return nil, err
	}

	post := &models.Post{}
	form.Apply(post)
	post.BeforeCreate(s.now())

	if err := s.postRepo.Create(post); err != nil {
		return nil, fieldError(err)
	}
	return post, nil
}

// UpdatePost applies form to the post with the given id. Dates are kept.
func (s *PostService) UpdatePost(id int, form forms.PostForm) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(form); err != nil {
		return nil, err
	}

	form.Apply(post)
	if err := s.postRepo.Update(post); err != nil {
		return nil, fieldError(err)
	}
	return post, nil
}

// PublishPost stamps the post's published date with the current time.
func (s *PostService) PublishPost(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	post.Publish(s.now())
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to publish post %d: %w", id, err)
	}
	metrics.PostsPublishedTotal.Inc()
	return post, nil
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(id int) error {
	return s.postRepo.Delete(id)
}

func (s *PostService) validate(form forms.PostForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(form.AuthorID()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return forms.NewFieldError("author", forms.InvalidChoice)
		}
		return err
	}
	return nil
}

func (s *PostService) withAuthors(posts []*models.Post) ([]*models.Post, error) {
	for _, post := range posts {
		if err := s.attachAuthor(post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *PostService) attachAuthor(post *models.Post) error {
	author, err := s.userRepo.GetByID(post.AuthorID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to get author of post %d: %w", post.ID, err)
	}
	post.Author = author
	return nil
}
