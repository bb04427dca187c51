package repositories

import (
	"time"

	"myblog/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	// ListPublished returns posts published at or before now, newest first.
	ListPublished(now time.Time) ([]*models.Post, error)
	// ListDrafts returns unpublished posts, oldest first.
	ListDrafts() ([]*models.Post, error)
	Update(post *models.Post) error
	// Delete removes the post and every comment attached to it.
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id int) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	List() ([]*models.User, error)
}

// SessionRepository defines the interface for login session storage
type SessionRepository interface {
	Create(session *models.Session) error
	Get(token string) (*models.Session, error)
	Delete(token string) error
}
