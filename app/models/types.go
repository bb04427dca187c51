package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post represents a blog post. A post without a PublishedDate is a draft.
type Post struct {
	ID            int        `json:"id" validate:"gte=0"`
	AuthorID      int        `json:"author_id" validate:"required,gt=0"`
	Title         string     `json:"title" validate:"required,max=200"`
	Text          string     `json:"text" validate:"required"`
	CreatedDate   time.Time  `json:"created_date" validate:"required"`
	PublishedDate *time.Time `json:"published_date,omitempty" validate:"-"`

	Author   *User      `json:"author,omitempty" validate:"-"`
	Comments []*Comment `json:"comments,omitempty" validate:"-"`
}

// Comment represents a reader comment on a blog post.
type Comment struct {
	ID          int       `json:"id" validate:"gte=0"`
	PostID      int       `json:"post_id" validate:"required,gt=0"`
	Author      string    `json:"author" validate:"required,max=200"`
	Text        string    `json:"text" validate:"required"`
	CreatedDate time.Time `json:"created_date" validate:"required"`
	Approved    bool      `json:"approved"`
}

// User is an account that can author posts and moderate comments.
type User struct {
	ID           int       `json:"id" validate:"gte=0"`
	Username     string    `json:"username" validate:"required,max=150"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-" validate:"required"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session binds a login token to a user until ExpiresAt.
type Session struct {
	Token     string    `json:"token" validate:"required"`
	UserID    int       `json:"user_id" validate:"required,gt=0"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" validate:"required"`
}
