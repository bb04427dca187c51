package forms

import (
	"net/url"
	"strings"

	"myblog/app/models"
)

// CommentForm carries the user-editable fields of a Comment. The parent
// post is never taken from the submission.
type CommentForm struct {
	Author string `form:"author" validate:"required,max=200"`
	Text   string `form:"text" validate:"required"`
}

// NewCommentForm binds a CommentForm from submitted form values
func NewCommentForm(values url.Values) CommentForm {
	return CommentForm{
		Author: strings.TrimSpace(values.Get("author")),
		Text:   strings.TrimSpace(values.Get("text")),
	}
}

// Validate returns a *ValidationError describing every invalid field.
func (f CommentForm) Validate() error {
	return check(f, nil)
}

// Comment builds an unsaved comment for postID.
func (f CommentForm) Comment(postID int) *models.Comment {
	return &models.Comment{
		PostID: postID,
		Author: f.Author,
		Text:   f.Text,
	}
}
