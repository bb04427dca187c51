package forms

import (
	"net/url"
	"strconv"
	"strings"

	"myblog/app/models"
)

// PostForm carries the user-editable fields of a Post.
type PostForm struct {
	Author string `form:"author" validate:"required"`
	Title  string `form:"title" validate:"required,max=200"`
	Text   string `form:"text" validate:"required"`
}

// NewPostForm binds a PostForm from submitted form values
func NewPostForm(values url.Values) PostForm {
	return PostForm{
		Author: strings.TrimSpace(values.Get("author")),
		Title:  strings.TrimSpace(values.Get("title")),
		Text:   strings.TrimSpace(values.Get("text")),
	}
}

// PostFormFrom prefills a PostForm from an existing post.
func PostFormFrom(p *models.Post) PostForm {
	return PostForm{
		Author: strconv.Itoa(p.AuthorID),
		Title:  p.Title,
		Text:   p.Text,
	}
}

// AuthorID returns the selected author id, or 0 if it is not a valid id.
func (f PostForm) AuthorID() int {
	id, err := strconv.Atoi(f.Author)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// Validate returns a *ValidationError describing every invalid field.
func (f PostForm) Validate() error {
	extra := Errors{}
	if f.Author != "" && f.AuthorID() == 0 {
		extra.Add("author", InvalidChoice)
	}
	return check(f, extra)
}

// Apply copies the form fields onto p.
func (f PostForm) Apply(p *models.Post) {
	p.AuthorID = f.AuthorID()
	p.Title = f.Title
	p.Text = f.Text
}

// InvalidChoice is reported when a reference field names no known record.
const InvalidChoice = "Select a valid choice. That choice is not one of the available choices."
