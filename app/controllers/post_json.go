package controllers

import (
	"time"

	"myblog/app/models"
)

// authorJSON is what readers see of a post's author. Email and password
// hash stay private.
type authorJSON struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// postJSON is the public JSON shape of a post
type postJSON struct {
	ID            int               `json:"id"`
	AuthorID      int               `json:"author_id"`
	Author        *authorJSON       `json:"author,omitempty"`
	Title         string            `json:"title"`
	Text          string            `json:"text"`
	CreatedDate   time.Time         `json:"created_date"`
	PublishedDate *time.Time        `json:"published_date,omitempty"`
	Comments      []*models.Comment `json:"comments,omitempty"`
}

func newPostJSON(p *models.Post) postJSON {
	out := postJSON{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		Title:         p.Title,
		Text:          p.Text,
		CreatedDate:   p.CreatedDate,
		PublishedDate: p.PublishedDate,
		Comments:      p.Comments,
	}
	if p.Author != nil {
		out.Author = &authorJSON{ID: p.Author.ID, Username: p.Author.Username}
	}
	return out
}

func newPostListJSON(posts []*models.Post) map[string]interface{} {
	out := make([]postJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostJSON(p))
	}
	return map[string]interface{}{"posts": out}
}
