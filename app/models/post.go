package models

import (
	"errors"
	"time"
)

// Validate checks the post against its storage constraints
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.PublishedDate != nil && p.PublishedDate.Before(p.CreatedDate) {
		return errors.New("published_date cannot precede created_date")
	}
	return nil
}

// BeforeCreate stamps the creation time if the caller did not
func (p *Post) BeforeCreate(now time.Time) {
	if p.CreatedDate.IsZero() {
		p.CreatedDate = now
	}
}

// IsDraft reports whether the post has never been published.
func (p *Post) IsDraft() bool {
	return p.PublishedDate == nil
}

// IsPublishedAt reports whether the post is publicly visible at now.
func (p *Post) IsPublishedAt(now time.Time) bool {
	return p.PublishedDate != nil && !p.PublishedDate.After(now)
}

// Publish stamps the publication date. Publishing again moves the date
// forward; it never turns the post back into a draft.
func (p *Post) Publish(now time.Time) {
	t := now
	p.PublishedDate = &t
}

// ApprovedComments returns the comments readers are allowed to see
func (p *Post) ApprovedComments() []*Comment {
	approved := make([]*Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if c.Approved {
			approved = append(approved, c)
		}
	}
	return approved
}

// AddComment attaches a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, comment)
	return nil
}
