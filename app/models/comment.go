package models

import "time"

// Validate checks the comment against its storage constraints
func (c *Comment) Validate() error {
	return validate.Struct(c)
}

// BeforeCreate resets moderation state and stamps the creation time.
// A new comment is always pending, whatever the submitter sent.
func (c *Comment) BeforeCreate(now time.Time) {
	c.Approved = false
	if c.CreatedDate.IsZero() {
		c.CreatedDate = now
	}
}

// Approve makes the comment publicly visible.
func (c *Comment) Approve() {
	c.Approved = true
}
