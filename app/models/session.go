package models

import "time"

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Validate checks the session against its storage constraints
func (s *Session) Validate() error {
	return validate.Struct(s)
}
