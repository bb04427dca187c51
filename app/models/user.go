package models

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate checks the user against its storage constraints
func (u *User) Validate() error {
	return validate.Struct(u)
}

// SetPassword hashes raw with bcrypt and stores the hash.
func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether raw matches the stored hash.
func (u *User) CheckPassword(raw string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}

// NormalizedUsername is the key uniqueness is enforced on
func (u *User) NormalizedUsername() string {
	return strings.ToLower(strings.TrimSpace(u.Username))
}

// NormalizedEmail is the key uniqueness is enforced on
func (u *User) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(u.Email))
}
