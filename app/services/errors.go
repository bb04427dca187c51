package services

import (
	"errors"
	"fmt"

	"myblog/app/forms"
	"myblog/app/repositories"
)

// ErrInvalidCredentials is returned when a username/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// fieldError turns a storage constraint failure into a form error on the
// offending field. Other errors pass through.
func fieldError(err error) error {
	var ce *repositories.ConstraintError
	if !errors.As(err, &ce) {
		return err
	}
	if ce.Reason == repositories.ReasonMissing {
		return forms.NewFieldError(ce.Field, forms.InvalidChoice)
	}
	return forms.NewFieldError(ce.Field, fmt.Sprintf("A user with that %s already exists.", ce.Field))
}
