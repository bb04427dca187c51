package forms

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxPasswordBytes is bcrypt's input limit. Multibyte characters count once
// per byte.
const MaxPasswordBytes = 72

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func NewLoginForm(values url.Values) LoginForm {
	return LoginForm{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
	}
}

func (f LoginForm) Validate() error {
	return check(f, nil)
}

type SignupForm struct {
	Username string `form:"username" validate:"required,max=150"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,min=8,max=72"`
}

func NewSignupForm(values url.Values) SignupForm {
	return SignupForm{
		Username: strings.TrimSpace(values.Get("username")),
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
}

func (f SignupForm) Validate() error {
	extra := Errors{}
	if n := len(f.Password); n > MaxPasswordBytes {
		extra.Add("password", fmt.Sprintf("Ensure this value has at most %d bytes (it has %d).", MaxPasswordBytes, n))
	}
	return check(f, extra)
}
