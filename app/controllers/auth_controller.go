package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"myblog/app/forms"
	"myblog/app/models"
	"myblog/app/services"
	"myblog/app/views"
)

// InvalidLogin is shown when the username/password pair is rejected
const InvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthController handles login, logout and signup
type AuthController struct {
	Base
	authService *services.AuthService
	cookie      CookieConfig
}

// NewAuthController creates a new AuthController
func NewAuthController(base Base, authService *services.AuthService, cookie CookieConfig) *AuthController {
	return &AuthController{Base: base, authService: authService, cookie: cookie}
}

// Login shows the login form on GET and opens a session on POST
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ac.render(w, r, http.StatusOK, "registration/login.html", views.Context{
			"form": forms.LoginForm{},
			"next": safeNext(r.URL.Query().Get("next")),
		})
		return
	}

	if !ac.parseForm(w, r) {
		return
	}
	form := forms.NewLoginForm(r.PostForm)
	next := safeNext(r.PostForm.Get("next"))

	session, user, err := ac.authService.Login(form)
	if err != nil {
		errs, ok := loginErrors(err)
		if !ok {
			ac.fail(w, r, err)
			return
		}
		form.Password = ""
		ac.render(w, r, http.StatusOK, "registration/login.html", views.Context{
			"form":   form,
			"errors": errs,
			"next":   next,
		})
		return
	}

	ac.setSession(w, session)
	ac.log.Info("User logged in", "user_id", user.ID)
	if next != "" {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	ac.redirect(w, r, "post_list")
}

// Logout ends the current session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(ac.cookie.Name); err == nil {
		if err := ac.authService.Logout(cookie.Value); err != nil {
			ac.fail(w, r, err)
			return
		}
	}
	ac.clearSession(w)
	ac.redirect(w, r, "post_list")
}

// Signup shows the registration form on GET and creates the account on
// POST, logging the new user in.
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ac.render(w, r, http.StatusOK, "registration/signup.html", views.Context{"form": forms.SignupForm{}})
		return
	}

	if !ac.parseForm(w, r) {
		return
	}
	form := forms.NewSignupForm(r.PostForm)
	_, err := ac.authService.Register(form)
	if verr, ok := forms.AsValidationError(err); ok {
		form.Password = ""
		ac.render(w, r, http.StatusOK, "registration/signup.html", views.Context{
			"form":   form,
			"errors": verr.Fields,
		})
		return
	}
	if err != nil {
		ac.fail(w, r, err)
		return
	}

	session, user, err := ac.authService.Login(forms.LoginForm{Username: form.Username, Password: form.Password})
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.setSession(w, session)
	ac.log.Info("User signed up", "user_id", user.ID)
	ac.redirect(w, r, "post_list")
}

func (ac *AuthController) setSession(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(ac.authService.TTL().Seconds()),
		HttpOnly: true,
		Secure:   ac.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (ac *AuthController) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ac.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// loginErrors converts a login failure into form errors. ok is false for
// failures the user cannot fix.
func loginErrors(err error) (forms.Errors, bool) {
	if verr, ok := forms.AsValidationError(err); ok {
		return verr.Fields, true
	}
	if errors.Is(err, services.ErrInvalidCredentials) {
		return forms.Errors{forms.NonFieldErrors: InvalidLogin}, true
	}
	return nil, false
}

// safeNext keeps next only when it is a path on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
