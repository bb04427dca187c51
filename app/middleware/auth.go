package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"myblog/app/models"

	"github.com/gorilla/mux"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	UserForSession(token string) (*models.User, error)
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// Authenticate loads the user named by the session cookie into the request
// context. A stale cookie is cleared and the request continues anonymously.
func Authenticate(sessions SessionResolver, cookieName string, log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.UserForSession(cookie.Value)
			if err != nil {
				log.Debug("dropping invalid session", slog.String("error", err.Error()))
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireLogin sends anonymous requests to loginURL with the original
// path in the next parameter. The wrapped handler never runs for them.
func RequireLogin(loginURL string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")

			if CurrentUser(r.Context()) == nil {
				target := loginURL + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
