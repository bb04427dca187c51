package routes

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"myblog/app/controllers"
	"myblog/app/forms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(w interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "blog_session" {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("form keeps next", func(t *testing.T) {
		w := env.do(http.MethodGet, "/login?next=%2Fdrafts", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		name, ctx := env.views.Last()
		assert.Equal(t, "registration/login.html", name)
		assert.Equal(t, "/drafts", ctx["next"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"nope"}}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, sessionCookie(w))

		_, ctx := env.views.Last()
		assert.Equal(t, controllers.InvalidLogin, ctx["errors"].(forms.Errors)[forms.NonFieldErrors])
		assert.Empty(t, ctx["form"].(forms.LoginForm).Password)
	})

	t.Run("blank fields", func(t *testing.T) {
		w := env.do(http.MethodPost, "/login", url.Values{}, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		_, ctx := env.views.Last()
		errs := ctx["errors"].(forms.Errors)
		assert.True(t, errs.Has("username"))
		assert.True(t, errs.Has("password"))
	})

	t.Run("success follows next", func(t *testing.T) {
		w := env.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {testPassword}, "next": {"/drafts"}}, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/drafts", w.Header().Get("Location"))

		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

		w = env.do(http.MethodGet, "/drafts", nil, cookie)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("offsite next is ignored", func(t *testing.T) {
		w := env.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {testPassword}, "next": {"//evil.example/"}}, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	w := env.do(http.MethodGet, "/drafts", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	w = env.do(http.MethodGet, "/drafts", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestStaleSessionIsAnonymous(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/drafts", nil, &http.Cookie{Name: "blog_session", Value: "not-a-session"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	t.Run("duplicate username", func(t *testing.T) {
		form := url.Values{"username": {"ALICE"}, "email": {"other@example.com"}, "password": {"long enough pw"}}
		w := env.do(http.MethodPost, "/signup", form, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		name, ctx := env.views.Last()
		assert.Equal(t, "registration/signup.html", name)
		assert.Equal(t, "A user with that username already exists.", ctx["errors"].(forms.Errors)["username"])
	})

	t.Run("new account is logged in", func(t *testing.T) {
		form := url.Values{"username": {"bob"}, "email": {"bob@example.com"}, "password": {"long enough pw"}}
		w := env.do(http.MethodPost, "/signup", form, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		w = env.do(http.MethodGet, "/drafts", nil, cookie)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
