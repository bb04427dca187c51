package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"myblog/app/forms"
	"myblog/app/models"
	"myblog/app/repositories"
	"myblog/app/services"
	"myblog/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const testPassword = "correct horse battery"

type testEnv struct {
	router   *mux.Router
	store    *repositories.Store
	views    *views.Recorder
	posts    *repositories.BadgerPostRepository
	comments *repositories.BadgerCommentRepository
	auth     *services.AuthService
	author   *models.User
	now      time.Time
}

func (e *testEnv) clock() time.Time { return e.now }

func setupTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	store, err := repositories.Open(repositories.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// newTestEnv builds the full router over an in-memory store with the
// recording renderer, and registers one author.
func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, &views.Recorder{})
}

func newTestEnvWith(t *testing.T, renderer views.Renderer) *testEnv {
	t.Helper()
	store := setupTestStore(t)
	env := &testEnv{store: store, now: testNow}
	if rec, ok := renderer.(*views.Recorder); ok {
		env.views = rec
	}

	router, err := SetupRoutes(Options{
		DB:             store.DB(),
		Now:            env.clock,
		LoginURL:       "/login",
		CookieName:     "blog_session",
		SessionTTL:     time.Hour,
		MetricsEnabled: true,
		Renderer:       renderer,
	})
	require.NoError(t, err)
	env.router = router

	users := repositories.NewBadgerUserRepository(store.DB())
	env.posts = repositories.NewBadgerPostRepository(store.DB())
	env.comments = repositories.NewBadgerCommentRepository(store.DB())
	env.auth = services.NewAuthService(users, repositories.NewBadgerSessionRepository(store.DB(), env.clock), env.clock, time.Hour)

	author, err := env.auth.Register(forms.SignupForm{Username: "alice", Email: "alice@example.com", Password: testPassword})
	require.NoError(t, err)
	env.author = author
	return env
}

// login opens a session for the seeded author and returns its cookie
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	session, _, err := e.auth.Login(forms.LoginForm{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	return &http.Cookie{Name: "blog_session", Value: session.Token}
}

// do sends a request through the router. A non-nil form is sent url-encoded.
func (e *testEnv) do(method, target string, form url.Values, cookie *http.Cookie, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// createPost stores a post directly. A nil published time makes a draft.
func (e *testEnv) createPost(t *testing.T, title string, created time.Time, published *time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:      e.author.ID,
		Title:         title,
		Text:          "Text of " + title,
		CreatedDate:   created,
		PublishedDate: published,
	}
	require.NoError(t, e.posts.Create(post))
	return post
}

func (e *testEnv) createComment(t *testing.T, postID int, text string, approved bool) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: postID, Author: "reader", Text: text, CreatedDate: e.now, Approved: approved}
	require.NoError(t, e.comments.Create(comment))
	return comment
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
