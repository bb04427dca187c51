package services

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"myblog/app/forms"
	"myblog/app/models"
	"myblog/app/repositories/mock"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// clock is a settable time source for the services under test
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	clock    *clock
	posts    *mock.PostRepository
	comments *mock.CommentRepository
	users    *mock.UserRepository
	sessions *mock.SessionRepository
	author   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	comments := mock.NewCommentRepository()
	f := &fixture{
		clock:    &clock{t: testNow},
		posts:    mock.NewPostRepository(comments),
		comments: comments,
		users:    mock.NewUserRepository(),
		sessions: mock.NewSessionRepository(),
	}
	f.author = &models.User{Username: "alice", Email: "alice@example.com", CreatedAt: testNow}
	require.NoError(t, f.author.SetPassword("correct horse"))
	require.NoError(t, f.users.Create(f.author))
	return f
}

func (f *fixture) postService() *PostService {
	return NewPostService(f.posts, f.comments, f.users, f.clock.Now)
}

func (f *fixture) commentService() *CommentService {
	return NewCommentService(f.comments, f.posts, f.clock.Now)
}

func (f *fixture) authService() *AuthService {
	return NewAuthService(f.users, f.sessions, f.clock.Now, time.Hour)
}

func (f *fixture) postForm(title string) forms.PostForm {
	return forms.NewPostForm(url.Values{
		"author": {strconv.Itoa(f.author.ID)},
		"title":  {title},
		"text":   {"Body of " + title},
	})
}
