package routes

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"myblog/app/forms"
	"myblog/app/models"
	"myblog/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postIDs(v interface{}) []int {
	posts, _ := v.([]*models.Post)
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPostList(t *testing.T) {
	env := newTestEnv(t)
	old := env.createPost(t, "old", testNow.Add(-3*time.Hour), timePtr(testNow.Add(-2*time.Hour)))
	recent := env.createPost(t, "recent", testNow.Add(-3*time.Hour), timePtr(testNow.Add(-time.Minute)))
	env.createPost(t, "draft", testNow.Add(-time.Hour), nil)
	env.createPost(t, "scheduled", testNow.Add(-time.Hour), timePtr(testNow.Add(time.Hour)))

	w := env.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	name, ctx := env.views.Last()
	assert.Equal(t, "blog/post_list.html", name)
	assert.Equal(t, []int{recent.ID, old.ID}, postIDs(ctx["posts"]))
	assert.Nil(t, ctx["user"])
}

func TestDraftList(t *testing.T) {
	env := newTestEnv(t)
	newer := env.createPost(t, "newer", testNow.Add(-time.Hour), nil)
	older := env.createPost(t, "older", testNow.Add(-2*time.Hour), nil)
	env.createPost(t, "published", testNow.Add(-3*time.Hour), timePtr(testNow.Add(-time.Hour)))

	t.Run("anonymous is sent to login", func(t *testing.T) {
		w := env.do(http.MethodGet, "/drafts", nil, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2Fdrafts", w.Header().Get("Location"))
	})

	t.Run("drafts oldest first", func(t *testing.T) {
		w := env.do(http.MethodGet, "/drafts", nil, env.login(t))
		assert.Equal(t, http.StatusOK, w.Code)

		name, ctx := env.views.Last()
		assert.Equal(t, "blog/post_draft_list.html", name)
		assert.Equal(t, []int{older.ID, newer.ID}, postIDs(ctx["posts"]))
		require.NotNil(t, ctx["user"])
		assert.Equal(t, "alice", ctx["user"].(*models.User).Username)
	})
}

func TestPostDetail(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, "post", testNow.Add(-time.Hour), timePtr(testNow.Add(-time.Minute)))
	env.createComment(t, post.ID, "pending", false)
	env.createComment(t, post.ID, "approved", true)

	t.Run("anonymous sees approved comments", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/"+itoa(post.ID), nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		name, ctx := env.views.Last()
		assert.Equal(t, "blog/post_detail.html", name)
		comments := ctx["comments"].([]*models.Comment)
		require.Len(t, comments, 1)
		assert.Equal(t, "approved", comments[0].Text)
	})

	t.Run("logged in sees every comment", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/"+itoa(post.ID), nil, env.login(t))
		assert.Equal(t, http.StatusOK, w.Code)

		_, ctx := env.views.Last()
		assert.Len(t, ctx["comments"], 2)
	})

	t.Run("missing post", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/999", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostCreate(t *testing.T) {
	env := newTestEnv(t)
	valid := url.Values{"author": {itoa(env.author.ID)}, "title": {"Hello"}, "text": {"World"}}

	t.Run("anonymous GET is sent to login", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/new", nil, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2Fpost%2Fnew", w.Header().Get("Location"))
	})

	t.Run("anonymous POST creates nothing", func(t *testing.T) {
		before := env.views.Count()
		w := env.do(http.MethodPost, "/post/new", valid, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2Fpost%2Fnew", w.Header().Get("Location"))
		assert.Equal(t, before, env.views.Count())

		drafts, err := env.posts.ListDrafts()
		require.NoError(t, err)
		assert.Empty(t, drafts)
	})

	cookie := env.login(t)

	t.Run("empty form preselects the user", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/new", nil, cookie)
		assert.Equal(t, http.StatusOK, w.Code)

		name, ctx := env.views.Last()
		assert.Equal(t, "blog/post_form.html", name)
		assert.Equal(t, itoa(env.author.ID), ctx["form"].(forms.PostForm).Author)
		assert.Len(t, ctx["authors"], 1)
	})

	t.Run("invalid form is re-rendered", func(t *testing.T) {
		form := url.Values{"author": {itoa(env.author.ID)}, "title": {""}, "text": {"World"}}
		w := env.do(http.MethodPost, "/post/new", form, cookie)
		assert.Equal(t, http.StatusOK, w.Code)

		name, ctx := env.views.Last()
		assert.Equal(t, "blog/post_form.html", name)
		errs := ctx["errors"].(forms.Errors)
		assert.Equal(t, "This field is required.", errs["title"])
		assert.Equal(t, "World", ctx["form"].(forms.PostForm).Text)

		drafts, err := env.posts.ListDrafts()
		require.NoError(t, err)
		assert.Empty(t, drafts)
	})

	t.Run("unknown author", func(t *testing.T) {
		form := url.Values{"author": {"77"}, "title": {"Hello"}, "text": {"World"}}
		w := env.do(http.MethodPost, "/post/new", form, cookie)
		assert.Equal(t, http.StatusOK, w.Code)

		_, ctx := env.views.Last()
		assert.Equal(t, forms.InvalidChoice, ctx["errors"].(forms.Errors)["author"])
	})

	t.Run("valid form creates a draft", func(t *testing.T) {
		w := env.do(http.MethodPost, "/post/new", valid, cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/post/1", w.Header().Get("Location"))

		post, err := env.posts.GetByID(1)
		require.NoError(t, err)
		assert.Equal(t, "Hello", post.Title)
		assert.True(t, post.IsDraft())
		assert.True(t, post.CreatedDate.Equal(testNow))
	})
}

func TestPostUpdate(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, "Original", testNow.Add(-time.Hour), nil)
	cookie := env.login(t)

	t.Run("prefilled form", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/"+itoa(post.ID)+"/edit", nil, cookie)
		assert.Equal(t, http.StatusOK, w.Code)

		name, ctx := env.views.Last()
		assert.Equal(t, "blog/post_form.html", name)
		assert.Equal(t, "Original", ctx["form"].(forms.PostForm).Title)
		assert.Equal(t, post.ID, ctx["post"].(*models.Post).ID)
	})

	t.Run("save", func(t *testing.T) {
		form := url.Values{"author": {itoa(env.author.ID)}, "title": {"Edited"}, "text": {"New text"}}
		w := env.do(http.MethodPost, "/post/"+itoa(post.ID)+"/edit", form, cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/post/"+itoa(post.ID), w.Header().Get("Location"))

		got, err := env.posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited", got.Title)
		assert.Equal(t, "New text", got.Text)
	})

	t.Run("invalid edit changes nothing", func(t *testing.T) {
		form := url.Values{"author": {itoa(env.author.ID)}, "title": {"Edited again"}, "text": {""}}
		w := env.do(http.MethodPost, "/post/"+itoa(post.ID)+"/edit", form, cookie)
		assert.Equal(t, http.StatusOK, w.Code)

		got, err := env.posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited", got.Title)
	})

	t.Run("missing post", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/999/edit", nil, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostDelete(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, "Doomed", testNow.Add(-time.Hour), nil)
	c1 := env.createComment(t, post.ID, "one", false)
	c2 := env.createComment(t, post.ID, "two", true)
	cookie := env.login(t)

	t.Run("anonymous cannot delete", func(t *testing.T) {
		w := env.do(http.MethodPost, "/post/"+itoa(post.ID)+"/remove", url.Values{}, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		_, err := env.posts.GetByID(post.ID)
		assert.NoError(t, err)
	})

	t.Run("confirmation page", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/"+itoa(post.ID)+"/remove", nil, cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		name, _ := env.views.Last()
		assert.Equal(t, "blog/post_confirm_delete.html", name)
	})

	t.Run("delete cascades comments", func(t *testing.T) {
		w := env.do(http.MethodPost, "/post/"+itoa(post.ID)+"/remove", url.Values{}, cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		_, err := env.posts.GetByID(post.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		for _, c := range []*models.Comment{c1, c2} {
			_, err := env.comments.GetByID(c.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		w := env.do(http.MethodPost, "/post/"+itoa(post.ID)+"/remove", url.Values{}, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPublishPost(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 5; i++ {
		env.createPost(t, "draft "+itoa(i), testNow.Add(-time.Hour), nil)
	}

	t.Run("anonymous cannot publish", func(t *testing.T) {
		w := env.do(http.MethodPost, "/post/5/publish", url.Values{}, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?next=%2Fpost%2F5%2Fpublish", w.Header().Get("Location"))

		post, err := env.posts.GetByID(5)
		require.NoError(t, err)
		assert.True(t, post.IsDraft())
	})

	t.Run("publish pk 5", func(t *testing.T) {
		w := env.do(http.MethodPost, "/post/5/publish", url.Values{}, env.login(t))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/post/5", w.Header().Get("Location"))

		post, err := env.posts.GetByID(5)
		require.NoError(t, err)
		require.NotNil(t, post.PublishedDate)
		assert.False(t, post.PublishedDate.After(testNow))

		w = env.do(http.MethodGet, "/", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		_, ctx := env.views.Last()
		assert.Equal(t, []int{5}, postIDs(ctx["posts"]))
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/4/publish", nil, env.login(t))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("missing post", func(t *testing.T) {
		w := env.do(http.MethodPost, "/post/999/publish", url.Values{}, env.login(t))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAbout(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/about", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	name, ctx := env.views.Last()
	assert.Equal(t, "about.html", name)
	assert.Contains(t, ctx, "user")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
