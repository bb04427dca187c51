package routes

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIRoutes(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, "public", testNow.Add(-time.Hour), timePtr(testNow.Add(-time.Minute)))
	env.createPost(t, "draft", testNow.Add(-time.Hour), nil)
	env.createComment(t, post.ID, "hidden", false)
	env.createComment(t, post.ID, "shown", true)

	t.Run("list", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/posts", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response struct {
			Posts []struct {
				ID     int    `json:"id"`
				Title  string `json:"title"`
				Author struct {
					ID       int    `json:"id"`
					Username string `json:"username"`
				} `json:"author"`
			} `json:"posts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Posts, 1)
		assert.Equal(t, "public", response.Posts[0].Title)
		assert.Equal(t, env.author.ID, response.Posts[0].Author.ID)
		assert.Equal(t, "alice", response.Posts[0].Author.Username)
		assert.NotContains(t, w.Body.String(), "@example.com")
	})

	t.Run("detail hides pending comments", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/posts/"+itoa(post.ID), nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "hidden")
		assert.Contains(t, w.Body.String(), "shown")
		assert.NotContains(t, w.Body.String(), "password")
		assert.NotContains(t, w.Body.String(), "$2a$")
		assert.NotContains(t, w.Body.String(), "@example.com")
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})

	t.Run("missing post", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/posts/999", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Not found", body["error"])
	})

	t.Run("unknown api path", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("post list negotiates json", func(t *testing.T) {
		w := env.do(http.MethodGet, "/", nil, nil, "Accept", "application/json")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Body.String(), `{"posts":`))
		assert.NotContains(t, w.Body.String(), "@example.com")
	})

	t.Run("post detail negotiates json without email", func(t *testing.T) {
		w := env.do(http.MethodGet, "/post/"+itoa(post.ID), nil, nil, "Accept", "application/json")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"author":{"id":`)
		assert.NotContains(t, w.Body.String(), "@example.com")
	})
}

func TestInfrastructureRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("static", func(t *testing.T) {
		w := env.do(http.MethodGet, "/static/blog.css", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), ".page-header")
	})

	t.Run("metrics", func(t *testing.T) {
		env.do(http.MethodGet, "/about", nil, nil)
		w := env.do(http.MethodGet, "/metrics", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `blog_http_requests_total{method="GET",route="about",status="200"}`)
	})

	t.Run("unknown page", func(t *testing.T) {
		w := env.do(http.MethodGet, "/nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not found\n", w.Body.String())
	})
}
