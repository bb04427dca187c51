package mvc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/app/config"
	"myblog/app/logger"
	"myblog/app/repositories"
)

func TestRunGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			// Simulate work that outlives the shutdown signal.
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, srv, ln, time.Second, logger.Discard())
	}()

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
		if err != nil {
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	<-started
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, http.StatusOK, <-status, "in-flight request should complete")

	_, err = http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
	assert.Error(t, err, "server should no longer accept connections")
}

func TestRunReturnsServeError(t *testing.T) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	ln.Close()

	err = run(context.Background(), &http.Server{}, ln, time.Second, logger.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serve")
}

func TestNewServer(t *testing.T) {
	t.Setenv("BLOG_DATABASE_IN_MEMORY", "true")
	t.Setenv("BLOG_SERVER_PORT", "9090")

	cfg, err := config.Load("")
	require.NoError(t, err)

	store, err := repositories.Open(repositories.Options{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	srv, err := newServer(cfg, store, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", srv.Addr)
	assert.Equal(t, cfg.Server.ReadTimeout, srv.ReadTimeout)
	assert.Equal(t, cfg.Server.WriteTimeout, srv.WriteTimeout)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/about", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServeCmdRejectsBadPort(t *testing.T) {
	t.Setenv("BLOG_DATABASE_IN_MEMORY", "true")

	_, err := execute(t, "", "serve", "--port", "70000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port 70000 out of range")
}
