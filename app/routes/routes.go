// Package routes assembles the application's router: repositories,
// services and controllers are wired here and every route gets a name
// that templates and redirects reverse through.
package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"myblog/app/controllers"
	"myblog/app/logger"
	"myblog/app/middleware"
	"myblog/app/repositories"
	"myblog/app/services"
	"myblog/app/views"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures SetupRoutes
type Options struct {
	DB  *badger.DB
	Log *slog.Logger
	// Now is the clock used for publishing, comments and sessions. Nil means time.Now.
	Now func() time.Time

	LoginURL     string
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration

	MetricsEnabled bool
	MetricsPath    string

	// ViewsDir overrides the embedded templates. Ignored when Renderer is set.
	ViewsDir string
	Renderer views.Renderer
}

// Reverser builds URLs from route names
type Reverser struct {
	router *mux.Router
}

// NewReverser creates a new Reverser
func NewReverser(router *mux.Router) *Reverser {
	return &Reverser{router: router}
}

// URL reverses name. pairs alternate variable names and values; values are
// formatted with fmt.Sprint.
func (rv *Reverser) URL(name string, pairs ...interface{}) (string, error) {
	route := rv.router.Get(name)
	if route == nil {
		return "", fmt.Errorf("no route named %q", name)
	}

	strs := make([]string, len(pairs))
	for i, p := range pairs {
		strs[i] = fmt.Sprint(p)
	}
	u, err := route.URL(strs...)
	if err != nil {
		return "", fmt.Errorf("reverse %s: %w", name, err)
	}
	return u.String(), nil
}

// SetupRoutes defines the application's routes and returns a router
func SetupRoutes(opts Options) (*mux.Router, error) {
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	if opts.LoginURL == "" {
		opts.LoginURL = "/login"
	}
	if opts.CookieName == "" {
		opts.CookieName = "blog_session"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	// Repositories and services
	postRepo := repositories.NewBadgerPostRepository(opts.DB)
	commentRepo := repositories.NewBadgerCommentRepository(opts.DB)
	userRepo := repositories.NewBadgerUserRepository(opts.DB)
	sessionRepo := repositories.NewBadgerSessionRepository(opts.DB, opts.Now)

	postService := services.NewPostService(postRepo, commentRepo, userRepo, opts.Now)
	commentService := services.NewCommentService(commentRepo, postRepo, opts.Now)
	authService := services.NewAuthService(userRepo, sessionRepo, opts.Now, opts.SessionTTL)

	router := mux.NewRouter()
	urls := NewReverser(router)

	renderer := opts.Renderer
	if renderer == nil {
		fsys, err := views.Templates(opts.ViewsDir)
		if err != nil {
			return nil, err
		}
		tr, err := views.NewTemplateRenderer(fsys, urls.URL)
		if err != nil {
			return nil, err
		}
		renderer = tr
	}

	base := controllers.NewBase(renderer, urls, opts.Log)
	postController := controllers.NewPostController(base, postService)
	commentController := controllers.NewCommentController(base, commentService, postService)
	authController := controllers.NewAuthController(base, authService, controllers.CookieConfig{
		Name:   opts.CookieName,
		Secure: opts.CookieSecure,
	})
	pageController := controllers.NewPageController(base)

	// Apply global middleware
	router.Use(middleware.Recoverer(opts.Log))
	router.Use(middleware.Logger(opts.Log))
	router.Use(middleware.Metrics)
	router.Use(middleware.SecureHeaders)
	router.Use(middleware.Authenticate(authService, opts.CookieName, opts.Log))

	router.NotFoundHandler = http.HandlerFunc(base.NotFound)

	// Serve static files
	router.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static())))).
		Name("static")

	if opts.MetricsEnabled {
		router.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet).Name("metrics")
	}

	// Public web routes
	router.HandleFunc("/", postController.List).Methods(http.MethodGet).Name("post_list")
	router.HandleFunc("/post/{pk:[0-9]+}", postController.Detail).Methods(http.MethodGet).Name("post_detail")
	router.HandleFunc("/post/{pk:[0-9]+}/comment", commentController.Add).Methods(http.MethodGet, http.MethodPost).Name("add_comment")
	router.HandleFunc("/about", pageController.About).Methods(http.MethodGet).Name("about")
	router.HandleFunc("/login", authController.Login).Methods(http.MethodGet, http.MethodPost).Name("login")
	router.HandleFunc("/logout", authController.Logout).Methods(http.MethodPost).Name("logout")
	router.HandleFunc("/signup", authController.Signup).Methods(http.MethodGet, http.MethodPost).Name("signup")

	// Web routes that need a logged-in user
	authed := router.NewRoute().Subrouter()
	authed.Use(middleware.RequireLogin(opts.LoginURL))
	authed.HandleFunc("/post/new", postController.Create).Methods(http.MethodGet, http.MethodPost).Name("post_create")
	authed.HandleFunc("/post/{pk:[0-9]+}/edit", postController.Update).Methods(http.MethodGet, http.MethodPost).Name("post_update")
	authed.HandleFunc("/post/{pk:[0-9]+}/remove", postController.Delete).Methods(http.MethodGet, http.MethodPost).Name("post_delete")
	authed.HandleFunc("/post/{pk:[0-9]+}/publish", postController.Publish).Methods(http.MethodPost).Name("publish_post")
	authed.HandleFunc("/drafts", postController.Drafts).Methods(http.MethodGet).Name("draft_list")
	authed.HandleFunc("/comment/{pk:[0-9]+}/approve", commentController.Approve).Methods(http.MethodPost).Name("approve_comment")
	authed.HandleFunc("/comment/{pk:[0-9]+}/remove", commentController.Remove).Methods(http.MethodPost).Name("remove_comment")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/posts", postController.APIList).Methods(http.MethodGet).Name("api_post_list")
	api.HandleFunc("/posts/{pk:[0-9]+}", postController.APIDetail).Methods(http.MethodGet).Name("api_post_detail")

	return router, nil
}
