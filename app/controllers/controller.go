package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"myblog/app/forms"
	"myblog/app/middleware"
	"myblog/app/repositories"
	"myblog/app/views"

	"github.com/gorilla/mux"
)

// URLBuilder reverses a named route. pairs alternate variable names and values.
type URLBuilder interface {
	URL(name string, pairs ...interface{}) (string, error)
}

// Base carries the collaborators every controller needs and the shared
// response helpers.
type Base struct {
	views views.Renderer
	urls  URLBuilder
	log   *slog.Logger
}

// NewBase creates a new Base
func NewBase(renderer views.Renderer, urls URLBuilder, log *slog.Logger) Base {
	return Base{views: renderer, urls: urls, log: log}
}

// render adds the current user to ctx and renders the page
func (b Base) render(w http.ResponseWriter, r *http.Request, status int, name string, ctx views.Context) {
	if ctx == nil {
		ctx = views.Context{}
	}
	ctx["user"] = middleware.CurrentUser(r.Context())
	if _, ok := ctx["errors"]; !ok {
		ctx["errors"] = forms.Errors{}
	}

	if err := b.views.Render(w, status, name, ctx); err != nil {
		b.log.Error("Template error", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// redirect sends a 303 to the reversed route
func (b Base) redirect(w http.ResponseWriter, r *http.Request, name string, pairs ...interface{}) {
	target, err := b.urls.URL(name, pairs...)
	if err != nil {
		b.fail(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail maps a service error onto a response: ErrNotFound becomes 404,
// everything else is logged and reported as 500.
func (b Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		b.sendError(w, r, "Not found", http.StatusNotFound)
		return
	}
	b.log.Error("Request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	b.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
}

// pathID parses the pk route variable. Values that do not fit an int name
// no record, so they are reported as not found.
func (b Base) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["pk"])
	if err != nil || id <= 0 {
		b.sendError(w, r, "Not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// parseForm reads the request body, answering 400 when it is malformed
func (b Base) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		b.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// Helper methods for consistent response handling

func (b Base) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.log.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

// sendError answers with a JSON error body for API clients and plain text
// otherwise.
func (b Base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
			b.log.Error("Failed to encode error response", slog.String("error", err.Error()))
		}
		return
	}
	http.Error(w, message, status)
}

// NotFound is the router's fallback handler
func (b Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.sendError(w, r, "Not found", http.StatusNotFound)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.URL.Path, "/api/")
}
