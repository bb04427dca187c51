package views

import (
	"fmt"
	"net/http"
	"sync"
)

// Recorder is a Renderer for tests. It writes the page name as the body
// and keeps the last context it was given.
type Recorder struct {
	mu      sync.Mutex
	name    string
	context Context
	count   int
}

func (r *Recorder) Render(w http.ResponseWriter, status int, name string, ctx Context) error {
	r.mu.Lock()
	r.name = name
	r.context = ctx
	r.count++
	r.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := fmt.Fprintf(w, "template: %s", name)
	return err
}

// Last returns the most recent page name and context
func (r *Recorder) Last() (string, Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.context
}

// Count is the number of pages rendered so far
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
