package views

import (
	"io"
	"sync"

	"github.com/labstack/echo/v4"
)

// Rendered is one call to a Recorder.
type Rendered struct {
	Name string
	Data interface{}
}

// Recorder wraps a renderer and remembers which templates were rendered with
// which data, so tests can check both the page and what went into it.
type Recorder struct {
	next echo.Renderer

	mu       sync.Mutex
	rendered []Rendered
}

// NewRecorder records every render and then passes it on to next. A nil next
// records without writing anything.
func NewRecorder(next echo.Renderer) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	r.mu.Lock()
	r.rendered = append(r.rendered, Rendered{Name: name, Data: data})
	r.mu.Unlock()

	if r.next == nil {
		return nil
	}
	return r.next.Render(w, name, data, c)
}

// Last returns the most recent render.
func (r *Recorder) Last() (Rendered, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rendered) == 0 {
		return Rendered{}, false
	}
	return r.rendered[len(r.rendered)-1], true
}

// Names lists the templates rendered so far, in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.rendered))
	for _, rendered := range r.rendered {
		names = append(names, rendered.Name)
	}
	return names
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = nil
}
