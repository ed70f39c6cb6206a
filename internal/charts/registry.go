package charts

import (
	"errors"
	"fmt"

	"github.com/jgoulah/solardash/internal/display"
)

// ErrNoCanvas is returned when the page has no canvas target for a slot
var ErrNoCanvas = errors.New("chart canvas not found")

// Widget is a live chart instance drawn on a canvas
type Widget interface {
	// Release frees the widget and clears what it drew
	Release()
}

// Factory creates chart widgets
type Factory interface {
	Create(canvas *display.Element, cfg Config) (Widget, error)
}

// FactoryFunc adapts a function to Factory
type FactoryFunc func(canvas *display.Element, cfg Config) (Widget, error)

// Create calls f
func (f FactoryFunc) Create(canvas *display.Element, cfg Config) (Widget, error) {
	return f(canvas, cfg)
}

// Registry owns at most one live widget per chart slot. A slot is the id of
// the canvas target the chart is drawn on. It is not safe for concurrent use;
// the render loop is its only caller.
type Registry struct {
	page    *display.Page
	factory Factory
	slots   map[string]Widget
}

// NewRegistry creates a registry painting onto page
func NewRegistry(page *display.Page, factory Factory) *Registry {
	return &Registry{
		page:    page,
		factory: factory,
		slots:   make(map[string]Widget),
	}
}

// Render replaces the widget of a slot: any existing widget is released
// before the new one is created
func (r *Registry) Render(slot string, cfg Config) error {
	canvas, ok := r.page.Lookup(slot)
	if !ok {
		return ErrNoCanvas
	}

	r.release(slot)

	w, err := r.factory.Create(canvas, cfg)
	if err != nil {
		return fmt.Errorf("creating %s chart on %s: %w", cfg.Kind, slot, err)
	}
	r.slots[slot] = w
	return nil
}

// Live returns the current widget of a slot
func (r *Registry) Live(slot string) (Widget, bool) {
	w, ok := r.slots[slot]
	return w, ok
}

// Len returns the number of live widgets
func (r *Registry) Len() int {
	return len(r.slots)
}

// ReleaseAll releases every live widget
func (r *Registry) ReleaseAll() {
	for slot := range r.slots {
		r.release(slot)
	}
}

func (r *Registry) release(slot string) {
	if w, ok := r.slots[slot]; ok {
		w.Release()
		delete(r.slots, slot)
	}
}
