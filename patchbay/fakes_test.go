package patchbay

import (
	"io"
	"log/slog"
	"sync"
)

type fakeElement struct {
	mu       sync.Mutex
	center   Point
	classes  map[string]bool
	title    string
	handlers *Handlers
}

func newElement(x, y float64) *fakeElement {
	return &fakeElement{center: Point{X: x, Y: y}, classes: make(map[string]bool)}
}

func (e *fakeElement) Center() Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.center
}

func (e *fakeElement) moveTo(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.center = Point{X: x, Y: y}
}

func (e *fakeElement) AddClass(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range names {
		e.classes[n] = true
	}
}

func (e *fakeElement) RemoveClass(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range names {
		delete(e.classes, n)
	}
}

func (e *fakeElement) has(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classes[name]
}

func (e *fakeElement) SetTitle(title string) { e.title = title }

func (e *fakeElement) Bind(h Handlers) { e.handlers = &h }

func (e *fakeElement) Unbind() { e.handlers = nil }

func (e *fakeElement) click() {
	if e.handlers != nil && e.handlers.Activate != nil {
		e.handlers.Activate()
	}
}

func (e *fakeElement) rightClick() {
	if e.handlers != nil && e.handlers.Secondary != nil {
		e.handlers.Secondary()
	}
}

type fakeOverlay struct {
	cables   map[string]Curve
	updates  int
	removes  int
	phantom  bool
	lastMove Curve
}

func newOverlay() *fakeOverlay {
	return &fakeOverlay{cables: make(map[string]Curve)}
}

func (o *fakeOverlay) AddCable(id string, c Curve) { o.cables[id] = c }

func (o *fakeOverlay) UpdateCable(id string, c Curve) {
	o.cables[id] = c
	o.updates++
}

func (o *fakeOverlay) RemoveCable(id string) {
	delete(o.cables, id)
	o.removes++
}

func (o *fakeOverlay) ShowPhantom() { o.phantom = true }

func (o *fakeOverlay) MovePhantom(c Curve) { o.lastMove = c }

func (o *fakeOverlay) HidePhantom() { o.phantom = false }

// manualFrames queues frame callbacks until flush.
type manualFrames struct {
	queued []func()
}

func (f *manualFrames) RequestFrame(fn func()) { f.queued = append(f.queued, fn) }

func (f *manualFrames) flush() {
	q := f.queued
	f.queued = nil
	for _, fn := range q {
		fn()
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
