package patchbay

import (
	"slices"
	"sync"
)

// Slot is an Element for hosts without a visual rack, such as the terminal
// host and tests. It sits at a fixed position and records its classes.
type Slot struct {
	mu       sync.Mutex
	center   Point
	classes  []string
	title    string
	handlers *Handlers
}

// NewSlot returns a slot centered at (x, y).
func NewSlot(x, y float64) *Slot {
	return &Slot{center: Point{X: x, Y: y}}
}

func (s *Slot) Center() Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.center
}

// MoveTo repositions the slot. Call RedrawCables afterwards.
func (s *Slot) MoveTo(x, y float64) {
	s.mu.Lock()
	s.center = Point{X: x, Y: y}
	s.mu.Unlock()
}

func (s *Slot) AddClass(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range names {
		if !slices.Contains(s.classes, n) {
			s.classes = append(s.classes, n)
		}
	}
}

func (s *Slot) RemoveClass(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.classes = slices.DeleteFunc(s.classes, func(c string) bool {
		return slices.Contains(names, c)
	})
}

// HasClass reports whether the slot carries class name.
func (s *Slot) HasClass(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.classes, name)
}

func (s *Slot) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// Title returns the tooltip set by the bay.
func (s *Slot) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.title
}

func (s *Slot) Bind(h Handlers) {
	s.mu.Lock()
	s.handlers = &h
	s.mu.Unlock()
}

func (s *Slot) Unbind() {
	s.mu.Lock()
	s.handlers = nil
	s.mu.Unlock()
}

// Click fires the primary gesture, if bound.
func (s *Slot) Click() {
	s.mu.Lock()
	h := s.handlers
	s.mu.Unlock()

	if h != nil && h.Activate != nil {
		h.Activate()
	}
}

// SecondaryClick fires the secondary gesture, if bound.
func (s *Slot) SecondaryClick() {
	s.mu.Lock()
	h := s.handlers
	s.mu.Unlock()

	if h != nil && h.Secondary != nil {
		h.Secondary()
	}
}
