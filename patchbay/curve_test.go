package patchbay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCurve(t *testing.T) {
	t.Parallel()

	c := NewCurve(Point{0, 0}, Point{100, 50})
	assert.Equal(t, Point{50, 92.5}, c.Control)
	assert.InDelta(t, 42.5, c.Sag(), 1e-12)
	assert.Equal(t, "M 0 0 Q 50 92.5 100 50", c.Path())

	// sag is capped
	far := NewCurve(Point{0, 10}, Point{1000, 0})
	assert.InDelta(t, 80, far.Sag(), 1e-12)
	assert.Equal(t, Point{500, 90}, far.Control)

	// coincident jacks still hang
	same := NewCurve(Point{3, 4}, Point{3, 4})
	assert.InDelta(t, 20, same.Sag(), 1e-12)
}

func TestCurveAt(t *testing.T) {
	t.Parallel()

	c := NewCurve(Point{0, 0}, Point{100, 0})
	assert.Equal(t, c.From, c.At(0))
	assert.Equal(t, c.To, c.At(1))

	mid := c.At(0.5)
	assert.InDelta(t, 50, mid.X, 1e-12)
	assert.InDelta(t, c.Control.Y/2, mid.Y, 1e-12)
}
