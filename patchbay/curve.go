package patchbay

import (
	"math"
	"strconv"
	"strings"
)

const (
	minSag    = 20
	maxSag    = 80
	sagFactor = 0.15
)

// Curve is a quadratic Bézier cable hanging between two jacks.
type Curve struct {
	From    Point
	Control Point
	To      Point
}

// NewCurve builds the cable between from and to. The control point sits at
// the horizontal midpoint, below the lower end by a sag that grows with the
// distance and is capped at 80.
func NewCurve(from, to Point) Curve {
	dx := math.Abs(to.X - from.X)
	dy := math.Abs(to.Y - from.Y)
	sag := math.Min(maxSag, minSag+(dx+dy)*sagFactor)

	return Curve{
		From:    from,
		Control: Point{X: (from.X + to.X) / 2, Y: math.Max(from.Y, to.Y) + sag},
		To:      to,
	}
}

// Sag returns how far the control point hangs below the lower end.
func (c Curve) Sag() float64 {
	return c.Control.Y - math.Max(c.From.Y, c.To.Y)
}

// At evaluates the curve at t in [0, 1].
func (c Curve) At(t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*c.From.X + 2*u*t*c.Control.X + t*t*c.To.X,
		Y: u*u*c.From.Y + 2*u*t*c.Control.Y + t*t*c.To.Y,
	}
}

// Path renders the curve as SVG path data: "M x1 y1 Q cx cy x2 y2".
func (c Curve) Path() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, c.From)
	b.WriteString(" Q ")
	writePoint(&b, c.Control)
	b.WriteByte(' ')
	writePoint(&b, c.To)
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}
