package interaction

import (
	"github.com/avelar0/kinmap/internal/geometry"
	"github.com/avelar0/kinmap/pkg/domain"
)

// DefaultCloseRadius is the pixel distance from the first point within which
// a click closes the boundary instead of adding a vertex.
const DefaultCloseRadius = 12.0

// Boundary drives the multi-click polygon drawing interaction for household
// boundaries. States: idle, and drawing with accumulated points. The shape
// closes either by clicking near the first point or by an explicit Close,
// but only with at least 3 points; committing the resulting household is the
// editor's job.
type Boundary struct {
	drawing     bool
	points      []domain.Point
	closeRadius float64
}

// BoundaryOption configures the boundary machine.
type BoundaryOption func(*Boundary)

// WithCloseRadius overrides the close-on-first-point pixel radius.
func WithCloseRadius(radius float64) BoundaryOption {
	return func(b *Boundary) {
		b.closeRadius = radius
	}
}

// NewBoundary creates an idle boundary machine.
func NewBoundary(opts ...BoundaryOption) *Boundary {
	b := &Boundary{closeRadius: DefaultCloseRadius}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start enters the drawing state with no points. Starting while already
// drawing discards the accumulated points.
func (b *Boundary) Start() {
	b.drawing = true
	b.points = nil
}

// Cancel returns to idle from any state, discarding accumulated points.
func (b *Boundary) Cancel() {
	b.drawing = false
	b.points = nil
}

// Drawing reports whether a boundary is being drawn.
func (b *Boundary) Drawing() bool { return b.drawing }

// Points returns a copy of the accumulated points.
func (b *Boundary) Points() []domain.Point {
	return append([]domain.Point(nil), b.points...)
}

// AddPoint handles a canvas click while drawing. A click within the close
// radius of the first point, once 3 or more points exist, closes the shape
// and returns its points; otherwise the point is appended. Clicks while idle
// are ignored.
func (b *Boundary) AddPoint(pt domain.Point) ([]domain.Point, bool) {
	if !b.drawing {
		return nil, false
	}
	if len(b.points) >= 3 && geometry.Near(pt, b.points[0], b.closeRadius) {
		return b.finish()
	}
	b.points = append(b.points, pt)
	return nil, false
}

// Close commits the shape explicitly. With fewer than 3 points it is a
// silent no-op and the machine keeps drawing.
func (b *Boundary) Close() ([]domain.Point, bool) {
	if !b.drawing || len(b.points) < 3 {
		return nil, false
	}
	return b.finish()
}

func (b *Boundary) finish() ([]domain.Point, bool) {
	points := b.points
	b.drawing = false
	b.points = nil
	return points, true
}
