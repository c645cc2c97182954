// Package geometry provides the small amount of 2D math the editor needs:
// polygon containment for household membership and point proximity for
// closing a boundary on its first vertex.
package geometry

import (
	"math"

	"github.com/avelar0/kinmap/pkg/domain"
)

// Distance returns the euclidean distance between two canvas points.
func Distance(a, b domain.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Near reports whether two points are within radius of each other.
func Near(a, b domain.Point, radius float64) bool {
	return Distance(a, b) <= radius
}

// PointInPolygon reports whether the point lies inside the polygon, using the
// even-odd ray casting rule. Polygons with fewer than 3 vertices contain
// nothing.
func PointInPolygon(pt domain.Point, polygon []domain.Point) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			x := (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if pt.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
