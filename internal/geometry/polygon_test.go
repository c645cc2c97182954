package geometry_test

import (
	"testing"

	"github.com/avelar0/kinmap/internal/geometry"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPointInPolygon(t *testing.T) {
	square := []domain.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}

	tests := []struct {
		name string
		pt   domain.Point
		want bool
	}{
		{"center", domain.Point{X: 50, Y: 50}, true},
		{"outside right", domain.Point{X: 150, Y: 50}, false},
		{"outside above", domain.Point{X: 50, Y: -10}, false},
		{"near corner inside", domain.Point{X: 1, Y: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geometry.PointInPolygon(tt.pt, square))
		})
	}
}

func TestPointInPolygon_Concave(t *testing.T) {
	// A "U" shape: points inside the notch are outside the polygon.
	u := []domain.Point{
		{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 70}, {X: 70, Y: 70},
		{X: 70, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}
	assert.False(t, geometry.PointInPolygon(domain.Point{X: 50, Y: 30}, u))
	assert.True(t, geometry.PointInPolygon(domain.Point{X: 15, Y: 30}, u))
}

func TestPointInPolygon_Degenerate(t *testing.T) {
	line := []domain.Point{{X: 0, Y: 0}, {X: 100, Y: 100}}
	assert.False(t, geometry.PointInPolygon(domain.Point{X: 50, Y: 50}, line))
}

func TestNear(t *testing.T) {
	assert.True(t, geometry.Near(domain.Point{X: 0, Y: 0}, domain.Point{X: 3, Y: 4}, 5))
	assert.False(t, geometry.Near(domain.Point{X: 0, Y: 0}, domain.Point{X: 3, Y: 4}, 4.9))
}
