package selection

import (
	"testing"

	"github.com/thenamesdyl/animation-poc/pkg/math"
)

func poly(pts ...[2]float32) []math.Vec2 {
	out := make([]math.Vec2, len(pts))
	for i, p := range pts {
		out[i] = math.Vec2{X: p[0], Y: p[1]}
	}
	return out
}

func TestPointInSquare(t *testing.T) {
	square := poly([2]float32{0, 0}, [2]float32{10, 0}, [2]float32{10, 10}, [2]float32{0, 10})

	tests := []struct {
		name string
		pt   math.Vec2
		want bool
	}{
		{"center", math.Vec2{X: 5, Y: 5}, true},
		{"near edge inside", math.Vec2{X: 9.5, Y: 5}, true},
		{"outside right", math.Vec2{X: 11, Y: 5}, false},
		{"outside above", math.Vec2{X: 5, Y: 11}, false},
		{"outside negative", math.Vec2{X: -1, Y: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.pt, square); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestPointInConcavePolygon(t *testing.T) {
	// U shape: notch cut into the top
	u := poly(
		[2]float32{0, 0}, [2]float32{10, 0}, [2]float32{10, 10},
		[2]float32{7, 10}, [2]float32{7, 3}, [2]float32{3, 3},
		[2]float32{3, 10}, [2]float32{0, 10},
	)

	if !PointInPolygon(math.Vec2{X: 1.5, Y: 8}, u) {
		t.Error("point in left arm should be inside")
	}
	if !PointInPolygon(math.Vec2{X: 8.5, Y: 8}, u) {
		t.Error("point in right arm should be inside")
	}
	if PointInPolygon(math.Vec2{X: 5, Y: 8}, u) {
		t.Error("point in the notch should be outside")
	}
	if !PointInPolygon(math.Vec2{X: 5, Y: 1.5}, u) {
		t.Error("point in the base should be inside")
	}
}

func TestDegeneratePolygons(t *testing.T) {
	pt := math.Vec2{X: 1, Y: 1}

	if PointInPolygon(pt, nil) {
		t.Error("empty polygon should contain nothing")
	}
	if PointInPolygon(pt, poly([2]float32{0, 0})) {
		t.Error("single point should contain nothing")
	}
	if PointInPolygon(pt, poly([2]float32{0, 0}, [2]float32{5, 5})) {
		t.Error("two points should contain nothing")
	}
}

func TestHorizontalEdgesDoNotPanic(t *testing.T) {
	// Rectangle with purely horizontal top and bottom edges
	rect := poly([2]float32{0, 0}, [2]float32{4, 0}, [2]float32{4, 2}, [2]float32{0, 2})

	if !PointInPolygon(math.Vec2{X: 2, Y: 1}, rect) {
		t.Error("center of rectangle should be inside")
	}
	// A ray exactly at the level of a horizontal edge
	PointInPolygon(math.Vec2{X: 2, Y: 0}, rect)
	PointInPolygon(math.Vec2{X: 2, Y: 2}, rect)
}
