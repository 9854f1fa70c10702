// Package selection implements freehand lasso selection of mesh vertices.
package selection

import (
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// PointInPolygon reports whether pt lies inside poly using the horizontal
// ray-casting parity rule. The polygon is treated as implicitly closed
// (the last point connects back to the first). Fewer than 3 points never
// contain anything.
func PointInPolygon(pt math.Vec2, poly []math.Vec2) bool {
	if len(poly) < 3 {
		return false
	}

	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		yi, yj := poly[i].Y, poly[j].Y

		// Edges whose Y span does not straddle the ray are skipped,
		// which also excludes horizontal edges (yi == yj).
		if (yi > pt.Y) != (yj > pt.Y) {
			xi, xj := poly[i].X, poly[j].X
			crossX := xi + (pt.Y-yi)/(yj-yi)*(xj-xi)
			if pt.X < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
