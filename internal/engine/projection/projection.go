// Package projection maps world-space points to viewport pixel coordinates.
package projection

import (
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// Viewport holds the pixel dimensions of the render surface.
type Viewport struct {
	Width  float32
	Height float32
}

// Projector projects world-space points through a fixed view-projection
// matrix onto a viewport. Build a fresh one per frame or gesture: the
// camera transform and viewport size both change under the user's hands.
type Projector struct {
	viewProj math.Mat4
	viewport Viewport
}

// New creates a projector for the given view-projection matrix and viewport.
func New(viewProj math.Mat4, vp Viewport) *Projector {
	return &Projector{viewProj: viewProj, viewport: vp}
}

// Project transforms a world-space point to pixel coordinates.
// Returns the pixel position and the NDC depth. Depth outside [-1, 1]
// means the point is clipped by the near or far plane; callers should
// reject such points (Visible reports this).
func (p *Projector) Project(world math.Vec3) (x, y, depth float32) {
	clip := p.viewProj.MulVec4(math.Vec4{world.X, world.Y, world.Z, 1})

	w := clip[3]
	if w == 0 {
		w = 1
	}
	ndcX := clip[0] / w
	ndcY := clip[1] / w
	depth = clip[2] / w

	// NDC [-1,1] to pixels; device Y grows downward
	x = (ndcX + 1) / 2 * p.viewport.Width
	y = (1 - ndcY) / 2 * p.viewport.Height
	return x, y, depth
}

// Visible reports whether an NDC depth lies within the clip range.
func Visible(depth float32) bool {
	return depth >= -1 && depth <= 1
}
