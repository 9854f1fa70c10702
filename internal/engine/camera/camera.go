// Package camera provides the orbit camera used to inspect models.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FovY float32 // Vertical field of view, radians
	Near float32
	Far  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5.0,
		RotationX:       0.4,
		RotationY:       0.0,
		FovY:            math32.Pi / 4,
		Near:            0.05,
		Far:             500.0,
		MinDistance:     0.2,
		MaxDistance:     200.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * math32.Cos(c.RotationX) * math32.Sin(c.RotationY)
	y := c.Distance * math32.Sin(c.RotationX)
	z := c.Distance * math32.Cos(c.RotationX) * math32.Cos(c.RotationY)

	return math.Vec3{
		X: c.Center.X + x,
		Y: c.Center.Y + y,
		Z: c.Center.Z + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// ProjectionMatrix returns the perspective projection for the given
// viewport aspect ratio (width/height).
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view for the given aspect ratio.
// This is the matrix the projector and shaders consume.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// ZoomStep applies a scroll wheel delta to the given distance and
// returns the result clamped to the distance constraints. Callers that
// smooth the zoom feed the returned value to Distance over time rather
// than snapping.
func (c *OrbitCamera) ZoomStep(distance, delta float32) float32 {
	distance -= delta * distance * c.ZoomSensitivity
	if distance < c.MinDistance {
		distance = c.MinDistance
	}
	if distance > c.MaxDistance {
		distance = c.MaxDistance
	}
	return distance
}

// FitToBounds centers the camera on the given bounding box and backs
// off far enough that the whole box fits in view.
func (c *OrbitCamera) FitToBounds(min, max [3]float32) {
	c.Center = math.Vec3{
		X: (min[0] + max[0]) / 2,
		Y: (min[1] + max[1]) / 2,
		Z: (min[2] + max[2]) / 2,
	}

	size := math32.Max(max[0]-min[0], math32.Max(max[1]-min[1], max[2]-min[2]))
	if size <= 0 {
		size = 1
	}

	// Distance so the largest extent spans the vertical field of view
	c.Distance = size / (2 * math32.Tan(c.FovY/2)) * 1.4
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.MaxDistance = c.Distance * 4
	}
}
