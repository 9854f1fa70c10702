// Package mesh holds the editable model geometry and its auxiliary
// rigging data (skin buffers, bounds, world transform).
package mesh

import (
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// Vertex is a single mesh vertex with position and normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Transform is a TRS world transform for a mesh instance.
type Transform struct {
	Position math.Vec3
	RotX     float32 // radians
	RotY     float32
	RotZ     float32
	Scale    math.Vec3
}

// Matrix returns the composed world matrix for this transform.
func (t Transform) Matrix() math.Mat4 {
	return math.TRS(t.Position, t.RotX, t.RotY, t.RotZ, t.Scale)
}

// Mesh holds model geometry plus the per-vertex data attached by the
// rigging pipeline. Vertices and Indices are never resized or reordered
// after load; skin buffers are attached in place by the synthesizer.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds

	Transform Transform

	// Skin buffers, populated once skinning runs. Four influence slots
	// per vertex; this rig model only fills slot 0.
	SkinJoints  [][4]uint16
	SkinWeights [][4]float32
}

// New creates an empty mesh with an identity transform.
func New(name string) *Mesh {
	return &Mesh{
		Name: name,
		Transform: Transform{
			Scale: math.Vec3{X: 1, Y: 1, Z: 1},
		},
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// WorldMatrix returns the current world matrix.
func (m *Mesh) WorldMatrix() math.Mat4 {
	return m.Transform.Matrix()
}

// WorldPosition returns the world-space position of vertex i.
// The index must be in range.
func (m *Mesh) WorldPosition(i int) math.Vec3 {
	world := m.WorldMatrix()
	p := m.Vertices[i].Position
	return world.TransformVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
}

// Clone returns a deep copy of the mesh. Used by the generation
// workflow to snapshot geometry before skinning mutates it.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Name:      m.Name,
		Bounds:    m.Bounds,
		Transform: m.Transform,
	}
	c.Vertices = make([]Vertex, len(m.Vertices))
	copy(c.Vertices, m.Vertices)
	c.Indices = make([]uint32, len(m.Indices))
	copy(c.Indices, m.Indices)
	if m.SkinJoints != nil {
		c.SkinJoints = make([][4]uint16, len(m.SkinJoints))
		copy(c.SkinJoints, m.SkinJoints)
	}
	if m.SkinWeights != nil {
		c.SkinWeights = make([][4]float32, len(m.SkinWeights))
		copy(c.SkinWeights, m.SkinWeights)
	}
	return c
}

// ComputeBounds recalculates the bounding box from vertex positions.
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}

	b := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for i := range m.Vertices {
		updateBounds(&b, m.Vertices[i].Position)
	}
	m.Bounds = b
}

func updateBounds(b *Bounds, p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
