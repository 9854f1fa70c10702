package mesh

import (
	"testing"

	"github.com/thenamesdyl/animation-poc/pkg/math"
)

func lineMesh(n int) *Mesh {
	m := New("line")
	for i := 0; i < n; i++ {
		m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{float32(i), 0, 0}})
	}
	m.ComputeBounds()
	return m
}

func TestComputeBounds(t *testing.T) {
	m := lineMesh(6)

	if m.Bounds.Min != [3]float32{0, 0, 0} {
		t.Errorf("Bounds.Min = %v, want (0,0,0)", m.Bounds.Min)
	}
	if m.Bounds.Max != [3]float32{5, 0, 0} {
		t.Errorf("Bounds.Max = %v, want (5,0,0)", m.Bounds.Max)
	}
}

func TestWorldPosition(t *testing.T) {
	m := lineMesh(2)
	m.Transform.Position = math.Vec3{X: 10, Y: 0, Z: 0}
	m.Transform.Scale = math.Vec3{X: 2, Y: 2, Z: 2}

	got := m.WorldPosition(1)
	want := math.Vec3{X: 12, Y: 0, Z: 0}
	if got.DistanceSq(want) > 1e-6 {
		t.Errorf("WorldPosition(1) = %v, want %v", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := lineMesh(3)
	m.SkinJoints = make([][4]uint16, 3)
	m.SkinWeights = make([][4]float32, 3)

	c := m.Clone()
	c.Vertices[0].Position[0] = 99
	c.SkinJoints[0][0] = 7

	if m.Vertices[0].Position[0] == 99 {
		t.Error("Clone shares vertex storage with original")
	}
	if m.SkinJoints[0][0] == 7 {
		t.Error("Clone shares skin buffers with original")
	}
}

func TestCloneWithoutSkinBuffers(t *testing.T) {
	m := lineMesh(3)
	c := m.Clone()

	if c.SkinJoints != nil || c.SkinWeights != nil {
		t.Error("Clone invented skin buffers that the original lacked")
	}
	if c.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", c.VertexCount())
	}
}
