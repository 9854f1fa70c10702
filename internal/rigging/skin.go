package rigging

import (
	"go.uber.org/zap"

	"github.com/thenamesdyl/animation-poc/internal/logger"
	"github.com/thenamesdyl/animation-poc/internal/mesh"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// BindSkin computes nearest-bone skin weights for every vertex of the
// mesh and attaches the resulting joint/weight buffers to it in place.
// Callers that need the original geometry untouched must clone first.
//
// Both vertices and bones are resolved in world space. Each vertex gets
// exactly one influencing bone with weight 1; ties in distance go to
// the lower bone index (root is index 0, then children in order).
func BindSkin(m *mesh.Mesh, skel *Skeleton) error {
	if skel == nil {
		return ErrNoBones
	}

	bonePositions := skel.WorldPositions()
	world := m.WorldMatrix()

	joints := make([][4]uint16, m.VertexCount())
	weights := make([][4]float32, m.VertexCount())

	for i := range m.Vertices {
		p := m.Vertices[i].Position
		wp := world.TransformVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]})

		nearest := 0
		best := wp.DistanceSq(bonePositions[0])
		for b := 1; b < len(bonePositions); b++ {
			if d := wp.DistanceSq(bonePositions[b]); d < best {
				best = d
				nearest = b
			}
		}

		joints[i] = [4]uint16{uint16(nearest), 0, 0, 0}
		weights[i] = [4]float32{1, 0, 0, 0}
	}

	m.SkinJoints = joints
	m.SkinWeights = weights

	logger.Info("skin weights bound",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("bones", skel.BoneCount()),
	)
	return nil
}
