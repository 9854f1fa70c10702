package rigging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenamesdyl/animation-poc/internal/logger"
	"github.com/thenamesdyl/animation-poc/internal/mesh"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func lineMesh(n int) *mesh.Mesh {
	m := mesh.New("line")
	for i := 0; i < n; i++ {
		m.Vertices = append(m.Vertices, mesh.Vertex{Position: [3]float32{float32(i), 0, 0}})
	}
	return m
}

func TestBuildSkeletonRootRelativeOffsets(t *testing.T) {
	skel, err := BuildSkeleton([]math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 2, Z: 3},
		{X: -1, Y: 0, Z: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, math.Vec3{}, skel.Root.Offset)
	require.Len(t, skel.Children, 2)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, skel.Children[0].Offset)
	assert.Equal(t, math.Vec3{X: -1, Y: 0, Z: 1}, skel.Children[1].Offset)
}

func TestBuildSkeletonOffsetRoot(t *testing.T) {
	// Root away from the origin: children offsets stay root-relative
	skel, err := BuildSkeleton([]math.Vec3{
		{X: 5, Y: 5, Z: 5},
		{X: 6, Y: 5, Z: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, math.Vec3{X: 5, Y: 5, Z: 5}, skel.Root.Offset)
	assert.Equal(t, math.Vec3{X: 1, Y: 0, Z: 0}, skel.Children[0].Offset)

	world := skel.WorldPositions()
	assert.Equal(t, math.Vec3{X: 6, Y: 5, Z: 5}, world[1])
}

func TestBuildSkeletonSingleJoint(t *testing.T) {
	skel, err := BuildSkeleton([]math.Vec3{{X: 1, Y: 1, Z: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, skel.BoneCount())
	assert.Empty(t, skel.Children)
}

func TestBuildSkeletonNoJoints(t *testing.T) {
	_, err := BuildSkeleton(nil)
	assert.ErrorIs(t, err, ErrNoBones)
}

func TestBindSkinNearestBone(t *testing.T) {
	// Six vertices along the X axis from 0 to 5, joints at both ends:
	// x <= 2.5 goes to bone 0, x > 2.5 to bone 1.
	m := lineMesh(6)
	skel, err := BuildSkeleton([]math.Vec3{{X: 0}, {X: 5}})
	require.NoError(t, err)

	require.NoError(t, BindSkin(m, skel))

	wantJoint := []uint16{0, 0, 0, 1, 1, 1}
	for i := range m.Vertices {
		assert.Equal(t, [4]uint16{wantJoint[i], 0, 0, 0}, m.SkinJoints[i], "vertex %d", i)
		assert.Equal(t, [4]float32{1, 0, 0, 0}, m.SkinWeights[i], "vertex %d", i)
	}
}

func TestBindSkinEveryVertexBound(t *testing.T) {
	// All vertices receive a binding, grouped or not
	m := lineMesh(10)
	skel, _ := BuildSkeleton([]math.Vec3{{X: 2}})
	require.NoError(t, BindSkin(m, skel))

	require.Len(t, m.SkinJoints, 10)
	require.Len(t, m.SkinWeights, 10)
}

func TestBindSkinTieBreakStable(t *testing.T) {
	// A vertex exactly between two bones binds to the lower index,
	// and repeated runs agree.
	m := mesh.New("tie")
	m.Vertices = append(m.Vertices, mesh.Vertex{Position: [3]float32{2.5, 0, 0}})

	skel, _ := BuildSkeleton([]math.Vec3{{X: 0}, {X: 5}})

	for run := 0; run < 5; run++ {
		require.NoError(t, BindSkin(m, skel))
		assert.Equal(t, uint16(0), m.SkinJoints[0][0], "run %d", run)
	}
}

func TestBindSkinWorldSpace(t *testing.T) {
	// The mesh transform shifts vertices toward the far bone; skinning
	// must honor it.
	m := lineMesh(2) // local x = 0, 1
	m.Transform.Position = math.Vec3{X: 10}

	skel, _ := BuildSkeleton([]math.Vec3{{X: 0}, {X: 11}})
	require.NoError(t, BindSkin(m, skel))

	// World positions are 10 and 11: both nearest to the bone at 11
	assert.Equal(t, uint16(1), m.SkinJoints[0][0])
	assert.Equal(t, uint16(1), m.SkinJoints[1][0])
}

func TestBindSkinNoBonesNoMutation(t *testing.T) {
	m := lineMesh(3)
	err := BindSkin(m, nil)
	assert.ErrorIs(t, err, ErrNoBones)
	assert.Nil(t, m.SkinJoints)
	assert.Nil(t, m.SkinWeights)
}
