// Package rigging synthesizes a bone skeleton from suggested joint
// positions and binds mesh vertices to it with single-influence skin
// weights.
package rigging

import (
	"errors"
	"fmt"

	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// ErrNoBones means skeleton synthesis was asked for with zero joints.
var ErrNoBones = errors.New("no joint positions to build bones from")

// Bone is a skeleton node. The root carries its absolute world
// placement; every child stores its offset relative to the root.
type Bone struct {
	Name   string
	Offset math.Vec3
}

// Skeleton is a two-level bone tree: one root and a flat list of
// children attached directly to it. The root is a named field rather
// than "index 0" so reordering the children can never silently change
// which bone anchors the hierarchy.
type Skeleton struct {
	Root     Bone
	Children []Bone
}

// BoneCount returns the total number of bones including the root.
func (s *Skeleton) BoneCount() int {
	return 1 + len(s.Children)
}

// WorldPositions returns the world-space position of every bone,
// root first, children in order.
func (s *Skeleton) WorldPositions() []math.Vec3 {
	out := make([]math.Vec3, 0, s.BoneCount())
	out = append(out, s.Root.Offset)
	for _, c := range s.Children {
		out = append(out, s.Root.Offset.Add(c.Offset))
	}
	return out
}

// BuildSkeleton creates a skeleton from an ordered list of joint
// positions. The first joint becomes the root, placed at its absolute
// position; the rest become direct children of the root with
// root-relative offsets. Any length >= 1 is accepted.
func BuildSkeleton(joints []math.Vec3) (*Skeleton, error) {
	if len(joints) == 0 {
		return nil, ErrNoBones
	}

	skel := &Skeleton{
		Root: Bone{Name: "root", Offset: joints[0]},
	}
	for i, j := range joints[1:] {
		skel.Children = append(skel.Children, Bone{
			Name:   fmt.Sprintf("bone_%d", i+1),
			Offset: j.Sub(joints[0]),
		})
	}
	return skel, nil
}
