// Package groups maintains named vertex groups for a mesh.
//
// Groups are the unit the rigging workflow operates on: the user lassoes
// vertices, names the region, and the flattened group data is what gets
// sampled and sent to the joint suggestion service.
package groups

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/thenamesdyl/animation-poc/internal/logger"
	"github.com/thenamesdyl/animation-poc/internal/mesh"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

var (
	// ErrInvalidName means sanitization left nothing of the group name.
	ErrInvalidName = errors.New("group name has no valid characters")

	// ErrEmptyGroups means flattening was asked for before any group exists.
	ErrEmptyGroups = errors.New("no vertex groups defined")

	// ErrNoValidVertices means every group member was out of range.
	ErrNoValidVertices = errors.New("vertex groups contain no valid vertices")
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// SanitizeName normalizes a user-supplied group name: whitespace runs
// become underscores, anything outside [A-Za-z0-9_] is stripped.
// Returns ErrInvalidName if nothing survives.
func SanitizeName(name string) (string, error) {
	s := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	s = disallowed.ReplaceAllString(s, "")
	if s == "" {
		return "", ErrInvalidName
	}
	return s, nil
}

// FlatVertex is one group member resolved to its current world position.
type FlatVertex struct {
	Group    string
	Index    int
	Position math.Vec3
}

// Store maps group names to vertex index sets for a single mesh.
// One store per loaded mesh; replace the store when the mesh changes.
type Store struct {
	mesh    *mesh.Mesh
	members map[string]map[int]struct{}
	order   []string
}

// NewStore creates an empty group store bound to the given mesh.
func NewStore(m *mesh.Mesh) *Store {
	return &Store{
		mesh:    m,
		members: make(map[string]map[int]struct{}),
	}
}

// Assign adds the given vertex indices to the named group, creating the
// group if needed. Adding an index twice is a no-op (set semantics);
// existing members are never removed. Returns the sanitized group name.
func (s *Store) Assign(name string, indices []int) (string, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return "", err
	}

	set, ok := s.members[clean]
	if !ok {
		set = make(map[int]struct{})
		s.members[clean] = set
		s.order = append(s.order, clean)
	}

	added := 0
	for _, idx := range indices {
		if _, dup := set[idx]; !dup {
			set[idx] = struct{}{}
			added++
		}
	}

	logger.Info("vertex group updated",
		zap.String("group", clean),
		zap.Int("added", added),
		zap.Int("size", len(set)),
	)
	return clean, nil
}

// Names returns all group names in creation order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Members returns the member indices of a group in no particular order,
// or nil if the group does not exist.
func (s *Store) Members(name string) []int {
	set, ok := s.members[name]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	return out
}

// Len returns the number of groups.
func (s *Store) Len() int {
	return len(s.order)
}

// Clear drops every group. Call when the mesh is replaced.
func (s *Store) Clear() {
	s.members = make(map[string]map[int]struct{})
	s.order = nil
}

// Flatten resolves every group member to its current world position,
// applying the mesh's live transform. Out-of-range indices are dropped
// with a warning rather than failing the whole operation. Returns
// ErrEmptyGroups when no groups exist and ErrNoValidVertices when
// filtering leaves nothing.
func (s *Store) Flatten() ([]FlatVertex, error) {
	if len(s.order) == 0 {
		return nil, ErrEmptyGroups
	}

	world := s.mesh.WorldMatrix()
	count := s.mesh.VertexCount()

	var out []FlatVertex
	dropped := 0
	for _, name := range s.order {
		for idx := range s.members[name] {
			if idx < 0 || idx >= count {
				dropped++
				continue
			}
			p := s.mesh.Vertices[idx].Position
			out = append(out, FlatVertex{
				Group:    name,
				Index:    idx,
				Position: world.TransformVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]}),
			})
		}
	}

	if dropped > 0 {
		logger.Warn("dropped out-of-range group members",
			zap.Int("dropped", dropped),
			zap.Int("vertex_count", count),
		)
	}
	if len(out) == 0 {
		return nil, ErrNoValidVertices
	}
	return out, nil
}
