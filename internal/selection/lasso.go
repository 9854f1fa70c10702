package selection

import (
	"go.uber.org/zap"

	"github.com/thenamesdyl/animation-poc/internal/engine/projection"
	"github.com/thenamesdyl/animation-poc/internal/logger"
	"github.com/thenamesdyl/animation-poc/internal/mesh"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// PointerKind identifies a pointer event type.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is a pointer event relative to the render surface.
// The windowing layer translates its native events into these, so the
// lasso engine can be driven headlessly in tests.
type PointerEvent struct {
	Kind    PointerKind
	X, Y    float32
	Primary bool
}

// ProjectorSource supplies the projector for the current camera and
// viewport. Sampled at classification time, since both change between
// gestures.
type ProjectorSource func() *projection.Projector

// Observer is notified whenever the selection changes. The slice is
// owned by the lasso and must not be mutated.
type Observer func(selected []int)

// Lasso accumulates a freehand polygon from pointer events and selects
// the mesh vertices whose screen projections fall inside it. Each
// completed gesture replaces the previous selection.
type Lasso struct {
	mesh      *mesh.Mesh
	projector ProjectorSource
	observer  Observer

	dragging bool
	path     []math.Vec2
	selected []int
}

// NewLasso creates a lasso selection engine for the given mesh.
func NewLasso(m *mesh.Mesh, src ProjectorSource, obs Observer) *Lasso {
	return &Lasso{
		mesh:      m,
		projector: src,
		observer:  obs,
	}
}

// Selected returns the current selection. Read-only to callers.
func (l *Lasso) Selected() []int {
	return l.selected
}

// Path returns the in-progress gesture path for overlay rendering.
func (l *Lasso) Path() []math.Vec2 {
	return l.path
}

// Dragging reports whether a gesture is in progress.
func (l *Lasso) Dragging() bool {
	return l.dragging
}

// Handle feeds one pointer event through the gesture state machine.
func (l *Lasso) Handle(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		if !ev.Primary || l.dragging {
			return
		}
		l.dragging = true
		l.path = l.path[:0]
		l.path = append(l.path, math.Vec2{X: ev.X, Y: ev.Y})
		// The old selection dies the moment a new gesture starts.
		l.setSelection(nil)

	case PointerMove:
		if !l.dragging {
			return
		}
		l.path = append(l.path, math.Vec2{X: ev.X, Y: ev.Y})

	case PointerUp:
		if !l.dragging {
			return
		}
		l.dragging = false
		l.path = append(l.path, math.Vec2{X: ev.X, Y: ev.Y})

		if len(l.path) < 3 {
			l.setSelection(nil)
			return
		}
		l.setSelection(l.classify())
	}
}

// Dispose deactivates the tool. A live selection is cleared and
// observers told about it, so downstream consumers never hold on to
// vertices from a tool that is gone.
func (l *Lasso) Dispose() {
	l.dragging = false
	l.path = nil
	if len(l.selected) > 0 {
		l.setSelection(nil)
	}
}

// classify projects every mesh vertex and tests it against the gesture
// polygon. O(vertexCount * pathLength); fine for interactive edits.
func (l *Lasso) classify() []int {
	proj := l.projector()
	world := l.mesh.WorldMatrix()

	var picked []int
	for i := range l.mesh.Vertices {
		p := l.mesh.Vertices[i].Position
		wp := world.TransformVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]})

		x, y, depth := proj.Project(wp)
		if !projection.Visible(depth) {
			continue
		}
		if PointInPolygon(math.Vec2{X: x, Y: y}, l.path) {
			picked = append(picked, i)
		}
	}

	logger.Debug("lasso classified",
		zap.Int("path_points", len(l.path)),
		zap.Int("selected", len(picked)),
	)
	return picked
}

func (l *Lasso) setSelection(indices []int) {
	l.selected = indices
	if l.observer != nil {
		l.observer(l.selected)
	}
}
