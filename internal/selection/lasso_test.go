package selection

import (
	"os"
	"testing"

	"github.com/thenamesdyl/animation-poc/internal/engine/projection"
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

// testSource maps world space onto a 200x200 viewport with a unit
// orthographic volume: world (0,0,0) lands on pixel (100,100), world
// X=0.5 on pixel X=150, and |z| > 1 is depth-clipped.
func testSource() ProjectorSource {
	ortho := math.Ortho(-1, 1, -1, 1, -1, 1)
	return func() *projection.Projector {
		return projection.New(ortho, projection.Viewport{Width: 200, Height: 200})
	}
}

func testMesh(positions ...[3]float32) *mesh.Mesh {
	m := mesh.New("test")
	for _, p := range positions {
		m.Vertices = append(m.Vertices, mesh.Vertex{Position: p})
	}
	return m
}

// square feeds a square gesture enclosing the given pixel rectangle.
func square(l *Lasso, x0, y0, x1, y1 float32) {
	l.Handle(PointerEvent{Kind: PointerDown, X: x0, Y: y0, Primary: true})
	l.Handle(PointerEvent{Kind: PointerMove, X: x1, Y: y0, Primary: true})
	l.Handle(PointerEvent{Kind: PointerMove, X: x1, Y: y1, Primary: true})
	l.Handle(PointerEvent{Kind: PointerUp, X: x0, Y: y1, Primary: true})
}

func TestLassoSelectsEnclosedVertices(t *testing.T) {
	m := testMesh(
		[3]float32{0, 0, 0},    // pixel (100,100)
		[3]float32{0.5, 0, 0},  // pixel (150,100)
		[3]float32{-0.5, 0, 0}, // pixel (50,100)
	)
	l := NewLasso(m, testSource(), nil)

	square(l, 90, 90, 110, 110)

	got := l.Selected()
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Selected() = %v, want [0]", got)
	}
}

func TestLassoReplacementNotUnion(t *testing.T) {
	m := testMesh(
		[3]float32{0, 0, 0},   // pixel (100,100)
		[3]float32{0.5, 0, 0}, // pixel (150,100)
	)
	l := NewLasso(m, testSource(), nil)

	square(l, 90, 90, 110, 110)   // selects vertex 0
	square(l, 140, 90, 160, 110)  // selects vertex 1

	got := l.Selected()
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("second gesture should replace the first: got %v, want [1]", got)
	}
}

func TestLassoDegenerateGesture(t *testing.T) {
	m := testMesh([3]float32{0, 0, 0})
	l := NewLasso(m, testSource(), nil)

	// Click without dragging: only 2 accumulated points
	l.Handle(PointerEvent{Kind: PointerDown, X: 100, Y: 100, Primary: true})
	l.Handle(PointerEvent{Kind: PointerUp, X: 100, Y: 100, Primary: true})

	if len(l.Selected()) != 0 {
		t.Errorf("degenerate gesture should select nothing, got %v", l.Selected())
	}
	if l.Dragging() {
		t.Error("gesture should have completed")
	}
}

func TestLassoIgnoresNonPrimaryButton(t *testing.T) {
	m := testMesh([3]float32{0, 0, 0})
	l := NewLasso(m, testSource(), nil)

	l.Handle(PointerEvent{Kind: PointerDown, X: 90, Y: 90, Primary: false})
	if l.Dragging() {
		t.Error("non-primary press should not start a gesture")
	}
}

func TestLassoDepthClipRejection(t *testing.T) {
	m := testMesh(
		[3]float32{0, 0, 0}, // in the visible volume
		[3]float32{0, 0, 5}, // outside the ortho depth range
	)
	l := NewLasso(m, testSource(), nil)

	square(l, 0, 0, 200, 200)

	got := l.Selected()
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("depth-clipped vertex must not be selected: got %v, want [0]", got)
	}
}

func TestLassoObserverNotifications(t *testing.T) {
	m := testMesh([3]float32{0, 0, 0})

	var calls [][]int
	l := NewLasso(m, testSource(), func(sel []int) {
		cp := make([]int, len(sel))
		copy(cp, sel)
		calls = append(calls, cp)
	})

	square(l, 90, 90, 110, 110)

	// Once empty on pointer-down, once final on pointer-up
	if len(calls) != 2 {
		t.Fatalf("observer called %d times, want 2", len(calls))
	}
	if len(calls[0]) != 0 {
		t.Errorf("first notification should be empty, got %v", calls[0])
	}
	if len(calls[1]) != 1 || calls[1][0] != 0 {
		t.Errorf("final notification = %v, want [0]", calls[1])
	}
}

func TestLassoDisposeClearsSelection(t *testing.T) {
	m := testMesh([3]float32{0, 0, 0})

	var last []int = []int{-1}
	l := NewLasso(m, testSource(), func(sel []int) { last = sel })

	square(l, 90, 90, 110, 110)
	if len(l.Selected()) != 1 {
		t.Fatalf("setup: expected one selected vertex, got %v", l.Selected())
	}

	l.Dispose()
	if len(l.Selected()) != 0 {
		t.Error("Dispose should clear the selection")
	}
	if len(last) != 0 {
		t.Error("Dispose should notify the observer with an empty set")
	}

	// Disposing again with nothing selected must not notify
	last = []int{-1}
	l.Dispose()
	if len(last) != 1 || last[0] != -1 {
		t.Error("second Dispose should not notify")
	}
}
