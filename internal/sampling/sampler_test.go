package sampling

import (
	"math/rand"
	"testing"

	"github.com/thenamesdyl/animation-poc/internal/groups"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

func records(n int) []groups.FlatVertex {
	out := make([]groups.FlatVertex, n)
	for i := range out {
		out[i] = groups.FlatVertex{
			Group:    "g",
			Index:    i,
			Position: math.Vec3{X: float32(i)},
		}
	}
	return out
}

func TestSampleBounds(t *testing.T) {
	s := New(rand.New(rand.NewSource(1)))

	tests := []struct {
		name     string
		n        int
		ratio    float32
		maxCount int
		want     int
	}{
		{"half of 10", 10, 0.5, 100, 5},
		{"ceil rounds up", 3, 0.5, 100, 2},
		{"capped by maxCount", 100, 1.0, 10, 10},
		{"capped by record count", 4, 1.0, 100, 4},
		{"zero ratio", 10, 0, 100, 0},
		{"ratio above one clamps", 6, 3.5, 100, 6},
		{"negative ratio clamps", 6, -1, 100, 0},
		{"non-positive maxCount falls back", 10, 1.0, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sample(records(tt.n), tt.ratio, tt.maxCount)
			if len(got) != tt.want {
				t.Errorf("Sample returned %d points, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSampleNoDuplicates(t *testing.T) {
	s := New(rand.New(rand.NewSource(42)))

	for trial := 0; trial < 20; trial++ {
		got := s.Sample(records(50), 0.6, 100)
		seen := make(map[float32]bool, len(got))
		for _, p := range got {
			if seen[p.X] {
				t.Fatalf("trial %d: source record sampled twice (x=%v)", trial, p.X)
			}
			seen[p.X] = true
		}
	}
}

func TestSampleEmptyInput(t *testing.T) {
	s := New(rand.New(rand.NewSource(7)))
	if got := s.Sample(nil, 0.5, 10); got != nil {
		t.Errorf("Sample(nil) = %v, want nil", got)
	}
}

func TestSampleCoversAllRecordsEventually(t *testing.T) {
	s := New(rand.New(rand.NewSource(3)))

	// Full-ratio sampling must return every record exactly once
	got := s.Sample(records(25), 1.0, 100)
	if len(got) != 25 {
		t.Fatalf("full sample returned %d, want 25", len(got))
	}
	seen := make(map[float32]bool)
	for _, p := range got {
		seen[p.X] = true
	}
	if len(seen) != 25 {
		t.Errorf("full sample covered %d distinct records, want 25", len(seen))
	}
}
