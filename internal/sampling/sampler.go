// Package sampling draws bounded random subsets of grouped vertices for
// the joint suggestion request.
package sampling

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/thenamesdyl/animation-poc/internal/groups"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// DefaultMaxPoints caps the sample size when the caller passes a
// non-positive limit.
const DefaultMaxPoints = 1000

// Sampler draws uniform subsets without replacement.
type Sampler struct {
	rng *rand.Rand
}

// New creates a sampler using the given random source. Pass a seeded
// source in tests for reproducibility.
func New(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Sample selects a uniform random subset of the flattened records and
// returns their positions. The subset size is
// min(maxCount, len(records), ceil(len(records)*ratio)); ratio is
// clamped to [0,1] and a non-positive maxCount falls back to
// DefaultMaxPoints. Each source record appears at most once.
func (s *Sampler) Sample(records []groups.FlatVertex, ratio float32, maxCount int) []math.Vec3 {
	if len(records) == 0 {
		return nil
	}
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	if maxCount <= 0 {
		maxCount = DefaultMaxPoints
	}

	target := int(math32.Ceil(float32(len(records)) * ratio))
	if target > len(records) {
		target = len(records)
	}
	if target > maxCount {
		target = maxCount
	}
	if target <= 0 {
		return nil
	}

	// Partial Fisher-Yates over an index permutation: unbiased and
	// bounded, no retry loops on duplicate draws.
	perm := make([]int, len(records))
	for i := range perm {
		perm[i] = i
	}
	out := make([]math.Vec3, 0, target)
	for i := 0; i < target; i++ {
		j := i + s.rng.Intn(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
		out = append(out, records[perm[i]].Position)
	}
	return out
}
