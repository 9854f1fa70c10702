// Package rig coordinates the skeleton generation workflow: validate
// vertex groups, snapshot geometry, sample, ask the suggestion service,
// synthesize and bind the skeleton.
package rig

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/thenamesdyl/animation-poc/internal/groups"
	"github.com/thenamesdyl/animation-poc/internal/logger"
	"github.com/thenamesdyl/animation-poc/internal/mesh"
	"github.com/thenamesdyl/animation-poc/internal/rigging"
	"github.com/thenamesdyl/animation-poc/internal/sampling"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// Default sampling policy for suggestion requests, used when the
// caller passes non-positive values to New.
const (
	SampleRatio     = 0.5
	SampleMaxPoints = 1000
)

// ErrPrecondition means a workflow method was called out of sequence.
// This is a wiring bug in the caller, not a user-recoverable state.
var ErrPrecondition = errors.New("generation workflow method called out of sequence")

// Phase is the workflow state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseAwaitingPrompt
	PhaseGenerating
	PhaseDone
	PhaseErrored
)

// String returns a short label for logging and display.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreparing:
		return "preparing"
	case PhaseAwaitingPrompt:
		return "awaiting prompt"
	case PhaseGenerating:
		return "generating"
	case PhaseDone:
		return "done"
	case PhaseErrored:
		return "errored"
	}
	return "unknown"
}

// Suggester maps a vertex sample and an animation description to
// suggested joint positions. Implemented by suggest.Client; tests
// inject fakes.
type Suggester interface {
	Suggest(ctx context.Context, sample []math.Vec3, prompt string) ([]math.Vec3, error)
}

// Result is a completed generation: the synthesized skeleton and the
// geometry snapshot carrying its skin buffers.
type Result struct {
	Skeleton *rigging.Skeleton
	Geometry *mesh.Mesh
}

// Generator sequences the rigging workflow. Single logical owner, not
// safe for concurrent use; the app drives it from the event loop and
// runs Generate on a worker goroutine whose completion it polls.
type Generator struct {
	suggester Suggester
	sampler   *sampling.Sampler
	ratio     float32
	maxPoints int

	phase    Phase
	errMsg   string
	prepared []groups.FlatVertex
	snapshot *mesh.Mesh
	result   *Result
}

// New creates a generator using the given suggestion backend and
// sampler. ratio and maxPoints set the sampling policy; non-positive
// values fall back to SampleRatio and SampleMaxPoints.
func New(suggester Suggester, sampler *sampling.Sampler, ratio float32, maxPoints int) *Generator {
	if ratio <= 0 {
		ratio = SampleRatio
	}
	if maxPoints <= 0 {
		maxPoints = SampleMaxPoints
	}
	return &Generator{
		suggester: suggester,
		sampler:   sampler,
		ratio:     ratio,
		maxPoints: maxPoints,
	}
}

// Phase returns the current workflow phase.
func (g *Generator) Phase() Phase {
	return g.phase
}

// Err returns the retained error message for display, if any.
func (g *Generator) Err() string {
	return g.errMsg
}

// Result returns the most recent successful generation, surviving later
// errors and cancels.
func (g *Generator) Result() *Result {
	return g.result
}

// Busy reports whether a prepare or generate is in flight; the UI uses
// this to block re-entry.
func (g *Generator) Busy() bool {
	return g.phase == PhasePreparing || g.phase == PhaseGenerating
}

// Prepare validates that the mesh has grouped vertices and snapshots
// everything Generate needs: a geometry clone and the flattened group
// data. On success the workflow moves to awaiting-prompt.
func (g *Generator) Prepare(m *mesh.Mesh, store *groups.Store) error {
	if g.Busy() {
		return ErrPrecondition
	}
	g.phase = PhasePreparing

	flat, err := store.Flatten()
	if err != nil {
		g.fail(err)
		return err
	}

	g.snapshot = m.Clone()
	g.prepared = flat
	g.errMsg = ""
	g.phase = PhaseAwaitingPrompt

	logger.Info("generation prepared",
		zap.Int("grouped_vertices", len(flat)),
		zap.Int("mesh_vertices", m.VertexCount()),
	)
	return nil
}

// Generate samples the prepared group data, requests joint suggestions
// for the prompt, and synthesizes a skeleton bound to a copy of the
// snapshotted geometry. Requires a successful Prepare and a non-empty
// prompt. On failure the workflow moves to errored with the message
// retained; a prior Done result stays available.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Result, error) {
	if prompt == "" || g.prepared == nil || g.Busy() {
		return nil, ErrPrecondition
	}
	g.phase = PhaseGenerating

	sample := g.sampler.Sample(g.prepared, g.ratio, g.maxPoints)
	logger.Info("requesting skeleton",
		zap.Int("sample_size", len(sample)),
		zap.String("prompt", prompt),
	)

	joints, err := g.suggester.Suggest(ctx, sample, prompt)
	if err != nil {
		g.fail(err)
		return nil, err
	}

	skel, err := rigging.BuildSkeleton(joints)
	if err != nil {
		g.fail(err)
		return nil, err
	}

	// Bind against a fresh copy so the snapshot stays reusable for
	// another generate with a different prompt.
	geom := g.snapshot.Clone()
	if err := rigging.BindSkin(geom, skel); err != nil {
		g.fail(err)
		return nil, err
	}

	g.result = &Result{Skeleton: skel, Geometry: geom}
	g.errMsg = ""
	g.phase = PhaseDone

	logger.Info("skeleton generated", zap.Int("bones", skel.BoneCount()))
	return g.result, nil
}

// Cancel steps back out of the prompt or error state. From errored with
// prepared data still in hand it returns to awaiting-prompt so the user
// can retry; otherwise everything transient is dropped. A Done result
// is never discarded.
func (g *Generator) Cancel() {
	switch g.phase {
	case PhaseErrored:
		g.errMsg = ""
		if g.prepared != nil {
			g.phase = PhaseAwaitingPrompt
			return
		}
		g.phase = PhaseIdle
	case PhaseAwaitingPrompt, PhaseDone:
		g.errMsg = ""
		g.prepared = nil
		g.snapshot = nil
		g.phase = PhaseIdle
	}
}

func (g *Generator) fail(err error) {
	g.errMsg = err.Error()
	g.phase = PhaseErrored
	logger.Error("generation failed", zap.Error(err))
}
