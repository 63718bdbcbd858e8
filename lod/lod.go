// Package lod builds ordered sequences of level-of-detail snapshots by
// driving the decimator at multiple target ratios.
//
// By default every level is decimated from an independent copy of the base
// mesh, so approximation error never compounds across levels and levels can
// be built concurrently. Progressive mode instead decimates each level from
// the previous level's output; it is cheaper for long level chains but
// accumulates error, and it forces serial execution.
package lod

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/Ram9299/3dshape-explorer/decimate"
	"github.com/Ram9299/3dshape-explorer/mesh"
	"github.com/Ram9299/3dshape-explorer/resource"
)

// ErrInvalidRatio indicates a detail ratio outside (0, 1].
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidRatio struct {
	Ratio float64
	cause error
}

func (e *ErrInvalidRatio) Error() string {
	return fmt.Sprintf("invalid detail ratio: %g (must be in (0,1])", e.Ratio)
}

func (e *ErrInvalidRatio) Unwrap() error { return e.cause }

// Level is an immutable snapshot of the mesh at one detail ratio. It is
// never mutated after creation and shares no buffers with other levels or
// with the base mesh.
type Level struct {
	// Mesh holds positions, faces and freshly computed normals.
	Mesh *mesh.Mesh

	// Ratio is the requested detail ratio.
	Ratio float64

	// AchievedRatio is the ratio actually reached. It can exceed Ratio when
	// the decimator runs out of collapsible edges.
	AchievedRatio float64

	TargetFaces   int
	AchievedFaces int
}

// Options configures a Build run.
type Options struct {
	// Progressive decimates each level from the previous level's output
	// instead of the base mesh. Implies serial execution. Ratio 1 is the
	// exception: it always reproduces the base mesh, and the chain
	// continues from there.
	Progressive bool

	// Parallel is the maximum number of levels built concurrently in
	// independent mode. Values below 1 mean serial. Ignored when
	// Progressive is set.
	Parallel int

	// Controller, if set, gates level workers and caps Parallel at the
	// controller's worker slots.
	Controller *resource.Controller

	// DecimateOptions are forwarded to every decimation pass.
	DecimateOptions []func(*decimate.Options)
}

// DefaultOptions are the default build options.
var DefaultOptions = Options{
	Parallel: 1,
}

// Build produces one Level per ratio, ordered as given. Each ratio must lie
// in (0, 1]; ratio 1 reproduces the base mesh unchanged with fresh normals.
// The base mesh is only read, never written.
func Build(ctx context.Context, base *mesh.Mesh, ratios []float64, optFns ...func(*Options)) ([]Level, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if base.VertexCount() == 0 || base.FaceCount() == 0 {
		return nil, mesh.ErrEmptyMesh
	}
	for _, r := range ratios {
		if !(r > 0 && r <= 1) || math.IsNaN(r) {
			return nil, &ErrInvalidRatio{Ratio: r}
		}
	}

	if opts.Progressive {
		return buildProgressive(ctx, base, ratios, opts)
	}
	return buildIndependent(ctx, base, ratios, opts)
}

func buildIndependent(ctx context.Context, base *mesh.Mesh, ratios []float64, opts Options) ([]Level, error) {
	limit := opts.Parallel
	if limit < 1 {
		limit = 1
	}
	if opts.Controller != nil && limit > opts.Controller.MaxWorkers() {
		limit = opts.Controller.MaxWorkers()
	}

	levels := make([]Level, len(ratios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, ratio := range ratios {
		i, ratio := i, ratio
		g.Go(func() error {
			if err := opts.Controller.AcquireWorker(gctx); err != nil {
				return err
			}
			defer opts.Controller.ReleaseWorker()

			lvl, err := buildOne(gctx, base, base, ratio, opts)
			if err != nil {
				return err
			}
			levels[i] = lvl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return levels, nil
}

func buildProgressive(ctx context.Context, base *mesh.Mesh, ratios []float64, opts Options) ([]Level, error) {
	levels := make([]Level, 0, len(ratios))
	prev := base
	for _, ratio := range ratios {
		lvl, err := buildOne(ctx, base, prev, ratio, opts)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
		prev = lvl.Mesh
	}
	return levels, nil
}

// buildOne builds a single level. Targets are always expressed against the
// base face count, even in progressive mode, so a ratio means the same thing
// in both configurations. Ratio 1 reproduces the base mesh no matter what
// src is, so a full-detail level stays full detail even mid-chain.
func buildOne(ctx context.Context, base, src *mesh.Mesh, ratio float64, opts Options) (Level, error) {
	baseFaces := base.FaceCount()
	target := int(math.Round(ratio * float64(baseFaces)))

	var snapshot *mesh.Mesh
	achieved := 0
	if ratio == 1 {
		snapshot = base.Clone()
		achieved = snapshot.FaceCount()
	} else {
		res, err := decimate.Decimate(ctx, src, target, opts.DecimateOptions...)
		if err != nil {
			return Level{}, err
		}
		snapshot = res.Mesh
		achieved = res.AchievedFaces
	}
	snapshot.ComputeNormals()

	return Level{
		Mesh:          snapshot,
		Ratio:         ratio,
		AchievedRatio: float64(achieved) / float64(baseFaces),
		TargetFaces:   target,
		AchievedFaces: achieved,
	}, nil
}
