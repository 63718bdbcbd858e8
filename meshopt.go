// Package meshopt turns raw triangle soups into multi-resolution meshes
// ready for progressive loading in 3D viewers.
//
// The pipeline has three stages:
//
//   - Vertex merge: positions closer than a tolerance collapse into shared
//     vertices, turning loose triangles into connected topology.
//   - Decimation: quadric error edge collapses reduce the face count to a
//     target while preserving shape.
//   - Level building: one decimated mesh per detail ratio, each with fresh
//     area-weighted vertex normals.
//
// # Quick Start
//
//	ctx := context.Background()
//	opt, err := meshopt.New(meshopt.WithRatios(1.0, 0.5, 0.2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := opt.Optimize(ctx, soup) // [][3]r3.Vec triangle soup
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store, _ := blobstore.NewLocalStore("./models")
//	if err := opt.SaveDocument(ctx, store, "bunny.json", result.Document()); err != nil {
//	    log.Fatal(err)
//	}
//
// The same configuration is available through a fluent builder:
//
//	opt, err := meshopt.Pipeline().
//	    Epsilon(1e-5).
//	    Ratios(1.0, 0.25).
//	    Progressive().
//	    Build()
//
// Subpackages expose the stages directly (mesh, decimate, lod, stl) for
// callers that need more control than the facade offers.
package meshopt

import (
	"context"
	"errors"
	"io"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Ram9299/3dshape-explorer/blobstore"
	"github.com/Ram9299/3dshape-explorer/lod"
	"github.com/Ram9299/3dshape-explorer/mesh"
	"github.com/Ram9299/3dshape-explorer/resource"
)

// Optimizer runs the optimization pipeline with a fixed configuration.
// It is immutable and safe for concurrent use.
type Optimizer struct {
	opts options
}

// New creates an Optimizer.
func New(optFns ...Option) (*Optimizer, error) {
	opts := applyOptions(optFns)

	for _, r := range opts.ratios {
		if !(r > 0 && r <= 1) {
			return nil, &ErrInvalidRatio{Ratio: r}
		}
	}
	if opts.epsilon != nil && (*opts.epsilon < 0 || math.IsNaN(*opts.epsilon)) {
		return nil, &ErrInvalidEpsilon{Epsilon: *opts.epsilon}
	}

	return &Optimizer{opts: opts}, nil
}

// Result holds the output of one optimization run.
type Result struct {
	// Base is the merged, renormalized full-detail mesh the levels were
	// decimated from.
	Base *mesh.Mesh

	// Levels are the built detail levels, in the configured ratio order.
	Levels []lod.Level

	// MergedVertices is the number of input corners that collapsed into
	// shared vertices during the merge pass.
	MergedVertices int

	// Epsilon is the merge tolerance actually used.
	Epsilon float64
}

// Document converts the result into its serializable form.
func (r *Result) Document() *Document {
	return newDocument(r.Levels)
}

// Optimize runs the full pipeline on a triangle soup: every three entries
// of each element are one triangle's corner positions.
func (o *Optimizer) Optimize(ctx context.Context, soup [][3]r3.Vec) (*Result, error) {
	return o.OptimizeMesh(ctx, mesh.FromSoup(soup))
}

// OptimizeMesh runs the full pipeline on an indexed mesh. The input is
// only read, never written.
func (o *Optimizer) OptimizeMesh(ctx context.Context, m *mesh.Mesh) (*Result, error) {
	start := time.Now()

	result, err := o.optimizeMesh(ctx, m)

	o.opts.metricsCollector.RecordOptimize(len(o.opts.ratios), time.Since(start), err)
	o.opts.logger.LogLevelBuild(ctx, o.opts.ratios, time.Since(start), err)

	if err != nil {
		return nil, translateError(err)
	}
	return result, nil
}

func (o *Optimizer) optimizeMesh(ctx context.Context, m *mesh.Mesh) (*Result, error) {
	epsilon := mesh.DefaultEpsilon(m)
	if o.opts.epsilon != nil {
		epsilon = *o.opts.epsilon
	}

	dedupStart := time.Now()
	base, _, err := mesh.Deduplicate(m, epsilon)

	merged := 0
	if err == nil {
		merged = m.VertexCount() - base.VertexCount()
	}
	o.opts.metricsCollector.RecordDedup(merged, time.Since(dedupStart), err)
	o.opts.logger.LogDedup(ctx, m.VertexCount(), m.VertexCount()-merged, epsilon, err)
	if err != nil {
		return nil, err
	}

	base.ComputeNormals()

	levels, err := lod.Build(ctx, base, o.opts.ratios, func(lo *lod.Options) {
		lo.Progressive = o.opts.progressive
		lo.Parallel = o.opts.parallel
		lo.Controller = o.opts.controller
		lo.DecimateOptions = o.opts.decimateOptions
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Base:           base,
		Levels:         levels,
		MergedVertices: merged,
		Epsilon:        epsilon,
	}, nil
}

// SaveDocument encodes the document and writes it to the store under name.
// Writes respect the optimizer's resource controller IO budget.
func (o *Optimizer) SaveDocument(ctx context.Context, store blobstore.Store, name string, doc *Document) error {
	start := time.Now()

	data, err := o.saveDocument(ctx, store, name, doc)

	o.opts.metricsCollector.RecordSave(len(data), time.Since(start), err)
	o.opts.logger.LogSave(ctx, name, len(data), err)

	return err
}

func (o *Optimizer) saveDocument(ctx context.Context, store blobstore.Store, name string, doc *Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	data, err := o.opts.codec.Marshal(doc)
	if err != nil {
		return nil, err
	}

	if err := o.opts.controller.AcquireIO(ctx, len(data)); err != nil {
		return data, err
	}

	return data, store.Put(ctx, name, data)
}

// LoadDocument reads and decodes the named document from the store.
func (o *Optimizer) LoadDocument(ctx context.Context, store blobstore.Store, name string) (*Document, error) {
	start := time.Now()

	doc, err := o.loadDocument(ctx, store, name)

	o.opts.metricsCollector.RecordLoad(time.Since(start), err)
	o.opts.logger.LogLoad(ctx, name, err)

	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (o *Optimizer) loadDocument(ctx context.Context, store blobstore.Store, name string) (*Document, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	data, err := io.ReadAll(resource.NewRateLimitedReader(ctx, blob, o.opts.controller))
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := o.opts.codec.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}
