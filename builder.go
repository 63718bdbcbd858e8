// This file implements the fluent builder API for configuring optimizers.
// The builder is immutable - each method returns a new builder with the
// updated configuration.
package meshopt

import (
	"github.com/Ram9299/3dshape-explorer/codec"
	"github.com/Ram9299/3dshape-explorer/decimate"
	"github.com/Ram9299/3dshape-explorer/resource"
)

// Pipeline creates a new optimizer builder with default settings.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents
// accidental state sharing.
//
// Example:
//
//	opt, err := meshopt.Pipeline().
//	    Epsilon(1e-5).
//	    Ratios(1.0, 0.5, 0.2).
//	    Parallel(4).
//	    Build()
func Pipeline() Builder {
	return Builder{}
}

// Builder is an immutable fluent builder for creating Optimizer instances.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	optFns []Option
}

func (b Builder) with(opt Option) Builder {
	// Copy so shared prefixes never alias the same backing array.
	optFns := make([]Option, len(b.optFns), len(b.optFns)+1)
	copy(optFns, b.optFns)
	return Builder{optFns: append(optFns, opt)}
}

// Epsilon sets an absolute vertex merge tolerance.
// Zero means exact bitwise matching only.
func (b Builder) Epsilon(epsilon float64) Builder {
	return b.with(WithEpsilon(epsilon))
}

// ExactMerge disables tolerance-based merging; only bitwise-identical
// positions collapse. Shorthand for Epsilon(0).
func (b Builder) ExactMerge() Builder {
	return b.with(WithEpsilon(0))
}

// Ratios sets the detail ratios to build, each in (0, 1].
func (b Builder) Ratios(ratios ...float64) Builder {
	return b.with(WithRatios(ratios...))
}

// Progressive chains decimation level-to-level instead of restarting
// from the base mesh.
func (b Builder) Progressive() Builder {
	return b.with(WithProgressive())
}

// Parallel sets the maximum number of levels built concurrently.
func (b Builder) Parallel(n int) Builder {
	return b.with(WithParallel(n))
}

// MidpointPlacement places collapsed vertices at edge midpoints instead
// of the quadric-optimal position. Faster, lower fidelity.
func (b Builder) MidpointPlacement() Builder {
	return b.with(WithDecimateOptions(func(o *decimate.Options) {
		o.MidpointPlacement = true
	}))
}

// Codec sets the document codec.
func (b Builder) Codec(c codec.Codec) Builder {
	return b.with(WithCodec(c))
}

// Controller gates workers and store IO through the given controller.
func (b Builder) Controller(c *resource.Controller) Builder {
	return b.with(WithResourceController(c))
}

// Logger sets the structured logger.
func (b Builder) Logger(l *Logger) Builder {
	return b.with(WithLogger(l))
}

// Metrics sets the metrics collector.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	return b.with(WithMetricsCollector(mc))
}

// Build creates the Optimizer.
func (b Builder) Build() (*Optimizer, error) {
	return New(b.optFns...)
}
