package meshopt

import (
	"log/slog"

	"github.com/Ram9299/3dshape-explorer/codec"
	"github.com/Ram9299/3dshape-explorer/decimate"
	"github.com/Ram9299/3dshape-explorer/resource"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
	epsilon          *float64 // nil means size-relative default
	ratios           []float64
	progressive      bool
	parallel         int
	decimateOptions  []func(*decimate.Options)
}

// Option configures Optimizer behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. codec-specific constructor variants).
type Option func(*options)

// WithCodec configures the codec used for encoding documents.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithEpsilon sets an absolute vertex merge tolerance.
//
// Vertices closer than epsilon along every axis may merge into one.
// Zero means exact bitwise matching only. When this option is absent the
// tolerance scales with the mesh bounding box, so models keep merging
// correctly whatever their units.
func WithEpsilon(epsilon float64) Option {
	return func(o *options) {
		e := epsilon
		o.epsilon = &e
	}
}

// WithRatios sets the detail ratios to build, each in (0, 1].
// Default: 1.0, 0.5, 0.25.
func WithRatios(ratios ...float64) Option {
	return func(o *options) {
		o.ratios = ratios
	}
}

// WithProgressive chains decimation so each level continues from the
// previous level's output instead of restarting from the base mesh.
// Progressive runs are serial.
func WithProgressive() Option {
	return func(o *options) {
		o.progressive = true
	}
}

// WithParallel sets the maximum number of levels built concurrently.
// Values below 1 mean serial. Ignored for progressive runs.
func WithParallel(n int) Option {
	return func(o *options) {
		o.parallel = n
	}
}

// WithResourceController gates level workers and store IO through the
// given controller. Useful when several optimizers share one process.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithDecimateOptions forwards low-level tuning to every decimation pass.
//
// Example:
//
//	opt, _ := meshopt.New(meshopt.WithDecimateOptions(func(o *decimate.Options) {
//	    o.MidpointPlacement = true
//	}))
func WithDecimateOptions(optFns ...func(*decimate.Options)) Option {
	return func(o *options) {
		o.decimateOptions = append(o.decimateOptions, optFns...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &meshopt.BasicMetricsCollector{}
//	opt, _ := meshopt.New(meshopt.WithMetricsCollector(metrics))
//	// ... use opt ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.OptimizeCount, stats.OptimizeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := meshopt.NewJSONLogger(slog.LevelInfo)
//	opt, _ := meshopt.New(meshopt.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		ratios:           []float64{1.0, 0.5, 0.25},
		parallel:         1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
