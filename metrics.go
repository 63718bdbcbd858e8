package meshopt

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    optimizeCounter   prometheus.Counter
//	    optimizeHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordOptimize(levels int, duration time.Duration, err error) {
//	    p.optimizeCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordDedup is called after each vertex merge pass.
	// removed is the number of vertices merged away, duration is the time taken.
	RecordDedup(removed int, duration time.Duration, err error)

	// RecordOptimize is called after each full optimization run.
	// levels is the number of detail levels built.
	RecordOptimize(levels int, duration time.Duration, err error)

	// RecordSave is called after each document save.
	// size is the encoded document size in bytes.
	RecordSave(size int, duration time.Duration, err error)

	// RecordLoad is called after each document load.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDedup(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordOptimize(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	DedupCount         atomic.Int64
	DedupErrors        atomic.Int64
	DedupRemoved       atomic.Int64
	OptimizeCount      atomic.Int64
	OptimizeErrors     atomic.Int64
	OptimizeLevels     atomic.Int64
	OptimizeTotalNanos atomic.Int64
	SaveCount          atomic.Int64
	SaveErrors         atomic.Int64
	SaveBytes          atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
}

// RecordDedup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDedup(removed int, duration time.Duration, err error) {
	b.DedupCount.Add(1)
	b.DedupRemoved.Add(int64(removed))
	if err != nil {
		b.DedupErrors.Add(1)
	}
}

// RecordOptimize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOptimize(levels int, duration time.Duration, err error) {
	b.OptimizeCount.Add(1)
	b.OptimizeLevels.Add(int64(levels))
	b.OptimizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.OptimizeErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(size int, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveBytes.Add(int64(size))
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DedupCount:       b.DedupCount.Load(),
		DedupErrors:      b.DedupErrors.Load(),
		DedupRemoved:     b.DedupRemoved.Load(),
		OptimizeCount:    b.OptimizeCount.Load(),
		OptimizeErrors:   b.OptimizeErrors.Load(),
		OptimizeLevels:   b.OptimizeLevels.Load(),
		OptimizeAvgNanos: b.getAvgOptimizeNanos(),
		SaveCount:        b.SaveCount.Load(),
		SaveErrors:       b.SaveErrors.Load(),
		SaveBytes:        b.SaveBytes.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgOptimizeNanos() int64 {
	count := b.OptimizeCount.Load()
	if count == 0 {
		return 0
	}
	return b.OptimizeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DedupCount       int64
	DedupErrors      int64
	DedupRemoved     int64
	OptimizeCount    int64
	OptimizeErrors   int64
	OptimizeLevels   int64
	OptimizeAvgNanos int64
	SaveCount        int64
	SaveErrors       int64
	SaveBytes        int64
	LoadCount        int64
	LoadErrors       int64
}
