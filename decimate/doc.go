// Package decimate reduces a triangle mesh to a target face count by
// iterative edge collapse with a quadric error cost metric.
//
// Candidate edges live in a min-heap keyed by collapse cost. Collapses
// invalidate queued candidates lazily: each vertex carries a version counter,
// and a popped candidate whose endpoint versions are stale is skipped instead
// of the queue being rebuilt. Equal-cost candidates are ordered by their
// vertex identifier pair, so a decimation run is reproducible for identical
// input.
package decimate
