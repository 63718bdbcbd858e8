// Package testutil provides testing utilities for the mesh pipeline.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic mesh fixtures (cube, grid, sphere) both as
// indexed meshes and as raw triangle soup, plus a seeded thread-safe RNG
// for jittering geometry.
//
// # Fixtures
//
//	m := testutil.Cube()              // 8 vertices, 12 faces
//	soup := testutil.CubeSoup()       // the same cube as 12 loose triangles
//	g := testutil.Grid(8)             // planar 8x8 quad grid
//	s := testutil.SphereSoup(16, 16)  // lat/lon tessellated unit sphere
//
// # Randomness
//
//	rng := testutil.NewRNG(seed)
//	soup = rng.JitterSoup(soup, 1e-9) // perturb below merge tolerance
package testutil
