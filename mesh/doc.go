// Package mesh defines the triangle mesh model shared by the optimization
// pipeline: vertex positions, per-vertex normals and index faces.
//
// A Mesh owns its buffers. Operations that need an isolated copy (decimation,
// LOD building) must Clone first; nothing in this package shares backing
// arrays between meshes.
package mesh
