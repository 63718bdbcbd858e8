package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh.
//
// Positions holds one entry per vertex; the slice index is the vertex
// identifier. Normals is either empty or parallel to Positions. Faces are
// counter-clockwise index triples into Positions.
type Mesh struct {
	Positions []r3.Vec
	Normals   []r3.Vec
	Faces     [][3]uint32
}

// FromSoup assembles a mesh from a triangle soup as produced by an STL
// decoder. Every triangle contributes three fresh vertices; run Deduplicate
// afterwards to merge coincident ones.
func FromSoup(triangles [][3]r3.Vec) *Mesh {
	m := &Mesh{
		Positions: make([]r3.Vec, 0, len(triangles)*3),
		Faces:     make([][3]uint32, 0, len(triangles)),
	}
	for _, tri := range triangles {
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions, tri[0], tri[1], tri[2])
		m.Faces = append(m.Faces, [3]uint32{base, base + 1, base + 2})
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// HasNormals reports whether per-vertex normals are attached.
func (m *Mesh) HasNormals() bool { return len(m.Normals) == len(m.Positions) && len(m.Positions) > 0 }

// Clone returns a deep copy. The copy shares no backing arrays with m.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Positions: make([]r3.Vec, len(m.Positions)),
		Faces:     make([][3]uint32, len(m.Faces)),
	}
	copy(c.Positions, m.Positions)
	copy(c.Faces, m.Faces)
	if len(m.Normals) > 0 {
		c.Normals = make([]r3.Vec, len(m.Normals))
		copy(c.Normals, m.Normals)
	}
	return c
}

// Bounds returns the axis-aligned bounding box of the vertex set.
// For an empty mesh both corners are the zero vector.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	if len(m.Positions) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max
}

// BoundsDiagonal returns the length of the bounding box diagonal.
func (m *Mesh) BoundsDiagonal() float64 {
	min, max := m.Bounds()
	return r3.Norm(r3.Sub(max, min))
}

// FaceCross returns the unnormalized cross product (v2-v1)x(v3-v1) of face i.
// Its magnitude is twice the face area and its direction follows the winding.
func (m *Mesh) FaceCross(i int) r3.Vec {
	f := m.Faces[i]
	v1 := m.Positions[f[0]]
	v2 := m.Positions[f[1]]
	v3 := m.Positions[f[2]]
	return r3.Cross(r3.Sub(v2, v1), r3.Sub(v3, v1))
}

// FaceArea returns the area of face i.
func (m *Mesh) FaceArea(i int) float64 {
	return 0.5 * r3.Norm(m.FaceCross(i))
}

// Validate checks the structural invariants: every face index references an
// existing vertex, the three indices of a face are pairwise distinct, normals
// (if present) are parallel to positions, and no two faces are identical as
// unordered triples.
func (m *Mesh) Validate() error {
	if len(m.Normals) > 0 && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("mesh: %d normals for %d vertices", len(m.Normals), len(m.Positions))
	}
	n := uint32(len(m.Positions))
	seen := make(map[[3]uint32]struct{}, len(m.Faces))
	for i, f := range m.Faces {
		if f[0] >= n || f[1] >= n || f[2] >= n {
			return fmt.Errorf("mesh: face %d references vertex out of range", i)
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			return fmt.Errorf("mesh: face %d has repeated vertex", i)
		}
		key := sortedTriple(f)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("mesh: duplicate face %d", i)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// sortedTriple canonicalizes a face as an unordered index triple.
func sortedTriple(f [3]uint32) [3]uint32 {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]uint32{a, b, c}
}
