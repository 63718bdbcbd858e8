package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// FallbackNormal is assigned to vertices whose accumulated normal is zero
// (isolated vertices, or vertices incident only to degenerate faces). The
// alternative would be a silent NaN from normalizing a zero vector.
var FallbackNormal = r3.Vec{Z: 1}

// ComputeNormals computes per-vertex normals by area-weighted accumulation
// of face normals and attaches them to the mesh, replacing any existing ones.
//
// For each face the unnormalized cross product (v2-v1)x(v3-v1) is added to
// the three corner vertices; its magnitude is proportional to the face area,
// so larger faces contribute more. Each accumulated vector is then normalized
// to unit length, or set to FallbackNormal when it is zero.
func (m *Mesh) ComputeNormals() {
	normals := make([]r3.Vec, len(m.Positions))
	for i := range m.Faces {
		cross := m.FaceCross(i)
		f := m.Faces[i]
		normals[f[0]] = r3.Add(normals[f[0]], cross)
		normals[f[1]] = r3.Add(normals[f[1]], cross)
		normals[f[2]] = r3.Add(normals[f[2]], cross)
	}
	for i, n := range normals {
		if r3.Norm2(n) == 0 {
			normals[i] = FallbackNormal
			continue
		}
		normals[i] = r3.Unit(n)
	}
	m.Normals = normals
}
