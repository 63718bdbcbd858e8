package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestComputeNormals(t *testing.T) {
	t.Run("PlanarSquare", func(t *testing.T) {
		// Two CCW triangles in the z=0 plane; every normal must be +Z.
		m := &Mesh{
			Positions: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
			Faces:     [][3]uint32{{0, 1, 2}, {0, 2, 3}},
		}
		m.ComputeNormals()

		require.Len(t, m.Normals, 4)
		for _, n := range m.Normals {
			assert.InDelta(t, 0, n.X, 1e-12)
			assert.InDelta(t, 0, n.Y, 1e-12)
			assert.InDelta(t, 1, n.Z, 1e-12)
		}
	})

	t.Run("WindingFlipsNormal", func(t *testing.T) {
		m := &Mesh{
			Positions: []r3.Vec{{}, {X: 1}, {Y: 1}},
			Faces:     [][3]uint32{{0, 2, 1}},
		}
		m.ComputeNormals()
		assert.InDelta(t, -1, m.Normals[0].Z, 1e-12)
	})

	t.Run("UnitLength", func(t *testing.T) {
		m := &Mesh{
			Positions: []r3.Vec{
				{}, {X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1, Z: 1},
			},
			Faces: [][3]uint32{{0, 1, 2}, {0, 1, 3}, {1, 4, 2}, {2, 4, 3}},
		}
		m.ComputeNormals()
		for _, n := range m.Normals {
			assert.InDelta(t, 1, r3.Norm(n), 1e-5)
		}
	})

	t.Run("IsolatedVertexFallback", func(t *testing.T) {
		m := &Mesh{
			Positions: []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 5, Y: 5, Z: 5}},
			Faces:     [][3]uint32{{0, 1, 2}},
		}
		m.ComputeNormals()
		assert.Equal(t, FallbackNormal, m.Normals[3])
	})

	t.Run("AreaWeighting", func(t *testing.T) {
		// The big +Z face must dominate the small -Z face at the shared corner.
		m := &Mesh{
			Positions: []r3.Vec{
				{}, {X: 10}, {Y: 10}, // big face, +Z
				{X: -1}, {Y: -1}, // small face wound -Z
			},
			Faces: [][3]uint32{{0, 1, 2}, {0, 4, 3}},
		}
		m.ComputeNormals()
		assert.Greater(t, m.Normals[0].Z, 0.0)
	})
}
