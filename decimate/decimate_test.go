package decimate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ram9299/3dshape-explorer/mesh"
	"github.com/Ram9299/3dshape-explorer/testutil"
)

func TestDecimate(t *testing.T) {
	ctx := context.Background()

	t.Run("NoOpWhenTargetNotBelow", func(t *testing.T) {
		m := testutil.Cube()
		m.ComputeNormals()

		res, err := Decimate(ctx, m, 12)
		require.NoError(t, err)
		assert.Equal(t, 12, res.AchievedFaces)
		assert.Equal(t, 0, res.Collapses)
		assert.Equal(t, m.Positions, res.Mesh.Positions)
		assert.Equal(t, m.Faces, res.Mesh.Faces)
		assert.Equal(t, m.Normals, res.Mesh.Normals)

		res, err = Decimate(ctx, m, 100)
		require.NoError(t, err)
		assert.Equal(t, 12, res.AchievedFaces)
	})

	t.Run("CubeToHalf", func(t *testing.T) {
		res, err := Decimate(ctx, testutil.Cube(), 6)
		require.NoError(t, err)

		assert.LessOrEqual(t, res.AchievedFaces, 6)
		assert.Greater(t, res.Mesh.FaceCount(), 0)
		assert.Equal(t, res.AchievedFaces, res.Mesh.FaceCount())
		require.NoError(t, res.Mesh.Validate())
	})

	t.Run("GridTopologyStaysValid", func(t *testing.T) {
		g := testutil.Grid(8)
		res, err := Decimate(ctx, g, g.FaceCount()/4)
		require.NoError(t, err)

		assert.LessOrEqual(t, res.AchievedFaces, g.FaceCount()/4)
		require.NoError(t, res.Mesh.Validate())
		// The source mesh is untouched.
		assert.Equal(t, 2*8*8, g.FaceCount())
	})

	t.Run("Deterministic", func(t *testing.T) {
		g := testutil.Grid(6)
		a, err := Decimate(ctx, g, 20)
		require.NoError(t, err)
		b, err := Decimate(ctx, g, 20)
		require.NoError(t, err)

		assert.Equal(t, a.AchievedFaces, b.AchievedFaces)
		assert.Equal(t, a.Mesh.Positions, b.Mesh.Positions)
		assert.Equal(t, a.Mesh.Faces, b.Mesh.Faces)
	})

	t.Run("MidpointPlacement", func(t *testing.T) {
		res, err := Decimate(ctx, testutil.Cube(), 6, func(o *Options) {
			o.MidpointPlacement = true
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, res.AchievedFaces, 6)
		require.NoError(t, res.Mesh.Validate())
	})

	t.Run("TargetZeroDrainsQueue", func(t *testing.T) {
		res, err := Decimate(ctx, testutil.Cube(), 0)
		require.NoError(t, err)
		// The pass stops when no collapsible edge remains; whatever is left
		// must still be structurally valid.
		require.NoError(t, res.Mesh.Validate())
	})

	t.Run("EmptyMesh", func(t *testing.T) {
		_, err := Decimate(ctx, &mesh.Mesh{}, 4)
		assert.ErrorIs(t, err, mesh.ErrEmptyMesh)
	})

	t.Run("Cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Decimate(cctx, testutil.Cube(), 6)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func BenchmarkDecimateGrid(b *testing.B) {
	g := testutil.Grid(32)
	target := g.FaceCount() / 4
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decimate(context.Background(), g, target); err != nil {
			b.Fatal(err)
		}
	}
}
