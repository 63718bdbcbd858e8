package lod

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Ram9299/3dshape-explorer/mesh"
	"github.com/Ram9299/3dshape-explorer/resource"
	"github.com/Ram9299/3dshape-explorer/testutil"
)

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("RatioOneReproducesBase", func(t *testing.T) {
		base := testutil.Cube()
		levels, err := Build(ctx, base, []float64{1.0})
		require.NoError(t, err)
		require.Len(t, levels, 1)

		lvl := levels[0]
		assert.Equal(t, base.Positions, lvl.Mesh.Positions)
		assert.Equal(t, base.Faces, lvl.Mesh.Faces)
		assert.True(t, lvl.Mesh.HasNormals())
		assert.Equal(t, 12, lvl.AchievedFaces)
		assert.Equal(t, 1.0, lvl.AchievedRatio)
	})

	t.Run("OrderedAndMonotonic", func(t *testing.T) {
		g := testutil.Grid(8)
		ratios := []float64{0.25, 0.75, 1.0}
		levels, err := Build(ctx, g, ratios)
		require.NoError(t, err)
		require.Len(t, levels, 3)

		for i, lvl := range levels {
			assert.Equal(t, ratios[i], lvl.Ratio)
			require.NoError(t, lvl.Mesh.Validate())
		}
		assert.LessOrEqual(t, levels[0].AchievedFaces, levels[1].AchievedFaces)
		assert.LessOrEqual(t, levels[1].AchievedFaces, levels[2].AchievedFaces)
	})

	t.Run("NormalsUnitLength", func(t *testing.T) {
		levels, err := Build(ctx, testutil.Grid(6), []float64{1.0, 0.5})
		require.NoError(t, err)
		for _, lvl := range levels {
			require.True(t, lvl.Mesh.HasNormals())
			for _, n := range lvl.Mesh.Normals {
				if n == mesh.FallbackNormal {
					continue
				}
				assert.InDelta(t, 1, r3.Norm(n), 1e-5)
			}
		}
	})

	t.Run("LevelsDoNotAlias", func(t *testing.T) {
		base := testutil.Cube()
		levels, err := Build(ctx, base, []float64{1.0, 1.0})
		require.NoError(t, err)

		levels[0].Mesh.Positions[0] = r3.Vec{X: 99}
		assert.NotEqual(t, levels[0].Mesh.Positions[0], levels[1].Mesh.Positions[0])
		assert.Equal(t, r3.Vec{}, base.Positions[0])
	})

	t.Run("ParallelMatchesSerial", func(t *testing.T) {
		g := testutil.Grid(8)
		ratios := []float64{1.0, 0.5, 0.25}

		serial, err := Build(ctx, g, ratios)
		require.NoError(t, err)
		parallel, err := Build(ctx, g, ratios, func(o *Options) {
			o.Parallel = 4
		})
		require.NoError(t, err)

		for i := range serial {
			assert.Equal(t, serial[i].Mesh.Positions, parallel[i].Mesh.Positions)
			assert.Equal(t, serial[i].Mesh.Faces, parallel[i].Mesh.Faces)
			assert.Equal(t, serial[i].AchievedFaces, parallel[i].AchievedFaces)
		}
	})

	t.Run("Progressive", func(t *testing.T) {
		g := testutil.Grid(8)
		levels, err := Build(ctx, g, []float64{1.0, 0.5, 0.25}, func(o *Options) {
			o.Progressive = true
		})
		require.NoError(t, err)
		require.Len(t, levels, 3)

		assert.LessOrEqual(t, levels[2].AchievedFaces, levels[1].AchievedFaces)
		assert.LessOrEqual(t, levels[1].AchievedFaces, levels[0].AchievedFaces)
		for _, lvl := range levels {
			require.NoError(t, lvl.Mesh.Validate())
		}
	})

	t.Run("ProgressiveRatioOneMidChain", func(t *testing.T) {
		// A full-detail level after a decimated one must reproduce the base
		// mesh, not clone the already-decimated predecessor.
		g := testutil.Grid(8)
		levels, err := Build(ctx, g, []float64{0.5, 1.0}, func(o *Options) {
			o.Progressive = true
		})
		require.NoError(t, err)
		require.Len(t, levels, 2)

		assert.Less(t, levels[0].AchievedFaces, g.FaceCount())
		assert.Equal(t, g.FaceCount(), levels[1].AchievedFaces)
		assert.Equal(t, g.Positions, levels[1].Mesh.Positions)
		assert.Equal(t, g.Faces, levels[1].Mesh.Faces)
	})

	t.Run("WithController", func(t *testing.T) {
		c := resource.NewController(resource.Config{MaxWorkers: 2})
		levels, err := Build(ctx, testutil.Grid(4), []float64{1.0, 0.5, 0.25}, func(o *Options) {
			o.Parallel = 8
			o.Controller = c
		})
		require.NoError(t, err)
		assert.Len(t, levels, 3)
	})

	t.Run("InvalidRatio", func(t *testing.T) {
		for _, bad := range []float64{0, -0.5, 1.5, math.NaN()} {
			_, err := Build(ctx, testutil.Cube(), []float64{bad})

			var inv *ErrInvalidRatio
			require.True(t, errors.As(err, &inv), "ratio %v", bad)
		}
	})

	t.Run("EmptyBase", func(t *testing.T) {
		_, err := Build(ctx, &mesh.Mesh{}, []float64{1.0})
		assert.ErrorIs(t, err, mesh.ErrEmptyMesh)
	})

	t.Run("Cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Build(cctx, testutil.Grid(8), []float64{0.25})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
