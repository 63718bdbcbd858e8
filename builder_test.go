package meshopt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ram9299/3dshape-explorer/codec"
	"github.com/Ram9299/3dshape-explorer/testutil"
)

func TestPipelineBuild(t *testing.T) {
	opt, err := Pipeline().
		Epsilon(1e-5).
		Ratios(1.0, 0.5).
		Codec(codec.JSON{}).
		Build()
	require.NoError(t, err)

	result, err := opt.Optimize(context.Background(), testutil.CubeSoup())
	require.NoError(t, err)
	require.Len(t, result.Levels, 2)
	assert.Equal(t, 1e-5, result.Epsilon)
}

func TestPipelineRejectsBadRatio(t *testing.T) {
	_, err := Pipeline().Ratios(2.0).Build()
	var ir *ErrInvalidRatio
	require.ErrorAs(t, err, &ir)
	assert.Equal(t, 2.0, ir.Ratio)
}

func TestPipelineImmutable(t *testing.T) {
	base := Pipeline().Ratios(1.0)

	// Branching off the same prefix must not leak options across builders.
	a := base.Progressive()
	b := base.Parallel(4)

	optA, err := a.Build()
	require.NoError(t, err)
	optB, err := b.Build()
	require.NoError(t, err)

	assert.True(t, optA.opts.progressive)
	assert.False(t, optB.opts.progressive)
	assert.Equal(t, 4, optB.opts.parallel)
}

func TestPipelineProgressive(t *testing.T) {
	opt, err := Pipeline().
		Ratios(1.0, 0.5, 0.25).
		Progressive().
		Build()
	require.NoError(t, err)

	result, err := opt.Optimize(context.Background(), testutil.SphereSoup(8, 16))
	require.NoError(t, err)
	require.Len(t, result.Levels, 3)

	// Face counts never increase down the chain.
	for i := 1; i < len(result.Levels); i++ {
		assert.LessOrEqual(t, result.Levels[i].AchievedFaces, result.Levels[i-1].AchievedFaces)
	}
}

func TestPipelineExactMerge(t *testing.T) {
	opt, err := Pipeline().ExactMerge().Ratios(1.0).Build()
	require.NoError(t, err)

	result, err := opt.Optimize(context.Background(), testutil.CubeSoup())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Epsilon)
	assert.Equal(t, 8, result.Base.VertexCount())
}

func TestPipelineMidpointPlacement(t *testing.T) {
	opt, err := Pipeline().Ratios(0.5).MidpointPlacement().Build()
	require.NoError(t, err)

	result, err := opt.Optimize(context.Background(), testutil.SphereSoup(6, 12))
	require.NoError(t, err)
	require.NoError(t, result.Levels[0].Mesh.Validate())
}
