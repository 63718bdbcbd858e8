package stl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ram9299/3dshape-explorer/mesh"
	"github.com/Ram9299/3dshape-explorer/testutil"
)

func TestBinaryRoundTrip(t *testing.T) {
	cube := testutil.Cube()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cube))
	assert.Equal(t, 80+4+12*50, buf.Len())

	soup, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, soup, 12)

	// Rebuilding and deduplicating the soup recovers the cube topology.
	rebuilt, _, err := mesh.Deduplicate(mesh.FromSoup(soup), 0)
	require.NoError(t, err)
	assert.Equal(t, 8, rebuilt.VertexCount())
	assert.Equal(t, 12, rebuilt.FaceCount())
}

func TestReadASCII(t *testing.T) {
	const src = `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid tri
`
	soup, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, soup, 1)
	assert.Equal(t, 1.0, soup[0][1].X)
	assert.Equal(t, 1.0, soup[0][2].Y)
}

func TestReadASCIIErrors(t *testing.T) {
	t.Run("TruncatedVertex", func(t *testing.T) {
		_, err := Read(strings.NewReader("solid x\nvertex 0 0"))
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("BadCoordinate", func(t *testing.T) {
		_, err := Read(strings.NewReader("solid x\nvertex a b c\nvertex 0 0 0\nvertex 1 1 1"))
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("NoTriangles", func(t *testing.T) {
		_, err := Read(strings.NewReader("solid empty\nendsolid empty"))
		assert.ErrorIs(t, err, ErrFormat)
	})
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadTruncatedBinary(t *testing.T) {
	cube := testutil.Cube()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cube))

	// Chop the last record: the declared count no longer matches the size,
	// and the bytes are not ASCII either.
	_, err := Read(bytes.NewReader(buf.Bytes()[:buf.Len()-10]))
	assert.ErrorIs(t, err, ErrFormat)
}
