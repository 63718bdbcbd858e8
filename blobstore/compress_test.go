package blobstore

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressingStore(t *testing.T) {
	zc, err := NewZstdCompressor()
	require.NoError(t, err)

	compressors := []Compressor{zc, LZ4Compressor{}}
	for _, comp := range compressors {
		t.Run(comp.Name(), func(t *testing.T) {
			storeContract(t, NewCompressingStore(NewMemoryStore(), comp))
		})
	}
}

func TestCompressingStoreShrinksRepetitiveData(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()

	zc, err := NewZstdCompressor()
	require.NoError(t, err)
	s := NewCompressingStore(inner, zc)

	// Float-literal runs compress like real documents do.
	data := bytes.Repeat([]byte(`[0.5,0.5,0.5],`), 4096)
	require.NoError(t, s.Put(ctx, "doc.json", data))

	stored, err := ReadAll(ctx, inner, "doc.json")
	require.NoError(t, err)
	assert.Less(t, len(stored), len(data)/2)

	got, err := ReadAll(ctx, s, "doc.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCompressorsRoundTrip(t *testing.T) {
	zc, err := NewZstdCompressor()
	require.NoError(t, err)

	for _, comp := range []Compressor{zc, LZ4Compressor{}} {
		t.Run(comp.Name(), func(t *testing.T) {
			in := []byte("vertices and faces and normals")
			packed, err := comp.Compress(in)
			require.NoError(t, err)

			out, err := comp.Decompress(packed)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestZstdDecompressGarbage(t *testing.T) {
	zc, err := NewZstdCompressor()
	require.NoError(t, err)

	_, err = zc.Decompress([]byte("not zstd"))
	require.Error(t, err)
}
