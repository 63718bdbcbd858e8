package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor compresses and decompresses whole blobs.
// Implementations must be safe for concurrent use.
type Compressor interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// CompressingStore wraps a Store and transparently compresses blobs on Put
// and decompresses them on Open.
//
// Mesh documents are long runs of float literals and compress well; zstd
// typically shrinks them 4-6x. The compressor must match between writer and
// reader, so pick one per store and keep it.
type CompressingStore struct {
	inner Store
	comp  Compressor
}

// NewCompressingStore wraps inner with the given compressor.
func NewCompressingStore(inner Store, comp Compressor) *CompressingStore {
	return &CompressingStore{inner: inner, comp: comp}
}

// Open opens a blob and decompresses it.
func (s *CompressingStore) Open(ctx context.Context, name string) (Blob, error) {
	compressed, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}

	data, err := s.comp.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%s decompress %q: %w", s.comp.Name(), name, err)
	}

	return &memoryBlob{r: bytes.NewReader(data), size: int64(len(data))}, nil
}

// Put compresses the blob and writes it to the inner store.
func (s *CompressingStore) Put(ctx context.Context, name string, data []byte) error {
	compressed, err := s.comp.Compress(data)
	if err != nil {
		return fmt.Errorf("%s compress %q: %w", s.comp.Name(), name, err)
	}
	return s.inner.Put(ctx, name, compressed)
}

// Delete removes a blob from the inner store.
func (s *CompressingStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List returns all blob names with the given prefix.
func (s *CompressingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// ZstdCompressor is a Compressor backed by klauspost/compress zstd.
// The zero value is not usable; use NewZstdCompressor.
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstdCompressor creates a zstd compressor at the default level.
func NewZstdCompressor() (*ZstdCompressor, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &ZstdCompressor{enc: enc, dec: dec}, nil
}

// Name returns the unique name of the compressor ("zstd").
func (c *ZstdCompressor) Name() string { return "zstd" }

// Compress compresses the data.
func (c *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return c.enc.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

// Decompress decompresses the data.
func (c *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	return c.dec.DecodeAll(data, nil)
}

// LZ4Compressor is a Compressor backed by pierrec/lz4.
// Faster than zstd at a lower compression ratio.
type LZ4Compressor struct{}

// Name returns the unique name of the compressor ("lz4").
func (LZ4Compressor) Name() string { return "lz4" }

// Compress compresses the data.
func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress decompresses the data.
func (LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}
