// Package blobstore provides storage abstraction for optimized-mesh documents.
//
// Store is the interface for reading and writing documents. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic writes
//   - MemoryStore: in-memory store for testing
//   - CompressingStore: transparent compression wrapper (zstd, lz4)
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible object storage
//
// Documents are small relative to the meshes they describe and are always
// read and written whole, so Blob is a plain io.ReadCloser rather than a
// random-access handle.
package blobstore
