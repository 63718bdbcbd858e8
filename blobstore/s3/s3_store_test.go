package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ram9299/3dshape-explorer/blobstore"
)

// mockClient is a map-backed Client. Uploads below the part size go
// through single PutObject calls, so the multipart methods only fail.
type mockClient struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockClient() *mockClient {
	return &mockClient{objects: make(map[string][]byte)}
}

func (m *mockClient) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockClient) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (m *mockClient) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (m *mockClient) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockClient) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := aws.ToString(params.Prefix)
	var contents []types.Object
	for key := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			contents = append(contents, types.Object{Key: aws.String(key)})
		}
	}
	return &s3.ListObjectsV2Output{Contents: contents, IsTruncated: aws.Bool(false)}, nil
}

func (m *mockClient) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported in mock")
}

func (m *mockClient) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart not supported in mock")
}

func (m *mockClient) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported in mock")
}

func (m *mockClient) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported in mock")
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMockClient(), "bucket", "models")

	data := []byte(`{"format":"optimized-mesh","version":1}`)
	require.NoError(t, s.Put(ctx, "cube.json", data))

	got, err := blobstore.ReadAll(ctx, s, "cube.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	blob, err := s.Open(ctx, "cube.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), blob.Size())
	require.NoError(t, blob.Close())
}

func TestStoreOpenMissing(t *testing.T) {
	s := NewStore(newMockClient(), "bucket", "")

	_, err := s.Open(context.Background(), "nope.json")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStoreListStripsPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMockClient(), "bucket", "models")

	require.NoError(t, s.Put(ctx, "cube.json", []byte("c")))
	require.NoError(t, s.Put(ctx, "bunny.json", []byte("b")))

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"bunny.json", "cube.json"}, names)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMockClient(), "bucket", "")

	require.NoError(t, s.Put(ctx, "cube.json", []byte("c")))
	require.NoError(t, s.Delete(ctx, "cube.json"))

	_, err := s.Open(ctx, "cube.json")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStoreOptions(t *testing.T) {
	s := NewStore(newMockClient(), "bucket", "", func(o *Options) {
		o.EnableChecksum = false
		o.Concurrency = 2
	})
	assert.False(t, s.opts.EnableChecksum)
	assert.Equal(t, 2, s.opts.Concurrency)
}
